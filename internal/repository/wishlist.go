package repository

import (
	"context"

	"app/internal/domain/model"
)

type WishlistRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.Wishlist, error)
	//既にあれば何もしない
	GetOrCreate(ctx context.Context, userID int64, productID int64) error
	//無ければErrNotFound
	DeleteByUserAndProduct(ctx context.Context, userID int64, productID int64) error
}
