package repository

import (
	"context"

	"app/internal/domain/model"
)

type ReviewRepository interface {
	Create(ctx context.Context, r model.Review) (model.Review, error)
	//新しい順
	ListByProductID(ctx context.Context, productID int64) ([]model.Review, error)
}
