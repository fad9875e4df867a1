package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartRepository interface {
	//ユーザーのカートを取得し、無ければ作る
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
	//カートの明細を全削除
	Clear(ctx context.Context, cartID int64) error
}
