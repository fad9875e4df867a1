package repository

import (
	"context"

	"app/internal/domain/model"
)

type CategoryRepository interface {
	//名前順で全件
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	//大文字小文字を無視した名前一致
	FindByNameIgnoreCase(ctx context.Context, name string) (model.Category, error)
	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, c model.Category) error
	Delete(ctx context.Context, id int64) error
}
