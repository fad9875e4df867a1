package repository

import (
	"context"

	"app/internal/domain/model"
)

// 商品一覧の検索条件
type ProductListQuery struct {
	Page  int
	Limit int

	//name部分一致（大文字小文字無視）
	Name string
	//カテゴリ名の完全一致（大文字小文字無視）
	Category string
	//name/description/カテゴリ名の横断検索
	Search string

	MinPrice *int64
	MaxPrice *int64

	//true: 在庫>0 / false: 在庫==0
	InStock     *bool
	IsAvailable *bool

	//"price","-price","name","-name","created_date","-created_date","stock_quantity","-stock_quantity"
	Ordering string
}

// 商品の永続化だけを約束
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id int64) error

	//カテゴリに属する商品数（product_count用）
	CountByCategoryID(ctx context.Context, categoryID int64) (int64, error)

	//エクスポート用に全件
	ListAll(ctx context.Context) ([]model.Product, error)
}

// 在庫操作だけを切り出した約束
type InventoryRepository interface {
	// 在庫が足りるときだけ減算する（足りなければfalse）
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセルなど）
	IncreaseStock(ctx context.Context, productID int64, qty int64) error
}
