package model

import "time"

// 価格は最小通貨単位（セント）のint64で持つ
type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(200);not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Price       int64  `gorm:"not null;index" json:"price"`

	CategoryID int64 `gorm:"not null;index" json:"category"`

	StockQuantity int64 `gorm:"not null;default:0" json:"stock_quantity"`

	ImageURL string `gorm:"type:varchar(500)" json:"image_url"`

	//商品を作成したユーザー（削除時はNULLにして商品は残す）
	CreatedBy *int64 `gorm:"index" json:"created_by"`

	IsAvailable bool `gorm:"not null;default:true" json:"is_available"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_date"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_date"`
}

// 在庫が1以上あるか
func (p Product) InStock() bool {
	return p.StockQuantity > 0
}
