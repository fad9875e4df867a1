package model

import "time"

// 注文明細。購入時点の価格と商品名をスナップショットで持つ。
// 商品が削除されてもproduct_idをNULLにして明細は残す。
type OrderItem struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64     `gorm:"not null;index" json:"order_id"`
	ProductID           *int64    `gorm:"index" json:"product_id"`
	ProductNameSnapshot string    `gorm:"type:varchar(200);not null" json:"product_name"`
	Quantity            int64     `gorm:"not null;default:1" json:"quantity"`
	PriceAtPurchase     int64     `gorm:"not null" json:"price_at_purchase"`
	CreatedAt           time.Time `gorm:"not null;autoCreateTime" json:"-"`
}

// 購入時価格×数量
func (i OrderItem) Subtotal() int64 {
	return i.PriceAtPurchase * i.Quantity
}
