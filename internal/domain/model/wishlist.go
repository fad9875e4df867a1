package model

import "time"

// お気に入り。(user, product)はユニーク
type Wishlist struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index;uniqueIndex:uq_user_product" json:"user_id"`
	ProductID int64     `gorm:"not null;index;uniqueIndex:uq_user_product" json:"product_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
