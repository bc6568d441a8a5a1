package model

import "time"

// カートの明細
// 1ユーザー×1商品につき1行。価格は持たない（チェックアウト時に商品から読む）。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int64     `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
