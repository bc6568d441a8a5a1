package model

// 注文明細
// 商品名・画像・価格は購入時点のスナップショット。後から商品を編集・削除しても変わらない。
type OrderItem struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      string `gorm:"type:varchar(50);not null;index" json:"order_id"`
	ProductID    *int64 `gorm:"index" json:"product_id"`
	ProductName  string `gorm:"type:varchar(200);not null" json:"product_name"`
	ProductImage string `gorm:"type:varchar(500)" json:"product_image"`
	Price        int64  `gorm:"not null" json:"price"`
	Quantity     int64  `gorm:"not null" json:"quantity"`
}
