package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// 5種のどれかならtrue
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// 注文ヘッダ
// 顧客情報は作成時点のスナップショット。user_idはユーザー削除後もnullで残す。
type Order struct {
	ID              string      `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID          *int64      `gorm:"index" json:"user_id"`
	CustomerName    string      `gorm:"type:varchar(100);not null" json:"customer_name"`
	CustomerEmail   string      `gorm:"type:varchar(100);not null" json:"customer_email"`
	CustomerPhone   string      `gorm:"type:varchar(20)" json:"customer_phone"`
	CustomerAddress string      `gorm:"type:text" json:"customer_address"`
	Total           int64       `gorm:"not null" json:"total"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;index;default:'pending'" json:"status"`
	CreatedAt       time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
}
