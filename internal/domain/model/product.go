package model

import "time"

// Colorsはカンマ区切りで保存し、APIでは配列に変換して返す。
type Product struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"type:varchar(200);not null" json:"name"`
	Category      string    `gorm:"type:varchar(100);not null;index" json:"category"`
	OriginalPrice int64     `gorm:"not null" json:"original_price"`
	SalePrice     int64     `gorm:"not null" json:"sale_price"`
	Stock         int64     `gorm:"not null;default:0" json:"stock"`
	Image         string    `gorm:"type:varchar(500)" json:"image"`
	Description   string    `gorm:"type:text" json:"description"`
	Colors        string    `gorm:"type:varchar(200)" json:"-"`
	Discount      int64     `gorm:"not null;default:0" json:"discount"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
