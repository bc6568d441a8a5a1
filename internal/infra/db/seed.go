package db

import (
	"context"
	"errors"

	"app/internal/domain/model"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@jaystore.com"
	defaultAdminPassword = "admin123"
)

// Seed は初回起動用の初期データを入れる。
// 管理者が居なければ作成、商品が0件ならサンプルカタログを投入。
func Seed(ctx context.Context, gormDB *gorm.DB, log *logrus.Logger) error {
	if err := seedAdmin(ctx, gormDB, log); err != nil {
		return err
	}
	return seedProducts(ctx, gormDB, log)
}

func seedAdmin(ctx context.Context, gormDB *gorm.DB, log *logrus.Logger) error {
	var admin model.User
	err := gormDB.WithContext(ctx).
		Where("email = ?", defaultAdminEmail).
		First(&admin).Error

	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u := model.User{
		Name:         "Admin",
		Email:        defaultAdminEmail,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := gormDB.WithContext(ctx).Create(&u).Error; err != nil {
		return err
	}

	log.WithField("email", defaultAdminEmail).Info("default admin created")
	return nil
}

func seedProducts(ctx context.Context, gormDB *gorm.DB, log *logrus.Logger) error {
	var count int64
	if err := gormDB.WithContext(ctx).Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	samples := []model.Product{
		{Name: "3D™ Wireless Headset", Category: "Audio", OriginalPrice: 500000, SalePrice: 400000, Stock: 50, Image: "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400", Description: "High quality wireless headset with 3D audio", Colors: "red,black,blue", Discount: 20},
		{Name: "PS5 DualShock Wireless Controller", Category: "Gaming", OriginalPrice: 899000, SalePrice: 599000, Stock: 30, Image: "https://images.unsplash.com/photo-1606144042614-b2417e99c4e3?w=400", Description: "Wireless controller for PlayStation", Colors: "black,blue", Discount: 33},
		{Name: "RGB Gaming Keyboard & Mouse", Category: "Accessories", OriginalPrice: 750000, SalePrice: 499000, Stock: 25, Image: "https://images.unsplash.com/photo-1541140532154-b024d705b90a?w=400", Description: "Mechanical gaming keyboard with RGB lighting", Colors: "black", Discount: 33},
		{Name: "Logitech Streamcam", Category: "Electronics", OriginalPrice: 2190000, SalePrice: 1990000, Stock: 15, Image: "https://images.unsplash.com/photo-1587826080692-f439cd0b70da?w=400", Description: "Full HD streaming webcam", Colors: "white,black", Discount: 9},
		{Name: "3D™ Wireless Speaker", Category: "Audio", OriginalPrice: 650000, SalePrice: 387000, Stock: 40, Image: "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?w=400", Description: "Portable wireless speaker with deep bass", Colors: "black,blue", Discount: 40},
		{Name: "Bass Meets Clarity Speaker", Category: "Audio", OriginalPrice: 400000, SalePrice: 233000, Stock: 20, Image: "https://images.unsplash.com/photo-1545454675-3531b543be5d?w=400", Description: "Smart speaker with voice assistant", Colors: "red,black,blue", Discount: 42},
		{Name: "Logitech Gaming Mouse", Category: "Accessories", OriginalPrice: 350000, SalePrice: 250000, Stock: 60, Image: "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=400", Description: "Ergonomic gaming mouse with RGB", Colors: "black,white", Discount: 29},
		{Name: "PlayStation Controller Black", Category: "Gaming", OriginalPrice: 899000, SalePrice: 599000, Stock: 35, Image: "https://images.unsplash.com/photo-1592840496694-26d035b52b48?w=400", Description: "DualSense wireless controller", Colors: "red,black,blue", Discount: 33},
		{Name: "Zone Headphone Pro", Category: "Audio", OriginalPrice: 2000000, SalePrice: 1790000, Stock: 10, Image: "https://images.unsplash.com/photo-1583394838336-acd977736f90?w=400", Description: "Premium noise-cancelling headphones", Colors: "black,silver", Discount: 11},
	}

	if err := gormDB.WithContext(ctx).Create(&samples).Error; err != nil {
		return err
	}

	log.WithField("count", len(samples)).Info("sample products inserted")
	return nil
}
