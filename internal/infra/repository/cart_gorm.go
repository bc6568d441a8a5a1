package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

func (r *CartGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

// カート行に商品のライブ値（名前/画像/sale_price/在庫）をjoinして返す。
// チェックアウトはこの結果だけを見て検証・計算する。
func (r *CartGormRepository) ListCheckoutLines(ctx context.Context, userID int64) ([]repo.CheckoutLine, error) {
	var lines []repo.CheckoutLine

	err := r.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.product_id, cart_items.quantity, products.name, products.image, products.sale_price as price, products.stock").
		Joins("join products on products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.id asc").
		Scan(&lines).Error
	if err != nil {
		return []repo.CheckoutLine{}, err
	}

	return lines, nil
}

func (r *CartGormRepository) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// 同一商品は数量加算
func (r *CartGormRepository) Upsert(ctx context.Context, userID int64, productID int64, addQty int64) error {
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.CartItem

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			First(&item).Error

		if err == nil {
			// 既存ありだったら数量を増やす
			res := tx.Model(&model.CartItem{}).
				Where("id = ?", item.ID).
				Update("quantity", item.Quantity+addQty)

			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		//無い場合は新規作成
		newItem := model.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  addQty,
			CreatedAt: time.Now(),
		}

		if err := tx.Create(&newItem).Error; err != nil {
			return err
		}

		return nil
	})
}

func (r *CartGormRepository) UpdateQuantity(ctx context.Context, userID int64, productID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartGormRepository) DeleteByUserAndProduct(ctx context.Context, userID int64, productID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.CartItem{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ユーザーのカートを全削除。0件でもエラーにしない。
func (r *CartGormRepository) ClearByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}
