package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) error {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return err
	}
	return nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	var o model.Order

	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})

	//user_id絞り込み（customerは自分の分だけ）
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}

	//status絞り込み
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var orders []model.Order
	if err := q.Order("created_at desc").Order("id desc").Find(&orders).Error; err != nil {
		return []model.Order{}, err
	}

	return orders, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) Delete(ctx context.Context, orderID string) error {
	//明細→ヘッダの順で消す
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", orderID).Delete(&model.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}
