package repository

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 商品一覧を検索/カテゴリ/価格帯/ソート付きで返す。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	tx := r.db.WithContext(ctx).Model(&model.Product{})

	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}

	//価格帯はsale_priceを対象
	if q.MinPrice != nil {
		tx = tx.Where("sale_price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("sale_price <= ?", *q.MaxPrice)
	}

	//nameとcategoryを部分一致で検索
	if strings.TrimSpace(q.Search) != "" {
		like := "%" + strings.TrimSpace(q.Search) + "%"
		tx = tx.Where("name ILIKE ? OR category ILIKE ?", like, like)
	}

	switch q.Sort {
	case "price-low":
		tx = tx.Order("sale_price asc").Order("id asc")
	case "price-high":
		tx = tx.Order("sale_price desc").Order("id desc")
	case "name":
		tx = tx.Order("name asc").Order("id asc")
	default:
		tx = tx.Order("created_at desc").Order("id desc")
	}

	var products []model.Product
	if err := tx.Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, productID int64) (model.Product, error) {
	var p model.Product

	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":           p.Name,
			"category":       p.Category,
			"original_price": p.OriginalPrice,
			"sale_price":     p.SalePrice,
			"stock":          p.Stock,
			"image":          p.Image,
			"description":    p.Description,
			"colors":         p.Colors,
			"discount":       p.Discount,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) Delete(ctx context.Context, productID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, productID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
