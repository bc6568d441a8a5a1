package repository

import (
	"context"

	"app/internal/domain/model"
)

// GET /products の絞り込み条件
type ProductListQuery struct {
	Category string
	MinPrice *int64
	MaxPrice *int64
	Search   string
	Sort     string // price-low / price-high / name / ""（新着順）
}

type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	FindByID(ctx context.Context, productID int64) (model.Product, error)
	Create(ctx context.Context, p model.Product) (int64, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, productID int64) error
}
