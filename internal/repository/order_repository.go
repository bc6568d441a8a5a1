package repository

import (
	"context"

	"app/internal/domain/model"
)

// 注文一覧の絞り込み。UserIDがnilなら全ユーザー分（admin）。
type OrderListFilter struct {
	UserID *int64
	Status string
}

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) error
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	Delete(ctx context.Context, orderID string) error
}
