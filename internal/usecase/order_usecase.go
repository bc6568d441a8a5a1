package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/sirupsen/logrus"
)

// OrderUsecaseは作成済み注文の参照と管理操作。
// 作成そのものはCheckoutUsecaseが担当する。
type OrderUsecase struct {
	tx  repo.TransactionManager
	log *logrus.Logger
}

func NewOrderUsecase(tx repo.TransactionManager, log *logrus.Logger) *OrderUsecase {
	return &OrderUsecase{tx: tx, log: log}
}

type OrderItemOutput struct {
	ProductID    *int64 `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	Price        int64  `json:"price"`
	Quantity     int64  `json:"quantity"`
}

type CustomerOutput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type OrderOutput struct {
	ID        string            `json:"id"`
	UserID    *int64            `json:"user_id"`
	Customer  CustomerOutput    `json:"customer"`
	Total     int64             `json:"total"`
	Status    string            `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	Items     []OrderItemOutput `json:"items"`
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductImage: it.ProductImage,
			Price:        it.Price,
			Quantity:     it.Quantity,
		})
	}

	return OrderOutput{
		ID:     o.ID,
		UserID: o.UserID,
		Customer: CustomerOutput{
			Name:    o.CustomerName,
			Email:   o.CustomerEmail,
			Phone:   o.CustomerPhone,
			Address: o.CustomerAddress,
		},
		Total:     o.Total,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		Items:     outItems,
	}
}

// 一覧。adminは全件、customerは自分の分だけ。statusで絞り込める。
func (u *OrderUsecase) ListOrders(ctx context.Context, userID int64, isAdmin bool, status string) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	status = strings.TrimSpace(status)
	if status != "" && !model.OrderStatus(status).Valid() {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	f := repo.OrderListFilter{Status: status}
	if !isAdmin {
		f.UserID = &userID
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().List(ctx, f)
		if err != nil {
			u.log.WithError(err).Error("list orders failed")
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				u.log.WithError(err).Error("list order items failed")
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetOrderDetail(ctx context.Context, userID int64, isAdmin bool, orderID string) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(orderID) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			u.log.WithError(err).Error("find order failed")
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//他人の注文は「存在しない扱い」にする
		if !isAdmin && (o.UserID == nil || *o.UserID != userID) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			u.log.WithError(err).Error("list order items failed")
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// ステータス更新（admin）。
// 5種のどれへでも変更できる。遷移表は持たない。
func (u *OrderUsecase) AdminUpdateStatus(ctx context.Context, adminUserID int64, orderID string, status string) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(orderID) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(status))
	if !newStatus.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		err := r.Orders().UpdateStatus(ctx, orderID, newStatus)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			u.log.WithError(err).Error("update order status failed")
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 注文削除（admin）。明細ごと消える。
func (u *OrderUsecase) AdminDeleteOrder(ctx context.Context, adminUserID int64, orderID string) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(orderID) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		err := r.Orders().Delete(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			u.log.WithError(err).Error("delete order failed")
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}
