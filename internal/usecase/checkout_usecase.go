package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/sirupsen/logrus"
)

// CheckoutUsecaseはカートから注文を作る。
// 検証・注文書き込み・在庫減算・カート削除を1トランザクションで行い、
// 途中で失敗したら何も残さない。
type CheckoutUsecase struct {
	tx       repo.TransactionManager
	orderIDs OrderIDGenerator
	log      *logrus.Logger
}

func NewCheckoutUsecase(tx repo.TransactionManager, orderIDs OrderIDGenerator, log *logrus.Logger) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx, orderIDs: orderIDs, log: log}
}

// 配送先はこの時点の入力をスナップショットとして注文に保存する
type PlaceOrderInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type PlaceOrderOutput struct {
	OrderID string `json:"order_id"`
}

func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (PlaceOrderOutput, error) {
	if userID <= 0 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "name and email are required")
	}
	if len(name) > 100 || len(email) > 100 || len(in.Phone) > 20 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid contact fields")
	}

	var orderID string

	//注文処理はトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カート取得（商品の現在価格・在庫をjoinで読む）
		lines, err := r.Carts().ListCheckoutLines(ctx, userID)
		if err != nil {
			u.log.WithError(err).Error("read cart failed")
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(lines) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		//全行を事前チェック。1行でも足りなければ注文ごと作らない。
		for _, l := range lines {
			if l.Quantity > l.Stock {
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("insufficient stock for %s", l.Name))
			}
		}

		//合計は検証に使った価格で確定する（ここ以降で商品価格が変わっても影響しない）
		var total int64
		for _, l := range lines {
			total += l.Price * l.Quantity
		}

		orderID = u.orderIDs.NewOrderID()

		uid := userID
		order := model.Order{
			ID:              orderID,
			UserID:          &uid,
			CustomerName:    name,
			CustomerEmail:   email,
			CustomerPhone:   strings.TrimSpace(in.Phone),
			CustomerAddress: strings.TrimSpace(in.Address),
			Total:           total,
			Status:          model.OrderStatusPending,
			CreatedAt:       time.Now(),
		}
		if err := r.Orders().Create(ctx, order); err != nil {
			u.log.WithError(err).Error("create order failed")
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//明細は名前・画像・価格をスナップショット
		items := make([]model.OrderItem, 0, len(lines))
		for _, l := range lines {
			pid := l.ProductID
			items = append(items, model.OrderItem{
				ProductID:    &pid,
				ProductName:  l.Name,
				ProductImage: l.Image,
				Price:        l.Price,
				Quantity:     l.Quantity,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			u.log.WithError(err).Error("create order items failed")
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//在庫減算。事前チェックの後に並行注文が在庫を使っていたら
		//ここでfalseになり、注文ごとロールバックされる。
		for _, l := range lines {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, l.ProductID, l.Quantity)
			if err != nil {
				u.log.WithError(err).Error("decrease stock failed")
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("insufficient stock for %s", l.Name))
			}
		}

		//カートを空にする
		if err := r.Carts().ClearByUserID(ctx, userID); err != nil {
			u.log.WithError(err).Error("clear cart failed")
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})

	if err != nil {
		return PlaceOrderOutput{}, err
	}
	return PlaceOrderOutput{OrderID: orderID}, nil
}
