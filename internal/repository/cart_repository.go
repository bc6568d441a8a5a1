package repository

import (
	"context"

	"app/internal/domain/model"
)

// カート行＋商品のライブ値（チェックアウト時にjoinで読む）。
// Price/Stockはカート追加時点ではなく「今」の値。
type CheckoutLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Price     int64  `json:"price"`
	Stock     int64  `json:"stock"`
	Quantity  int64  `json:"quantity"`
}

type CartRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)

	//商品情報をjoinした明細を返す（カート表示とチェックアウトの両方で使う）
	ListCheckoutLines(ctx context.Context, userID int64) ([]CheckoutLine, error)

	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error)

	//同一商品は数量加算
	Upsert(ctx context.Context, userID int64, productID int64, addQty int64) error

	UpdateQuantity(ctx context.Context, userID int64, productID int64, qty int64) error
	DeleteByUserAndProduct(ctx context.Context, userID int64, productID int64) error

	//ユーザーのカートを空にする（チェックアウト成功時）
	ClearByUserID(ctx context.Context, userID int64) error
}
