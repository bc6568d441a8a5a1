package repository

import "context"

type InventoryRepository interface {
	//在庫が足りるときだけ減らす。足りなければfalse（エラーではない）。
	//read-check-decrementを1文のUPDATEで行うので、同時注文でも在庫が負にならない。
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	//在庫の現在値を設定（admin）
	SetStock(ctx context.Context, productID int64, newStock int64) error
}
