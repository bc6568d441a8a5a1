package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Carts() CartRepository
	Inventory() InventoryRepository
	Products() ProductRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがエラーを返したら全ロールバック。部分的な書き込みは残らない。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
