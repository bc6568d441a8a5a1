package usecase_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// 共通ヘルパー
// =====================

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

// =====================
// TxManager / TxRepos mocks
// =====================

// CheckoutTxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す。
// fn がエラーを返したらそのまま返す（＝ロールバック相当）。
type CheckoutTxManagerMock struct {
	Repos repo.TxRepos
}

func (m *CheckoutTxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.Repos)
}

type CheckoutTxReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	carts      repo.CartRepository
	inventory  repo.InventoryRepository
	products   repo.ProductRepository
}

func (r *CheckoutTxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *CheckoutTxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *CheckoutTxReposMock) Carts() repo.CartRepository           { return r.carts }
func (r *CheckoutTxReposMock) Inventory() repo.InventoryRepository  { return r.inventory }
func (r *CheckoutTxReposMock) Products() repo.ProductRepository     { return r.products }

// =====================
// Repository mocks（衝突回避の命名）
// =====================

type CheckoutOrderRepoMock struct{ mock.Mock }

func (m *CheckoutOrderRepoMock) Create(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *CheckoutOrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	panic("not used in CheckoutUsecase tests")
}

func (m *CheckoutOrderRepoMock) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	panic("not used in CheckoutUsecase tests")
}

func (m *CheckoutOrderRepoMock) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	panic("not used in CheckoutUsecase tests")
}

func (m *CheckoutOrderRepoMock) Delete(ctx context.Context, orderID string) error {
	panic("not used in CheckoutUsecase tests")
}

type CheckoutOrderItemRepoMock struct{ mock.Mock }

func (m *CheckoutOrderItemRepoMock) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *CheckoutOrderItemRepoMock) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	panic("not used in CheckoutUsecase tests")
}

type CheckoutCartRepoMock struct{ mock.Mock }

func (m *CheckoutCartRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	panic("not used in CheckoutUsecase tests")
}

func (m *CheckoutCartRepoMock) ListCheckoutLines(ctx context.Context, userID int64) ([]repo.CheckoutLine, error) {
	args := m.Called(ctx, userID)
	lines, _ := args.Get(0).([]repo.CheckoutLine)
	return lines, args.Error(1)
}

func (m *CheckoutCartRepoMock) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error) {
	panic("not used in CheckoutUsecase tests")
}

func (m *CheckoutCartRepoMock) Upsert(ctx context.Context, userID int64, productID int64, addQty int64) error {
	panic("not used in CheckoutUsecase tests")
}

func (m *CheckoutCartRepoMock) UpdateQuantity(ctx context.Context, userID int64, productID int64, qty int64) error {
	panic("not used in CheckoutUsecase tests")
}

func (m *CheckoutCartRepoMock) DeleteByUserAndProduct(ctx context.Context, userID int64, productID int64) error {
	panic("not used in CheckoutUsecase tests")
}

func (m *CheckoutCartRepoMock) ClearByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type CheckoutInventoryRepoMock struct{ mock.Mock }

func (m *CheckoutInventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *CheckoutInventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	panic("not used in CheckoutUsecase tests")
}

// 固定IDを返すジェネレータ
type FixedOrderIDGen struct{ ID string }

func (g *FixedOrderIDGen) NewOrderID() string { return g.ID }

func newCheckoutUsecase(
	orders *CheckoutOrderRepoMock,
	orderItems *CheckoutOrderItemRepoMock,
	carts *CheckoutCartRepoMock,
	inventory *CheckoutInventoryRepoMock,
) *usecase.CheckoutUsecase {
	tx := &CheckoutTxManagerMock{Repos: &CheckoutTxReposMock{
		orders:     orders,
		orderItems: orderItems,
		carts:      carts,
		inventory:  inventory,
	}}
	return usecase.NewCheckoutUsecase(tx, &FixedOrderIDGen{ID: "ORD-1700000000000"}, newTestLogger())
}

func validInput() usecase.PlaceOrderInput {
	return usecase.PlaceOrderInput{
		Name:    "Taro Yamada",
		Email:   "taro@example.com",
		Phone:   "090-0000-0000",
		Address: "Tokyo",
	}
}

// =====================
// 入力検証
// =====================

func TestCheckoutUsecase_PlaceOrder_Unauthorized(t *testing.T) {
	uc := newCheckoutUsecase(new(CheckoutOrderRepoMock), new(CheckoutOrderItemRepoMock), new(CheckoutCartRepoMock), new(CheckoutInventoryRepoMock))

	_, err := uc.PlaceOrder(context.Background(), 0, validInput())
	assertErrContains(t, err, "unauthorized")
}

func TestCheckoutUsecase_PlaceOrder_MissingNameOrEmail(t *testing.T) {
	uc := newCheckoutUsecase(new(CheckoutOrderRepoMock), new(CheckoutOrderItemRepoMock), new(CheckoutCartRepoMock), new(CheckoutInventoryRepoMock))

	in := validInput()
	in.Name = "   "
	_, err := uc.PlaceOrder(context.Background(), 1, in)
	assertErrContains(t, err, "name and email are required")

	in = validInput()
	in.Email = ""
	_, err = uc.PlaceOrder(context.Background(), 1, in)
	assertErrContains(t, err, "name and email are required")
}

func TestCheckoutUsecase_PlaceOrder_EmptyCart(t *testing.T) {
	carts := new(CheckoutCartRepoMock)
	orders := new(CheckoutOrderRepoMock)
	uc := newCheckoutUsecase(orders, new(CheckoutOrderItemRepoMock), carts, new(CheckoutInventoryRepoMock))

	carts.On("ListCheckoutLines", mock.Anything, int64(1)).Return([]repo.CheckoutLine{}, nil)

	_, err := uc.PlaceOrder(context.Background(), 1, validInput())
	assertErrContains(t, err, "cart is empty")

	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// =====================
// 成功パス
// =====================

func TestCheckoutUsecase_PlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	userID := int64(7)

	carts := new(CheckoutCartRepoMock)
	orders := new(CheckoutOrderRepoMock)
	orderItems := new(CheckoutOrderItemRepoMock)
	inventory := new(CheckoutInventoryRepoMock)
	uc := newCheckoutUsecase(orders, orderItems, carts, inventory)

	lines := []repo.CheckoutLine{
		{ProductID: 3, Name: "Mouse", Image: "/images/mouse.jpg", Price: 250000, Stock: 60, Quantity: 2},
		{ProductID: 5, Name: "Keyboard", Image: "/images/keyboard.jpg", Price: 450000, Stock: 40, Quantity: 1},
	}
	carts.On("ListCheckoutLines", mock.Anything, userID).Return(lines, nil)

	orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.ID == "ORD-1700000000000" &&
			o.UserID != nil && *o.UserID == userID &&
			o.CustomerName == "Taro Yamada" &&
			o.Total == 250000*2+450000 &&
			o.Status == model.OrderStatusPending
	})).Return(nil)

	orderItems.On("CreateBulk", mock.Anything, "ORD-1700000000000", mock.MatchedBy(func(items []model.OrderItem) bool {
		if len(items) != 2 {
			return false
		}
		first := items[0]
		return first.ProductID != nil && *first.ProductID == 3 &&
			first.ProductName == "Mouse" &&
			first.ProductImage == "/images/mouse.jpg" &&
			first.Price == 250000 && first.Quantity == 2
	})).Return(nil)

	inventory.On("DecreaseStockIfEnough", mock.Anything, int64(3), int64(2)).Return(true, nil)
	inventory.On("DecreaseStockIfEnough", mock.Anything, int64(5), int64(1)).Return(true, nil)

	carts.On("ClearByUserID", mock.Anything, userID).Return(nil)

	out, err := uc.PlaceOrder(ctx, userID, validInput())
	assert.NoError(t, err)
	assert.Equal(t, "ORD-1700000000000", out.OrderID)

	carts.AssertExpectations(t)
	orders.AssertExpectations(t)
	orderItems.AssertExpectations(t)
	inventory.AssertExpectations(t)
}

// =====================
// 在庫不足
// =====================

func TestCheckoutUsecase_PlaceOrder_InsufficientStockPrecheck(t *testing.T) {
	carts := new(CheckoutCartRepoMock)
	orders := new(CheckoutOrderRepoMock)
	uc := newCheckoutUsecase(orders, new(CheckoutOrderItemRepoMock), carts, new(CheckoutInventoryRepoMock))

	//1行でも足りなければ注文ごと失敗（Webcam: 在庫15に対して20）
	lines := []repo.CheckoutLine{
		{ProductID: 3, Name: "Mouse", Price: 250000, Stock: 60, Quantity: 2},
		{ProductID: 9, Name: "Webcam", Price: 1990000, Stock: 15, Quantity: 20},
	}
	carts.On("ListCheckoutLines", mock.Anything, int64(1)).Return(lines, nil)

	_, err := uc.PlaceOrder(context.Background(), 1, validInput())
	assertErrContains(t, err, "insufficient stock for Webcam")

	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_PlaceOrder_ConflictAtDecrement(t *testing.T) {
	userID := int64(2)

	carts := new(CheckoutCartRepoMock)
	orders := new(CheckoutOrderRepoMock)
	orderItems := new(CheckoutOrderItemRepoMock)
	inventory := new(CheckoutInventoryRepoMock)
	uc := newCheckoutUsecase(orders, orderItems, carts, inventory)

	lines := []repo.CheckoutLine{
		{ProductID: 3, Name: "Mouse", Price: 250000, Stock: 2, Quantity: 2},
	}
	carts.On("ListCheckoutLines", mock.Anything, userID).Return(lines, nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	orderItems.On("CreateBulk", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	//事前チェックは通るが、並行注文が先に在庫を使った想定
	inventory.On("DecreaseStockIfEnough", mock.Anything, int64(3), int64(2)).Return(false, nil)

	_, err := uc.PlaceOrder(context.Background(), userID, validInput())
	assertErrContains(t, err, "insufficient stock for Mouse")

	//失敗したらカートは残る
	carts.AssertNotCalled(t, "ClearByUserID", mock.Anything, mock.Anything)
}

// =====================
// DB書き込み失敗
// =====================

func TestCheckoutUsecase_PlaceOrder_OrderWriteFails(t *testing.T) {
	userID := int64(4)

	carts := new(CheckoutCartRepoMock)
	orders := new(CheckoutOrderRepoMock)
	uc := newCheckoutUsecase(orders, new(CheckoutOrderItemRepoMock), carts, new(CheckoutInventoryRepoMock))

	lines := []repo.CheckoutLine{
		{ProductID: 3, Name: "Mouse", Price: 250000, Stock: 60, Quantity: 1},
	}
	carts.On("ListCheckoutLines", mock.Anything, userID).Return(lines, nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	_, err := uc.PlaceOrder(context.Background(), userID, validInput())
	assertErrContains(t, err, "db error")

	carts.AssertNotCalled(t, "ClearByUserID", mock.Anything, mock.Anything)
}
