package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（Product用）
// =====================

type ProdProductRepoMock struct{ mock.Mock }

func (m *ProdProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProdProductRepoMock) FindByID(ctx context.Context, productID int64) (model.Product, error) {
	args := m.Called(ctx, productID)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProdProductRepoMock) Create(ctx context.Context, p model.Product) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProdProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProdProductRepoMock) Delete(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

type ProdInventoryRepoMock struct{ mock.Mock }

func (m *ProdInventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	panic("not used in ProductUsecase tests")
}

func (m *ProdInventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

func newProductUsecase(products *ProdProductRepoMock, inventory *ProdInventoryRepoMock) *usecase.ProductUsecase {
	return usecase.NewProductUsecase(products, inventory, newTestLogger())
}

// =====================
// Public: List / Detail
// =====================

func TestProductUsecase_ListProducts_InvalidSort(t *testing.T) {
	uc := newProductUsecase(new(ProdProductRepoMock), new(ProdInventoryRepoMock))

	_, err := uc.ListProducts(context.Background(), usecase.ListProductsInput{Sort: "cheapest"})
	assertErrContains(t, err, "invalid sort")
}

func TestProductUsecase_ListProducts_MinGreaterThanMax(t *testing.T) {
	uc := newProductUsecase(new(ProdProductRepoMock), new(ProdInventoryRepoMock))

	minPrice := int64(100)
	maxPrice := int64(10)
	_, err := uc.ListProducts(context.Background(), usecase.ListProductsInput{MinPrice: &minPrice, MaxPrice: &maxPrice})
	assertErrContains(t, err, "min_price must be <= max_price")
}

func TestProductUsecase_ListProducts_SplitsColors(t *testing.T) {
	products := new(ProdProductRepoMock)
	uc := newProductUsecase(products, new(ProdInventoryRepoMock))

	products.On("List", mock.Anything, mock.Anything).Return([]model.Product{
		{ID: 1, Name: "Mouse", Colors: "black,white,pink"},
		{ID: 2, Name: "Cable", Colors: ""},
	}, nil)

	out, err := uc.ListProducts(context.Background(), usecase.ListProductsInput{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"black", "white", "pink"}, out[0].Colors)
	assert.Equal(t, []string{}, out[1].Colors)
}

func TestProductUsecase_GetProductDetail_NotFound(t *testing.T) {
	products := new(ProdProductRepoMock)
	uc := newProductUsecase(products, new(ProdInventoryRepoMock))

	products.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.GetProductDetail(context.Background(), 99)
	assertErrContains(t, err, "product not found")
}

// =====================
// Admin: Create / Stock
// =====================

func TestProductUsecase_AdminCreateProduct_ComputesDiscount(t *testing.T) {
	products := new(ProdProductRepoMock)
	uc := newProductUsecase(products, new(ProdInventoryRepoMock))

	//定価400000・販売価格250000 → 38%引き
	products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "Mouse" && p.Discount == 38 && p.Colors == "black,white"
	})).Return(int64(10), nil)

	id, err := uc.AdminCreateProduct(context.Background(), 1, usecase.AdminProductInput{
		Name:          "Mouse",
		Category:      "accessories",
		OriginalPrice: 400000,
		SalePrice:     250000,
		Stock:         60,
		Colors:        []string{"black", "white"},
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(10), id)

	products.AssertExpectations(t)
}

func TestProductUsecase_AdminCreateProduct_RejectsInvalidPrice(t *testing.T) {
	uc := newProductUsecase(new(ProdProductRepoMock), new(ProdInventoryRepoMock))

	_, err := uc.AdminCreateProduct(context.Background(), 1, usecase.AdminProductInput{
		Name:          "Mouse",
		Category:      "accessories",
		OriginalPrice: 0,
		SalePrice:     100,
	})
	assertErrContains(t, err, "original_price must be > 0")
}

func TestProductUsecase_AdminSetStock_RejectsNegative(t *testing.T) {
	inventory := new(ProdInventoryRepoMock)
	uc := newProductUsecase(new(ProdProductRepoMock), inventory)

	err := uc.AdminSetStock(context.Background(), 1, 3, -1)
	assertErrContains(t, err, "stock must be >= 0")

	inventory.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductUsecase_AdminSetStock_Success(t *testing.T) {
	inventory := new(ProdInventoryRepoMock)
	uc := newProductUsecase(new(ProdProductRepoMock), inventory)

	inventory.On("SetStock", mock.Anything, int64(3), int64(80)).Return(nil)

	err := uc.AdminSetStock(context.Background(), 1, 3, 80)
	assert.NoError(t, err)

	inventory.AssertExpectations(t)
}

func TestProductUsecase_AdminDeleteProduct_NotFound(t *testing.T) {
	products := new(ProdProductRepoMock)
	uc := newProductUsecase(products, new(ProdInventoryRepoMock))

	products.On("Delete", mock.Anything, int64(99)).Return(repo.ErrNotFound)

	err := uc.AdminDeleteProduct(context.Background(), 1, 99)
	assertErrContains(t, err, "product not found")
}
