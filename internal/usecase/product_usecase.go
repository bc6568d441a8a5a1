package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/sirupsen/logrus"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type ProductUsecase struct {
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	log           *logrus.Logger
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	log *logrus.Logger,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		log:           log,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Category string
	MinPrice *int64
	MaxPrice *int64
	Search   string
	Sort     string
}

// colorsは配列にして返す
type ProductOutput struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	OriginalPrice int64    `json:"original_price"`
	SalePrice     int64    `json:"sale_price"`
	Stock         int64    `json:"stock"`
	Image         string   `json:"image"`
	Description   string   `json:"description"`
	Colors        []string `json:"colors"`
	Discount      int64    `json:"discount"`
}

func toProductOutput(p model.Product) ProductOutput {
	colors := []string{}
	if p.Colors != "" {
		colors = strings.Split(p.Colors, ",")
	}

	return ProductOutput{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		OriginalPrice: p.OriginalPrice,
		SalePrice:     p.SalePrice,
		Stock:         p.Stock,
		Image:         p.Image,
		Description:   p.Description,
		Colors:        colors,
		Discount:      p.Discount,
	}
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) ([]ProductOutput, error) {
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return []ProductOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return []ProductOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return []ProductOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "price-low", "price-high", "name":
	default:
		return []ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Category: strings.TrimSpace(in.Category),
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Search:   strings.TrimSpace(in.Search),
		Sort:     in.Sort,
	})
	if err != nil {
		u.log.WithError(err).Error("list products failed")
		return []ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]ProductOutput, 0, len(items))
	for _, p := range items {
		outs = append(outs, toProductOutput(p))
	}
	return outs, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (ProductOutput, error) {
	if productID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		u.log.WithError(err).Error("find product failed")
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toProductOutput(p), nil
}

type AdminProductInput struct {
	Name          string
	Category      string
	OriginalPrice int64
	SalePrice     int64
	Stock         int64
	Image         string
	Description   string
	Colors        []string
}

func (in AdminProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return NewHTTPError(http.StatusBadRequest, "category required")
	}
	if in.OriginalPrice <= 0 {
		return NewHTTPError(http.StatusBadRequest, "original_price must be > 0")
	}
	if in.SalePrice < 0 {
		return NewHTTPError(http.StatusBadRequest, "sale_price must be >= 0")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	return nil
}

func (in AdminProductInput) toModel() model.Product {
	return model.Product{
		Name:          strings.TrimSpace(in.Name),
		Category:      strings.TrimSpace(in.Category),
		OriginalPrice: in.OriginalPrice,
		SalePrice:     in.SalePrice,
		Stock:         in.Stock,
		Image:         in.Image,
		Description:   in.Description,
		Colors:        strings.Join(in.Colors, ","),
		Discount:      computeDiscount(in.OriginalPrice, in.SalePrice),
	}
}

// 割引率（%）は定価と販売価格から都度計算して保存する
func computeDiscount(originalPrice int64, salePrice int64) int64 {
	if originalPrice <= 0 {
		return 0
	}
	return int64(math.Round((1 - float64(salePrice)/float64(originalPrice)) * 100))
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in AdminProductInput) (int64, error) {
	if adminUserID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return 0, err
	}

	id, err := u.productRepo.Create(ctx, in.toModel())
	if err != nil {
		u.log.WithError(err).Error("create product failed")
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return id, nil
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminUserID int64, productID int64, in AdminProductInput) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := in.validate(); err != nil {
		return err
	}

	p := in.toModel()
	p.ID = productID

	err := u.productRepo.Update(ctx, p)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		u.log.WithError(err).Error("update product failed")
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ProductUsecase) AdminSetStock(ctx context.Context, adminUserID int64, productID int64, newStock int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}

	err := u.inventoryRepo.SetStock(ctx, productID, newStock)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		u.log.WithError(err).Error("set stock failed")
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.productRepo.Delete(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		u.log.WithError(err).Error("delete product failed")
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
