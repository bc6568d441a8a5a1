package usecase

import (
	"context"
	"net/http"

	repo "app/internal/repository"

	"github.com/sirupsen/logrus"
)

// CartUsecaseは/cartの業務ロジック。
// 明細は(user, product)で一意。価格は常に商品の現在値を返す。
type CartUsecase struct {
	cartRepo    repo.CartRepository
	productRepo repo.ProductRepository
	log         *logrus.Logger
}

func NewCartUsecase(cartRepo repo.CartRepository, productRepo repo.ProductRepository, log *logrus.Logger) *CartUsecase {
	return &CartUsecase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		log:         log,
	}
}

type CartResponse struct {
	Items []repo.CheckoutLine `json:"items"`
	Total int64               `json:"total"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return u.buildCartResponse(ctx, userID)
}

// カートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product not found")
	}
	if err != nil {
		u.log.WithError(err).Error("find product failed")
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//加算後の数量が在庫を超えないかを見る
	var existingQty int64
	item, err := u.cartRepo.FindByUserAndProduct(ctx, userID, in.ProductID)
	if err == nil {
		existingQty = item.Quantity
	} else if err != repo.ErrNotFound {
		u.log.WithError(err).Error("find cart item failed")
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if existingQty+in.Quantity > p.Stock {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "stock exceeded")
	}

	if err := u.cartRepo.Upsert(ctx, userID, in.ProductID, in.Quantity); err != nil {
		u.log.WithError(err).Error("upsert cart item failed")
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, userID)
}

// 数量変更（在庫チェック付き）。
func (u *CartUsecase) UpdateQuantity(ctx context.Context, userID int64, productID int64, qty int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if qty < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	if _, err := u.cartRepo.FindByUserAndProduct(ctx, userID, productID); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		u.log.WithError(err).Error("find cart item failed")
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product not found")
	}
	if err != nil {
		u.log.WithError(err).Error("find product failed")
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if qty > p.Stock {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "stock exceeded")
	}

	if err := u.cartRepo.UpdateQuantity(ctx, userID, productID, qty); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		u.log.WithError(err).Error("update cart quantity failed")
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, userID)
}

func (u *CartUsecase) RemoveFromCart(ctx context.Context, userID int64, productID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	if err := u.cartRepo.DeleteByUserAndProduct(ctx, userID, productID); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		u.log.WithError(err).Error("delete cart item failed")
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, userID)
}

func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := u.cartRepo.ClearByUserID(ctx, userID); err != nil {
		u.log.WithError(err).Error("clear cart failed")
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CartResponse{Items: []repo.CheckoutLine{}}, nil
}

func (u *CartUsecase) buildCartResponse(ctx context.Context, userID int64) (CartResponse, error) {
	lines, err := u.cartRepo.ListCheckoutLines(ctx, userID)
	if err != nil {
		u.log.WithError(err).Error("list cart failed")
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var total int64
	for _, l := range lines {
		total += l.Price * l.Quantity
	}

	return CartResponse{Items: lines, Total: total}, nil
}
