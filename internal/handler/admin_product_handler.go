package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type SuccessResponse struct {
	Message string `json:"message"`
}

// 商品の管理API（admin専用）
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

type ProductRequest struct {
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	OriginalPrice int64    `json:"original_price"`
	SalePrice     int64    `json:"sale_price"`
	Stock         int64    `json:"stock"`
	Image         string   `json:"image"`
	Description   string   `json:"description"`
	Colors        []string `json:"colors"`
}

type StockUpdateRequest struct {
	Stock int64 `json:"stock"`
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/products")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.PATCH("/:id/stock", h.updateStock)
	g.DELETE("/:id", h.delete)
}

func (h *AdminProductHandler) create(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	id, err := h.uc.AdminCreateProduct(c.Request().Context(), adminID, toAdminProductInput(req))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "product created",
		"product_id": id,
	})
}

func (h *AdminProductHandler) update(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.AdminUpdateProduct(c.Request().Context(), adminID, productID, toAdminProductInput(req)); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "product updated"})
}

func (h *AdminProductHandler) updateStock(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req StockUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.AdminSetStock(c.Request().Context(), adminID, productID, req.Stock); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "stock updated"})
}

func (h *AdminProductHandler) delete(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.AdminDeleteProduct(c.Request().Context(), adminID, productID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "product deleted"})
}

func toAdminProductInput(req ProductRequest) usecase.AdminProductInput {
	return usecase.AdminProductInput{
		Name:          req.Name,
		Category:      req.Category,
		OriginalPrice: req.OriginalPrice,
		SalePrice:     req.SalePrice,
		Stock:         req.Stock,
		Image:         req.Image,
		Description:   req.Description,
		Colors:        req.Colors,
	}
}

//middleware.AuthJWT が c.Set("user_id", int64) した値を取り出す

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}

// roleを取り出す。admin判定に使う。
func isAdminFromContext(c echo.Context) bool {
	v := c.Get(middleware.CtxUserRoleKey)
	role, ok := v.(string)
	return ok && role == "admin"
}
