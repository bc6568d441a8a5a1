package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/orders のAPI。
// 作成（checkout）はCheckoutUsecase、参照と管理はOrderUsecase。
type OrderHandler struct {
	checkout *usecase.CheckoutUsecase
	orders   *usecase.OrderUsecase
}

func NewOrderHandler(checkout *usecase.CheckoutUsecase, orders *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders}
}

type PlaceOrderRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.place)
	g.GET("", h.list)
	g.GET("/:id", h.detail)

	//admin専用
	admin := g.Group("")
	admin.Use(middleware.AdminRoleGuard())
	admin.PATCH("/:id/status", h.updateStatus)
	admin.DELETE("/:id", h.delete)
}

// カートの内容から注文を確定する
func (h *OrderHandler) place(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.checkout.PlaceOrder(c.Request().Context(), userID, usecase.PlaceOrderInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.orders.ListOrders(c.Request().Context(), userID, isAdminFromContext(c), c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.orders.GetOrderDetail(c.Request().Context(), userID, isAdminFromContext(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.orders.AdminUpdateStatus(c.Request().Context(), userID, c.Param("id"), req.Status); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "order status updated"})
}

func (h *OrderHandler) delete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.orders.AdminDeleteOrder(c.Request().Context(), userID, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "order deleted"})
}
