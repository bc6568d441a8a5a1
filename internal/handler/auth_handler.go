package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/auth のAPI（登録・ログイン・自分の情報）。
type AuthHandler struct {
	uc *usecase.AuthUsecase
}

func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/auth")

	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.GET("/me", h.me, middleware.OptionalAuthJWT(cfg))
}

type MeResponse struct {
	IsLoggedIn bool                `json:"isLoggedIn"`
	User       *usecase.UserOutput `json:"user,omitempty"`
}

func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// 未ログインは401ではなくisLoggedIn=falseの200で返す
func (h *AuthHandler) me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusOK, MeResponse{IsLoggedIn: false})
	}

	out, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		//トークンのユーザーが消えている場合も未ログイン扱い
		if he, isHTTP := usecase.AsHTTPError(err); isHTTP && he.Status == http.StatusUnauthorized {
			return c.JSON(http.StatusOK, MeResponse{IsLoggedIn: false})
		}
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, MeResponse{IsLoggedIn: true, User: &out})
}
