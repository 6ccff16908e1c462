package handler

import (
	"net/http"

	"shopapi/internal/domain/model"
	"shopapi/internal/middleware"
	"shopapi/internal/usecase"

	"github.com/labstack/echo/v4"
)

const (
	defaultPage = 0
	defaultSize = 10
)

// /orders のHTTP（チェックアウトと参照、キャンセル）
type OrderHandler struct {
	orders *usecase.OrderUsecase
	status *usecase.OrderStatusUsecase
	secret string
}

// DI
func NewOrderHandler(orders *usecase.OrderUsecase, status *usecase.OrderStatusUsecase, jwtSecret string) *OrderHandler {
	return &OrderHandler{orders: orders, status: status, secret: jwtSecret}
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	PhoneNumber     string `json:"phoneNumber"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/orders")
	g.POST("/checkout/:userId", h.checkout)
	g.GET("/user/:userId", h.listByUser)
	g.GET("/user/:userId/paged", h.pageByUser)
	g.GET("/:orderId", h.get)
	g.PUT("/:orderId/cancel", h.cancel, middleware.Authenticated(h.secret)...)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.orders.Checkout(c.Request().Context(), c.Param("userId"), usecase.CheckoutInput{
		ShippingAddress: req.ShippingAddress,
		PhoneNumber:     req.PhoneNumber,
	})
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusCreated, "Order created successfully", out)
}

func (h *OrderHandler) get(c echo.Context) error {
	out, err := h.orders.GetOrder(c.Request().Context(), c.Param("orderId"))
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Order retrieved successfully", out)
}

func (h *OrderHandler) listByUser(c echo.Context) error {
	out, err := h.orders.ListByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Orders retrieved successfully", out)
}

func (h *OrderHandler) pageByUser(c echo.Context) error {
	page, ok := queryInt(c, "page", defaultPage)
	if !ok {
		return writeFail(c, http.StatusBadRequest, "invalid page")
	}
	size, ok := queryInt(c, "size", defaultSize)
	if !ok {
		return writeFail(c, http.StatusBadRequest, "invalid size")
	}

	out, err := h.orders.PageByUser(c.Request().Context(), c.Param("userId"), page, size)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Orders retrieved successfully", out)
}

// 認証なしなら actor は system。USER は自分の注文だけ
func (h *OrderHandler) cancel(c echo.Context) error {
	actorID, _ := middleware.UserID(c)
	actor := usecase.Actor{UserID: actorID, Role: model.Role(middleware.UserRole(c))}
	out, err := h.status.Cancel(c.Request().Context(), actor, c.Param("orderId"))
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Order cancelled successfully", out)
}
