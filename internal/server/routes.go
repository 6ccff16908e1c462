package server

import (
	"shopapi/internal/handler"
	"shopapi/internal/observability"

	"github.com/labstack/echo/v4"
)

// 各ハンドラのルートをまとめて登録する
type Handlers struct {
	Cart       *handler.CartHandler
	Order      *handler.OrderHandler
	AdminOrder *handler.AdminOrderHandler
	Product    *handler.ProductHandler
	Category   *handler.CategoryHandler
	Review     *handler.ReviewHandler
	User       *handler.UserHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers, metrics *observability.Metrics) {
	e.GET("/health", handler.Health)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	h.Cart.RegisterRoutes(e)
	h.Order.RegisterRoutes(e)
	h.AdminOrder.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Category.RegisterRoutes(e)
	h.Review.RegisterRoutes(e)
	h.User.RegisterRoutes(e)
}
