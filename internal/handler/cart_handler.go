package handler

import (
	"net/http"

	"shopapi/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /carts のHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type CartItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/carts")
	g.GET("/:userId", h.getCart)
	g.POST("/:userId/items", h.addItem)
	g.PUT("/:userId/items", h.updateItem)
	g.DELETE("/:userId/items/:productId", h.removeItem)
	g.DELETE("/:userId", h.clear)
}

func (h *CartHandler) getCart(c echo.Context) error {
	out, err := h.uc.GetCart(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Cart retrieved successfully", out)
}

func (h *CartHandler) addItem(c echo.Context) error {
	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.AddItem(c.Request().Context(), c.Param("userId"), usecase.AddCartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusCreated, "Item added to cart successfully", out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.UpdateItem(c.Request().Context(), c.Param("userId"), usecase.UpdateCartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Cart item updated successfully", out)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	productID, ok := paramInt64(c, "productId")
	if !ok {
		return writeFail(c, http.StatusBadRequest, "invalid productId")
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), c.Param("userId"), productID)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Item removed from cart successfully", out)
}

func (h *CartHandler) clear(c echo.Context) error {
	out, err := h.uc.Clear(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Cart cleared successfully", out)
}
