package handler

import (
	"net/http"
	"strconv"

	"shopapi/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /products のAPI
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type ProductRequest struct {
	CategoryID  *int64          `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	ImageURL    string          `json:"image_url"`
}

func (r ProductRequest) toInput() usecase.ProductInput {
	return usecase.ProductInput{
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		ImageURL:    r.ImageURL,
	}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)
	e.POST("/products", h.create)
	e.PUT("/products/:id", h.update)
	e.DELETE("/products/:id", h.delete)
}

func (h *ProductHandler) list(c echo.Context) error {
	//category_id（任意）
	var categoryID *int64
	if v := c.QueryParam("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return writeFail(c, http.StatusBadRequest, "invalid category_id")
		}
		categoryID = &id
	}

	out, err := h.uc.List(c.Request().Context(), usecase.ListProductsInput{
		CategoryID: categoryID,
		Q:          c.QueryParam("q"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Products retrieved successfully", out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return writeFail(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Product retrieved successfully", out)
}

func (h *ProductHandler) create(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusCreated, "Product created successfully", out)
}

func (h *ProductHandler) update(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return writeFail(c, http.StatusBadRequest, "invalid id")
	}
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Product updated successfully", out)
}

func (h *ProductHandler) delete(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return writeFail(c, http.StatusBadRequest, "invalid id")
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Product deleted successfully", nil)
}
