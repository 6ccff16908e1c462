package handler

import (
	"net/http"
	"net/url"

	"shopapi/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	uc *usecase.CategoryUsecase
}

func NewCategoryHandler(uc *usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	ParentID    *int64 `json:"parent_id"`
}

func (r CategoryRequest) toInput() usecase.CategoryInput {
	return usecase.CategoryInput{
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		ParentID:    r.ParentID,
	}
}

func (h *CategoryHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/categories")
	g.GET("", h.list)
	g.GET("/roots", h.roots)
	g.GET("/name/:name", h.byName)
	g.GET("/:id/subcategories", h.subcategories)
	g.GET("/:id", h.detail)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *CategoryHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Categories retrieved successfully", out)
}

func (h *CategoryHandler) roots(c echo.Context) error {
	out, err := h.uc.ListRoots(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Root categories retrieved successfully", out)
}

func (h *CategoryHandler) byName(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("name"))
	if err != nil {
		return writeFail(c, http.StatusBadRequest, "invalid name")
	}
	out, err := h.uc.GetByName(c.Request().Context(), name)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Category fetched successfully", out)
}

func (h *CategoryHandler) subcategories(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return writeFail(c, http.StatusBadRequest, "invalid id")
	}
	out, err := h.uc.ListSubcategories(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Subcategories retrieved successfully", out)
}

func (h *CategoryHandler) detail(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return writeFail(c, http.StatusBadRequest, "invalid id")
	}
	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Category retrieved successfully", out)
}

func (h *CategoryHandler) create(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "invalid body")
	}
	out, err := h.uc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusCreated, "Category created successfully", out)
}

func (h *CategoryHandler) update(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return writeFail(c, http.StatusBadRequest, "invalid id")
	}
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "invalid body")
	}
	out, err := h.uc.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Category updated successfully", out)
}

func (h *CategoryHandler) delete(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return writeFail(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Category deleted successfully", nil)
}
