package handler

import (
	"net/http"

	"shopapi/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ReviewHandler struct {
	uc *usecase.ReviewUsecase
}

func NewReviewHandler(uc *usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

type CreateReviewRequest struct {
	UserID    string `json:"user_id"`
	ProductID int64  `json:"product_id"`
	Content   string `json:"content"`
	Rating    int    `json:"rating"`
}

type UpdateReviewRequest struct {
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

func (h *ReviewHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/reviews")
	g.GET("/product/:productId", h.listByProduct)
	g.GET("/user/:userId", h.listByUser)
	g.GET("/:id", h.detail)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *ReviewHandler) listByProduct(c echo.Context) error {
	productID, ok := paramInt64(c, "productId")
	if !ok {
		return writeFail(c, http.StatusBadRequest, "invalid productId")
	}
	out, err := h.uc.ListByProduct(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Reviews retrieved successfully", out)
}

func (h *ReviewHandler) listByUser(c echo.Context) error {
	out, err := h.uc.ListByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Reviews retrieved successfully", out)
}

func (h *ReviewHandler) detail(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return writeFail(c, http.StatusBadRequest, "invalid id")
	}
	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Review retrieved successfully", out)
}

func (h *ReviewHandler) create(c echo.Context) error {
	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "invalid body")
	}
	out, err := h.uc.Create(c.Request().Context(), usecase.CreateReviewInput{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Content:   req.Content,
		Rating:    req.Rating,
	})
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusCreated, "Review created successfully", out)
}

func (h *ReviewHandler) update(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return writeFail(c, http.StatusBadRequest, "invalid id")
	}
	var req UpdateReviewRequest
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "invalid body")
	}
	out, err := h.uc.Update(c.Request().Context(), id, usecase.UpdateReviewInput{
		Content: req.Content,
		Rating:  req.Rating,
	})
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Review updated successfully", out)
}

func (h *ReviewHandler) delete(c echo.Context) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return writeFail(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Review deleted successfully", nil)
}
