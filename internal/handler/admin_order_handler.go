package handler

import (
	"net/http"

	"shopapi/internal/middleware"
	"shopapi/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ステータス変更と監査ログ（JWT_SECRET があれば ADMIN のみ）
type AdminOrderHandler struct {
	uc     *usecase.OrderStatusUsecase
	secret string
}

func NewAdminOrderHandler(uc *usecase.OrderStatusUsecase, jwtSecret string) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc, secret: jwtSecret}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo) {
	guard := middleware.AdminOnly(h.secret)
	e.PUT("/orders/:orderId/status", h.updateStatus, guard...)
	e.GET("/orders/:orderId/audit-logs", h.auditLogs, guard...)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return writeFail(c, http.StatusBadRequest, "invalid body")
	}

	actor, _ := middleware.UserID(c)
	out, err := h.uc.UpdateStatus(c.Request().Context(), actor, c.Param("orderId"), req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Order status updated successfully", out)
}

func (h *AdminOrderHandler) auditLogs(c echo.Context) error {
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return writeFail(c, http.StatusBadRequest, "invalid limit")
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return writeFail(c, http.StatusBadRequest, "invalid offset")
	}

	out, err := h.uc.History(c.Request().Context(), c.Param("orderId"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, http.StatusOK, "Audit logs retrieved successfully", out)
}
