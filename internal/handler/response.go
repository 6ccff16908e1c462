package handler

import (
	"net/http"
	"strconv"

	"shopapi/internal/observability"
	"shopapi/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// 全レスポンス共通の形
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeOK(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func writeFail(c echo.Context, status int, message string) error {
	return c.JSON(status, Response{Success: false, Message: message})
}

// usecaseのエラーをステータスに変換する。500は中身を出さない
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok && he.Status > 0 && he.Status < http.StatusInternalServerError {
		return writeFail(c, he.Status, he.Message)
	}

	//500
	observability.FromContext(c.Request().Context()).Error("unhandled error", zap.Error(err))
	return writeFail(c, http.StatusInternalServerError, "internal error")
}

func paramInt64(c echo.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// クエリの整数（空なら def）
func queryInt(c echo.Context, name string, def int) (int, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
