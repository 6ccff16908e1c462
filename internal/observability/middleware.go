package observability

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const unmatchedRoute = "unmatched"

// RequestLogger はリクエストの開始・完了をログに出し、ロガーをcontextに載せる。
// 5xx は ERROR、4xx は WARN、それ以外は INFO。
func RequestLogger(base *zap.Logger) echo.MiddlewareFunc {
	if base == nil {
		base = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			logger := base.With(
				zap.String("request_id", requestID(c)),
				zap.String("method", req.Method),
				zap.String("route", route(c)),
				zap.String("remote_ip", c.RealIP()),
			)
			c.SetRequest(req.WithContext(WithLogger(req.Context(), logger)))

			start := time.Now()
			logger.Debug("request started")

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			fields := []zap.Field{
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.Int64("bytes", c.Response().Size),
			}
			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("request completed", fields...)
			case status >= http.StatusBadRequest:
				logger.Warn("request completed", fields...)
			default:
				logger.Info("request completed", fields...)
			}
			return nil
		}
	}
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// ルートのパターン（/orders/:orderId）を返す。未マッチは固定値にしてラベルを増やさない
func route(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return unmatchedRoute
}
