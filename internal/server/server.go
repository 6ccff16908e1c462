package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"shopapi/internal/i18n"
	"shopapi/internal/observability"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// New は共通ミドルウェアを積んだ echo を作る
func New(logger *zap.Logger, metrics *observability.Metrics, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(observability.RequestLogger(logger))
	if metrics != nil {
		e.Use(metrics.Middleware())
	}
	e.Use(i18n.Middleware())

	RegisterRoutes(e, h, metrics)
	return e
}

// Start は ctx が終わるまで待ち、shutdownTimeout 以内に止める
func Start(ctx context.Context, e *echo.Echo, addr string, shutdownTimeout time.Duration, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
