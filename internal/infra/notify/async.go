package notify

import (
	"context"
	"sync"
	"time"

	"shopapi/internal/domain/model"

	"go.uber.org/zap"
)

type Sink interface {
	Notify(ctx context.Context, ev model.Event) error
	Close() error
}

const defaultDeliveryTimeout = 5 * time.Second

// Async は呼び出し元を待たせずに配送する。
// 失敗はWARNでログに出すだけで呼び出し元には返さない。
type Async struct {
	sink    Sink
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsync(sink Sink, logger *zap.Logger, timeout time.Duration) *Async {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultDeliveryTimeout
	}
	return &Async{sink: sink, logger: logger.Named("notify"), timeout: timeout}
}

// リクエストのcontextがキャンセルされても配送は続ける
func (a *Async) Notify(ctx context.Context, ev model.Event) error {
	detached := context.WithoutCancel(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		dctx, cancel := context.WithTimeout(detached, a.timeout)
		defer cancel()

		if err := a.sink.Notify(dctx, ev); err != nil {
			a.logger.Warn("notification failed",
				zap.String("event_id", ev.EventID),
				zap.String("type", string(ev.Type)),
				zap.Error(err),
			)
		}
	}()
	return nil
}

// Close は配送中のイベントを待ってから下位を閉じる
func (a *Async) Close() error {
	a.wg.Wait()
	return a.sink.Close()
}
