package notify

import (
	"context"

	"shopapi/internal/domain/model"

	"go.uber.org/zap"
)

// LogNotifier はブローカー未設定時の代替。イベントをログに出すだけ
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("notify")}
}

func (n *LogNotifier) Notify(_ context.Context, ev model.Event) error {
	n.logger.Info("event",
		zap.String("event_id", ev.EventID),
		zap.String("type", string(ev.Type)),
		zap.String("user_id", ev.UserID),
		zap.String("order_id", ev.OrderID),
		zap.Any("payload", ev.Payload),
	)
	return nil
}

func (n *LogNotifier) Close() error { return nil }
