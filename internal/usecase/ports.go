package usecase

import (
	"context"
	"time"

	"shopapi/internal/domain/model"
)

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 通知（メール・配送連携など）の送り口。失敗しても業務処理は失敗させない
type Notifier interface {
	Notify(ctx context.Context, ev model.Event) error
}

// 注文イベントの計測
type OrderMetrics interface {
	RecordOrderEvent(event string)
}

type nopMetrics struct{}

func (nopMetrics) RecordOrderEvent(string) {}
