package model

import "time"

type EventType string

const (
	EventUserRegistered        EventType = "user.registered"
	EventPasswordResetRequired EventType = "user.password_reset_requested"
	EventOrderCreated          EventType = "order.created"
	EventOrderStatusChanged    EventType = "order.status_changed"
	EventOrderCancelled        EventType = "order.cancelled"
)

// 外部へ通知するドメインイベント（メール送信・配送連携などは購読側が行う）
type Event struct {
	EventID   string         `json:"event_id"`
	Type      EventType      `json:"type"`
	UserID    string         `json:"user_id,omitempty"`
	OrderID   string         `json:"order_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// メッセージキー（注文があれば注文ID、無ければユーザーID）
func (e Event) Key() string {
	if e.OrderID != "" {
		return e.OrderID
	}
	return e.UserID
}
