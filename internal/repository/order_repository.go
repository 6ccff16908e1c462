package repository

import (
	"context"
	"time"

	"shopapi/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	// order_date の新しい順
	ListByUserID(ctx context.Context, userID string) ([]model.Order, error)
	// page は0始まり
	PageByUserID(ctx context.Context, userID string, page int, size int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) error
	// deliveryDate が nil なら delivery_date は変更しない
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, deliveryDate *time.Time) error
}
