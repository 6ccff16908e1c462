package usecase

import (
	"context"
	"time"

	"shopapi/internal/domain/model"
	"shopapi/internal/i18n"

	"github.com/shopspring/decimal"
)

type CartItemView struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductImageURL string          `json:"product_image_url"`
	ProductPrice    decimal.Decimal `json:"product_price"`
	Quantity        int64           `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// total_price は表示時点の商品価格で計算した参考値
type CartView struct {
	ID         int64           `json:"id"`
	UserID     string          `json:"user_id"`
	Items      []CartItemView  `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type OrderItemView struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductImageURL string          `json:"product_image_url"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int64           `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

type OrderView struct {
	ID              string            `json:"id"`
	UserID          string            `json:"user_id"`
	Items           []OrderItemView   `json:"items"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	Status          model.OrderStatus `json:"status"`
	StatusDisplay   string            `json:"status_display"`
	ShippingAddress string            `json:"shipping_address"`
	PhoneNumber     string            `json:"phone_number"`
	OrderDate       time.Time         `json:"order_date"`
	DeliveryDate    *time.Time        `json:"delivery_date"`
}

// page は0始まり
type OrderPage struct {
	Content       []OrderView `json:"content"`
	Page          int         `json:"page"`
	Size          int         `json:"size"`
	TotalElements int64       `json:"total_elements"`
	TotalPages    int         `json:"total_pages"`
	Last          bool        `json:"last"`
}

// ステータス表示名は context の言語で決める
func toOrderView(ctx context.Context, o model.Order, items []model.OrderItem) OrderView {
	views := make([]OrderItemView, 0, len(items))
	for _, it := range items {
		views = append(views, OrderItemView{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			ProductImageURL: it.ProductImageURL,
			Price:           it.Price,
			Quantity:        it.Quantity,
			Subtotal:        it.Subtotal,
		})
	}
	return OrderView{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           views,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		StatusDisplay:   i18n.StatusLabel(i18n.LangFromContext(ctx), o.Status),
		ShippingAddress: o.ShippingAddress,
		PhoneNumber:     o.PhoneNumber,
		OrderDate:       o.OrderDate,
		DeliveryDate:    o.DeliveryDate,
	}
}
