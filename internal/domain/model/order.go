package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_amount"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	ShippingAddress string          `gorm:"type:text;not null" json:"shipping_address"`
	PhoneNumber     string          `gorm:"type:varchar(30);not null" json:"phone_number"`
	OrderDate       time.Time       `gorm:"not null;index" json:"order_date"`
	DeliveryDate    *time.Time      `json:"delivery_date"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
