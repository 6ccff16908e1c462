package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 購入時点の商品名・画像・価格を保存する（以後、商品の価格変更に追従しない）
type OrderItem struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         string          `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID       int64           `gorm:"not null;index" json:"product_id"`
	ProductName     string          `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductImageURL string          `gorm:"type:text" json:"product_image_url"`
	Price           decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	Quantity        int64           `gorm:"not null" json:"quantity"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"subtotal"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
