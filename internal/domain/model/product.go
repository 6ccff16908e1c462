package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  *int64          `gorm:"index" json:"category_id"`
	Name        string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	Quantity    int64           `gorm:"not null;default:0" json:"quantity"`
	ImageURL    string          `gorm:"type:text" json:"image_url"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
