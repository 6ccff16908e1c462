package model

import "time"

// 1ユーザー1商品につき1件
type Review struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_reviews_user_product,priority:2" json:"product_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product,priority:1" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
