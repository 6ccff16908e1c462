package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName     string    `gorm:"type:varchar(255);not null" json:"full_name"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Picture      string    `gorm:"type:text" json:"picture"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	IsActive     bool      `gorm:"not null;default:false" json:"is_active"`
	OTP          string    `gorm:"column:otp;type:varchar(12)" json:"-"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
