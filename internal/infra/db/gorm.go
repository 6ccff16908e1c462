package db

import (
	"fmt"

	"shopapi/internal/config"
	"shopapi/internal/domain/model"
	"shopapi/internal/observability"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect はDBに接続して *gorm.DB を返す。
// DATABASE_URL があれば最優先で使う
func Connect(cfg config.Config, logger *zap.Logger) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{
		//ErrDuplicatedKey などに変換させる
		TranslateError: true,
		Logger:         observability.NewGormLogger(logger, cfg.LogLevel == "debug"),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return gdb, nil
}

// Migrate はテーブルを作成・更新する
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Review{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
