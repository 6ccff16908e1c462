package repository

import (
	"context"

	"shopapi/internal/domain/model"
)

type CartRepository interface {
	// 無ければ空のカートを作成して返す
	GetOrCreateByUserID(ctx context.Context, userID string) (model.Cart, error)
	// 無ければ ErrNotFound
	FindByUserID(ctx context.Context, userID string) (model.Cart, error)
	// 明細を全削除（カート自体は残す）
	Clear(ctx context.Context, cartID int64) error
}
