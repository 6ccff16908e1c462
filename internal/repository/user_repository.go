package repository

import (
	"context"

	"shopapi/internal/domain/model"
)

// ユーザーの保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（email重複は ErrDuplicate）
	Create(ctx context.Context, user model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID string) (model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Update(ctx context.Context, user model.User) error
	Exists(ctx context.Context, userID string) (bool, error)
	// ユーザーとそのカート（明細ごと）を削除。無ければ ErrNotFound
	Delete(ctx context.Context, userID string) error
}
