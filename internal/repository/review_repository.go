package repository

import (
	"context"

	"shopapi/internal/domain/model"
)

type ReviewRepository interface {
	ListByProductID(ctx context.Context, productID int64) ([]model.Review, error)
	ListByUserID(ctx context.Context, userID string) ([]model.Review, error)
	FindByID(ctx context.Context, id int64) (model.Review, error)
	// 同じ(user, product)が既にあれば ErrDuplicate
	Create(ctx context.Context, r model.Review) (model.Review, error)
	Update(ctx context.Context, r model.Review) error
	Delete(ctx context.Context, id int64) error
}
