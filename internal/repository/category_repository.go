package repository

import (
	"context"

	"shopapi/internal/domain/model"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	ListRoots(ctx context.Context) ([]model.Category, error)
	ListByParentID(ctx context.Context, parentID int64) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	FindByName(ctx context.Context, name string) (model.Category, error)
	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, c model.Category) error
	Delete(ctx context.Context, id int64) error
}
