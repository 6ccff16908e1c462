package repository

import (
	"context"

	"shopapi/internal/domain/model"

	"gorm.io/gorm"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.Review, error) {
	var items []model.Review
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id desc").Find(&items).Error; err != nil {
		return []model.Review{}, err
	}
	return items, nil
}

func (r *ReviewGormRepository) ListByUserID(ctx context.Context, userID string) ([]model.Review, error) {
	var items []model.Review
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id desc").Find(&items).Error; err != nil {
		return []model.Review{}, err
	}
	return items, nil
}

func (r *ReviewGormRepository) FindByID(ctx context.Context, id int64) (model.Review, error) {
	var rv model.Review
	if err := r.db.WithContext(ctx).First(&rv, id).Error; err != nil {
		return model.Review{}, translate(err)
	}
	return rv, nil
}

// uniqueIndex(user_id, product_id) 違反は ErrDuplicate
func (r *ReviewGormRepository) Create(ctx context.Context, rv model.Review) (model.Review, error) {
	if err := r.db.WithContext(ctx).Create(&rv).Error; err != nil {
		return model.Review{}, translate(err)
	}
	return rv, nil
}

func (r *ReviewGormRepository) Update(ctx context.Context, rv model.Review) error {
	res := r.db.WithContext(ctx).Model(&model.Review{}).Where("id = ?", rv.ID).Updates(map[string]interface{}{
		"content": rv.Content,
		"rating":  rv.Rating,
	})
	return rowsAffectedOrNotFound(res)
}

func (r *ReviewGormRepository) Delete(ctx context.Context, id int64) error {
	return rowsAffectedOrNotFound(r.db.WithContext(ctx).Delete(&model.Review{}, id))
}
