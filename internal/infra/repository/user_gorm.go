package repository

import (
	"context"

	"shopapi/internal/domain/model"

	"gorm.io/gorm"
)

type UserGormRepository struct {
	db *gorm.DB
}

// DI
func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

// Create はユーザーを新規作成
func (r *UserGormRepository) Create(ctx context.Context, user model.User) error {
	return translate(r.db.WithContext(ctx).Create(&user).Error)
}

// IDでユーザーを1件取得
func (r *UserGormRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		return model.User{}, translate(err)
	}
	return u, nil
}

// emailでユーザーを1件取得
func (r *UserGormRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		return model.User{}, translate(err)
	}
	return u, nil
}

// ユーザーを更新。
func (r *UserGormRepository) Update(ctx context.Context, user model.User) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"full_name":     user.FullName,
		"password_hash": user.PasswordHash,
		"picture":       user.Picture,
		"role":          user.Role,
		"is_active":     user.IsActive,
		"otp":           user.OTP,
	})
	return rowsAffectedOrNotFound(res)
}

// カート明細、カート、ユーザーの順に消す
func (r *UserGormRepository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("cart_id IN (?)", db.Model(&model.Cart{}).Select("id").Where("user_id = ?", id)).
		Delete(&model.CartItem{}).Error; err != nil {
		return translate(err)
	}
	if err := db.Where("user_id = ?", id).Delete(&model.Cart{}).Error; err != nil {
		return translate(err)
	}
	return rowsAffectedOrNotFound(db.Where("id = ?", id).Delete(&model.User{}))
}

func (r *UserGormRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
