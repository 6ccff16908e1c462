package repository

import (
	"context"
	"time"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// ユーザーのカートを取得し、無ければ作成
// 同時作成は carts.user_id のunique制約で1件に収束させ、作成後に行ロックして読み直す
func (r *CartGormRepository) GetOrCreateByUserID(ctx context.Context, userID string) (model.Cart, error) {
	now := time.Now()
	newCart := model.Cart{UserID: userID, CreatedAt: now, UpdatedAt: now}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&newCart).Error; err != nil {
		return model.Cart{}, translate(err)
	}

	var cart model.Cart
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return model.Cart{}, translate(err)
	}
	return cart, nil
}

// ユーザーのカートを取得（行ロック付き）
func (r *CartGormRepository) FindByUserID(ctx context.Context, userID string) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return model.Cart{}, translate(err)
	}
	return cart, nil
}

// 指定カートの明細を全削除
func (r *CartGormRepository) Clear(ctx context.Context, cartID int64) error {
	var cart model.Cart
	if err := r.db.WithContext(ctx).Where("id = ?", cartID).First(&cart).Error; err != nil {
		return translate(err)
	}

	//cart_itemsを全削除
	if err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		return err
	}
	return nil
}

type CartItemGormRepository struct {
	db *gorm.DB
}

func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// カート明細を一覧取得
func (r *CartItemGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}
	return items, nil
}

func (r *CartItemGormRepository) FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return model.CartItem{}, translate(err)
	}
	return item, nil
}

// 同一商品は数量加算（INSERT ... ON CONFLICT DO UPDATE で1文にまとめる）
func (r *CartItemGormRepository) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) error {
	now := time.Now()
	item := model.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  addQty,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + ?", addQty),
				"updated_at": now,
			}),
		}).
		Create(&item).Error
	return translate(err)
}

// 明細の数量を更新
func (r *CartItemGormRepository) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Update("quantity", qty)
	return rowsAffectedOrNotFound(res)
}

// 明細を削除（無くてもエラーにしない）
func (r *CartItemGormRepository) DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartItem{}).Error
}

func (r *CartItemGormRepository) DeleteByProductID(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.CartItem{}).Error
}

var (
	_ repo.CartRepository     = (*CartGormRepository)(nil)
	_ repo.CartItemRepository = (*CartItemGormRepository)(nil)
)
