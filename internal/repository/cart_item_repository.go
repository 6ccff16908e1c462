package repository

import (
	"context"

	"shopapi/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error)
	// 同一商品はプラス
	UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) error
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	// 無ければ何もしない
	DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error
	// 商品削除時に全カートから外す
	DeleteByProductID(ctx context.Context, productID int64) error
}
