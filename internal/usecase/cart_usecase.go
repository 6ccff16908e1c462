package usecase

import (
	"context"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase はカートの業務ロジック。
// 取得・追加はカートを自動作成し、更新・削除・クリアは既存カートが必要。
type CartUsecase struct {
	tx repo.TransactionManager
}

func NewCartUsecase(tx repo.TransactionManager) *CartUsecase {
	return &CartUsecase{tx: tx}
}

type AddCartItemInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	ProductID int64
	Quantity  int64
}

// カート取得（無ければ空で作る）
func (u *CartUsecase) GetCart(ctx context.Context, userID string) (CartView, error) {
	var out CartView
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := getOrCreateCart(ctx, r, userID)
		if err != nil {
			return err
		}
		out, err = buildCartView(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartView{}, err
	}
	return out, nil
}

// 同一商品は数量加算
func (u *CartUsecase) AddItem(ctx context.Context, userID string, in AddCartItemInput) (CartView, error) {
	if in.Quantity <= 0 {
		return CartView{}, invalidArgument("quantity must be positive")
	}

	var out CartView
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := getOrCreateCart(ctx, r, userID)
		if err != nil {
			return err
		}

		if _, err := r.Products().FindByID(ctx, in.ProductID); err != nil {
			return fromRepo(err, msgProductNotFound)
		}

		if err := r.CartItems().UpsertByCartAndProduct(ctx, cart.ID, in.ProductID, in.Quantity); err != nil {
			return internalError(err)
		}

		out, err = buildCartView(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartView{}, err
	}
	return out, nil
}

// 数量を上書き（加算しない）
func (u *CartUsecase) UpdateItem(ctx context.Context, userID string, in UpdateCartItemInput) (CartView, error) {
	if in.Quantity <= 0 {
		return CartView{}, invalidArgument("quantity must be positive")
	}

	var out CartView
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := getExistingCart(ctx, r, userID)
		if err != nil {
			return err
		}

		item, err := r.CartItems().FindByCartAndProduct(ctx, cart.ID, in.ProductID)
		if err != nil {
			return fromRepo(err, msgCartItemNotFound)
		}
		if err := r.CartItems().UpdateQuantity(ctx, item.ID, in.Quantity); err != nil {
			return fromRepo(err, msgCartItemNotFound)
		}

		out, err = buildCartView(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartView{}, err
	}
	return out, nil
}

// 明細が無くてもエラーにしない
func (u *CartUsecase) RemoveItem(ctx context.Context, userID string, productID int64) (CartView, error) {
	var out CartView
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := getExistingCart(ctx, r, userID)
		if err != nil {
			return err
		}
		if err := r.CartItems().DeleteByCartAndProduct(ctx, cart.ID, productID); err != nil {
			return internalError(err)
		}
		out, err = buildCartView(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartView{}, err
	}
	return out, nil
}

func (u *CartUsecase) Clear(ctx context.Context, userID string) (CartView, error) {
	var out CartView
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := getExistingCart(ctx, r, userID)
		if err != nil {
			return err
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return fromRepo(err, msgCartNotFound)
		}
		out, err = buildCartView(ctx, r, cart)
		return err
	})
	if err != nil {
		return CartView{}, err
	}
	return out, nil
}

func ensureUser(ctx context.Context, r repo.TxRepos, userID string) error {
	if !isUUID(userID) {
		return notFound(msgUserNotFound)
	}
	ok, err := r.Users().Exists(ctx, userID)
	if err != nil {
		return internalError(err)
	}
	if !ok {
		return notFound(msgUserNotFound)
	}
	return nil
}

// ユーザー確認後、無ければ作成
func getOrCreateCart(ctx context.Context, r repo.TxRepos, userID string) (model.Cart, error) {
	if err := ensureUser(ctx, r, userID); err != nil {
		return model.Cart{}, err
	}
	cart, err := r.Carts().GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return model.Cart{}, internalError(err)
	}
	return cart, nil
}

// 無ければ CartNotFound（ここでは作らない）
func getExistingCart(ctx context.Context, r repo.TxRepos, userID string) (model.Cart, error) {
	if !isUUID(userID) {
		return model.Cart{}, notFound(msgCartNotFound)
	}
	cart, err := r.Carts().FindByUserID(ctx, userID)
	if err != nil {
		return model.Cart{}, fromRepo(err, msgCartNotFound)
	}
	return cart, nil
}

// 合計は現在の商品価格から毎回計算する（保存しない）
func buildCartView(ctx context.Context, r repo.TxRepos, cart model.Cart) (CartView, error) {
	items, err := r.CartItems().ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartView{}, internalError(err)
	}

	out := CartView{
		ID:         cart.ID,
		UserID:     cart.UserID,
		Items:      make([]CartItemView, 0, len(items)),
		TotalPrice: decimal.Zero,
	}
	for _, it := range items {
		p, err := r.Products().FindByID(ctx, it.ProductID)
		if err != nil {
			return CartView{}, fromRepo(err, msgProductNotFound)
		}
		subtotal := p.Price.Mul(decimal.NewFromInt(it.Quantity))
		out.Items = append(out.Items, CartItemView{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductName:     p.Name,
			ProductImageURL: p.ImageURL,
			ProductPrice:    p.Price,
			Quantity:        it.Quantity,
			Subtotal:        subtotal,
		})
		out.TotalPrice = out.TotalPrice.Add(subtotal)
	}
	return out, nil
}
