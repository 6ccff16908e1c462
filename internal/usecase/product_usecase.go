package usecase

import (
	"context"
	"errors"
	"strings"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	tx repo.TransactionManager
}

// DI
func NewProductUsecase(tx repo.TransactionManager) *ProductUsecase {
	return &ProductUsecase{tx: tx}
}

// GET /products の絞り込み
type ListProductsInput struct {
	CategoryID *int64
	Q          string
}

type ProductInput struct {
	CategoryID  *int64
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int64
	ImageURL    string
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalidArgument("name is required")
	}
	if !in.Price.IsPositive() {
		return invalidArgument("price must be > 0")
	}
	if in.Quantity < 0 {
		return invalidArgument("quantity must be >= 0")
	}
	if in.CategoryID == nil {
		return invalidArgument("category_id is required")
	}
	return nil
}

func (in ProductInput) toModel(id int64) model.Product {
	return model.Product{
		ID:          id,
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price.Round(2),
		Quantity:    in.Quantity,
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}
}

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) ([]model.Product, error) {
	if len(in.Q) > 100 {
		return []model.Product{}, invalidArgument("q too long")
	}

	var out []model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, err := r.Products().List(ctx, repo.ProductListQuery{
			CategoryID: in.CategoryID,
			Q:          strings.TrimSpace(in.Q),
		})
		if err != nil {
			return internalError(err)
		}
		out = items
		return nil
	})
	if err != nil {
		return []model.Product{}, err
	}
	return out, nil
}

func (u *ProductUsecase) Get(ctx context.Context, productID int64) (model.Product, error) {
	var out model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return fromRepo(err, msgProductNotFound)
		}
		out = p
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return out, nil
}

func (u *ProductUsecase) Create(ctx context.Context, in ProductInput) (model.Product, error) {
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	var out model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := ensureCategory(ctx, r, *in.CategoryID); err != nil {
			return err
		}
		p, err := r.Products().Create(ctx, in.toModel(0))
		if err != nil {
			return internalError(err)
		}
		out = p
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return out, nil
}

func (u *ProductUsecase) Update(ctx context.Context, productID int64, in ProductInput) (model.Product, error) {
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	var out model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, productID); err != nil {
			return fromRepo(err, msgProductNotFound)
		}
		if err := ensureCategory(ctx, r, *in.CategoryID); err != nil {
			return err
		}
		if err := r.Products().Update(ctx, in.toModel(productID)); err != nil {
			return fromRepo(err, msgProductNotFound)
		}
		p, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return fromRepo(err, msgProductNotFound)
		}
		out = p
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return out, nil
}

// 商品を削除し、全カートからも外す
func (u *ProductUsecase) Delete(ctx context.Context, productID int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.CartItems().DeleteByProductID(ctx, productID); err != nil {
			return internalError(err)
		}
		if err := r.Products().Delete(ctx, productID); err != nil {
			return fromRepo(err, msgProductNotFound)
		}
		return nil
	})
}

func ensureCategory(ctx context.Context, r repo.TxRepos, categoryID int64) error {
	if _, err := r.Categories().FindByID(ctx, categoryID); err != nil {
		return fromRepo(err, msgCategoryNotFound)
	}
	return nil
}

// 重複は Conflict、それ以外は想定外
func fromCreate(err error, conflictMessage string) error {
	if errors.Is(err, repo.ErrDuplicate) {
		return conflict(conflictMessage)
	}
	return internalError(err)
}
