package usecase

import (
	"context"
	"errors"
	"strings"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"
)

const msgCategoryNameTaken = "category name already exists"

type CategoryUsecase struct {
	tx repo.TransactionManager
}

func NewCategoryUsecase(tx repo.TransactionManager) *CategoryUsecase {
	return &CategoryUsecase{tx: tx}
}

type CategoryInput struct {
	Name        string
	Description string
	ImageURL    string
	ParentID    *int64
}

func (u *CategoryUsecase) List(ctx context.Context) ([]model.Category, error) {
	return u.list(ctx, func(r repo.TxRepos) ([]model.Category, error) {
		return r.Categories().List(ctx)
	})
}

// 親なしのカテゴリ
func (u *CategoryUsecase) ListRoots(ctx context.Context) ([]model.Category, error) {
	return u.list(ctx, func(r repo.TxRepos) ([]model.Category, error) {
		return r.Categories().ListRoots(ctx)
	})
}

func (u *CategoryUsecase) ListSubcategories(ctx context.Context, parentID int64) ([]model.Category, error) {
	return u.list(ctx, func(r repo.TxRepos) ([]model.Category, error) {
		if err := ensureCategory(ctx, r, parentID); err != nil {
			return nil, err
		}
		return r.Categories().ListByParentID(ctx, parentID)
	})
}

func (u *CategoryUsecase) list(ctx context.Context, fn func(r repo.TxRepos) ([]model.Category, error)) ([]model.Category, error) {
	var out []model.Category
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, err := fn(r)
		if err != nil {
			return fromRepo(err, msgCategoryNotFound)
		}
		out = items
		return nil
	})
	if err != nil {
		return []model.Category{}, err
	}
	return out, nil
}

// 名前の完全一致（前後の空白は無視）
func (u *CategoryUsecase) GetByName(ctx context.Context, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, invalidArgument("name is required")
	}
	var out model.Category
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Categories().FindByName(ctx, name)
		if err != nil {
			return fromRepo(err, msgCategoryNotFound)
		}
		out = c
		return nil
	})
	if err != nil {
		return model.Category{}, err
	}
	return out, nil
}

func (u *CategoryUsecase) Get(ctx context.Context, id int64) (model.Category, error) {
	var out model.Category
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Categories().FindByID(ctx, id)
		if err != nil {
			return fromRepo(err, msgCategoryNotFound)
		}
		out = c
		return nil
	})
	if err != nil {
		return model.Category{}, err
	}
	return out, nil
}

func (u *CategoryUsecase) Create(ctx context.Context, in CategoryInput) (model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, invalidArgument("name is required")
	}

	var out model.Category
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := u.checkName(ctx, r, name, 0); err != nil {
			return err
		}
		if in.ParentID != nil {
			if err := u.checkParent(ctx, r, *in.ParentID); err != nil {
				return err
			}
		}
		c, err := r.Categories().Create(ctx, model.Category{
			Name:        name,
			Description: in.Description,
			ImageURL:    strings.TrimSpace(in.ImageURL),
			ParentID:    in.ParentID,
		})
		if err != nil {
			return fromCreate(err, msgCategoryNameTaken)
		}
		out = c
		return nil
	})
	if err != nil {
		return model.Category{}, err
	}
	return out, nil
}

func (u *CategoryUsecase) Update(ctx context.Context, id int64, in CategoryInput) (model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, invalidArgument("name is required")
	}
	if in.ParentID != nil && *in.ParentID == id {
		return model.Category{}, invalidArgument("category cannot be its own parent")
	}

	var out model.Category
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cur, err := r.Categories().FindByID(ctx, id)
		if err != nil {
			return fromRepo(err, msgCategoryNotFound)
		}
		if err := u.checkName(ctx, r, name, id); err != nil {
			return err
		}
		if in.ParentID != nil {
			if err := u.checkParent(ctx, r, *in.ParentID); err != nil {
				return err
			}
		}

		cur.Name = name
		cur.Description = in.Description
		cur.ImageURL = strings.TrimSpace(in.ImageURL)
		cur.ParentID = in.ParentID
		if err := r.Categories().Update(ctx, cur); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return conflict(msgCategoryNameTaken)
			}
			return fromRepo(err, msgCategoryNotFound)
		}
		out, err = r.Categories().FindByID(ctx, id)
		return fromRepo(err, msgCategoryNotFound)
	})
	if err != nil {
		return model.Category{}, err
	}
	return out, nil
}

// 子カテゴリや商品が残っていれば削除しない
func (u *CategoryUsecase) Delete(ctx context.Context, id int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Categories().FindByID(ctx, id); err != nil {
			return fromRepo(err, msgCategoryNotFound)
		}
		children, err := r.Categories().ListByParentID(ctx, id)
		if err != nil {
			return internalError(err)
		}
		if len(children) > 0 {
			return conflict("category has subcategories")
		}
		products, err := r.Products().List(ctx, repo.ProductListQuery{CategoryID: &id})
		if err != nil {
			return internalError(err)
		}
		if len(products) > 0 {
			return conflict("category has products")
		}
		return fromRepo(r.Categories().Delete(ctx, id), msgCategoryNotFound)
	})
}

// 名前の一意チェック（exceptID は更新対象自身）
func (u *CategoryUsecase) checkName(ctx context.Context, r repo.TxRepos, name string, exceptID int64) error {
	existing, err := r.Categories().FindByName(ctx, name)
	if err == nil && existing.ID != exceptID {
		return conflict(msgCategoryNameTaken)
	}
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return internalError(err)
	}
	return nil
}

func (u *CategoryUsecase) checkParent(ctx context.Context, r repo.TxRepos, parentID int64) error {
	if _, err := r.Categories().FindByID(ctx, parentID); err != nil {
		return fromRepo(err, "parent category not found")
	}
	return nil
}
