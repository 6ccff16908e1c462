package usecase

import (
	"context"
	"strings"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"

	"github.com/microcosm-cc/bluemonday"
)

const (
	minRating = 1
	maxRating = 5
)

type ReviewUsecase struct {
	tx     repo.TransactionManager
	policy *bluemonday.Policy
}

func NewReviewUsecase(tx repo.TransactionManager) *ReviewUsecase {
	return &ReviewUsecase{tx: tx, policy: bluemonday.StrictPolicy()}
}

type CreateReviewInput struct {
	UserID    string
	ProductID int64
	Content   string
	Rating    int
}

type UpdateReviewInput struct {
	Content string
	Rating  int
}

// HTMLを全て落としてから必須チェック
func (u *ReviewUsecase) sanitize(content string, rating int) (string, error) {
	clean := strings.TrimSpace(u.policy.Sanitize(content))
	if clean == "" {
		return "", invalidArgument("content is required")
	}
	if rating < minRating || rating > maxRating {
		return "", invalidArgument("rating must be between 1 and 5")
	}
	return clean, nil
}

func (u *ReviewUsecase) ListByProduct(ctx context.Context, productID int64) ([]model.Review, error) {
	return u.list(ctx, func(r repo.TxRepos) ([]model.Review, error) {
		if _, err := r.Products().FindByID(ctx, productID); err != nil {
			return nil, fromRepo(err, msgProductNotFound)
		}
		return r.Reviews().ListByProductID(ctx, productID)
	})
}

func (u *ReviewUsecase) ListByUser(ctx context.Context, userID string) ([]model.Review, error) {
	return u.list(ctx, func(r repo.TxRepos) ([]model.Review, error) {
		if err := ensureUser(ctx, r, userID); err != nil {
			return nil, err
		}
		return r.Reviews().ListByUserID(ctx, userID)
	})
}

func (u *ReviewUsecase) list(ctx context.Context, fn func(r repo.TxRepos) ([]model.Review, error)) ([]model.Review, error) {
	var out []model.Review
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, err := fn(r)
		if err != nil {
			return fromRepo(err, msgReviewNotFound)
		}
		out = items
		return nil
	})
	if err != nil {
		return []model.Review{}, err
	}
	return out, nil
}

func (u *ReviewUsecase) Get(ctx context.Context, id int64) (model.Review, error) {
	var out model.Review
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		rv, err := r.Reviews().FindByID(ctx, id)
		if err != nil {
			return fromRepo(err, msgReviewNotFound)
		}
		out = rv
		return nil
	})
	if err != nil {
		return model.Review{}, err
	}
	return out, nil
}

// 1ユーザー1商品につき1件
func (u *ReviewUsecase) Create(ctx context.Context, in CreateReviewInput) (model.Review, error) {
	content, err := u.sanitize(in.Content, in.Rating)
	if err != nil {
		return model.Review{}, err
	}

	var out model.Review
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := ensureUser(ctx, r, in.UserID); err != nil {
			return err
		}
		if _, err := r.Products().FindByID(ctx, in.ProductID); err != nil {
			return fromRepo(err, msgProductNotFound)
		}
		rv, err := r.Reviews().Create(ctx, model.Review{
			ProductID: in.ProductID,
			UserID:    in.UserID,
			Content:   content,
			Rating:    in.Rating,
		})
		if err != nil {
			return fromCreate(err, "review already exists for this product")
		}
		out = rv
		return nil
	})
	if err != nil {
		return model.Review{}, err
	}
	return out, nil
}

func (u *ReviewUsecase) Update(ctx context.Context, id int64, in UpdateReviewInput) (model.Review, error) {
	content, err := u.sanitize(in.Content, in.Rating)
	if err != nil {
		return model.Review{}, err
	}

	var out model.Review
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		rv, err := r.Reviews().FindByID(ctx, id)
		if err != nil {
			return fromRepo(err, msgReviewNotFound)
		}
		rv.Content = content
		rv.Rating = in.Rating
		if err := r.Reviews().Update(ctx, rv); err != nil {
			return fromRepo(err, msgReviewNotFound)
		}
		out, err = r.Reviews().FindByID(ctx, id)
		return fromRepo(err, msgReviewNotFound)
	})
	if err != nil {
		return model.Review{}, err
	}
	return out, nil
}

func (u *ReviewUsecase) Delete(ctx context.Context, id int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		return fromRepo(r.Reviews().Delete(ctx, id), msgReviewNotFound)
	})
}
