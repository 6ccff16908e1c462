package memory

import (
	"context"
	"slices"
	"strings"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"
)

// マップの値をID昇順で返す
func sortedByID[T any](m map[int64]T, keep func(T) bool) []T {
	ids := make([]int64, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

type userRepo struct{ *txRepos }

func (r *userRepo) Create(_ context.Context, u model.User) error {
	if _, ok := r.st.users[u.ID]; ok {
		return repo.ErrDuplicate
	}
	for _, existing := range r.st.users {
		if existing.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	now := r.now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.st.users[u.ID] = u
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return model.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range r.st.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repo.ErrNotFound
}

func (r *userRepo) Update(_ context.Context, u model.User) error {
	cur, ok := r.st.users[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	u.Email = cur.Email
	u.CreatedAt = cur.CreatedAt
	u.UpdatedAt = r.now()
	r.st.users[u.ID] = u
	return nil
}

func (r *userRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.st.users[id]
	return ok, nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.st.users[id]; !ok {
		return repo.ErrNotFound
	}
	for cartID, c := range r.st.carts {
		if c.UserID != id {
			continue
		}
		for itemID, it := range r.st.cartItems {
			if it.CartID == cartID {
				delete(r.st.cartItems, itemID)
			}
		}
		delete(r.st.carts, cartID)
	}
	delete(r.st.users, id)
	return nil
}

type categoryRepo struct{ *txRepos }

func (r *categoryRepo) List(_ context.Context) ([]model.Category, error) {
	return sortedByID(r.st.categories, nil), nil
}

func (r *categoryRepo) ListRoots(_ context.Context) ([]model.Category, error) {
	return sortedByID(r.st.categories, func(c model.Category) bool { return c.ParentID == nil }), nil
}

func (r *categoryRepo) ListByParentID(_ context.Context, parentID int64) ([]model.Category, error) {
	return sortedByID(r.st.categories, func(c model.Category) bool {
		return c.ParentID != nil && *c.ParentID == parentID
	}), nil
}

func (r *categoryRepo) FindByID(_ context.Context, id int64) (model.Category, error) {
	c, ok := r.st.categories[id]
	if !ok {
		return model.Category{}, repo.ErrNotFound
	}
	return c, nil
}

func (r *categoryRepo) FindByName(_ context.Context, name string) (model.Category, error) {
	for _, c := range r.st.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return model.Category{}, repo.ErrNotFound
}

func (r *categoryRepo) nameTaken(name string, exceptID int64) bool {
	for _, c := range r.st.categories {
		if c.Name == name && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *categoryRepo) Create(_ context.Context, c model.Category) (model.Category, error) {
	if r.nameTaken(c.Name, 0) {
		return model.Category{}, repo.ErrDuplicate
	}
	now := r.now()
	c.ID = r.st.nextID()
	c.CreatedAt, c.UpdatedAt = now, now
	r.st.categories[c.ID] = c
	return c, nil
}

func (r *categoryRepo) Update(_ context.Context, c model.Category) error {
	cur, ok := r.st.categories[c.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if r.nameTaken(c.Name, c.ID) {
		return repo.ErrDuplicate
	}
	c.CreatedAt = cur.CreatedAt
	c.UpdatedAt = r.now()
	r.st.categories[c.ID] = c
	return nil
}

func (r *categoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.st.categories[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.st.categories, id)
	return nil
}

type productRepo struct{ *txRepos }

func (r *productRepo) List(_ context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	needle := strings.ToLower(strings.TrimSpace(q.Q))
	return sortedByID(r.st.products, func(p model.Product) bool {
		if q.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *q.CategoryID) {
			return false
		}
		return needle == "" || strings.Contains(strings.ToLower(p.Name), needle)
	}), nil
}

func (r *productRepo) FindByID(_ context.Context, id int64) (model.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r *productRepo) Create(_ context.Context, p model.Product) (model.Product, error) {
	now := r.now()
	p.ID = r.st.nextID()
	p.CreatedAt, p.UpdatedAt = now, now
	r.st.products[p.ID] = p
	return p, nil
}

func (r *productRepo) Update(_ context.Context, p model.Product) error {
	cur, ok := r.st.products[p.ID]
	if !ok {
		return repo.ErrNotFound
	}
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = r.now()
	r.st.products[p.ID] = p
	return nil
}

func (r *productRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.st.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.st.products, id)
	return nil
}

type reviewRepo struct{ *txRepos }

// 新しい順
func (r *reviewRepo) list(keep func(model.Review) bool) []model.Review {
	out := sortedByID(r.st.reviews, keep)
	slices.Reverse(out)
	return out
}

func (r *reviewRepo) ListByProductID(_ context.Context, productID int64) ([]model.Review, error) {
	return r.list(func(rv model.Review) bool { return rv.ProductID == productID }), nil
}

func (r *reviewRepo) ListByUserID(_ context.Context, userID string) ([]model.Review, error) {
	return r.list(func(rv model.Review) bool { return rv.UserID == userID }), nil
}

func (r *reviewRepo) FindByID(_ context.Context, id int64) (model.Review, error) {
	rv, ok := r.st.reviews[id]
	if !ok {
		return model.Review{}, repo.ErrNotFound
	}
	return rv, nil
}

func (r *reviewRepo) Create(_ context.Context, rv model.Review) (model.Review, error) {
	key := reviewKey{userID: rv.UserID, productID: rv.ProductID}
	for _, existing := range r.st.reviews {
		if (reviewKey{userID: existing.UserID, productID: existing.ProductID}) == key {
			return model.Review{}, repo.ErrDuplicate
		}
	}
	now := r.now()
	rv.ID = r.st.nextID()
	rv.CreatedAt, rv.UpdatedAt = now, now
	r.st.reviews[rv.ID] = rv
	return rv, nil
}

func (r *reviewRepo) Update(_ context.Context, rv model.Review) error {
	cur, ok := r.st.reviews[rv.ID]
	if !ok {
		return repo.ErrNotFound
	}
	cur.Content = rv.Content
	cur.Rating = rv.Rating
	cur.UpdatedAt = r.now()
	r.st.reviews[rv.ID] = cur
	return nil
}

func (r *reviewRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.st.reviews[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.st.reviews, id)
	return nil
}
