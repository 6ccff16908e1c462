// Package memory はDBを使わない開発・テスト用のストア。
// トランザクションは直列に実行し、失敗したら変更を捨てる。
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"
)

type cartItemKey struct {
	cartID    int64
	productID int64
}

type reviewKey struct {
	userID    string
	productID int64
}

type state struct {
	users      map[string]model.User
	categories map[int64]model.Category
	products   map[int64]model.Product
	reviews    map[int64]model.Review
	carts      map[int64]model.Cart
	cartItems  map[int64]model.CartItem
	orders     map[string]model.Order
	orderItems map[int64]model.OrderItem
	auditLogs  []model.AuditLog

	// 挿入順（注文IDはUUIDなので並び替え用に持つ）
	orderSeq map[string]int64

	seq int64
}

func newState() *state {
	return &state{
		users:      map[string]model.User{},
		categories: map[int64]model.Category{},
		products:   map[int64]model.Product{},
		reviews:    map[int64]model.Review{},
		carts:      map[int64]model.Cart{},
		cartItems:  map[int64]model.CartItem{},
		orders:     map[string]model.Order{},
		orderItems: map[int64]model.OrderItem{},
		orderSeq:   map[string]int64{},
	}
}

// 値型なのでマップの複製で十分（ポインタ項目は書き換えずに差し替える）
func (s *state) clone() *state {
	return &state{
		users:      maps.Clone(s.users),
		categories: maps.Clone(s.categories),
		products:   maps.Clone(s.products),
		reviews:    maps.Clone(s.reviews),
		carts:      maps.Clone(s.carts),
		cartItems:  maps.Clone(s.cartItems),
		orders:     maps.Clone(s.orders),
		orderItems: maps.Clone(s.orderItems),
		auditLogs:  append([]model.AuditLog(nil), s.auditLogs...),
		orderSeq:   maps.Clone(s.orderSeq),
		seq:        s.seq,
	}
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

func (s *Store) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.st.clone()
	if err := fn(&txRepos{st: work, now: s.now}); err != nil {
		return err
	}
	s.st = work
	return nil
}

type txRepos struct {
	st  *state
	now func() time.Time
}

func (r *txRepos) Users() repo.UserRepository           { return &userRepo{r} }
func (r *txRepos) Categories() repo.CategoryRepository  { return &categoryRepo{r} }
func (r *txRepos) Products() repo.ProductRepository     { return &productRepo{r} }
func (r *txRepos) Reviews() repo.ReviewRepository       { return &reviewRepo{r} }
func (r *txRepos) Carts() repo.CartRepository           { return &cartRepo{r} }
func (r *txRepos) CartItems() repo.CartItemRepository   { return &cartItemRepo{r} }
func (r *txRepos) Orders() repo.OrderRepository         { return &orderRepo{r} }
func (r *txRepos) OrderItems() repo.OrderItemRepository { return &orderItemRepo{r} }
func (r *txRepos) AuditLogs() repo.AuditLogRepository   { return &auditLogRepo{r} }

var _ repo.TransactionManager = (*Store)(nil)
