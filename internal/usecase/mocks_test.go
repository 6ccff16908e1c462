package usecase_test

import (
	"context"
	"time"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

// チェックアウトで使うものだけ持つ
type TxReposMock struct {
	users      repo.UserRepository
	carts      repo.CartRepository
	cartItems  repo.CartItemRepository
	products   repo.ProductRepository
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
}

func (r *TxReposMock) Users() repo.UserRepository           { return r.users }
func (r *TxReposMock) Categories() repo.CategoryRepository  { panic("not used") }
func (r *TxReposMock) Products() repo.ProductRepository     { return r.products }
func (r *TxReposMock) Reviews() repo.ReviewRepository       { panic("not used") }
func (r *TxReposMock) Carts() repo.CartRepository           { return r.carts }
func (r *TxReposMock) CartItems() repo.CartItemRepository   { return r.cartItems }
func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository   { panic("not used") }

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user model.User) error { panic("not used") }
func (m *UserRepoMock) FindByID(ctx context.Context, id string) (model.User, error) {
	panic("not used")
}
func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	panic("not used")
}
func (m *UserRepoMock) Update(ctx context.Context, user model.User) error { panic("not used") }
func (m *UserRepoMock) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *UserRepoMock) Delete(ctx context.Context, id string) error { panic("not used") }

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID string) (model.Cart, error) {
	panic("not used")
}
func (m *CartRepoMock) FindByUserID(ctx context.Context, userID string) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}
func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}
func (m *CartItemRepoMock) FindByCartAndProduct(ctx context.Context, cartID, productID int64) (model.CartItem, error) {
	panic("not used")
}
func (m *CartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID, productID, addQty int64) error {
	panic("not used")
}
func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID, qty int64) error {
	panic("not used")
}
func (m *CartItemRepoMock) DeleteByCartAndProduct(ctx context.Context, cartID, productID int64) error {
	panic("not used")
}
func (m *CartItemRepoMock) DeleteByProductID(ctx context.Context, productID int64) error {
	panic("not used")
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	panic("not used")
}
func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}
func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used")
}
func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error { panic("not used") }
func (m *ProductRepoMock) Delete(ctx context.Context, id int64) error        { panic("not used") }

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}
func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	panic("not used")
}
func (m *OrderRepoMock) PageByUserID(ctx context.Context, userID string, page, size int) ([]model.Order, int64, error) {
	panic("not used")
}
func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, deliveryDate *time.Time) error {
	panic("not used")
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}
func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

// memoryストアの上で Carts().Clear だけ失敗させる
type faultyTx struct {
	inner    repo.TransactionManager
	clearErr error
}

func (f *faultyTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return f.inner.WithinTx(ctx, func(r repo.TxRepos) error {
		return fn(&faultyRepos{TxRepos: r, clearErr: f.clearErr})
	})
}

type faultyRepos struct {
	repo.TxRepos
	clearErr error
}

func (r *faultyRepos) Carts() repo.CartRepository {
	return &faultyCarts{CartRepository: r.TxRepos.Carts(), err: r.clearErr}
}

type faultyCarts struct {
	repo.CartRepository
	err error
}

func (c *faultyCarts) Clear(ctx context.Context, cartID int64) error { return c.err }
