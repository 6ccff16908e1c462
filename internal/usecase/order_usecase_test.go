package usecase_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"shopapi/internal/domain/model"
	"shopapi/internal/i18n"
	"shopapi/internal/observability"
	"shopapi/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var shipping = usecase.CheckoutInput{ShippingAddress: " 1 Main St ", PhoneNumber: "0900000000"}

const mockUserID = "33333333-3333-4333-8333-333333333333"

func newOrderUC(f *fixture, n *recordingNotifier, m *recordingMetrics) *usecase.OrderUsecase {
	if n == nil {
		n = &recordingNotifier{}
	}
	if m == nil {
		m = &recordingMetrics{}
	}
	return usecase.NewOrderUsecase(f.store, &seqIDs{}, &fixedClock{t: testNow}, n, m)
}

func TestCheckout_TotalsAndClearsCart(t *testing.T) {
	f := newFixture(t)
	n := &recordingNotifier{}
	m := &recordingMetrics{}
	carts := usecase.NewCartUsecase(f.store)
	orders := newOrderUC(f, n, m)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, f.userID, usecase.AddCartItemInput{ProductID: f.productA.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, f.userID, usecase.AddCartItemInput{ProductID: f.productB.ID, Quantity: 1})
	require.NoError(t, err)

	order, err := orders.Checkout(ctx, f.userID, shipping)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(25).Equal(order.TotalAmount), "total %s", order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.True(t, decimal.NewFromInt(20).Equal(order.Items[0].Subtotal))
	assert.True(t, decimal.NewFromInt(5).Equal(order.Items[1].Subtotal))
	assert.Equal(t, "Product A", order.Items[0].ProductName)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, "Pending", order.StatusDisplay)
	assert.Equal(t, "1 Main St", order.ShippingAddress)
	assert.True(t, testNow.Equal(order.OrderDate))
	assert.Nil(t, order.DeliveryDate)

	cart, err := carts.GetCart(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	assert.Equal(t, []model.EventType{model.EventOrderCreated}, n.types())
	assert.Equal(t, order.ID, n.events[0].OrderID)
	assert.Equal(t, []string{observability.OrderEventCreated}, m.events)
}

func TestCheckout_SnapshotsPriceAtCheckout(t *testing.T) {
	f := newFixture(t)
	carts := usecase.NewCartUsecase(f.store)
	orders := newOrderUC(f, nil, nil)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, f.userID, usecase.AddCartItemInput{ProductID: f.productA.ID, Quantity: 1})
	require.NoError(t, err)

	// カート追加後の値上げはチェックアウト時点の価格に反映される
	f.setPrice(t, f.productA.ID, decimal.NewFromInt(11))
	order, err := orders.Checkout(ctx, f.userID, shipping)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(11).Equal(order.TotalAmount))

	// 注文後の値上げは注文に影響しない
	f.setPrice(t, f.productA.ID, decimal.NewFromInt(99))
	got, err := orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(11).Equal(got.Items[0].Price))
	assert.True(t, decimal.NewFromInt(11).Equal(got.TotalAmount))
}

func TestCheckout_Failures(t *testing.T) {
	f := newFixture(t)
	carts := usecase.NewCartUsecase(f.store)
	orders := newOrderUC(f, nil, nil)
	ctx := context.Background()

	_, err := orders.Checkout(ctx, "nobody", shipping)
	assertKind(t, err, usecase.ErrNotFound, "user not found")

	_, err = orders.Checkout(ctx, f.userID, shipping)
	assertKind(t, err, usecase.ErrNotFound, "cart not found")

	_, err = carts.GetCart(ctx, f.userID)
	require.NoError(t, err)
	_, err = orders.Checkout(ctx, f.userID, shipping)
	assertKind(t, err, usecase.ErrEmptyCart, "empty")

	_, err = orders.Checkout(ctx, f.userID, usecase.CheckoutInput{ShippingAddress: "  ", PhoneNumber: "1"})
	assertKind(t, err, usecase.ErrInvalidArgument, "shipping_address")
	_, err = orders.Checkout(ctx, f.userID, usecase.CheckoutInput{ShippingAddress: "x", PhoneNumber: ""})
	assertKind(t, err, usecase.ErrInvalidArgument, "phone_number")

	assert.Equal(t, 0, f.orderCount(t))
}

func TestCheckout_RollsBackWhenCartClearFails(t *testing.T) {
	f := newFixture(t)
	carts := usecase.NewCartUsecase(f.store)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, f.userID, usecase.AddCartItemInput{ProductID: f.productA.ID, Quantity: 2})
	require.NoError(t, err)

	n := &recordingNotifier{}
	faulty := &faultyTx{inner: f.store, clearErr: errors.New("disk full")}
	orders := usecase.NewOrderUsecase(faulty, &seqIDs{}, &fixedClock{t: testNow}, n, nil)

	_, err = orders.Checkout(ctx, f.userID, shipping)
	assertKind(t, err, usecase.ErrInternal, "internal error")

	// 注文は残らず、カートもそのまま
	assert.Equal(t, 0, f.orderCount(t))
	cart, err := carts.GetCart(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2), cart.Items[0].Quantity)
	assert.Empty(t, n.types())
}

func TestCheckout_OrderCreateFailureSkipsCartClear(t *testing.T) {
	users := &UserRepoMock{}
	cartRepo := &CartRepoMock{}
	cartItems := &CartItemRepoMock{}
	products := &ProductRepoMock{}
	orderRepo := &OrderRepoMock{}
	orderItems := &OrderItemRepoMock{}
	tx := &TxManagerMock{Repos: &TxReposMock{
		users: users, carts: cartRepo, cartItems: cartItems,
		products: products, orders: orderRepo, orderItems: orderItems,
	}}
	ctx := context.Background()

	tx.On("WithinTx", ctx).Return(nil)
	users.On("Exists", ctx, mockUserID).Return(true, nil)
	cartRepo.On("FindByUserID", ctx, mockUserID).Return(model.Cart{ID: 7, UserID: mockUserID}, nil)
	cartItems.On("ListByCartID", ctx, int64(7)).Return([]model.CartItem{{ID: 1, CartID: 7, ProductID: 3, Quantity: 2}}, nil)
	products.On("FindByID", ctx, int64(3)).Return(model.Product{ID: 3, Name: "A", Price: decimal.NewFromInt(10)}, nil)
	orderRepo.On("Create", ctx, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == mockUserID && o.Status == model.OrderStatusPending && o.TotalAmount.Equal(decimal.NewFromInt(20))
	})).Return(errors.New("insert failed"))

	uc := usecase.NewOrderUsecase(tx, &seqIDs{}, &fixedClock{t: testNow}, nil, nil)
	_, err := uc.Checkout(ctx, mockUserID, shipping)
	assertKind(t, err, usecase.ErrInternal, "")

	orderItems.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
	cartRepo.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
	tx.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestCheckout_NotifierFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	carts := usecase.NewCartUsecase(f.store)
	n := &recordingNotifier{err: errors.New("broker down")}
	orders := newOrderUC(f, n, nil)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, f.userID, usecase.AddCartItemInput{ProductID: f.productB.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = orders.Checkout(ctx, f.userID, shipping)
	require.NoError(t, err)
	assert.Equal(t, 1, f.orderCount(t))
}

func TestOrders_ReadsNewestFirstAndPaged(t *testing.T) {
	f := newFixture(t)
	orders := newOrderUC(f, nil, nil)
	ctx := context.Background()

	f.seedOrder(t, orderID1, model.OrderStatusPending, testNow.Add(-3*time.Hour))
	f.seedOrder(t, orderID2, model.OrderStatusPending, testNow.Add(-2*time.Hour))
	f.seedOrder(t, orderID3, model.OrderStatusPending, testNow.Add(-1*time.Hour))

	all, err := orders.ListByUser(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, orderID3, all[0].ID)

	page, err := orders.PageByUser(ctx, f.userID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.False(t, page.Last)
	require.Len(t, page.Content, 2)
	assert.Equal(t, orderID3, page.Content[0].ID)
	assert.Equal(t, orderID2, page.Content[1].ID)

	page, err = orders.PageByUser(ctx, f.userID, 1, 2)
	require.NoError(t, err)
	assert.True(t, page.Last)
	require.Len(t, page.Content, 1)
	assert.Equal(t, orderID1, page.Content[0].ID)

	_, err = orders.PageByUser(ctx, f.userID, -1, 2)
	assertKind(t, err, usecase.ErrInvalidArgument, "page")
	_, err = orders.PageByUser(ctx, f.userID, 0, 101)
	assertKind(t, err, usecase.ErrInvalidArgument, "size")
	_, err = orders.ListByUser(ctx, "nobody")
	assertKind(t, err, usecase.ErrNotFound, "user not found")
	_, err = orders.GetOrder(ctx, "missing")
	assertKind(t, err, usecase.ErrNotFound, "order not found")
}

func TestOrders_StatusDisplayFollowsLanguage(t *testing.T) {
	f := newFixture(t)
	orders := newOrderUC(f, nil, nil)
	f.seedOrder(t, orderID1, model.OrderStatusShipping, testNow)

	ctx := i18n.WithLang(context.Background(), i18n.LangVI)
	got, err := orders.GetOrder(ctx, orderID1)
	require.NoError(t, err)
	assert.Equal(t, "Đang giao hàng", got.StatusDisplay)
}

func TestOrders_PageBeyondRange(t *testing.T) {
	f := newFixture(t)
	orders := newOrderUC(f, nil, nil)
	ctx := context.Background()
	f.seedOrder(t, orderID1, model.OrderStatusPending, testNow)

	// page*size が int を超える値は弾く
	_, err := orders.PageByUser(ctx, f.userID, math.MaxInt64/4+1, 4)
	assertKind(t, err, usecase.ErrInvalidArgument, "page is too large")
	_, err = orders.PageByUser(ctx, f.userID, math.MaxInt32, 100)
	assertKind(t, err, usecase.ErrInvalidArgument, "page is too large")

	// データより先のページは空
	page, err := orders.PageByUser(ctx, f.userID, 1000, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(1), page.TotalElements)
	assert.True(t, page.Last)
}

func TestOrders_MalformedIDsAreNotFound(t *testing.T) {
	users := &UserRepoMock{}
	cartRepo := &CartRepoMock{}
	orderRepo := &OrderRepoMock{}
	tx := &TxManagerMock{Repos: &TxReposMock{users: users, carts: cartRepo, orders: orderRepo}}
	ctx := context.Background()
	tx.On("WithinTx", ctx).Return(nil)

	orders := usecase.NewOrderUsecase(tx, &seqIDs{}, &fixedClock{t: testNow}, nil, nil)
	status := usecase.NewOrderStatusUsecase(tx, &seqIDs{}, &fixedClock{t: testNow}, nil, nil, usecase.StatusPolicyStrict)
	carts := usecase.NewCartUsecase(tx)

	_, err := orders.GetOrder(ctx, "missing")
	assertKind(t, err, usecase.ErrNotFound, "order not found")
	_, err = orders.ListByUser(ctx, "abc")
	assertKind(t, err, usecase.ErrNotFound, "user not found")
	_, err = orders.Checkout(ctx, "abc", shipping)
	assertKind(t, err, usecase.ErrNotFound, "user not found")
	_, err = status.UpdateStatus(ctx, adminID, "missing", "PROCESSING")
	assertKind(t, err, usecase.ErrNotFound, "order not found")
	_, err = status.Cancel(ctx, usecase.Actor{}, "12")
	assertKind(t, err, usecase.ErrNotFound, "order not found")
	_, err = status.History(ctx, "missing", 10, 0)
	assertKind(t, err, usecase.ErrNotFound, "order not found")
	_, err = carts.GetCart(ctx, "abc")
	assertKind(t, err, usecase.ErrNotFound, "user not found")
	_, err = carts.Clear(ctx, "abc")
	assertKind(t, err, usecase.ErrNotFound, "cart not found")

	// ストアには届かない
	users.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	cartRepo.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
