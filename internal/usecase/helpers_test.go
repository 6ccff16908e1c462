package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"shopapi/internal/domain/model"
	"shopapi/internal/infra/memory"
	repo "shopapi/internal/repository"
	"shopapi/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

const (
	orderID1 = "aaaaaaaa-0000-4000-8000-000000000001"
	orderID2 = "aaaaaaaa-0000-4000-8000-000000000002"
	orderID3 = "aaaaaaaa-0000-4000-8000-000000000003"
	// 形式は正しいが存在しない
	unknownID = "ffffffff-ffff-4fff-bfff-ffffffffffff"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", g.n)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []model.Event
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, ev model.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return n.err
}

func (n *recordingNotifier) types() []model.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]model.EventType, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Type)
	}
	return out
}

type recordingMetrics struct {
	events []string
}

func (m *recordingMetrics) RecordOrderEvent(event string) {
	m.events = append(m.events, event)
}

// 初期データ
type fixture struct {
	store    *memory.Store
	userID   string
	category model.Category
	productA model.Product
	productB model.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: memory.NewStore(), userID: "11111111-1111-4111-8111-111111111111"}

	err := f.store.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Users().Create(ctx, model.User{ID: f.userID, Email: "alice@example.com", FullName: "Alice", IsActive: true}); err != nil {
			return err
		}
		c, err := r.Categories().Create(ctx, model.Category{Name: "Books"})
		if err != nil {
			return err
		}
		f.category = c
		if f.productA, err = r.Products().Create(ctx, model.Product{
			CategoryID: &c.ID, Name: "Product A", Price: decimal.NewFromInt(10), Quantity: 100, ImageURL: "a.png",
		}); err != nil {
			return err
		}
		f.productB, err = r.Products().Create(ctx, model.Product{
			CategoryID: &c.ID, Name: "Product B", Price: decimal.NewFromInt(5), Quantity: 100, ImageURL: "b.png",
		})
		return err
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) setPrice(t *testing.T, productID int64, price decimal.Decimal) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		p.Price = price
		return r.Products().Update(ctx, p)
	}))
}

func (f *fixture) seedOrder(t *testing.T, id string, status model.OrderStatus, orderDate time.Time) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.WithinTx(ctx, func(r repo.TxRepos) error {
		return r.Orders().Create(ctx, model.Order{
			ID:              id,
			UserID:          f.userID,
			TotalAmount:     decimal.NewFromInt(10),
			Status:          status,
			ShippingAddress: "1 Main St",
			PhoneNumber:     "0900000000",
			OrderDate:       orderDate,
		})
	}))
}

func (f *fixture) orderCount(t *testing.T) int {
	t.Helper()
	ctx := context.Background()
	var n int
	require.NoError(t, f.store.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, f.userID)
		n = len(orders)
		return err
	}))
	return n
}

func (f *fixture) auditLogs(t *testing.T, orderID string) []model.AuditLog {
	t.Helper()
	ctx := context.Background()
	var logs []model.AuditLog
	require.NoError(t, f.store.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		logs, err = r.AuditLogs().List(ctx, repo.AuditLogFilter{ResourceID: &orderID})
		return err
	}))
	return logs
}

// エラー分類とメッセージの確認
func assertKind(t *testing.T, err error, kind error, msgContains string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "want %v, got %v", kind, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "not an HTTPError: %v", err)
	if msgContains != "" {
		assert.Contains(t, he.Message, msgContains)
	}
}
