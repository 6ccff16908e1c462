package usecase

import (
	"context"
	"math"
	"strings"

	"shopapi/internal/domain/model"
	"shopapi/internal/observability"
	repo "shopapi/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	// page*size の上限（オフセットの桁あふれ防止）
	maxPageOffset = math.MaxInt32
)

// OrderUsecase はチェックアウトと注文参照
type OrderUsecase struct {
	tx       repo.TransactionManager
	idGen    IDGenerator
	clock    Clock
	notifier Notifier
	metrics  OrderMetrics
}

func NewOrderUsecase(tx repo.TransactionManager, idGen IDGenerator, clock Clock, notifier Notifier, metrics OrderMetrics) *OrderUsecase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &OrderUsecase{tx: tx, idGen: idGen, clock: clock, notifier: notifier, metrics: metrics}
}

type CheckoutInput struct {
	ShippingAddress string
	PhoneNumber     string
}

// Checkout はカートを注文に変換する。
// 注文作成とカートのクリアは同じトランザクションで行い、片方だけ残ることはない。
func (u *OrderUsecase) Checkout(ctx context.Context, userID string, in CheckoutInput) (OrderView, error) {
	address := strings.TrimSpace(in.ShippingAddress)
	phone := strings.TrimSpace(in.PhoneNumber)
	if address == "" {
		return OrderView{}, invalidArgument("shipping_address is required")
	}
	if phone == "" {
		return OrderView{}, invalidArgument("phone_number is required")
	}

	var out OrderView
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := ensureUser(ctx, r, userID); err != nil {
			return err
		}

		cart, err := getExistingCart(ctx, r, userID)
		if err != nil {
			return err
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return internalError(err)
		}
		if len(cartItems) == 0 {
			return newKindError(ErrEmptyCart, "cart is empty")
		}

		//価格はこの時点の商品価格をスナップショット
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		total := decimal.Zero
		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err != nil {
				return fromRepo(err, msgProductNotFound)
			}
			subtotal := p.Price.Mul(decimal.NewFromInt(ci.Quantity))
			orderItems = append(orderItems, model.OrderItem{
				ProductID:       ci.ProductID,
				ProductName:     p.Name,
				ProductImageURL: p.ImageURL,
				Price:           p.Price,
				Quantity:        ci.Quantity,
				Subtotal:        subtotal,
			})
			total = total.Add(subtotal)
		}

		now := u.clock.Now()
		order := model.Order{
			ID:              u.idGen.NewID(),
			UserID:          userID,
			TotalAmount:     total,
			Status:          model.OrderStatusPending,
			ShippingAddress: address,
			PhoneNumber:     phone,
			OrderDate:       now,
		}
		if err := r.Orders().Create(ctx, order); err != nil {
			return internalError(err)
		}
		if err := r.OrderItems().CreateBulk(ctx, order.ID, orderItems); err != nil {
			return internalError(err)
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return internalError(err)
		}

		out, err = loadOrderView(ctx, r, order.ID)
		return err
	})
	if err != nil {
		return OrderView{}, err
	}

	u.metrics.RecordOrderEvent(observability.OrderEventCreated)
	notify(ctx, u.notifier, model.Event{
		EventID:   u.idGen.NewID(),
		Type:      model.EventOrderCreated,
		UserID:    out.UserID,
		OrderID:   out.ID,
		CreatedAt: u.clock.Now(),
		Payload: map[string]any{
			"total_amount": out.TotalAmount.StringFixed(2),
			"item_count":   len(out.Items),
		},
	})
	return out, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, orderID string) (OrderView, error) {
	var out OrderView
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		out, err = loadOrderView(ctx, r, orderID)
		return err
	})
	if err != nil {
		return OrderView{}, err
	}
	return out, nil
}

// 新しい注文から順に全件
func (u *OrderUsecase) ListByUser(ctx context.Context, userID string) ([]OrderView, error) {
	var out []OrderView
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := ensureUser(ctx, r, userID); err != nil {
			return err
		}
		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return internalError(err)
		}
		out, err = attachItems(ctx, r, orders)
		return err
	})
	if err != nil {
		return []OrderView{}, err
	}
	return out, nil
}

// page は0始まり、size は1..100
func (u *OrderUsecase) PageByUser(ctx context.Context, userID string, page, size int) (OrderPage, error) {
	if page < 0 {
		return OrderPage{}, invalidArgument("page must be >= 0")
	}
	if size < 1 || size > maxPageSize {
		return OrderPage{}, invalidArgument("size must be between 1 and 100")
	}
	if page > maxPageOffset/size {
		return OrderPage{}, invalidArgument("page is too large")
	}

	var out OrderPage
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := ensureUser(ctx, r, userID); err != nil {
			return err
		}
		orders, total, err := r.Orders().PageByUserID(ctx, userID, page, size)
		if err != nil {
			return internalError(err)
		}
		content, err := attachItems(ctx, r, orders)
		if err != nil {
			return err
		}

		totalPages := int((total + int64(size) - 1) / int64(size))
		out = OrderPage{
			Content:       content,
			Page:          page,
			Size:          size,
			TotalElements: total,
			TotalPages:    totalPages,
			Last:          page >= totalPages-1,
		}
		return nil
	})
	if err != nil {
		return OrderPage{}, err
	}
	return out, nil
}

func loadOrderView(ctx context.Context, r repo.TxRepos, orderID string) (OrderView, error) {
	if !isUUID(orderID) {
		return OrderView{}, notFound(msgOrderNotFound)
	}
	o, err := r.Orders().FindByID(ctx, orderID)
	if err != nil {
		return OrderView{}, fromRepo(err, msgOrderNotFound)
	}
	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderView{}, internalError(err)
	}
	return toOrderView(ctx, o, items), nil
}

func attachItems(ctx context.Context, r repo.TxRepos, orders []model.Order) ([]OrderView, error) {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, internalError(err)
		}
		out = append(out, toOrderView(ctx, o, items))
	}
	return out, nil
}

// 通知の失敗は業務処理の結果に影響させない
func notify(ctx context.Context, n Notifier, ev model.Event) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, ev); err != nil {
		observability.FromContext(ctx).Warn("notification failed",
			zap.String("type", string(ev.Type)),
			zap.Error(err),
		)
	}
}
