package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shopapi/internal/domain/model"
	"shopapi/internal/observability"
	repo "shopapi/internal/repository"
)

type StatusPolicy string

const (
	// 更新もキャンセルも遷移表で判定する
	StatusPolicyStrict StatusPolicy = "strict"
	// 更新は任意の有効なステータスを許す。キャンセルは常に判定する
	StatusPolicyPermissive StatusPolicy = "permissive"
)

type OrderStatusUsecase struct {
	tx       repo.TransactionManager
	idGen    IDGenerator
	clock    Clock
	notifier Notifier
	metrics  OrderMetrics
	policy   StatusPolicy
}

func NewOrderStatusUsecase(
	tx repo.TransactionManager,
	idGen IDGenerator,
	clock Clock,
	notifier Notifier,
	metrics OrderMetrics,
	policy StatusPolicy,
) *OrderStatusUsecase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if policy == "" {
		policy = StatusPolicyStrict
	}
	return &OrderStatusUsecase{tx: tx, idGen: idGen, clock: clock, notifier: notifier, metrics: metrics, policy: policy}
}

// 操作者。UserID が空なら認証なし（system 扱い）
type Actor struct {
	UserID string
	Role   model.Role
}

// 本人か ADMIN だけが注文を操作できる
func (a Actor) canAccess(o model.Order) bool {
	return a.UserID == "" || a.Role == model.RoleAdmin || a.UserID == o.UserID
}

type statusChange struct {
	order   OrderView
	from    model.OrderStatus
	changed bool
}

// UpdateStatus はステータスを変更する。DELIVERED への変更時のみ配達日時を入れる。
// actorUserID が空なら system として監査ログに残す。
func (u *OrderStatusUsecase) UpdateStatus(ctx context.Context, actorUserID string, orderID string, status string) (OrderView, error) {
	next, ok := model.ParseOrderStatus(status)
	if !ok {
		return OrderView{}, invalidArgument(fmt.Sprintf("invalid status: %q", status))
	}

	res, err := u.change(ctx, actorUserID, orderID, model.AuditActionUpdateOrderStatus, func(o model.Order) (model.OrderStatus, error) {
		cur := o.Status
		if u.policy == StatusPolicyStrict && !cur.CanTransitionTo(next) {
			return "", newKindError(ErrInvalidTransition, fmt.Sprintf("cannot change order status from %s to %s", cur, next))
		}
		return next, nil
	})
	if err != nil {
		return OrderView{}, err
	}

	if res.changed {
		u.metrics.RecordOrderEvent(observability.OrderEventStatusChanged)
		u.emit(ctx, model.EventOrderStatusChanged, res)
	}
	return res.order, nil
}

// Cancel は PENDING / PROCESSING からのみ可能（既に CANCELLED なら何もしない）。
// 他人の注文は OrderNotFound。
func (u *OrderStatusUsecase) Cancel(ctx context.Context, actor Actor, orderID string) (OrderView, error) {
	res, err := u.change(ctx, actor.UserID, orderID, model.AuditActionCancelOrder, func(o model.Order) (model.OrderStatus, error) {
		if !actor.canAccess(o) {
			return "", notFound(msgOrderNotFound)
		}
		cur := o.Status
		if cur != model.OrderStatusCancelled && !cur.Cancellable() {
			return "", newKindError(ErrInvalidTransition, fmt.Sprintf("order cannot be cancelled in status %s", cur))
		}
		return model.OrderStatusCancelled, nil
	})
	if err != nil {
		return OrderView{}, err
	}

	if res.changed {
		u.metrics.RecordOrderEvent(observability.OrderEventCancelled)
		u.emit(ctx, model.EventOrderCancelled, res)
	}
	return res.order, nil
}

// 監査ログ一覧（新しい順）
func (u *OrderStatusUsecase) History(ctx context.Context, orderID string, limit, offset int) ([]model.AuditLog, error) {
	var out []model.AuditLog
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if !isUUID(orderID) {
			return notFound(msgOrderNotFound)
		}
		if _, err := r.Orders().FindByID(ctx, orderID); err != nil {
			return fromRepo(err, msgOrderNotFound)
		}
		resourceType := model.AuditResourceOrder
		logs, err := r.AuditLogs().List(ctx, repo.AuditLogFilter{
			ResourceType: &resourceType,
			ResourceID:   &orderID,
			Limit:        limit,
			Offset:       offset,
		})
		if err != nil {
			return internalError(err)
		}
		out = logs
		return nil
	})
	if err != nil {
		return []model.AuditLog{}, err
	}
	return out, nil
}

// 行ロックした注文に decide の結果を反映し、同じトランザクションで監査ログを書く
func (u *OrderStatusUsecase) change(
	ctx context.Context,
	actorUserID string,
	orderID string,
	action model.AuditAction,
	decide func(o model.Order) (model.OrderStatus, error),
) (statusChange, error) {
	if actorUserID == "" {
		actorUserID = model.AuditActorSystem
	}
	if !isUUID(orderID) {
		return statusChange{}, notFound(msgOrderNotFound)
	}

	var res statusChange
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return fromRepo(err, msgOrderNotFound)
		}

		next, err := decide(o)
		if err != nil {
			return err
		}

		res.from = o.Status
		// 同じステータスなら何もしない
		if next != o.Status {
			now := u.clock.Now()
			var deliveryDate *time.Time
			if next == model.OrderStatusDelivered {
				deliveryDate = &now
			}
			if err := r.Orders().UpdateStatus(ctx, o.ID, next, deliveryDate); err != nil {
				return fromRepo(err, msgOrderNotFound)
			}

			before := auditSnapshot(o.Status, o.DeliveryDate)
			after := auditSnapshot(next, o.DeliveryDate)
			if deliveryDate != nil {
				after = auditSnapshot(next, deliveryDate)
			}
			if err := r.AuditLogs().Create(ctx, model.AuditLog{
				ActorUserID:  actorUserID,
				Action:       action,
				ResourceType: model.AuditResourceOrder,
				ResourceID:   o.ID,
				BeforeJSON:   before,
				AfterJSON:    after,
				CreatedAt:    now,
			}); err != nil {
				return internalError(err)
			}
			res.changed = true
		}

		res.order, err = loadOrderView(ctx, r, o.ID)
		return err
	})
	if err != nil {
		return statusChange{}, err
	}
	return res, nil
}

func (u *OrderStatusUsecase) emit(ctx context.Context, typ model.EventType, res statusChange) {
	notify(ctx, u.notifier, model.Event{
		EventID:   u.idGen.NewID(),
		Type:      typ,
		UserID:    res.order.UserID,
		OrderID:   res.order.ID,
		CreatedAt: u.clock.Now(),
		Payload: map[string]any{
			"from": string(res.from),
			"to":   string(res.order.Status),
		},
	})
}

func auditSnapshot(status model.OrderStatus, deliveryDate *time.Time) string {
	snap := map[string]any{"status": status}
	if deliveryDate != nil {
		snap["delivery_date"] = deliveryDate.UTC().Format(time.RFC3339)
	}
	b, _ := json.Marshal(snap)
	return string(b)
}
