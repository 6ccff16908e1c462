package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"
)

type cartRepo struct{ *txRepos }

func (r *cartRepo) find(userID string) (model.Cart, bool) {
	for _, c := range r.st.carts {
		if c.UserID == userID {
			return c, true
		}
	}
	return model.Cart{}, false
}

func (r *cartRepo) GetOrCreateByUserID(_ context.Context, userID string) (model.Cart, error) {
	if c, ok := r.find(userID); ok {
		return c, nil
	}
	now := r.now()
	c := model.Cart{ID: r.st.nextID(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	r.st.carts[c.ID] = c
	return c, nil
}

func (r *cartRepo) FindByUserID(_ context.Context, userID string) (model.Cart, error) {
	if c, ok := r.find(userID); ok {
		return c, nil
	}
	return model.Cart{}, repo.ErrNotFound
}

func (r *cartRepo) Clear(_ context.Context, cartID int64) error {
	if _, ok := r.st.carts[cartID]; !ok {
		return repo.ErrNotFound
	}
	for id, item := range r.st.cartItems {
		if item.CartID == cartID {
			delete(r.st.cartItems, id)
		}
	}
	return nil
}

type cartItemRepo struct{ *txRepos }

func (r *cartItemRepo) ListByCartID(_ context.Context, cartID int64) ([]model.CartItem, error) {
	return sortedByID(r.st.cartItems, func(i model.CartItem) bool { return i.CartID == cartID }), nil
}

func (r *cartItemRepo) find(cartID, productID int64) (model.CartItem, bool) {
	key := cartItemKey{cartID: cartID, productID: productID}
	for _, item := range r.st.cartItems {
		if (cartItemKey{cartID: item.CartID, productID: item.ProductID}) == key {
			return item, true
		}
	}
	return model.CartItem{}, false
}

func (r *cartItemRepo) FindByCartAndProduct(_ context.Context, cartID int64, productID int64) (model.CartItem, error) {
	if item, ok := r.find(cartID, productID); ok {
		return item, nil
	}
	return model.CartItem{}, repo.ErrNotFound
}

func (r *cartItemRepo) UpsertByCartAndProduct(_ context.Context, cartID int64, productID int64, addQty int64) error {
	now := r.now()
	if item, ok := r.find(cartID, productID); ok {
		item.Quantity += addQty
		item.UpdatedAt = now
		r.st.cartItems[item.ID] = item
		return nil
	}
	item := model.CartItem{
		ID:        r.st.nextID(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  addQty,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.st.cartItems[item.ID] = item
	return nil
}

func (r *cartItemRepo) UpdateQuantity(_ context.Context, cartItemID int64, qty int64) error {
	item, ok := r.st.cartItems[cartItemID]
	if !ok {
		return repo.ErrNotFound
	}
	item.Quantity = qty
	item.UpdatedAt = r.now()
	r.st.cartItems[cartItemID] = item
	return nil
}

func (r *cartItemRepo) DeleteByCartAndProduct(_ context.Context, cartID int64, productID int64) error {
	if item, ok := r.find(cartID, productID); ok {
		delete(r.st.cartItems, item.ID)
	}
	return nil
}

func (r *cartItemRepo) DeleteByProductID(_ context.Context, productID int64) error {
	for id, item := range r.st.cartItems {
		if item.ProductID == productID {
			delete(r.st.cartItems, id)
		}
	}
	return nil
}

type orderRepo struct{ *txRepos }

func (r *orderRepo) FindByID(_ context.Context, orderID string) (model.Order, error) {
	o, ok := r.st.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

// order_date の新しい順、同時刻は後に作られた方を先に
func (r *orderRepo) byUser(userID string) []model.Order {
	var out []model.Order
	for _, o := range r.st.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b model.Order) int {
		if c := b.OrderDate.Compare(a.OrderDate); c != 0 {
			return c
		}
		return cmp.Compare(r.st.orderSeq[b.ID], r.st.orderSeq[a.ID])
	})
	return out
}

func (r *orderRepo) ListByUserID(_ context.Context, userID string) ([]model.Order, error) {
	out := r.byUser(userID)
	if out == nil {
		return []model.Order{}, nil
	}
	return out, nil
}

func (r *orderRepo) PageByUserID(_ context.Context, userID string, page int, size int) ([]model.Order, int64, error) {
	all := r.byUser(userID)
	total := int64(len(all))

	if page < 0 || size <= 0 || page > len(all)/size {
		return []model.Order{}, total, nil
	}
	start := page * size
	if start >= len(all) {
		return []model.Order{}, total, nil
	}
	end := min(start+size, len(all))
	return all[start:end], total, nil
}

func (r *orderRepo) Create(_ context.Context, order model.Order) error {
	if _, ok := r.st.orders[order.ID]; ok {
		return repo.ErrDuplicate
	}
	now := r.now()
	order.CreatedAt, order.UpdatedAt = now, now
	r.st.orders[order.ID] = order
	r.st.orderSeq[order.ID] = r.st.nextID()
	return nil
}

func (r *orderRepo) UpdateStatus(_ context.Context, orderID string, status model.OrderStatus, deliveryDate *time.Time) error {
	o, ok := r.st.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	if deliveryDate != nil {
		d := *deliveryDate
		o.DeliveryDate = &d
	}
	o.UpdatedAt = r.now()
	r.st.orders[orderID] = o
	return nil
}

type orderItemRepo struct{ *txRepos }

func (r *orderItemRepo) CreateBulk(_ context.Context, orderID string, items []model.OrderItem) error {
	now := r.now()
	for _, item := range items {
		item.ID = r.st.nextID()
		item.OrderID = orderID
		item.CreatedAt = now
		r.st.orderItems[item.ID] = item
	}
	return nil
}

func (r *orderItemRepo) ListByOrderID(_ context.Context, orderID string) ([]model.OrderItem, error) {
	return sortedByID(r.st.orderItems, func(i model.OrderItem) bool { return i.OrderID == orderID }), nil
}

type auditLogRepo struct{ *txRepos }

func (r *auditLogRepo) Create(_ context.Context, log model.AuditLog) error {
	log.ID = r.st.nextID()
	if log.CreatedAt.IsZero() {
		log.CreatedAt = r.now()
	}
	r.st.auditLogs = append(r.st.auditLogs, log)
	return nil
}

func (r *auditLogRepo) List(_ context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	var matched []model.AuditLog
	for i := len(r.st.auditLogs) - 1; i >= 0; i-- {
		l := r.st.auditLogs[i]
		switch {
		case f.ActorUserID != nil && l.ActorUserID != *f.ActorUserID,
			f.Action != nil && l.Action != *f.Action,
			f.ResourceType != nil && l.ResourceType != *f.ResourceType,
			f.ResourceID != nil && l.ResourceID != *f.ResourceID,
			f.CreatedFrom != nil && l.CreatedAt.Before(*f.CreatedFrom),
			f.CreatedTo != nil && l.CreatedAt.After(*f.CreatedTo):
			continue
		}
		matched = append(matched, l)
	}

	limit, offset := repo.NormalizeAuditPaging(f.Limit, f.Offset)
	if offset >= len(matched) {
		return []model.AuditLog{}, nil
	}
	return matched[offset:min(offset+limit, len(matched))], nil
}
