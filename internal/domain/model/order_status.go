package model

import (
	"slices"
	"strings"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipping   OrderStatus = "SHIPPING"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusReceived   OrderStatus = "RECEIVED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// 表示順
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipping,
	OrderStatusDelivered,
	OrderStatusReceived,
	OrderStatusCancelled,
}

// 遷移表（RECEIVED と CANCELLED は終端）
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipping, OrderStatusCancelled},
	OrderStatusShipping:   {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusReceived},
}

// ParseOrderStatus は大文字小文字と前後の空白を無視して解釈する。
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", false
	}
	return st, true
}

func (s OrderStatus) Valid() bool {
	return slices.Contains(OrderStatuses, s)
}

// CanTransitionTo は遷移表に従って next へ移れるかを返す。同じステータスは常に許可。
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	return slices.Contains(orderStatusTransitions[s], next)
}

// 発送前（PENDING / PROCESSING）のみキャンセル可
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

func (s OrderStatus) Terminal() bool {
	return len(orderStatusTransitions[s]) == 0
}
