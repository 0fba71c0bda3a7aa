package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del ciclo de vida de un pedido.
type OrderStatus string

// Estados de pedido. Los valores son los códigos que usa el cliente.
const (
	OrderStatusDraft     OrderStatus = "BORRADOR"
	OrderStatusConfirmed OrderStatus = "CONFIRMADO"
	OrderStatusReady     OrderStatus = "LISTO"
	OrderStatusDelivered OrderStatus = "ENTREGADO"
)

// OrderStatuses lista los estados en orden de avance.
var OrderStatuses = []OrderStatus{
	OrderStatusDraft,
	OrderStatusConfirmed,
	OrderStatusReady,
	OrderStatusDelivered,
}

// Valid indica si s pertenece al conjunto fijo de estados.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusReady, OrderStatusDelivered:
		return true
	}
	return false
}

// Pending indica si el pedido aún no está listo (BORRADOR o CONFIRMADO).
func (s OrderStatus) Pending() bool {
	return s == OrderStatusDraft || s == OrderStatusConfirmed
}

// Order representa un pedido (encargo) de un cliente.
type Order struct {
	ID          int64
	ClientName  string
	ClientPhone string
	DeliveryAt  time.Time
	Deposit     decimal.Decimal // anticipo
	Total       decimal.Decimal
	Status      OrderStatus
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
