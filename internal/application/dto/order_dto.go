package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/colibri-pos/internal/domain/entity"
)

// CreateOrderRequest body para POST /api/pedidos/.
// FechaEntrega se parsea en el caso de uso (acepta varios formatos). Estado se ignora.
type CreateOrderRequest struct {
	ClientName  string           `json:"cliente_nombre" validate:"required,max=100"`
	ClientPhone string           `json:"cliente_telefono" validate:"max=20"`
	DeliveryAt  string           `json:"fecha_entrega" validate:"required"`
	Deposit     *decimal.Decimal `json:"anticipo" validate:"required"`
	Total       *decimal.Decimal `json:"total"`
	Status      string           `json:"estado"`
}

// UpdateOrderStatusRequest body para PATCH /api/pedidos/:id/.
type UpdateOrderStatusRequest struct {
	Status string `json:"estado"`
}

// ListOrdersQuery filtros de GET /api/pedidos/. Valores no parseables se ignoran.
type ListOrdersQuery struct {
	Status string `query:"estado"`
	From   string `query:"desde"`
	To     string `query:"hasta"`
}

// OrderResponse pedido en respuestas.
type OrderResponse struct {
	ID          int64     `json:"id"`
	ClientName  string    `json:"cliente_nombre"`
	ClientPhone string    `json:"cliente_telefono"`
	DeliveryAt  time.Time `json:"fecha_entrega"`
	Deposit     string    `json:"anticipo"`
	Total       string    `json:"total"`
	Status      string    `json:"estado"`
	CreatedBy   string    `json:"creado_por"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrderFromEntity mapea la entidad a la respuesta.
func OrderFromEntity(o *entity.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		ClientName:  o.ClientName,
		ClientPhone: o.ClientPhone,
		DeliveryAt:  o.DeliveryAt,
		Deposit:     Money(o.Deposit),
		Total:       Money(o.Total),
		Status:      string(o.Status),
		CreatedBy:   o.CreatedBy,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
