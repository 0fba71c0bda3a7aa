package repository

import (
	"context"
	"time"

	"github.com/jhoicas/colibri-pos/internal/domain/entity"
)

// OrderFilter filtros de listado de pedidos. Campos vacíos no filtran.
type OrderFilter struct {
	CreatedBy string // vacío = todos (administradores)
	Status    entity.OrderStatus
	From      *time.Time // fecha de entrega >= From (día calendario)
	To        *time.Time // fecha de entrega <= To (día calendario)
}

// OrderRepository define el puerto de persistencia para pedidos.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	// List devuelve los pedidos ordenados por fecha de entrega descendente.
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus, updatedAt time.Time) error
}
