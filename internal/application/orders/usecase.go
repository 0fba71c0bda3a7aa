// Package orders implementa el ciclo de vida de los pedidos (encargos de clientes):
// BORRADOR -> CONFIRMADO -> LISTO -> ENTREGADO.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/colibri-pos/internal/application/access"
	"github.com/jhoicas/colibri-pos/internal/application/dto"
	"github.com/jhoicas/colibri-pos/internal/domain"
	"github.com/jhoicas/colibri-pos/internal/domain/entity"
	"github.com/jhoicas/colibri-pos/internal/domain/repository"
)

// Metrics contadores de pedidos.
type Metrics interface {
	OrderCreated()
	OrderStatusChanged(from, to entity.OrderStatus)
}

type noopMetrics struct{}

func (noopMetrics) OrderCreated() {}
func (noopMetrics) OrderStatusChanged(_, _ entity.OrderStatus) {}

// deliveryLayouts formatos aceptados para fecha_entrega, en orden de preferencia.
var deliveryLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	repository.DayLayout,
}

// OrderUseCase casos de uso de pedidos.
type OrderUseCase struct {
	repo    repository.OrderRepository
	gate    *access.Gate
	metrics Metrics
	log     zerolog.Logger
	now     func() time.Time
}

// NewOrderUseCase construye el caso de uso. metrics puede ser nil.
func NewOrderUseCase(repo repository.OrderRepository, gate *access.Gate, metrics Metrics, log zerolog.Logger) *OrderUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &OrderUseCase{
		repo:    repo,
		gate:    gate,
		metrics: metrics,
		log:     log.With().Str("component", "orders").Logger(),
		now:     time.Now,
	}
}

// CreateOrder registra un pedido en estado BORRADOR. El estado enviado por el cliente se ignora.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, actor entity.Actor, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := uc.gate.Authorize(actor, access.CapOrderCreate); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.ClientName)
	if name == "" {
		return nil, fmt.Errorf("%w: cliente_nombre es obligatorio", domain.ErrInvalidInput)
	}
	if in.Deposit == nil || !entity.IsMoney(*in.Deposit) {
		return nil, fmt.Errorf("%w: anticipo es obligatorio y debe ser >= 0", domain.ErrInvalidInput)
	}
	total := *in.Deposit
	if in.Total != nil {
		if !entity.IsMoney(*in.Total) {
			return nil, fmt.Errorf("%w: total debe ser >= 0", domain.ErrInvalidInput)
		}
		total = *in.Total
	}
	deliveryAt, err := ParseDeliveryDate(in.DeliveryAt)
	if err != nil {
		return nil, err
	}
	if in.Status != "" && entity.OrderStatus(in.Status) != entity.OrderStatusDraft {
		uc.log.Debug().Str("estado", in.Status).Msg("estado inicial ignorado, el pedido se crea en BORRADOR")
	}

	now := uc.now()
	order := &entity.Order{
		ClientName:  name,
		ClientPhone: strings.TrimSpace(in.ClientPhone),
		DeliveryAt:  deliveryAt,
		Deposit:     *in.Deposit,
		Total:       total,
		Status:      entity.OrderStatusDraft,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("crear pedido: %w", err)
	}

	uc.metrics.OrderCreated()
	uc.log.Info().Int64("order_id", order.ID).Str("user_id", actor.UserID).Msg("pedido creado")
	resp := dto.OrderFromEntity(order)
	return &resp, nil
}

// ListOrders devuelve los pedidos visibles para el actor (todos si es admin), por fecha de entrega descendente.
func (uc *OrderUseCase) ListOrders(ctx context.Context, actor entity.Actor, q dto.ListOrdersQuery) ([]dto.OrderResponse, error) {
	if err := uc.gate.Authorize(actor, access.CapOrderList); err != nil {
		return nil, err
	}
	rng := repository.ParseDateRange(q.From, q.To)
	filter := repository.OrderFilter{From: rng.From, To: rng.To}
	if st := entity.OrderStatus(strings.TrimSpace(q.Status)); st.Valid() {
		filter.Status = st
	}
	if !actor.IsAdmin() {
		filter.CreatedBy = actor.UserID
	}

	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar pedidos: %w", err)
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, dto.OrderFromEntity(o))
	}
	return out, nil
}

// GetOrder obtiene un pedido visible para el actor. Los pedidos ajenos de un cajero dan ErrNotFound.
func (uc *OrderUseCase) GetOrder(ctx context.Context, actor entity.Actor, id int64) (*dto.OrderResponse, error) {
	if err := uc.gate.Authorize(actor, access.CapOrderList); err != nil {
		return nil, err
	}
	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener pedido: %w", err)
	}
	if order == nil || (!actor.IsAdmin() && !actor.Owns(order.CreatedBy)) {
		return nil, domain.ErrNotFound
	}
	resp := dto.OrderFromEntity(order)
	return &resp, nil
}

// SetStatus cambia el estado del pedido. Cualquier estado válido puede pasar a cualquier otro.
// Un estado vacío o desconocido no modifica nada y devuelve el pedido tal como está.
//
// Retorna:
//   - domain.ErrNotFound  si el pedido no existe.
//   - domain.ErrForbidden si el actor no es admin ni creador del pedido.
func (uc *OrderUseCase) SetStatus(ctx context.Context, actor entity.Actor, id int64, status string) (*dto.OrderResponse, error) {
	if err := uc.gate.Authorize(actor, access.CapOrderSetStatus); err != nil {
		return nil, err
	}
	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener pedido: %w", err)
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.IsAdmin() && !actor.Owns(order.CreatedBy) {
		return nil, domain.ErrForbidden
	}

	next := entity.OrderStatus(strings.TrimSpace(status))
	if !next.Valid() {
		uc.log.Warn().Int64("order_id", id).Str("estado", status).Msg("estado de pedido inválido, sin cambios")
		resp := dto.OrderFromEntity(order)
		return &resp, nil
	}
	if next != order.Status {
		now := uc.now()
		if err := uc.repo.UpdateStatus(ctx, id, next, now); err != nil {
			return nil, fmt.Errorf("actualizar estado: %w", err)
		}
		uc.metrics.OrderStatusChanged(order.Status, next)
		uc.log.Info().
			Int64("order_id", id).
			Str("from", string(order.Status)).
			Str("to", string(next)).
			Str("user_id", actor.UserID).
			Msg("estado de pedido actualizado")
		order.Status = next
		order.UpdatedAt = now
	}
	resp := dto.OrderFromEntity(order)
	return &resp, nil
}

// ParseDeliveryDate interpreta fecha_entrega (RFC3339, YYYY-MM-DDTHH:MM[:SS] o YYYY-MM-DD).
// Las fechas sin zona se toman en hora local.
func ParseDeliveryDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: fecha_entrega es obligatoria", domain.ErrInvalidInput)
	}
	for _, layout := range deliveryLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: fecha_entrega %q no tiene un formato válido", domain.ErrInvalidInput, s)
}
