package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/colibri-pos/internal/domain"
	"github.com/jhoicas/colibri-pos/internal/domain/entity"
	"github.com/jhoicas/colibri-pos/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación en memoria de repository.OrderRepository.
type OrderRepo struct {
	conn
}

func (r *OrderRepo) Create(_ context.Context, order *entity.Order) error {
	return r.write(func(st *state) error {
		if _, ok := st.users[order.CreatedBy]; !ok {
			return fmt.Errorf("insert order: usuario %q no existe", order.CreatedBy)
		}
		st.nextOrderID++
		order.ID = st.nextOrderID
		st.orders[order.ID] = *order
		return nil
	})
}

func (r *OrderRepo) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	var out *entity.Order
	r.read(func(st *state) {
		if o, ok := st.orders[id]; ok {
			out = &o
		}
	})
	return out, nil
}

// List filtra y ordena por fecha de entrega descendente (ID descendente en empates).
func (r *OrderRepo) List(_ context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	rng := repository.DateRange{From: filter.From, To: filter.To}
	var list []*entity.Order
	r.read(func(st *state) {
		for _, o := range st.orders {
			if filter.CreatedBy != "" && o.CreatedBy != filter.CreatedBy {
				continue
			}
			if filter.Status != "" && o.Status != filter.Status {
				continue
			}
			if !rng.Contains(o.DeliveryAt) {
				continue
			}
			o := o
			list = append(list, &o)
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].DeliveryAt.Equal(list[j].DeliveryAt) {
			return list[i].DeliveryAt.After(list[j].DeliveryAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, id int64, status entity.OrderStatus, updatedAt time.Time) error {
	return r.write(func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return domain.ErrNotFound
		}
		o.Status = status
		o.UpdatedAt = updatedAt
		st.orders[id] = o
		return nil
	})
}
