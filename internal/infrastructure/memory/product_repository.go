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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de repository.ProductRepository.
type ProductRepo struct {
	conn
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	r.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

// ListActive productos activos ordenados por nombre.
func (r *ProductRepo) ListActive(_ context.Context) ([]*entity.Product, error) {
	var list []*entity.Product
	r.read(func(st *state) {
		for _, p := range st.products {
			if !p.Active {
				continue
			}
			p := p
			list = append(list, &p)
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// Update aplica el patch bajo el lock de escritura del store.
func (r *ProductRepo) Update(_ context.Context, id int64, patch repository.ProductPatch) (*entity.Product, error) {
	var out *entity.Product
	err := r.write(func(st *state) error {
		current, ok := st.products[id]
		if !ok {
			return nil
		}
		if patch.Stock != nil && *patch.Stock < 0 {
			return fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
		}
		if patch.Name != nil {
			current.Name = *patch.Name
		}
		if patch.Price != nil {
			current.Price = *patch.Price
		}
		if patch.Stock != nil {
			current.Stock = *patch.Stock
		}
		if patch.Active != nil {
			current.Active = *patch.Active
		}
		current.UpdatedAt = patch.UpdatedAt
		if current.UpdatedAt.IsZero() {
			current.UpdatedAt = time.Now()
		}
		st.products[id] = current
		out = &current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LockForSale en memoria la exclusión la da la transacción serializada; solo devuelve copias.
func (r *ProductRepo) LockForSale(_ context.Context, ids []int64) (map[int64]*entity.Product, error) {
	out := make(map[int64]*entity.Product, len(ids))
	r.read(func(st *state) {
		for _, id := range ids {
			if p, ok := st.products[id]; ok {
				out[id] = &p
			}
		}
	})
	return out, nil
}

func (r *ProductRepo) DecrementStock(_ context.Context, id int64, qty int) error {
	return r.write(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return &domain.ProductNotFoundError{ProductID: id}
		}
		if p.Stock < qty {
			return &domain.InsufficientStockError{ProductID: id, ProductName: p.Name, Requested: qty, Available: p.Stock}
		}
		p.Stock -= qty
		p.UpdatedAt = time.Now()
		st.products[id] = p
		return nil
	})
}
