// Package memory implementa los repositorios en memoria para desarrollo local y tests.
// Las transacciones trabajan sobre una copia del estado y la publican solo en Commit,
// de modo que un rollback no deja efectos parciales.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/colibri-pos/internal/application/sales"
	"github.com/jhoicas/colibri-pos/internal/domain/entity"
	"github.com/jhoicas/colibri-pos/internal/domain/repository"
)

var _ sales.TxRunner = (*Store)(nil)

// state datos del almacén. Se guardan valores (no punteros) para que clone sea una copia real.
type state struct {
	categories map[int64]entity.Category
	products   map[int64]entity.Product
	users      map[string]entity.User
	sales      map[int64]entity.Sale // sin Items
	saleItems  []entity.SaleItem
	orders     map[int64]entity.Order

	nextProductID int64
	nextSaleID    int64
	nextItemID    int64
	nextOrderID   int64
}

func newState() *state {
	return &state{
		categories: make(map[int64]entity.Category),
		products:   make(map[int64]entity.Product),
		users:      make(map[string]entity.User),
		sales:      make(map[int64]entity.Sale),
		orders:     make(map[int64]entity.Order),
	}
}

func (st *state) clone() *state {
	c := &state{
		categories:    make(map[int64]entity.Category, len(st.categories)),
		products:      make(map[int64]entity.Product, len(st.products)),
		users:         make(map[string]entity.User, len(st.users)),
		sales:         make(map[int64]entity.Sale, len(st.sales)),
		saleItems:     append([]entity.SaleItem(nil), st.saleItems...),
		orders:        make(map[int64]entity.Order, len(st.orders)),
		nextProductID: st.nextProductID,
		nextSaleID:    st.nextSaleID,
		nextItemID:    st.nextItemID,
		nextOrderID:   st.nextOrderID,
	}
	for k, v := range st.categories {
		c.categories[k] = v
	}
	for k, v := range st.products {
		c.products[k] = v
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.sales {
		c.sales[k] = v
	}
	for k, v := range st.orders {
		c.orders[k] = v
	}
	return c
}

// Store almacén en memoria. txMu serializa escritores (transacciones y escrituras sueltas);
// mu protege el puntero al estado publicado frente a lectores concurrentes.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	st   *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// conn vista de un repositorio: el estado publicado (tx == nil) o la copia de una transacción.
type conn struct {
	s  *Store
	tx *state
}

func (c conn) read(fn func(st *state)) {
	if c.tx != nil {
		fn(c.tx)
		return
	}
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	fn(c.s.st)
}

func (c conn) write(fn func(st *state) error) error {
	if c.tx != nil {
		return fn(c.tx)
	}
	c.s.txMu.Lock()
	defer c.s.txMu.Unlock()
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return fn(c.s.st)
}

// RunSale ejecuta fn sobre una copia del estado y la publica si fn no retorna error.
func (s *Store) RunSale(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	s.mu.RLock()
	tx := s.st.clone()
	s.mu.RUnlock()

	c := conn{s: s, tx: tx}
	if err := fn(&ProductRepo{conn: c}, &SaleRepo{conn: c}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.mu.Lock()
	s.st = tx
	s.mu.Unlock()
	return nil
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{conn: conn{s: s}} }

// Sales repositorio de ventas fuera de transacción.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{conn: conn{s: s}} }

// Orders repositorio de pedidos.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{conn: conn{s: s}} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{conn: conn{s: s}} }

// Reports repositorio de reportes.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{conn: conn{s: s}} }

// SeedCategory registra una categoría (asigna ID si viene en 0).
func (s *Store) SeedCategory(c entity.Category) entity.Category {
	_ = conn{s: s}.write(func(st *state) error {
		if c.ID == 0 {
			c.ID = int64(len(st.categories) + 1)
		}
		st.categories[c.ID] = c
		return nil
	})
	return c
}

// SeedProduct registra un producto (asigna ID si viene en 0) y lo devuelve.
func (s *Store) SeedProduct(p entity.Product) entity.Product {
	_ = conn{s: s}.write(func(st *state) error {
		if p.ID == 0 {
			st.nextProductID++
			p.ID = st.nextProductID
		} else if p.ID > st.nextProductID {
			st.nextProductID = p.ID
		}
		now := time.Now()
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now
		}
		if cat, ok := st.categories[p.CategoryID]; ok {
			p.CategoryName = cat.Name
		}
		st.products[p.ID] = p
		return nil
	})
	return p
}

// SeedUser registra un usuario.
func (s *Store) SeedUser(u entity.User) entity.User {
	_ = conn{s: s}.write(func(st *state) error {
		if u.Status == "" {
			u.Status = "active"
		}
		st.users[u.ID] = u
		return nil
	})
	return u
}
