package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/colibri-pos/internal/domain"
	"github.com/jhoicas/colibri-pos/internal/domain/entity"
	"github.com/jhoicas/colibri-pos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `
	p.id, p.sku, p.name, p.price, p.stock, p.active,
	COALESCE(p.category_id, 0), COALESCE(c.name, ''), p.created_at, p.updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ListActive lista productos activos ordenados por nombre.
func (r *ProductRepo) ListActive(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.active
		ORDER BY p.name, p.id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update aplica los campos presentes del patch con un único UPDATE; la fila queda bloqueada
// durante la sentencia, igual que en DecrementStock.
func (r *ProductRepo) Update(ctx context.Context, id int64, patch repository.ProductPatch) (*entity.Product, error) {
	query := `
		WITH updated AS (
			UPDATE products SET
				name       = COALESCE($2, name),
				price      = COALESCE($3, price),
				stock      = COALESCE($4, stock),
				active     = COALESCE($5, active),
				updated_at = $6
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + productColumns + `
		FROM updated p LEFT JOIN categories c ON c.id = p.category_id`
	p, err := scanProduct(r.q.QueryRow(ctx, query,
		id, patch.Name, patch.Price, patch.Stock, patch.Active, patch.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isCheckViolation(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// LockForSale bloquea las filas con SELECT ... FOR UPDATE en orden ascendente de ID.
func (r *ProductRepo) LockForSale(ctx context.Context, ids []int64) (map[int64]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = ANY($1)
		ORDER BY p.id
		FOR UPDATE OF p`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]*entity.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// DecrementStock resta qty al stock. El CHECK (stock >= 0) de la tabla es la última barrera.
func (r *ProductRepo) DecrementStock(ctx context.Context, id int64, qty int) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1`,
		id, qty,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: producto %d", domain.ErrInsufficientStock, id)
		}
		return fmt.Errorf("decrement stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.ProductNotFoundError{ProductID: id}
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Price, &p.Stock, &p.Active,
		&p.CategoryID, &p.CategoryName, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
