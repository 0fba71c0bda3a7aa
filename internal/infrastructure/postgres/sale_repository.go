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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// MaxReceiptNumber devuelve el mayor número de boleta (0 si no hay ventas).
func (r *SaleRepo) MaxReceiptNumber(ctx context.Context) (int64, error) {
	var last int64
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(receipt_number), 0) FROM sales`).Scan(&last); err != nil {
		return 0, fmt.Errorf("max receipt number: %w", err)
	}
	return last, nil
}

// ReceiptExists indica si el número de boleta ya está usado.
func (r *SaleRepo) ReceiptExists(ctx context.Context, number int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales WHERE receipt_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("receipt exists: %w", err)
	}
	return exists, nil
}

// Create persiste la cabecera y asigna sale.ID. La restricción única de receipt_number es el árbitro final.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (date, total, payment_method, receipt_number, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		sale.Date, sale.Total, sale.PaymentMethod, sale.ReceiptNumber, sale.CreatedBy,
	).Scan(&sale.ID)
	if err != nil {
		if isReceiptViolation(err) {
			return errDuplicateReceipt(err)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de detalle y asigna item.ID.
func (r *SaleRepo) CreateItem(ctx context.Context, item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (sale_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice).Scan(&item.ID); err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene la venta con sus líneas (nil, nil si no existe).
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, `
		SELECT id, date, total, payment_method, receipt_number, created_by::text
		FROM sales WHERE id = $1`, id,
	).Scan(&s.ID, &s.Date, &s.Total, &s.PaymentMethod, &s.ReceiptNumber, &s.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT si.id, si.sale_id, si.product_id, p.name, p.sku, si.quantity, si.unit_price
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = $1
		ORDER BY si.id`, id)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.ProductSKU, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	return &s, nil
}

func errDuplicateReceipt(cause error) error {
	return fmt.Errorf("%w (%v)", domain.ErrDuplicateReceipt, cause)
}
