package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/colibri-pos/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// rangeFilter filtro inclusivo por día calendario sobre sales.date ($1 desde, $2 hasta).
const rangeFilter = `($1::date IS NULL OR s.date::date >= $1::date) AND ($2::date IS NULL OR s.date::date <= $2::date)`

// ReportRepo consultas de solo lectura para reportes.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

func (r *ReportRepo) ListSales(ctx context.Context, rng repository.DateRange) ([]repository.SaleSummary, error) {
	rows, err := r.q.Query(ctx, `
		SELECT s.id, s.date, s.total, s.receipt_number
		FROM sales s
		WHERE `+rangeFilter+`
		ORDER BY s.date DESC, s.id DESC`,
		dayParam(rng.From), dayParam(rng.To))
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var out []repository.SaleSummary
	for rows.Next() {
		var s repository.SaleSummary
		if err := rows.Scan(&s.ID, &s.Date, &s.Total, &s.ReceiptNumber); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ReportRepo) TopProducts(ctx context.Context, rng repository.DateRange, limit int) ([]repository.ProductSales, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.name, SUM(si.quantity)::bigint AS sold
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		JOIN products p ON p.id = si.product_id
		WHERE `+rangeFilter+`
		GROUP BY p.id, p.name
		ORDER BY sold DESC, p.name, p.id
		LIMIT $3`,
		dayParam(rng.From), dayParam(rng.To), limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var out []repository.ProductSales
	for rows.Next() {
		var p repository.ProductSales
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Sold); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ReportRepo) GetSalesMetrics(ctx context.Context, rng repository.DateRange) (repository.SalesMetrics, error) {
	var m repository.SalesMetrics
	err := r.q.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(s.total), 0),
			COUNT(*),
			COALESCE((
				SELECT SUM(si.quantity) FROM sale_items si
				JOIN sales s ON s.id = si.sale_id
				WHERE `+rangeFilter+`
			), 0)::bigint
		FROM sales s
		WHERE `+rangeFilter,
		dayParam(rng.From), dayParam(rng.To),
	).Scan(&m.Total, &m.Count, &m.UnitsSold)
	if err != nil {
		return repository.SalesMetrics{}, fmt.Errorf("sales metrics: %w", err)
	}
	return m, nil
}

func (r *ReportRepo) CountPendingOrders(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE status IN ('BORRADOR', 'CONFIRMADO')`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending orders: %w", err)
	}
	return n, nil
}
