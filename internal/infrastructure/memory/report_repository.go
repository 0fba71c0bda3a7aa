package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/colibri-pos/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo implementación en memoria de repository.ReportRepository.
type ReportRepo struct {
	conn
}

func (r *ReportRepo) ListSales(_ context.Context, rng repository.DateRange) ([]repository.SaleSummary, error) {
	var rows []repository.SaleSummary
	r.read(func(st *state) {
		for _, s := range st.sales {
			if !rng.Contains(s.Date) {
				continue
			}
			rows = append(rows, repository.SaleSummary{ID: s.ID, Date: s.Date, Total: s.Total, ReceiptNumber: s.ReceiptNumber})
		}
	})
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.After(rows[j].Date)
		}
		return rows[i].ID > rows[j].ID
	})
	return rows, nil
}

func (r *ReportRepo) TopProducts(_ context.Context, rng repository.DateRange, limit int) ([]repository.ProductSales, error) {
	sold := make(map[int64]*repository.ProductSales)
	r.read(func(st *state) {
		for _, it := range st.saleItems {
			s, ok := st.sales[it.SaleID]
			if !ok || !rng.Contains(s.Date) {
				continue
			}
			row, ok := sold[it.ProductID]
			if !ok {
				row = &repository.ProductSales{ProductID: it.ProductID, Name: st.products[it.ProductID].Name}
				sold[it.ProductID] = row
			}
			row.Sold += int64(it.Quantity)
		}
	})
	rows := make([]repository.ProductSales, 0, len(sold))
	for _, row := range sold {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Sold != rows[j].Sold {
			return rows[i].Sold > rows[j].Sold
		}
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ProductID < rows[j].ProductID
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *ReportRepo) GetSalesMetrics(_ context.Context, rng repository.DateRange) (repository.SalesMetrics, error) {
	m := repository.SalesMetrics{Total: decimal.Zero}
	r.read(func(st *state) {
		for _, s := range st.sales {
			if !rng.Contains(s.Date) {
				continue
			}
			m.Total = m.Total.Add(s.Total)
			m.Count++
		}
		for _, it := range st.saleItems {
			if s, ok := st.sales[it.SaleID]; ok && rng.Contains(s.Date) {
				m.UnitsSold += int64(it.Quantity)
			}
		}
	})
	return m, nil
}

func (r *ReportRepo) CountPendingOrders(_ context.Context) (int, error) {
	var n int
	r.read(func(st *state) {
		for _, o := range st.orders {
			if o.Status.Pending() {
				n++
			}
		}
	})
	return n, nil
}
