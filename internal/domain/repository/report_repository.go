package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DateRange rango inclusivo de días calendario. Nil en un extremo = sin límite.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// SaleSummary fila del reporte de ventas.
type SaleSummary struct {
	ID            int64
	Date          time.Time
	Total         decimal.Decimal
	ReceiptNumber int64
}

// ProductSales fila del ranking de productos más vendidos.
type ProductSales struct {
	ProductID int64
	Name      string
	Sold      int64
}

// SalesMetrics totales de ventas de un período.
type SalesMetrics struct {
	Total     decimal.Decimal
	Count     int
	UnitsSold int64
}

// ReportRepository consultas de solo lectura sobre el historial de ventas y pedidos.
type ReportRepository interface {
	// ListSales devuelve las ventas del rango, más recientes primero.
	ListSales(ctx context.Context, r DateRange) ([]SaleSummary, error)
	// TopProducts devuelve hasta limit productos por cantidad vendida descendente
	// (empates por nombre y luego ID).
	TopProducts(ctx context.Context, r DateRange, limit int) ([]ProductSales, error)
	// GetSalesMetrics totales del rango. Devuelve ceros si no hay ventas.
	GetSalesMetrics(ctx context.Context, r DateRange) (SalesMetrics, error)
	// CountPendingOrders cuenta pedidos en BORRADOR o CONFIRMADO.
	CountPendingOrders(ctx context.Context) (int, error)
}

// Contains indica si el día calendario de t (en su propia zona) cae dentro del rango.
func (r DateRange) Contains(t time.Time) bool {
	day := dayOf(t)
	if r.From != nil && day.Before(dayOf(*r.From)) {
		return false
	}
	if r.To != nil && day.After(dayOf(*r.To)) {
		return false
	}
	return true
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayLayout formato de fecha de los filtros (YYYY-MM-DD).
const DayLayout = "2006-01-02"

// ParseDateRange construye un rango a partir de filtros de texto. Valores vacíos o no parseables se ignoran.
func ParseDateRange(from, to string) DateRange {
	return DateRange{From: parseDay(from), To: parseDay(to)}
}

func parseDay(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
