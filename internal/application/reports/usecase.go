// Package reports implementa las consultas de solo lectura sobre el historial de ventas.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/colibri-pos/internal/application/access"
	"github.com/jhoicas/colibri-pos/internal/application/dto"
	"github.com/jhoicas/colibri-pos/internal/domain/entity"
	"github.com/jhoicas/colibri-pos/internal/domain/repository"
)

const (
	// TopProductsLimit máximo de filas del ranking de productos.
	TopProductsLimit = 10
	// dashboardTopLimit filas del ranking del día en el panel.
	dashboardTopLimit = 5
)

// ReportUseCase reportes de ventas y panel de administración.
type ReportUseCase struct {
	repo  repository.ReportRepository
	gate  *access.Gate
	cache *Cache
	log   zerolog.Logger
	now   func() time.Time
}

// NewReportUseCase construye el caso de uso. cache puede ser nil.
func NewReportUseCase(repo repository.ReportRepository, gate *access.Gate, cache *Cache, log zerolog.Logger) *ReportUseCase {
	return &ReportUseCase{
		repo:  repo,
		gate:  gate,
		cache: cache,
		log:   log.With().Str("component", "reports").Logger(),
		now:   time.Now,
	}
}

// SalesReport lista las ventas (más recientes primero), filtradas opcionalmente por rango de fechas inclusivo.
func (uc *ReportUseCase) SalesReport(ctx context.Context, actor entity.Actor, q dto.ReportQuery) ([]dto.SaleReportRow, error) {
	if err := uc.gate.Authorize(actor, access.CapReportRead); err != nil {
		return nil, err
	}
	rng := repository.ParseDateRange(q.Start, q.End)

	var rows []dto.SaleReportRow
	err := uc.cache.FetchJSON(ctx, &rows, func(ctx context.Context) (any, error) {
		sales, err := uc.repo.ListSales(ctx, rng)
		if err != nil {
			return nil, fmt.Errorf("reporte de ventas: %w", err)
		}
		out := make([]dto.SaleReportRow, 0, len(sales))
		for _, s := range sales {
			out = append(out, dto.SaleReportRow{
				ID:            s.ID,
				Date:          s.Date.Format(time.RFC3339),
				Total:         s.Total.InexactFloat64(),
				ReceiptNumber: s.ReceiptNumber,
			})
		}
		return out, nil
	}, "reportes", "ventas", rangeToken(rng.From), rangeToken(rng.To))
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TopProducts ranking de hasta 10 productos por unidades vendidas.
func (uc *ReportUseCase) TopProducts(ctx context.Context, actor entity.Actor, q dto.ReportQuery) ([]dto.TopProductRow, error) {
	if err := uc.gate.Authorize(actor, access.CapReportRead); err != nil {
		return nil, err
	}
	rng := repository.ParseDateRange(q.Start, q.End)

	var rows []dto.TopProductRow
	err := uc.cache.FetchJSON(ctx, &rows, func(ctx context.Context) (any, error) {
		return uc.topProducts(ctx, rng, TopProductsLimit)
	}, "reportes", "top", rangeToken(rng.From), rangeToken(rng.To))
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (uc *ReportUseCase) topProducts(ctx context.Context, rng repository.DateRange, limit int) ([]dto.TopProductRow, error) {
	ranking, err := uc.repo.TopProducts(ctx, rng, limit)
	if err != nil {
		return nil, fmt.Errorf("top productos: %w", err)
	}
	out := make([]dto.TopProductRow, 0, len(ranking))
	for _, r := range ranking {
		out = append(out, dto.TopProductRow{Name: r.Name, Sold: r.Sold})
	}
	return out, nil
}

// Dashboard indicadores del día (solo admin). Las consultas corren en paralelo.
func (uc *ReportUseCase) Dashboard(ctx context.Context, actor entity.Actor) (*dto.DashboardResponse, error) {
	if err := uc.gate.Authorize(actor, access.CapDashboardRead); err != nil {
		return nil, err
	}
	today := uc.now()
	rng := repository.DateRange{From: &today, To: &today}

	var (
		metrics repository.SalesMetrics
		pending int
		top     []dto.TopProductRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := uc.repo.GetSalesMetrics(gctx, rng)
		if err != nil {
			return fmt.Errorf("métricas del día: %w", err)
		}
		metrics = m
		return nil
	})
	g.Go(func() error {
		n, err := uc.repo.CountPendingOrders(gctx)
		if err != nil {
			return fmt.Errorf("pedidos pendientes: %w", err)
		}
		pending = n
		return nil
	})
	g.Go(func() error {
		rows, err := uc.topProducts(gctx, rng, dashboardTopLimit)
		if err != nil {
			return err
		}
		top = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		Date:          today.Format(repository.DayLayout),
		SalesTotal:    dto.Money(metrics.Total),
		SalesCount:    metrics.Count,
		UnitsSold:     metrics.UnitsSold,
		PendingOrders: pending,
		TopProducts:   top,
	}, nil
}

func rangeToken(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(repository.DayLayout)
}
