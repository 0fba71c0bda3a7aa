package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/colibri-pos/internal/domain/entity"
	"github.com/jhoicas/colibri-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos de catálogo y ventas.
// Si fn retorna error se hace rollback completo (ningún efecto parcial).
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// ReportCache invalida las lecturas cacheadas de reportes después de una venta.
type ReportCache interface {
	Bump(ctx context.Context) error
}

// Metrics contadores del motor de ventas.
type Metrics interface {
	SaleCommitted(items int, total decimal.Decimal, elapsed time.Duration)
	SaleRejected(reason string)
	ReceiptCollision()
}

// ReceiptPDFGenerator genera la boleta en PDF de una venta confirmada.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale) ([]byte, error)
}

type noopMetrics struct{}

func (noopMetrics) SaleCommitted(int, decimal.Decimal, time.Duration) {}
func (noopMetrics) SaleRejected(string) {}
func (noopMetrics) ReceiptCollision() {}
