package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/colibri-pos/internal/application/access"
	"github.com/jhoicas/colibri-pos/internal/application/dto"
	"github.com/jhoicas/colibri-pos/internal/domain"
	"github.com/jhoicas/colibri-pos/internal/domain/entity"
	"github.com/jhoicas/colibri-pos/internal/domain/repository"
)

// Config parámetros del motor de ventas.
type Config struct {
	// ReceiptRetries intentos totales cuando un número de boleta asignado automáticamente
	// colisiona al confirmar. Valores < 1 se tratan como 1.
	ReceiptRetries int
}

// SaleUseCase confirma ventas (carrito -> stock -> boleta) y consulta ventas existentes.
type SaleUseCase struct {
	txRunner TxRunner
	saleRepo repository.SaleRepository
	gate     *access.Gate
	cache    ReportCache
	metrics  Metrics
	cfg      Config
	log      zerolog.Logger
	now      func() time.Time
}

// NewSaleUseCase construye el caso de uso. cache y metrics pueden ser nil.
func NewSaleUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	gate *access.Gate,
	cache ReportCache,
	metrics Metrics,
	cfg Config,
	log zerolog.Logger,
) *SaleUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if cfg.ReceiptRetries < 1 {
		cfg.ReceiptRetries = 1
	}
	return &SaleUseCase{
		txRunner: txRunner,
		saleRepo: saleRepo,
		gate:     gate,
		cache:    cache,
		metrics:  metrics,
		cfg:      cfg,
		log:      log.With().Str("component", "sales").Logger(),
		now:      time.Now,
	}
}

// CommitSale valida el carrito, descuenta stock y registra la venta con sus líneas en una sola transacción.
//
// Retorna:
//   - domain.ErrEmptyCart              si no hay líneas.
//   - domain.ErrInvalidInput           si alguna línea tiene cantidad <= 0 o precio ausente o inválido.
//   - domain.ErrDuplicateReceipt       si el número de boleta ya existe.
//   - *domain.ProductNotFoundError     primera línea cuyo producto no existe.
//   - *domain.InsufficientStockError   primera línea sin stock suficiente.
func (uc *SaleUseCase) CommitSale(ctx context.Context, actor entity.Actor, in dto.CommitSaleRequest) (*dto.SaleResponse, error) {
	if err := uc.gate.Authorize(actor, access.CapSaleCommit); err != nil {
		return nil, err
	}
	if err := validateCart(in); err != nil {
		uc.metrics.SaleRejected(rejectReason(err))
		return nil, err
	}

	paymentMethod := strings.TrimSpace(in.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = entity.PaymentMethodCash
	}
	requested := in.ReceiptNumber.Ptr()

	start := uc.now()
	attempts := uc.cfg.ReceiptRetries
	if requested != nil {
		attempts = 1
	}

	var sale *entity.Sale
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		sale, err = uc.commitOnce(ctx, actor, in.Items, paymentMethod, requested)
		if err == nil || !errors.Is(err, domain.ErrDuplicateReceipt) || requested != nil {
			break
		}
		uc.metrics.ReceiptCollision()
		uc.log.Warn().Int("attempt", attempt).Msg("colisión de número de boleta, se reintenta con un número nuevo")
	}
	if err != nil {
		uc.metrics.SaleRejected(rejectReason(err))
		return nil, err
	}

	uc.afterCommit(ctx, sale, uc.now().Sub(start))
	return dto.SaleFromEntity(sale), nil
}

// commitOnce ejecuta un intento completo dentro de una transacción.
func (uc *SaleUseCase) commitOnce(
	ctx context.Context,
	actor entity.Actor,
	lines []dto.SaleItemRequest,
	paymentMethod string,
	requested *int64,
) (*entity.Sale, error) {
	var sale *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) error {
		number, err := allocateReceipt(ctx, saleRepo, requested)
		if err != nil {
			return err
		}

		// Bloqueo de todas las filas en orden ascendente de ID; la validación sigue el orden del carrito.
		locked, err := productRepo.LockForSale(ctx, distinctSortedIDs(lines))
		if err != nil {
			return fmt.Errorf("bloquear productos: %w", err)
		}

		items := make([]*entity.SaleItem, 0, len(lines))
		for _, line := range lines {
			product, ok := locked[line.ProductID]
			if !ok {
				return &domain.ProductNotFoundError{ProductID: line.ProductID}
			}
			if product.Stock < line.Quantity {
				return &domain.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   line.Quantity,
					Available:   product.Stock,
				}
			}
			if err := productRepo.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
				return fmt.Errorf("descontar stock: %w", err)
			}
			product.Stock -= line.Quantity

			items = append(items, &entity.SaleItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				ProductSKU:  product.SKU,
				Quantity:    line.Quantity,
				UnitPrice:   *line.UnitPrice,
			})
		}

		sale = &entity.Sale{
			Date:          uc.now(),
			PaymentMethod: paymentMethod,
			ReceiptNumber: number,
			CreatedBy:     actor.UserID,
			Items:         items,
		}
		sale.ComputeTotal()

		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		for _, it := range items {
			it.SaleID = sale.ID
			if err := saleRepo.CreateItem(ctx, it); err != nil {
				return fmt.Errorf("guardar detalle: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// afterCommit efectos posteriores a la confirmación. Sus fallos no afectan la venta.
func (uc *SaleUseCase) afterCommit(ctx context.Context, sale *entity.Sale, elapsed time.Duration) {
	uc.metrics.SaleCommitted(len(sale.Items), sale.Total, elapsed)
	if uc.cache != nil {
		if err := uc.cache.Bump(ctx); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de reportes")
		}
	}
	uc.log.Info().
		Int64("sale_id", sale.ID).
		Int64("numero_boleta", sale.ReceiptNumber).
		Str("total", sale.Total.StringFixed(2)).
		Int("items", len(sale.Items)).
		Str("user_id", sale.CreatedBy).
		Msg("venta confirmada")
}

// GetSale obtiene una venta con su detalle. Un cajero solo ve sus propias ventas.
func (uc *SaleUseCase) GetSale(ctx context.Context, actor entity.Actor, id int64) (*dto.SaleResponse, error) {
	sale, err := uc.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return dto.SaleFromEntity(sale), nil
}

func (uc *SaleUseCase) loadVisible(ctx context.Context, actor entity.Actor, id int64) (*entity.Sale, error) {
	if err := uc.gate.Authorize(actor, access.CapSaleRead); err != nil {
		return nil, err
	}
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener venta: %w", err)
	}
	if sale == nil || (!actor.IsAdmin() && !actor.Owns(sale.CreatedBy)) {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// allocateReceipt usa el número solicitado (verificando que esté libre) o asigna max+1.
func allocateReceipt(ctx context.Context, saleRepo repository.SaleRepository, requested *int64) (int64, error) {
	if requested != nil {
		exists, err := saleRepo.ReceiptExists(ctx, *requested)
		if err != nil {
			return 0, fmt.Errorf("verificar boleta: %w", err)
		}
		if exists {
			return 0, fmt.Errorf("%w: %d", domain.ErrDuplicateReceipt, *requested)
		}
		return *requested, nil
	}
	last, err := saleRepo.MaxReceiptNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("obtener último número de boleta: %w", err)
	}
	return last + 1, nil
}

func validateCart(in dto.CommitSaleRequest) error {
	if len(in.Items) == 0 {
		return domain.ErrEmptyCart
	}
	if n := in.ReceiptNumber.Ptr(); n != nil && *n <= 0 {
		return fmt.Errorf("%w: numero_boleta debe ser positivo", domain.ErrInvalidInput)
	}
	for i, line := range in.Items {
		if line.ProductID <= 0 {
			return fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidInput, i+1)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: línea %d: la cantidad debe ser mayor a 0", domain.ErrInvalidInput, i+1)
		}
		if line.UnitPrice == nil {
			return fmt.Errorf("%w: línea %d sin precio_en_venta", domain.ErrInvalidInput, i+1)
		}
		if !entity.IsMoney(*line.UnitPrice) {
			return fmt.Errorf("%w: línea %d: precio_en_venta debe ser >= 0 con a lo sumo 2 decimales", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}

func distinctSortedIDs(lines []dto.SaleItemRequest) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrDuplicateReceipt):
		return "duplicate_receipt"
	case errors.Is(err, domain.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "internal"
	}
}
