package repository

import (
	"context"

	"github.com/jhoicas/colibri-pos/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	// MaxReceiptNumber devuelve el mayor número de boleta existente (0 si no hay ventas).
	MaxReceiptNumber(ctx context.Context) (int64, error)
	ReceiptExists(ctx context.Context, number int64) (bool, error)

	// Create persiste la cabecera y asigna sale.ID. Devuelve domain.ErrDuplicateReceipt
	// si la restricción única de numero_boleta rechaza la fila.
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error

	// GetByID obtiene la venta con sus líneas (nil, nil si no existe).
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
}
