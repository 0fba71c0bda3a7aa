package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/colibri-pos/internal/domain/entity"
)

// ProductPatch cambios parciales sobre un producto. Los campos nil no se tocan.
type ProductPatch struct {
	Name      *string
	Price     *decimal.Decimal
	Stock     *int
	Active    *bool
	UpdatedAt time.Time
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos de lectura devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	ListActive(ctx context.Context) ([]*entity.Product, error)

	// Update aplica el patch en una sola escritura sobre la fila y devuelve el producto resultante.
	// Sin Stock en el patch la columna no se escribe, así no pisa descuentos de ventas concurrentes.
	// Devuelve (nil, nil) si el producto no existe.
	Update(ctx context.Context, id int64, patch ProductPatch) (*entity.Product, error)

	// LockForSale bloquea (SELECT FOR UPDATE) las filas de los productos indicados, en orden
	// ascendente de ID, y las devuelve indexadas por ID. Los IDs inexistentes no aparecen en el mapa.
	// Solo tiene sentido dentro de una transacción; el bloqueo se libera en Commit/Rollback.
	LockForSale(ctx context.Context, ids []int64) (map[int64]*entity.Product, error)

	// DecrementStock resta qty al stock del producto. El llamador ya validó stock >= qty con la fila bloqueada.
	DecrementStock(ctx context.Context, id int64, qty int) error
}
