package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la tienda.
// Stock nunca es negativo: solo lo modifica la confirmación de ventas (con bloqueo de fila)
// o la edición administrativa.
type Product struct {
	ID           int64
	SKU          string // código único
	Name         string
	Price        decimal.Decimal // precio de lista actual (2 decimales)
	Stock        int
	Active       bool
	CategoryID   int64
	CategoryName string // solo lectura (JOIN con categories)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsMoney verifica que d sea un monto no negativo con a lo sumo 2 decimales.
func IsMoney(d decimal.Decimal) bool {
	if d.IsNegative() {
		return false
	}
	return d.Equal(d.Round(2))
}
