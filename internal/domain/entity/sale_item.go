package entity

import "github.com/shopspring/decimal"

// SaleItem representa una línea de detalle de una venta.
// UnitPrice es el precio cobrado al momento de la venta, independiente de Product.Price.
type SaleItem struct {
	ID          int64
	SaleID      int64
	ProductID   int64
	ProductName string // solo lectura
	ProductSKU  string // solo lectura
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Subtotal = cantidad × precio unitario.
func (i *SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
