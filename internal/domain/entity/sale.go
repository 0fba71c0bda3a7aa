package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethodCash medio de pago por defecto.
const PaymentMethodCash = "Efectivo"

// Sale representa una venta confirmada (cabecera de la boleta).
// Total siempre se deriva de Items; nunca se asigna de forma independiente.
type Sale struct {
	ID            int64
	Date          time.Time
	Total         decimal.Decimal
	PaymentMethod string
	ReceiptNumber int64 // número de boleta, único global
	CreatedBy     string
	Items         []*SaleItem
}

// ComputeTotal suma los subtotales de las líneas y lo asigna a Total.
func (s *Sale) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Subtotal())
	}
	s.Total = total
	return total
}
