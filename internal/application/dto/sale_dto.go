package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/colibri-pos/internal/domain/entity"
)

// CommitSaleRequest body para POST /api/ventas/. Cualquier total enviado por el cliente se ignora.
type CommitSaleRequest struct {
	ReceiptNumber ReceiptNumber     `json:"numero_boleta"`
	PaymentMethod string            `json:"medio_pago" validate:"max=50"`
	Items         []SaleItemRequest `json:"items" validate:"dive"`
}

// SaleItemRequest línea del carrito: producto, cantidad y precio cobrado.
type SaleItemRequest struct {
	ProductID int64            `json:"producto_id" validate:"required,gt=0"`
	Quantity  int              `json:"cantidad" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"precio_en_venta" validate:"required"`
}

// SaleResponse venta confirmada con su detalle.
type SaleResponse struct {
	ID            int64              `json:"id"`
	Date          time.Time          `json:"fecha"`
	Total         string             `json:"total"`
	PaymentMethod string             `json:"medio_pago"`
	ReceiptNumber int64              `json:"numero_boleta"`
	CreatedBy     string             `json:"usuario"`
	Items         []SaleItemResponse `json:"detalles"`
}

// SaleItemResponse línea de detalle en la respuesta.
type SaleItemResponse struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"producto"`
	ProductName string `json:"producto_nombre"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"cantidad"`
	UnitPrice   string `json:"precio_en_venta"`
	Subtotal    string `json:"subtotal"`
}

// SaleFromEntity mapea la venta y sus líneas.
func SaleFromEntity(s *entity.Sale) *SaleResponse {
	out := &SaleResponse{
		ID:            s.ID,
		Date:          s.Date,
		Total:         Money(s.Total),
		PaymentMethod: s.PaymentMethod,
		ReceiptNumber: s.ReceiptNumber,
		CreatedBy:     s.CreatedBy,
		Items:         make([]SaleItemResponse, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.ProductSKU,
			Quantity:    it.Quantity,
			UnitPrice:   Money(it.UnitPrice),
			Subtotal:    Money(it.Subtotal()),
		})
	}
	return out
}
