package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/colibri-pos/internal/domain/entity"
)

func sampleSale() *entity.Sale {
	s := &entity.Sale{
		ID:            1,
		Date:          time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		PaymentMethod: entity.PaymentMethodCash,
		ReceiptNumber: 42,
		Items: []*entity.SaleItem{
			{ProductID: 1, ProductName: "Torta tres leches", Quantity: 1, UnitPrice: decimal.RequireFromString("15990")},
			{ProductID: 2, ProductName: "Pan amasado", Quantity: 4, UnitPrice: decimal.RequireFromString("250.50")},
		},
	}
	s.ComputeTotal()
	return s
}

func TestGenerateReceiptPDF(t *testing.T) {
	g := NewReceiptGenerator(StoreInfo{Name: "Colibrí", Address: "Av. Siempre Viva 123"})

	out, err := g.GenerateReceiptPDF(context.Background(), sampleSale())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestMoneyFormatoLocal(t *testing.T) {
	g := NewReceiptGenerator(StoreInfo{})
	assert.Equal(t, "$16.992,00", g.money(decimal.RequireFromString("16992")))
	assert.Equal(t, "$250,50", g.money(decimal.RequireFromString("250.50")))
}

func TestQRPayload(t *testing.T) {
	assert.Equal(t, "BOLETA:42|FECHA:2024-03-01T12:30:00|TOTAL:16992.00", qrPayload(sampleSale()))
}
