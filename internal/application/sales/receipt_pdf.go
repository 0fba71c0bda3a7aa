package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/colibri-pos/internal/domain/entity"
)

// ReceiptUseCase genera la boleta en PDF de una venta confirmada.
type ReceiptUseCase struct {
	sales     *SaleUseCase
	generator ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(sales *SaleUseCase, generator ReceiptPDFGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{sales: sales, generator: generator}
}

// DownloadReceiptPDF carga la venta (mismas reglas de visibilidad que GetSale) y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la venta no existe o el cajero no la registró.
func (uc *ReceiptUseCase) DownloadReceiptPDF(ctx context.Context, actor entity.Actor, saleID int64) ([]byte, string, error) {
	sale, err := uc.sales.loadVisible(ctx, actor, saleID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.generator.GenerateReceiptPDF(ctx, sale)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("boleta_%06d.pdf", sale.ReceiptNumber), nil
}
