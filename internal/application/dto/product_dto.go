package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/colibri-pos/internal/domain/entity"
)

// UpdateProductRequest entrada para PATCH /api/productos/:id/ (solo admin). Campos nil no se modifican.
type UpdateProductRequest struct {
	Name   *string          `json:"nombre" validate:"omitempty,min=1,max=200"`
	Price  *decimal.Decimal `json:"precio"`
	Stock  *int             `json:"stock" validate:"omitempty,min=0"`
	Active *bool            `json:"activo"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        int64     `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"nombre"`
	Price     string    `json:"precio"`
	Stock     int       `json:"stock"`
	Active    bool      `json:"activo"`
	Category  string    `json:"categoria,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductFromEntity mapea la entidad a la respuesta.
func ProductFromEntity(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Price:     Money(p.Price),
		Stock:     p.Stock,
		Active:    p.Active,
		Category:  p.CategoryName,
		UpdatedAt: p.UpdatedAt,
	}
}
