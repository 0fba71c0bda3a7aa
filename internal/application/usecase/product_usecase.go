package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/colibri-pos/internal/application/access"
	"github.com/jhoicas/colibri-pos/internal/application/dto"
	"github.com/jhoicas/colibri-pos/internal/domain"
	"github.com/jhoicas/colibri-pos/internal/domain/entity"
	"github.com/jhoicas/colibri-pos/internal/domain/repository"
)

// CacheBumper invalida lecturas cacheadas que dependen del catálogo (nombres en reportes).
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// ProductUseCase casos de uso del catálogo. El stock solo baja por ventas; el admin puede fijarlo aquí.
type ProductUseCase struct {
	repo  repository.ProductRepository
	gate  *access.Gate
	cache CacheBumper
	log   zerolog.Logger
}

// NewProductUseCase construye el caso de uso. cache puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, gate *access.Gate, cache CacheBumper, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, gate: gate, cache: cache, log: log.With().Str("component", "products").Logger()}
}

// ListActive lista los productos activos ordenados por nombre (punto de venta).
func (uc *ProductUseCase) ListActive(ctx context.Context, actor entity.Actor) ([]dto.ProductResponse, error) {
	if err := uc.gate.Authorize(actor, access.CapProductList); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ProductFromEntity(p))
	}
	return items, nil
}

// Update actualiza nombre, precio, stock o estado de un producto (solo admin).
func (uc *ProductUseCase) Update(ctx context.Context, actor entity.Actor, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := uc.gate.Authorize(actor, access.CapProductUpdate); err != nil {
		return nil, err
	}
	patch := repository.ProductPatch{
		Price:     in.Price,
		Stock:     in.Stock,
		Active:    in.Active,
		UpdatedAt: time.Now(),
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre no puede quedar vacío", domain.ErrInvalidInput)
		}
		patch.Name = &name
	}
	if in.Price != nil && !entity.IsMoney(*in.Price) {
		return nil, fmt.Errorf("%w: precio debe ser >= 0 con a lo sumo 2 decimales", domain.ErrInvalidInput)
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}

	product, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("actualizar producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if uc.cache != nil {
		if err := uc.cache.Bump(ctx); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de reportes")
		}
	}
	uc.log.Info().Int64("product_id", id).Str("user_id", actor.UserID).Msg("producto actualizado")
	resp := dto.ProductFromEntity(product)
	return &resp, nil
}
