package main

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/colibri-pos/internal/domain/entity"
	"github.com/jhoicas/colibri-pos/internal/infrastructure/memory"
	"github.com/jhoicas/colibri-pos/pkg/config"
	"github.com/jhoicas/colibri-pos/pkg/jwt"
	"github.com/jhoicas/colibri-pos/pkg/logger"
)

const devSecret = "colibri-dev-secret"

// seedDemo carga un catálogo y dos usuarios en el store en memoria y
// registra tokens de desarrollo para probar la API sin emisor externo.
func seedDemo(store *memory.Store, cfg *config.Config, log *logger.Logger) {
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = devSecret
		log.Warn().Msg("JWT_SECRET vacío, usando secreto de desarrollo")
	}

	tortas := store.SeedCategory(entity.Category{Name: "Tortas"})
	panes := store.SeedCategory(entity.Category{Name: "Panadería"})

	demo := []entity.Product{
		{SKU: "TOR-001", Name: "Torta tres leches", Price: decimal.RequireFromString("15990"), Stock: 5, CategoryID: tortas.ID},
		{SKU: "TOR-002", Name: "Torta de chocolate", Price: decimal.RequireFromString("17990"), Stock: 3, CategoryID: tortas.ID},
		{SKU: "PAN-001", Name: "Pan amasado", Price: decimal.RequireFromString("250"), Stock: 120, CategoryID: panes.ID},
		{SKU: "PAN-002", Name: "Berlín", Price: decimal.RequireFromString("900"), Stock: 40, CategoryID: panes.ID},
	}
	for _, p := range demo {
		p.Active = true
		store.SeedProduct(p)
	}

	users := []entity.User{
		{ID: "6f1c2b7e-0000-4000-8000-000000000001", Username: "admin", Role: entity.RoleAdmin, IsStaff: true},
		{ID: "6f1c2b7e-0000-4000-8000-000000000002", Username: "caja1", Role: entity.RoleCajero},
	}
	for _, u := range users {
		store.SeedUser(u)
		tok, err := jwt.Generate(cfg.JWT.Secret, cfg.JWT.Issuer, jwt.Identity{
			UserID:   u.ID,
			Username: u.Username,
			Role:     u.Role,
		}, cfg.JWT.Expiration)
		if err != nil {
			log.Error().Err(err).Str("username", u.Username).Msg("token de desarrollo")
			continue
		}
		log.Info().Str("username", u.Username).Str("rol", u.Role).Str("token", tok).Msg("token de desarrollo")
	}
	log.Info().Int("productos", len(demo)).Msg("datos de demostración cargados")
}
