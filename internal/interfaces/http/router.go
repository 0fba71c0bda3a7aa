package http

import (
	"net/http"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/colibri-pos/internal/application/orders"
	"github.com/jhoicas/colibri-pos/internal/application/reports"
	"github.com/jhoicas/colibri-pos/internal/application/sales"
	"github.com/jhoicas/colibri-pos/internal/application/usecase"
	"github.com/jhoicas/colibri-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SaleUC    *sales.SaleUseCase
	ReceiptUC *sales.ReceiptUseCase
	OrderUC   *orders.OrderUseCase
	ReportUC  *reports.ReportUseCase
	ProductUC *usecase.ProductUseCase
	UserUC    *usecase.UserUseCase
	Auth      AuthConfig
}

// AppConfig opciones del servidor Fiber.
type AppConfig struct {
	Name           string
	Log            zerolog.Logger
	MetricsHandler http.Handler             // nil = sin /metrics
	MetricsMW      fiber.Handler            // nil = sin instrumentación HTTP
	SwaggerFile    string                   // vacío o inexistente = sin /docs
	Health         func() map[string]string // estado de dependencias para /health
}

// NewApp crea la aplicación Fiber con middlewares comunes, /health, /metrics y las rutas de la API.
func NewApp(cfg AppConfig, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ErrorHandler: ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(RequestLogger(cfg.Log))
	app.Use(recover.New())
	if cfg.MetricsMW != nil {
		app.Use(cfg.MetricsMW)
	}

	// Swagger UI: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		if _, err := os.Stat(cfg.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFile,
				Path:     "docs",
				Title:    "Colibrí POS API",
			}))
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		body := fiber.Map{"status": "ok", "service": cfg.Name}
		if cfg.Health != nil {
			for k, v := range cfg.Health() {
				body[k] = v
			}
		}
		return c.JSON(body)
	})
	if cfg.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.MetricsHandler))
	}

	Router(app, deps)
	return app
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.Auth))

	api.Get("/me", NewUserHandler(deps.UserUC).Me)

	// Ventas
	ventas := api.Group("/ventas")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.ReceiptUC)
	ventas.Post("/", saleHandler.Commit)
	ventas.Get("/:id/boleta.pdf", saleHandler.ReceiptPDF)
	ventas.Get("/:id", saleHandler.GetByID)

	// Pedidos
	pedidos := api.Group("/pedidos")
	orderHandler := NewOrderHandler(deps.OrderUC)
	pedidos.Get("/", orderHandler.List)
	pedidos.Post("/", orderHandler.Create)
	pedidos.Get("/:id", orderHandler.GetByID)
	pedidos.Patch("/:id", orderHandler.UpdateStatus)

	// Reportes (el panel es solo admin; el gate lo vuelve a verificar)
	reportes := api.Group("/reportes")
	reportHandler := NewReportHandler(deps.ReportUC)
	reportes.Get("/ventas", reportHandler.Sales)
	reportes.Get("/top-productos", reportHandler.TopProducts)
	reportes.Get("/dashboard", RequireRole(entity.RoleAdmin), reportHandler.Dashboard)

	// Catálogo
	productos := api.Group("/productos")
	productHandler := NewProductHandler(deps.ProductUC)
	productos.Get("/", productHandler.List)
	productos.Patch("/:id", productHandler.Update)
}
