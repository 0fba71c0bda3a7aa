package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/colibri-pos/internal/application/access"
	"github.com/jhoicas/colibri-pos/internal/application/orders"
	"github.com/jhoicas/colibri-pos/internal/application/reports"
	"github.com/jhoicas/colibri-pos/internal/application/sales"
	"github.com/jhoicas/colibri-pos/internal/application/usecase"
	"github.com/jhoicas/colibri-pos/internal/domain/repository"
	infracache "github.com/jhoicas/colibri-pos/internal/infrastructure/cache"
	"github.com/jhoicas/colibri-pos/internal/infrastructure/memory"
	"github.com/jhoicas/colibri-pos/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/colibri-pos/internal/infrastructure/pdf"
	"github.com/jhoicas/colibri-pos/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/colibri-pos/internal/interfaces/http"
	"github.com/jhoicas/colibri-pos/pkg/config"
	"github.com/jhoicas/colibri-pos/pkg/logger"
)

// storage repositorios del backend elegido (postgres o memoria).
type storage struct {
	tx       sales.TxRunner
	products repository.ProductRepository
	sales    repository.SaleRepository
	orders   repository.OrderRepository
	users    repository.UserRepository
	reports  repository.ReportRepository
	ping     func(ctx context.Context) error
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var st storage
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		st = memoryStorage(cfg, log)
	default:
		st, err = postgresStorage(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
	}
	defer st.close()

	// Redis es opcional: sin REDIS_ADDR o si no responde, los reportes van directo a la base.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = infracache.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, reportes sin caché")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}
	var reportCache *reports.Cache
	if redisClient != nil {
		reportCache = reports.NewCache(redisClient, cfg.Redis.ReportTTL, log.Zerolog())
	}

	m := metrics.New()
	gate := access.NewGate()

	saleUC := sales.NewSaleUseCase(st.tx, st.sales, gate, reportCache, m,
		sales.Config{ReceiptRetries: cfg.Sales.ReceiptRetries}, log.Zerolog())
	receiptUC := sales.NewReceiptUseCase(saleUC, infrapdf.NewReceiptGenerator(infrapdf.StoreInfo{
		Name:    cfg.Store.Name,
		Address: cfg.Store.Address,
		Phone:   cfg.Store.Phone,
	}))
	orderUC := orders.NewOrderUseCase(st.orders, gate, m, log.Zerolog())
	reportUC := reports.NewReportUseCase(st.reports, gate, reportCache, log.Zerolog())
	productUC := usecase.NewProductUseCase(st.products, gate, reportCache, log.Zerolog())
	userUC := usecase.NewUserUseCase(st.users)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:           cfg.App.Name,
		Log:            log.Component("http"),
		MetricsHandler: m.Handler(),
		MetricsMW:      m.Middleware(),
		SwaggerFile:    "./docs/swagger.json",
		Health: func() map[string]string {
			hctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			out := map[string]string{"storage": "ok"}
			if err := st.ping(hctx); err != nil {
				out["storage"] = "error"
			}
			if redisClient != nil {
				out["cache"] = "ok"
				if err := redisClient.Ping(hctx).Err(); err != nil {
					out["cache"] = "error"
				}
			}
			return out
		},
	}, httpRouter.RouterDeps{
		SaleUC:    saleUC,
		ReceiptUC: receiptUC,
		OrderUC:   orderUC,
		ReportUC:  reportUC,
		ProductUC: productUC,
		UserUC:    userUC,
		Auth: httpRouter.AuthConfig{
			Secret: cfg.JWT.Secret,
			Issuer: cfg.JWT.Issuer,
		},
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func postgresStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (storage, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return storage{}, err
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			pool.Close()
			return storage{}, err
		}
	}
	return storage{
		tx:       postgres.NewTxRunner(pool),
		products: postgres.NewProductRepository(pool),
		sales:    postgres.NewSaleRepository(pool),
		orders:   postgres.NewOrderRepository(pool),
		users:    postgres.NewUserRepository(pool),
		reports:  postgres.NewReportRepository(pool),
		ping:     pool.Ping,
		close:    pool.Close,
	}, nil
}

func memoryStorage(cfg *config.Config, log *logger.Logger) storage {
	store := memory.NewStore()
	seedDemo(store, cfg, log)
	return storage{
		tx:       store,
		products: store.Products(),
		sales:    store.Sales(),
		orders:   store.Orders(),
		users:    store.Users(),
		reports:  store.Reports(),
		ping:     func(context.Context) error { return nil },
		close:    func() {},
	}
}
