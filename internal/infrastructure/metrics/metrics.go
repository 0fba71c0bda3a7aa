// Package metrics expone contadores Prometheus del punto de venta.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/colibri-pos/internal/application/orders"
	"github.com/jhoicas/colibri-pos/internal/application/sales"
	"github.com/jhoicas/colibri-pos/internal/domain/entity"
)

var (
	_ sales.Metrics  = (*Metrics)(nil)
	_ orders.Metrics = (*Metrics)(nil)
)

// Metrics registry propio con las métricas de ventas, pedidos y HTTP.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	salesCommitted    prometheus.Counter
	salesRejected     *prometheus.CounterVec
	salesAmount       prometheus.Counter
	saleItems         prometheus.Histogram
	commitDuration    prometheus.Histogram
	receiptCollisions prometheus.Counter

	ordersCreated       prometheus.Counter
	orderStatusChanges  *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New inicializa el registry y registra todas las métricas.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		salesCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "colibri_sales_committed_total",
			Help: "Ventas confirmadas.",
		}),
		salesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "colibri_sales_rejected_total",
			Help: "Ventas rechazadas por motivo.",
		}, []string{"reason"}),
		salesAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "colibri_sales_amount_total",
			Help: "Monto acumulado de ventas confirmadas.",
		}),
		saleItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "colibri_sale_items",
			Help:    "Líneas por venta.",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		commitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "colibri_sale_commit_duration_seconds",
			Help:    "Duración de la transacción de venta.",
			Buckets: prometheus.DefBuckets,
		}),
		receiptCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "colibri_receipt_collisions_total",
			Help: "Colisiones de número de boleta reintentadas.",
		}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "colibri_orders_created_total",
			Help: "Pedidos creados.",
		}),
		orderStatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "colibri_order_status_changes_total",
			Help: "Cambios de estado de pedidos.",
		}, []string{"from", "to"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "colibri_http_requests_total",
			Help: "Peticiones HTTP por ruta y código.",
		}, []string{"route", "code"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "colibri_http_request_duration_seconds",
			Help:    "Duración de peticiones HTTP por ruta.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	registry.MustRegister(
		m.salesCommitted, m.salesRejected, m.salesAmount, m.saleItems, m.commitDuration, m.receiptCollisions,
		m.ordersCreated, m.orderStatusChanges, m.httpRequests, m.httpRequestDuration,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Registry devuelve el registry (tests y collectors extra).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler devuelve el http.Handler para /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Metrics) SaleCommitted(items int, total decimal.Decimal, elapsed time.Duration) {
	m.salesCommitted.Inc()
	m.salesAmount.Add(total.InexactFloat64())
	m.saleItems.Observe(float64(items))
	m.commitDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) SaleRejected(reason string) {
	m.salesRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) ReceiptCollision() {
	m.receiptCollisions.Inc()
}

func (m *Metrics) OrderCreated() {
	m.ordersCreated.Inc()
}

func (m *Metrics) OrderStatusChanged(from, to entity.OrderStatus) {
	m.orderStatusChanges.WithLabelValues(string(from), string(to)).Inc()
}

// Middleware registra ruta, código y duración de cada petición.
// Usa la ruta registrada (ej. /api/ventas/:id) para no explotar la cardinalidad.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()
		route := c.Route().Path
		if route == "" {
			route = "unknown"
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}
