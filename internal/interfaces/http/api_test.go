package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/colibri-pos/internal/application/access"
	"github.com/jhoicas/colibri-pos/internal/application/dto"
	"github.com/jhoicas/colibri-pos/internal/application/orders"
	"github.com/jhoicas/colibri-pos/internal/application/reports"
	"github.com/jhoicas/colibri-pos/internal/application/sales"
	"github.com/jhoicas/colibri-pos/internal/application/usecase"
	"github.com/jhoicas/colibri-pos/internal/domain/entity"
	"github.com/jhoicas/colibri-pos/internal/infrastructure/memory"
	"github.com/jhoicas/colibri-pos/internal/infrastructure/metrics"
	"github.com/jhoicas/colibri-pos/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/colibri-pos/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno: store en memoria + casos de uso reales + app Fiber completa
// ──────────────────────────────────────────────────────────────────────────────

type apiEnv struct {
	t     *testing.T
	app   *fiber.App
	store *memory.Store
	a, b  entity.Product

	admin, cajero, cajero2 string
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	store := memory.NewStore()
	store.SeedUser(entity.User{ID: adminID, Username: "jefa", Role: entity.RoleAdmin})
	store.SeedUser(entity.User{ID: cajeroID, Username: "caja1", Role: entity.RoleCajero})
	store.SeedUser(entity.User{ID: cajero2ID, Username: "caja2", Role: entity.RoleCajero})
	a := store.SeedProduct(entity.Product{SKU: "ALF-01", Name: "Alfajor", Price: decimal.RequireFromString("5.00"), Stock: 5, Active: true})
	b := store.SeedProduct(entity.Product{SKU: "BER-01", Name: "Berlín", Price: decimal.RequireFromString("7.50"), Stock: 4, Active: true})

	log := zerolog.Nop()
	gate := access.NewGate()
	m := metrics.New()
	saleUC := sales.NewSaleUseCase(store, store.Sales(), gate, nil, m, sales.Config{ReceiptRetries: 3}, log)

	deps := apphttp.RouterDeps{
		SaleUC:    saleUC,
		ReceiptUC: sales.NewReceiptUseCase(saleUC, pdf.NewReceiptGenerator(pdf.StoreInfo{Name: "Colibrí"})),
		OrderUC:   orders.NewOrderUseCase(store.Orders(), gate, m, log),
		ReportUC:  reports.NewReportUseCase(store.Reports(), gate, nil, log),
		ProductUC: usecase.NewProductUseCase(store.Products(), gate, nil, log),
		UserUC:    usecase.NewUserUseCase(store.Users()),
		Auth:      testAuth,
	}
	app := apphttp.NewApp(apphttp.AppConfig{
		Name:           "colibri-test",
		Log:            log,
		MetricsHandler: m.Handler(),
		MetricsMW:      m.Middleware(),
	}, deps)

	return &apiEnv{
		t:       t,
		app:     app,
		store:   store,
		a:       a,
		b:       b,
		admin:   bearer(t, adminID, "jefa", entity.RoleAdmin),
		cajero:  bearer(t, cajeroID, "caja1", entity.RoleCajero),
		cajero2: bearer(t, cajero2ID, "caja2", entity.RoleCajero),
	}
}

// do ejecuta la petición; body puede ser nil, string (JSON crudo) o cualquier valor serializable.
func (e *apiEnv) do(method, path, auth string, body any) *http.Response {
	e.t.Helper()
	var r io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(v)
	default:
		raw, err := json.Marshal(v)
		require.NoError(e.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *apiEnv) stockOf(id int64) int {
	e.t.Helper()
	list := decode[[]dto.ProductResponse](e.t, e.do(http.MethodGet, "/api/productos/", e.cajero, nil))
	for _, p := range list {
		if p.ID == id {
			return p.Stock
		}
	}
	e.t.Fatalf("producto %d no listado", id)
	return 0
}

func cartBody(items ...map[string]any) map[string]any {
	return map[string]any{"medio_pago": "Efectivo", "items": items}
}

func line(productID int64, qty int, price string) map[string]any {
	return map[string]any{"producto_id": productID, "cantidad": qty, "precio_en_venta": price}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestCommitSale_Created(t *testing.T) {
	e := newAPIEnv(t)

	resp := e.do(http.MethodPost, "/api/ventas/", e.cajero, cartBody(
		line(e.a.ID, 2, "5.00"),
		line(e.b.ID, 2, "7.50"),
	))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := decode[dto.SaleResponse](t, resp)

	assert.Equal(t, "25.00", sale.Total)
	assert.Equal(t, "Efectivo", sale.PaymentMethod)
	assert.Equal(t, cajeroID, sale.CreatedBy)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, "10.00", sale.Items[0].Subtotal)
	assert.Equal(t, "15.00", sale.Items[1].Subtotal)
	assert.Greater(t, sale.ReceiptNumber, int64(0))

	assert.Equal(t, 3, e.stockOf(e.a.ID))
	assert.Equal(t, 2, e.stockOf(e.b.ID))

	got := e.do(http.MethodGet, "/api/ventas/"+itoa(sale.ID)+"/", e.cajero, nil)
	require.Equal(t, http.StatusOK, got.StatusCode)
	assert.Equal(t, sale.ID, decode[dto.SaleResponse](t, got).ID)
}

func TestCommitSale_Errores(t *testing.T) {
	cases := []struct {
		name string
		body func(e *apiEnv) any
		code string
	}{
		{"stock insuficiente", func(e *apiEnv) any { return cartBody(line(e.a.ID, 6, "5.00")) }, apphttp.CodeInsufficientStock},
		{"producto inexistente", func(e *apiEnv) any { return cartBody(line(999, 1, "5.00")) }, apphttp.CodeProductNotFound},
		{"carrito vacío", func(e *apiEnv) any { return cartBody() }, apphttp.CodeEmptyCart},
		{"cantidad cero", func(e *apiEnv) any { return cartBody(line(e.a.ID, 0, "5.00")) }, apphttp.CodeValidation},
		{"sin precio", func(e *apiEnv) any {
			return cartBody(map[string]any{"producto_id": e.a.ID, "cantidad": 2})
		}, apphttp.CodeValidation},
		{"json inválido", func(e *apiEnv) any { return `{"items": [` }, apphttp.CodeInvalidBody},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newAPIEnv(t)
			resp := e.do(http.MethodPost, "/api/ventas/", e.cajero, tc.body(e))
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.Detail)

			assert.Equal(t, 5, e.stockOf(e.a.ID), "ningún efecto parcial")
		})
	}
}

func TestCommitSale_StockInsuficienteNombraProducto(t *testing.T) {
	e := newAPIEnv(t)
	resp := e.do(http.MethodPost, "/api/ventas/", e.cajero, cartBody(
		line(e.a.ID, 1, "5.00"),
		line(e.b.ID, 5, "7.50"),
	))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Contains(t, body.Detail, "Berlín")
	assert.Equal(t, 5, e.stockOf(e.a.ID))
}

func TestCommitSale_BoletaDuplicada(t *testing.T) {
	e := newAPIEnv(t)
	body := map[string]any{"numero_boleta": "77", "items": []any{line(e.a.ID, 1, "5.00")}}

	first := e.do(http.MethodPost, "/api/ventas/", e.cajero, body)
	require.Equal(t, http.StatusCreated, first.StatusCode)
	assert.Equal(t, int64(77), decode[dto.SaleResponse](t, first).ReceiptNumber)

	second := e.do(http.MethodPost, "/api/ventas/", e.cajero, body)
	require.Equal(t, http.StatusBadRequest, second.StatusCode)
	assert.Equal(t, apphttp.CodeDuplicateReceipt, decode[dto.ErrorResponse](t, second).Code)
	assert.Equal(t, 4, e.stockOf(e.a.ID))
}

func TestCommitSale_BoletaCeroEsAutomatica(t *testing.T) {
	e := newAPIEnv(t)
	body := map[string]any{"numero_boleta": 0, "items": []any{line(e.a.ID, 1, "5.00")}}

	resp := e.do(http.MethodPost, "/api/ventas/", e.cajero, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Greater(t, decode[dto.SaleResponse](t, resp).ReceiptNumber, int64(0))
}

func TestCommitSale_SinToken(t *testing.T) {
	e := newAPIEnv(t)
	resp := e.do(http.MethodPost, "/api/ventas/", "", cartBody(line(e.a.ID, 1, "5.00")))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeMissingToken, decode[dto.ErrorResponse](t, resp).Code)
}

func TestGetSale_NoEncontrada(t *testing.T) {
	e := newAPIEnv(t)
	for _, path := range []string{"/api/ventas/999/", "/api/ventas/abc/"} {
		resp := e.do(http.MethodGet, path, e.admin, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func TestGetSale_AjenaParaCajero(t *testing.T) {
	e := newAPIEnv(t)
	sale := decode[dto.SaleResponse](t, e.do(http.MethodPost, "/api/ventas/", e.cajero, cartBody(line(e.a.ID, 1, "5.00"))))

	other := e.do(http.MethodGet, "/api/ventas/"+itoa(sale.ID)+"/", e.cajero2, nil)
	assert.Equal(t, http.StatusNotFound, other.StatusCode)
	other.Body.Close()

	adm := e.do(http.MethodGet, "/api/ventas/"+itoa(sale.ID)+"/", e.admin, nil)
	assert.Equal(t, http.StatusOK, adm.StatusCode)
	adm.Body.Close()
}

func TestReceiptPDF(t *testing.T) {
	e := newAPIEnv(t)
	sale := decode[dto.SaleResponse](t, e.do(http.MethodPost, "/api/ventas/", e.cajero, cartBody(line(e.a.ID, 1, "5.00"))))

	resp := e.do(http.MethodGet, "/api/ventas/"+itoa(sale.ID)+"/boleta.pdf", e.cajero, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "boleta_")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos
// ──────────────────────────────────────────────────────────────────────────────

func newOrderBody() map[string]any {
	return map[string]any{
		"cliente_nombre":   "Marta",
		"cliente_telefono": "555-1234",
		"fecha_entrega":    "2024-06-01T10:00",
		"anticipo":         "10.00",
		"total":            "40.00",
		"estado":           "ENTREGADO",
	}
}

func TestOrders_Lifecycle(t *testing.T) {
	e := newAPIEnv(t)

	resp := e.do(http.MethodPost, "/api/pedidos/", e.cajero, newOrderBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decode[dto.OrderResponse](t, resp)
	assert.Equal(t, string(entity.OrderStatusDraft), order.Status, "siempre nace en BORRADOR")
	assert.Equal(t, cajeroID, order.CreatedBy)
	path := "/api/pedidos/" + itoa(order.ID) + "/"

	// Otro cajero no puede cambiarlo.
	forbidden := e.do(http.MethodPatch, path, e.cajero2, map[string]any{"estado": "CONFIRMADO"})
	require.Equal(t, http.StatusForbidden, forbidden.StatusCode)
	forbidden.Body.Close()

	// El admin sí.
	ok := e.do(http.MethodPatch, path, e.admin, map[string]any{"estado": "CONFIRMADO"})
	require.Equal(t, http.StatusOK, ok.StatusCode)
	assert.Equal(t, "CONFIRMADO", decode[dto.OrderResponse](t, ok).Status)

	// Estado desconocido: sin cambios.
	same := e.do(http.MethodPatch, path, e.cajero, map[string]any{"estado": "PERDIDO"})
	require.Equal(t, http.StatusOK, same.StatusCode)
	assert.Equal(t, "CONFIRMADO", decode[dto.OrderResponse](t, same).Status)

	list := decode[[]dto.OrderResponse](t, e.do(http.MethodGet, "/api/pedidos/?estado=CONFIRMADO", e.cajero, nil))
	require.Len(t, list, 1)
	assert.Empty(t, decode[[]dto.OrderResponse](t, e.do(http.MethodGet, "/api/pedidos/", e.cajero2, nil)))
}

func TestOrders_Validacion(t *testing.T) {
	e := newAPIEnv(t)
	body := newOrderBody()
	delete(body, "anticipo")

	resp := e.do(http.MethodPost, "/api/pedidos/", e.cajero, body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeValidation, errBody.Code)
	assert.Contains(t, errBody.Detail, "anticipo")
}

func TestOrders_NoEncontrado(t *testing.T) {
	e := newAPIEnv(t)
	resp := e.do(http.MethodPatch, "/api/pedidos/42/", e.admin, map[string]any{"estado": "LISTO"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes, catálogo y perfil
// ──────────────────────────────────────────────────────────────────────────────

func TestReports(t *testing.T) {
	e := newAPIEnv(t)
	require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/api/ventas/", e.cajero, cartBody(line(e.a.ID, 2, "5.00"))).StatusCode)
	require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/api/ventas/", e.cajero, cartBody(line(e.b.ID, 3, "7.50"))).StatusCode)

	rows := decode[[]dto.SaleReportRow](t, e.do(http.MethodGet, "/api/reportes/ventas/?start=no-es-fecha", e.cajero, nil))
	assert.Len(t, rows, 2, "fechas mal formadas se ignoran")

	top := decode[[]dto.TopProductRow](t, e.do(http.MethodGet, "/api/reportes/top-productos/", e.cajero, nil))
	require.Len(t, top, 2)
	assert.Equal(t, "Berlín", top[0].Name)
	assert.Equal(t, int64(3), top[0].Sold)

	denied := e.do(http.MethodGet, "/api/reportes/dashboard/", e.cajero, nil)
	assert.Equal(t, http.StatusForbidden, denied.StatusCode)
	denied.Body.Close()

	dash := e.do(http.MethodGet, "/api/reportes/dashboard/", e.admin, nil)
	require.Equal(t, http.StatusOK, dash.StatusCode)
	d := decode[dto.DashboardResponse](t, dash)
	assert.Equal(t, 2, d.SalesCount)
}

func TestProducts_UpdateSoloAdmin(t *testing.T) {
	e := newAPIEnv(t)
	path := "/api/productos/" + itoa(e.a.ID) + "/"

	denied := e.do(http.MethodPatch, path, e.cajero, map[string]any{"stock": 50})
	assert.Equal(t, http.StatusForbidden, denied.StatusCode)
	denied.Body.Close()

	resp := e.do(http.MethodPatch, path, e.admin, map[string]any{"stock": 50, "precio": "5.50"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, 50, p.Stock)
	assert.Equal(t, "5.50", p.Price)

	bad := e.do(http.MethodPatch, path, e.admin, map[string]any{"stock": -1})
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
	bad.Body.Close()
}

func TestMe(t *testing.T) {
	e := newAPIEnv(t)
	me := decode[dto.MeResponse](t, e.do(http.MethodGet, "/api/me/", e.admin, nil))
	assert.Equal(t, "jefa", me.Username)
	assert.True(t, me.IsStaff)
	assert.Equal(t, entity.RoleAdmin, me.Role)

	resp := e.do(http.MethodGet, "/api/me/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestHealthYMetrics(t *testing.T) {
	e := newAPIEnv(t)

	resp := e.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	resp.Body.Close()

	require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/api/ventas/", e.cajero, cartBody(line(e.a.ID, 1, "5.00"))).StatusCode)

	m := e.do(http.MethodGet, "/metrics", "", nil)
	defer m.Body.Close()
	require.Equal(t, http.StatusOK, m.StatusCode)
	raw, _ := io.ReadAll(m.Body)
	assert.Contains(t, string(raw), "colibri_sales_committed_total 1")
}

func TestRequestIDPropagado(t *testing.T) {
	e := newAPIEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
