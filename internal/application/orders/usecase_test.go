package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/colibri-pos/internal/application/access"
	"github.com/jhoicas/colibri-pos/internal/application/dto"
	"github.com/jhoicas/colibri-pos/internal/application/orders"
	"github.com/jhoicas/colibri-pos/internal/domain"
	"github.com/jhoicas/colibri-pos/internal/domain/entity"
	"github.com/jhoicas/colibri-pos/internal/infrastructure/memory"
)

var (
	cajero  = entity.Actor{UserID: "u-caja", Username: "caja1", Role: entity.RoleCajero}
	cajero2 = entity.Actor{UserID: "u-caja2", Username: "caja2", Role: entity.RoleCajero}
	admin   = entity.Actor{UserID: "u-admin", Username: "jefa", Role: entity.RoleAdmin}
)

func newUseCase(t *testing.T) *orders.OrderUseCase {
	t.Helper()
	store := memory.NewStore()
	for _, a := range []entity.Actor{cajero, cajero2, admin} {
		store.SeedUser(entity.User{ID: a.UserID, Username: a.Username, Role: a.Role})
	}
	return orders.NewOrderUseCase(store.Orders(), access.NewGate(), nil, zerolog.Nop())
}

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func request(client, delivery string) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		ClientName:  client,
		ClientPhone: "+56 9 1234 5678",
		DeliveryAt:  delivery,
		Deposit:     money("5000"),
	}
}

// ────────────────────────────────────────────────────────────────────────────
// CreateOrder
// ────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_SiempreBorrador(t *testing.T) {
	uc := newUseCase(t)
	in := request("Ana", "2024-05-10T15:30")
	in.Status = string(entity.OrderStatusDelivered)

	order, err := uc.CreateOrder(context.Background(), cajero, in)
	require.NoError(t, err)

	assert.Equal(t, string(entity.OrderStatusDraft), order.Status)
	assert.Equal(t, cajero.UserID, order.CreatedBy)
	assert.Equal(t, "5000.00", order.Deposit)
	assert.Equal(t, "5000.00", order.Total, "sin total explícito se usa el anticipo")
	assert.Equal(t, 15, order.DeliveryAt.Hour())
}

func TestCreateOrder_TotalExplicito(t *testing.T) {
	uc := newUseCase(t)
	in := request("Ana", "2024-05-10")
	in.Total = money("18000.50")

	order, err := uc.CreateOrder(context.Background(), cajero, in)
	require.NoError(t, err)
	assert.Equal(t, "18000.50", order.Total)
}

func TestCreateOrder_Validaciones(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	sinNombre := request("  ", "2024-05-10")
	_, err := uc.CreateOrder(ctx, cajero, sinNombre)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	sinAnticipo := request("Ana", "2024-05-10")
	sinAnticipo.Deposit = nil
	_, err = uc.CreateOrder(ctx, cajero, sinAnticipo)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	anticipoNegativo := request("Ana", "2024-05-10")
	anticipoNegativo.Deposit = money("-1")
	_, err = uc.CreateOrder(ctx, cajero, anticipoNegativo)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	fechaMala := request("Ana", "10/05/2024")
	_, err = uc.CreateOrder(ctx, cajero, fechaMala)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseDeliveryDate_Formatos(t *testing.T) {
	for _, s := range []string{"2024-05-10T15:30:00-04:00", "2024-05-10T15:30:00", "2024-05-10T15:30", "2024-05-10"} {
		got, err := orders.ParseDeliveryDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, 10, got.Day(), s)
	}
}

// ────────────────────────────────────────────────────────────────────────────
// ListOrders / GetOrder
// ────────────────────────────────────────────────────────────────────────────

func TestListOrders_VisibilidadYOrden(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	_, err := uc.CreateOrder(ctx, cajero, request("Ana", "2024-05-01"))
	require.NoError(t, err)
	_, err = uc.CreateOrder(ctx, cajero, request("Beto", "2024-05-20"))
	require.NoError(t, err)
	_, err = uc.CreateOrder(ctx, cajero2, request("Carla", "2024-05-10"))
	require.NoError(t, err)

	own, err := uc.ListOrders(ctx, cajero, dto.ListOrdersQuery{})
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, "Beto", own[0].ClientName)
	assert.Equal(t, "Ana", own[1].ClientName)

	all, err := uc.ListOrders(ctx, admin, dto.ListOrdersQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Beto", "Carla", "Ana"}, []string{all[0].ClientName, all[1].ClientName, all[2].ClientName})

	filtered, err := uc.ListOrders(ctx, admin, dto.ListOrdersQuery{From: "2024-05-05", To: "basura"})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}

func TestListOrders_FiltroEstado(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	o, err := uc.CreateOrder(ctx, cajero, request("Ana", "2024-05-01"))
	require.NoError(t, err)
	_, err = uc.CreateOrder(ctx, cajero, request("Beto", "2024-05-02"))
	require.NoError(t, err)
	_, err = uc.SetStatus(ctx, cajero, o.ID, string(entity.OrderStatusReady))
	require.NoError(t, err)

	ready, err := uc.ListOrders(ctx, cajero, dto.ListOrdersQuery{Status: "LISTO"})
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, "Ana", ready[0].ClientName)

	unknown, err := uc.ListOrders(ctx, cajero, dto.ListOrdersQuery{Status: "PERDIDO"})
	require.NoError(t, err)
	assert.Len(t, unknown, 2)
}

func TestGetOrder_Visibilidad(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()
	o, err := uc.CreateOrder(ctx, cajero, request("Ana", "2024-05-01"))
	require.NoError(t, err)

	_, err = uc.GetOrder(ctx, cajero, o.ID)
	assert.NoError(t, err)
	_, err = uc.GetOrder(ctx, admin, o.ID)
	assert.NoError(t, err)
	_, err = uc.GetOrder(ctx, cajero2, o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.GetOrder(ctx, admin, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ────────────────────────────────────────────────────────────────────────────
// SetStatus
// ────────────────────────────────────────────────────────────────────────────

func TestSetStatus_CreadorYAdmin(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()
	o, err := uc.CreateOrder(ctx, cajero, request("Ana", "2024-05-01"))
	require.NoError(t, err)

	got, err := uc.SetStatus(ctx, cajero, o.ID, "CONFIRMADO")
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMADO", got.Status)

	got, err = uc.SetStatus(ctx, admin, o.ID, "ENTREGADO")
	require.NoError(t, err)
	assert.Equal(t, "ENTREGADO", got.Status)

	// Cualquier estado válido puede volver a otro.
	got, err = uc.SetStatus(ctx, cajero, o.ID, "BORRADOR")
	require.NoError(t, err)
	assert.Equal(t, "BORRADOR", got.Status)
}

func TestSetStatus_AjenoEsProhibidoYNoCambia(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()
	o, err := uc.CreateOrder(ctx, cajero, request("Ana", "2024-05-01"))
	require.NoError(t, err)

	_, err = uc.SetStatus(ctx, cajero2, o.ID, "LISTO")
	require.ErrorIs(t, err, domain.ErrForbidden)

	current, err := uc.GetOrder(ctx, cajero, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "BORRADOR", current.Status)
}

func TestSetStatus_InvalidoEsNoOp(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()
	o, err := uc.CreateOrder(ctx, cajero, request("Ana", "2024-05-01"))
	require.NoError(t, err)

	for _, st := range []string{"", "CANCELADO", "listo"} {
		got, err := uc.SetStatus(ctx, cajero, o.ID, st)
		require.NoError(t, err)
		assert.Equal(t, "BORRADOR", got.Status)
	}
}

func TestSetStatus_Inexistente(t *testing.T) {
	uc := newUseCase(t)
	_, err := uc.SetStatus(context.Background(), admin, 42, "LISTO")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateOrder_FechaEnZonaLocal(t *testing.T) {
	got, err := orders.ParseDeliveryDate("2024-05-10T09:00")
	require.NoError(t, err)
	assert.Equal(t, time.Local, got.Location())
}
