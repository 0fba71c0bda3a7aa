package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/colibri-pos/internal/domain"
	"github.com/jhoicas/colibri-pos/internal/domain/entity"
	"github.com/jhoicas/colibri-pos/internal/domain/repository"
	"github.com/jhoicas/colibri-pos/internal/infrastructure/memory"
)

func seeded(t *testing.T) (*memory.Store, entity.Product) {
	t.Helper()
	s := memory.NewStore()
	s.SeedUser(entity.User{ID: "u1", Username: "caja1", Role: entity.RoleCajero})
	p := s.SeedProduct(entity.Product{SKU: "A", Name: "Alfajor", Price: decimal.RequireFromString("2.50"), Stock: 5, Active: true})
	return s, p
}

func TestRunSale_RollbackNoPublicaCambios(t *testing.T) {
	s, p := seeded(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.RunSale(ctx, func(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) error {
		require.NoError(t, productRepo.DecrementStock(ctx, p.ID, 3))
		require.NoError(t, saleRepo.Create(ctx, &entity.Sale{ReceiptNumber: 1, CreatedBy: "u1", Date: time.Now()}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)

	last, err := s.Sales().MaxReceiptNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), last)
}

func TestRunSale_CommitPublicaCambios(t *testing.T) {
	s, p := seeded(t)
	ctx := context.Background()

	var saleID int64
	err := s.RunSale(ctx, func(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) error {
		if err := productRepo.DecrementStock(ctx, p.ID, 2); err != nil {
			return err
		}
		sale := &entity.Sale{ReceiptNumber: 7, CreatedBy: "u1", Date: time.Now(), Total: decimal.RequireFromString("5.00")}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		saleID = sale.ID
		return saleRepo.CreateItem(ctx, &entity.SaleItem{SaleID: sale.ID, ProductID: p.ID, Quantity: 2, UnitPrice: p.Price})
	})
	require.NoError(t, err)

	got, _ := s.Products().GetByID(ctx, p.ID)
	assert.Equal(t, 3, got.Stock)

	sale, err := s.Sales().GetByID(ctx, saleID)
	require.NoError(t, err)
	require.NotNil(t, sale)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "Alfajor", sale.Items[0].ProductName)
	assert.True(t, sale.Items[0].Subtotal().Equal(decimal.RequireFromString("5.00")))
}

func TestSaleRepo_BoletaDuplicada(t *testing.T) {
	s, _ := seeded(t)
	ctx := context.Background()

	require.NoError(t, s.Sales().Create(ctx, &entity.Sale{ReceiptNumber: 3, CreatedBy: "u1"}))
	err := s.Sales().Create(ctx, &entity.Sale{ReceiptNumber: 3, CreatedBy: "u1"})
	assert.ErrorIs(t, err, domain.ErrDuplicateReceipt)

	exists, err := s.Sales().ReceiptExists(ctx, 3)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSaleRepo_CreadorInexistente(t *testing.T) {
	s, _ := seeded(t)
	err := s.Sales().Create(context.Background(), &entity.Sale{ReceiptNumber: 1, CreatedBy: "fantasma"})
	assert.Error(t, err)
}

func TestProductRepo_DecrementStockNoQuedaNegativo(t *testing.T) {
	s, p := seeded(t)
	err := s.Products().DecrementStock(context.Background(), p.ID, 6)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestOrderRepo_ListOrdenYFiltros(t *testing.T) {
	s, _ := seeded(t)
	s.SeedUser(entity.User{ID: "u2", Username: "caja2", Role: entity.RoleCajero})
	ctx := context.Background()
	repo := s.Orders()

	d1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &entity.Order{ClientName: "Ana", DeliveryAt: d1, Status: entity.OrderStatusDraft, CreatedBy: "u1"}))
	require.NoError(t, repo.Create(ctx, &entity.Order{ClientName: "Luis", DeliveryAt: d2, Status: entity.OrderStatusReady, CreatedBy: "u1"}))
	require.NoError(t, repo.Create(ctx, &entity.Order{ClientName: "Eva", DeliveryAt: d2, Status: entity.OrderStatusDraft, CreatedBy: "u2"}))

	all, err := repo.List(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Eva", all[0].ClientName)
	assert.Equal(t, "Luis", all[1].ClientName)
	assert.Equal(t, "Ana", all[2].ClientName)

	own, _ := repo.List(ctx, repository.OrderFilter{CreatedBy: "u1"})
	assert.Len(t, own, 2)

	drafts, _ := repo.List(ctx, repository.OrderFilter{Status: entity.OrderStatusDraft})
	assert.Len(t, drafts, 2)

	from := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	late, _ := repo.List(ctx, repository.OrderFilter{From: &from})
	assert.Len(t, late, 2)

	pending, err := s.Reports().CountPendingOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, pending)
}
