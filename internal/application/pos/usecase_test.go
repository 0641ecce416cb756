package pos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/cache"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/memory"
)

type fakePDF struct{ receipts []ports.ReceiptData }

func (f *fakePDF) SaleReceipt(d ports.ReceiptData) ([]byte, error) {
	f.receipts = append(f.receipts, d)
	return []byte("%PDF-1.4"), nil
}

func (f *fakePDF) PurchaseOrder(ports.PurchaseOrderData) ([]byte, error) { return []byte("%PDF-1.4"), nil }

type fixture struct {
	store     *memory.Store
	uc        *UseCase
	pdf       *fakePDF
	product   *entity.Product
	warehouse *entity.Warehouse
}

func setup(t *testing.T, stock int) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	p := &entity.Product{
		ID: uuid.New().String(), Name: "Jabón de avena", Slug: "jabon-avena", SKU: "JAB-AVE",
		Price: decimal.NewFromInt(12000), CostPrice: decimal.NewFromInt(7000),
		IVAPercentage: decimal.NewFromInt(19), IsActive: true,
	}
	require.NoError(t, s.Products().Create(ctx, p))
	w := &entity.Warehouse{ID: uuid.New().String(), Name: "Tienda Laureles", Code: "LAU", IsActive: true}
	require.NoError(t, s.Warehouses().Create(ctx, w))
	if stock > 0 {
		_, _, err := s.Stock().Apply(ctx, p.ID, w.ID, stock)
		require.NoError(t, err)
	}
	pdf := &fakePDF{}
	uc := NewUseCase(s, cache.NewLocalLocker(time.Second), nil, nil, pdf, "Naturalmede", nil)
	uc.now = func() time.Time { return time.Date(2025, 9, 30, 14, 30, 0, 0, time.UTC) }
	return &fixture{store: s, uc: uc, pdf: pdf, product: p, warehouse: w}
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	st, err := f.store.Stock().Get(context.Background(), f.product.ID, f.warehouse.ID)
	require.NoError(t, err)
	return st.Quantity
}

func TestOpenSession_SoloUnaAbiertaPorUsuario(t *testing.T) {
	f := setup(t, 0)
	ctx := context.Background()

	s, err := f.uc.OpenSession(ctx, "cajero-1", dto.OpenSessionRequest{WarehouseID: f.warehouse.ID, OpeningCash: decimal.NewFromInt(100000)})
	require.NoError(t, err)
	assert.Equal(t, entity.POSSessionOpen, s.Status)
	assert.Regexp(t, `^POS20250930143000[0-9A-F]{6}$`, s.SessionID)

	_, err = f.uc.OpenSession(ctx, "cajero-1", dto.OpenSessionRequest{WarehouseID: f.warehouse.ID})
	assert.ErrorIs(t, err, domain.ErrSessionAlreadyOpen)

	_, err = f.uc.OpenSession(ctx, "cajero-2", dto.OpenSessionRequest{WarehouseID: f.warehouse.ID})
	assert.NoError(t, err, "otro usuario puede abrir su propia caja")
}

func TestCreateSale_SinSesionAbierta(t *testing.T) {
	f := setup(t, 5)
	_, err := f.uc.CreateSale(context.Background(), "cajero-1", dto.CreateSaleRequest{
		OrderType: entity.OrderTypePrincipal, PaymentMethod: entity.POSPaymentCard,
		Items: []dto.SaleItemRequest{{ProductID: f.product.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestCreateSale_EfectivoDescuentaYCalculaCambio(t *testing.T) {
	f := setup(t, 5)
	ctx := context.Background()
	_, err := f.uc.OpenSession(ctx, "cajero-1", dto.OpenSessionRequest{WarehouseID: f.warehouse.ID})
	require.NoError(t, err)

	sale, err := f.uc.CreateSale(ctx, "cajero-1", dto.CreateSaleRequest{
		OrderType: entity.OrderTypePrincipal, PaymentMethod: entity.POSPaymentCash,
		AmountReceived: decimal.NewFromInt(30000),
		Items:          []dto.SaleItemRequest{{ProductID: f.product.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "PR202509300001", sale.SaleNumber)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(28560)), sale.Total.String())
	assert.True(t, sale.ChangeAmount.Equal(decimal.NewFromInt(1440)))
	assert.Equal(t, 3, f.stock(t))

	_, err = f.uc.CreateSale(ctx, "cajero-1", dto.CreateSaleRequest{
		OrderType: entity.OrderTypePrincipal, PaymentMethod: entity.POSPaymentCash,
		AmountReceived: decimal.NewFromInt(1000),
		Items:          []dto.SaleItemRequest{{ProductID: f.product.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 3, f.stock(t))
}

func TestCreateSale_AuxiliarSinIVAYStockInsuficiente(t *testing.T) {
	f := setup(t, 1)
	ctx := context.Background()
	_, err := f.uc.OpenSession(ctx, "cajero-1", dto.OpenSessionRequest{WarehouseID: f.warehouse.ID})
	require.NoError(t, err)

	sale, err := f.uc.CreateSale(ctx, "cajero-1", dto.CreateSaleRequest{
		OrderType: entity.OrderTypeAuxiliar, PaymentMethod: entity.POSPaymentTransfer,
		Items: []dto.SaleItemRequest{{ProductID: f.product.ID, Quantity: 1, DiscountPercentage: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)
	assert.True(t, sale.IVAAmount.IsZero())
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(10800)))
	assert.True(t, sale.AmountReceived.Equal(sale.Total))

	_, err = f.uc.CreateSale(ctx, "cajero-1", dto.CreateSaleRequest{
		OrderType: entity.OrderTypeAuxiliar, PaymentMethod: entity.POSPaymentCard,
		Items: []dto.SaleItemRequest{{ProductID: f.product.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	sales, err := f.uc.ListSales(ctx, dto.SaleFilterRequest{})
	require.NoError(t, err)
	assert.Len(t, sales, 1, "la venta fallida no queda registrada")
}

func TestCloseSession_TotalesDesdeVentas(t *testing.T) {
	f := setup(t, 10)
	ctx := context.Background()
	s, err := f.uc.OpenSession(ctx, "cajero-1", dto.OpenSessionRequest{WarehouseID: f.warehouse.ID, OpeningCash: decimal.NewFromInt(50000)})
	require.NoError(t, err)
	for range 2 {
		_, err := f.uc.CreateSale(ctx, "cajero-1", dto.CreateSaleRequest{
			OrderType: entity.OrderTypeAuxiliar, PaymentMethod: entity.POSPaymentCash,
			AmountReceived: decimal.NewFromInt(12000),
			Items:          []dto.SaleItemRequest{{ProductID: f.product.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	closed, err := f.uc.CloseSession(ctx, "cajero-1", false, s.ID, dto.CloseSessionRequest{ClosingCash: decimal.NewFromInt(73000)})
	require.NoError(t, err)
	assert.Equal(t, entity.POSSessionClosed, closed.Status)
	assert.Equal(t, 2, closed.TotalTransactions)
	assert.True(t, closed.TotalSales.Equal(decimal.NewFromInt(24000)))
	assert.True(t, closed.CashDifference.Equal(decimal.NewFromInt(-1000)))

	_, err = f.uc.CloseSession(ctx, "cajero-1", false, s.ID, dto.CloseSessionRequest{})
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestCloseSession_SoloDuenoOAdmin(t *testing.T) {
	f := setup(t, 10)
	ctx := context.Background()
	s, err := f.uc.OpenSession(ctx, "cajero-1", dto.OpenSessionRequest{WarehouseID: f.warehouse.ID})
	require.NoError(t, err)

	_, err = f.uc.CloseSession(ctx, "cajero-2", false, s.ID, dto.CloseSessionRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	got, err := f.uc.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POSSessionOpen, got.Status)

	closed, err := f.uc.CloseSession(ctx, "admin-1", true, s.ID, dto.CloseSessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, entity.POSSessionClosed, closed.Status)
}

func TestReceiptPDF_NombreYDatos(t *testing.T) {
	f := setup(t, 3)
	ctx := context.Background()
	_, err := f.uc.OpenSession(ctx, "cajero-1", dto.OpenSessionRequest{WarehouseID: f.warehouse.ID})
	require.NoError(t, err)
	sale, err := f.uc.CreateSale(ctx, "cajero-1", dto.CreateSaleRequest{
		OrderType: entity.OrderTypePrincipal, PaymentMethod: entity.POSPaymentCard,
		Items: []dto.SaleItemRequest{{ProductID: f.product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	pdf, name, err := f.uc.ReceiptPDF(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "recibo-"+sale.SaleNumber+".pdf", name)
	assert.NotEmpty(t, pdf)
	require.Len(t, f.pdf.receipts, 1)
	assert.Equal(t, "Tienda Laureles", f.pdf.receipts[0].WarehouseName)
	assert.Equal(t, "Jabón de avena", f.pdf.receipts[0].ProductNames[f.product.ID])
}
