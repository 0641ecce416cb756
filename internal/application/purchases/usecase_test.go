package purchases

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
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/memory"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/messaging"
)

type fixture struct {
	store     *memory.Store
	uc        *UseCase
	events    *messaging.RecordingPublisher
	product   *entity.Product
	warehouse *entity.Warehouse
	supplier  string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	p := &entity.Product{
		ID: uuid.New().String(), Name: "Aceite de coco 250ml", Slug: "aceite-coco-250", SKU: "ACE-COC-250",
		Price: decimal.NewFromInt(15000), CostPrice: decimal.NewFromInt(6000),
		IVAPercentage: decimal.NewFromInt(19), IsActive: true,
	}
	require.NoError(t, s.Products().Create(ctx, p))
	w := &entity.Warehouse{ID: uuid.New().String(), Name: "Bodega principal", Code: "PRIN", IsActive: true, IsMain: true}
	require.NoError(t, s.Warehouses().Create(ctx, w))
	_, _, err := s.Stock().Apply(ctx, p.ID, w.ID, 10)
	require.NoError(t, err)

	events := &messaging.RecordingPublisher{}
	uc := NewUseCase(s, nil, events, nil, "Naturalmede", nil)
	uc.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }

	sup, err := uc.CreateSupplier(ctx, dto.SupplierRequest{Name: "Cosméticos del Valle", TaxID: "900123456-8", Phone: "300 123 4567"})
	require.NoError(t, err)
	return &fixture{store: s, uc: uc, events: events, product: p, warehouse: w, supplier: sup.ID}
}

func (f *fixture) create(t *testing.T) *dto.PurchaseResponse {
	t.Helper()
	p, err := f.uc.Create(context.Background(), "bodeguero-1", dto.CreatePurchaseRequest{
		SupplierID:   f.supplier,
		WarehouseID:  f.warehouse.ID,
		ShippingCost: decimal.NewFromInt(5000),
		Items: []dto.PurchaseItemRequest{{
			ProductID: f.product.ID, Quantity: 10,
			UnitCost: decimal.NewFromInt(8000), DiscountPercentage: decimal.NewFromInt(10),
		}},
	})
	require.NoError(t, err)
	return p
}

func TestCreate_TotalesYNumeroMensual(t *testing.T) {
	f := setup(t)
	p := f.create(t)

	assert.Equal(t, "COMP-202503-0001", p.PurchaseNumber)
	assert.Equal(t, entity.PurchaseStatusDraft, p.Status)
	assert.True(t, p.Subtotal.Equal(decimal.NewFromInt(80000)))
	assert.True(t, p.DiscountAmount.Equal(decimal.NewFromInt(8000)))
	assert.True(t, p.TaxAmount.Equal(decimal.NewFromInt(13680)))
	assert.True(t, p.Total.Equal(decimal.NewFromInt(90680)), p.Total.String())

	second := f.create(t)
	assert.Equal(t, "COMP-202503-0002", second.PurchaseNumber)
}

func TestCreate_ProveedorInexistente(t *testing.T) {
	f := setup(t)
	_, err := f.uc.Create(context.Background(), "bodeguero-1", dto.CreatePurchaseRequest{
		SupplierID: uuid.New().String(), WarehouseID: f.warehouse.ID,
		Items: []dto.PurchaseItemRequest{{ProductID: f.product.ID, Quantity: 1, UnitCost: decimal.NewFromInt(100)}},
	})
	assert.True(t, domain.IsNotFound(err))
}

func TestReceive_ActualizaStockYCostoPromedio(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.create(t)

	_, err := f.uc.Receive(ctx, "bodeguero-1", p.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "un borrador no se puede recibir")

	_, err = f.uc.Submit(ctx, "bodeguero-1", p.ID)
	require.NoError(t, err)

	receipt, err := f.uc.Receive(ctx, "bodeguero-1", p.ID, "llegó completo")
	require.NoError(t, err)
	assert.Equal(t, "REC-COMP-202503-0001", receipt.ReceiptNumber)

	st, err := f.store.Stock().Get(ctx, f.product.ID, f.warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, st.Quantity)

	prod, err := f.store.Products().GetByID(ctx, f.product.ID)
	require.NoError(t, err)
	assert.True(t, prod.CostPrice.Equal(decimal.NewFromInt(6600)), prod.CostPrice.String())

	got, err := f.uc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusReceived, got.Status)
	require.NotNil(t, got.ReceivedDate)
	assert.Equal(t, 1, f.events.Count(ports.EventPurchaseReceived))

	_, err = f.uc.Receive(ctx, "bodeguero-1", p.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.uc.AddItem(ctx, p.ID, dto.PurchaseItemRequest{ProductID: f.product.ID, Quantity: 1, UnitCost: decimal.NewFromInt(100)})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAddItemYRemoveItem_RecalculanTotales(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.create(t)

	zero := decimal.Zero
	updated, err := f.uc.AddItem(ctx, p.ID, dto.PurchaseItemRequest{
		ProductID: f.product.ID, Quantity: 2, UnitCost: decimal.NewFromInt(1000), TaxPercentage: &zero,
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 2)
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(92680)))

	updated, err = f.uc.RemoveItem(ctx, p.ID, updated.Items[1].ID)
	require.NoError(t, err)
	assert.Len(t, updated.Items, 1)
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(90680)))

	_, err = f.uc.RemoveItem(ctx, p.ID, uuid.New().String())
	assert.True(t, domain.IsNotFound(err))
}

func TestCancel_SoloDesdeBorradorOPendiente(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.create(t)

	c, err := f.uc.Cancel(ctx, "admin", p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusCancelled, c.Status)

	_, err = f.uc.Submit(ctx, "admin", p.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.UpdatePaymentStatus(ctx, "admin", p.ID, entity.PaymentStatusPaid)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateSupplier_NormalizaNITYTelefono(t *testing.T) {
	f := setup(t)
	s, err := f.uc.GetSupplier(context.Background(), f.supplier)
	require.NoError(t, err)
	assert.Equal(t, "900123456-8", s.TaxID)
	assert.True(t, s.IsActive)
}
