package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/memory"
)

func newProduct(t *testing.T, s *memory.Store, sku string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID: uuid.New().String(), Name: "Producto " + sku, Slug: "producto-" + sku, SKU: sku,
		Price: decimal.NewFromInt(10000), CostPrice: decimal.NewFromInt(6000),
		IVAPercentage: decimal.NewFromInt(19), IsActive: true,
	}
	require.NoError(t, s.Products().Create(context.Background(), p))
	return p
}

func newWarehouse(t *testing.T, s *memory.Store, code string, main bool) *entity.Warehouse {
	t.Helper()
	w := &entity.Warehouse{ID: uuid.New().String(), Name: "Bodega " + code, Code: code, IsActive: true, IsMain: main}
	require.NoError(t, s.Warehouses().Create(context.Background(), w))
	return w
}

func newUseCase(s *memory.Store) *UseCase {
	uc := NewUseCase(s, nil, nil, nil)
	uc.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	return uc
}

func TestRegisterMovement_CantidadAntesYDespues(t *testing.T) {
	s := memory.New()
	p := newProduct(t, s, "LAV-01")
	w := newWarehouse(t, s, "PRIN", true)
	uc := newUseCase(s)
	ctx := context.Background()

	in, err := uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{ProductID: p.ID, WarehouseID: w.ID, Type: entity.MovementTypeIn, Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, in.QuantityBefore)
	assert.Equal(t, 10, in.QuantityAfter)

	out, err := uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{ProductID: p.ID, WarehouseID: w.ID, Type: entity.MovementTypeOut, Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, -4, out.Quantity, "las salidas se guardan con signo negativo")
	assert.Equal(t, out.QuantityBefore+out.Quantity, out.QuantityAfter)

	st, err := uc.GetStock(ctx, p.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, st.Quantity)
}

func TestRegisterMovement_StockInsuficienteNoEscribe(t *testing.T) {
	s := memory.New()
	p := newProduct(t, s, "LAV-02")
	w := newWarehouse(t, s, "PRIN", true)
	uc := newUseCase(s)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{ProductID: p.ID, WarehouseID: w.ID, Type: entity.MovementTypeIn, Quantity: 3})
	require.NoError(t, err)

	_, err = uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{ProductID: p.ID, WarehouseID: w.ID, Type: entity.MovementTypeOut, Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	st, _ := uc.GetStock(ctx, p.ID, w.ID)
	assert.Equal(t, 3, st.Quantity)
	list, err := uc.ListMovements(ctx, dto.MovementFilterRequest{ProductID: p.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRegisterMovement_CantidadInvalida(t *testing.T) {
	s := memory.New()
	p := newProduct(t, s, "LAV-03")
	w := newWarehouse(t, s, "PRIN", true)
	uc := newUseCase(s)

	_, err := uc.RegisterMovement(context.Background(), "u1", dto.RegisterMovementRequest{ProductID: p.ID, WarehouseID: w.ID, Type: entity.MovementTypeIn, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RegisterMovement(context.Background(), "u1", dto.RegisterMovementRequest{ProductID: p.ID, WarehouseID: w.ID, Type: entity.MovementTypeIn, Quantity: -2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetStock_SinFilaDevuelveCero(t *testing.T) {
	s := memory.New()
	uc := newUseCase(s)
	st, err := uc.GetStock(context.Background(), "p", "w")
	require.NoError(t, err)
	assert.Equal(t, 0, st.Quantity)
}

func TestCompleteTransfer_TodoONada(t *testing.T) {
	s := memory.New()
	a := newProduct(t, s, "A")
	b := newProduct(t, s, "B")
	from := newWarehouse(t, s, "PRIN", true)
	to := newWarehouse(t, s, "TIENDA", false)
	uc := newUseCase(s)
	ctx := context.Background()

	for _, p := range []*entity.Product{a, b} {
		_, err := uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{ProductID: p.ID, WarehouseID: from.ID, Type: entity.MovementTypeIn, Quantity: 5})
		require.NoError(t, err)
	}

	tr, err := uc.CreateTransfer(ctx, "u1", dto.CreateTransferRequest{
		FromWarehouseID: from.ID, ToWarehouseID: to.ID,
		Items: []dto.TransferItemRequest{{ProductID: a.ID, Quantity: 2}, {ProductID: b.ID, Quantity: 8}},
	})
	require.NoError(t, err)
	assert.Equal(t, "TRF-20250310-0001", tr.Reference)

	_, err = uc.CompleteTransfer(ctx, "u1", tr.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	for _, p := range []*entity.Product{a, b} {
		st, _ := uc.GetStock(ctx, p.ID, from.ID)
		assert.Equal(t, 5, st.Quantity, "ninguna fila cambia si una línea falla")
		st, _ = uc.GetStock(ctx, p.ID, to.ID)
		assert.Equal(t, 0, st.Quantity)
	}
	got, err := uc.GetTransfer(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPending, got.Status)
}

func TestCompleteTransfer_MueveTodasLasLineas(t *testing.T) {
	s := memory.New()
	a := newProduct(t, s, "A")
	from := newWarehouse(t, s, "PRIN", true)
	to := newWarehouse(t, s, "TIENDA", false)
	uc := newUseCase(s)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{ProductID: a.ID, WarehouseID: from.ID, Type: entity.MovementTypeIn, Quantity: 5})
	require.NoError(t, err)
	tr, err := uc.CreateTransfer(ctx, "u1", dto.CreateTransferRequest{
		FromWarehouseID: from.ID, ToWarehouseID: to.ID,
		Items: []dto.TransferItemRequest{{ProductID: a.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	done, err := uc.CompleteTransfer(ctx, "u1", tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)

	st, _ := uc.GetStock(ctx, a.ID, from.ID)
	assert.Equal(t, 2, st.Quantity)
	st, _ = uc.GetStock(ctx, a.ID, to.ID)
	assert.Equal(t, 3, st.Quantity)

	_, err = uc.CompleteTransfer(ctx, "u1", tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	trace, err := uc.Trace(ctx, dto.TraceFilterRequest{ProductID: a.ID})
	require.NoError(t, err)
	require.Len(t, trace.Items, 3)
	assert.Equal(t, entity.TraceOther, trace.Items[0].MovementType)
	assert.Equal(t, entity.TraceStockTransfer, trace.Items[1].MovementType)
	assert.Equal(t, entity.TraceStockTransferReceive, trace.Items[2].MovementType)
	assert.Equal(t, "Bodega TIENDA", trace.Items[2].WarehouseName)
	require.Len(t, trace.Summary, 1)
	assert.Equal(t, 8, trace.Summary[0].TotalIn)
	assert.Equal(t, 3, trace.Summary[0].TotalOut)
}

func TestTrace_ResumenCubreTodasLasFilasAunqueSePagine(t *testing.T) {
	s := memory.New()
	p := newProduct(t, s, "CAL-05")
	w := newWarehouse(t, s, "PRIN", true)
	uc := newUseCase(s)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{ProductID: p.ID, WarehouseID: w.ID, Type: entity.MovementTypeIn, Quantity: 5})
		require.NoError(t, err)
	}
	_, err := uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{ProductID: p.ID, WarehouseID: w.ID, Type: entity.MovementTypeOut, Quantity: 4})
	require.NoError(t, err)

	in := dto.TraceFilterRequest{ProductID: p.ID}
	in.Limit = 1
	first, err := uc.Trace(ctx, in)
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	assert.Equal(t, 4, first.Total)
	require.Len(t, first.Summary, 1)
	assert.Equal(t, 15, first.Summary[0].TotalIn)
	assert.Equal(t, 4, first.Summary[0].TotalOut)
	assert.Equal(t, 4, first.Summary[0].MovementCount)

	in.Offset = 3
	last, err := uc.Trace(ctx, in)
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Equal(t, -4, last.Items[0].Quantity)
	assert.Equal(t, first.Summary, last.Summary)

	in.Offset = 10
	empty, err := uc.Trace(ctx, in)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 4, empty.Total)
}

func TestCreateTransfer_MismaBodegaInvalida(t *testing.T) {
	uc := newUseCase(memory.New())
	_, err := uc.CreateTransfer(context.Background(), "u1", dto.CreateTransferRequest{
		FromWarehouseID: "w", ToWarehouseID: "w",
		Items: []dto.TransferItemRequest{{ProductID: "p", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetThresholds_NoCambiaCantidad(t *testing.T) {
	s := memory.New()
	p := newProduct(t, s, "LAV-04")
	w := newWarehouse(t, s, "PRIN", true)
	uc := newUseCase(s)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{ProductID: p.ID, WarehouseID: w.ID, Type: entity.MovementTypeIn, Quantity: 4})
	require.NoError(t, err)

	st, err := uc.SetThresholds(ctx, p.ID, w.ID, dto.StockThresholdsRequest{MinStock: 5, MaxStock: 20, Location: "A-1"})
	require.NoError(t, err)
	assert.Equal(t, 4, st.Quantity)
	assert.True(t, st.IsLowStock)

	low, err := uc.ListStock(ctx, dto.StockFilterRequest{LowOnly: true})
	require.NoError(t, err)
	assert.Len(t, low, 1)

	_, err = uc.SetThresholds(ctx, p.ID, w.ID, dto.StockThresholdsRequest{MinStock: 30, MaxStock: 20})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
