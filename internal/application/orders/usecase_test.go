package orders

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/naturalmede-api/internal/application/catalog"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/cache"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/memory"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/messaging"
	"github.com/jhoicas/naturalmede-api/pkg/wompi"
)

const eventsSecret = "test_events_secret"

var fixedNow = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

type fixture struct {
	store     *memory.Store
	uc        *UseCase
	cart      *catalog.CartUseCase
	publisher *messaging.RecordingPublisher
	product   *entity.Product
	warehouse *entity.Warehouse
}

func setup(t *testing.T, stock int, opts Options) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	p := &entity.Product{
		ID: uuid.New().String(), Name: "Aceite de lavanda", Slug: "aceite-lavanda", SKU: "ACE-LAV",
		Price: decimal.NewFromInt(10000), CostPrice: decimal.NewFromInt(5000),
		IVAPercentage: decimal.NewFromInt(19), IsActive: true,
	}
	require.NoError(t, s.Products().Create(ctx, p))
	w := &entity.Warehouse{ID: uuid.New().String(), Name: "Principal", Code: "PRIN", IsActive: true, IsMain: true}
	require.NoError(t, s.Warehouses().Create(ctx, w))
	if stock > 0 {
		_, _, err := s.Stock().Apply(ctx, p.ID, w.ID, stock)
		require.NoError(t, err)
	}
	require.NoError(t, s.WompiConfig().Save(ctx, &entity.WompiConfig{
		PublicKey: "pub_test_1", IntegritySecret: "test_integrity", EventsSecret: eventsSecret,
		IsTestMode: true, IsActive: true,
	}))

	pub := &messaging.RecordingPublisher{}
	uc := NewUseCase(s, cache.NewLocalLocker(time.Second), cache.NewMemoryIdempotencyStore(), nil, pub, opts, nil)
	uc.now = func() time.Time { return fixedNow }
	return &fixture{store: s, uc: uc, cart: catalog.NewCartUseCase(s), publisher: pub, product: p, warehouse: w}
}

func (f *fixture) checkout(t *testing.T, qty int) *dto.OrderResponse {
	t.Helper()
	ctx := context.Background()
	owner := dto.CartOwner{SessionKey: "sess-" + uuid.NewString()}
	_, err := f.cart.AddItem(ctx, owner, dto.CartItemRequest{ProductID: f.product.ID, Quantity: qty})
	require.NoError(t, err)
	o, err := f.uc.Checkout(ctx, owner, dto.CheckoutRequest{
		PaymentMethod: entity.PaymentMethodWompi, DocumentNumber: "1020304050", FirstName: "Ana",
		LastName: "Gómez", Phone: "3001234567", ShippingAddress: "Cra 1 # 2-3", ShippingCity: "Medellín",
	})
	require.NoError(t, err)
	return o
}

func wompiEvent(id, status, reference string, total decimal.Decimal) (dto.WompiEvent, string) {
	var ev dto.WompiEvent
	ev.Event = "transaction.updated"
	amount := json.Number(strconv.FormatInt(wompi.AmountInCents(total), 10))
	ev.Data.Transaction = dto.WompiTransaction{ID: id, Status: status, AmountInCents: amount, Reference: reference}
	return ev, wompi.EventSignature(id, status, amount.String(), eventsSecret)
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	st, err := f.store.Stock().Get(context.Background(), f.product.ID, f.warehouse.ID)
	require.NoError(t, err)
	return st.Quantity
}

func TestCheckout_TotalesYNumero(t *testing.T) {
	f := setup(t, 10, Options{})
	o := f.checkout(t, 2)

	assert.Equal(t, "PR202503100001", o.OrderNumber)
	assert.Equal(t, entity.OrderStatusNew, o.Status)
	assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(20000)))
	assert.True(t, o.IVAAmount.Equal(decimal.NewFromInt(3800)))

	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.Total)
	}
	assert.True(t, o.Total.Equal(sum.Add(o.ShippingCost)), "total = líneas + envío")
	assert.Equal(t, 10, f.stock(t), "crear la orden no toca inventario")
	assert.Equal(t, 1, f.publisher.Count(ports.EventOrderCreated))
}

func TestCheckout_CarritoVacio(t *testing.T) {
	f := setup(t, 0, Options{})
	_, err := f.uc.Checkout(context.Background(), dto.CartOwner{SessionKey: "sin-carrito"}, dto.CheckoutRequest{
		PaymentMethod: entity.PaymentMethodWompi, DocumentNumber: "1", FirstName: "A", Phone: "3001234567",
		ShippingAddress: "x", ShippingCity: "Medellín",
	})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCheckout_TarifaDeEnvioPorCiudad(t *testing.T) {
	f := setup(t, 10, Options{})
	f.product.Weight = ptrDecimal(decimal.NewFromFloat(0.5))
	require.NoError(t, f.store.Products().Update(context.Background(), f.product))
	_, err := f.uc.CreateShippingRate(context.Background(), dto.ShippingRateRequest{
		City: "medellín", MinWeight: decimal.Zero, MaxWeight: decimal.NewFromInt(5), Cost: decimal.NewFromInt(12000),
	})
	require.NoError(t, err)

	o := f.checkout(t, 2)
	assert.True(t, o.ShippingCost.Equal(decimal.NewFromInt(12000)))
	assert.True(t, o.Total.Equal(decimal.NewFromInt(35800)))
}

func ptrDecimal(d decimal.Decimal) *decimal.Decimal { return &d }

func TestHandleWompiEvent_AprobadoMarcaPagadaYDescuenta(t *testing.T) {
	f := setup(t, 5, Options{RequireSignature: true})
	o := f.checkout(t, 2)
	ev, sig := wompiEvent("tx-1", wompi.StatusApproved, o.OrderNumber, o.Total)

	require.NoError(t, f.uc.HandleWompiEvent(context.Background(), ev, sig))

	got, err := f.uc.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPaid, got.Status)
	require.NotNil(t, got.PaidAt)
	assert.False(t, got.PaidAt.After(fixedNow))
	assert.Equal(t, "tx-1", got.WompiTransactionID)
	assert.Equal(t, 3, f.stock(t))
	assert.Equal(t, 1, f.publisher.Count(ports.EventOrderPaid))
}

func TestHandleWompiEvent_RepetidoNoDescuentaDosVeces(t *testing.T) {
	f := setup(t, 5, Options{RequireSignature: true})
	o := f.checkout(t, 2)
	ev, sig := wompiEvent("tx-1", wompi.StatusApproved, o.OrderNumber, o.Total)
	ctx := context.Background()

	require.NoError(t, f.uc.HandleWompiEvent(ctx, ev, sig))
	require.NoError(t, f.uc.HandleWompiEvent(ctx, ev, sig))

	assert.Equal(t, 3, f.stock(t))
	moves, err := f.store.Movements().List(ctx, repository.MovementFilter{ProductID: f.product.ID})
	require.NoError(t, err)
	assert.Len(t, moves, 1)
	assert.Equal(t, "Orden "+o.OrderNumber, moves[0].Reference)
	assert.Equal(t, 1, f.publisher.Count(ports.EventOrderPaid))
}

func TestHandleWompiEvent_FirmaInvalida(t *testing.T) {
	f := setup(t, 5, Options{RequireSignature: true})
	o := f.checkout(t, 1)
	ev, _ := wompiEvent("tx-1", wompi.StatusApproved, o.OrderNumber, o.Total)

	err := f.uc.HandleWompiEvent(context.Background(), ev, "firma-falsa")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)

	got, _ := f.uc.Get(context.Background(), o.ID)
	assert.Equal(t, entity.OrderStatusNew, got.Status)
	assert.Equal(t, 5, f.stock(t))
}

func TestHandleWompiEvent_SinSecretoExigeFirma(t *testing.T) {
	f := setup(t, 5, Options{RequireSignature: true})
	require.NoError(t, f.store.WompiConfig().Save(context.Background(), &entity.WompiConfig{PublicKey: "pub", IsActive: true}))
	o := f.checkout(t, 1)
	ev, sig := wompiEvent("tx-1", wompi.StatusApproved, o.OrderNumber, o.Total)

	assert.ErrorIs(t, f.uc.HandleWompiEvent(context.Background(), ev, sig), domain.ErrInvalidSignature)

	f.uc.opts.RequireSignature = false
	assert.NoError(t, f.uc.HandleWompiEvent(context.Background(), ev, ""))
}

func TestHandleWompiEvent_ReferenciaDesconocida(t *testing.T) {
	f := setup(t, 5, Options{})
	ev, sig := wompiEvent("tx-9", wompi.StatusApproved, "PR209901010001", decimal.NewFromInt(1000))
	assert.True(t, domain.IsNotFound(f.uc.HandleWompiEvent(context.Background(), ev, sig)))
}

func TestHandleWompiEvent_RechazadoCancela(t *testing.T) {
	f := setup(t, 5, Options{})
	o := f.checkout(t, 1)
	ev, sig := wompiEvent("tx-2", wompi.StatusDeclined, o.OrderNumber, o.Total)

	require.NoError(t, f.uc.HandleWompiEvent(context.Background(), ev, sig))
	got, _ := f.uc.Get(context.Background(), o.ID)
	assert.Equal(t, entity.OrderStatusCancelled, got.Status)
	assert.Equal(t, 5, f.stock(t))
}

func TestHandleWompiEvent_FaltanteNoBloqueaPago(t *testing.T) {
	f := setup(t, 1, Options{})
	o := f.checkout(t, 2)
	ev, sig := wompiEvent("tx-3", wompi.StatusApproved, o.OrderNumber, o.Total)

	require.NoError(t, f.uc.HandleWompiEvent(context.Background(), ev, sig))
	got, _ := f.uc.Get(context.Background(), o.ID)
	assert.Equal(t, entity.OrderStatusPaid, got.Status)
	assert.True(t, strings.Contains(got.InternalNotes, "Sin stock en PRIN"))
	assert.Equal(t, 1, f.stock(t), "el stock nunca queda negativo")
}

func TestUpdateStatus_TransicionesYDevolucion(t *testing.T) {
	f := setup(t, 5, Options{})
	o := f.checkout(t, 2)
	ctx := context.Background()

	_, err := f.uc.UpdateStatus(ctx, "admin", o.ID, dto.UpdateOrderStatusRequest{Status: entity.OrderStatusDelivered})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.uc.UpdateStatus(ctx, "admin", o.ID, dto.UpdateOrderStatusRequest{Status: entity.OrderStatusPending})
	require.NoError(t, err)
	paid, err := f.uc.UpdateStatus(ctx, "admin", o.ID, dto.UpdateOrderStatusRequest{Status: entity.OrderStatusPaid})
	require.NoError(t, err)
	assert.NotNil(t, paid.PaidAt)
	assert.Equal(t, 3, f.stock(t))

	cancelled, err := f.uc.UpdateStatus(ctx, "admin", o.ID, dto.UpdateOrderStatusRequest{Status: entity.OrderStatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 5, f.stock(t))
	assert.Empty(t, cancelled.AllowedTransitions)
}

func TestHandleWompiEvent_RechazoDespuesDelPagoCancelaYDevuelve(t *testing.T) {
	f := setup(t, 5, Options{RequireSignature: true})
	o := f.checkout(t, 2)
	ctx := context.Background()

	ev, sig := wompiEvent("tx-1", wompi.StatusApproved, o.OrderNumber, o.Total)
	require.NoError(t, f.uc.HandleWompiEvent(ctx, ev, sig))
	require.Equal(t, 3, f.stock(t))

	ev, sig = wompiEvent("tx-1", wompi.StatusDeclined, o.OrderNumber, o.Total)
	require.NoError(t, f.uc.HandleWompiEvent(ctx, ev, sig))

	got, err := f.uc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, got.Status)
	assert.Equal(t, wompi.StatusDeclined, got.WompiStatus)
	assert.Equal(t, 5, f.stock(t))
	assert.Equal(t, 1, f.publisher.Count(ports.EventOrderPaid))

	ev, sig = wompiEvent("tx-2", wompi.StatusVoided, o.OrderNumber, o.Total)
	require.NoError(t, f.uc.HandleWompiEvent(ctx, ev, sig))
	assert.Equal(t, 5, f.stock(t), "la devolución se hace una sola vez")
	returns, err := f.store.Movements().ListBySource(ctx, entity.SourceOrderReturn, o.ID)
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.Equal(t, "Devolución Orden "+o.OrderNumber, returns[0].Reference)
}

func TestUpdateStatus_CancelarDevuelveALaBodegaDeOrigen(t *testing.T) {
	f := setup(t, 10, Options{})
	o := f.checkout(t, 2)
	ctx := context.Background()

	_, err := f.uc.UpdateStatus(ctx, "admin", o.ID, dto.UpdateOrderStatusRequest{Status: entity.OrderStatusPending})
	require.NoError(t, err)
	_, err = f.uc.UpdateStatus(ctx, "admin", o.ID, dto.UpdateOrderStatusRequest{Status: entity.OrderStatusPaid})
	require.NoError(t, err)
	require.Equal(t, 8, f.stock(t))

	other := &entity.Warehouse{ID: uuid.New().String(), Name: "Tienda", Code: "TIENDA", IsActive: true, IsMain: true}
	require.NoError(t, f.store.Warehouses().Create(ctx, other))
	require.NoError(t, f.store.Warehouses().ClearMain(ctx, other.ID))
	def, err := f.store.Warehouses().GetDefault(ctx)
	require.NoError(t, err)
	require.Equal(t, other.ID, def.ID)

	_, err = f.uc.UpdateStatus(ctx, "admin", o.ID, dto.UpdateOrderStatusRequest{Status: entity.OrderStatusCancelled})
	require.NoError(t, err)

	assert.Equal(t, 10, f.stock(t))
	st, err := f.store.Stock().Get(ctx, f.product.ID, other.ID)
	require.NoError(t, err)
	assert.Zero(t, st.Quantity, "la bodega principal nueva no recibe unidades")
}

func TestWidgetData_FirmaDeIntegridad(t *testing.T) {
	f := setup(t, 5, Options{CheckoutURL: "https://checkout.wompi.co/p/", PublicBaseURL: "https://tienda.test"})
	o := f.checkout(t, 1)

	w, err := f.uc.WidgetData(context.Background(), o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, "COP", w.Currency)
	assert.Equal(t, wompi.AmountInCents(o.Total), w.AmountInCents)
	assert.Equal(t, wompi.IntegritySignature(o.OrderNumber, w.AmountInCents, "COP", "test_integrity"), w.IntegritySignature)
	assert.Contains(t, w.RedirectURL, "https://tienda.test/checkout/resultado")
}
