package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/auth"
	"github.com/jhoicas/naturalmede-api/internal/application/catalog"
	"github.com/jhoicas/naturalmede-api/internal/application/customers"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/inventory"
	"github.com/jhoicas/naturalmede-api/internal/application/orders"
	"github.com/jhoicas/naturalmede-api/internal/application/pos"
	"github.com/jhoicas/naturalmede-api/internal/application/purchases"
	"github.com/jhoicas/naturalmede-api/internal/application/reports"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/cache"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/excel"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/memory"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/naturalmede-api/internal/interfaces/http"
	"github.com/jhoicas/naturalmede-api/pkg/logger"
	"github.com/jhoicas/naturalmede-api/pkg/wompi"
)

const testEventsSecret = "test_events_secret"

type testAPI struct {
	app       *fiber.App
	store     *memory.Store
	product   *entity.Product
	warehouse *entity.Warehouse
}

// newTestAPI arma el router completo sobre el store en memoria, con un producto y una bodega principal.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	log := logger.Nop()
	recorder := audit.NewRecorder(s, nil, log, 0, 0)
	locker := cache.NewLocalLocker(time.Second)

	p := &entity.Product{
		ID: uuid.New().String(), Name: "Jabón de avena", Slug: "jabon-avena", SKU: "JAB-AVE",
		Price: decimal.NewFromInt(12000), CostPrice: decimal.NewFromInt(7000),
		IVAPercentage: decimal.NewFromInt(19), IsActive: true,
	}
	require.NoError(t, s.Products().Create(ctx, p))
	w := &entity.Warehouse{ID: uuid.New().String(), Name: "Principal", Code: "PRIN", IsActive: true, IsMain: true}
	require.NoError(t, s.Warehouses().Create(ctx, w))
	require.NoError(t, s.WompiConfig().Save(ctx, &entity.WompiConfig{
		PublicKey: "pub_test_1", IntegritySecret: "test_integrity", EventsSecret: testEventsSecret,
		IsTestMode: true, IsActive: true,
	}))

	renderer := pdf.NewRenderer()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(s.Users(), recorder, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		CatalogUC:   catalog.NewUseCase(s, recorder),
		CartUC:      catalog.NewCartUseCase(s),
		CustomerUC:  customers.NewUseCase(s, recorder),
		InventoryUC: inventory.NewUseCase(s, recorder, nil, log),
		PurchaseUC:  purchases.NewUseCase(s, recorder, nil, renderer, "Naturalmede", log),
		POSUC:       pos.NewUseCase(s, locker, recorder, nil, renderer, "Naturalmede", log),
		OrderUC: orders.NewUseCase(s, locker, cache.NewMemoryIdempotencyStore(), recorder, nil,
			orders.Options{RequireSignature: true, Currency: "COP"}, log),
		AuditUC:     audit.NewUseCase(s, recorder, log),
		ReportUC:    reports.NewUseCase(s, excel.NewExporter(), recorder, log),
		JWTSecret:   testJWTSecret,
		ServiceName: "naturalmede-api-test",
	})
	return &testAPI{app: app, store: s, product: p, warehouse: w}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (a *testAPI) stock(t *testing.T) int {
	t.Helper()
	st, err := a.store.Stock().Get(context.Background(), a.product.ID, a.warehouse.ID)
	require.NoError(t, err)
	return st.Quantity
}

// checkout arma un carrito anónimo y lo convierte en orden por la API pública.
func (a *testAPI) checkout(t *testing.T, qty int) dto.OrderResponse {
	t.Helper()
	session := "sess-" + uuid.NewString()
	resp := a.do(t, http.MethodPost, "/api/store/cart/items", "",
		dto.CartItemRequest{ProductID: a.product.ID, Quantity: qty}, apphttp.HeaderCartSession, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodPost, "/api/store/checkout", "", dto.CheckoutRequest{
		PaymentMethod: entity.PaymentMethodWompi, DocumentNumber: "1020304050", FirstName: "Ana",
		LastName: "Gómez", Phone: "3001234567", ShippingAddress: "Cra 1 # 2-3", ShippingCity: "Medellín",
	}, apphttp.HeaderCartSession, session)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.OrderResponse](t, resp)
}

func webhookBody(id, status, reference string, total decimal.Decimal) (map[string]any, string) {
	amount := strconv.FormatInt(wompi.AmountInCents(total), 10)
	body := map[string]any{
		"event": "transaction.updated",
		"data": map[string]any{
			"transaction": map[string]any{"id": id, "status": status, "amount_in_cents": json.Number(amount), "reference": reference},
		},
	}
	return body, wompi.EventSignature(id, status, amount, testEventsSecret)
}

func TestRouter_Health(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodGet, "/health", "", nil)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestInventoryHandler_RegistraMovimientoYRechazaFaltante(t *testing.T) {
	api := newTestAPI(t)
	token := tokenForRole(t, "bodeguero")

	resp := api.do(t, http.MethodPost, "/api/inventory/movements", token, dto.RegisterMovementRequest{
		ProductID: api.product.ID, WarehouseID: api.warehouse.ID, Type: entity.MovementTypeIn, Quantity: 5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mov := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, 0, mov.QuantityBefore)
	assert.Equal(t, 5, mov.QuantityAfter)
	assert.Equal(t, testUserID, mov.UserID)

	resp = api.do(t, http.MethodPost, "/api/inventory/movements", token, dto.RegisterMovementRequest{
		ProductID: api.product.ID, WarehouseID: api.warehouse.ID, Type: entity.MovementTypeOut, Quantity: 8,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)
	assert.Equal(t, 5, api.stock(t), "un faltante no escribe nada")
}

func TestInventoryHandler_ValidacionConDetallePorCampo(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodPost, "/api/inventory/movements", tokenForRole(t, "admin"), map[string]any{
		"warehouse_id": api.warehouse.ID, "type": "robo", "quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Details, "product_id")
	assert.Contains(t, body.Details, "type")
}

func TestInventoryHandler_DetalleUsaNombresJSONEnLineasAnidadas(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodPost, "/api/inventory/transfers", tokenForRole(t, "admin"), map[string]any{
		"from_warehouse_id": api.warehouse.ID, "to_warehouse_id": uuid.NewString(),
		"items": []map[string]any{{"product_id": "no-uuid", "quantity": 0}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Contains(t, body.Details, "items[0].product_id")
	assert.Contains(t, body.Details, "items[0].quantity")
	assert.NotContains(t, body.Details, "to_warehouse_id")
}

func TestInventoryHandler_VendedorNoAccede(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodGet, "/api/inventory/stock", tokenForRole(t, "vendedor"), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestInventoryHandler_ProductoInexistente404(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodPost, "/api/inventory/movements", tokenForRole(t, "admin"), dto.RegisterMovementRequest{
		ProductID: uuid.NewString(), WarehouseID: api.warehouse.ID, Type: entity.MovementTypeIn, Quantity: 1,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWompiWebhook_AprobadoPagaYDescuentaUnaVez(t *testing.T) {
	api := newTestAPI(t)
	_, _, err := api.store.Stock().Apply(context.Background(), api.product.ID, api.warehouse.ID, 10)
	require.NoError(t, err)
	order := api.checkout(t, 3)

	body, sig := webhookBody("tx-1", "APPROVED", order.OrderNumber, order.Total)
	for i := 0; i < 2; i++ {
		resp := api.do(t, http.MethodPost, "/api/webhooks/wompi", "", body, apphttp.HeaderWompiSignature, sig)
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "OK", string(raw))
	}

	o, err := api.store.Orders().GetByNumber(context.Background(), order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPaid, o.Status)
	assert.NotNil(t, o.PaidAt)
	assert.Equal(t, "tx-1", o.WompiTransactionID)
	assert.Equal(t, 7, api.stock(t), "la repetición del evento no descuenta de nuevo")
}

func TestWompiWebhook_RutaAlternativaDelCatalogo(t *testing.T) {
	api := newTestAPI(t)
	order := api.checkout(t, 1)

	body, sig := webhookBody("tx-2", "DECLINED", order.OrderNumber, order.Total)
	resp := api.do(t, http.MethodPost, "/catalog/wompi/webhook/", "", body, apphttp.HeaderWompiSignature, sig)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	o, err := api.store.Orders().GetByNumber(context.Background(), order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, o.Status)
}

func TestWompiWebhook_FirmaInvalida400(t *testing.T) {
	api := newTestAPI(t)
	order := api.checkout(t, 1)

	body, _ := webhookBody("tx-3", "APPROVED", order.OrderNumber, order.Total)
	resp := api.do(t, http.MethodPost, "/api/webhooks/wompi", "", body, apphttp.HeaderWompiSignature, "firma-falsa")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_SIGNATURE", errBody.Code)

	o, err := api.store.Orders().GetByNumber(context.Background(), order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusNew, o.Status)
}

func TestWompiWebhook_SinReferenciaYOrdenDesconocida(t *testing.T) {
	api := newTestAPI(t)

	body, sig := webhookBody("tx-4", "APPROVED", "", decimal.NewFromInt(1000))
	resp := api.do(t, http.MethodPost, "/api/webhooks/wompi", "", body, apphttp.HeaderWompiSignature, sig)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, sig = webhookBody("tx-5", "APPROVED", "PR209901010001", decimal.NewFromInt(1000))
	resp = api.do(t, http.MethodPost, "/api/webhooks/wompi", "", body, apphttp.HeaderWompiSignature, sig)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStoreHandler_CarritoSinIdentificacion(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodGet, "/api/store/cart", "", nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_CART", body.Code)
}

func TestReportHandler_ExportaCSVYAudita(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodGet, "/api/reports/export/inventory?format=csv", tokenForRole(t, "admin"), nil)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "inventory_")
	assert.NotEmpty(t, raw)

	logs, total, err := api.store.AuditLogs().List(context.Background(), repository.AuditFilter{
		Action: entity.AuditActionExport, Page: repository.Page{Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, logs, 1)
	assert.Equal(t, testUserID, logs[0].UserID)

	resp = api.do(t, http.MethodGet, "/api/reports/export/inventory", tokenForRole(t, "vendedor"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
