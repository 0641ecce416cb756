package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestOrderItem_IVASoloEnPrincipal(t *testing.T) {
	o := &Order{OrderType: OrderTypeAuxiliar, ShippingCost: dec("8000"), Items: []OrderItem{
		{Quantity: 2, UnitPrice: dec("10000"), IVAPercentage: dec("19")},
	}}
	o.RecalculateTotals()
	assert.True(t, o.Items[0].IVAAmount.IsZero())
	assert.True(t, o.Total.Equal(dec("28000")))

	o.OrderType = OrderTypePrincipal
	o.RecalculateTotals()
	it := o.Items[0]
	assert.True(t, it.IVAAmount.Equal(dec("3800")))
	assert.True(t, it.Total.Equal(it.Subtotal.Add(it.IVAAmount)))
	assert.True(t, o.Total.Equal(dec("31800")))
}

func TestPOSSaleItem_DescuentoAntesDeIVA(t *testing.T) {
	it := POSSaleItem{Quantity: 1, UnitPrice: dec("100000"), IVAPercentage: dec("19"), DiscountPercentage: dec("10")}
	it.Calculate(true)
	assert.True(t, it.DiscountAmount.Equal(dec("10000")))
	assert.True(t, it.IVAAmount.Equal(dec("17100")))
	assert.True(t, it.Total.Equal(dec("107100")))

	it.Calculate(false)
	assert.True(t, it.IVAAmount.IsZero())
	assert.True(t, it.Total.Equal(dec("90000")))
}

func TestPurchase_Totales(t *testing.T) {
	p := &Purchase{ShippingCost: dec("5000"), Items: []PurchaseItem{
		{Quantity: 10, UnitCost: dec("1000"), TaxPercentage: dec("19"), DiscountPercentage: dec("10")},
		{Quantity: 1, UnitCost: dec("2000"), TaxPercentage: dec("0")},
	}}
	for i := range p.Items {
		p.Items[i].Calculate()
	}
	p.RecalculateTotals()
	assert.True(t, p.Subtotal.Equal(dec("12000")))
	assert.True(t, p.DiscountAmount.Equal(dec("1000")))
	assert.True(t, p.TaxAmount.Equal(dec("1710")))
	assert.True(t, p.Total.Equal(dec("17710")))
}

func TestOrder_Transiciones(t *testing.T) {
	o := &Order{Status: OrderStatusNew}
	assert.True(t, o.CanTransitionTo(OrderStatusPending))
	assert.False(t, o.CanTransitionTo(OrderStatusPaid))

	now := time.Date(2025, 9, 30, 10, 0, 0, 0, time.UTC)
	o.ApplyStatus(OrderStatusPending, now)
	o.ApplyStatus(OrderStatusPaid, now)
	assert.Equal(t, now, *o.PaidAt)
	assert.True(t, o.CanTransitionTo(OrderStatusShipped))
	assert.True(t, o.CanTransitionTo(OrderStatusCancelled))

	o.ApplyStatus(OrderStatusShipped, now)
	assert.False(t, o.CanTransitionTo(OrderStatusCancelled))
	o.ApplyStatus(OrderStatusDelivered, now)
	assert.Empty(t, o.AllowedTransitions())
}

func TestNumeracion(t *testing.T) {
	day := time.Date(2025, 9, 30, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "PR202509300001", FormatDailyNumber(OrderTypePrincipal, day, 1))
	assert.Equal(t, "AU202509300012", FormatDailyNumber(OrderTypeAuxiliar, day, 12))
	assert.Equal(t, "COMP-202509-0007", FormatPurchaseNumber(day, 7))
	assert.NotEqual(t, DailySequenceKey("order", OrderTypePrincipal, day), DailySequenceKey("order", OrderTypeAuxiliar, day))
}

func TestPOSSession_IDYCaja(t *testing.T) {
	now := time.Date(2025, 9, 30, 14, 30, 0, 0, time.UTC)
	id := NewPOSSessionID(now)
	assert.Regexp(t, `^POS20250930143000[0-9A-F]{6}$`, id)

	s := &POSSession{OpeningCash: dec("100000")}
	s.Close(dec("340000"), dec("250000"), 3, "", now)
	assert.True(t, s.ExpectedCash().Equal(dec("350000")))
	assert.True(t, s.CashDifference().Equal(dec("-10000")))
	assert.Equal(t, POSSessionClosed, s.Status)
}

func TestSignedQuantity(t *testing.T) {
	q, ok := SignedQuantity(MovementTypeOut, 5)
	assert.True(t, ok)
	assert.Equal(t, -5, q)
	_, ok = SignedQuantity(MovementTypeIn, -1)
	assert.False(t, ok)
	_, ok = SignedQuantity(MovementTypeAdjustment, 0)
	assert.False(t, ok)
}

func TestShippingRate_Matches(t *testing.T) {
	r := &ShippingRate{City: "Medellín", MinWeight: dec("0"), MaxWeight: dec("5"), IsActive: true}
	assert.True(t, r.Matches("medellín", dec("5")))
	assert.False(t, r.Matches("Bogotá", dec("1")))
	assert.False(t, r.Matches("Medellín", dec("5.1")))
}

func TestTraceTypeFor(t *testing.T) {
	assert.Equal(t, TraceStockTransfer, TraceTypeFor(&StockMovement{SourceKind: SourceTransfer, Quantity: -2}))
	assert.Equal(t, TraceStockTransferReceive, TraceTypeFor(&StockMovement{SourceKind: SourceTransfer, Quantity: 2}))
	assert.Equal(t, TraceStockAdjustment, TraceTypeFor(&StockMovement{SourceKind: SourceManual, Type: MovementTypeAdjustment}))
	assert.Equal(t, TraceOther, TraceTypeFor(&StockMovement{SourceKind: SourceManual, Type: MovementTypeIn}))
}

func TestAuditConfiguration_Tracks(t *testing.T) {
	c := DefaultAuditConfiguration(AuditEntityOrder)
	assert.True(t, c.Tracks(AuditActionUpdate))
	assert.False(t, c.Tracks(AuditActionView))
	c.TrackUpdates = false
	assert.False(t, c.Tracks(AuditActionUpdate))
	c.IsEnabled = false
	assert.False(t, c.Tracks(AuditActionCreate))

	c.ExcludeFields = []string{"notes"}
	assert.False(t, c.FieldTracked("notes"))
	assert.True(t, c.FieldTracked("status"))
}
