package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de orden web.
const (
	OrderStatusNew       = "new"
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Métodos de pago web.
const (
	PaymentMethodWompi          = "wompi"
	PaymentMethodCashOnDelivery = "cash_on_delivery"
	PaymentMethodBankTransfer   = "bank_transfer"
	PaymentMethodAddi           = "addi"
)

// orderTransitions estados alcanzables desde cada estado.
var orderTransitions = map[string][]string{
	OrderStatusNew:     {OrderStatusPending, OrderStatusCancelled},
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusDelivered},
}

// Order pedido de la tienda web.
type Order struct {
	ID                 string
	OrderNumber        string
	OrderType          string
	CustomerID         string
	Status             string
	PaymentMethod      string
	Subtotal           decimal.Decimal
	IVAAmount          decimal.Decimal
	ShippingCost       decimal.Decimal
	Total              decimal.Decimal
	ShippingAddress    string
	ShippingCity       string
	ShippingPhone      string
	ShippingNotes      string
	Notes              string
	InternalNotes      string
	WompiReference     string
	WompiTransactionID string
	WompiStatus        string
	Items              []OrderItem
	CreatedAt          time.Time
	UpdatedAt          time.Time
	PaidAt             *time.Time
	ShippedAt          *time.Time
	DeliveredAt        *time.Time
}

// OrderItem línea de la orden: total = subtotal + IVA.
type OrderItem struct {
	ID            string
	OrderID       string
	ProductID     string
	Quantity      int
	UnitPrice     decimal.Decimal
	IVAPercentage decimal.Decimal
	Subtotal      decimal.Decimal
	IVAAmount     decimal.Decimal
	Total         decimal.Decimal
}

// HasIVA solo las órdenes principales llevan IVA.
func (o *Order) HasIVA() bool { return o.OrderType == OrderTypePrincipal }

// Calculate congela subtotal, IVA (0 si no aplica) y total de la línea.
func (i *OrderItem) Calculate(applyIVA bool) {
	i.Subtotal = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
	if applyIVA {
		i.IVAAmount = i.Subtotal.Mul(i.IVAPercentage).Div(hundred).Round(2)
	} else {
		i.IVAAmount = decimal.Zero
	}
	i.Total = i.Subtotal.Add(i.IVAAmount)
}

// RecalculateTotals recalcula líneas y totales: total = subtotal + IVA + envío.
func (o *Order) RecalculateTotals() {
	subtotal, iva := decimal.Zero, decimal.Zero
	for idx := range o.Items {
		it := &o.Items[idx]
		it.Calculate(o.HasIVA())
		subtotal = subtotal.Add(it.Subtotal)
		iva = iva.Add(it.IVAAmount)
	}
	o.Subtotal = subtotal
	o.IVAAmount = iva
	o.Total = subtotal.Add(iva).Add(o.ShippingCost)
}

// CanTransitionTo indica si el cambio de estado está en la lista blanca.
func (o *Order) CanTransitionTo(status string) bool {
	for _, s := range orderTransitions[o.Status] {
		if s == status {
			return true
		}
	}
	return false
}

// AllowedTransitions estados alcanzables desde el estado actual.
func (o *Order) AllowedTransitions() []string {
	return append([]string(nil), orderTransitions[o.Status]...)
}

// ApplyStatus cambia el estado y estampa la fecha correspondiente. No valida la transición.
func (o *Order) ApplyStatus(status string, now time.Time) {
	o.Status = status
	switch status {
	case OrderStatusPaid:
		o.PaidAt = &now
	case OrderStatusShipped:
		o.ShippedAt = &now
	case OrderStatusDelivered:
		o.DeliveredAt = &now
	}
}

// InventoryReference referencia de los movimientos de salida de la orden.
func (o *Order) InventoryReference() string { return "Orden " + o.OrderNumber }

// ReturnReference referencia de los movimientos de devolución al cancelar una orden pagada.
func (o *Order) ReturnReference() string { return "Devolución Orden " + o.OrderNumber }

// ShippingRate tarifa de envío por ciudad y rango de peso.
type ShippingRate struct {
	ID            string
	City          string
	MinWeight     decimal.Decimal
	MaxWeight     decimal.Decimal
	Cost          decimal.Decimal
	EstimatedDays int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Matches indica si la tarifa aplica a la ciudad (sin distinguir mayúsculas) y al peso.
func (r *ShippingRate) Matches(city string, weight decimal.Decimal) bool {
	if !r.IsActive || !strings.EqualFold(strings.TrimSpace(r.City), strings.TrimSpace(city)) {
		return false
	}
	return weight.GreaterThanOrEqual(r.MinWeight) && weight.LessThanOrEqual(r.MaxWeight)
}

// WompiConfig credenciales de la pasarela (registro único).
type WompiConfig struct {
	PublicKey       string
	PrivateKey      string
	IntegritySecret string
	EventsSecret    string
	IsTestMode      bool
	IsActive        bool
	UpdatedAt       time.Time
}

// WebhookSecret secreto de eventos o, en su defecto, el de integridad.
func (c *WompiConfig) WebhookSecret() string {
	if c == nil {
		return ""
	}
	if s := strings.TrimSpace(c.EventsSecret); s != "" {
		return s
	}
	return strings.TrimSpace(c.IntegritySecret)
}
