package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutRequest convierte el carrito en una orden.
type CheckoutRequest struct {
	OrderType       string `json:"order_type" validate:"omitempty,oneof=principal auxiliar"`
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=wompi cash_on_delivery bank_transfer addi"`
	DocumentType    string `json:"document_type" validate:"omitempty,oneof=CC CE NIT PP TI"`
	DocumentNumber  string `json:"document_number" validate:"required,max=20"`
	FirstName       string `json:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" validate:"omitempty,max=100"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"required,max=20"`
	ShippingAddress string `json:"shipping_address" validate:"required"`
	ShippingCity    string `json:"shipping_city" validate:"required,max=100"`
	ShippingNotes   string `json:"shipping_notes"`
	Notes           string `json:"notes"`
}

// UpdateOrderStatusRequest cambio manual de estado.
type UpdateOrderStatusRequest struct {
	Status        string `json:"status" validate:"required,oneof=new pending paid shipped delivered cancelled"`
	InternalNotes string `json:"internal_notes"`
}

// OrderFilterRequest filtros de órdenes.
type OrderFilterRequest struct {
	Status     string     `query:"status"`
	CustomerID string     `query:"customer_id"`
	From       *time.Time `query:"-"`
	To         *time.Time `query:"-"`
	PageRequest
}

// OrderItemResponse línea de orden.
type OrderItemResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	IVAPercentage decimal.Decimal `json:"iva_percentage"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	IVAAmount     decimal.Decimal `json:"iva_amount"`
	Total         decimal.Decimal `json:"total"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID                 string              `json:"id"`
	OrderNumber        string              `json:"order_number"`
	OrderType          string              `json:"order_type"`
	CustomerID         string              `json:"customer_id"`
	Status             string              `json:"status"`
	PaymentMethod      string              `json:"payment_method"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	IVAAmount          decimal.Decimal     `json:"iva_amount"`
	ShippingCost       decimal.Decimal     `json:"shipping_cost"`
	Total              decimal.Decimal     `json:"total"`
	ShippingAddress    string              `json:"shipping_address"`
	ShippingCity       string              `json:"shipping_city"`
	ShippingPhone      string              `json:"shipping_phone"`
	ShippingNotes      string              `json:"shipping_notes,omitempty"`
	Notes              string              `json:"notes,omitempty"`
	InternalNotes      string              `json:"internal_notes,omitempty"`
	WompiReference     string              `json:"wompi_reference,omitempty"`
	WompiTransactionID string              `json:"wompi_transaction_id,omitempty"`
	WompiStatus        string              `json:"wompi_status,omitempty"`
	AllowedTransitions []string            `json:"allowed_transitions"`
	Items              []OrderItemResponse `json:"items"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	PaidAt             *time.Time          `json:"paid_at,omitempty"`
	ShippedAt          *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt        *time.Time          `json:"delivered_at,omitempty"`
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ShippingRateRequest entrada de tarifa de envío.
type ShippingRateRequest struct {
	City          string          `json:"city" validate:"required,max=100"`
	MinWeight     decimal.Decimal `json:"min_weight"`
	MaxWeight     decimal.Decimal `json:"max_weight"`
	Cost          decimal.Decimal `json:"cost"`
	EstimatedDays int             `json:"estimated_days" validate:"min=0"`
	IsActive      *bool           `json:"is_active"`
}

// ShippingRateResponse salida de tarifa.
type ShippingRateResponse struct {
	ID            string          `json:"id"`
	City          string          `json:"city"`
	MinWeight     decimal.Decimal `json:"min_weight"`
	MaxWeight     decimal.Decimal `json:"max_weight"`
	Cost          decimal.Decimal `json:"cost"`
	EstimatedDays int             `json:"estimated_days"`
	IsActive      bool            `json:"is_active"`
}

// ShippingQuoteResponse cotización de envío.
type ShippingQuoteResponse struct {
	City   string          `json:"city"`
	Weight decimal.Decimal `json:"weight"`
	Cost   decimal.Decimal `json:"cost"`
}

// WompiConfigRequest actualización de credenciales. Campos vacíos conservan el valor actual.
type WompiConfigRequest struct {
	PublicKey       string `json:"public_key" validate:"omitempty,max=200"`
	PrivateKey      string `json:"private_key" validate:"omitempty,max=200"`
	IntegritySecret string `json:"integrity_secret" validate:"omitempty,max=200"`
	EventsSecret    string `json:"events_secret" validate:"omitempty,max=200"`
	IsTestMode      *bool  `json:"is_test_mode"`
	IsActive        *bool  `json:"is_active"`
}

// WompiConfigResponse credenciales con secretos enmascarados.
type WompiConfigResponse struct {
	PublicKey          string    `json:"public_key"`
	HasPrivateKey      bool      `json:"has_private_key"`
	HasIntegritySecret bool      `json:"has_integrity_secret"`
	HasEventsSecret    bool      `json:"has_events_secret"`
	IsTestMode         bool      `json:"is_test_mode"`
	IsActive           bool      `json:"is_active"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// WompiWidgetResponse datos para abrir el widget de pago.
type WompiWidgetResponse struct {
	PublicKey          string `json:"public_key"`
	Currency           string `json:"currency"`
	AmountInCents      int64  `json:"amount_in_cents"`
	Reference          string `json:"reference"`
	IntegritySignature string `json:"integrity_signature"`
	RedirectURL        string `json:"redirect_url,omitempty"`
	CheckoutURL        string `json:"checkout_url"`
}

// WompiTransaction transacción reportada en el webhook.
type WompiTransaction struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"`
	AmountInCents json.Number `json:"amount_in_cents"`
	Reference     string      `json:"reference"`
}

// WompiEvent cuerpo del webhook de Wompi.
type WompiEvent struct {
	Event string `json:"event"`
	Data  struct {
		Transaction WompiTransaction `json:"transaction"`
	} `json:"data"`
}
