package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenSessionRequest entrada para abrir caja.
type OpenSessionRequest struct {
	WarehouseID string          `json:"warehouse_id" validate:"required,uuid"`
	OpeningCash decimal.Decimal `json:"opening_cash"`
	Notes       string          `json:"notes"`
}

// CloseSessionRequest entrada para cerrar caja.
type CloseSessionRequest struct {
	ClosingCash decimal.Decimal `json:"closing_cash"`
	Notes       string          `json:"notes"`
}

// SessionResponse salida de una sesión POS.
type SessionResponse struct {
	ID                string          `json:"id"`
	SessionID         string          `json:"session_id"`
	UserID            string          `json:"user_id"`
	WarehouseID       string          `json:"warehouse_id"`
	Status            string          `json:"status"`
	OpeningCash       decimal.Decimal `json:"opening_cash"`
	ClosingCash       decimal.Decimal `json:"closing_cash"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalTransactions int             `json:"total_transactions"`
	ExpectedCash      decimal.Decimal `json:"expected_cash"`
	CashDifference    decimal.Decimal `json:"cash_difference"`
	OpenedAt          time.Time       `json:"opened_at"`
	ClosedAt          *time.Time      `json:"closed_at,omitempty"`
	Notes             string          `json:"notes,omitempty"`
}

// SaleItemRequest línea de venta POS. Sin precio se toma el del producto.
type SaleItemRequest struct {
	ProductID          string           `json:"product_id" validate:"required,uuid"`
	Quantity           int              `json:"quantity" validate:"required,min=1"`
	UnitPrice          *decimal.Decimal `json:"unit_price"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
}

// CreateSaleRequest entrada para registrar una venta POS.
type CreateSaleRequest struct {
	CustomerID     string            `json:"customer_id" validate:"omitempty,uuid"`
	OrderType      string            `json:"order_type" validate:"required,oneof=principal auxiliar"`
	PaymentMethod  string            `json:"payment_method" validate:"required,oneof=cash card transfer mixed"`
	AmountReceived decimal.Decimal   `json:"amount_received"`
	Notes          string            `json:"notes"`
	BarcodeScanned string            `json:"barcode_scanned" validate:"omitempty,max=100"`
	Items          []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleItemResponse línea de venta.
type SaleItemResponse struct {
	ID                 string          `json:"id"`
	ProductID          string          `json:"product_id"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	IVAPercentage      decimal.Decimal `json:"iva_percentage"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	IVAAmount          decimal.Decimal `json:"iva_amount"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	Total              decimal.Decimal `json:"total"`
}

// SaleResponse salida de una venta POS.
type SaleResponse struct {
	ID             string             `json:"id"`
	SaleNumber     string             `json:"sale_number"`
	SessionID      string             `json:"session_id"`
	CustomerID     string             `json:"customer_id,omitempty"`
	OrderType      string             `json:"order_type"`
	PaymentMethod  string             `json:"payment_method"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	IVAAmount      decimal.Decimal    `json:"iva_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Total          decimal.Decimal    `json:"total"`
	AmountReceived decimal.Decimal    `json:"amount_received"`
	ChangeAmount   decimal.Decimal    `json:"change_amount"`
	Notes          string             `json:"notes,omitempty"`
	Items          []SaleItemResponse `json:"items"`
	CreatedAt      time.Time          `json:"created_at"`
}

// SaleFilterRequest filtros de ventas POS.
type SaleFilterRequest struct {
	SessionID string     `query:"session_id"`
	From      *time.Time `query:"-"`
	To        *time.Time `query:"-"`
	PageRequest
}
