package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierRequest entrada para crear o actualizar un proveedor.
type SupplierRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	ContactPerson string `json:"contact_person" validate:"omitempty,max=100"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"omitempty,max=20"`
	Address       string `json:"address"`
	City          string `json:"city" validate:"omitempty,max=100"`
	TaxID         string `json:"tax_id" validate:"omitempty,max=20"`
	PaymentTerms  string `json:"payment_terms" validate:"omitempty,max=100"`
	Notes         string `json:"notes"`
	IsActive      *bool  `json:"is_active"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	City          string    `json:"city,omitempty"`
	TaxID         string    `json:"tax_id,omitempty"`
	PaymentTerms  string    `json:"payment_terms,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PurchaseItemRequest línea de compra.
type PurchaseItemRequest struct {
	ProductID          string           `json:"product_id" validate:"required,uuid"`
	Quantity           int              `json:"quantity" validate:"required,min=1"`
	UnitCost           decimal.Decimal  `json:"unit_cost"`
	TaxPercentage      *decimal.Decimal `json:"tax_percentage"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
}

// CreatePurchaseRequest entrada para crear una compra en borrador.
type CreatePurchaseRequest struct {
	SupplierID       string                `json:"supplier_id" validate:"required,uuid"`
	WarehouseID      string                `json:"warehouse_id" validate:"required,uuid"`
	OrderDate        *time.Time            `json:"order_date"`
	ExpectedDelivery *time.Time            `json:"expected_delivery"`
	ShippingCost     decimal.Decimal       `json:"shipping_cost"`
	Notes            string                `json:"notes"`
	Items            []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateShippingRequest cambia el costo de envío de la compra.
type UpdateShippingRequest struct {
	ShippingCost decimal.Decimal `json:"shipping_cost"`
}

// PaymentStatusRequest cambia el estado de pago.
type PaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending partial paid"`
}

// ReceivePurchaseRequest entrada para recibir una compra.
type ReceivePurchaseRequest struct {
	Notes string `json:"notes"`
}

// PurchaseFilterRequest filtros de compras.
type PurchaseFilterRequest struct {
	Status     string `query:"status"`
	SupplierID string `query:"supplier_id"`
	PageRequest
}

// PurchaseItemResponse línea de compra.
type PurchaseItemResponse struct {
	ID                 string          `json:"id"`
	ProductID          string          `json:"product_id"`
	Quantity           int             `json:"quantity"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	TaxPercentage      decimal.Decimal `json:"tax_percentage"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	Total              decimal.Decimal `json:"total"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID               string                 `json:"id"`
	PurchaseNumber   string                 `json:"purchase_number"`
	SupplierID       string                 `json:"supplier_id"`
	WarehouseID      string                 `json:"warehouse_id"`
	OrderDate        time.Time              `json:"order_date"`
	ExpectedDelivery *time.Time             `json:"expected_delivery,omitempty"`
	ReceivedDate     *time.Time             `json:"received_date,omitempty"`
	Status           string                 `json:"status"`
	PaymentStatus    string                 `json:"payment_status"`
	Subtotal         decimal.Decimal        `json:"subtotal"`
	TaxAmount        decimal.Decimal        `json:"tax_amount"`
	DiscountAmount   decimal.Decimal        `json:"discount_amount"`
	ShippingCost     decimal.Decimal        `json:"shipping_cost"`
	Total            decimal.Decimal        `json:"total"`
	Notes            string                 `json:"notes,omitempty"`
	CreatedBy        string                 `json:"created_by,omitempty"`
	Items            []PurchaseItemResponse `json:"items"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReceiptResponse constancia de recepción.
type ReceiptResponse struct {
	ID            string    `json:"id"`
	PurchaseID    string    `json:"purchase_id"`
	ReceiptNumber string    `json:"receipt_number"`
	ReceivedBy    string    `json:"received_by"`
	ReceivedAt    time.Time `json:"received_at"`
	Notes         string    `json:"notes,omitempty"`
}
