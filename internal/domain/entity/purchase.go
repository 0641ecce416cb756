package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de compra.
const (
	PurchaseStatusDraft     = "draft"
	PurchaseStatusPending   = "pending"
	PurchaseStatusReceived  = "received"
	PurchaseStatusCancelled = "cancelled"
)

// Estados de pago de compra.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Supplier proveedor de mercancía.
type Supplier struct {
	ID            string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	City          string
	TaxID         string // NIT con dígito de verificación
	PaymentTerms  string
	Notes         string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Purchase orden de compra a proveedor. Al recibirse ingresa inventario en WarehouseID.
type Purchase struct {
	ID               string
	SupplierID       string
	PurchaseNumber   string
	WarehouseID      string
	OrderDate        time.Time
	ExpectedDelivery *time.Time
	ReceivedDate     *time.Time
	Status           string
	PaymentStatus    string
	Subtotal         decimal.Decimal
	TaxAmount        decimal.Decimal
	DiscountAmount   decimal.Decimal
	ShippingCost     decimal.Decimal
	Total            decimal.Decimal
	Notes            string
	CreatedBy        string
	Items            []PurchaseItem
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PurchaseItem línea de compra; los montos se congelan con Calculate.
type PurchaseItem struct {
	ID                 string
	PurchaseID         string
	ProductID          string
	Quantity           int
	UnitCost           decimal.Decimal
	TaxPercentage      decimal.Decimal
	DiscountPercentage decimal.Decimal
	Subtotal           decimal.Decimal
	TaxAmount          decimal.Decimal
	DiscountAmount     decimal.Decimal
	Total              decimal.Decimal
}

// Calculate: descuento sobre el subtotal, IVA sobre el neto.
func (i *PurchaseItem) Calculate() {
	i.Subtotal = i.UnitCost.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
	i.DiscountAmount = i.Subtotal.Mul(i.DiscountPercentage).Div(hundred).Round(2)
	i.TaxAmount = i.Subtotal.Sub(i.DiscountAmount).Mul(i.TaxPercentage).Div(hundred).Round(2)
	i.Total = i.Subtotal.Sub(i.DiscountAmount).Add(i.TaxAmount)
}

// RecalculateTotals suma las líneas: total = subtotal - descuento + IVA + envío.
func (p *Purchase) RecalculateTotals() {
	subtotal, tax, discount := decimal.Zero, decimal.Zero, decimal.Zero
	for idx := range p.Items {
		subtotal = subtotal.Add(p.Items[idx].Subtotal)
		tax = tax.Add(p.Items[idx].TaxAmount)
		discount = discount.Add(p.Items[idx].DiscountAmount)
	}
	p.Subtotal = subtotal
	p.TaxAmount = tax
	p.DiscountAmount = discount
	p.Total = subtotal.Sub(discount).Add(tax).Add(p.ShippingCost)
}

// IsEditable las líneas solo se modifican en borrador o pendiente.
func (p *Purchase) IsEditable() bool {
	return p.Status == PurchaseStatusDraft || p.Status == PurchaseStatusPending
}

// TotalQuantity unidades totales de la compra.
func (p *Purchase) TotalQuantity() int {
	n := 0
	for _, it := range p.Items {
		n += it.Quantity
	}
	return n
}

// PurchaseReceipt constancia de recepción (una por compra).
type PurchaseReceipt struct {
	ID            string
	PurchaseID    string
	ReceiptNumber string
	ReceivedBy    string
	ReceivedAt    time.Time
	Notes         string
}
