package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de sesión POS.
const (
	POSSessionOpen   = "open"
	POSSessionClosed = "closed"
)

// Métodos de pago en tienda.
const (
	POSPaymentCash     = "cash"
	POSPaymentCard     = "card"
	POSPaymentTransfer = "transfer"
	POSPaymentMixed    = "mixed"
)

// POSSession turno de caja de un usuario en una bodega/tienda.
type POSSession struct {
	ID                string
	SessionID         string // POS20250930143000AB12CD
	UserID            string
	WarehouseID       string
	Status            string
	OpeningCash       decimal.Decimal
	ClosingCash       decimal.Decimal
	TotalSales        decimal.Decimal
	TotalTransactions int
	OpenedAt          time.Time
	ClosedAt          *time.Time
	Notes             string
}

// NewPOSSessionID genera el identificador legible de la sesión.
func NewPOSSessionID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("POS%s%s", now.Format("20060102150405"), suffix)
}

// ExpectedCash efectivo esperado al cierre.
func (s *POSSession) ExpectedCash() decimal.Decimal {
	return s.OpeningCash.Add(s.TotalSales)
}

// CashDifference sobrante (+) o faltante (-) de caja.
func (s *POSSession) CashDifference() decimal.Decimal {
	return s.ClosingCash.Sub(s.ExpectedCash())
}

// Duration tiempo abierta (hasta now si sigue abierta).
func (s *POSSession) Duration(now time.Time) time.Duration {
	if s.ClosedAt != nil {
		return s.ClosedAt.Sub(s.OpenedAt)
	}
	return now.Sub(s.OpenedAt)
}

// Close congela totales y marca la sesión como cerrada.
func (s *POSSession) Close(closingCash, totalSales decimal.Decimal, transactions int, notes string, now time.Time) {
	s.TotalSales = totalSales
	s.TotalTransactions = transactions
	s.ClosingCash = closingCash
	s.Status = POSSessionClosed
	s.ClosedAt = &now
	if notes != "" {
		s.Notes = notes
	}
}

// POSSale venta en tienda física.
type POSSale struct {
	ID             string
	SaleNumber     string
	SessionID      string // ID interno de POSSession
	CustomerID     string
	OrderType      string
	PaymentMethod  string
	Subtotal       decimal.Decimal
	IVAAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	AmountReceived decimal.Decimal
	ChangeAmount   decimal.Decimal
	Notes          string
	BarcodeScanned string
	Items          []POSSaleItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasIVA solo las ventas principales llevan IVA.
func (s *POSSale) HasIVA() bool { return s.OrderType == OrderTypePrincipal }

// POSSaleItem línea de venta POS.
type POSSaleItem struct {
	ID                 string
	SaleID             string
	ProductID          string
	Quantity           int
	UnitPrice          decimal.Decimal
	IVAPercentage      decimal.Decimal
	DiscountPercentage decimal.Decimal
	Subtotal           decimal.Decimal
	IVAAmount          decimal.Decimal
	DiscountAmount     decimal.Decimal
	Total              decimal.Decimal
}

// Calculate: primero descuento, luego IVA sobre el valor con descuento (si aplica).
func (i *POSSaleItem) Calculate(applyIVA bool) {
	i.Subtotal = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
	i.DiscountAmount = i.Subtotal.Mul(i.DiscountPercentage).Div(hundred).Round(2)
	net := i.Subtotal.Sub(i.DiscountAmount)
	if applyIVA {
		i.IVAAmount = net.Mul(i.IVAPercentage).Div(hundred).Round(2)
	} else {
		i.IVAAmount = decimal.Zero
	}
	i.Total = net.Add(i.IVAAmount)
}

// RecalculateTotals recalcula líneas y totales de la venta.
func (s *POSSale) RecalculateTotals() {
	subtotal, iva, discount, total := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for idx := range s.Items {
		it := &s.Items[idx]
		it.Calculate(s.HasIVA())
		subtotal = subtotal.Add(it.Subtotal)
		iva = iva.Add(it.IVAAmount)
		discount = discount.Add(it.DiscountAmount)
		total = total.Add(it.Total)
	}
	s.Subtotal = subtotal
	s.IVAAmount = iva
	s.DiscountAmount = discount
	s.Total = total
}
