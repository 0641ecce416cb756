package entity

import (
	"fmt"
	"time"
)

// Tipos de orden (ventas web y POS). Solo la principal lleva IVA.
const (
	OrderTypePrincipal = "principal"
	OrderTypeAuxiliar  = "auxiliar"
)

// ValidOrderType indica si el tipo de orden es soportado.
func ValidOrderType(t string) bool {
	return t == OrderTypePrincipal || t == OrderTypeAuxiliar
}

// NumberPrefix prefijo del consecutivo según el tipo de orden: PR o AU.
func NumberPrefix(orderType string) string {
	if orderType == OrderTypePrincipal {
		return "PR"
	}
	return "AU"
}

// DailySequenceKey clave del contador diario (p. ej. "order:PR20250930").
func DailySequenceKey(scope, orderType string, day time.Time) string {
	return scope + ":" + NumberPrefix(orderType) + day.Format("20060102")
}

// FormatDailyNumber consecutivo de orden/venta: PR202509300001.
func FormatDailyNumber(orderType string, day time.Time, seq int64) string {
	return fmt.Sprintf("%s%s%04d", NumberPrefix(orderType), day.Format("20060102"), seq)
}

// MonthlySequenceKey clave del contador mensual de compras.
func MonthlySequenceKey(month time.Time) string {
	return "purchase:" + month.Format("200601")
}

// FormatPurchaseNumber consecutivo de compra: COMP-202509-0001.
func FormatPurchaseNumber(month time.Time, seq int64) string {
	return fmt.Sprintf("COMP-%s-%04d", month.Format("200601"), seq)
}
