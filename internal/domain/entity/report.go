package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaidOrderStatuses estados que cuentan como venta efectiva.
var PaidOrderStatuses = []string{OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered}

// SalesSummary cantidad y monto de ventas en un periodo.
type SalesSummary struct {
	Count  int
	Amount decimal.Decimal
}

// TopProduct producto más vendido en un periodo.
type TopProduct struct {
	ProductID string
	Name      string
	Quantity  int
	Amount    decimal.Decimal
}

// TopCustomer cliente con mayor gasto entregado.
type TopCustomer struct {
	CustomerID string
	Name       string
	Orders     int
	Spent      decimal.Decimal
}

// Dashboard indicadores del tablero principal.
type Dashboard struct {
	TodayOrders   SalesSummary
	MonthOrders   SalesSummary
	TodayPOS      SalesSummary
	MonthPOS      SalesSummary
	TopProducts   []TopProduct
	TopCustomers  []TopCustomer
	LowStockCount int
	PendingOrders int
	GeneratedAt   time.Time
}

// SalesReportRow fila del reporte de ventas y del financiero.
type SalesReportRow struct {
	OrderNumber   string
	CreatedAt     time.Time
	CustomerName  string
	Status        string
	PaymentMethod string
	Subtotal      decimal.Decimal
	IVAAmount     decimal.Decimal
	ShippingCost  decimal.Decimal
	Total         decimal.Decimal
}

// InventoryReportRow fila del reporte de inventario (valor = cantidad * costo).
type InventoryReportRow struct {
	SKU           string
	ProductName   string
	WarehouseName string
	Quantity      int
	MinStock      int
	CostPrice     decimal.Decimal
	Value         decimal.Decimal
}

// ProductReportRow fila del reporte de productos activos.
type ProductReportRow struct {
	SKU        string
	Name       string
	Price      decimal.Decimal
	CostPrice  decimal.Decimal
	TotalStock int
	Value      decimal.Decimal
}

// CustomerReportRow fila del reporte de clientes.
type CustomerReportRow struct {
	DocumentNumber string
	Name           string
	Email          string
	Phone          string
	CustomerType   string
	Orders         int
	Spent          decimal.Decimal
}
