package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummaryResponse cantidad y monto.
type SalesSummaryResponse struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// TopProductResponse producto más vendido.
type TopProductResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

// TopCustomerResponse mejor cliente.
type TopCustomerResponse struct {
	CustomerID string          `json:"customer_id"`
	Name       string          `json:"name"`
	Orders     int             `json:"orders"`
	Spent      decimal.Decimal `json:"spent"`
}

// DashboardResponse tablero principal.
type DashboardResponse struct {
	TodaySales    SalesSummaryResponse  `json:"today_sales"`
	MonthSales    SalesSummaryResponse  `json:"month_sales"`
	TodayOrders   SalesSummaryResponse  `json:"today_orders"`
	TodayPOS      SalesSummaryResponse  `json:"today_pos"`
	TopProducts   []TopProductResponse  `json:"top_products"`
	TopCustomers  []TopCustomerResponse `json:"top_customers"`
	LowStockCount int                   `json:"low_stock_count"`
	PendingOrders int                   `json:"pending_orders"`
	GeneratedAt   time.Time             `json:"generated_at"`
}

// ExportRequest parámetros de exportación.
type ExportRequest struct {
	Report string     `query:"-"`
	Format string     `query:"format" validate:"omitempty,oneof=xlsx csv"`
	Status string     `query:"status"`
	From   *time.Time `query:"-"`
	To     *time.Time `query:"-"`
}

// ExportFile archivo generado.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
