package repository

import (
	"context"
	"time"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
)

// ReportRepository consultas de lectura para tablero y exportaciones.
type ReportRepository interface {
	OrderSales(ctx context.Context, from, to time.Time) (entity.SalesSummary, error)
	POSSales(ctx context.Context, from, to time.Time) (entity.SalesSummary, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]entity.TopProduct, error)
	TopCustomers(ctx context.Context, limit int) ([]entity.TopCustomer, error)
	LowStockCount(ctx context.Context) (int, error)
	CountOrders(ctx context.Context, status string) (int, error)
	SalesRows(ctx context.Context, f OrderFilter) ([]entity.SalesReportRow, error)
	InventoryRows(ctx context.Context) ([]entity.InventoryReportRow, error)
	ProductRows(ctx context.Context) ([]entity.ProductReportRow, error)
	CustomerRows(ctx context.Context) ([]entity.CustomerReportRow, error)
}
