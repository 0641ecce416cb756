// Package reports contiene el tablero principal y las exportaciones de reportes.
package reports

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/pkg/logger"
)

const dashboardTop = 5 // productos y clientes en los widgets del tablero

// UseCase tablero y exportaciones. Solo lectura, salvo el registro de auditoría.
type UseCase struct {
	uow      ports.UnitOfWork
	exporter ports.SpreadsheetExporter
	recorder *audit.Recorder
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(uow ports.UnitOfWork, exporter ports.SpreadsheetExporter, recorder *audit.Recorder, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{uow: uow, exporter: exporter, recorder: recorder, log: log.Named("reports"), now: time.Now}
}

// Dashboard ventas pagadas (órdenes pagadas/enviadas/entregadas más POS) de hoy y del mes,
// top 5 de productos del mes, top 5 de clientes, stock bajo y órdenes pendientes.
func (uc *UseCase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	now := uc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	repo := uc.uow.Reports()
	var d entity.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.TodayOrders, err = repo.OrderSales(gctx, todayStart, todayEnd)
		return wrap("ventas web de hoy", err)
	})
	g.Go(func() (err error) {
		d.MonthOrders, err = repo.OrderSales(gctx, monthStart, todayEnd)
		return wrap("ventas web del mes", err)
	})
	g.Go(func() (err error) {
		d.TodayPOS, err = repo.POSSales(gctx, todayStart, todayEnd)
		return wrap("ventas POS de hoy", err)
	})
	g.Go(func() (err error) {
		d.MonthPOS, err = repo.POSSales(gctx, monthStart, todayEnd)
		return wrap("ventas POS del mes", err)
	})
	g.Go(func() (err error) {
		d.TopProducts, err = repo.TopProducts(gctx, monthStart, todayEnd, dashboardTop)
		return wrap("top productos", err)
	})
	g.Go(func() (err error) {
		d.TopCustomers, err = repo.TopCustomers(gctx, dashboardTop)
		return wrap("top clientes", err)
	})
	g.Go(func() (err error) {
		d.LowStockCount, err = repo.LowStockCount(gctx)
		return wrap("stock bajo", err)
	})
	g.Go(func() (err error) {
		d.PendingOrders, err = repo.CountOrders(gctx, entity.OrderStatusPending)
		return wrap("órdenes pendientes", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	d.GeneratedAt = now
	return toDashboardResponse(d), nil
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("dashboard: %s: %w", what, err)
}

func toDashboardResponse(d entity.Dashboard) *dto.DashboardResponse {
	out := &dto.DashboardResponse{
		TodaySales: dto.SalesSummaryResponse{
			Count:  d.TodayOrders.Count + d.TodayPOS.Count,
			Amount: d.TodayOrders.Amount.Add(d.TodayPOS.Amount).Round(2),
		},
		MonthSales: dto.SalesSummaryResponse{
			Count:  d.MonthOrders.Count + d.MonthPOS.Count,
			Amount: d.MonthOrders.Amount.Add(d.MonthPOS.Amount).Round(2),
		},
		TodayOrders:   dto.SalesSummaryResponse{Count: d.TodayOrders.Count, Amount: d.TodayOrders.Amount.Round(2)},
		TodayPOS:      dto.SalesSummaryResponse{Count: d.TodayPOS.Count, Amount: d.TodayPOS.Amount.Round(2)},
		TopProducts:   make([]dto.TopProductResponse, 0, len(d.TopProducts)),
		TopCustomers:  make([]dto.TopCustomerResponse, 0, len(d.TopCustomers)),
		LowStockCount: d.LowStockCount,
		PendingOrders: d.PendingOrders,
		GeneratedAt:   d.GeneratedAt,
	}
	for _, p := range d.TopProducts {
		out.TopProducts = append(out.TopProducts, dto.TopProductResponse{ProductID: p.ProductID, Name: p.Name, Quantity: p.Quantity, Amount: p.Amount})
	}
	for _, c := range d.TopCustomers {
		out.TopCustomers = append(out.TopCustomers, dto.TopCustomerResponse{CustomerID: c.CustomerID, Name: c.Name, Orders: c.Orders, Spent: c.Spent})
	}
	return out
}
