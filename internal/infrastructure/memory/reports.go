package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

type reportRepo struct{ s *Store }

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (r reportRepo) OrderSales(_ context.Context, from, to time.Time) (entity.SalesSummary, error) {
	sum := entity.SalesSummary{Amount: decimal.Zero}
	err := r.s.with(func(d *data) error {
		for _, o := range d.orders {
			if slices.Contains(entity.PaidOrderStatuses, o.Status) && inRange(o.CreatedAt, from, to) {
				sum.Count++
				sum.Amount = sum.Amount.Add(o.Total)
			}
		}
		return nil
	})
	return sum, err
}

func (r reportRepo) POSSales(_ context.Context, from, to time.Time) (entity.SalesSummary, error) {
	sum := entity.SalesSummary{Amount: decimal.Zero}
	err := r.s.with(func(d *data) error {
		for _, sale := range d.sales {
			if inRange(sale.CreatedAt, from, to) {
				sum.Count++
				sum.Amount = sum.Amount.Add(sale.Total)
			}
		}
		return nil
	})
	return sum, err
}

// TopProducts suma unidades de órdenes pagadas y ventas POS del periodo.
func (r reportRepo) TopProducts(_ context.Context, from, to time.Time, limit int) ([]entity.TopProduct, error) {
	acc := map[string]*entity.TopProduct{}
	add := func(d *data, productID string, qty int, amount decimal.Decimal) {
		tp, ok := acc[productID]
		if !ok {
			tp = &entity.TopProduct{ProductID: productID, Name: d.products[productID].Name, Amount: decimal.Zero}
			acc[productID] = tp
		}
		tp.Quantity += qty
		tp.Amount = tp.Amount.Add(amount)
	}
	err := r.s.with(func(d *data) error {
		for _, o := range d.orders {
			if !slices.Contains(entity.PaidOrderStatuses, o.Status) || !inRange(o.CreatedAt, from, to) {
				continue
			}
			for _, it := range o.Items {
				add(d, it.ProductID, it.Quantity, it.Total)
			}
		}
		for _, sale := range d.sales {
			if !inRange(sale.CreatedAt, from, to) {
				continue
			}
			for _, it := range sale.Items {
				add(d, it.ProductID, it.Quantity, it.Total)
			}
		}
		return nil
	})
	out := make([]entity.TopProduct, 0, len(acc))
	for _, tp := range acc {
		out = append(out, *tp)
	}
	slices.SortFunc(out, func(a, b entity.TopProduct) int {
		return cmp.Or(cmp.Compare(b.Quantity, a.Quantity), cmp.Compare(a.Name, b.Name))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

// deliveredSpend órdenes entregadas y gasto por cliente.
func deliveredSpend(d *data) map[string]*entity.TopCustomer {
	acc := map[string]*entity.TopCustomer{}
	for _, o := range d.orders {
		if o.Status != entity.OrderStatusDelivered {
			continue
		}
		tc, ok := acc[o.CustomerID]
		if !ok {
			c := d.customers[o.CustomerID]
			tc = &entity.TopCustomer{CustomerID: o.CustomerID, Name: c.FullName(), Spent: decimal.Zero}
			acc[o.CustomerID] = tc
		}
		tc.Orders++
		tc.Spent = tc.Spent.Add(o.Total)
	}
	return acc
}

func (r reportRepo) TopCustomers(_ context.Context, limit int) ([]entity.TopCustomer, error) {
	var out []entity.TopCustomer
	err := r.s.with(func(d *data) error {
		for _, tc := range deliveredSpend(d) {
			out = append(out, *tc)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b entity.TopCustomer) int {
		return cmp.Or(b.Spent.Cmp(a.Spent), cmp.Compare(a.Name, b.Name))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r reportRepo) LowStockCount(_ context.Context) (int, error) {
	n := 0
	err := r.s.with(func(d *data) error {
		for _, st := range d.stock {
			if st.IsLowStock() {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r reportRepo) CountOrders(_ context.Context, status string) (int, error) {
	n := 0
	err := r.s.with(func(d *data) error {
		for _, o := range d.orders {
			if status == "" || o.Status == status {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r reportRepo) SalesRows(_ context.Context, f repository.OrderFilter) ([]entity.SalesReportRow, error) {
	var orders []entity.Order
	var out []entity.SalesReportRow
	err := r.s.with(func(d *data) error {
		for _, o := range d.orders {
			if matchOrder(o, f) {
				orders = append(orders, o)
			}
		}
		slices.SortFunc(orders, func(a, b entity.Order) int { return a.CreatedAt.Compare(b.CreatedAt) })
		for _, o := range orders {
			c := d.customers[o.CustomerID]
			out = append(out, entity.SalesReportRow{
				OrderNumber:   o.OrderNumber,
				CreatedAt:     o.CreatedAt,
				CustomerName:  c.FullName(),
				Status:        o.Status,
				PaymentMethod: o.PaymentMethod,
				Subtotal:      o.Subtotal,
				IVAAmount:     o.IVAAmount,
				ShippingCost:  o.ShippingCost,
				Total:         o.Total,
			})
		}
		return nil
	})
	return out, err
}

func (r reportRepo) InventoryRows(_ context.Context) ([]entity.InventoryReportRow, error) {
	var out []entity.InventoryReportRow
	err := r.s.with(func(d *data) error {
		for _, st := range d.stock {
			p := d.products[st.ProductID]
			out = append(out, entity.InventoryReportRow{
				SKU:           p.SKU,
				ProductName:   p.Name,
				WarehouseName: d.warehouses[st.WarehouseID].Name,
				Quantity:      st.Quantity,
				MinStock:      st.MinStock,
				CostPrice:     p.CostPrice,
				Value:         p.CostPrice.Mul(decimal.NewFromInt(int64(st.Quantity))),
			})
		}
		return nil
	})
	slices.SortFunc(out, func(a, b entity.InventoryReportRow) int {
		return cmp.Or(cmp.Compare(a.SKU, b.SKU), cmp.Compare(a.WarehouseName, b.WarehouseName))
	})
	return out, err
}

func (r reportRepo) ProductRows(_ context.Context) ([]entity.ProductReportRow, error) {
	var out []entity.ProductReportRow
	err := r.s.with(func(d *data) error {
		totals := map[string]int{}
		for _, st := range d.stock {
			totals[st.ProductID] += st.Quantity
		}
		for _, p := range d.products {
			if !p.IsActive {
				continue
			}
			qty := totals[p.ID]
			out = append(out, entity.ProductReportRow{
				SKU:        p.SKU,
				Name:       p.Name,
				Price:      p.Price,
				CostPrice:  p.CostPrice,
				TotalStock: qty,
				Value:      p.CostPrice.Mul(decimal.NewFromInt(int64(qty))),
			})
		}
		return nil
	})
	slices.SortFunc(out, func(a, b entity.ProductReportRow) int { return cmp.Compare(a.Name, b.Name) })
	return out, err
}

// CustomerRows cuenta todas las órdenes del cliente; el gasto solo considera las entregadas.
func (r reportRepo) CustomerRows(_ context.Context) ([]entity.CustomerReportRow, error) {
	var out []entity.CustomerReportRow
	err := r.s.with(func(d *data) error {
		counts := map[string]int{}
		for _, o := range d.orders {
			counts[o.CustomerID]++
		}
		spent := deliveredSpend(d)
		for _, c := range d.customers {
			row := entity.CustomerReportRow{
				DocumentNumber: c.DocumentNumber,
				Name:           c.FullName(),
				Email:          c.Email,
				Phone:          c.Phone,
				CustomerType:   c.CustomerType,
				Orders:         counts[c.ID],
				Spent:          decimal.Zero,
			}
			if tc, ok := spent[c.ID]; ok {
				row.Spent = tc.Spent
			}
			out = append(out, row)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b entity.CustomerReportRow) int { return cmp.Compare(a.Name, b.Name) })
	return out, err
}
