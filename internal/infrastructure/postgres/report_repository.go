package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para el tablero y las exportaciones.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// customerName replica Customer.FullName: nombre completo o, si está vacío, el documento.
const customerName = `COALESCE(NULLIF(trim(c.first_name || ' ' || c.last_name), ''), c.document_number)`

// OrderSales órdenes pagadas, enviadas o entregadas creadas en [from, to).
func (r *ReportRepo) OrderSales(ctx context.Context, from, to time.Time) (entity.SalesSummary, error) {
	var s entity.SalesSummary
	err := r.q.QueryRow(ctx, `
		SELECT count(*), COALESCE(sum(total), 0)
		FROM orders
		WHERE status = ANY($1) AND created_at >= $2 AND created_at < $3`,
		entity.PaidOrderStatuses, from, to).Scan(&s.Count, &s.Amount)
	return s, wrap("report.OrderSales", err)
}

func (r *ReportRepo) POSSales(ctx context.Context, from, to time.Time) (entity.SalesSummary, error) {
	var s entity.SalesSummary
	err := r.q.QueryRow(ctx, `
		SELECT count(*), COALESCE(sum(total), 0)
		FROM pos_sales
		WHERE created_at >= $1 AND created_at < $2`, from, to).Scan(&s.Count, &s.Amount)
	return s, wrap("report.POSSales", err)
}

// TopProducts unidades vendidas en órdenes pagadas y en POS durante el periodo.
func (r *ReportRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]entity.TopProduct, error) {
	const query = `
	WITH lines AS (
	    SELECT oi.product_id, oi.quantity, oi.total
	    FROM order_items oi
	    JOIN orders o ON o.id = oi.order_id
	    WHERE o.status = ANY($1) AND o.created_at >= $2 AND o.created_at < $3
	    UNION ALL
	    SELECT si.product_id, si.quantity, si.total
	    FROM pos_sale_items si
	    JOIN pos_sales s ON s.id = si.sale_id
	    WHERE s.created_at >= $2 AND s.created_at < $3
	)
	SELECT l.product_id::text, COALESCE(p.name, ''), SUM(l.quantity)::int, SUM(l.total)
	FROM lines l
	LEFT JOIN products p ON p.id = l.product_id
	GROUP BY l.product_id, p.name
	ORDER BY SUM(l.quantity) DESC, p.name
	LIMIT $4`
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.q.Query(ctx, query, entity.PaidOrderStatuses, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("report.TopProducts: %w", err)
	}
	defer rows.Close()
	var out []entity.TopProduct
	for rows.Next() {
		var tp entity.TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.Name, &tp.Quantity, &tp.Amount); err != nil {
			return nil, fmt.Errorf("report.TopProducts scan: %w", err)
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

// TopCustomers clientes por gasto en órdenes entregadas.
func (r *ReportRepo) TopCustomers(ctx context.Context, limit int) ([]entity.TopCustomer, error) {
	query := `
	SELECT c.id::text, ` + customerName + `, count(o.id)::int, SUM(o.total)
	FROM orders o
	JOIN customers c ON c.id = o.customer_id
	WHERE o.status = $1
	GROUP BY c.id
	ORDER BY SUM(o.total) DESC, 2
	LIMIT $2`
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.q.Query(ctx, query, entity.OrderStatusDelivered, limit)
	if err != nil {
		return nil, fmt.Errorf("report.TopCustomers: %w", err)
	}
	defer rows.Close()
	var out []entity.TopCustomer
	for rows.Next() {
		var tc entity.TopCustomer
		if err := rows.Scan(&tc.CustomerID, &tc.Name, &tc.Orders, &tc.Spent); err != nil {
			return nil, fmt.Errorf("report.TopCustomers scan: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

func (r *ReportRepo) LowStockCount(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock WHERE quantity <= min_stock`).Scan(&n)
	return n, wrap("report.LowStockCount", err)
}

// CountOrders con status vacío cuenta todas.
func (r *ReportRepo) CountOrders(ctx context.Context, status string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM orders WHERE ($1 = '' OR status = $1)`, status).Scan(&n)
	return n, wrap("report.CountOrders", err)
}

// SalesRows órdenes filtradas en orden cronológico.
func (r *ReportRepo) SalesRows(ctx context.Context, f repository.OrderFilter) ([]entity.SalesReportRow, error) {
	w := orderWhere(f)
	for i, cond := range w.conds {
		w.conds[i] = "o." + cond
	}
	rows, err := r.q.Query(ctx, `
		SELECT o.order_number, o.created_at, `+customerName+`, o.status, o.payment_method,
			o.subtotal, o.iva_amount, o.shipping_cost, o.total
		FROM orders o
		JOIN customers c ON c.id = o.customer_id`+w.sql()+`
		ORDER BY o.created_at, o.order_number`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("report.SalesRows: %w", err)
	}
	defer rows.Close()
	var out []entity.SalesReportRow
	for rows.Next() {
		var s entity.SalesReportRow
		if err := rows.Scan(&s.OrderNumber, &s.CreatedAt, &s.CustomerName, &s.Status, &s.PaymentMethod,
			&s.Subtotal, &s.IVAAmount, &s.ShippingCost, &s.Total); err != nil {
			return nil, fmt.Errorf("report.SalesRows scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// InventoryRows existencias valorizadas a costo promedio.
func (r *ReportRepo) InventoryRows(ctx context.Context) ([]entity.InventoryReportRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.sku, p.name, w.name, s.quantity, s.min_stock, p.cost_price, p.cost_price * s.quantity
		FROM stock s
		JOIN products p ON p.id = s.product_id
		JOIN warehouses w ON w.id = s.warehouse_id
		ORDER BY p.sku, w.name`)
	if err != nil {
		return nil, fmt.Errorf("report.InventoryRows: %w", err)
	}
	defer rows.Close()
	var out []entity.InventoryReportRow
	for rows.Next() {
		var row entity.InventoryReportRow
		if err := rows.Scan(&row.SKU, &row.ProductName, &row.WarehouseName, &row.Quantity, &row.MinStock,
			&row.CostPrice, &row.Value); err != nil {
			return nil, fmt.Errorf("report.InventoryRows scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ProductRows productos activos con existencias totales.
func (r *ReportRepo) ProductRows(ctx context.Context) ([]entity.ProductReportRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.sku, p.name, p.price, p.cost_price, COALESCE(sum(s.quantity), 0)::int,
			p.cost_price * COALESCE(sum(s.quantity), 0)
		FROM products p
		LEFT JOIN stock s ON s.product_id = p.id
		WHERE p.is_active
		GROUP BY p.id
		ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("report.ProductRows: %w", err)
	}
	defer rows.Close()
	var out []entity.ProductReportRow
	for rows.Next() {
		var row entity.ProductReportRow
		if err := rows.Scan(&row.SKU, &row.Name, &row.Price, &row.CostPrice, &row.TotalStock, &row.Value); err != nil {
			return nil, fmt.Errorf("report.ProductRows scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CustomerRows cuenta todas las órdenes del cliente; el gasto solo suma las entregadas.
func (r *ReportRepo) CustomerRows(ctx context.Context) ([]entity.CustomerReportRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT c.document_number, `+customerName+`, c.email, c.phone, c.customer_type,
			count(o.id)::int, COALESCE(sum(o.total) FILTER (WHERE o.status = $1), 0)
		FROM customers c
		LEFT JOIN orders o ON o.customer_id = c.id
		GROUP BY c.id
		ORDER BY 2`, entity.OrderStatusDelivered)
	if err != nil {
		return nil, fmt.Errorf("report.CustomerRows: %w", err)
	}
	defer rows.Close()
	var out []entity.CustomerReportRow
	for rows.Next() {
		var row entity.CustomerReportRow
		if err := rows.Scan(&row.DocumentNumber, &row.Name, &row.Email, &row.Phone, &row.CustomerType,
			&row.Orders, &row.Spent); err != nil {
			return nil, fmt.Errorf("report.CustomerRows scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
