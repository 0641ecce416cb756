package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

var (
	_ repository.POSSessionRepository = (*POSSessionRepo)(nil)
	_ repository.POSSaleRepository    = (*POSSaleRepo)(nil)
)

// POSSessionRepo sesiones de caja. El índice parcial ux_pos_sessions_open_user garantiza
// una sola sesión abierta por usuario.
type POSSessionRepo struct {
	q Querier
}

func NewPOSSessionRepository(q Querier) *POSSessionRepo {
	return &POSSessionRepo{q: q}
}

const sessionColumns = `id, session_id, user_id, warehouse_id, status, opening_cash, closing_cash, total_sales,
	total_transactions, opened_at, closed_at, notes`

func scanSession(row scanner) (*entity.POSSession, error) {
	var s entity.POSSession
	err := row.Scan(&s.ID, &s.SessionID, &s.UserID, &s.WarehouseID, &s.Status, &s.OpeningCash, &s.ClosingCash,
		&s.TotalSales, &s.TotalTransactions, &s.OpenedAt, &s.ClosedAt, &s.Notes)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *POSSessionRepo) Create(ctx context.Context, s *entity.POSSession) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO pos_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.SessionID, s.UserID, s.WarehouseID, s.Status, s.OpeningCash, s.ClosingCash, s.TotalSales,
		s.TotalTransactions, s.OpenedAt, s.ClosedAt, s.Notes)
	if err != nil && isUniqueViolation(err) && s.Status == entity.POSSessionOpen {
		return domain.ErrSessionAlreadyOpen
	}
	return wrap("insert pos session", err)
}

func (r *POSSessionRepo) Update(ctx context.Context, s *entity.POSSession) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE pos_sessions SET status = $2, closing_cash = $3, total_sales = $4, total_transactions = $5,
			closed_at = $6, notes = $7
		WHERE id = $1`,
		s.ID, s.Status, s.ClosingCash, s.TotalSales, s.TotalTransactions, s.ClosedAt, s.Notes)
	return mustAffect(tag, err, "update pos session")
}

func (r *POSSessionRepo) GetByID(ctx context.Context, id string) (*entity.POSSession, error) {
	s, err := scanSession(r.q.QueryRow(ctx, `SELECT `+sessionColumns+` FROM pos_sessions WHERE id = $1`, id))
	return s, wrap("get pos session", err)
}

func (r *POSSessionRepo) GetOpenByUser(ctx context.Context, userID string) (*entity.POSSession, error) {
	s, err := scanSession(r.q.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM pos_sessions WHERE user_id = $1 AND status = 'open'`, userID))
	return s, wrap("get open pos session", err)
}

func (r *POSSessionRepo) List(ctx context.Context, f repository.POSSessionFilter) ([]*entity.POSSession, error) {
	var w where
	if f.UserID != "" {
		w.add("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	p := f.Page.Normalize()
	rows, err := r.q.Query(ctx,
		`SELECT `+sessionColumns+` FROM pos_sessions`+w.sql()+` ORDER BY opened_at DESC`+w.page(p.Limit, p.Offset), w.args...)
	return collect(rows, err, "list pos sessions", scanSession)
}

// POSSaleRepo ventas de mostrador.
type POSSaleRepo struct {
	q Querier
}

func NewPOSSaleRepository(q Querier) *POSSaleRepo {
	return &POSSaleRepo{q: q}
}

const saleColumns = `id, sale_number, session_id, customer_id, order_type, payment_method, subtotal, iva_amount,
	discount_amount, total, amount_received, change_amount, notes, barcode_scanned, created_at, updated_at`

const saleItemColumns = `id, sale_id, product_id, quantity, unit_price, iva_percentage, discount_percentage,
	subtotal, iva_amount, discount_amount, total`

func scanSale(row scanner) (*entity.POSSale, error) {
	var s entity.POSSale
	var customerID *string
	err := row.Scan(&s.ID, &s.SaleNumber, &s.SessionID, &customerID, &s.OrderType, &s.PaymentMethod, &s.Subtotal,
		&s.IVAAmount, &s.DiscountAmount, &s.Total, &s.AmountReceived, &s.ChangeAmount, &s.Notes, &s.BarcodeScanned,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.CustomerID = deref(customerID)
	return &s, nil
}

// Create inserta la venta con sus líneas. Debe llamarse dentro de una transacción.
func (r *POSSaleRepo) Create(ctx context.Context, s *entity.POSSale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO pos_sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		s.ID, s.SaleNumber, s.SessionID, nullable(s.CustomerID), s.OrderType, s.PaymentMethod, s.Subtotal,
		s.IVAAmount, s.DiscountAmount, s.Total, s.AmountReceived, s.ChangeAmount, s.Notes, s.BarcodeScanned,
		s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return wrap("insert pos sale", err)
	}
	for i := range s.Items {
		it := &s.Items[i]
		it.SaleID = s.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO pos_sale_items (`+saleItemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			it.ID, it.SaleID, it.ProductID, it.Quantity, it.UnitPrice, it.IVAPercentage, it.DiscountPercentage,
			it.Subtotal, it.IVAAmount, it.DiscountAmount, it.Total)
		if err != nil {
			return wrap("insert pos sale item", err)
		}
	}
	return nil
}

func (r *POSSaleRepo) GetByID(ctx context.Context, id string) (*entity.POSSale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM pos_sales WHERE id = $1`, id))
	if err != nil {
		return nil, wrap("get pos sale", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+saleItemColumns+` FROM pos_sale_items WHERE sale_id = $1 ORDER BY id`, id)
	items, err := collect(rows, err, "list pos sale items", func(row scanner) (*entity.POSSaleItem, error) {
		var it entity.POSSaleItem
		err := row.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.IVAPercentage,
			&it.DiscountPercentage, &it.Subtotal, &it.IVAAmount, &it.DiscountAmount, &it.Total)
		return &it, err
	})
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		s.Items = append(s.Items, *it)
	}
	return s, nil
}

func (r *POSSaleRepo) List(ctx context.Context, f repository.POSSaleFilter) ([]*entity.POSSale, error) {
	var w where
	if f.SessionID != "" {
		w.add("session_id = ?", f.SessionID)
	}
	if f.From != nil {
		w.add("created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("created_at <= ?", *f.To)
	}
	p := f.Page.Normalize()
	rows, err := r.q.Query(ctx,
		`SELECT `+saleColumns+` FROM pos_sales`+w.sql()+` ORDER BY created_at DESC`+w.page(p.Limit, p.Offset), w.args...)
	return collect(rows, err, "list pos sales", scanSale)
}

func (r *POSSaleRepo) SessionTotals(ctx context.Context, sessionID string) (decimal.Decimal, int, error) {
	var total decimal.Decimal
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(sum(total), 0), count(*) FROM pos_sales WHERE session_id = $1`, sessionID).Scan(&total, &count)
	return total, count, wrap("pos session totals", err)
}
