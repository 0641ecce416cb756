package postgres

import (
	"context"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

var (
	_ repository.OrderRepository        = (*OrderRepo)(nil)
	_ repository.ShippingRateRepository = (*ShippingRateRepo)(nil)
	_ repository.WompiConfigRepository  = (*WompiConfigRepo)(nil)
)

// OrderRepo órdenes web y sus líneas.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, order_number, order_type, customer_id, status, payment_method, subtotal, iva_amount,
	shipping_cost, total, shipping_address, shipping_city, shipping_phone, shipping_notes, notes, internal_notes,
	wompi_reference, wompi_transaction_id, wompi_status, created_at, updated_at, paid_at, shipped_at, delivered_at`

const orderItemColumns = `id, order_id, product_id, quantity, unit_price, iva_percentage, subtotal, iva_amount, total`

func scanOrder(row scanner) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.OrderType, &o.CustomerID, &o.Status, &o.PaymentMethod, &o.Subtotal,
		&o.IVAAmount, &o.ShippingCost, &o.Total, &o.ShippingAddress, &o.ShippingCity, &o.ShippingPhone,
		&o.ShippingNotes, &o.Notes, &o.InternalNotes, &o.WompiReference, &o.WompiTransactionID, &o.WompiStatus,
		&o.CreatedAt, &o.UpdatedAt, &o.PaidAt, &o.ShippedAt, &o.DeliveredAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserta la orden con sus líneas. Debe llamarse dentro de una transacción.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`,
		o.ID, o.OrderNumber, o.OrderType, o.CustomerID, o.Status, o.PaymentMethod, o.Subtotal, o.IVAAmount,
		o.ShippingCost, o.Total, o.ShippingAddress, o.ShippingCity, o.ShippingPhone, o.ShippingNotes, o.Notes,
		o.InternalNotes, o.WompiReference, o.WompiTransactionID, o.WompiStatus, o.CreatedAt, o.UpdatedAt,
		o.PaidAt, o.ShippedAt, o.DeliveredAt)
	if err != nil {
		return wrap("insert order", err)
	}
	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_items (`+orderItemColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.IVAPercentage, it.Subtotal, it.IVAAmount, it.Total)
		if err != nil {
			return wrap("insert order item", err)
		}
	}
	return nil
}

// Update actualiza la cabecera (estado, pago, notas y fechas).
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE orders SET status = $2, payment_method = $3, subtotal = $4, iva_amount = $5, shipping_cost = $6,
			total = $7, shipping_address = $8, shipping_city = $9, shipping_phone = $10, shipping_notes = $11,
			notes = $12, internal_notes = $13, wompi_reference = $14, wompi_transaction_id = $15, wompi_status = $16,
			updated_at = $17, paid_at = $18, shipped_at = $19, delivered_at = $20
		WHERE id = $1`,
		o.ID, o.Status, o.PaymentMethod, o.Subtotal, o.IVAAmount, o.ShippingCost, o.Total, o.ShippingAddress,
		o.ShippingCity, o.ShippingPhone, o.ShippingNotes, o.Notes, o.InternalNotes, o.WompiReference,
		o.WompiTransactionID, o.WompiStatus, o.UpdatedAt, o.PaidAt, o.ShippedAt, o.DeliveredAt)
	return mustAffect(tag, err, "update order")
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, "id", id)
}

func (r *OrderRepo) GetByNumber(ctx context.Context, number string) (*entity.Order, error) {
	return r.getOne(ctx, "order_number", number)
}

func (r *OrderRepo) getOne(ctx context.Context, column, value string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE `+column+` = $1`, value))
	if err != nil {
		return nil, wrap("get order", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+orderItemColumns+` FROM order_items WHERE order_id = $1 ORDER BY id`, o.ID)
	items, err := collect(rows, err, "list order items", func(row scanner) (*entity.OrderItem, error) {
		var it entity.OrderItem
		err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.IVAPercentage,
			&it.Subtotal, &it.IVAAmount, &it.Total)
		return &it, err
	})
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		o.Items = append(o.Items, *it)
	}
	return o, nil
}

// orderWhere From es inclusivo y To exclusivo.
func orderWhere(f repository.OrderFilter) where {
	var w where
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if len(f.Statuses) > 0 {
		w.add("status = ANY(?)", f.Statuses)
	}
	if f.CustomerID != "" {
		w.add("customer_id = ?", f.CustomerID)
	}
	if f.From != nil {
		w.add("created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("created_at < ?", *f.To)
	}
	return w
}

func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	w := orderWhere(f)
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM orders`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, wrap("count orders", err)
	}
	p := f.Page.Normalize()
	query := `SELECT ` + orderColumns + ` FROM orders` + w.sql() + ` ORDER BY created_at DESC, order_number DESC` + w.page(p.Limit, p.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	list, err := collect(rows, err, "list orders", scanOrder)
	return list, total, err
}

// ShippingRateRepo tarifas de envío por ciudad y rango de peso.
type ShippingRateRepo struct {
	q Querier
}

func NewShippingRateRepository(q Querier) *ShippingRateRepo {
	return &ShippingRateRepo{q: q}
}

const rateColumns = `id, city, min_weight, max_weight, cost, estimated_days, is_active, created_at, updated_at`

func scanRate(row scanner) (*entity.ShippingRate, error) {
	var rt entity.ShippingRate
	err := row.Scan(&rt.ID, &rt.City, &rt.MinWeight, &rt.MaxWeight, &rt.Cost, &rt.EstimatedDays, &rt.IsActive,
		&rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *ShippingRateRepo) Create(ctx context.Context, rt *entity.ShippingRate) error {
	_, err := r.q.Exec(ctx, `INSERT INTO shipping_rates (`+rateColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rt.ID, rt.City, rt.MinWeight, rt.MaxWeight, rt.Cost, rt.EstimatedDays, rt.IsActive, rt.CreatedAt, rt.UpdatedAt)
	return wrap("insert shipping rate", err)
}

func (r *ShippingRateRepo) Update(ctx context.Context, rt *entity.ShippingRate) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE shipping_rates SET city = $2, min_weight = $3, max_weight = $4, cost = $5, estimated_days = $6,
			is_active = $7, updated_at = $8
		WHERE id = $1`,
		rt.ID, rt.City, rt.MinWeight, rt.MaxWeight, rt.Cost, rt.EstimatedDays, rt.IsActive, rt.UpdatedAt)
	return mustAffect(tag, err, "update shipping rate")
}

func (r *ShippingRateRepo) GetByID(ctx context.Context, id string) (*entity.ShippingRate, error) {
	rt, err := scanRate(r.q.QueryRow(ctx, `SELECT `+rateColumns+` FROM shipping_rates WHERE id = $1`, id))
	return rt, wrap("get shipping rate", err)
}

func (r *ShippingRateRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM shipping_rates WHERE id = $1`, id)
	return mustAffect(tag, err, "delete shipping rate")
}

func (r *ShippingRateRepo) List(ctx context.Context, activeOnly bool) ([]*entity.ShippingRate, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+rateColumns+` FROM shipping_rates WHERE (NOT $1 OR is_active) ORDER BY city, min_weight`, activeOnly)
	return collect(rows, err, "list shipping rates", scanRate)
}

// WompiConfigRepo fila única (id = 1) con las credenciales de la pasarela.
type WompiConfigRepo struct {
	q Querier
}

func NewWompiConfigRepository(q Querier) *WompiConfigRepo {
	return &WompiConfigRepo{q: q}
}

func (r *WompiConfigRepo) Get(ctx context.Context) (*entity.WompiConfig, error) {
	var c entity.WompiConfig
	err := r.q.QueryRow(ctx, `
		SELECT public_key, private_key, integrity_secret, events_secret, is_test_mode, is_active, updated_at
		FROM wompi_config WHERE id = 1`).
		Scan(&c.PublicKey, &c.PrivateKey, &c.IntegritySecret, &c.EventsSecret, &c.IsTestMode, &c.IsActive, &c.UpdatedAt)
	if err != nil {
		return nil, wrap("get wompi config", err)
	}
	return &c, nil
}

func (r *WompiConfigRepo) Save(ctx context.Context, c *entity.WompiConfig) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO wompi_config (id, public_key, private_key, integrity_secret, events_secret, is_test_mode, is_active, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET public_key = EXCLUDED.public_key, private_key = EXCLUDED.private_key,
			integrity_secret = EXCLUDED.integrity_secret, events_secret = EXCLUDED.events_secret,
			is_test_mode = EXCLUDED.is_test_mode, is_active = EXCLUDED.is_active, updated_at = EXCLUDED.updated_at`,
		c.PublicKey, c.PrivateKey, c.IntegritySecret, c.EventsSecret, c.IsTestMode, c.IsActive, c.UpdatedAt)
	return wrap("save wompi config", err)
}
