package postgres

import (
	"context"
	"strings"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

var (
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.PurchaseRepository = (*PurchaseRepo)(nil)
)

// SupplierRepo proveedores.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id, name, contact_person, email, phone, address, city, tax_id, payment_terms, notes,
	is_active, created_at, updated_at`

func scanSupplier(row scanner) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Email, &s.Phone, &s.Address, &s.City, &s.TaxID,
		&s.PaymentTerms, &s.Notes, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO suppliers (`+supplierColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		s.ID, s.Name, s.ContactPerson, s.Email, s.Phone, s.Address, s.City, s.TaxID, s.PaymentTerms, s.Notes,
		s.IsActive, s.CreatedAt, s.UpdatedAt)
	return wrap("insert supplier", err)
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE suppliers SET name = $2, contact_person = $3, email = $4, phone = $5, address = $6, city = $7,
			tax_id = $8, payment_terms = $9, notes = $10, is_active = $11, updated_at = $12
		WHERE id = $1`,
		s.ID, s.Name, s.ContactPerson, s.Email, s.Phone, s.Address, s.City, s.TaxID, s.PaymentTerms, s.Notes,
		s.IsActive, s.UpdatedAt)
	return mustAffect(tag, err, "update supplier")
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	return s, wrap("get supplier", err)
}

// List busca por nombre o NIT.
func (r *SupplierRepo) List(ctx context.Context, search string, activeOnly bool) ([]*entity.Supplier, error) {
	var w where
	if activeOnly {
		w.addRaw("is_active")
	}
	if s := strings.TrimSpace(search); s != "" {
		w.add("(name ILIKE '%' || ? || '%' OR tax_id ILIKE '%' || ? || '%')", s)
	}
	rows, err := r.q.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers`+w.sql()+` ORDER BY name`, w.args...)
	return collect(rows, err, "list suppliers", scanSupplier)
}

// PurchaseRepo compras y sus líneas.
type PurchaseRepo struct {
	q Querier
}

func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, supplier_id, purchase_number, warehouse_id, order_date, expected_delivery, received_date,
	status, payment_status, subtotal, tax_amount, discount_amount, shipping_cost, total, notes, created_by,
	created_at, updated_at`

const purchaseItemColumns = `id, purchase_id, product_id, quantity, unit_cost, tax_percentage, discount_percentage,
	subtotal, tax_amount, discount_amount, total`

func scanPurchase(row scanner) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(&p.ID, &p.SupplierID, &p.PurchaseNumber, &p.WarehouseID, &p.OrderDate, &p.ExpectedDelivery,
		&p.ReceivedDate, &p.Status, &p.PaymentStatus, &p.Subtotal, &p.TaxAmount, &p.DiscountAmount, &p.ShippingCost,
		&p.Total, &p.Notes, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPurchaseItem(row scanner) (*entity.PurchaseItem, error) {
	var it entity.PurchaseItem
	err := row.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity, &it.UnitCost, &it.TaxPercentage,
		&it.DiscountPercentage, &it.Subtotal, &it.TaxAmount, &it.DiscountAmount, &it.Total)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create inserta la compra con sus líneas. Debe llamarse dentro de una transacción.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (`+purchaseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		p.ID, p.SupplierID, p.PurchaseNumber, p.WarehouseID, p.OrderDate, p.ExpectedDelivery, p.ReceivedDate,
		p.Status, p.PaymentStatus, p.Subtotal, p.TaxAmount, p.DiscountAmount, p.ShippingCost, p.Total, p.Notes,
		p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return wrap("insert purchase", err)
	}
	for i := range p.Items {
		p.Items[i].PurchaseID = p.ID
		if err := r.AddItem(ctx, &p.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

// Update actualiza la cabecera; las líneas se gestionan con AddItem y DeleteItem.
func (r *PurchaseRepo) Update(ctx context.Context, p *entity.Purchase) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchases SET supplier_id = $2, warehouse_id = $3, order_date = $4, expected_delivery = $5,
			received_date = $6, status = $7, payment_status = $8, subtotal = $9, tax_amount = $10,
			discount_amount = $11, shipping_cost = $12, total = $13, notes = $14, updated_at = $15
		WHERE id = $1`,
		p.ID, p.SupplierID, p.WarehouseID, p.OrderDate, p.ExpectedDelivery, p.ReceivedDate, p.Status,
		p.PaymentStatus, p.Subtotal, p.TaxAmount, p.DiscountAmount, p.ShippingCost, p.Total, p.Notes, p.UpdatedAt)
	return mustAffect(tag, err, "update purchase")
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id))
	if err != nil {
		return nil, wrap("get purchase", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+purchaseItemColumns+` FROM purchase_items WHERE purchase_id = $1 ORDER BY id`, id)
	items, err := collect(rows, err, "list purchase items", scanPurchaseItem)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		p.Items = append(p.Items, *it)
	}
	return p, nil
}

// List compras de la más reciente a la más antigua, sin líneas.
func (r *PurchaseRepo) List(ctx context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, int, error) {
	var w where
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.SupplierID != "" {
		w.add("supplier_id = ?", f.SupplierID)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM purchases`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, wrap("count purchases", err)
	}
	p := f.Page.Normalize()
	query := `SELECT ` + purchaseColumns + ` FROM purchases` + w.sql() + ` ORDER BY created_at DESC, purchase_number DESC` + w.page(p.Limit, p.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	list, err := collect(rows, err, "list purchases", scanPurchase)
	return list, total, err
}

func (r *PurchaseRepo) AddItem(ctx context.Context, it *entity.PurchaseItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_items (`+purchaseItemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		it.ID, it.PurchaseID, it.ProductID, it.Quantity, it.UnitCost, it.TaxPercentage, it.DiscountPercentage,
		it.Subtotal, it.TaxAmount, it.DiscountAmount, it.Total)
	return wrap("insert purchase item", err)
}

func (r *PurchaseRepo) DeleteItem(ctx context.Context, purchaseID, itemID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM purchase_items WHERE purchase_id = $1 AND id = $2`, purchaseID, itemID)
	return mustAffect(tag, err, "delete purchase item")
}

const receiptColumns = `id, purchase_id, receipt_number, received_by, received_at, notes`

// CreateReceipt registra la recepción; una compra solo puede recibirse una vez.
func (r *PurchaseRepo) CreateReceipt(ctx context.Context, rc *entity.PurchaseReceipt) error {
	_, err := r.q.Exec(ctx, `INSERT INTO purchase_receipts (`+receiptColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		rc.ID, rc.PurchaseID, rc.ReceiptNumber, rc.ReceivedBy, rc.ReceivedAt, rc.Notes)
	return wrap("insert purchase receipt", err)
}

func (r *PurchaseRepo) GetReceipt(ctx context.Context, purchaseID string) (*entity.PurchaseReceipt, error) {
	var rc entity.PurchaseReceipt
	err := r.q.QueryRow(ctx, `SELECT `+receiptColumns+` FROM purchase_receipts WHERE purchase_id = $1`, purchaseID).
		Scan(&rc.ID, &rc.PurchaseID, &rc.ReceiptNumber, &rc.ReceivedBy, &rc.ReceivedAt, &rc.Notes)
	if err != nil {
		return nil, wrap("get purchase receipt", err)
	}
	return &rc, nil
}
