package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

var (
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.TransferRepository      = (*TransferRepo)(nil)
	_ repository.SequenceRepository      = (*SequenceRepo)(nil)
)

// MovementRepo ledger de inventario sobre PostgreSQL (usable con pool o tx). Solo inserta.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, product_id, warehouse_id, movement_type, quantity, quantity_before, quantity_after,
	reference, notes, user_id, source_kind, source_id, created_at`

func scanMovement(row scanner) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(&m.ID, &m.ProductID, &m.WarehouseID, &m.Type, &m.Quantity, &m.QuantityBefore, &m.QuantityAfter,
		&m.Reference, &m.Notes, &m.UserID, &m.SourceKind, &m.SourceID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste un movimiento de inventario.
func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		m.ID, m.ProductID, m.WarehouseID, m.Type, m.Quantity, m.QuantityBefore, m.QuantityAfter,
		m.Reference, m.Notes, m.UserID, m.SourceKind, m.SourceID, m.CreatedAt,
	)
	return wrap("create stock movement", err)
}

func (r *MovementRepo) ListBySource(ctx context.Context, sourceKind, sourceID string) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+` FROM stock_movements
		WHERE source_kind = $1 AND source_id = $2 ORDER BY created_at, id`, sourceKind, sourceID)
	return collect(rows, err, "list stock movements by source", scanMovement)
}

func movementWhere(f repository.MovementFilter, prefix string) where {
	var w where
	if f.ProductID != "" {
		w.add(prefix+"product_id = ?", f.ProductID)
	}
	if f.WarehouseID != "" {
		w.add(prefix+"warehouse_id = ?", f.WarehouseID)
	}
	if f.Type != "" {
		w.add(prefix+"movement_type = ?", f.Type)
	}
	if f.From != nil {
		w.add(prefix+"created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add(prefix+"created_at <= ?", *f.To)
	}
	return w
}

// List movimientos del más reciente al más antiguo.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	w := movementWhere(f, "")
	p := f.Page.Normalize()
	query := `SELECT ` + movementColumns + ` FROM stock_movements` + w.sql() + ` ORDER BY created_at DESC, id` + w.page(p.Limit, p.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	return collect(rows, err, "list stock movements", scanMovement)
}

// Trace proyección cronológica del ledger. El tipo de traza se deriva en Go, por lo que el
// filtro TraceType se aplica después de leer. No pagina.
func (r *MovementRepo) Trace(ctx context.Context, f repository.MovementFilter) ([]*entity.InventoryTrace, error) {
	w := movementWhere(f, "m.")
	rows, err := r.q.Query(ctx, `
		SELECT m.id, m.product_id, m.warehouse_id, m.movement_type, m.quantity, m.quantity_before, m.quantity_after,
			m.reference, m.notes, m.user_id, m.source_kind, m.source_id, m.created_at,
			COALESCE(p.name, ''), COALESCE(p.sku, ''), COALESCE(wh.name, '')
		FROM stock_movements m
		LEFT JOIN products p ON p.id = m.product_id
		LEFT JOIN warehouses wh ON wh.id = m.warehouse_id`+w.sql()+`
		ORDER BY m.created_at, m.id`, w.args...)
	list, err := collect(rows, err, "trace stock movements", func(row scanner) (*entity.InventoryTrace, error) {
		var m entity.StockMovement
		var t entity.InventoryTrace
		err := row.Scan(&m.ID, &m.ProductID, &m.WarehouseID, &m.Type, &m.Quantity, &m.QuantityBefore, &m.QuantityAfter,
			&m.Reference, &m.Notes, &m.UserID, &m.SourceKind, &m.SourceID, &m.CreatedAt,
			&t.ProductName, &t.ProductSKU, &t.WarehouseName)
		if err != nil {
			return nil, err
		}
		t.MovementID, t.TraceType, t.MovementType = m.ID, entity.TraceTypeFor(&m), m.Type
		t.ProductID, t.WarehouseID = m.ProductID, m.WarehouseID
		t.Quantity, t.StockBefore, t.StockAfter = m.Quantity, m.QuantityBefore, m.QuantityAfter
		t.Reference, t.Notes, t.UserID = m.Reference, m.Notes, m.UserID
		t.SourceKind, t.SourceID, t.CreatedAt = m.SourceKind, m.SourceID, m.CreatedAt
		return &t, nil
	})
	if err != nil {
		return nil, err
	}
	if f.TraceType != "" {
		filtered := list[:0]
		for _, t := range list {
			if t.TraceType == f.TraceType {
				filtered = append(filtered, t)
			}
		}
		list = filtered
	}
	return list, nil
}

// TransferRepo transferencias entre bodegas.
type TransferRepo struct {
	q Querier
}

func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, from_warehouse_id, to_warehouse_id, status, reference, notes, created_by, created_at, completed_at`

func scanTransfer(row scanner) (*entity.StockTransfer, error) {
	var t entity.StockTransfer
	err := row.Scan(&t.ID, &t.FromWarehouseID, &t.ToWarehouseID, &t.Status, &t.Reference, &t.Notes, &t.CreatedBy,
		&t.CreatedAt, &t.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserta la cabecera y las líneas. Debe llamarse dentro de una transacción.
func (r *TransferRepo) Create(ctx context.Context, t *entity.StockTransfer) error {
	_, err := r.q.Exec(ctx, `INSERT INTO stock_transfers (`+transferColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.FromWarehouseID, t.ToWarehouseID, t.Status, t.Reference, t.Notes, t.CreatedBy, t.CreatedAt, t.CompletedAt)
	if err != nil {
		return wrap("insert stock transfer", err)
	}
	for i := range t.Items {
		it := &t.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.TransferID = t.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_transfer_items (id, transfer_id, product_id, quantity, notes) VALUES ($1, $2, $3, $4, $5)`,
			it.ID, it.TransferID, it.ProductID, it.Quantity, it.Notes)
		if err != nil {
			return wrap("insert stock transfer item", err)
		}
	}
	return nil
}

func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.StockTransfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, `SELECT `+transferColumns+` FROM stock_transfers WHERE id = $1`, id))
	if err != nil {
		return nil, wrap("get stock transfer", err)
	}
	if err := r.loadItems(ctx, []*entity.StockTransfer{t}); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TransferRepo) List(ctx context.Context, status string, p repository.Page) ([]*entity.StockTransfer, error) {
	var w where
	if status != "" {
		w.add("status = ?", status)
	}
	p = p.Normalize()
	rows, err := r.q.Query(ctx,
		`SELECT `+transferColumns+` FROM stock_transfers`+w.sql()+` ORDER BY created_at DESC`+w.page(p.Limit, p.Offset), w.args...)
	list, err := collect(rows, err, "list stock transfers", scanTransfer)
	if err != nil {
		return nil, err
	}
	return list, r.loadItems(ctx, list)
}

// loadItems completa las líneas de varias transferencias con una sola consulta.
func (r *TransferRepo) loadItems(ctx context.Context, list []*entity.StockTransfer) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[string]*entity.StockTransfer, len(list))
	ids := make([]string, 0, len(list))
	for _, t := range list {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, transfer_id, product_id, quantity, notes
		FROM stock_transfer_items WHERE transfer_id::text = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return wrap("list stock transfer items", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.StockTransferItem, error) {
		var it entity.StockTransferItem
		err := row.Scan(&it.ID, &it.TransferID, &it.ProductID, &it.Quantity, &it.Notes)
		return it, err
	})
	if err != nil {
		return wrap("scan stock transfer items", err)
	}
	for _, it := range items {
		if t := byID[it.TransferID]; t != nil {
			t.Items = append(t.Items, it)
		}
	}
	return nil
}

func (r *TransferRepo) UpdateStatus(ctx context.Context, t *entity.StockTransfer) error {
	tag, err := r.q.Exec(ctx, `UPDATE stock_transfers SET status = $2, completed_at = $3 WHERE id = $1`,
		t.ID, t.Status, t.CompletedAt)
	return mustAffect(tag, err, "update stock transfer status")
}

// SequenceRepo consecutivos de documentos (PR/AU, compras, transferencias).
type SequenceRepo struct {
	q Querier
}

func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa el contador con un upsert; la fila queda bloqueada hasta el fin de la transacción.
func (r *SequenceRepo) Next(ctx context.Context, key string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO document_sequences (key, value) VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET value = document_sequences.value + 1
		RETURNING value`, key).Scan(&n)
	return n, wrap("next sequence", err)
}

