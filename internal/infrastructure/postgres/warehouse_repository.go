package postgres

import (
	"context"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

const warehouseColumns = `id, name, code, address, city, phone, email, is_active, is_main, created_at, updated_at`

// La bodega principal va primero.
const warehouseOrder = ` ORDER BY is_main DESC, created_at, code`

func scanWarehouse(row scanner) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := row.Scan(&w.ID, &w.Name, &w.Code, &w.Address, &w.City, &w.Phone, &w.Email, &w.IsActive, &w.IsMain,
		&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create persiste una nueva bodega. El código es único sin distinguir mayúsculas.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO warehouses (`+warehouseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		w.ID, w.Name, w.Code, w.Address, w.City, w.Phone, w.Email, w.IsActive, w.IsMain, w.CreatedAt, w.UpdatedAt,
	)
	return wrap("insert warehouse", err)
}

func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE warehouses SET name = $2, code = $3, address = $4, city = $5, phone = $6, email = $7,
			is_active = $8, is_main = $9, updated_at = $10
		WHERE id = $1`,
		w.ID, w.Name, w.Code, w.Address, w.City, w.Phone, w.Email, w.IsActive, w.IsMain, w.UpdatedAt,
	)
	return mustAffect(tag, err, "update warehouse")
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	w, err := scanWarehouse(r.q.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, id))
	return w, wrap("get warehouse", err)
}

func (r *WarehouseRepo) GetByCode(ctx context.Context, code string) (*entity.Warehouse, error) {
	w, err := scanWarehouse(r.q.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE lower(code) = lower($1)`, code))
	return w, wrap("get warehouse by code", err)
}

// List lista las bodegas, opcionalmente solo las activas.
func (r *WarehouseRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Warehouse, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+warehouseColumns+` FROM warehouses WHERE (NOT $1 OR is_active)`+warehouseOrder, activeOnly)
	return collect(rows, err, "list warehouses", scanWarehouse)
}

func (r *WarehouseRepo) GetDefault(ctx context.Context) (*entity.Warehouse, error) {
	w, err := scanWarehouse(r.q.QueryRow(ctx,
		`SELECT `+warehouseColumns+` FROM warehouses WHERE is_active`+warehouseOrder+` LIMIT 1`))
	return w, wrap("get default warehouse", err)
}

func (r *WarehouseRepo) ClearMain(ctx context.Context, exceptID string) error {
	_, err := r.q.Exec(ctx, `UPDATE warehouses SET is_main = FALSE WHERE is_main AND id::text <> $1`, exceptID)
	return wrap("clear main warehouse", err)
}
