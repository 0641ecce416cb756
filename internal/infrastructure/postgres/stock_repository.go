package postgres

import (
	"cmp"
	"context"
	"slices"

	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `product_id, warehouse_id, quantity, min_stock, max_stock, location, created_at, updated_at`

func scanStock(row scanner) (*entity.Stock, error) {
	var s entity.Stock
	err := row.Scan(&s.ProductID, &s.WarehouseID, &s.Quantity, &s.MinStock, &s.MaxStock, &s.Location,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Apply suma delta a la fila en un solo UPDATE condicionado; si no hay fila resultante
// el saldo quedaría negativo.
func (r *StockRepo) Apply(ctx context.Context, productID, warehouseID string, delta int) (int, int, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (product_id, warehouse_id, quantity) VALUES ($1, $2, 0)
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`, productID, warehouseID)
	if err != nil {
		return 0, 0, wrap("ensure stock row", err)
	}
	var before, after int
	err = r.q.QueryRow(ctx, `
		UPDATE stock SET quantity = quantity + $3, updated_at = now()
		WHERE product_id = $1 AND warehouse_id = $2 AND quantity + $3 >= 0
		RETURNING quantity - $3, quantity`, productID, warehouseID, delta).Scan(&before, &after)
	if err != nil {
		if err = wrap("apply stock", err); domain.IsNotFound(err) {
			return 0, 0, domain.ErrInsufficientStock
		}
		return 0, 0, err
	}
	return before, after, nil
}

// Lock toma FOR UPDATE las filas en orden estable para evitar interbloqueos.
func (r *StockRepo) Lock(ctx context.Context, keys []repository.StockKey) (map[repository.StockKey]int, error) {
	sorted := slices.Clone(keys)
	slices.SortFunc(sorted, func(a, b repository.StockKey) int {
		return cmp.Or(cmp.Compare(a.ProductID, b.ProductID), cmp.Compare(a.WarehouseID, b.WarehouseID))
	})
	out := make(map[repository.StockKey]int, len(sorted))
	for _, k := range slices.Compact(sorted) {
		var qty int
		err := r.q.QueryRow(ctx, `
			SELECT quantity FROM stock WHERE product_id = $1 AND warehouse_id = $2 FOR UPDATE`,
			k.ProductID, k.WarehouseID).Scan(&qty)
		if err = wrap("lock stock", err); err != nil && !domain.IsNotFound(err) {
			return nil, err
		}
		out[k] = qty
	}
	return out, nil
}

// Get devuelve la fila o una existencia en cero si el producto nunca tuvo movimientos en la bodega.
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	s, err := scanStock(r.q.QueryRow(ctx,
		`SELECT `+stockColumns+` FROM stock WHERE product_id = $1 AND warehouse_id = $2`, productID, warehouseID))
	if err = wrap("get stock", err); domain.IsNotFound(err) {
		return &entity.Stock{ProductID: productID, WarehouseID: warehouseID}, nil
	}
	return s, err
}

func (r *StockRepo) SaveThresholds(ctx context.Context, s *entity.Stock) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (product_id, warehouse_id, quantity, min_stock, max_stock, location)
		VALUES ($1, $2, 0, $3, $4, $5)
		ON CONFLICT (product_id, warehouse_id) DO UPDATE
		SET min_stock = EXCLUDED.min_stock, max_stock = EXCLUDED.max_stock, location = EXCLUDED.location, updated_at = now()`,
		s.ProductID, s.WarehouseID, s.MinStock, s.MaxStock, s.Location)
	return wrap("save stock thresholds", err)
}

func (r *StockRepo) List(ctx context.Context, f repository.StockFilter) ([]*entity.Stock, error) {
	var w where
	if f.WarehouseID != "" {
		w.add("warehouse_id = ?", f.WarehouseID)
	}
	if f.ProductID != "" {
		w.add("product_id = ?", f.ProductID)
	}
	if f.LowOnly {
		w.addRaw("quantity <= min_stock")
	}
	rows, err := r.q.Query(ctx, `SELECT `+stockColumns+` FROM stock`+w.sql()+` ORDER BY product_id, warehouse_id`, w.args...)
	return collect(rows, err, "list stock", scanStock)
}

// TotalByProduct suma las existencias del producto en todas las bodegas.
func (r *StockRepo) TotalByProduct(ctx context.Context, productID string) (int, error) {
	var total int
	err := r.q.QueryRow(ctx, `SELECT COALESCE(sum(quantity), 0) FROM stock WHERE product_id = $1`, productID).Scan(&total)
	return total, wrap("total stock by product", err)
}
