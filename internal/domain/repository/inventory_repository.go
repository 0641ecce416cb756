package repository

import (
	"context"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, w *entity.Warehouse) error
	Update(ctx context.Context, w *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	GetByCode(ctx context.Context, code string) (*entity.Warehouse, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.Warehouse, error)
	// GetDefault bodega principal activa o, en su defecto, la primera activa.
	GetDefault(ctx context.Context) (*entity.Warehouse, error)
	// ClearMain desmarca is_main en todas las bodegas salvo exceptID.
	ClearMain(ctx context.Context, exceptID string) error
}

// StockKey identifica una fila de existencias.
type StockKey struct {
	ProductID   string
	WarehouseID string
}

// StockRepository existencias por producto y bodega.
// Apply es la única forma de cambiar Quantity; el resto solo toca umbrales.
type StockRepository interface {
	// Apply suma delta de forma atómica (creando la fila en 0 si no existe) y devuelve la
	// cantidad antes y después. Si el resultado fuera negativo devuelve ErrInsufficientStock
	// sin modificar nada.
	Apply(ctx context.Context, productID, warehouseID string, delta int) (before, after int, err error)
	// Lock bloquea las filas indicadas en orden (product_id, warehouse_id) y devuelve sus
	// cantidades; las filas inexistentes valen 0.
	Lock(ctx context.Context, keys []StockKey) (map[StockKey]int, error)
	Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	SaveThresholds(ctx context.Context, s *entity.Stock) error
	List(ctx context.Context, f StockFilter) ([]*entity.Stock, error)
	TotalByProduct(ctx context.Context, productID string) (int, error)
}

// StockMovementRepository ledger de inventario (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	// ListBySource movimientos generados por un documento (orden, compra, venta POS), en orden cronológico.
	ListBySource(ctx context.Context, sourceKind, sourceID string) ([]*entity.StockMovement, error)
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, error)
	// Trace proyección del ledger con nombres de producto y bodega. Devuelve todas las filas
	// filtradas, sin paginar: el resumen se calcula sobre el conjunto completo.
	Trace(ctx context.Context, f MovementFilter) ([]*entity.InventoryTrace, error)
}

// TransferRepository transferencias entre bodegas.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.StockTransfer) error
	GetByID(ctx context.Context, id string) (*entity.StockTransfer, error)
	List(ctx context.Context, status string, p Page) ([]*entity.StockTransfer, error)
	UpdateStatus(ctx context.Context, t *entity.StockTransfer) error
}

// SequenceRepository consecutivos de documentos.
type SequenceRepository interface {
	// Next incrementa y devuelve el contador de la clave dentro de la transacción actual.
	Next(ctx context.Context, key string) (int64, error)
}
