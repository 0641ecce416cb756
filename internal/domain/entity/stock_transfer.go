package entity

import "time"

// Estados de una transferencia entre bodegas.
const (
	TransferStatusPending   = "pending"
	TransferStatusInTransit = "in_transit"
	TransferStatusCompleted = "completed"
	TransferStatusCancelled = "cancelled"
)

// StockTransfer traslado de mercancía entre dos bodegas. Se completa de forma atómica.
type StockTransfer struct {
	ID              string
	FromWarehouseID string
	ToWarehouseID   string
	Status          string
	Reference       string
	Notes           string
	CreatedBy       string
	Items           []StockTransferItem
	CreatedAt       time.Time
	CompletedAt     *time.Time
}

// StockTransferItem línea de la transferencia.
type StockTransferItem struct {
	ID         string
	TransferID string
	ProductID  string
	Quantity   int
	Notes      string
}

// CanComplete solo una transferencia pendiente se puede completar.
func (t *StockTransfer) CanComplete() bool { return t.Status == TransferStatusPending }

// CanCancel solo una transferencia pendiente se puede cancelar.
func (t *StockTransfer) CanCancel() bool { return t.Status == TransferStatusPending }
