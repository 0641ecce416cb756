package entity

import "time"

// Tipos de trazabilidad mostrados al usuario.
const (
	TracePurchaseReceipt      = "PURCHASE_RECEIPT"
	TraceStockAdjustment      = "STOCK_ADJUSTMENT"
	TraceStockTransfer        = "STOCK_TRANSFER"
	TraceStockTransferReceive = "STOCK_TRANSFER_RECEIVE"
	TraceSale                 = "SALE"
	TraceSaleReturn           = "SALE_RETURN"
	TraceOther                = "OTHER"
)

// InventoryTrace fila de lectura derivada de un StockMovement; no se persiste aparte.
type InventoryTrace struct {
	MovementID    string
	TraceType     string
	MovementType  string
	ProductID     string
	ProductName   string
	ProductSKU    string
	WarehouseID   string
	WarehouseName string
	Quantity      int
	StockBefore   int
	StockAfter    int
	Reference     string
	Notes         string
	UserID        string
	SourceKind    string
	SourceID      string
	CreatedAt     time.Time
}

// TraceTypeFor clasifica un movimiento del ledger en un tipo de trazabilidad.
func TraceTypeFor(m *StockMovement) string {
	switch m.SourceKind {
	case SourcePurchase:
		return TracePurchaseReceipt
	case SourceTransfer:
		if m.Quantity < 0 {
			return TraceStockTransfer
		}
		return TraceStockTransferReceive
	case SourcePOSSale, SourceOrder:
		return TraceSale
	case SourceOrderReturn:
		return TraceSaleReturn
	}
	switch m.Type {
	case MovementTypeAdjustment:
		return TraceStockAdjustment
	case MovementTypeReturn:
		return TraceSaleReturn
	}
	return TraceOther
}

// TraceSummary totales por producto en la proyección.
type TraceSummary struct {
	ProductID     string
	ProductName   string
	TotalIn       int
	TotalOut      int
	MovementCount int
}
