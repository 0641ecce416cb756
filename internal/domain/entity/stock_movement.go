package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeIn         = "in"
	MovementTypeOut        = "out"
	MovementTypeTransfer   = "transfer"
	MovementTypeAdjustment = "adjustment"
	MovementTypeReturn     = "return"
)

// Origen del movimiento (para la proyección de trazabilidad).
const (
	SourceManual      = "manual"
	SourcePurchase    = "purchase"
	SourceTransfer    = "transfer"
	SourcePOSSale     = "pos_sale"
	SourceOrder       = "order"
	SourceOrderReturn = "order_return"
)

// StockMovement registro inmutable del ledger: delta con signo aplicado a un Stock.
// QuantityBefore/QuantityAfter se obtienen en la misma sentencia que aplica el delta.
type StockMovement struct {
	ID             string
	ProductID      string
	WarehouseID    string
	Type           string
	Quantity       int // positivo entrada, negativo salida
	QuantityBefore int
	QuantityAfter  int
	Reference      string
	Notes          string
	UserID         string
	SourceKind     string
	SourceID       string
	CreatedAt      time.Time
}

// ValidMovementType indica si el tipo es soportado.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeTransfer, MovementTypeAdjustment, MovementTypeReturn:
		return true
	}
	return false
}

// SignedQuantity normaliza la cantidad según el tipo: in/return positivos, out negativo,
// transfer/adjustment con el signo recibido. Devuelve false si la combinación no es válida.
func SignedQuantity(movementType string, qty int) (int, bool) {
	if qty == 0 {
		return 0, false
	}
	switch movementType {
	case MovementTypeIn, MovementTypeReturn:
		return qty, qty > 0
	case MovementTypeOut:
		if qty > 0 {
			return -qty, true
		}
		return qty, true
	case MovementTypeTransfer, MovementTypeAdjustment:
		return qty, true
	}
	return 0, false
}
