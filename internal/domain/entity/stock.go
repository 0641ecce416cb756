package entity

import "time"

// Stock existencias de un producto en una bodega (única por par). Quantity nunca es negativa
// y solo cambia a través de un StockMovement.
type Stock struct {
	ProductID   string
	WarehouseID string
	Quantity    int
	MinStock    int
	MaxStock    int
	Location    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock indica si la cantidad está en o por debajo del mínimo.
func (s *Stock) IsLowStock() bool {
	return s.Quantity <= s.MinStock
}
