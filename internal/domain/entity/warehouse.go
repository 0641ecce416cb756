package entity

import "time"

// Warehouse bodega o tienda física donde se almacena inventario. Solo una es principal.
type Warehouse struct {
	ID        string
	Name      string
	Code      string // único
	Address   string
	City      string
	Phone     string
	Email     string
	IsActive  bool
	IsMain    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
