package repository

import "time"

// Page paginación simple por limit/offset.
type Page struct {
	Limit  int
	Offset int
}

// Normalize aplica límites por defecto (20) y máximo (200).
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 200 {
		p.Limit = 200
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	CategoryID string
	BrandID    string
	Search     string // nombre, SKU o código de barras
	Active     *bool
	Featured   *bool
	Page
}

// CustomerFilter filtros del listado de clientes.
type CustomerFilter struct {
	Search       string
	CustomerType string
	Active       *bool
	Page
}

// StockFilter filtros del listado de existencias.
type StockFilter struct {
	WarehouseID string
	ProductID   string
	LowOnly     bool
}

// MovementFilter filtros del ledger y de la trazabilidad.
type MovementFilter struct {
	ProductID   string
	WarehouseID string
	Type        string
	TraceType   string // solo para Trace
	From        *time.Time
	To          *time.Time
	Page
}

// PurchaseFilter filtros de compras.
type PurchaseFilter struct {
	Status     string
	SupplierID string
	Page
}

// POSSessionFilter filtros de sesiones POS.
type POSSessionFilter struct {
	UserID string
	Status string
	Page
}

// POSSaleFilter filtros de ventas POS.
type POSSaleFilter struct {
	SessionID string
	From      *time.Time
	To        *time.Time
	Page
}

// OrderFilter filtros de órdenes.
type OrderFilter struct {
	Status     string
	Statuses   []string
	CustomerID string
	From       *time.Time
	To         *time.Time
	Page
}

// AuditFilter filtros del listado de auditoría.
type AuditFilter struct {
	EntityType string
	ObjectID   string
	UserID     string
	Action     string
	Severity   string
	From       *time.Time
	To         *time.Time
	Page
}
