package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// WarehouseRequest entrada para crear o actualizar una bodega.
type WarehouseRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Code     string `json:"code" validate:"required,max=20"`
	Address  string `json:"address"`
	City     string `json:"city" validate:"omitempty,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Email    string `json:"email" validate:"omitempty,email"`
	IsActive *bool  `json:"is_active"`
	IsMain   bool   `json:"is_main"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	IsActive  bool      `json:"is_active"`
	IsMain    bool      `json:"is_main"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
	Type        string `json:"type" validate:"required,oneof=in out adjustment return"`
	Quantity    int    `json:"quantity" validate:"required"`
	Reference   string `json:"reference" validate:"omitempty,max=100"`
	Notes       string `json:"notes"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	WarehouseID    string    `json:"warehouse_id"`
	Type           string    `json:"movement_type"`
	Quantity       int       `json:"quantity"`
	QuantityBefore int       `json:"quantity_before"`
	QuantityAfter  int       `json:"quantity_after"`
	Reference      string    `json:"reference,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	UserID         string    `json:"user_id,omitempty"`
	SourceKind     string    `json:"source_kind"`
	SourceID       string    `json:"source_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// MovementFilterRequest filtros del listado de movimientos.
type MovementFilterRequest struct {
	ProductID   string     `query:"product_id"`
	WarehouseID string     `query:"warehouse_id"`
	Type        string     `query:"type"`
	From        *time.Time `query:"-"`
	To          *time.Time `query:"-"`
	PageRequest
}

// StockFilterRequest filtros de existencias.
type StockFilterRequest struct {
	WarehouseID string `query:"warehouse_id"`
	ProductID   string `query:"product_id"`
	LowOnly     bool   `query:"low_stock"`
}

// StockResponse existencias de un producto en una bodega.
type StockResponse struct {
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int       `json:"quantity"`
	MinStock    int       `json:"min_stock"`
	MaxStock    int       `json:"max_stock"`
	Location    string    `json:"location,omitempty"`
	IsLowStock  bool      `json:"is_low_stock"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockThresholdsRequest entrada para fijar mínimos/máximos.
type StockThresholdsRequest struct {
	MinStock int    `json:"min_stock" validate:"min=0"`
	MaxStock int    `json:"max_stock" validate:"min=0"`
	Location string `json:"location" validate:"omitempty,max=50"`
}

// TransferItemRequest línea de una transferencia.
type TransferItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Notes     string `json:"notes"`
}

// CreateTransferRequest entrada para crear una transferencia.
type CreateTransferRequest struct {
	FromWarehouseID string                `json:"from_warehouse_id" validate:"required,uuid"`
	ToWarehouseID   string                `json:"to_warehouse_id" validate:"required,uuid,nefield=FromWarehouseID"`
	Reference       string                `json:"reference" validate:"omitempty,max=100"`
	Notes           string                `json:"notes"`
	Items           []TransferItemRequest `json:"items" validate:"required,min=1,dive"`
}

// TransferItemResponse línea de transferencia.
type TransferItemResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes,omitempty"`
}

// TransferResponse salida de una transferencia.
type TransferResponse struct {
	ID              string                 `json:"id"`
	FromWarehouseID string                 `json:"from_warehouse_id"`
	ToWarehouseID   string                 `json:"to_warehouse_id"`
	Status          string                 `json:"status"`
	Reference       string                 `json:"reference"`
	Notes           string                 `json:"notes,omitempty"`
	CreatedBy       string                 `json:"created_by,omitempty"`
	Items           []TransferItemResponse `json:"items"`
	CreatedAt       time.Time              `json:"created_at"`
	CompletedAt     *time.Time             `json:"completed_at,omitempty"`
}

// TraceFilterRequest filtros de trazabilidad.
type TraceFilterRequest struct {
	ProductID    string     `query:"product_id"`
	WarehouseID  string     `query:"warehouse_id"`
	MovementType string     `query:"movement_type"`
	From         *time.Time `query:"-"`
	To           *time.Time `query:"-"`
	PageRequest
}

// TraceRowResponse fila de trazabilidad.
type TraceRowResponse struct {
	MovementID    string    `json:"movement_id"`
	MovementType  string    `json:"movement_type"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	ProductSKU    string    `json:"product_sku"`
	WarehouseID   string    `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name"`
	Quantity      int       `json:"quantity"`
	StockBefore   int       `json:"stock_before"`
	StockAfter    int       `json:"stock_after"`
	Reference     string    `json:"reference,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// TraceSummaryResponse totales por producto.
type TraceSummaryResponse struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	TotalIn       int    `json:"total_in"`
	TotalOut      int    `json:"total_out"`
	MovementCount int    `json:"movement_count"`
}

// TraceResponse filas y resumen.
type TraceResponse struct {
	Items   []TraceRowResponse     `json:"items"`
	Total   int                    `json:"total"`
	Summary []TraceSummaryResponse `json:"summary"`
}

// ReplenishmentSuggestion sugerencia de reposición para un producto bajo el mínimo.
type ReplenishmentSuggestion struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	WarehouseID        string          `json:"warehouse_id"`
	CurrentStock       int             `json:"current_stock"`
	MinStock           int             `json:"min_stock"`
	IdealStock         int             `json:"ideal_stock"`
	SuggestedOrderQty  int             `json:"suggested_order_qty"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
