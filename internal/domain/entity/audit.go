package entity

import (
	"encoding/json"
	"time"
)

// Acciones auditables.
const (
	AuditActionCreate           = "CREATE"
	AuditActionUpdate           = "UPDATE"
	AuditActionDelete           = "DELETE"
	AuditActionLogin            = "LOGIN"
	AuditActionLogout           = "LOGOUT"
	AuditActionView             = "VIEW"
	AuditActionExport           = "EXPORT"
	AuditActionImport           = "IMPORT"
	AuditActionPrint            = "PRINT"
	AuditActionEmail            = "EMAIL"
	AuditActionCancel           = "CANCEL"
	AuditActionApprove          = "APPROVE"
	AuditActionReject           = "REJECT"
	AuditActionComplete         = "COMPLETE"
	AuditActionTransfer         = "TRANSFER"
	AuditActionReceive          = "RECEIVE"
	AuditActionReturn           = "RETURN"
	AuditActionRefund           = "REFUND"
	AuditActionDiscount         = "DISCOUNT"
	AuditActionPayment          = "PAYMENT"
	AuditActionStockAdjustment  = "STOCK_ADJUSTMENT"
	AuditActionPriceChange      = "PRICE_CHANGE"
	AuditActionStatusChange     = "STATUS_CHANGE"
	AuditActionPermissionChange = "PERMISSION_CHANGE"
	AuditActionPasswordChange   = "PASSWORD_CHANGE"
	AuditActionProfileUpdate    = "PROFILE_UPDATE"
	AuditActionSystemConfig     = "SYSTEM_CONFIG"
	AuditActionBackup           = "BACKUP"
	AuditActionRestore          = "RESTORE"
	AuditActionOther            = "OTHER"
)

// Severidades.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// Estados del evento auditado.
const (
	AuditStatusSuccess   = "SUCCESS"
	AuditStatusFailed    = "FAILED"
	AuditStatusPending   = "PENDING"
	AuditStatusCancelled = "CANCELLED"
)

// Tipos de entidad auditados ("app.model").
const (
	AuditEntityProduct       = "catalog.product"
	AuditEntityCategory      = "catalog.category"
	AuditEntityBrand         = "catalog.brand"
	AuditEntityCustomer      = "customers.customer"
	AuditEntityWarehouse     = "inventory.warehouse"
	AuditEntityStock         = "inventory.stock"
	AuditEntityMovement      = "inventory.stockmovement"
	AuditEntityTransfer      = "inventory.stocktransfer"
	AuditEntitySupplier      = "purchases.supplier"
	AuditEntityPurchase      = "purchases.purchase"
	AuditEntityPOSSession    = "pos.possession"
	AuditEntityPOSSale       = "pos.possale"
	AuditEntityOrder         = "orders.order"
	AuditEntityShippingRate  = "orders.shippingrate"
	AuditEntityWompiConfig   = "orders.wompiconfig"
	AuditEntityUser          = "auth.user"
	AuditEntityReport        = "reports.report"
	AuditEntityConfiguration = "audit.auditconfiguration"
)

// AuditedEntityTypes tipos con configuración por defecto (seed).
var AuditedEntityTypes = []string{
	AuditEntityProduct, AuditEntityCategory, AuditEntityBrand, AuditEntityCustomer,
	AuditEntityWarehouse, AuditEntityStock, AuditEntityMovement, AuditEntityTransfer,
	AuditEntitySupplier, AuditEntityPurchase, AuditEntityPOSSession, AuditEntityPOSSale,
	AuditEntityOrder, AuditEntityShippingRate, AuditEntityWompiConfig, AuditEntityUser,
	AuditEntityReport,
}

// DefaultRetentionDays retención por defecto de los registros.
const DefaultRetentionDays = 365

// AuditLog registro de auditoría. OldValues/NewValues guardan solo los campos que cambiaron.
type AuditLog struct {
	ID         string
	UserID     string
	Action     string
	EntityType string
	ObjectID   string
	ObjectRepr string
	OldValues  json.RawMessage
	NewValues  json.RawMessage
	Severity   string
	Status     string
	Message    string
	IPAddress  string
	UserAgent  string
	ExtraData  json.RawMessage
	CreatedAt  time.Time
}

// AuditConfiguration reglas de auditoría por tipo de entidad.
type AuditConfiguration struct {
	ID            string
	EntityType    string
	IsEnabled     bool
	TrackFields   []string // vacío = todos
	ExcludeFields []string
	TrackCreates  bool
	TrackUpdates  bool
	TrackDeletes  bool
	TrackViews    bool
	SeverityLevel string
	RetentionDays int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DefaultAuditConfiguration configuración usada al sembrar un tipo de entidad.
func DefaultAuditConfiguration(entityType string) AuditConfiguration {
	return AuditConfiguration{
		EntityType:    entityType,
		IsEnabled:     true,
		TrackCreates:  true,
		TrackUpdates:  true,
		TrackDeletes:  true,
		SeverityLevel: SeverityMedium,
		RetentionDays: DefaultRetentionDays,
	}
}

// Tracks indica si la acción debe registrarse según la configuración.
func (c *AuditConfiguration) Tracks(action string) bool {
	if !c.IsEnabled {
		return false
	}
	switch action {
	case AuditActionCreate:
		return c.TrackCreates
	case AuditActionUpdate:
		return c.TrackUpdates
	case AuditActionDelete:
		return c.TrackDeletes
	case AuditActionView:
		return c.TrackViews
	}
	return true
}

// FieldTracked aplica las listas de campos incluidos y excluidos.
func (c *AuditConfiguration) FieldTracked(field string) bool {
	for _, f := range c.ExcludeFields {
		if f == field {
			return false
		}
	}
	if len(c.TrackFields) == 0 {
		return true
	}
	for _, f := range c.TrackFields {
		if f == field {
			return true
		}
	}
	return false
}

// AuditStats resumen de los registros de auditoría.
type AuditStats struct {
	Total      int64
	Today      int64
	BySeverity map[string]int64
	Oldest     *time.Time
	Newest     *time.Time
}
