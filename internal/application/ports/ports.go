package ports

import (
	"context"
	"time"

	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
	"github.com/jhoicas/naturalmede-api/pkg/logger"
)

// Repositories acceso a los repositorios. Dentro de UnitOfWork.Run todos comparten la transacción.
type Repositories interface {
	Users() repository.UserRepository
	Categories() repository.CategoryRepository
	Brands() repository.BrandRepository
	Products() repository.ProductRepository
	ProductImages() repository.ProductImageRepository
	Carts() repository.CartRepository
	Customers() repository.CustomerRepository
	CustomerAddresses() repository.CustomerAddressRepository
	Locations() repository.LocationRepository
	Warehouses() repository.WarehouseRepository
	Stock() repository.StockRepository
	Movements() repository.StockMovementRepository
	Transfers() repository.TransferRepository
	Sequences() repository.SequenceRepository
	Suppliers() repository.SupplierRepository
	Purchases() repository.PurchaseRepository
	POSSessions() repository.POSSessionRepository
	POSSales() repository.POSSaleRepository
	Orders() repository.OrderRepository
	ShippingRates() repository.ShippingRateRepository
	WompiConfig() repository.WompiConfigRepository
	AuditLogs() repository.AuditLogRepository
	AuditConfigs() repository.AuditConfigRepository
	Reports() repository.ReportRepository
}

// UnitOfWork ejecuta fn dentro de una transacción; si fn devuelve error se hace rollback.
// Los repositorios embebidos operan fuera de transacción (lecturas).
type UnitOfWork interface {
	Repositories
	Run(ctx context.Context, fn func(tx Repositories) error) error
}

// Lock candado obtenido con Locker.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker candados distribuidos por clave. Devuelve domain.ErrLockNotObtained si no se obtiene a tiempo.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// IdempotencyStore registro de eventos ya procesados.
type IdempotencyStore interface {
	// MarkProcessed devuelve true si la clave se marcó ahora y false si ya existía.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	// Forget libera la clave para permitir reintentos cuando el procesamiento falla.
	Forget(ctx context.Context, key string) error
}

// EventPublisher publica eventos de dominio (routing key + payload JSON).
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Routing keys de eventos de dominio.
const (
	EventMovementApplied   = "inventory.movement.applied"
	EventTransferCompleted = "inventory.transfer.completed"
	EventPurchaseReceived  = "purchases.purchase.received"
	EventSaleCreated       = "pos.sale.created"
	EventOrderCreated      = "orders.order.created"
	EventOrderPaid         = "order.paid"
	EventOrderStatus       = "orders.order.status_changed"
	EventAuditLogged       = "audit.logged"
)

// PublishQuietly publica el evento y solo registra el error: un evento perdido no revierte la operación.
func PublishQuietly(ctx context.Context, p EventPublisher, log *logger.Logger, routingKey string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, routingKey, payload); err != nil && log != nil {
		log.Warn().Err(err).Str("routing_key", routingKey).Msg("no se pudo publicar el evento")
	}
}
