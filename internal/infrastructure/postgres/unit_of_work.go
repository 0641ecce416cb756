package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

var _ ports.UnitOfWork = (*Store)(nil)

// Store unidad de trabajo sobre el pool. Los repositorios de Store leen fuera de transacción;
// Run entrega repositorios atados a una pgx.Tx.
type Store struct {
	repos
	pool *pgxpool.Pool
}

// NewStore construye la unidad de trabajo.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{repos: repos{q: pool}, pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (s *Store) Run(ctx context.Context, fn func(tx ports.Repositories) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(repos{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Ping verifica la conexión (health check).
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// repos construye cada adaptador sobre el mismo Querier.
type repos struct {
	q Querier
}

func (r repos) Users() repository.UserRepository                { return NewUserRepository(r.q) }
func (r repos) Categories() repository.CategoryRepository       { return NewCategoryRepository(r.q) }
func (r repos) Brands() repository.BrandRepository               { return NewBrandRepository(r.q) }
func (r repos) Products() repository.ProductRepository           { return NewProductRepository(r.q) }
func (r repos) ProductImages() repository.ProductImageRepository { return NewProductImageRepository(r.q) }
func (r repos) Carts() repository.CartRepository                 { return NewCartRepository(r.q) }
func (r repos) Customers() repository.CustomerRepository         { return NewCustomerRepository(r.q) }
func (r repos) CustomerAddresses() repository.CustomerAddressRepository {
	return NewCustomerAddressRepository(r.q)
}
func (r repos) Locations() repository.LocationRepository         { return NewLocationRepository(r.q) }
func (r repos) Warehouses() repository.WarehouseRepository       { return NewWarehouseRepository(r.q) }
func (r repos) Stock() repository.StockRepository                { return NewStockRepository(r.q) }
func (r repos) Movements() repository.StockMovementRepository    { return NewMovementRepository(r.q) }
func (r repos) Transfers() repository.TransferRepository         { return NewTransferRepository(r.q) }
func (r repos) Sequences() repository.SequenceRepository         { return NewSequenceRepository(r.q) }
func (r repos) Suppliers() repository.SupplierRepository         { return NewSupplierRepository(r.q) }
func (r repos) Purchases() repository.PurchaseRepository         { return NewPurchaseRepository(r.q) }
func (r repos) POSSessions() repository.POSSessionRepository     { return NewPOSSessionRepository(r.q) }
func (r repos) POSSales() repository.POSSaleRepository           { return NewPOSSaleRepository(r.q) }
func (r repos) Orders() repository.OrderRepository               { return NewOrderRepository(r.q) }
func (r repos) ShippingRates() repository.ShippingRateRepository { return NewShippingRateRepository(r.q) }
func (r repos) WompiConfig() repository.WompiConfigRepository    { return NewWompiConfigRepository(r.q) }
func (r repos) AuditLogs() repository.AuditLogRepository         { return NewAuditLogRepository(r.q) }
func (r repos) AuditConfigs() repository.AuditConfigRepository   { return NewAuditConfigRepository(r.q) }
func (r repos) Reports() repository.ReportRepository             { return NewReportRepository(r.q) }
