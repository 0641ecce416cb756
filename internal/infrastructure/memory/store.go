// Package memory implementa la unidad de trabajo y los repositorios en memoria del proceso.
// Se usa en pruebas de casos de uso y para levantar la API sin base de datos.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

// Store guarda todas las tablas en mapas. Las transacciones se serializan con txMu
// y al fallar restauran la copia tomada al inicio.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	d    data
}

type data struct {
	users        map[string]entity.User
	categories   map[string]entity.Category
	brands       map[string]entity.Brand
	products     map[string]entity.Product
	images       map[string]entity.ProductImage
	carts        map[string]entity.Cart
	cartItems    map[string]entity.CartItem
	customers    map[string]entity.Customer
	addresses    map[string]entity.CustomerAddress
	countries    map[int64]entity.Country
	departments  map[int64]entity.Department
	cities       map[int64]entity.City
	warehouses   map[string]entity.Warehouse
	stock        map[repository.StockKey]entity.Stock
	movements    []entity.StockMovement
	transfers    map[string]entity.StockTransfer
	sequences    map[string]int64
	suppliers    map[string]entity.Supplier
	purchases    map[string]entity.Purchase
	receipts     map[string]entity.PurchaseReceipt
	sessions     map[string]entity.POSSession
	sales        map[string]entity.POSSale
	orders       map[string]entity.Order
	rates        map[string]entity.ShippingRate
	wompi        *entity.WompiConfig
	auditLogs    []entity.AuditLog
	auditConfigs map[string]entity.AuditConfiguration
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{d: data{
		users:        map[string]entity.User{},
		categories:   map[string]entity.Category{},
		brands:       map[string]entity.Brand{},
		products:     map[string]entity.Product{},
		images:       map[string]entity.ProductImage{},
		carts:        map[string]entity.Cart{},
		cartItems:    map[string]entity.CartItem{},
		customers:    map[string]entity.Customer{},
		addresses:    map[string]entity.CustomerAddress{},
		countries:    map[int64]entity.Country{},
		departments:  map[int64]entity.Department{},
		cities:       map[int64]entity.City{},
		warehouses:   map[string]entity.Warehouse{},
		stock:        map[repository.StockKey]entity.Stock{},
		transfers:    map[string]entity.StockTransfer{},
		sequences:    map[string]int64{},
		suppliers:    map[string]entity.Supplier{},
		purchases:    map[string]entity.Purchase{},
		receipts:     map[string]entity.PurchaseReceipt{},
		sessions:     map[string]entity.POSSession{},
		sales:        map[string]entity.POSSale{},
		orders:       map[string]entity.Order{},
		rates:        map[string]entity.ShippingRate{},
		auditConfigs: map[string]entity.AuditConfiguration{},
	}}
}

// snapshot copia superficial de cada tabla. Los valores guardados nunca se mutan en sitio
// (las escrituras reemplazan el valor con slices clonados), así que basta con copiar los mapas.
func (d *data) snapshot() data {
	c := *d
	c.users = maps.Clone(d.users)
	c.categories = maps.Clone(d.categories)
	c.brands = maps.Clone(d.brands)
	c.products = maps.Clone(d.products)
	c.images = maps.Clone(d.images)
	c.carts = maps.Clone(d.carts)
	c.cartItems = maps.Clone(d.cartItems)
	c.customers = maps.Clone(d.customers)
	c.addresses = maps.Clone(d.addresses)
	c.countries = maps.Clone(d.countries)
	c.departments = maps.Clone(d.departments)
	c.cities = maps.Clone(d.cities)
	c.warehouses = maps.Clone(d.warehouses)
	c.stock = maps.Clone(d.stock)
	c.movements = slices.Clone(d.movements)
	c.transfers = maps.Clone(d.transfers)
	c.sequences = maps.Clone(d.sequences)
	c.suppliers = maps.Clone(d.suppliers)
	c.purchases = maps.Clone(d.purchases)
	c.receipts = maps.Clone(d.receipts)
	c.sessions = maps.Clone(d.sessions)
	c.sales = maps.Clone(d.sales)
	c.orders = maps.Clone(d.orders)
	c.rates = maps.Clone(d.rates)
	if d.wompi != nil {
		w := *d.wompi
		c.wompi = &w
	}
	c.auditLogs = slices.Clone(d.auditLogs)
	c.auditConfigs = maps.Clone(d.auditConfigs)
	return c
}

// Run ejecuta fn de forma exclusiva; si fn devuelve error se descartan sus escrituras.
func (s *Store) Run(ctx context.Context, fn func(tx ports.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snap := s.d.snapshot()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.d = snap
		s.mu.Unlock()
		return err
	}
	return nil
}

// with ejecuta fn con el candado de datos tomado.
func (s *Store) with(fn func(d *data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.d)
}

func (s *Store) Users() repository.UserRepository                        { return userRepo{s} }
func (s *Store) Categories() repository.CategoryRepository               { return categoryRepo{s} }
func (s *Store) Brands() repository.BrandRepository                      { return brandRepo{s} }
func (s *Store) Products() repository.ProductRepository                  { return productRepo{s} }
func (s *Store) ProductImages() repository.ProductImageRepository        { return imageRepo{s} }
func (s *Store) Carts() repository.CartRepository                        { return cartRepo{s} }
func (s *Store) Customers() repository.CustomerRepository                { return customerRepo{s} }
func (s *Store) CustomerAddresses() repository.CustomerAddressRepository { return addressRepo{s} }
func (s *Store) Locations() repository.LocationRepository                { return locationRepo{s} }
func (s *Store) Warehouses() repository.WarehouseRepository              { return warehouseRepo{s} }
func (s *Store) Stock() repository.StockRepository                       { return stockRepo{s} }
func (s *Store) Movements() repository.StockMovementRepository           { return movementRepo{s} }
func (s *Store) Transfers() repository.TransferRepository                { return transferRepo{s} }
func (s *Store) Sequences() repository.SequenceRepository                { return sequenceRepo{s} }
func (s *Store) Suppliers() repository.SupplierRepository                { return supplierRepo{s} }
func (s *Store) Purchases() repository.PurchaseRepository                { return purchaseRepo{s} }
func (s *Store) POSSessions() repository.POSSessionRepository            { return sessionRepo{s} }
func (s *Store) POSSales() repository.POSSaleRepository                  { return saleRepo{s} }
func (s *Store) Orders() repository.OrderRepository                      { return orderRepo{s} }
func (s *Store) ShippingRates() repository.ShippingRateRepository        { return rateRepo{s} }
func (s *Store) WompiConfig() repository.WompiConfigRepository           { return wompiRepo{s} }
func (s *Store) AuditLogs() repository.AuditLogRepository                { return auditLogRepo{s} }
func (s *Store) AuditConfigs() repository.AuditConfigRepository          { return auditConfigRepo{s} }
func (s *Store) Reports() repository.ReportRepository                    { return reportRepo{s} }

var _ ports.UnitOfWork = (*Store)(nil)

// paginate recorta la lista según la página normalizada.
func paginate[T any](list []T, p repository.Page) []T {
	p = p.Normalize()
	if p.Offset >= len(list) {
		return []T{}
	}
	end := p.Offset + p.Limit
	if end > len(list) {
		end = len(list)
	}
	return list[p.Offset:end]
}

// ptr devuelve un puntero a una copia del valor.
func ptr[T any](v T) *T { return &v }
