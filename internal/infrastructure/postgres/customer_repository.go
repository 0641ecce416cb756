package postgres

import (
	"context"
	"strings"

	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository        = (*CustomerRepo)(nil)
	_ repository.CustomerAddressRepository = (*CustomerAddressRepo)(nil)
	_ repository.LocationRepository        = (*LocationRepo)(nil)
)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, user_id, first_name, last_name, email, customer_type, document_type, document_number,
	phone, address, city, birth_date, channel, notes, is_active, created_at, updated_at`

func scanCustomer(row scanner) (*entity.Customer, error) {
	var c entity.Customer
	var userID *string
	err := row.Scan(&c.ID, &userID, &c.FirstName, &c.LastName, &c.Email, &c.CustomerType, &c.DocumentType,
		&c.DocumentNumber, &c.Phone, &c.Address, &c.City, &c.BirthDate, &c.Channel, &c.Notes, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.UserID = deref(userID)
	return &c, nil
}

// Create persiste un nuevo cliente. El número de documento es único.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		c.ID, nullable(c.UserID), c.FirstName, c.LastName, c.Email, c.CustomerType, c.DocumentType,
		c.DocumentNumber, c.Phone, c.Address, c.City, c.BirthDate, c.Channel, c.Notes, c.IsActive,
		c.CreatedAt, c.UpdatedAt,
	)
	return wrap("insert customer", err)
}

func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE customers SET user_id = $2, first_name = $3, last_name = $4, email = $5, customer_type = $6,
			document_type = $7, document_number = $8, phone = $9, address = $10, city = $11, birth_date = $12,
			channel = $13, notes = $14, is_active = $15, updated_at = $16
		WHERE id = $1`,
		c.ID, nullable(c.UserID), c.FirstName, c.LastName, c.Email, c.CustomerType, c.DocumentType,
		c.DocumentNumber, c.Phone, c.Address, c.City, c.BirthDate, c.Channel, c.Notes, c.IsActive, c.UpdatedAt,
	)
	return mustAffect(tag, err, "update customer")
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	return c, wrap("get customer", err)
}

func (r *CustomerRepo) GetByDocument(ctx context.Context, documentNumber string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE document_number = $1`, documentNumber))
	return c, wrap("get customer by document", err)
}

func (r *CustomerRepo) GetByUserID(ctx context.Context, userID string) (*entity.Customer, error) {
	if userID == "" {
		return nil, domain.ErrNotFound
	}
	c, err := scanCustomer(r.q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE user_id = $1 ORDER BY created_at LIMIT 1`, userID))
	return c, wrap("get customer by user", err)
}

// List clientes del más reciente al más antiguo, con total para paginar.
func (r *CustomerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.Customer, int, error) {
	var w where
	if f.CustomerType != "" {
		w.add("customer_type = ?", f.CustomerType)
	}
	if f.Active != nil {
		w.add("is_active = ?", *f.Active)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		w.add(`(first_name || ' ' || last_name || ' ' || email || ' ' || document_number || ' ' || phone) ILIKE '%' || ? || '%'`, s)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM customers`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, wrap("count customers", err)
	}
	p := f.Page.Normalize()
	query := `SELECT ` + customerColumns + ` FROM customers` + w.sql() + ` ORDER BY created_at DESC` + w.page(p.Limit, p.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	list, err := collect(rows, err, "list customers", scanCustomer)
	return list, total, err
}

// CustomerAddressRepo direcciones de envío.
type CustomerAddressRepo struct {
	q Querier
}

func NewCustomerAddressRepository(q Querier) *CustomerAddressRepo {
	return &CustomerAddressRepo{q: q}
}

const addressColumns = `id, customer_id, name, address, city, phone, notes, is_default, created_at`

func scanAddress(row scanner) (*entity.CustomerAddress, error) {
	var a entity.CustomerAddress
	if err := row.Scan(&a.ID, &a.CustomerID, &a.Name, &a.Address, &a.City, &a.Phone, &a.Notes, &a.IsDefault, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *CustomerAddressRepo) Create(ctx context.Context, a *entity.CustomerAddress) error {
	_, err := r.q.Exec(ctx, `INSERT INTO customer_addresses (`+addressColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.CustomerID, a.Name, a.Address, a.City, a.Phone, a.Notes, a.IsDefault, a.CreatedAt)
	return wrap("insert customer address", err)
}

func (r *CustomerAddressRepo) GetByID(ctx context.Context, id string) (*entity.CustomerAddress, error) {
	a, err := scanAddress(r.q.QueryRow(ctx, `SELECT `+addressColumns+` FROM customer_addresses WHERE id = $1`, id))
	return a, wrap("get customer address", err)
}

func (r *CustomerAddressRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.CustomerAddress, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+addressColumns+` FROM customer_addresses WHERE customer_id = $1 ORDER BY created_at`, customerID)
	return collect(rows, err, "list customer addresses", scanAddress)
}

func (r *CustomerAddressRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM customer_addresses WHERE id = $1`, id)
	return mustAffect(tag, err, "delete customer address")
}

// SetDefault deja una sola dirección por defecto para el cliente.
func (r *CustomerAddressRepo) SetDefault(ctx context.Context, customerID, addressID string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE customer_addresses SET is_default = (id = $2)
		WHERE customer_id = $1 AND EXISTS (SELECT 1 FROM customer_addresses WHERE id = $2 AND customer_id = $1)`,
		customerID, addressID)
	return mustAffect(tag, err, "set default address")
}

// LocationRepo países, departamentos y ciudades. Se identifican por external_id.
type LocationRepo struct {
	q Querier
}

func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func (r *LocationRepo) ListCountries(ctx context.Context) ([]*entity.Country, error) {
	rows, err := r.q.Query(ctx, `SELECT id, external_id, name, iso2, iso3 FROM countries ORDER BY name`)
	return collect(rows, err, "list countries", func(row scanner) (*entity.Country, error) {
		var c entity.Country
		return &c, row.Scan(&c.ID, &c.ExternalID, &c.Name, &c.ISO2, &c.ISO3)
	})
}

func (r *LocationRepo) ListDepartments(ctx context.Context, countryID int64) ([]*entity.Department, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, country_id, external_id, name, iso2 FROM departments WHERE country_id = $1 ORDER BY name`, countryID)
	return collect(rows, err, "list departments", func(row scanner) (*entity.Department, error) {
		var d entity.Department
		return &d, row.Scan(&d.ID, &d.CountryID, &d.ExternalID, &d.Name, &d.ISO2)
	})
}

func (r *LocationRepo) ListCities(ctx context.Context, departmentID int64) ([]*entity.City, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, department_id, external_id, name FROM cities WHERE department_id = $1 ORDER BY name`, departmentID)
	return collect(rows, err, "list cities", func(row scanner) (*entity.City, error) {
		var c entity.City
		return &c, row.Scan(&c.ID, &c.DepartmentID, &c.ExternalID, &c.Name)
	})
}

func (r *LocationRepo) UpsertCountry(ctx context.Context, c *entity.Country) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO countries (external_id, name, iso2, iso3) VALUES ($1, $2, $3, $4)
		ON CONFLICT (external_id) DO UPDATE SET name = EXCLUDED.name, iso2 = EXCLUDED.iso2, iso3 = EXCLUDED.iso3
		RETURNING id`, c.ExternalID, c.Name, c.ISO2, c.ISO3).Scan(&c.ID)
	return wrap("upsert country", err)
}

func (r *LocationRepo) UpsertDepartment(ctx context.Context, d *entity.Department) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO departments (country_id, external_id, name, iso2) VALUES ($1, $2, $3, $4)
		ON CONFLICT (external_id) DO UPDATE SET country_id = EXCLUDED.country_id, name = EXCLUDED.name, iso2 = EXCLUDED.iso2
		RETURNING id`, d.CountryID, d.ExternalID, d.Name, d.ISO2).Scan(&d.ID)
	return wrap("upsert department", err)
}

func (r *LocationRepo) UpsertCity(ctx context.Context, c *entity.City) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO cities (department_id, external_id, name) VALUES ($1, $2, $3)
		ON CONFLICT (external_id) DO UPDATE SET department_id = EXCLUDED.department_id, name = EXCLUDED.name
		RETURNING id`, c.DepartmentID, c.ExternalID, c.Name).Scan(&c.ID)
	return wrap("upsert city", err)
}
