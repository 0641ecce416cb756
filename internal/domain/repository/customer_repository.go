package repository

import (
	"context"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer (DIP).
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	Update(ctx context.Context, c *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByDocument(ctx context.Context, documentNumber string) (*entity.Customer, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Customer, error)
	List(ctx context.Context, f CustomerFilter) ([]*entity.Customer, int, error)
}

// CustomerAddressRepository direcciones de envío.
type CustomerAddressRepository interface {
	Create(ctx context.Context, a *entity.CustomerAddress) error
	GetByID(ctx context.Context, id string) (*entity.CustomerAddress, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.CustomerAddress, error)
	Delete(ctx context.Context, id string) error
	SetDefault(ctx context.Context, customerID, addressID string) error
}

// LocationRepository catálogo de países, departamentos y ciudades.
type LocationRepository interface {
	ListCountries(ctx context.Context) ([]*entity.Country, error)
	ListDepartments(ctx context.Context, countryID int64) ([]*entity.Department, error)
	ListCities(ctx context.Context, departmentID int64) ([]*entity.City, error)
	UpsertCountry(ctx context.Context, c *entity.Country) error
	UpsertDepartment(ctx context.Context, d *entity.Department) error
	UpsertCity(ctx context.Context, c *entity.City) error
}
