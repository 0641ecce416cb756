package customers

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/pkg/phone"
)

// AddAddress agrega una dirección. La primera queda por defecto.
func (uc *UseCase) AddAddress(ctx context.Context, customerID string, in dto.AddressRequest) (*dto.AddressResponse, error) {
	tel, err := phone.Normalize(in.Phone)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	a := &entity.CustomerAddress{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Name:       in.Name,
		Address:    in.Address,
		City:       in.City,
		Phone:      tel,
		Notes:      in.Notes,
		IsDefault:  in.IsDefault,
		CreatedAt:  uc.now(),
	}
	err = uc.uow.Run(ctx, func(tx ports.Repositories) error {
		if _, err := tx.Customers().GetByID(ctx, customerID); err != nil {
			return err
		}
		existing, err := tx.CustomerAddresses().ListByCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			a.IsDefault = true
		}
		wantDefault := a.IsDefault
		a.IsDefault = false
		if err := tx.CustomerAddresses().Create(ctx, a); err != nil {
			return err
		}
		if wantDefault {
			a.IsDefault = true
			return tx.CustomerAddresses().SetDefault(ctx, customerID, a.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toAddressResponse(a)
	return &out, nil
}

// ListAddresses direcciones del cliente.
func (uc *UseCase) ListAddresses(ctx context.Context, customerID string) ([]dto.AddressResponse, error) {
	list, err := uc.uow.CustomerAddresses().ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AddressResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAddressResponse(a))
	}
	return out, nil
}

// DeleteAddress elimina una dirección del cliente.
func (uc *UseCase) DeleteAddress(ctx context.Context, customerID, addressID string) error {
	return uc.uow.Run(ctx, func(tx ports.Repositories) error {
		a, err := tx.CustomerAddresses().GetByID(ctx, addressID)
		if err != nil {
			return err
		}
		if a.CustomerID != customerID {
			return domain.ErrNotFound
		}
		return tx.CustomerAddresses().Delete(ctx, addressID)
	})
}

// SetDefaultAddress deja una única dirección por defecto.
func (uc *UseCase) SetDefaultAddress(ctx context.Context, customerID, addressID string) error {
	return uc.uow.Run(ctx, func(tx ports.Repositories) error {
		a, err := tx.CustomerAddresses().GetByID(ctx, addressID)
		if err != nil {
			return err
		}
		if a.CustomerID != customerID {
			return domain.ErrNotFound
		}
		return tx.CustomerAddresses().SetDefault(ctx, customerID, addressID)
	})
}

// ListCountries países.
func (uc *UseCase) ListCountries(ctx context.Context) ([]dto.CountryResponse, error) {
	list, err := uc.uow.Locations().ListCountries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CountryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CountryResponse{ID: c.ID, Name: c.Name, ISO2: c.ISO2, ISO3: c.ISO3})
	}
	return out, nil
}

// ListDepartments departamentos de un país.
func (uc *UseCase) ListDepartments(ctx context.Context, countryID int64) ([]dto.DepartmentResponse, error) {
	list, err := uc.uow.Locations().ListDepartments(ctx, countryID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DepartmentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.DepartmentResponse{ID: d.ID, CountryID: d.CountryID, Name: d.Name, ISO2: d.ISO2})
	}
	return out, nil
}

// ListCities ciudades de un departamento.
func (uc *UseCase) ListCities(ctx context.Context, departmentID int64) ([]dto.CityResponse, error) {
	list, err := uc.uow.Locations().ListCities(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CityResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CityResponse{ID: c.ID, DepartmentID: c.DepartmentID, Name: c.Name})
	}
	return out, nil
}

func toAddressResponse(a *entity.CustomerAddress) dto.AddressResponse {
	return dto.AddressResponse{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		Name:       a.Name,
		Address:    a.Address,
		City:       a.City,
		Phone:      a.Phone,
		Notes:      a.Notes,
		IsDefault:  a.IsDefault,
	}
}
