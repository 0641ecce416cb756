package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

type customerRepo struct{ s *Store }

func (r customerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.s.with(func(d *data) error {
		for _, x := range d.customers {
			if x.DocumentNumber == c.DocumentNumber {
				return domain.ErrDuplicate
			}
		}
		d.customers[c.ID] = *c
		return nil
	})
}

func (r customerRepo) Update(_ context.Context, c *entity.Customer) error {
	return r.s.with(func(d *data) error {
		if _, ok := d.customers[c.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, x := range d.customers {
			if x.ID != c.ID && x.DocumentNumber == c.DocumentNumber {
				return domain.ErrDuplicate
			}
		}
		d.customers[c.ID] = *c
		return nil
	})
}

func (r customerRepo) find(match func(entity.Customer) bool) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.s.with(func(d *data) error {
		for _, c := range d.customers {
			if match(c) {
				out = ptr(c)
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return r.find(func(c entity.Customer) bool { return c.ID == id })
}

func (r customerRepo) GetByDocument(_ context.Context, documentNumber string) (*entity.Customer, error) {
	return r.find(func(c entity.Customer) bool { return c.DocumentNumber == documentNumber })
}

func (r customerRepo) GetByUserID(_ context.Context, userID string) (*entity.Customer, error) {
	return r.find(func(c entity.Customer) bool { return userID != "" && c.UserID == userID })
}

func (r customerRepo) List(_ context.Context, f repository.CustomerFilter) ([]*entity.Customer, int, error) {
	var all []*entity.Customer
	search := strings.ToLower(strings.TrimSpace(f.Search))
	err := r.s.with(func(d *data) error {
		for _, c := range d.customers {
			if f.CustomerType != "" && c.CustomerType != f.CustomerType {
				continue
			}
			if f.Active != nil && c.IsActive != *f.Active {
				continue
			}
			if search != "" {
				hay := strings.ToLower(c.FirstName + " " + c.LastName + " " + c.Email + " " + c.DocumentNumber + " " + c.Phone)
				if !strings.Contains(hay, search) {
					continue
				}
			}
			all = append(all, ptr(c))
		}
		return nil
	})
	slices.SortFunc(all, func(a, b *entity.Customer) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return paginate(all, f.Page), len(all), err
}

type addressRepo struct{ s *Store }

func (r addressRepo) Create(_ context.Context, a *entity.CustomerAddress) error {
	return r.s.with(func(d *data) error {
		d.addresses[a.ID] = *a
		return nil
	})
}

func (r addressRepo) GetByID(_ context.Context, id string) (*entity.CustomerAddress, error) {
	var out *entity.CustomerAddress
	err := r.s.with(func(d *data) error {
		a, ok := d.addresses[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = ptr(a)
		return nil
	})
	return out, err
}

func (r addressRepo) ListByCustomer(_ context.Context, customerID string) ([]*entity.CustomerAddress, error) {
	var out []*entity.CustomerAddress
	err := r.s.with(func(d *data) error {
		for _, a := range d.addresses {
			if a.CustomerID == customerID {
				out = append(out, ptr(a))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.CustomerAddress) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, err
}

func (r addressRepo) Delete(_ context.Context, id string) error {
	return r.s.with(func(d *data) error {
		if _, ok := d.addresses[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.addresses, id)
		return nil
	})
}

func (r addressRepo) SetDefault(_ context.Context, customerID, addressID string) error {
	return r.s.with(func(d *data) error {
		target, ok := d.addresses[addressID]
		if !ok || target.CustomerID != customerID {
			return domain.ErrNotFound
		}
		for id, a := range d.addresses {
			if a.CustomerID == customerID {
				a.IsDefault = id == addressID
				d.addresses[id] = a
			}
		}
		return nil
	})
}

type locationRepo struct{ s *Store }

func (r locationRepo) ListCountries(_ context.Context) ([]*entity.Country, error) {
	var out []*entity.Country
	err := r.s.with(func(d *data) error {
		for _, c := range d.countries {
			out = append(out, ptr(c))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Country) int { return cmp.Compare(a.Name, b.Name) })
	return out, err
}

func (r locationRepo) ListDepartments(_ context.Context, countryID int64) ([]*entity.Department, error) {
	var out []*entity.Department
	err := r.s.with(func(d *data) error {
		for _, x := range d.departments {
			if x.CountryID == countryID {
				out = append(out, ptr(x))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Department) int { return cmp.Compare(a.Name, b.Name) })
	return out, err
}

func (r locationRepo) ListCities(_ context.Context, departmentID int64) ([]*entity.City, error) {
	var out []*entity.City
	err := r.s.with(func(d *data) error {
		for _, c := range d.cities {
			if c.DepartmentID == departmentID {
				out = append(out, ptr(c))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.City) int { return cmp.Compare(a.Name, b.Name) })
	return out, err
}

// Las ubicaciones se identifican por ExternalID; el ID interno se asigna al insertar.

func (r locationRepo) UpsertCountry(_ context.Context, c *entity.Country) error {
	return r.s.with(func(d *data) error {
		for id, x := range d.countries {
			if x.ExternalID == c.ExternalID {
				c.ID = id
				d.countries[id] = *c
				return nil
			}
		}
		c.ID = int64(len(d.countries) + 1)
		d.countries[c.ID] = *c
		return nil
	})
}

func (r locationRepo) UpsertDepartment(_ context.Context, dep *entity.Department) error {
	return r.s.with(func(d *data) error {
		for id, x := range d.departments {
			if x.ExternalID == dep.ExternalID {
				dep.ID = id
				d.departments[id] = *dep
				return nil
			}
		}
		dep.ID = int64(len(d.departments) + 1)
		d.departments[dep.ID] = *dep
		return nil
	})
}

func (r locationRepo) UpsertCity(_ context.Context, c *entity.City) error {
	return r.s.with(func(d *data) error {
		for id, x := range d.cities {
			if x.ExternalID == c.ExternalID {
				c.ID = id
				d.cities[id] = *c
				return nil
			}
		}
		c.ID = int64(len(d.cities) + 1)
		d.cities[c.ID] = *c
		return nil
	})
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	return r.s.with(func(d *data) error {
		for _, x := range d.users {
			if strings.EqualFold(x.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		d.users[u.ID] = *u
		return nil
	})
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.s.with(func(d *data) error {
		u, ok := d.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = ptr(u)
		return nil
	})
	return out, err
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.s.with(func(d *data) error {
		for _, u := range d.users {
			if strings.EqualFold(u.Email, email) {
				out = ptr(u)
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r userRepo) Update(_ context.Context, u *entity.User) error {
	return r.s.with(func(d *data) error {
		if _, ok := d.users[u.ID]; !ok {
			return domain.ErrNotFound
		}
		d.users[u.ID] = *u
		return nil
	})
}

func (r userRepo) List(_ context.Context, p repository.Page) ([]*entity.User, error) {
	var all []*entity.User
	err := r.s.with(func(d *data) error {
		for _, u := range d.users {
			all = append(all, ptr(u))
		}
		return nil
	})
	slices.SortFunc(all, func(a, b *entity.User) int { return cmp.Compare(a.Email, b.Email) })
	return paginate(all, p), err
}
