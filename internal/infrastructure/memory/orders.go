package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

type orderRepo struct{ s *Store }

func (r orderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.s.with(func(d *data) error {
		for _, x := range d.orders {
			if x.OrderNumber == o.OrderNumber {
				return domain.ErrDuplicate
			}
		}
		v := *o
		v.Items = slices.Clone(o.Items)
		d.orders[o.ID] = v
		return nil
	})
}

// Update reemplaza la cabecera conservando las líneas guardadas.
func (r orderRepo) Update(_ context.Context, o *entity.Order) error {
	return r.s.with(func(d *data) error {
		cur, ok := d.orders[o.ID]
		if !ok {
			return domain.ErrNotFound
		}
		v := *o
		v.Items = cur.Items
		d.orders[o.ID] = v
		return nil
	})
}

func (r orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.s.with(func(d *data) error {
		o, ok := d.orders[id]
		if !ok {
			return domain.ErrNotFound
		}
		o.Items = slices.Clone(o.Items)
		out = &o
		return nil
	})
	return out, err
}

func (r orderRepo) GetByNumber(_ context.Context, number string) (*entity.Order, error) {
	var out *entity.Order
	err := r.s.with(func(d *data) error {
		for _, o := range d.orders {
			if o.OrderNumber == number {
				o.Items = slices.Clone(o.Items)
				out = &o
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func matchOrder(o entity.Order, f repository.OrderFilter) bool {
	switch {
	case f.Status != "" && o.Status != f.Status,
		len(f.Statuses) > 0 && !slices.Contains(f.Statuses, o.Status),
		f.CustomerID != "" && o.CustomerID != f.CustomerID,
		f.From != nil && o.CreatedAt.Before(*f.From),
		f.To != nil && !o.CreatedAt.Before(*f.To):
		return false
	}
	return true
}

func (r orderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	var out []*entity.Order
	err := r.s.with(func(d *data) error {
		for _, o := range d.orders {
			if matchOrder(o, f) {
				o.Items = slices.Clone(o.Items)
				out = append(out, ptr(o))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Order) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.OrderNumber, a.OrderNumber))
	})
	return paginate(out, f.Page), len(out), err
}

type rateRepo struct{ s *Store }

func (r rateRepo) Create(_ context.Context, rt *entity.ShippingRate) error {
	return r.s.with(func(d *data) error {
		d.rates[rt.ID] = *rt
		return nil
	})
}

func (r rateRepo) Update(_ context.Context, rt *entity.ShippingRate) error {
	return r.s.with(func(d *data) error {
		if _, ok := d.rates[rt.ID]; !ok {
			return domain.ErrNotFound
		}
		d.rates[rt.ID] = *rt
		return nil
	})
}

func (r rateRepo) GetByID(_ context.Context, id string) (*entity.ShippingRate, error) {
	var out *entity.ShippingRate
	err := r.s.with(func(d *data) error {
		rt, ok := d.rates[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = ptr(rt)
		return nil
	})
	return out, err
}

func (r rateRepo) Delete(_ context.Context, id string) error {
	return r.s.with(func(d *data) error {
		if _, ok := d.rates[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.rates, id)
		return nil
	})
}

func (r rateRepo) List(_ context.Context, activeOnly bool) ([]*entity.ShippingRate, error) {
	var out []*entity.ShippingRate
	err := r.s.with(func(d *data) error {
		for _, rt := range d.rates {
			if !activeOnly || rt.IsActive {
				out = append(out, ptr(rt))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.ShippingRate) int {
		return cmp.Or(cmp.Compare(a.City, b.City), a.MinWeight.Cmp(b.MinWeight))
	})
	return out, err
}

type wompiRepo struct{ s *Store }

func (r wompiRepo) Get(_ context.Context) (*entity.WompiConfig, error) {
	var out *entity.WompiConfig
	err := r.s.with(func(d *data) error {
		if d.wompi == nil {
			return domain.ErrNotFound
		}
		out = ptr(*d.wompi)
		return nil
	})
	return out, err
}

func (r wompiRepo) Save(_ context.Context, c *entity.WompiConfig) error {
	return r.s.with(func(d *data) error {
		d.wompi = ptr(*c)
		return nil
	})
}
