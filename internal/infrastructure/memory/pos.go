package memory

import (
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

type sessionRepo struct{ s *Store }

func (r sessionRepo) Create(_ context.Context, ps *entity.POSSession) error {
	return r.s.with(func(d *data) error {
		if ps.Status == entity.POSSessionOpen {
			for _, x := range d.sessions {
				if x.UserID == ps.UserID && x.Status == entity.POSSessionOpen {
					return domain.ErrSessionAlreadyOpen
				}
			}
		}
		d.sessions[ps.ID] = *ps
		return nil
	})
}

func (r sessionRepo) Update(_ context.Context, ps *entity.POSSession) error {
	return r.s.with(func(d *data) error {
		if _, ok := d.sessions[ps.ID]; !ok {
			return domain.ErrNotFound
		}
		d.sessions[ps.ID] = *ps
		return nil
	})
}

func (r sessionRepo) GetByID(_ context.Context, id string) (*entity.POSSession, error) {
	var out *entity.POSSession
	err := r.s.with(func(d *data) error {
		ps, ok := d.sessions[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = ptr(ps)
		return nil
	})
	return out, err
}

func (r sessionRepo) GetOpenByUser(_ context.Context, userID string) (*entity.POSSession, error) {
	var out *entity.POSSession
	err := r.s.with(func(d *data) error {
		for _, ps := range d.sessions {
			if ps.UserID == userID && ps.Status == entity.POSSessionOpen {
				out = ptr(ps)
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r sessionRepo) List(_ context.Context, f repository.POSSessionFilter) ([]*entity.POSSession, error) {
	var out []*entity.POSSession
	err := r.s.with(func(d *data) error {
		for _, ps := range d.sessions {
			if (f.UserID != "" && ps.UserID != f.UserID) || (f.Status != "" && ps.Status != f.Status) {
				continue
			}
			out = append(out, ptr(ps))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.POSSession) int { return b.OpenedAt.Compare(a.OpenedAt) })
	return paginate(out, f.Page), err
}

type saleRepo struct{ s *Store }

func (r saleRepo) Create(_ context.Context, sale *entity.POSSale) error {
	return r.s.with(func(d *data) error {
		for _, x := range d.sales {
			if x.SaleNumber == sale.SaleNumber {
				return domain.ErrDuplicate
			}
		}
		v := *sale
		v.Items = slices.Clone(sale.Items)
		d.sales[sale.ID] = v
		return nil
	})
}

func (r saleRepo) GetByID(_ context.Context, id string) (*entity.POSSale, error) {
	var out *entity.POSSale
	err := r.s.with(func(d *data) error {
		sale, ok := d.sales[id]
		if !ok {
			return domain.ErrNotFound
		}
		sale.Items = slices.Clone(sale.Items)
		out = &sale
		return nil
	})
	return out, err
}

func (r saleRepo) List(_ context.Context, f repository.POSSaleFilter) ([]*entity.POSSale, error) {
	var out []*entity.POSSale
	err := r.s.with(func(d *data) error {
		for _, sale := range d.sales {
			switch {
			case f.SessionID != "" && sale.SessionID != f.SessionID,
				f.From != nil && sale.CreatedAt.Before(*f.From),
				f.To != nil && sale.CreatedAt.After(*f.To):
				continue
			}
			sale.Items = slices.Clone(sale.Items)
			out = append(out, ptr(sale))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.POSSale) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return paginate(out, f.Page), err
}

func (r saleRepo) SessionTotals(_ context.Context, sessionID string) (decimal.Decimal, int, error) {
	total, count := decimal.Zero, 0
	err := r.s.with(func(d *data) error {
		for _, sale := range d.sales {
			if sale.SessionID == sessionID {
				total = total.Add(sale.Total)
				count++
			}
		}
		return nil
	})
	return total, count, err
}
