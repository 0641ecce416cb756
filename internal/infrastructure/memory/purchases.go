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

type supplierRepo struct{ s *Store }

func (r supplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	return r.s.with(func(d *data) error {
		d.suppliers[sp.ID] = *sp
		return nil
	})
}

func (r supplierRepo) Update(_ context.Context, sp *entity.Supplier) error {
	return r.s.with(func(d *data) error {
		if _, ok := d.suppliers[sp.ID]; !ok {
			return domain.ErrNotFound
		}
		d.suppliers[sp.ID] = *sp
		return nil
	})
}

func (r supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.s.with(func(d *data) error {
		sp, ok := d.suppliers[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = ptr(sp)
		return nil
	})
	return out, err
}

func (r supplierRepo) List(_ context.Context, search string, activeOnly bool) ([]*entity.Supplier, error) {
	search = strings.ToLower(strings.TrimSpace(search))
	var out []*entity.Supplier
	err := r.s.with(func(d *data) error {
		for _, sp := range d.suppliers {
			if activeOnly && !sp.IsActive {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(sp.Name), search) &&
				!strings.Contains(strings.ToLower(sp.TaxID), search) {
				continue
			}
			out = append(out, ptr(sp))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Supplier) int { return cmp.Compare(a.Name, b.Name) })
	return out, err
}

type purchaseRepo struct{ s *Store }

func (r purchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	return r.s.with(func(d *data) error {
		for _, x := range d.purchases {
			if x.PurchaseNumber == p.PurchaseNumber {
				return domain.ErrDuplicate
			}
		}
		v := *p
		v.Items = slices.Clone(p.Items)
		d.purchases[p.ID] = v
		return nil
	})
}

// Update reemplaza la cabecera; las líneas se gestionan con AddItem y DeleteItem.
func (r purchaseRepo) Update(_ context.Context, p *entity.Purchase) error {
	return r.s.with(func(d *data) error {
		cur, ok := d.purchases[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		v := *p
		v.Items = cur.Items
		d.purchases[p.ID] = v
		return nil
	})
}

func (r purchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	err := r.s.with(func(d *data) error {
		p, ok := d.purchases[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.Items = slices.Clone(p.Items)
		out = &p
		return nil
	})
	return out, err
}

func (r purchaseRepo) List(_ context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, int, error) {
	var out []*entity.Purchase
	err := r.s.with(func(d *data) error {
		for _, p := range d.purchases {
			if (f.Status != "" && p.Status != f.Status) || (f.SupplierID != "" && p.SupplierID != f.SupplierID) {
				continue
			}
			p.Items = slices.Clone(p.Items)
			out = append(out, ptr(p))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Purchase) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.PurchaseNumber, a.PurchaseNumber))
	})
	return paginate(out, f.Page), len(out), err
}

func (r purchaseRepo) AddItem(_ context.Context, item *entity.PurchaseItem) error {
	return r.s.with(func(d *data) error {
		p, ok := d.purchases[item.PurchaseID]
		if !ok {
			return domain.ErrNotFound
		}
		p.Items = append(slices.Clone(p.Items), *item)
		d.purchases[p.ID] = p
		return nil
	})
}

func (r purchaseRepo) DeleteItem(_ context.Context, purchaseID, itemID string) error {
	return r.s.with(func(d *data) error {
		p, ok := d.purchases[purchaseID]
		if !ok {
			return domain.ErrNotFound
		}
		idx := slices.IndexFunc(p.Items, func(it entity.PurchaseItem) bool { return it.ID == itemID })
		if idx < 0 {
			return domain.ErrNotFound
		}
		p.Items = slices.Delete(slices.Clone(p.Items), idx, idx+1)
		d.purchases[p.ID] = p
		return nil
	})
}

func (r purchaseRepo) CreateReceipt(_ context.Context, rc *entity.PurchaseReceipt) error {
	return r.s.with(func(d *data) error {
		if _, ok := d.receipts[rc.PurchaseID]; ok {
			return domain.ErrDuplicate
		}
		d.receipts[rc.PurchaseID] = *rc
		return nil
	})
}

func (r purchaseRepo) GetReceipt(_ context.Context, purchaseID string) (*entity.PurchaseReceipt, error) {
	var out *entity.PurchaseReceipt
	err := r.s.with(func(d *data) error {
		rc, ok := d.receipts[purchaseID]
		if !ok {
			return domain.ErrNotFound
		}
		out = ptr(rc)
		return nil
	})
	return out, err
}
