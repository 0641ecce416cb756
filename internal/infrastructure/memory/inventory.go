package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

type warehouseRepo struct{ s *Store }

func (r warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.s.with(func(d *data) error {
		for _, x := range d.warehouses {
			if strings.EqualFold(x.Code, w.Code) {
				return domain.ErrDuplicate
			}
		}
		d.warehouses[w.ID] = *w
		return nil
	})
}

func (r warehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	return r.s.with(func(d *data) error {
		if _, ok := d.warehouses[w.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, x := range d.warehouses {
			if x.ID != w.ID && strings.EqualFold(x.Code, w.Code) {
				return domain.ErrDuplicate
			}
		}
		d.warehouses[w.ID] = *w
		return nil
	})
}

func (r warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.s.with(func(d *data) error {
		w, ok := d.warehouses[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = ptr(w)
		return nil
	})
	return out, err
}

func (r warehouseRepo) GetByCode(_ context.Context, code string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.s.with(func(d *data) error {
		for _, w := range d.warehouses {
			if strings.EqualFold(w.Code, code) {
				out = ptr(w)
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r warehouseRepo) List(_ context.Context, activeOnly bool) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.s.with(func(d *data) error {
		for _, w := range d.warehouses {
			if !activeOnly || w.IsActive {
				out = append(out, ptr(w))
			}
		}
		return nil
	})
	sortWarehouses(out)
	return out, err
}

// sortWarehouses principal primero, luego por fecha de creación.
func sortWarehouses(list []*entity.Warehouse) {
	slices.SortFunc(list, func(a, b *entity.Warehouse) int {
		if a.IsMain != b.IsMain {
			if a.IsMain {
				return -1
			}
			return 1
		}
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.Code, b.Code))
	})
}

func (r warehouseRepo) GetDefault(ctx context.Context) (*entity.Warehouse, error) {
	list, err := r.List(ctx, true)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return list[0], nil
}

func (r warehouseRepo) ClearMain(_ context.Context, exceptID string) error {
	return r.s.with(func(d *data) error {
		for id, w := range d.warehouses {
			if id != exceptID && w.IsMain {
				w.IsMain = false
				d.warehouses[id] = w
			}
		}
		return nil
	})
}

type stockRepo struct{ s *Store }

func (r stockRepo) Apply(_ context.Context, productID, warehouseID string, delta int) (int, int, error) {
	var before, after int
	err := r.s.with(func(d *data) error {
		key := repository.StockKey{ProductID: productID, WarehouseID: warehouseID}
		st, ok := d.stock[key]
		if !ok {
			st = entity.Stock{ProductID: productID, WarehouseID: warehouseID, CreatedAt: time.Now()}
		}
		if st.Quantity+delta < 0 {
			return domain.ErrInsufficientStock
		}
		before = st.Quantity
		st.Quantity += delta
		st.UpdatedAt = time.Now()
		after = st.Quantity
		d.stock[key] = st
		return nil
	})
	return before, after, err
}

func (r stockRepo) Lock(_ context.Context, keys []repository.StockKey) (map[repository.StockKey]int, error) {
	out := make(map[repository.StockKey]int, len(keys))
	err := r.s.with(func(d *data) error {
		for _, k := range keys {
			out[k] = d.stock[k].Quantity
		}
		return nil
	})
	return out, err
}

func (r stockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.Stock, error) {
	var out *entity.Stock
	err := r.s.with(func(d *data) error {
		st, ok := d.stock[repository.StockKey{ProductID: productID, WarehouseID: warehouseID}]
		if !ok {
			st = entity.Stock{ProductID: productID, WarehouseID: warehouseID}
		}
		out = ptr(st)
		return nil
	})
	return out, err
}

func (r stockRepo) SaveThresholds(_ context.Context, s *entity.Stock) error {
	return r.s.with(func(d *data) error {
		key := repository.StockKey{ProductID: s.ProductID, WarehouseID: s.WarehouseID}
		st, ok := d.stock[key]
		if !ok {
			st = entity.Stock{ProductID: s.ProductID, WarehouseID: s.WarehouseID, CreatedAt: time.Now()}
		}
		st.MinStock = s.MinStock
		st.MaxStock = s.MaxStock
		st.Location = s.Location
		st.UpdatedAt = time.Now()
		d.stock[key] = st
		return nil
	})
}

func (r stockRepo) List(_ context.Context, f repository.StockFilter) ([]*entity.Stock, error) {
	var out []*entity.Stock
	err := r.s.with(func(d *data) error {
		for _, st := range d.stock {
			switch {
			case f.WarehouseID != "" && st.WarehouseID != f.WarehouseID,
				f.ProductID != "" && st.ProductID != f.ProductID,
				f.LowOnly && !st.IsLowStock():
				continue
			}
			out = append(out, ptr(st))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Stock) int {
		return cmp.Or(cmp.Compare(a.ProductID, b.ProductID), cmp.Compare(a.WarehouseID, b.WarehouseID))
	})
	return out, err
}

func (r stockRepo) TotalByProduct(_ context.Context, productID string) (int, error) {
	total := 0
	err := r.s.with(func(d *data) error {
		for _, st := range d.stock {
			if st.ProductID == productID {
				total += st.Quantity
			}
		}
		return nil
	})
	return total, err
}

type movementRepo struct{ s *Store }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.s.with(func(d *data) error {
		d.movements = append(d.movements, *m)
		return nil
	})
}

func (r movementRepo) ListBySource(_ context.Context, sourceKind, sourceID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.s.with(func(d *data) error {
		for _, m := range d.movements {
			if m.SourceKind == sourceKind && m.SourceID == sourceID {
				out = append(out, ptr(m))
			}
		}
		return nil
	})
	return out, err
}

func matchMovement(m entity.StockMovement, f repository.MovementFilter) bool {
	switch {
	case f.ProductID != "" && m.ProductID != f.ProductID,
		f.WarehouseID != "" && m.WarehouseID != f.WarehouseID,
		f.Type != "" && m.Type != f.Type,
		f.From != nil && m.CreatedAt.Before(*f.From),
		f.To != nil && m.CreatedAt.After(*f.To):
		return false
	}
	return true
}

// List movimientos del más reciente al más antiguo.
func (r movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.s.with(func(d *data) error {
		for i := len(d.movements) - 1; i >= 0; i-- {
			if matchMovement(d.movements[i], f) {
				out = append(out, ptr(d.movements[i]))
			}
		}
		return nil
	})
	return paginate(out, f.Page), err
}

// Trace filas en orden cronológico con nombres de producto y bodega.
func (r movementRepo) Trace(_ context.Context, f repository.MovementFilter) ([]*entity.InventoryTrace, error) {
	var out []*entity.InventoryTrace
	err := r.s.with(func(d *data) error {
		for _, m := range d.movements {
			if !matchMovement(m, f) {
				continue
			}
			traceType := entity.TraceTypeFor(&m)
			if f.TraceType != "" && traceType != f.TraceType {
				continue
			}
			row := &entity.InventoryTrace{
				MovementID:   m.ID,
				TraceType:    traceType,
				MovementType: m.Type,
				ProductID:    m.ProductID,
				WarehouseID:  m.WarehouseID,
				Quantity:     m.Quantity,
				StockBefore:  m.QuantityBefore,
				StockAfter:   m.QuantityAfter,
				Reference:    m.Reference,
				Notes:        m.Notes,
				UserID:       m.UserID,
				SourceKind:   m.SourceKind,
				SourceID:     m.SourceID,
				CreatedAt:    m.CreatedAt,
			}
			if p, ok := d.products[m.ProductID]; ok {
				row.ProductName, row.ProductSKU = p.Name, p.SKU
			}
			if w, ok := d.warehouses[m.WarehouseID]; ok {
				row.WarehouseName = w.Name
			}
			out = append(out, row)
		}
		return nil
	})
	return out, err
}

type transferRepo struct{ s *Store }

func (r transferRepo) Create(_ context.Context, t *entity.StockTransfer) error {
	return r.s.with(func(d *data) error {
		v := *t
		v.Items = slices.Clone(t.Items)
		d.transfers[t.ID] = v
		return nil
	})
}

func (r transferRepo) GetByID(_ context.Context, id string) (*entity.StockTransfer, error) {
	var out *entity.StockTransfer
	err := r.s.with(func(d *data) error {
		t, ok := d.transfers[id]
		if !ok {
			return domain.ErrNotFound
		}
		t.Items = slices.Clone(t.Items)
		out = &t
		return nil
	})
	return out, err
}

func (r transferRepo) List(_ context.Context, status string, p repository.Page) ([]*entity.StockTransfer, error) {
	var out []*entity.StockTransfer
	err := r.s.with(func(d *data) error {
		for _, t := range d.transfers {
			if status == "" || t.Status == status {
				t.Items = slices.Clone(t.Items)
				out = append(out, ptr(t))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.StockTransfer) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return paginate(out, p), err
}

func (r transferRepo) UpdateStatus(_ context.Context, t *entity.StockTransfer) error {
	return r.s.with(func(d *data) error {
		cur, ok := d.transfers[t.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status = t.Status
		cur.CompletedAt = t.CompletedAt
		d.transfers[t.ID] = cur
		return nil
	})
}

type sequenceRepo struct{ s *Store }

func (r sequenceRepo) Next(_ context.Context, key string) (int64, error) {
	var n int64
	err := r.s.with(func(d *data) error {
		d.sequences[key]++
		n = d.sequences[key]
		return nil
	})
	return n, err
}
