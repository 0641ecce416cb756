package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

type auditLogRepo struct{ s *Store }

func (r auditLogRepo) Create(_ context.Context, l *entity.AuditLog) error {
	return r.s.with(func(d *data) error {
		d.auditLogs = append(d.auditLogs, *l)
		return nil
	})
}

func (r auditLogRepo) GetByID(_ context.Context, id string) (*entity.AuditLog, error) {
	var out *entity.AuditLog
	err := r.s.with(func(d *data) error {
		idx := slices.IndexFunc(d.auditLogs, func(l entity.AuditLog) bool { return l.ID == id })
		if idx < 0 {
			return domain.ErrNotFound
		}
		out = ptr(d.auditLogs[idx])
		return nil
	})
	return out, err
}

func (r auditLogRepo) List(_ context.Context, f repository.AuditFilter) ([]*entity.AuditLog, int, error) {
	var out []*entity.AuditLog
	err := r.s.with(func(d *data) error {
		for i := len(d.auditLogs) - 1; i >= 0; i-- {
			l := d.auditLogs[i]
			switch {
			case f.EntityType != "" && l.EntityType != f.EntityType,
				f.ObjectID != "" && l.ObjectID != f.ObjectID,
				f.UserID != "" && l.UserID != f.UserID,
				f.Action != "" && l.Action != f.Action,
				f.Severity != "" && l.Severity != f.Severity,
				f.From != nil && l.CreatedAt.Before(*f.From),
				f.To != nil && l.CreatedAt.After(*f.To):
				continue
			}
			out = append(out, ptr(l))
		}
		return nil
	})
	slices.SortStableFunc(out, func(a, b *entity.AuditLog) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return paginate(out, f.Page), len(out), err
}

func (r auditLogRepo) Stats(_ context.Context, now time.Time) (*entity.AuditStats, error) {
	st := &entity.AuditStats{BySeverity: map[string]int64{}}
	y, m, dd := now.Date()
	today := time.Date(y, m, dd, 0, 0, 0, 0, now.Location())
	err := r.s.with(func(d *data) error {
		for _, l := range d.auditLogs {
			st.Total++
			st.BySeverity[l.Severity]++
			if !l.CreatedAt.Before(today) {
				st.Today++
			}
			if st.Oldest == nil || l.CreatedAt.Before(*st.Oldest) {
				st.Oldest = ptr(l.CreatedAt)
			}
			if st.Newest == nil || l.CreatedAt.After(*st.Newest) {
				st.Newest = ptr(l.CreatedAt)
			}
		}
		return nil
	})
	return st, err
}

func (r auditLogRepo) CountOlderThan(_ context.Context, entityType string, before time.Time) (int64, error) {
	var n int64
	err := r.s.with(func(d *data) error {
		for _, l := range d.auditLogs {
			if l.EntityType == entityType && l.CreatedAt.Before(before) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r auditLogRepo) DeleteOlderThan(_ context.Context, entityType string, before time.Time) (int64, error) {
	var n int64
	err := r.s.with(func(d *data) error {
		kept := make([]entity.AuditLog, 0, len(d.auditLogs))
		for _, l := range d.auditLogs {
			if l.EntityType == entityType && l.CreatedAt.Before(before) {
				n++
				continue
			}
			kept = append(kept, l)
		}
		d.auditLogs = kept
		return nil
	})
	return n, err
}

type auditConfigRepo struct{ s *Store }

func (r auditConfigRepo) GetByEntityType(_ context.Context, entityType string) (*entity.AuditConfiguration, error) {
	var out *entity.AuditConfiguration
	err := r.s.with(func(d *data) error {
		c, ok := d.auditConfigs[entityType]
		if !ok {
			return domain.ErrNotFound
		}
		c.TrackFields = slices.Clone(c.TrackFields)
		c.ExcludeFields = slices.Clone(c.ExcludeFields)
		out = &c
		return nil
	})
	return out, err
}

func (r auditConfigRepo) List(_ context.Context) ([]*entity.AuditConfiguration, error) {
	var out []*entity.AuditConfiguration
	err := r.s.with(func(d *data) error {
		for _, c := range d.auditConfigs {
			c.TrackFields = slices.Clone(c.TrackFields)
			c.ExcludeFields = slices.Clone(c.ExcludeFields)
			out = append(out, ptr(c))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.AuditConfiguration) int { return cmp.Compare(a.EntityType, b.EntityType) })
	return out, err
}

func (r auditConfigRepo) Upsert(_ context.Context, c *entity.AuditConfiguration) error {
	return r.s.with(func(d *data) error {
		v := *c
		if cur, ok := d.auditConfigs[c.EntityType]; ok {
			v.ID = cur.ID
			v.CreatedAt = cur.CreatedAt
		}
		v.TrackFields = slices.Clone(c.TrackFields)
		v.ExcludeFields = slices.Clone(c.ExcludeFields)
		d.auditConfigs[c.EntityType] = v
		return nil
	})
}
