package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

var (
	_ repository.AuditLogRepository    = (*AuditLogRepo)(nil)
	_ repository.AuditConfigRepository = (*AuditConfigRepo)(nil)
)

// AuditLogRepo registros de auditoría. Los valores antes/después se guardan como JSONB.
type AuditLogRepo struct {
	q Querier
}

func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

const auditLogColumns = `id, user_id, action, entity_type, object_id, object_repr, old_values, new_values, severity,
	status, message, ip_address, user_agent, extra_data, created_at`

func scanAuditLog(row scanner) (*entity.AuditLog, error) {
	var l entity.AuditLog
	err := row.Scan(&l.ID, &l.UserID, &l.Action, &l.EntityType, &l.ObjectID, &l.ObjectRepr, &l.OldValues, &l.NewValues,
		&l.Severity, &l.Status, &l.Message, &l.IPAddress, &l.UserAgent, &l.ExtraData, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *AuditLogRepo) Create(ctx context.Context, l *entity.AuditLog) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_logs (`+auditLogColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		l.ID, l.UserID, l.Action, l.EntityType, l.ObjectID, l.ObjectRepr, l.OldValues, l.NewValues, l.Severity,
		l.Status, l.Message, l.IPAddress, l.UserAgent, l.ExtraData, l.CreatedAt)
	return wrap("insert audit log", err)
}

func (r *AuditLogRepo) GetByID(ctx context.Context, id string) (*entity.AuditLog, error) {
	l, err := scanAuditLog(r.q.QueryRow(ctx, `SELECT `+auditLogColumns+` FROM audit_logs WHERE id = $1`, id))
	return l, wrap("get audit log", err)
}

// List registros del más reciente al más antiguo, con total para paginar.
func (r *AuditLogRepo) List(ctx context.Context, f repository.AuditFilter) ([]*entity.AuditLog, int, error) {
	var w where
	for _, c := range []struct{ col, val string }{
		{"entity_type", f.EntityType},
		{"object_id", f.ObjectID},
		{"user_id", f.UserID},
		{"action", f.Action},
		{"severity", f.Severity},
	} {
		if c.val != "" {
			w.add(c.col+" = ?", c.val)
		}
	}
	if f.From != nil {
		w.add("created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("created_at <= ?", *f.To)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM audit_logs`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, wrap("count audit logs", err)
	}
	p := f.Page.Normalize()
	query := `SELECT ` + auditLogColumns + ` FROM audit_logs` + w.sql() + ` ORDER BY created_at DESC` + w.page(p.Limit, p.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	list, err := collect(rows, err, "list audit logs", scanAuditLog)
	return list, total, err
}

// Stats totales, registros del día de now y conteo por severidad.
func (r *AuditLogRepo) Stats(ctx context.Context, now time.Time) (*entity.AuditStats, error) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	st := &entity.AuditStats{BySeverity: map[string]int64{}}
	err := r.q.QueryRow(ctx, `
		SELECT count(*), count(*) FILTER (WHERE created_at >= $1), min(created_at), max(created_at)
		FROM audit_logs`, today).Scan(&st.Total, &st.Today, &st.Oldest, &st.Newest)
	if err != nil {
		return nil, wrap("audit stats", err)
	}
	rows, err := r.q.Query(ctx, `SELECT severity, count(*) FROM audit_logs GROUP BY severity`)
	if err != nil {
		return nil, wrap("audit stats by severity", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sev string
		var n int64
		if err := rows.Scan(&sev, &n); err != nil {
			return nil, wrap("audit stats by severity", err)
		}
		st.BySeverity[sev] = n
	}
	return st, wrap("audit stats by severity", rows.Err())
}

func (r *AuditLogRepo) CountOlderThan(ctx context.Context, entityType string, before time.Time) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM audit_logs WHERE entity_type = $1 AND created_at < $2`, entityType, before).Scan(&n)
	return n, wrap("count old audit logs", err)
}

func (r *AuditLogRepo) DeleteOlderThan(ctx context.Context, entityType string, before time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM audit_logs WHERE entity_type = $1 AND created_at < $2`, entityType, before)
	if err != nil {
		return 0, wrap("delete old audit logs", err)
	}
	return tag.RowsAffected(), nil
}

// AuditConfigRepo configuración por tipo de entidad (única por entity_type).
type AuditConfigRepo struct {
	q Querier
}

func NewAuditConfigRepository(q Querier) *AuditConfigRepo {
	return &AuditConfigRepo{q: q}
}

const auditConfigColumns = `id, entity_type, is_enabled, track_fields, exclude_fields, track_creates, track_updates,
	track_deletes, track_views, severity_level, retention_days, created_at, updated_at`

func scanAuditConfig(row scanner) (*entity.AuditConfiguration, error) {
	var c entity.AuditConfiguration
	err := row.Scan(&c.ID, &c.EntityType, &c.IsEnabled, &c.TrackFields, &c.ExcludeFields, &c.TrackCreates,
		&c.TrackUpdates, &c.TrackDeletes, &c.TrackViews, &c.SeverityLevel, &c.RetentionDays, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *AuditConfigRepo) GetByEntityType(ctx context.Context, entityType string) (*entity.AuditConfiguration, error) {
	c, err := scanAuditConfig(r.q.QueryRow(ctx,
		`SELECT `+auditConfigColumns+` FROM audit_configurations WHERE entity_type = $1`, entityType))
	return c, wrap("get audit configuration", err)
}

func (r *AuditConfigRepo) List(ctx context.Context) ([]*entity.AuditConfiguration, error) {
	rows, err := r.q.Query(ctx, `SELECT `+auditConfigColumns+` FROM audit_configurations ORDER BY entity_type`)
	return collect(rows, err, "list audit configurations", scanAuditConfig)
}

// Upsert conserva id y created_at de la fila existente.
func (r *AuditConfigRepo) Upsert(ctx context.Context, c *entity.AuditConfiguration) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO audit_configurations (`+auditConfigColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (entity_type) DO UPDATE SET is_enabled = EXCLUDED.is_enabled, track_fields = EXCLUDED.track_fields,
			exclude_fields = EXCLUDED.exclude_fields, track_creates = EXCLUDED.track_creates,
			track_updates = EXCLUDED.track_updates, track_deletes = EXCLUDED.track_deletes,
			track_views = EXCLUDED.track_views, severity_level = EXCLUDED.severity_level,
			retention_days = EXCLUDED.retention_days, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`,
		c.ID, c.EntityType, c.IsEnabled, orEmpty(c.TrackFields), orEmpty(c.ExcludeFields), c.TrackCreates,
		c.TrackUpdates, c.TrackDeletes, c.TrackViews, c.SeverityLevel, c.RetentionDays, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID, &c.CreatedAt)
	return wrap("upsert audit configuration", err)
}

// orEmpty evita enviar NULL a columnas TEXT[] NOT NULL.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
