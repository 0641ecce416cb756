package repository

import (
	"context"
	"time"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
)

// AuditLogRepository registros de auditoría.
type AuditLogRepository interface {
	Create(ctx context.Context, l *entity.AuditLog) error
	GetByID(ctx context.Context, id string) (*entity.AuditLog, error)
	List(ctx context.Context, f AuditFilter) ([]*entity.AuditLog, int, error)
	Stats(ctx context.Context, now time.Time) (*entity.AuditStats, error)
	CountOlderThan(ctx context.Context, entityType string, before time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, entityType string, before time.Time) (int64, error)
}

// AuditConfigRepository configuración de auditoría por tipo de entidad.
type AuditConfigRepository interface {
	GetByEntityType(ctx context.Context, entityType string) (*entity.AuditConfiguration, error)
	List(ctx context.Context) ([]*entity.AuditConfiguration, error)
	Upsert(ctx context.Context, c *entity.AuditConfiguration) error
}
