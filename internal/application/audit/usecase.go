package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
	"github.com/jhoicas/naturalmede-api/pkg/logger"
)

// UseCase consultas, configuración y limpieza de auditoría.
type UseCase struct {
	uow      ports.UnitOfWork
	recorder *Recorder
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(uow ports.UnitOfWork, recorder *Recorder, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{uow: uow, recorder: recorder, log: log.Named("audit"), now: time.Now}
}

// List lista registros con filtros y paginación.
func (uc *UseCase) List(ctx context.Context, in dto.AuditFilterRequest) (*dto.AuditLogListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.uow.AuditLogs().List(ctx, repository.AuditFilter{
		EntityType: in.EntityType,
		ObjectID:   in.ObjectID,
		UserID:     in.UserID,
		Action:     in.Action,
		Severity:   in.Severity,
		From:       in.From,
		To:         in.To,
		Page:       repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditLogResponse, 0, len(list))
	for _, l := range list {
		items = append(items, toLogResponse(l))
	}
	return &dto.AuditLogListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Get obtiene un registro por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.AuditLogResponse, error) {
	l, err := uc.uow.AuditLogs().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toLogResponse(l)
	return &out, nil
}

// Stats totales, registros de hoy, por severidad y rango de fechas.
func (uc *UseCase) Stats(ctx context.Context) (*dto.AuditStatsResponse, error) {
	s, err := uc.uow.AuditLogs().Stats(ctx, uc.now())
	if err != nil {
		return nil, err
	}
	return &dto.AuditStatsResponse{
		Total:      s.Total,
		Today:      s.Today,
		BySeverity: s.BySeverity,
		Oldest:     s.Oldest,
		Newest:     s.Newest,
	}, nil
}

// ListConfigs lista la configuración por tipo de entidad.
func (uc *UseCase) ListConfigs(ctx context.Context) ([]dto.AuditConfigResponse, error) {
	list, err := uc.uow.AuditConfigs().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditConfigResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toConfigResponse(c))
	}
	return out, nil
}

// GetConfig obtiene la configuración de un tipo de entidad.
func (uc *UseCase) GetConfig(ctx context.Context, entityType string) (*dto.AuditConfigResponse, error) {
	c, err := uc.uow.AuditConfigs().GetByEntityType(ctx, entityType)
	if err != nil {
		return nil, err
	}
	out := toConfigResponse(c)
	return &out, nil
}

// UpsertConfig crea o modifica la configuración. Los campos omitidos conservan su valor.
func (uc *UseCase) UpsertConfig(ctx context.Context, in dto.AuditConfigRequest) (*dto.AuditConfigResponse, error) {
	var before *dto.AuditConfigResponse
	cfg, err := uc.uow.AuditConfigs().GetByEntityType(ctx, in.EntityType)
	switch {
	case err == nil:
		snap := toConfigResponse(cfg)
		before = &snap
	case domain.IsNotFound(err):
		def := entity.DefaultAuditConfiguration(in.EntityType)
		def.ID = uuid.New().String()
		def.CreatedAt = uc.now()
		cfg = &def
	default:
		return nil, err
	}
	applyBool(&cfg.IsEnabled, in.IsEnabled)
	applyBool(&cfg.TrackCreates, in.TrackCreates)
	applyBool(&cfg.TrackUpdates, in.TrackUpdates)
	applyBool(&cfg.TrackDeletes, in.TrackDeletes)
	applyBool(&cfg.TrackViews, in.TrackViews)
	if in.TrackFields != nil {
		cfg.TrackFields = in.TrackFields
	}
	if in.ExcludeFields != nil {
		cfg.ExcludeFields = in.ExcludeFields
	}
	if in.SeverityLevel != "" {
		cfg.SeverityLevel = in.SeverityLevel
	}
	if in.RetentionDays > 0 {
		cfg.RetentionDays = in.RetentionDays
	}
	cfg.UpdatedAt = uc.now()
	if err := uc.uow.AuditConfigs().Upsert(ctx, cfg); err != nil {
		return nil, err
	}
	out := toConfigResponse(cfg)
	action := entity.AuditActionUpdate
	var old any = before
	if before == nil {
		action = entity.AuditActionCreate
		old = nil
	}
	uc.recorder.Record(ctx, Entry{
		Action:     action,
		EntityType: entity.AuditEntityConfiguration,
		ObjectID:   cfg.EntityType,
		ObjectRepr: cfg.EntityType,
		Old:        old,
		New:        out,
		Severity:   entity.SeverityHigh,
	})
	return &out, nil
}

// SeedDefaults crea la configuración por defecto de los tipos auditados que no la tengan.
func (uc *UseCase) SeedDefaults(ctx context.Context) (int, error) {
	created := 0
	for _, et := range entity.AuditedEntityTypes {
		_, err := uc.uow.AuditConfigs().GetByEntityType(ctx, et)
		if err == nil {
			continue
		}
		if !domain.IsNotFound(err) {
			return created, err
		}
		c := entity.DefaultAuditConfiguration(et)
		c.ID = uuid.New().String()
		c.CreatedAt = uc.now()
		c.UpdatedAt = c.CreatedAt
		if et == entity.AuditEntityWompiConfig || et == entity.AuditEntityUser {
			c.SeverityLevel = entity.SeverityHigh
		}
		if err := uc.uow.AuditConfigs().Upsert(ctx, &c); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// Cleanup borra (o cuenta, en dry run) los registros más antiguos que la retención de cada
// configuración habilitada. days, si no es nil, reemplaza la retención configurada.
func (uc *UseCase) Cleanup(ctx context.Context, days *int, dryRun bool) (*dto.CleanupResponse, error) {
	if days != nil && *days <= 0 {
		return nil, domain.ErrInvalidInput
	}
	configs, err := uc.uow.AuditConfigs().List(ctx)
	if err != nil {
		return nil, err
	}
	res := &dto.CleanupResponse{DryRun: dryRun, ByEntity: map[string]int64{}}
	now := uc.now()
	for _, c := range configs {
		if !c.IsEnabled {
			continue
		}
		retention := c.RetentionDays
		if days != nil {
			retention = *days
		}
		if retention <= 0 {
			retention = entity.DefaultRetentionDays
		}
		cutoff := now.AddDate(0, 0, -retention)
		var n int64
		if dryRun {
			n, err = uc.uow.AuditLogs().CountOlderThan(ctx, c.EntityType, cutoff)
		} else {
			n, err = uc.uow.AuditLogs().DeleteOlderThan(ctx, c.EntityType, cutoff)
		}
		if err != nil {
			return nil, err
		}
		res.ByEntity[c.EntityType] = n
		res.Total += n
	}
	uc.log.Info().Bool("dry_run", dryRun).Int64("total", res.Total).Msg("limpieza de auditoría")
	return res, nil
}

func applyBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func toLogResponse(l *entity.AuditLog) dto.AuditLogResponse {
	return dto.AuditLogResponse{
		ID:         l.ID,
		UserID:     l.UserID,
		Action:     l.Action,
		EntityType: l.EntityType,
		ObjectID:   l.ObjectID,
		ObjectRepr: l.ObjectRepr,
		OldValues:  l.OldValues,
		NewValues:  l.NewValues,
		Severity:   l.Severity,
		Status:     l.Status,
		Message:    l.Message,
		IPAddress:  l.IPAddress,
		UserAgent:  l.UserAgent,
		ExtraData:  l.ExtraData,
		CreatedAt:  l.CreatedAt,
	}
}

func toConfigResponse(c *entity.AuditConfiguration) dto.AuditConfigResponse {
	return dto.AuditConfigResponse{
		EntityType:    c.EntityType,
		IsEnabled:     c.IsEnabled,
		TrackFields:   append([]string{}, c.TrackFields...),
		ExcludeFields: append([]string{}, c.ExcludeFields...),
		TrackCreates:  c.TrackCreates,
		TrackUpdates:  c.TrackUpdates,
		TrackDeletes:  c.TrackDeletes,
		TrackViews:    c.TrackViews,
		SeverityLevel: c.SeverityLevel,
		RetentionDays: c.RetentionDays,
		UpdatedAt:     c.UpdatedAt,
	}
}
