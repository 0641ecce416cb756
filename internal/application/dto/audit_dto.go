package dto

import (
	"encoding/json"
	"time"
)

// AuditLogResponse salida de un registro de auditoría.
type AuditLogResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id,omitempty"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	ObjectID   string          `json:"object_id,omitempty"`
	ObjectRepr string          `json:"object_repr,omitempty"`
	OldValues  json.RawMessage `json:"old_values,omitempty"`
	NewValues  json.RawMessage `json:"new_values,omitempty"`
	Severity   string          `json:"severity"`
	Status     string          `json:"status"`
	Message    string          `json:"message,omitempty"`
	IPAddress  string          `json:"ip_address,omitempty"`
	UserAgent  string          `json:"user_agent,omitempty"`
	ExtraData  json.RawMessage `json:"extra_data,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AuditFilterRequest filtros del listado de auditoría.
type AuditFilterRequest struct {
	EntityType string     `query:"entity_type"`
	ObjectID   string     `query:"object_id"`
	UserID     string     `query:"user_id"`
	Action     string     `query:"action"`
	Severity   string     `query:"severity"`
	From       *time.Time `query:"-"`
	To         *time.Time `query:"-"`
	PageRequest
}

// AuditLogListResponse lista paginada de auditoría.
type AuditLogListResponse struct {
	Items []AuditLogResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// AuditStatsResponse estadísticas de auditoría.
type AuditStatsResponse struct {
	Total      int64            `json:"total"`
	Today      int64            `json:"today"`
	BySeverity map[string]int64 `json:"by_severity"`
	Oldest     *time.Time       `json:"oldest,omitempty"`
	Newest     *time.Time       `json:"newest,omitempty"`
}

// AuditConfigRequest alta o cambio de configuración de auditoría.
type AuditConfigRequest struct {
	EntityType    string   `json:"entity_type" validate:"required,max=100"`
	IsEnabled     *bool    `json:"is_enabled"`
	TrackFields   []string `json:"track_fields"`
	ExcludeFields []string `json:"exclude_fields"`
	TrackCreates  *bool    `json:"track_creates"`
	TrackUpdates  *bool    `json:"track_updates"`
	TrackDeletes  *bool    `json:"track_deletes"`
	TrackViews    *bool    `json:"track_views"`
	SeverityLevel string   `json:"severity_level" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	RetentionDays int      `json:"retention_days" validate:"omitempty,min=1"`
}

// AuditConfigResponse salida de configuración.
type AuditConfigResponse struct {
	EntityType    string    `json:"entity_type"`
	IsEnabled     bool      `json:"is_enabled"`
	TrackFields   []string  `json:"track_fields"`
	ExcludeFields []string  `json:"exclude_fields"`
	TrackCreates  bool      `json:"track_creates"`
	TrackUpdates  bool      `json:"track_updates"`
	TrackDeletes  bool      `json:"track_deletes"`
	TrackViews    bool      `json:"track_views"`
	SeverityLevel string    `json:"severity_level"`
	RetentionDays int       `json:"retention_days"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CleanupRequest limpieza de registros antiguos.
type CleanupRequest struct {
	Days   *int `json:"days" validate:"omitempty,min=1"`
	DryRun bool `json:"dry_run"`
}

// CleanupResponse resultado de la limpieza por tipo de entidad.
type CleanupResponse struct {
	DryRun   bool             `json:"dry_run"`
	ByEntity map[string]int64 `json:"by_entity"`
	Total    int64            `json:"total"`
}
