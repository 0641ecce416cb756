package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/memory"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/messaging"
)

type snapshot struct {
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Stock     int       `json:"stock"`
	UpdatedAt time.Time `json:"updated_at"`
}

func logs(t *testing.T, s *memory.Store, entityType string) []*entity.AuditLog {
	t.Helper()
	list, _, err := s.AuditLogs().List(context.Background(), repository.AuditFilter{
		EntityType: entityType, Page: repository.Page{Limit: 100},
	})
	require.NoError(t, err)
	return list
}

func TestRecorder_CreaRegistroConActorDelContexto(t *testing.T) {
	s := memory.New()
	events := &messaging.RecordingPublisher{}
	r := NewRecorder(s, events, nil, 0, 0)

	ctx := WithActor(context.Background(), Actor{UserID: "u-1", IPAddress: "10.0.0.7", UserAgent: "curl/8"})
	r.Record(ctx, Entry{
		Action: entity.AuditActionCreate, EntityType: entity.AuditEntityProduct,
		ObjectID: "p-1", ObjectRepr: "Jabón de avena",
		New: snapshot{Name: "Jabón de avena", Price: "12000", Stock: 0, UpdatedAt: time.Now()},
	})

	got := logs(t, s, entity.AuditEntityProduct)
	require.Len(t, got, 1)
	l := got[0]
	assert.Equal(t, "u-1", l.UserID)
	assert.Equal(t, "10.0.0.7", l.IPAddress)
	assert.Equal(t, entity.SeverityMedium, l.Severity)
	assert.Equal(t, entity.AuditStatusSuccess, l.Status)
	assert.Nil(t, l.OldValues)

	var newValues map[string]any
	require.NoError(t, json.Unmarshal(l.NewValues, &newValues))
	assert.Equal(t, "Jabón de avena", newValues["name"])
	assert.NotContains(t, newValues, "updated_at")
	assert.Equal(t, 1, events.Count(ports.EventAuditLogged))
}

func TestRecorder_UpdateSinCambiosNoSeRegistra(t *testing.T) {
	s := memory.New()
	r := NewRecorder(s, nil, nil, 0, 0)
	snap := snapshot{Name: "Crema", Price: "9000"}

	r.Record(context.Background(), Entry{Action: entity.AuditActionUpdate, EntityType: entity.AuditEntityProduct, ObjectID: "p-1", Old: snap, New: snap})
	assert.Empty(t, logs(t, s, entity.AuditEntityProduct))

	changed := snap
	changed.Price = "9500"
	changed.UpdatedAt = time.Now()
	r.Record(context.Background(), Entry{Action: entity.AuditActionUpdate, EntityType: entity.AuditEntityProduct, ObjectID: "p-1", Old: snap, New: changed})

	got := logs(t, s, entity.AuditEntityProduct)
	require.Len(t, got, 1)
	assert.JSONEq(t, `{"price":"9000"}`, string(got[0].OldValues))
	assert.JSONEq(t, `{"price":"9500"}`, string(got[0].NewValues))
}

func TestRecorder_RespetaConfiguracion(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	cfg := entity.DefaultAuditConfiguration(entity.AuditEntityCustomer)
	cfg.ID = uuid.New().String()
	cfg.TrackCreates = false
	cfg.ExcludeFields = []string{"stock"}
	cfg.SeverityLevel = entity.SeverityHigh
	require.NoError(t, s.AuditConfigs().Upsert(ctx, &cfg))

	r := NewRecorder(s, nil, nil, 0, 0)
	r.Record(ctx, Entry{Action: entity.AuditActionCreate, EntityType: entity.AuditEntityCustomer, New: snapshot{Name: "Ana"}})
	assert.Empty(t, logs(t, s, entity.AuditEntityCustomer), "creaciones deshabilitadas")

	r.Record(ctx, Entry{Action: entity.AuditActionUpdate, EntityType: entity.AuditEntityCustomer,
		Old: snapshot{Name: "Ana", Stock: 1}, New: snapshot{Name: "Ana", Stock: 2}})
	assert.Empty(t, logs(t, s, entity.AuditEntityCustomer), "solo cambió un campo excluido")

	r.Record(ctx, Entry{Action: entity.AuditActionUpdate, EntityType: entity.AuditEntityCustomer,
		Old: snapshot{Name: "Ana"}, New: snapshot{Name: "Ana María"}})
	got := logs(t, s, entity.AuditEntityCustomer)
	require.Len(t, got, 1)
	assert.Equal(t, entity.SeverityHigh, got[0].Severity)

	cfg.IsEnabled = false
	require.NoError(t, s.AuditConfigs().Upsert(ctx, &cfg))
	r.Record(ctx, Entry{Action: entity.AuditActionDelete, EntityType: entity.AuditEntityCustomer, Old: snapshot{Name: "Ana María"}})
	assert.Len(t, logs(t, s, entity.AuditEntityCustomer), 1)
}

func TestRecorder_AsincronoVaciaLaColaAlCerrar(t *testing.T) {
	s := memory.New()
	r := NewRecorder(s, nil, nil, 2, 64)
	for i := 0; i < 20; i++ {
		r.Record(context.Background(), Entry{Action: entity.AuditActionPrint, EntityType: entity.AuditEntityPOSSale, ObjectID: uuid.NewString()})
	}
	r.Close()
	r.Close()

	assert.Len(t, logs(t, s, entity.AuditEntityPOSSale), 20)
	assert.Zero(t, r.Failed())

	r.Record(context.Background(), Entry{Action: entity.AuditActionPrint, EntityType: entity.AuditEntityPOSSale})
	assert.Equal(t, int64(1), r.Dropped())
}

func TestRecorder_NilNoFalla(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Record(context.Background(), Entry{Action: entity.AuditActionCreate})
		r.Close()
	})
}

func TestDiff_AltaYBaja(t *testing.T) {
	oldValues, newValues := Diff(nil, map[string]any{"name": "x", "created_at": "hoy"}, nil)
	assert.Empty(t, oldValues)
	assert.Equal(t, map[string]any{"name": "x"}, newValues)

	cfg := &entity.AuditConfiguration{TrackFields: []string{"name"}}
	oldValues, newValues = Diff(map[string]any{"name": "x", "price": 1}, nil, cfg)
	assert.Equal(t, map[string]any{"name": "x"}, oldValues)
	assert.Empty(t, newValues)
}

func TestCleanup_DryRunYBorradoPorRetencion(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	uc := NewUseCase(s, NewRecorder(s, nil, nil, 0, 0), nil)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	_, err := uc.UpsertConfig(ctx, dto.AuditConfigRequest{EntityType: entity.AuditEntityOrder, RetentionDays: 30})
	require.NoError(t, err)
	for _, at := range []time.Time{now.AddDate(0, 0, -60), now.AddDate(0, 0, -45), now.AddDate(0, 0, -1)} {
		require.NoError(t, s.AuditLogs().Create(ctx, &entity.AuditLog{
			ID: uuid.NewString(), Action: entity.AuditActionCreate, EntityType: entity.AuditEntityOrder,
			Severity: entity.SeverityMedium, Status: entity.AuditStatusSuccess, CreatedAt: at,
		}))
	}

	res, err := uc.Cleanup(ctx, nil, true)
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, int64(2), res.ByEntity[entity.AuditEntityOrder])
	assert.Len(t, logs(t, s, entity.AuditEntityOrder), 3)

	days := 50
	res, err = uc.Cleanup(ctx, &days, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	assert.Len(t, logs(t, s, entity.AuditEntityOrder), 2)

	zero := 0
	_, err = uc.Cleanup(ctx, &zero, false)
	assert.Error(t, err)
}

func TestSeedDefaults_Idempotente(t *testing.T) {
	s := memory.New()
	uc := NewUseCase(s, nil, nil)
	n, err := uc.SeedDefaults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(entity.AuditedEntityTypes), n)

	n, err = uc.SeedDefaults(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	cfg, err := uc.GetConfig(context.Background(), entity.AuditEntityWompiConfig)
	require.NoError(t, err)
	assert.Equal(t, entity.SeverityHigh, cfg.SeverityLevel)
}
