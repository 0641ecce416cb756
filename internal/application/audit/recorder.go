package audit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/pkg/logger"
)

// Entry evento a auditar. Old/New son snapshots (DTO con tags json o mapas).
type Entry struct {
	UserID     string
	Action     string
	EntityType string
	ObjectID   string
	ObjectRepr string
	Old        any
	New        any
	Severity   string // vacío = severidad de la configuración
	Status     string // vacío = SUCCESS
	Message    string
	IPAddress  string
	UserAgent  string
	Extra      map[string]any
}

// Recorder escribe registros de auditoría en segundo plano. Un fallo nunca llega al llamador:
// se registra en el log y se cuenta.
type Recorder struct {
	repos     ports.Repositories
	publisher ports.EventPublisher
	log       *logger.Logger
	now       func() time.Time

	queue   chan Entry
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
	failed  atomic.Int64
}

// NewRecorder arranca workers goroutines sobre una cola de tamaño buffer.
// Con workers <= 0 las escrituras son síncronas (tests, CLIs).
func NewRecorder(repos ports.Repositories, publisher ports.EventPublisher, log *logger.Logger, workers, buffer int) *Recorder {
	if log == nil {
		log = logger.Nop()
	}
	r := &Recorder{
		repos:     repos,
		publisher: publisher,
		log:       log.Named("audit"),
		now:       time.Now,
	}
	if workers > 0 {
		if buffer <= 0 {
			buffer = 1
		}
		r.queue = make(chan Entry, buffer)
		for i := 0; i < workers; i++ {
			r.wg.Add(1)
			go r.worker()
		}
	}
	return r
}

func (r *Recorder) worker() {
	defer r.wg.Done()
	for e := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		r.store(ctx, e)
		cancel()
	}
}

// Record encola la entrada. Si la cola está llena la entrada se descarta.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil {
		return
	}
	e = e.withActor(ctx)
	if r.queue == nil {
		r.store(ctx, e)
		return
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.dropped.Add(1)
		r.log.Warn().Str("entity_type", e.EntityType).Str("action", e.Action).Msg("auditoría cerrada, registro descartado")
		return
	}
	select {
	case r.queue <- e:
	default:
		r.dropped.Add(1)
		r.log.Warn().Str("entity_type", e.EntityType).Str("action", e.Action).Msg("cola de auditoría llena, registro descartado")
	}
}

// Close deja de aceptar entradas y espera a que la cola se vacíe.
func (r *Recorder) Close() {
	if r == nil || r.queue == nil {
		return
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()
	r.wg.Wait()
}

// Dropped entradas descartadas por cola llena o cerrada.
func (r *Recorder) Dropped() int64 { return r.dropped.Load() }

// Failed entradas cuya escritura falló.
func (r *Recorder) Failed() int64 { return r.failed.Load() }

func (r *Recorder) store(ctx context.Context, e Entry) {
	l, err := r.build(ctx, e)
	if err != nil {
		r.failed.Add(1)
		r.log.Error().Err(err).Str("entity_type", e.EntityType).Msg("no se pudo leer la configuración de auditoría")
		return
	}
	if l == nil {
		return
	}
	if err := r.repos.AuditLogs().Create(ctx, l); err != nil {
		r.failed.Add(1)
		r.log.Error().Err(err).Str("entity_type", l.EntityType).Str("object_id", l.ObjectID).Msg("no se pudo guardar el registro de auditoría")
		return
	}
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, ports.EventAuditLogged, map[string]any{
		"id":          l.ID,
		"action":      l.Action,
		"entity_type": l.EntityType,
		"object_id":   l.ObjectID,
		"severity":    l.Severity,
		"user_id":     l.UserID,
		"created_at":  l.CreatedAt,
	}); err != nil {
		r.log.Warn().Err(err).Str("audit_id", l.ID).Msg("no se pudo publicar audit.logged")
	}
}

// build aplica la configuración del tipo de entidad. Devuelve nil si el evento no se registra.
func (r *Recorder) build(ctx context.Context, e Entry) (*entity.AuditLog, error) {
	cfg, err := r.repos.AuditConfigs().GetByEntityType(ctx, e.EntityType)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		def := entity.DefaultAuditConfiguration(e.EntityType)
		def.TrackViews = true
		cfg = &def
	case err != nil:
		return nil, err
	}
	if !cfg.Tracks(e.Action) {
		return nil, nil
	}

	oldValues, newValues := Diff(e.Old, e.New, cfg)
	if e.Action == entity.AuditActionUpdate && len(oldValues) == 0 && len(newValues) == 0 {
		return nil, nil
	}
	severity := e.Severity
	if severity == "" {
		severity = cfg.SeverityLevel
	}
	if severity == "" {
		severity = entity.SeverityMedium
	}
	status := e.Status
	if status == "" {
		status = entity.AuditStatusSuccess
	}
	return &entity.AuditLog{
		ID:         uuid.New().String(),
		UserID:     e.UserID,
		Action:     e.Action,
		EntityType: e.EntityType,
		ObjectID:   e.ObjectID,
		ObjectRepr: truncate(e.ObjectRepr, 200),
		OldValues:  marshalOrNil(oldValues),
		NewValues:  marshalOrNil(newValues),
		Severity:   severity,
		Status:     status,
		Message:    e.Message,
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
		ExtraData:  marshalOrNil(e.Extra),
		CreatedAt:  r.now(),
	}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
