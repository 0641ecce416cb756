package pos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
	"github.com/jhoicas/naturalmede-api/pkg/logger"
)

const sessionLockTTL = 10 * time.Second

// UseCase caja POS: sesiones y ventas en tienda.
type UseCase struct {
	uow       ports.UnitOfWork
	locker    ports.Locker
	recorder  *audit.Recorder
	publisher ports.EventPublisher
	pdf       ports.PDFRenderer
	storeName string
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso POS.
func NewUseCase(uow ports.UnitOfWork, locker ports.Locker, recorder *audit.Recorder, publisher ports.EventPublisher, pdf ports.PDFRenderer, storeName string, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{uow: uow, locker: locker, recorder: recorder, publisher: publisher, pdf: pdf, storeName: storeName, log: log.Named("pos"), now: time.Now}
}

// OpenSession abre caja para el usuario. Solo puede haber una sesión abierta por usuario.
func (uc *UseCase) OpenSession(ctx context.Context, userID string, in dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	if userID == "" || in.OpeningCash.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	lock, err := uc.locker.Obtain(ctx, "pos:session:"+userID, sessionLockTTL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(context.Background()); err != nil {
			uc.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo liberar el lock de sesión POS")
		}
	}()

	now := uc.now()
	s := &entity.POSSession{
		ID:          uuid.New().String(),
		SessionID:   entity.NewPOSSessionID(now),
		UserID:      userID,
		WarehouseID: in.WarehouseID,
		Status:      entity.POSSessionOpen,
		OpeningCash: in.OpeningCash,
		OpenedAt:    now,
		Notes:       in.Notes,
	}
	err = uc.uow.Run(ctx, func(tx ports.Repositories) error {
		open, err := tx.POSSessions().GetOpenByUser(ctx, userID)
		if err != nil && !domain.IsNotFound(err) {
			return err
		}
		if open != nil {
			return fmt.Errorf("sesión %s: %w", open.SessionID, domain.ErrSessionAlreadyOpen)
		}
		w, err := tx.Warehouses().GetByID(ctx, in.WarehouseID)
		if err != nil {
			return err
		}
		if !w.IsActive {
			return fmt.Errorf("bodega inactiva: %w", domain.ErrInvalidInput)
		}
		return tx.POSSessions().Create(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	out := toSessionResponse(s)
	uc.recorder.Record(ctx, audit.Entry{UserID: userID, Action: entity.AuditActionCreate, EntityType: entity.AuditEntityPOSSession, ObjectID: s.ID, ObjectRepr: s.SessionID, New: out})
	return &out, nil
}

// CurrentSession devuelve la sesión abierta del usuario.
func (uc *UseCase) CurrentSession(ctx context.Context, userID string) (*dto.SessionResponse, error) {
	s, err := uc.uow.POSSessions().GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := toSessionResponse(s)
	return &out, nil
}

// GetSession obtiene una sesión por ID.
func (uc *UseCase) GetSession(ctx context.Context, id string) (*dto.SessionResponse, error) {
	s, err := uc.uow.POSSessions().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toSessionResponse(s)
	return &out, nil
}

// CloseSession cierra caja calculando ventas y transacciones desde las ventas registradas.
// Solo el cajero dueño de la sesión o un admin pueden cerrarla.
func (uc *UseCase) CloseSession(ctx context.Context, userID string, asAdmin bool, id string, in dto.CloseSessionRequest) (*dto.SessionResponse, error) {
	if in.ClosingCash.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var s *entity.POSSession
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		var err error
		s, err = tx.POSSessions().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s.UserID != userID && !asAdmin {
			return fmt.Errorf("sesión %s de otro usuario: %w", s.SessionID, domain.ErrForbidden)
		}
		if s.Status != entity.POSSessionOpen {
			return domain.ErrSessionClosed
		}
		total, count, err := tx.POSSales().SessionTotals(ctx, s.ID)
		if err != nil {
			return err
		}
		s.Close(in.ClosingCash, total, count, in.Notes, uc.now())
		return tx.POSSessions().Update(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	out := toSessionResponse(s)
	uc.recorder.Record(ctx, audit.Entry{
		UserID: userID, Action: entity.AuditActionComplete, EntityType: entity.AuditEntityPOSSession,
		ObjectID: s.ID, ObjectRepr: s.SessionID,
		Old: map[string]any{"status": entity.POSSessionOpen},
		New: map[string]any{"status": s.Status, "total_sales": s.TotalSales, "cash_difference": s.CashDifference()},
	})
	if !s.CashDifference().IsZero() {
		uc.log.Info().Str("session_id", s.SessionID).Str("difference", s.CashDifference().String()).Msg("cierre de caja con diferencia")
	}
	return &out, nil
}

// ListSessions lista sesiones por usuario y estado.
func (uc *UseCase) ListSessions(ctx context.Context, userID, status string, page dto.PageRequest) ([]dto.SessionResponse, error) {
	page.DefaultPage()
	list, err := uc.uow.POSSessions().List(ctx, repository.POSSessionFilter{
		UserID: userID, Status: status,
		Page: repository.Page{Limit: page.Limit, Offset: page.Offset},
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSessionResponse(s))
	}
	return out, nil
}

func toSessionResponse(s *entity.POSSession) dto.SessionResponse {
	return dto.SessionResponse{
		ID:                s.ID,
		SessionID:         s.SessionID,
		UserID:            s.UserID,
		WarehouseID:       s.WarehouseID,
		Status:            s.Status,
		OpeningCash:       s.OpeningCash,
		ClosingCash:       s.ClosingCash,
		TotalSales:        s.TotalSales,
		TotalTransactions: s.TotalTransactions,
		ExpectedCash:      s.ExpectedCash(),
		CashDifference:    s.CashDifference(),
		OpenedAt:          s.OpenedAt,
		ClosedAt:          s.ClosedAt,
		Notes:             s.Notes,
	}
}
