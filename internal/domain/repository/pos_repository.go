package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
)

// POSSessionRepository sesiones de caja.
type POSSessionRepository interface {
	Create(ctx context.Context, s *entity.POSSession) error
	Update(ctx context.Context, s *entity.POSSession) error
	GetByID(ctx context.Context, id string) (*entity.POSSession, error)
	GetOpenByUser(ctx context.Context, userID string) (*entity.POSSession, error)
	List(ctx context.Context, f POSSessionFilter) ([]*entity.POSSession, error)
}

// POSSaleRepository ventas POS. GetByID carga Items.
type POSSaleRepository interface {
	Create(ctx context.Context, s *entity.POSSale) error
	GetByID(ctx context.Context, id string) (*entity.POSSale, error)
	List(ctx context.Context, f POSSaleFilter) ([]*entity.POSSale, error)
	// SessionTotals suma de ventas y número de transacciones de una sesión.
	SessionTotals(ctx context.Context, sessionID string) (decimal.Decimal, int, error)
}
