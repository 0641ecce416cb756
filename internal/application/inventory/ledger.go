package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
)

// MovementInput datos de un movimiento del ledger. Quantity se normaliza según Type.
type MovementInput struct {
	ProductID   string
	WarehouseID string
	Type        string
	Quantity    int
	Reference   string
	Notes       string
	UserID      string
	SourceKind  string
	SourceID    string
}

// ApplyMovement es el único camino para cambiar existencias. Debe llamarse con los repositorios
// de una transacción: suma el delta de forma atómica y registra el movimiento con las cantidades
// antes y después. Si el stock quedaría negativo devuelve ErrInsufficientStock y no escribe nada.
func ApplyMovement(ctx context.Context, tx ports.Repositories, in MovementInput, now time.Time) (*entity.StockMovement, error) {
	if in.ProductID == "" || in.WarehouseID == "" || !entity.ValidMovementType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	delta, ok := entity.SignedQuantity(in.Type, in.Quantity)
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	before, after, err := tx.Stock().Apply(ctx, in.ProductID, in.WarehouseID, delta)
	if err != nil {
		return nil, err
	}
	source := in.SourceKind
	if source == "" {
		source = entity.SourceManual
	}
	m := &entity.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      in.ProductID,
		WarehouseID:    in.WarehouseID,
		Type:           in.Type,
		Quantity:       delta,
		QuantityBefore: before,
		QuantityAfter:  after,
		Reference:      in.Reference,
		Notes:          in.Notes,
		UserID:         in.UserID,
		SourceKind:     source,
		SourceID:       in.SourceID,
		CreatedAt:      now,
	}
	if err := tx.Movements().Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
