package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
	"github.com/jhoicas/naturalmede-api/pkg/logger"
)

// UseCase movimientos, existencias, bodegas, transferencias y trazabilidad.
type UseCase struct {
	uow       ports.UnitOfWork
	recorder  *audit.Recorder
	publisher ports.EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso de inventario.
func NewUseCase(uow ports.UnitOfWork, recorder *audit.Recorder, publisher ports.EventPublisher, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{uow: uow, recorder: recorder, publisher: publisher, log: log.Named("inventory"), now: time.Now}
}

// RegisterMovement valida producto y bodega activos, aplica el movimiento y lo audita.
func (uc *UseCase) RegisterMovement(ctx context.Context, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	if _, ok := entity.SignedQuantity(in.Type, in.Quantity); !ok {
		return nil, domain.ErrInvalidInput
	}
	var m *entity.StockMovement
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		product, err := tx.Products().GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if !product.IsActive {
			return fmt.Errorf("producto inactivo: %w", domain.ErrInvalidInput)
		}
		wh, err := tx.Warehouses().GetByID(ctx, in.WarehouseID)
		if err != nil {
			return err
		}
		if !wh.IsActive {
			return fmt.Errorf("bodega inactiva: %w", domain.ErrInvalidInput)
		}
		m, err = ApplyMovement(ctx, tx, MovementInput{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Type:        in.Type,
			Quantity:    in.Quantity,
			Reference:   in.Reference,
			Notes:       in.Notes,
			UserID:      userID,
			SourceKind:  entity.SourceManual,
		}, uc.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	out := toMovementResponse(m)
	action := entity.AuditActionCreate
	if m.Type == entity.MovementTypeAdjustment {
		action = entity.AuditActionStockAdjustment
	}
	uc.recorder.Record(ctx, audit.Entry{
		UserID:     userID,
		Action:     action,
		EntityType: entity.AuditEntityMovement,
		ObjectID:   m.ID,
		ObjectRepr: fmt.Sprintf("%s %+d", m.Type, m.Quantity),
		New:        out,
	})
	ports.PublishQuietly(ctx, uc.publisher, uc.log, ports.EventMovementApplied, out)
	return &out, nil
}

// ListMovements lista el ledger con filtros.
func (uc *UseCase) ListMovements(ctx context.Context, in dto.MovementFilterRequest) ([]dto.MovementResponse, error) {
	in.DefaultPage()
	list, err := uc.uow.Movements().List(ctx, repository.MovementFilter{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Type:        in.Type,
		From:        in.From,
		To:          in.To,
		Page:        repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

// ListStock lista existencias con filtros.
func (uc *UseCase) ListStock(ctx context.Context, in dto.StockFilterRequest) ([]dto.StockResponse, error) {
	list, err := uc.uow.Stock().List(ctx, repository.StockFilter{
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		LowOnly:     in.LowOnly,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toStockResponse(s))
	}
	return out, nil
}

// GetStock existencias de un producto en una bodega (0 si no hay fila).
func (uc *UseCase) GetStock(ctx context.Context, productID, warehouseID string) (*dto.StockResponse, error) {
	s, err := uc.uow.Stock().Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	out := toStockResponse(s)
	return &out, nil
}

// SetThresholds fija mínimo, máximo y ubicación. La cantidad no cambia.
func (uc *UseCase) SetThresholds(ctx context.Context, productID, warehouseID string, in dto.StockThresholdsRequest) (*dto.StockResponse, error) {
	if in.MinStock < 0 || in.MaxStock < 0 || (in.MaxStock > 0 && in.MinStock > in.MaxStock) {
		return nil, domain.ErrInvalidInput
	}
	var before, after dto.StockResponse
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		if _, err := tx.Products().GetByID(ctx, productID); err != nil {
			return err
		}
		if _, err := tx.Warehouses().GetByID(ctx, warehouseID); err != nil {
			return err
		}
		s, err := tx.Stock().Get(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		before = toStockResponse(s)
		s.MinStock = in.MinStock
		s.MaxStock = in.MaxStock
		s.Location = in.Location
		s.UpdatedAt = uc.now()
		if err := tx.Stock().SaveThresholds(ctx, s); err != nil {
			return err
		}
		after = toStockResponse(s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, audit.Entry{
		Action:     entity.AuditActionUpdate,
		EntityType: entity.AuditEntityStock,
		ObjectID:   productID + ":" + warehouseID,
		Old:        before,
		New:        after,
	})
	return &after, nil
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		WarehouseID:    m.WarehouseID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reference:      m.Reference,
		Notes:          m.Notes,
		UserID:         m.UserID,
		SourceKind:     m.SourceKind,
		SourceID:       m.SourceID,
		CreatedAt:      m.CreatedAt,
	}
}

func toStockResponse(s *entity.Stock) dto.StockResponse {
	return dto.StockResponse{
		ProductID:   s.ProductID,
		WarehouseID: s.WarehouseID,
		Quantity:    s.Quantity,
		MinStock:    s.MinStock,
		MaxStock:    s.MaxStock,
		Location:    s.Location,
		IsLowStock:  s.IsLowStock(),
		UpdatedAt:   s.UpdatedAt,
	}
}
