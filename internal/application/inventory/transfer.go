package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

// CreateTransfer crea una transferencia pendiente entre dos bodegas activas.
func (uc *UseCase) CreateTransfer(ctx context.Context, userID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	if in.FromWarehouseID == in.ToWarehouseID || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 || it.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	now := uc.now()
	t := &entity.StockTransfer{
		ID:              uuid.New().String(),
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Status:          entity.TransferStatusPending,
		Reference:       in.Reference,
		Notes:           in.Notes,
		CreatedBy:       userID,
		CreatedAt:       now,
	}
	for _, it := range in.Items {
		t.Items = append(t.Items, entity.StockTransferItem{
			ID:         uuid.New().String(),
			TransferID: t.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			Notes:      it.Notes,
		})
	}
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		for _, id := range []string{t.FromWarehouseID, t.ToWarehouseID} {
			w, err := tx.Warehouses().GetByID(ctx, id)
			if err != nil {
				return err
			}
			if !w.IsActive {
				return fmt.Errorf("bodega %s inactiva: %w", w.Code, domain.ErrInvalidInput)
			}
		}
		for _, it := range t.Items {
			if _, err := tx.Products().GetByID(ctx, it.ProductID); err != nil {
				return err
			}
		}
		if t.Reference == "" {
			seq, err := tx.Sequences().Next(ctx, "transfer:"+now.Format("20060102"))
			if err != nil {
				return err
			}
			t.Reference = fmt.Sprintf("TRF-%s-%04d", now.Format("20060102"), seq)
		}
		return tx.Transfers().Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	out := toTransferResponse(t)
	uc.recorder.Record(ctx, audit.Entry{
		UserID:     userID,
		Action:     entity.AuditActionCreate,
		EntityType: entity.AuditEntityTransfer,
		ObjectID:   t.ID,
		ObjectRepr: t.Reference,
		New:        out,
	})
	return &out, nil
}

// CompleteTransfer mueve todas las líneas de forma atómica. Bloquea las filas de origen y
// destino en orden (product_id, warehouse_id); si alguna línea excede el stock de origen no
// cambia ninguna fila y la transferencia sigue pendiente.
func (uc *UseCase) CompleteTransfer(ctx context.Context, userID, id string) (*dto.TransferResponse, error) {
	var t *entity.StockTransfer
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		var err error
		t, err = tx.Transfers().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !t.CanComplete() {
			return fmt.Errorf("transferencia %s en estado %s: %w", t.Reference, t.Status, domain.ErrInvalidTransition)
		}

		need := map[string]int{}
		keys := make([]repository.StockKey, 0, len(t.Items)*2)
		for _, it := range t.Items {
			if need[it.ProductID] == 0 {
				keys = append(keys,
					repository.StockKey{ProductID: it.ProductID, WarehouseID: t.FromWarehouseID},
					repository.StockKey{ProductID: it.ProductID, WarehouseID: t.ToWarehouseID},
				)
			}
			need[it.ProductID] += it.Quantity
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].ProductID != keys[j].ProductID {
				return keys[i].ProductID < keys[j].ProductID
			}
			return keys[i].WarehouseID < keys[j].WarehouseID
		})
		available, err := tx.Stock().Lock(ctx, keys)
		if err != nil {
			return err
		}
		for productID, qty := range need {
			have := available[repository.StockKey{ProductID: productID, WarehouseID: t.FromWarehouseID}]
			if have < qty {
				return fmt.Errorf("producto %s: disponible %d, requerido %d: %w", productID, have, qty, domain.ErrInsufficientStock)
			}
		}

		now := uc.now()
		reference := "Transferencia " + t.Reference
		for _, it := range t.Items {
			if _, err := ApplyMovement(ctx, tx, MovementInput{
				ProductID: it.ProductID, WarehouseID: t.FromWarehouseID,
				Type: entity.MovementTypeTransfer, Quantity: -it.Quantity,
				Reference: reference, UserID: userID,
				SourceKind: entity.SourceTransfer, SourceID: t.ID,
			}, now); err != nil {
				return err
			}
			if _, err := ApplyMovement(ctx, tx, MovementInput{
				ProductID: it.ProductID, WarehouseID: t.ToWarehouseID,
				Type: entity.MovementTypeTransfer, Quantity: it.Quantity,
				Reference: reference, UserID: userID,
				SourceKind: entity.SourceTransfer, SourceID: t.ID,
			}, now); err != nil {
				return err
			}
		}
		t.Status = entity.TransferStatusCompleted
		t.CompletedAt = &now
		return tx.Transfers().UpdateStatus(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	out := toTransferResponse(t)
	uc.recorder.Record(ctx, audit.Entry{
		UserID:     userID,
		Action:     entity.AuditActionTransfer,
		EntityType: entity.AuditEntityTransfer,
		ObjectID:   t.ID,
		ObjectRepr: t.Reference,
		Old:        map[string]any{"status": entity.TransferStatusPending},
		New:        map[string]any{"status": t.Status},
	})
	ports.PublishQuietly(ctx, uc.publisher, uc.log, ports.EventTransferCompleted, out)
	return &out, nil
}

// CancelTransfer cancela una transferencia pendiente.
func (uc *UseCase) CancelTransfer(ctx context.Context, userID, id string) (*dto.TransferResponse, error) {
	var t *entity.StockTransfer
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		var err error
		t, err = tx.Transfers().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !t.CanCancel() {
			return domain.ErrInvalidTransition
		}
		t.Status = entity.TransferStatusCancelled
		return tx.Transfers().UpdateStatus(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	out := toTransferResponse(t)
	uc.recorder.Record(ctx, audit.Entry{
		UserID:     userID,
		Action:     entity.AuditActionCancel,
		EntityType: entity.AuditEntityTransfer,
		ObjectID:   t.ID,
		ObjectRepr: t.Reference,
		Old:        map[string]any{"status": entity.TransferStatusPending},
		New:        map[string]any{"status": t.Status},
	})
	return &out, nil
}

// GetTransfer obtiene una transferencia con sus líneas.
func (uc *UseCase) GetTransfer(ctx context.Context, id string) (*dto.TransferResponse, error) {
	t, err := uc.uow.Transfers().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toTransferResponse(t)
	return &out, nil
}

// ListTransfers lista transferencias, opcionalmente por estado.
func (uc *UseCase) ListTransfers(ctx context.Context, status string, page dto.PageRequest) ([]dto.TransferResponse, error) {
	page.DefaultPage()
	list, err := uc.uow.Transfers().List(ctx, status, repository.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTransferResponse(t))
	}
	return out, nil
}

func toTransferResponse(t *entity.StockTransfer) dto.TransferResponse {
	items := make([]dto.TransferItemResponse, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, dto.TransferItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Notes:     it.Notes,
		})
	}
	return dto.TransferResponse{
		ID:              t.ID,
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		Status:          t.Status,
		Reference:       t.Reference,
		Notes:           t.Notes,
		CreatedBy:       t.CreatedBy,
		Items:           items,
		CreatedAt:       t.CreatedAt,
		CompletedAt:     t.CompletedAt,
	}
}
