package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
)

// CreateWarehouse crea una bodega. Si es principal, desmarca las demás en la misma transacción.
func (uc *UseCase) CreateWarehouse(ctx context.Context, in dto.WarehouseRequest) (*dto.WarehouseResponse, error) {
	now := uc.now()
	w := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Code:      strings.ToUpper(strings.TrimSpace(in.Code)),
		Address:   in.Address,
		City:      in.City,
		Phone:     in.Phone,
		Email:     in.Email,
		IsActive:  in.IsActive == nil || *in.IsActive,
		IsMain:    in.IsMain,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if w.Name == "" || w.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		if _, err := tx.Warehouses().GetByCode(ctx, w.Code); err == nil {
			return domain.ErrDuplicate
		} else if !domain.IsNotFound(err) {
			return err
		}
		if err := tx.Warehouses().Create(ctx, w); err != nil {
			return err
		}
		if w.IsMain {
			return tx.Warehouses().ClearMain(ctx, w.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toWarehouseResponse(w)
	uc.recorder.Record(ctx, audit.Entry{
		Action:     entity.AuditActionCreate,
		EntityType: entity.AuditEntityWarehouse,
		ObjectID:   w.ID,
		ObjectRepr: w.Name,
		New:        out,
	})
	return &out, nil
}

// UpdateWarehouse actualiza una bodega.
func (uc *UseCase) UpdateWarehouse(ctx context.Context, id string, in dto.WarehouseRequest) (*dto.WarehouseResponse, error) {
	var before, after dto.WarehouseResponse
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		w, err := tx.Warehouses().GetByID(ctx, id)
		if err != nil {
			return err
		}
		before = toWarehouseResponse(w)
		code := strings.ToUpper(strings.TrimSpace(in.Code))
		if code != w.Code {
			if other, err := tx.Warehouses().GetByCode(ctx, code); err == nil && other.ID != w.ID {
				return domain.ErrDuplicate
			} else if err != nil && !domain.IsNotFound(err) {
				return err
			}
		}
		w.Name = strings.TrimSpace(in.Name)
		w.Code = code
		w.Address = in.Address
		w.City = in.City
		w.Phone = in.Phone
		w.Email = in.Email
		if in.IsActive != nil {
			w.IsActive = *in.IsActive
		}
		w.IsMain = in.IsMain
		w.UpdatedAt = uc.now()
		if err := tx.Warehouses().Update(ctx, w); err != nil {
			return err
		}
		if w.IsMain {
			if err := tx.Warehouses().ClearMain(ctx, w.ID); err != nil {
				return err
			}
		}
		after = toWarehouseResponse(w)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, audit.Entry{
		Action:     entity.AuditActionUpdate,
		EntityType: entity.AuditEntityWarehouse,
		ObjectID:   id,
		ObjectRepr: after.Name,
		Old:        before,
		New:        after,
	})
	return &after, nil
}

// SetMainWarehouse marca la bodega como principal y desmarca las demás.
func (uc *UseCase) SetMainWarehouse(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	var out dto.WarehouseResponse
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		w, err := tx.Warehouses().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !w.IsActive {
			return domain.ErrConflict
		}
		w.IsMain = true
		w.UpdatedAt = uc.now()
		if err := tx.Warehouses().Update(ctx, w); err != nil {
			return err
		}
		if err := tx.Warehouses().ClearMain(ctx, w.ID); err != nil {
			return err
		}
		out = toWarehouseResponse(w)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, audit.Entry{
		Action:     entity.AuditActionUpdate,
		EntityType: entity.AuditEntityWarehouse,
		ObjectID:   id,
		ObjectRepr: out.Name,
		New:        map[string]any{"is_main": true},
	})
	return &out, nil
}

// GetWarehouse obtiene una bodega por ID.
func (uc *UseCase) GetWarehouse(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	w, err := uc.uow.Warehouses().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toWarehouseResponse(w)
	return &out, nil
}

// ListWarehouses lista bodegas.
func (uc *UseCase) ListWarehouses(ctx context.Context, activeOnly bool) ([]dto.WarehouseResponse, error) {
	list, err := uc.uow.Warehouses().List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		out = append(out, toWarehouseResponse(w))
	}
	return out, nil
}

func toWarehouseResponse(w *entity.Warehouse) dto.WarehouseResponse {
	return dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Code:      w.Code,
		Address:   w.Address,
		City:      w.City,
		Phone:     w.Phone,
		Email:     w.Email,
		IsActive:  w.IsActive,
		IsMain:    w.IsMain,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
