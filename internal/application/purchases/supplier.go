package purchases

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/pkg/nit"
	"github.com/jhoicas/naturalmede-api/pkg/phone"
)

// CreateSupplier registra un proveedor. El NIT, si viene, debe tener dígito de verificación válido.
func (uc *UseCase) CreateSupplier(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	now := uc.now()
	s := &entity.Supplier{ID: uuid.New().String(), IsActive: true, CreatedAt: now}
	if err := applySupplier(s, in); err != nil {
		return nil, err
	}
	s.UpdatedAt = now
	if err := uc.uow.Suppliers().Create(ctx, s); err != nil {
		return nil, err
	}
	out := toSupplierResponse(s)
	uc.recorder.Record(ctx, audit.Entry{Action: entity.AuditActionCreate, EntityType: entity.AuditEntitySupplier, ObjectID: s.ID, ObjectRepr: s.Name, New: out})
	return &out, nil
}

// UpdateSupplier modifica un proveedor.
func (uc *UseCase) UpdateSupplier(ctx context.Context, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.uow.Suppliers().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := toSupplierResponse(s)
	if err := applySupplier(s, in); err != nil {
		return nil, err
	}
	s.UpdatedAt = uc.now()
	if err := uc.uow.Suppliers().Update(ctx, s); err != nil {
		return nil, err
	}
	out := toSupplierResponse(s)
	uc.recorder.Record(ctx, audit.Entry{Action: entity.AuditActionUpdate, EntityType: entity.AuditEntitySupplier, ObjectID: s.ID, ObjectRepr: s.Name, Old: before, New: out})
	return &out, nil
}

// GetSupplier obtiene un proveedor.
func (uc *UseCase) GetSupplier(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.uow.Suppliers().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toSupplierResponse(s)
	return &out, nil
}

// ListSuppliers lista proveedores.
func (uc *UseCase) ListSuppliers(ctx context.Context, search string, activeOnly bool) ([]dto.SupplierResponse, error) {
	list, err := uc.uow.Suppliers().List(ctx, strings.TrimSpace(search), activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

func applySupplier(s *entity.Supplier, in dto.SupplierRequest) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.ErrInvalidInput
	}
	taxID := strings.TrimSpace(in.TaxID)
	if taxID != "" {
		formatted, err := nit.Format(taxID)
		if err != nil {
			return fmt.Errorf("%s: %w", err.Error(), domain.ErrInvalidInput)
		}
		taxID = formatted
	}
	tel, err := phone.Normalize(in.Phone)
	if err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrInvalidInput)
	}
	s.Name = name
	s.ContactPerson = in.ContactPerson
	s.Email = strings.ToLower(strings.TrimSpace(in.Email))
	s.Phone = tel
	s.Address = in.Address
	s.City = in.City
	s.TaxID = taxID
	s.PaymentTerms = in.PaymentTerms
	s.Notes = in.Notes
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	return nil
}

func toSupplierResponse(s *entity.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		City:          s.City,
		TaxID:         s.TaxID,
		PaymentTerms:  s.PaymentTerms,
		Notes:         s.Notes,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
