package customers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
	"github.com/jhoicas/naturalmede-api/pkg/phone"
)

// UseCase clientes, direcciones y ubicaciones.
type UseCase struct {
	uow      ports.UnitOfWork
	recorder *audit.Recorder
	now      func() time.Time
}

// NewUseCase construye el caso de uso de clientes.
func NewUseCase(uow ports.UnitOfWork, recorder *audit.Recorder) *UseCase {
	return &UseCase{uow: uow, recorder: recorder, now: time.Now}
}

// Create registra un cliente. El documento es único y el teléfono se valida como colombiano.
func (uc *UseCase) Create(ctx context.Context, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	now := uc.now()
	c := &entity.Customer{ID: uuid.New().String(), IsActive: true, CreatedAt: now}
	if err := apply(c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = now
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		if _, err := tx.Customers().GetByDocument(ctx, c.DocumentNumber); err == nil {
			return domain.ErrDuplicate
		} else if !domain.IsNotFound(err) {
			return err
		}
		return tx.Customers().Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	out := toCustomerResponse(c)
	uc.recorder.Record(ctx, audit.Entry{Action: entity.AuditActionCreate, EntityType: entity.AuditEntityCustomer, ObjectID: c.ID, ObjectRepr: c.FullName(), New: out})
	return &out, nil
}

// Update modifica un cliente.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	var before, after dto.CustomerResponse
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		c, err := tx.Customers().GetByID(ctx, id)
		if err != nil {
			return err
		}
		before = toCustomerResponse(c)
		if err := apply(c, in); err != nil {
			return err
		}
		if c.DocumentNumber != before.DocumentNumber {
			if other, err := tx.Customers().GetByDocument(ctx, c.DocumentNumber); err == nil && other.ID != c.ID {
				return domain.ErrDuplicate
			} else if err != nil && !domain.IsNotFound(err) {
				return err
			}
		}
		c.UpdatedAt = uc.now()
		if err := tx.Customers().Update(ctx, c); err != nil {
			return err
		}
		after = toCustomerResponse(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, audit.Entry{Action: entity.AuditActionUpdate, EntityType: entity.AuditEntityCustomer, ObjectID: id, ObjectRepr: after.FullName, Old: before, New: after})
	return &after, nil
}

// Deactivate desactiva un cliente.
func (uc *UseCase) Deactivate(ctx context.Context, id string) error {
	var before dto.CustomerResponse
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		c, err := tx.Customers().GetByID(ctx, id)
		if err != nil {
			return err
		}
		before = toCustomerResponse(c)
		c.IsActive = false
		c.UpdatedAt = uc.now()
		return tx.Customers().Update(ctx, c)
	})
	if err != nil {
		return err
	}
	uc.recorder.Record(ctx, audit.Entry{Action: entity.AuditActionDelete, EntityType: entity.AuditEntityCustomer, ObjectID: id, ObjectRepr: before.FullName, Old: before})
	return nil
}

// Get obtiene un cliente por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.uow.Customers().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toCustomerResponse(c)
	return &out, nil
}

// GetByDocument obtiene un cliente por número de documento.
func (uc *UseCase) GetByDocument(ctx context.Context, document string) (*dto.CustomerResponse, error) {
	c, err := uc.uow.Customers().GetByDocument(ctx, strings.TrimSpace(document))
	if err != nil {
		return nil, err
	}
	out := toCustomerResponse(c)
	return &out, nil
}

// List lista clientes con búsqueda, tipo y estado.
func (uc *UseCase) List(ctx context.Context, in dto.CustomerFilterRequest) (*dto.CustomerListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.uow.Customers().List(ctx, repository.CustomerFilter{
		Search:       strings.TrimSpace(in.Search),
		CustomerType: in.CustomerType,
		Active:       in.Active,
		Page:         repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, toCustomerResponse(c))
	}
	return &dto.CustomerListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total}}, nil
}

// Resolve busca el cliente por documento y, si no existe, lo crea con los datos dados.
// Se usa dentro de la transacción del checkout.
func Resolve(ctx context.Context, tx ports.Repositories, in dto.CustomerRequest, now time.Time) (*entity.Customer, error) {
	c, err := tx.Customers().GetByDocument(ctx, strings.TrimSpace(in.DocumentNumber))
	if err == nil {
		return c, nil
	}
	if !domain.IsNotFound(err) {
		return nil, err
	}
	c = &entity.Customer{ID: uuid.New().String(), IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := apply(c, in); err != nil {
		return nil, err
	}
	if err := tx.Customers().Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func apply(c *entity.Customer, in dto.CustomerRequest) error {
	doc := strings.TrimSpace(in.DocumentNumber)
	if doc == "" || strings.TrimSpace(in.FirstName) == "" {
		return domain.ErrInvalidInput
	}
	tel, err := phone.Normalize(in.Phone)
	if err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrInvalidInput)
	}
	c.FirstName = strings.TrimSpace(in.FirstName)
	c.LastName = strings.TrimSpace(in.LastName)
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.CustomerType = in.CustomerType
	if c.CustomerType == "" {
		c.CustomerType = entity.CustomerTypeNormal
	}
	c.DocumentType = in.DocumentType
	if c.DocumentType == "" {
		c.DocumentType = "CC"
	}
	c.DocumentNumber = doc
	c.Phone = tel
	c.Address = in.Address
	c.City = in.City
	c.BirthDate = in.BirthDate
	c.Channel = in.Channel
	c.Notes = in.Notes
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	return nil
}

func toCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:             c.ID,
		UserID:         c.UserID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		FullName:       c.FullName(),
		Email:          c.Email,
		CustomerType:   c.CustomerType,
		DocumentType:   c.DocumentType,
		DocumentNumber: c.DocumentNumber,
		Phone:          c.Phone,
		Address:        c.Address,
		City:           c.City,
		BirthDate:      c.BirthDate,
		Channel:        c.Channel,
		Notes:          c.Notes,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
