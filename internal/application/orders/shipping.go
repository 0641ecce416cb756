package orders

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
)

// shippingCost primera tarifa activa de la ciudad cuyo rango incluye el peso; si no hay, cero.
func shippingCost(ctx context.Context, repos ports.Repositories, city string, weight decimal.Decimal) (decimal.Decimal, error) {
	rates, err := repos.ShippingRates().List(ctx, true)
	if err != nil {
		return decimal.Zero, err
	}
	for _, r := range rates {
		if r.Matches(city, weight) {
			return r.Cost, nil
		}
	}
	return decimal.Zero, nil
}

// QuoteShipping cotiza el envío para una ciudad y un peso.
func (uc *UseCase) QuoteShipping(ctx context.Context, city string, weight decimal.Decimal) (*dto.ShippingQuoteResponse, error) {
	if strings.TrimSpace(city) == "" || weight.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	cost, err := shippingCost(ctx, uc.uow, city, weight)
	if err != nil {
		return nil, err
	}
	return &dto.ShippingQuoteResponse{City: city, Weight: weight, Cost: cost}, nil
}

// CreateShippingRate crea una tarifa.
func (uc *UseCase) CreateShippingRate(ctx context.Context, in dto.ShippingRateRequest) (*dto.ShippingRateResponse, error) {
	now := uc.now()
	r := &entity.ShippingRate{ID: uuid.New().String(), IsActive: true, CreatedAt: now}
	if err := applyRate(r, in); err != nil {
		return nil, err
	}
	r.UpdatedAt = now
	if err := uc.uow.ShippingRates().Create(ctx, r); err != nil {
		return nil, err
	}
	out := toRateResponse(r)
	uc.recorder.Record(ctx, audit.Entry{Action: entity.AuditActionCreate, EntityType: entity.AuditEntityShippingRate, ObjectID: r.ID, ObjectRepr: r.City, New: out})
	return &out, nil
}

// UpdateShippingRate modifica una tarifa.
func (uc *UseCase) UpdateShippingRate(ctx context.Context, id string, in dto.ShippingRateRequest) (*dto.ShippingRateResponse, error) {
	r, err := uc.uow.ShippingRates().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := toRateResponse(r)
	if err := applyRate(r, in); err != nil {
		return nil, err
	}
	r.UpdatedAt = uc.now()
	if err := uc.uow.ShippingRates().Update(ctx, r); err != nil {
		return nil, err
	}
	out := toRateResponse(r)
	uc.recorder.Record(ctx, audit.Entry{Action: entity.AuditActionUpdate, EntityType: entity.AuditEntityShippingRate, ObjectID: r.ID, ObjectRepr: r.City, Old: before, New: out})
	return &out, nil
}

// DeleteShippingRate elimina una tarifa.
func (uc *UseCase) DeleteShippingRate(ctx context.Context, id string) error {
	r, err := uc.uow.ShippingRates().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.uow.ShippingRates().Delete(ctx, id); err != nil {
		return err
	}
	uc.recorder.Record(ctx, audit.Entry{Action: entity.AuditActionDelete, EntityType: entity.AuditEntityShippingRate, ObjectID: r.ID, ObjectRepr: r.City, Old: toRateResponse(r)})
	return nil
}

// GetShippingRate obtiene una tarifa.
func (uc *UseCase) GetShippingRate(ctx context.Context, id string) (*dto.ShippingRateResponse, error) {
	r, err := uc.uow.ShippingRates().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toRateResponse(r)
	return &out, nil
}

// ListShippingRates lista tarifas por ciudad y peso mínimo.
func (uc *UseCase) ListShippingRates(ctx context.Context, activeOnly bool) ([]dto.ShippingRateResponse, error) {
	list, err := uc.uow.ShippingRates().List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShippingRateResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toRateResponse(r))
	}
	return out, nil
}

func applyRate(r *entity.ShippingRate, in dto.ShippingRateRequest) error {
	city := strings.TrimSpace(in.City)
	if city == "" || in.MinWeight.IsNegative() || in.MaxWeight.LessThan(in.MinWeight) || in.Cost.IsNegative() || in.EstimatedDays < 0 {
		return domain.ErrInvalidInput
	}
	r.City = city
	r.MinWeight = in.MinWeight
	r.MaxWeight = in.MaxWeight
	r.Cost = in.Cost
	r.EstimatedDays = in.EstimatedDays
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}
	return nil
}

func toRateResponse(r *entity.ShippingRate) dto.ShippingRateResponse {
	return dto.ShippingRateResponse{
		ID:            r.ID,
		City:          r.City,
		MinWeight:     r.MinWeight,
		MaxWeight:     r.MaxWeight,
		Cost:          r.Cost,
		EstimatedDays: r.EstimatedDays,
		IsActive:      r.IsActive,
	}
}
