package repository

import (
	"context"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
)

// OrderRepository órdenes web. GetByID y GetByNumber cargan Items.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	Update(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByNumber(ctx context.Context, number string) (*entity.Order, error)
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, int, error)
}

// ShippingRateRepository tarifas de envío.
type ShippingRateRepository interface {
	Create(ctx context.Context, r *entity.ShippingRate) error
	Update(ctx context.Context, r *entity.ShippingRate) error
	GetByID(ctx context.Context, id string) (*entity.ShippingRate, error)
	Delete(ctx context.Context, id string) error
	// List devuelve las tarifas ordenadas por ciudad y peso mínimo.
	List(ctx context.Context, activeOnly bool) ([]*entity.ShippingRate, error)
}

// WompiConfigRepository registro único de credenciales Wompi.
type WompiConfigRepository interface {
	Get(ctx context.Context) (*entity.WompiConfig, error)
	Save(ctx context.Context, c *entity.WompiConfig) error
}
