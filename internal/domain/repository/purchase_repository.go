package repository

import (
	"context"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
)

// SupplierRepository proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	Update(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	List(ctx context.Context, search string, activeOnly bool) ([]*entity.Supplier, error)
}

// PurchaseRepository compras y sus líneas. GetByID carga Items.
type PurchaseRepository interface {
	Create(ctx context.Context, p *entity.Purchase) error
	Update(ctx context.Context, p *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	List(ctx context.Context, f PurchaseFilter) ([]*entity.Purchase, int, error)
	AddItem(ctx context.Context, item *entity.PurchaseItem) error
	DeleteItem(ctx context.Context, purchaseID, itemID string) error
	CreateReceipt(ctx context.Context, r *entity.PurchaseReceipt) error
	GetReceipt(ctx context.Context, purchaseID string) (*entity.PurchaseReceipt, error)
}
