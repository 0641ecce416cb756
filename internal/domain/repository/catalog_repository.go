package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	Update(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	ExistsSlug(ctx context.Context, slug, exceptID string) (bool, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.Category, error)
}

// BrandRepository define el puerto de persistencia para Brand.
type BrandRepository interface {
	Create(ctx context.Context, b *entity.Brand) error
	Update(ctx context.Context, b *entity.Brand) error
	GetByID(ctx context.Context, id string) (*entity.Brand, error)
	ExistsSlug(ctx context.Context, slug, exceptID string) (bool, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.Brand, error)
}

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	Update(ctx context.Context, p *entity.Product) error
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	ExistsSlug(ctx context.Context, slug, exceptID string) (bool, error)
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, int, error)
}

// ProductImageRepository imágenes de producto.
type ProductImageRepository interface {
	Create(ctx context.Context, img *entity.ProductImage) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.ProductImage, error)
	GetByID(ctx context.Context, id string) (*entity.ProductImage, error)
	Delete(ctx context.Context, id string) error
	// ClearPrimary desmarca la imagen principal del producto.
	ClearPrimary(ctx context.Context, productID string) error
}

// CartRepository carrito de la tienda. ListItems carga Product en cada línea.
type CartRepository interface {
	Create(ctx context.Context, c *entity.Cart) error
	GetByUserID(ctx context.Context, userID string) (*entity.Cart, error)
	GetBySessionKey(ctx context.Context, key string) (*entity.Cart, error)
	ListItems(ctx context.Context, cartID string) ([]entity.CartItem, error)
	// SaveItem inserta o actualiza la línea (única por carrito y producto).
	SaveItem(ctx context.Context, item *entity.CartItem) error
	GetItem(ctx context.Context, cartID, itemID string) (*entity.CartItem, error)
	DeleteItem(ctx context.Context, cartID, itemID string) error
	Clear(ctx context.Context, cartID string) error
}
