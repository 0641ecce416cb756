package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryRequest entrada para crear o actualizar una categoría.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Slug        string `json:"slug" validate:"omitempty,max=120"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	IsActive    *bool  `json:"is_active"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BrandRequest entrada para crear o actualizar una marca.
type BrandRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Slug        string `json:"slug" validate:"omitempty,max=120"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url" validate:"omitempty,url"`
	Website     string `json:"website" validate:"omitempty,url"`
	IsActive    *bool  `json:"is_active"`
}

// BrandResponse salida de una marca.
type BrandResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	LogoURL     string    `json:"logo_url,omitempty"`
	Website     string    `json:"website,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name             string           `json:"name" validate:"required,min=1,max=200"`
	Slug             string           `json:"slug" validate:"omitempty,max=220"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"short_description" validate:"omitempty,max=500"`
	CategoryID       string           `json:"category_id" validate:"required,uuid"`
	BrandID          string           `json:"brand_id" validate:"omitempty,uuid"`
	Price            decimal.Decimal  `json:"price"`
	CostPrice        decimal.Decimal  `json:"cost_price"`
	IVAPercentage    *decimal.Decimal `json:"iva_percentage"`
	SKU              string           `json:"sku" validate:"required,min=1,max=50"`
	Barcode          string           `json:"barcode" validate:"omitempty,max=50"`
	Weight           *decimal.Decimal `json:"weight"`
	Dimensions       string           `json:"dimensions" validate:"omitempty,max=100"`
	IsActive         *bool            `json:"is_active"`
	IsFeatured       bool             `json:"is_featured"`
}

// UpdateProductRequest entrada para actualizar un producto. El costo cambia solo por compras.
type UpdateProductRequest struct {
	Name             *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description      *string          `json:"description"`
	ShortDescription *string          `json:"short_description" validate:"omitempty,max=500"`
	CategoryID       *string          `json:"category_id" validate:"omitempty,uuid"`
	BrandID          *string          `json:"brand_id" validate:"omitempty,uuid"`
	Price            *decimal.Decimal `json:"price"`
	IVAPercentage    *decimal.Decimal `json:"iva_percentage"`
	Barcode          *string          `json:"barcode" validate:"omitempty,max=50"`
	Weight           *decimal.Decimal `json:"weight"`
	Dimensions       *string          `json:"dimensions" validate:"omitempty,max=100"`
	IsActive         *bool            `json:"is_active"`
	IsFeatured       *bool            `json:"is_featured"`
}

// ProductFilterRequest filtros del listado de productos.
type ProductFilterRequest struct {
	CategoryID string `query:"category_id"`
	BrandID    string `query:"brand_id"`
	Search     string `query:"search"`
	Active     *bool  `query:"active"`
	Featured   *bool  `query:"featured"`
	PageRequest
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"short_description"`
	CategoryID       string           `json:"category_id"`
	BrandID          string           `json:"brand_id,omitempty"`
	Price            decimal.Decimal  `json:"price"`
	CostPrice        decimal.Decimal  `json:"cost_price"`
	IVAPercentage    decimal.Decimal  `json:"iva_percentage"`
	IVAAmount        decimal.Decimal  `json:"iva_amount"`
	PriceWithIVA     decimal.Decimal  `json:"price_with_iva"`
	SKU              string           `json:"sku"`
	Barcode          string           `json:"barcode,omitempty"`
	Weight           *decimal.Decimal `json:"weight,omitempty"`
	Dimensions       string           `json:"dimensions,omitempty"`
	IsActive         bool             `json:"is_active"`
	IsFeatured       bool             `json:"is_featured"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductImageRequest entrada para agregar una imagen.
type ProductImageRequest struct {
	URL       string `json:"url" validate:"required,url"`
	AltText   string `json:"alt_text" validate:"omitempty,max=200"`
	IsPrimary bool   `json:"is_primary"`
	Order     int    `json:"order" validate:"min=0"`
}

// ProductImageResponse salida de una imagen.
type ProductImageResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	URL       string `json:"url"`
	AltText   string `json:"alt_text"`
	IsPrimary bool   `json:"is_primary"`
	Order     int    `json:"order"`
}

// CartItemRequest entrada para agregar una línea al carrito.
type CartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CartQuantityRequest entrada para cambiar la cantidad (<= 0 elimina la línea).
type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartItemResponse línea del carrito.
type CartItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	IVAAmount   decimal.Decimal `json:"iva_amount"`
}

// CartResponse carrito con totales.
type CartResponse struct {
	ID           string             `json:"id"`
	Items        []CartItemResponse `json:"items"`
	TotalItems   int                `json:"total_items"`
	TotalAmount  decimal.Decimal    `json:"total_amount"`
	TotalIVA     decimal.Decimal    `json:"total_iva"`
	TotalWithIVA decimal.Decimal    `json:"total_with_iva"`
}

// CartOwner identifica el carrito: usuario autenticado o llave de sesión anónima.
type CartOwner struct {
	UserID     string
	SessionKey string
}
