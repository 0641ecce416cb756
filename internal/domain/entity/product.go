package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultIVAPercentage IVA general en Colombia.
var DefaultIVAPercentage = decimal.NewFromInt(19)

var hundred = decimal.NewFromInt(100)

// Product representa un producto del catálogo. El stock vive por bodega en Stock.
type Product struct {
	ID               string
	Name             string
	Slug             string // único
	Description      string
	ShortDescription string
	CategoryID       string
	BrandID          string
	Price            decimal.Decimal  // precio de venta sin IVA
	CostPrice        decimal.Decimal  // costo promedio ponderado
	IVAPercentage    decimal.Decimal  // 0, 5 o 19
	SKU              string           // único
	Barcode          string
	Weight           *decimal.Decimal // kg, opcional
	Dimensions       string
	IsActive         bool
	IsFeatured       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IVAAmount monto de IVA sobre el precio unitario.
func (p *Product) IVAAmount() decimal.Decimal {
	return p.Price.Mul(p.IVAPercentage).Div(hundred).Round(2)
}

// PriceWithIVA precio unitario con IVA incluido.
func (p *Product) PriceWithIVA() decimal.Decimal {
	return p.Price.Add(p.IVAAmount())
}

// WeightOrZero peso del producto o cero si no está definido.
func (p *Product) WeightOrZero() decimal.Decimal {
	if p.Weight == nil {
		return decimal.Zero
	}
	return *p.Weight
}

// ProductImage imagen de un producto; solo una es principal.
type ProductImage struct {
	ID        string
	ProductID string
	URL       string
	AltText   string
	IsPrimary bool
	Order     int
	CreatedAt time.Time
}
