package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart carrito de la tienda web, de un usuario autenticado o de una sesión anónima.
type Cart struct {
	ID         string
	UserID     string // vacío si es anónimo
	SessionKey string // vacío si es de usuario
	Items      []CartItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CartItem línea del carrito (única por producto). Product se carga para calcular totales.
type CartItem struct {
	ID        string
	CartID    string
	ProductID string
	Quantity  int
	Product   *Product
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Total precio * cantidad sin IVA.
func (i CartItem) Total() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IVAAmount IVA de la línea.
func (i CartItem) IVAAmount() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Total().Mul(i.Product.IVAPercentage).Div(hundred).Round(2)
}

// TotalItems suma de cantidades.
func (c *Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// TotalAmount suma sin IVA.
func (c *Cart) TotalAmount() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.Items {
		sum = sum.Add(it.Total())
	}
	return sum
}

// TotalIVA suma del IVA de las líneas.
func (c *Cart) TotalIVA() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.Items {
		sum = sum.Add(it.IVAAmount())
	}
	return sum
}

// TotalWithIVA total a pagar.
func (c *Cart) TotalWithIVA() decimal.Decimal {
	return c.TotalAmount().Add(c.TotalIVA())
}
