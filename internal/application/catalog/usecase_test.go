package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/memory"
)

func newCategory(t *testing.T, uc *UseCase, name string) *dto.CategoryResponse {
	t.Helper()
	c, err := uc.CreateCategory(context.Background(), dto.CategoryRequest{Name: name})
	require.NoError(t, err)
	return c
}

func productRequest(categoryID, sku string) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Name: "Jabón de caléndula", CategoryID: categoryID, SKU: sku,
		Price: decimal.NewFromInt(10000), CostPrice: decimal.NewFromInt(6000),
	}
}

func TestCreateCategory_SlugUnicoDesdeElNombre(t *testing.T) {
	uc := NewUseCase(memory.New(), nil)

	first := newCategory(t, uc, "Cuidado Facial")
	second := newCategory(t, uc, "Cuidado  facial")

	assert.Equal(t, "cuidado-facial", first.Slug)
	assert.Equal(t, "cuidado-facial-2", second.Slug)
}

func TestCreateProduct_IVAPorDefectoYPrecioConIVA(t *testing.T) {
	uc := NewUseCase(memory.New(), nil)
	cat := newCategory(t, uc, "Jabones")

	p, err := uc.CreateProduct(context.Background(), productRequest(cat.ID, "jab-cal"))
	require.NoError(t, err)

	assert.Equal(t, "JAB-CAL", p.SKU)
	assert.Equal(t, "jabon-de-calendula", p.Slug)
	assert.True(t, p.IVAPercentage.Equal(decimal.NewFromInt(19)))
	assert.True(t, p.IVAAmount.Equal(decimal.NewFromInt(1900)))
	assert.True(t, p.PriceWithIVA.Equal(decimal.NewFromInt(11900)))
	assert.True(t, p.IsActive)
}

func TestCreateProduct_SKUDuplicado(t *testing.T) {
	uc := NewUseCase(memory.New(), nil)
	cat := newCategory(t, uc, "Jabones")
	ctx := context.Background()

	_, err := uc.CreateProduct(ctx, productRequest(cat.ID, "JAB-01"))
	require.NoError(t, err)
	_, err = uc.CreateProduct(ctx, productRequest(cat.ID, "jab-01"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateProduct_RechazaPreciosEIVAInvalidos(t *testing.T) {
	uc := NewUseCase(memory.New(), nil)
	cat := newCategory(t, uc, "Jabones")
	ctx := context.Background()

	in := productRequest(cat.ID, "JAB-02")
	in.Price = decimal.Zero
	_, err := uc.CreateProduct(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = productRequest(cat.ID, "JAB-03")
	iva := decimal.NewFromInt(16)
	in.IVAPercentage = &iva
	_, err = uc.CreateProduct(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddImage_UnaSolaPrincipal(t *testing.T) {
	uc := NewUseCase(memory.New(), nil)
	cat := newCategory(t, uc, "Aceites")
	ctx := context.Background()
	p, err := uc.CreateProduct(ctx, productRequest(cat.ID, "ACE-01"))
	require.NoError(t, err)

	first, err := uc.AddImage(ctx, p.ID, dto.ProductImageRequest{URL: "https://cdn.example.com/a.jpg"})
	require.NoError(t, err)
	assert.True(t, first.IsPrimary, "la primera imagen queda como principal")

	second, err := uc.AddImage(ctx, p.ID, dto.ProductImageRequest{URL: "https://cdn.example.com/b.jpg", IsPrimary: true})
	require.NoError(t, err)

	images, err := uc.ListImages(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	primaries := 0
	for _, img := range images {
		if img.IsPrimary {
			primaries++
			assert.Equal(t, second.ID, img.ID)
		}
	}
	assert.Equal(t, 1, primaries)
}

func TestCart_AcumulaCantidadYCalculaTotales(t *testing.T) {
	s := memory.New()
	uc := NewUseCase(s, nil)
	cart := NewCartUseCase(s)
	cat := newCategory(t, uc, "Jabones")
	ctx := context.Background()
	p, err := uc.CreateProduct(ctx, productRequest(cat.ID, "JAB-10"))
	require.NoError(t, err)
	owner := dto.CartOwner{SessionKey: "sess-1"}

	_, err = cart.AddItem(ctx, owner, dto.CartItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	out, err := cart.AddItem(ctx, owner, dto.CartItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	assert.Equal(t, 3, out.TotalItems)
	assert.True(t, out.TotalAmount.Equal(decimal.NewFromInt(30000)))
	assert.True(t, out.TotalIVA.Equal(decimal.NewFromInt(5700)))
	assert.True(t, out.TotalWithIVA.Equal(decimal.NewFromInt(35700)))

	out, err = cart.UpdateItem(ctx, owner, out.Items[0].ID, 0)
	require.NoError(t, err)
	assert.Empty(t, out.Items, "cantidad cero elimina la línea")
}

func TestCart_ProductoInactivo(t *testing.T) {
	s := memory.New()
	uc := NewUseCase(s, nil)
	cart := NewCartUseCase(s)
	cat := newCategory(t, uc, "Jabones")
	ctx := context.Background()
	p, err := uc.CreateProduct(ctx, productRequest(cat.ID, "JAB-11"))
	require.NoError(t, err)
	require.NoError(t, uc.DeactivateProduct(ctx, p.ID))

	_, err = cart.AddItem(ctx, dto.CartOwner{UserID: "u1"}, dto.CartItemRequest{ProductID: p.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCart_SinDueno(t *testing.T) {
	cart := NewCartUseCase(memory.New())
	_, err := cart.Get(context.Background(), dto.CartOwner{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
