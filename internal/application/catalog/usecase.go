package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
	"github.com/jhoicas/naturalmede-api/pkg/slug"
)

// Tarifas de IVA vigentes en Colombia.
var validIVA = []decimal.Decimal{decimal.Zero, decimal.NewFromInt(5), decimal.NewFromInt(19)}

// UseCase categorías, marcas, productos e imágenes.
type UseCase struct {
	uow      ports.UnitOfWork
	recorder *audit.Recorder
	now      func() time.Time
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(uow ports.UnitOfWork, recorder *audit.Recorder) *UseCase {
	return &UseCase{uow: uow, recorder: recorder, now: time.Now}
}

func isValidIVA(v decimal.Decimal) bool {
	for _, r := range validIVA {
		if v.Equal(r) {
			return true
		}
	}
	return false
}

// uniqueSlug deriva el slug del nombre cuando no viene y garantiza unicidad.
func uniqueSlug(ctx context.Context, requested, name, exceptID string, exists func(ctx context.Context, slug, exceptID string) (bool, error)) (string, error) {
	base := slug.Make(requested)
	if base == "" {
		base = slug.Make(name)
	}
	return slug.Unique(base, func(s string) (bool, error) { return exists(ctx, s, exceptID) })
}

// CreateProduct crea un producto. SKU único; precio y costo mayores que cero.
func (uc *UseCase) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !in.Price.IsPositive() || !in.CostPrice.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	iva := entity.DefaultIVAPercentage
	if in.IVAPercentage != nil {
		iva = *in.IVAPercentage
	}
	if !isValidIVA(iva) {
		return nil, domain.ErrInvalidInput
	}
	if in.Weight != nil && in.Weight.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	p := &entity.Product{
		ID:               uuid.New().String(),
		Name:             strings.TrimSpace(in.Name),
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		CategoryID:       in.CategoryID,
		BrandID:          in.BrandID,
		Price:            in.Price,
		CostPrice:        in.CostPrice,
		IVAPercentage:    iva,
		SKU:              strings.ToUpper(strings.TrimSpace(in.SKU)),
		Barcode:          strings.TrimSpace(in.Barcode),
		Weight:           in.Weight,
		Dimensions:       in.Dimensions,
		IsActive:         in.IsActive == nil || *in.IsActive,
		IsFeatured:       in.IsFeatured,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		if _, err := tx.Products().GetBySKU(ctx, p.SKU); err == nil {
			return domain.ErrDuplicate
		} else if !domain.IsNotFound(err) {
			return err
		}
		if _, err := tx.Categories().GetByID(ctx, p.CategoryID); err != nil {
			return err
		}
		if p.BrandID != "" {
			if _, err := tx.Brands().GetByID(ctx, p.BrandID); err != nil {
				return err
			}
		}
		s, err := uniqueSlug(ctx, in.Slug, p.Name, "", tx.Products().ExistsSlug)
		if err != nil {
			return err
		}
		p.Slug = s
		return tx.Products().Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	out := toProductResponse(p)
	uc.recorder.Record(ctx, audit.Entry{
		Action:     entity.AuditActionCreate,
		EntityType: entity.AuditEntityProduct,
		ObjectID:   p.ID,
		ObjectRepr: p.SKU + " " + p.Name,
		New:        out,
	})
	return &out, nil
}

// UpdateProduct actualiza un producto. El costo solo cambia con recepciones de compra.
func (uc *UseCase) UpdateProduct(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var before, after dto.ProductResponse
	priceChanged := false
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		p, err := tx.Products().GetByID(ctx, id)
		if err != nil {
			return err
		}
		before = toProductResponse(p)
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.ShortDescription != nil {
			p.ShortDescription = *in.ShortDescription
		}
		if in.CategoryID != nil {
			if _, err := tx.Categories().GetByID(ctx, *in.CategoryID); err != nil {
				return err
			}
			p.CategoryID = *in.CategoryID
		}
		if in.BrandID != nil {
			if *in.BrandID != "" {
				if _, err := tx.Brands().GetByID(ctx, *in.BrandID); err != nil {
					return err
				}
			}
			p.BrandID = *in.BrandID
		}
		if in.Price != nil {
			if !in.Price.IsPositive() {
				return domain.ErrInvalidInput
			}
			priceChanged = !in.Price.Equal(p.Price)
			p.Price = *in.Price
		}
		if in.IVAPercentage != nil {
			if !isValidIVA(*in.IVAPercentage) {
				return domain.ErrInvalidInput
			}
			p.IVAPercentage = *in.IVAPercentage
		}
		if in.Barcode != nil {
			p.Barcode = strings.TrimSpace(*in.Barcode)
		}
		if in.Weight != nil {
			if in.Weight.IsNegative() {
				return domain.ErrInvalidInput
			}
			p.Weight = in.Weight
		}
		if in.Dimensions != nil {
			p.Dimensions = *in.Dimensions
		}
		if in.IsActive != nil {
			p.IsActive = *in.IsActive
		}
		if in.IsFeatured != nil {
			p.IsFeatured = *in.IsFeatured
		}
		p.UpdatedAt = uc.now()
		if err := tx.Products().Update(ctx, p); err != nil {
			return err
		}
		after = toProductResponse(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	action := entity.AuditActionUpdate
	if priceChanged {
		action = entity.AuditActionPriceChange
	}
	uc.recorder.Record(ctx, audit.Entry{
		Action:     action,
		EntityType: entity.AuditEntityProduct,
		ObjectID:   id,
		ObjectRepr: after.SKU + " " + after.Name,
		Old:        before,
		New:        after,
	})
	return &after, nil
}

// DeactivateProduct desactiva el producto (no se borra: tiene historial en el ledger).
func (uc *UseCase) DeactivateProduct(ctx context.Context, id string) error {
	f := false
	_, err := uc.UpdateProduct(ctx, id, dto.UpdateProductRequest{IsActive: &f})
	return err
}

// GetProduct obtiene un producto por ID.
func (uc *UseCase) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.uow.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toProductResponse(p)
	return &out, nil
}

// GetProductByBarcode busca por código de barras (lector del POS).
func (uc *UseCase) GetProductByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error) {
	p, err := uc.uow.Products().GetByBarcode(ctx, strings.TrimSpace(barcode))
	if err != nil {
		return nil, err
	}
	out := toProductResponse(p)
	return &out, nil
}

// ListProducts lista productos con filtros y paginación.
func (uc *UseCase) ListProducts(ctx context.Context, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.uow.Products().List(ctx, repository.ProductFilter{
		CategoryID: in.CategoryID,
		BrandID:    in.BrandID,
		Search:     strings.TrimSpace(in.Search),
		Active:     in.Active,
		Featured:   in.Featured,
		Page:       repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// AddImage agrega una imagen; si es principal desmarca las demás del producto.
func (uc *UseCase) AddImage(ctx context.Context, productID string, in dto.ProductImageRequest) (*dto.ProductImageResponse, error) {
	img := &entity.ProductImage{
		ID:        uuid.New().String(),
		ProductID: productID,
		URL:       in.URL,
		AltText:   in.AltText,
		IsPrimary: in.IsPrimary,
		Order:     in.Order,
		CreatedAt: uc.now(),
	}
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		if _, err := tx.Products().GetByID(ctx, productID); err != nil {
			return err
		}
		existing, err := tx.ProductImages().ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			img.IsPrimary = true
		}
		if img.IsPrimary {
			if err := tx.ProductImages().ClearPrimary(ctx, productID); err != nil {
				return err
			}
		}
		return tx.ProductImages().Create(ctx, img)
	})
	if err != nil {
		return nil, err
	}
	out := toImageResponse(img)
	return &out, nil
}

// ListImages imágenes del producto.
func (uc *UseCase) ListImages(ctx context.Context, productID string) ([]dto.ProductImageResponse, error) {
	list, err := uc.uow.ProductImages().ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductImageResponse, 0, len(list))
	for _, img := range list {
		out = append(out, toImageResponse(img))
	}
	return out, nil
}

// DeleteImage elimina una imagen del producto.
func (uc *UseCase) DeleteImage(ctx context.Context, productID, imageID string) error {
	return uc.uow.Run(ctx, func(tx ports.Repositories) error {
		img, err := tx.ProductImages().GetByID(ctx, imageID)
		if err != nil {
			return err
		}
		if img.ProductID != productID {
			return domain.ErrNotFound
		}
		return tx.ProductImages().Delete(ctx, imageID)
	})
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		CategoryID:       p.CategoryID,
		BrandID:          p.BrandID,
		Price:            p.Price,
		CostPrice:        p.CostPrice,
		IVAPercentage:    p.IVAPercentage,
		IVAAmount:        p.IVAAmount(),
		PriceWithIVA:     p.PriceWithIVA(),
		SKU:              p.SKU,
		Barcode:          p.Barcode,
		Weight:           p.Weight,
		Dimensions:       p.Dimensions,
		IsActive:         p.IsActive,
		IsFeatured:       p.IsFeatured,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toImageResponse(img *entity.ProductImage) dto.ProductImageResponse {
	return dto.ProductImageResponse{
		ID:        img.ID,
		ProductID: img.ProductID,
		URL:       img.URL,
		AltText:   img.AltText,
		IsPrimary: img.IsPrimary,
		Order:     img.Order,
	}
}
