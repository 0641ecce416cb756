package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
)

// CreateCategory crea una categoría con slug único.
func (uc *UseCase) CreateCategory(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	c := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		IsActive:    in.IsActive == nil || *in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		s, err := uniqueSlug(ctx, in.Slug, name, "", tx.Categories().ExistsSlug)
		if err != nil {
			return err
		}
		c.Slug = s
		return tx.Categories().Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	out := toCategoryResponse(c)
	uc.recorder.Record(ctx, audit.Entry{Action: entity.AuditActionCreate, EntityType: entity.AuditEntityCategory, ObjectID: c.ID, ObjectRepr: c.Name, New: out})
	return &out, nil
}

// UpdateCategory actualiza una categoría.
func (uc *UseCase) UpdateCategory(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	var before, after dto.CategoryResponse
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		c, err := tx.Categories().GetByID(ctx, id)
		if err != nil {
			return err
		}
		before = toCategoryResponse(c)
		c.Name = strings.TrimSpace(in.Name)
		c.Description = in.Description
		c.ImageURL = in.ImageURL
		if in.IsActive != nil {
			c.IsActive = *in.IsActive
		}
		if in.Slug != "" && in.Slug != c.Slug {
			s, err := uniqueSlug(ctx, in.Slug, c.Name, c.ID, tx.Categories().ExistsSlug)
			if err != nil {
				return err
			}
			c.Slug = s
		}
		c.UpdatedAt = uc.now()
		if err := tx.Categories().Update(ctx, c); err != nil {
			return err
		}
		after = toCategoryResponse(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, audit.Entry{Action: entity.AuditActionUpdate, EntityType: entity.AuditEntityCategory, ObjectID: id, ObjectRepr: after.Name, Old: before, New: after})
	return &after, nil
}

// GetCategory obtiene una categoría.
func (uc *UseCase) GetCategory(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.uow.Categories().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toCategoryResponse(c)
	return &out, nil
}

// ListCategories lista categorías.
func (uc *UseCase) ListCategories(ctx context.Context, activeOnly bool) ([]dto.CategoryResponse, error) {
	list, err := uc.uow.Categories().List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// CreateBrand crea una marca con slug único.
func (uc *UseCase) CreateBrand(ctx context.Context, in dto.BrandRequest) (*dto.BrandResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	b := &entity.Brand{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		LogoURL:     in.LogoURL,
		Website:     in.Website,
		IsActive:    in.IsActive == nil || *in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		s, err := uniqueSlug(ctx, in.Slug, name, "", tx.Brands().ExistsSlug)
		if err != nil {
			return err
		}
		b.Slug = s
		return tx.Brands().Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	out := toBrandResponse(b)
	uc.recorder.Record(ctx, audit.Entry{Action: entity.AuditActionCreate, EntityType: entity.AuditEntityBrand, ObjectID: b.ID, ObjectRepr: b.Name, New: out})
	return &out, nil
}

// UpdateBrand actualiza una marca.
func (uc *UseCase) UpdateBrand(ctx context.Context, id string, in dto.BrandRequest) (*dto.BrandResponse, error) {
	var before, after dto.BrandResponse
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		b, err := tx.Brands().GetByID(ctx, id)
		if err != nil {
			return err
		}
		before = toBrandResponse(b)
		b.Name = strings.TrimSpace(in.Name)
		b.Description = in.Description
		b.LogoURL = in.LogoURL
		b.Website = in.Website
		if in.IsActive != nil {
			b.IsActive = *in.IsActive
		}
		if in.Slug != "" && in.Slug != b.Slug {
			s, err := uniqueSlug(ctx, in.Slug, b.Name, b.ID, tx.Brands().ExistsSlug)
			if err != nil {
				return err
			}
			b.Slug = s
		}
		b.UpdatedAt = uc.now()
		if err := tx.Brands().Update(ctx, b); err != nil {
			return err
		}
		after = toBrandResponse(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, audit.Entry{Action: entity.AuditActionUpdate, EntityType: entity.AuditEntityBrand, ObjectID: id, ObjectRepr: after.Name, Old: before, New: after})
	return &after, nil
}

// GetBrand obtiene una marca.
func (uc *UseCase) GetBrand(ctx context.Context, id string) (*dto.BrandResponse, error) {
	b, err := uc.uow.Brands().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toBrandResponse(b)
	return &out, nil
}

// ListBrands lista marcas.
func (uc *UseCase) ListBrands(ctx context.Context, activeOnly bool) ([]dto.BrandResponse, error) {
	list, err := uc.uow.Brands().List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BrandResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBrandResponse(b))
	}
	return out, nil
}

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toBrandResponse(b *entity.Brand) dto.BrandResponse {
	return dto.BrandResponse{
		ID:          b.ID,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		LogoURL:     b.LogoURL,
		Website:     b.Website,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
