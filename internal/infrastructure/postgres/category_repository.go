package postgres

import (
	"context"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.BrandRepository    = (*BrandRepo)(nil)
)

// CategoryRepo categorías del catálogo.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, name, slug, description, image_url, is_active, created_at, updated_at`

func scanCategory(row scanner) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `INSERT INTO categories (`+categoryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.Slug, c.Description, c.ImageURL, c.IsActive, c.CreatedAt, c.UpdatedAt)
	return wrap("insert category", err)
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE categories SET name = $2, slug = $3, description = $4, image_url = $5, is_active = $6, updated_at = $7
		WHERE id = $1`,
		c.ID, c.Name, c.Slug, c.Description, c.ImageURL, c.IsActive, c.UpdatedAt)
	return mustAffect(tag, err, "update category")
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	return c, wrap("get category", err)
}

func (r *CategoryRepo) ExistsSlug(ctx context.Context, slug, exceptID string) (bool, error) {
	return existsSlug(ctx, r.q, "categories", slug, exceptID)
}

func (r *CategoryRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE (NOT $1 OR is_active) ORDER BY name`, activeOnly)
	return collect(rows, err, "list categories", scanCategory)
}

// BrandRepo marcas del catálogo.
type BrandRepo struct {
	q Querier
}

// NewBrandRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBrandRepository(q Querier) *BrandRepo {
	return &BrandRepo{q: q}
}

const brandColumns = `id, name, slug, description, logo_url, website, is_active, created_at, updated_at`

func scanBrand(row scanner) (*entity.Brand, error) {
	var b entity.Brand
	if err := row.Scan(&b.ID, &b.Name, &b.Slug, &b.Description, &b.LogoURL, &b.Website, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BrandRepo) Create(ctx context.Context, b *entity.Brand) error {
	_, err := r.q.Exec(ctx, `INSERT INTO brands (`+brandColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, b.Name, b.Slug, b.Description, b.LogoURL, b.Website, b.IsActive, b.CreatedAt, b.UpdatedAt)
	return wrap("insert brand", err)
}

func (r *BrandRepo) Update(ctx context.Context, b *entity.Brand) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE brands SET name = $2, slug = $3, description = $4, logo_url = $5, website = $6, is_active = $7, updated_at = $8
		WHERE id = $1`,
		b.ID, b.Name, b.Slug, b.Description, b.LogoURL, b.Website, b.IsActive, b.UpdatedAt)
	return mustAffect(tag, err, "update brand")
}

func (r *BrandRepo) GetByID(ctx context.Context, id string) (*entity.Brand, error) {
	b, err := scanBrand(r.q.QueryRow(ctx, `SELECT `+brandColumns+` FROM brands WHERE id = $1`, id))
	return b, wrap("get brand", err)
}

func (r *BrandRepo) ExistsSlug(ctx context.Context, slug, exceptID string) (bool, error) {
	return existsSlug(ctx, r.q, "brands", slug, exceptID)
}

func (r *BrandRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Brand, error) {
	rows, err := r.q.Query(ctx, `SELECT `+brandColumns+` FROM brands WHERE (NOT $1 OR is_active) ORDER BY name`, activeOnly)
	return collect(rows, err, "list brands", scanBrand)
}

// existsSlug table es siempre una constante del paquete.
func existsSlug(ctx context.Context, q Querier, table, slug, exceptID string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE slug = $1 AND id::text <> $2)`, slug, exceptID,
	).Scan(&exists)
	return exists, wrap("exists slug", err)
}
