package postgres

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, slug, description, short_description, category_id, brand_id, price, cost_price,
	iva_percentage, sku, barcode, weight, dimensions, is_active, is_featured, created_at, updated_at`

func scanProduct(row scanner) (*entity.Product, error) {
	var p entity.Product
	var categoryID, brandID *string
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription, &categoryID, &brandID,
		&p.Price, &p.CostPrice, &p.IVAPercentage, &p.SKU, &p.Barcode, &p.Weight, &p.Dimensions,
		&p.IsActive, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.CategoryID, p.BrandID = deref(categoryID), deref(brandID)
	return &p, nil
}

// Create persiste un nuevo producto. SKU y slug son únicos.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		p.ID, p.Name, p.Slug, p.Description, p.ShortDescription, nullable(p.CategoryID), nullable(p.BrandID),
		p.Price, p.CostPrice, p.IVAPercentage, p.SKU, p.Barcode, p.Weight, p.Dimensions,
		p.IsActive, p.IsFeatured, p.CreatedAt, p.UpdatedAt,
	)
	return wrap("insert product", err)
}

// Update actualiza un producto existente. No modifica cost_price (se maneja vía recepciones).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE products SET name = $2, slug = $3, description = $4, short_description = $5, category_id = $6,
			brand_id = $7, price = $8, iva_percentage = $9, sku = $10, barcode = $11, weight = $12,
			dimensions = $13, is_active = $14, is_featured = $15, updated_at = $16
		WHERE id = $1`,
		p.ID, p.Name, p.Slug, p.Description, p.ShortDescription, nullable(p.CategoryID), nullable(p.BrandID),
		p.Price, p.IVAPercentage, p.SKU, p.Barcode, p.Weight, p.Dimensions, p.IsActive, p.IsFeatured, p.UpdatedAt,
	)
	return mustAffect(tag, err, "update product")
}

// UpdateCost actualiza solo el costo promedio del producto.
func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET cost_price = $2, updated_at = now() WHERE id = $1`, productID, cost)
	return mustAffect(tag, err, "update product cost")
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	return p, wrap("get product", err)
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE lower(sku) = lower($1)`, sku))
	return p, wrap("get product by sku", err)
}

func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE barcode = $1 AND barcode <> '' LIMIT 1`, barcode))
	return p, wrap("get product by barcode", err)
}

func (r *ProductRepo) ExistsSlug(ctx context.Context, slug, exceptID string) (bool, error) {
	return existsSlug(ctx, r.q, "products", slug, exceptID)
}

// List filtra por categoría, marca, estado y texto (nombre, SKU o código de barras exacto).
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var w where
	if f.CategoryID != "" {
		w.add("category_id = ?", f.CategoryID)
	}
	if f.BrandID != "" {
		w.add("brand_id = ?", f.BrandID)
	}
	if f.Active != nil {
		w.add("is_active = ?", *f.Active)
	}
	if f.Featured != nil {
		w.add("is_featured = ?", *f.Featured)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		w.add("(name ILIKE '%' || ? || '%' OR sku ILIKE '%' || ? || '%' OR barcode = ?)", s)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, wrap("count products", err)
	}
	p := f.Page.Normalize()
	query := `SELECT ` + productColumns + ` FROM products` + w.sql() + ` ORDER BY name` + w.page(p.Limit, p.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	list, err := collect(rows, err, "list products", scanProduct)
	return list, total, err
}
