package postgres

import (
	"context"

	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

var (
	_ repository.ProductImageRepository = (*ProductImageRepo)(nil)
	_ repository.CartRepository         = (*CartRepo)(nil)
)

// ProductImageRepo imágenes de producto.
type ProductImageRepo struct {
	q Querier
}

// NewProductImageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductImageRepository(q Querier) *ProductImageRepo {
	return &ProductImageRepo{q: q}
}

const imageColumns = `id, product_id, url, alt_text, is_primary, sort_order, created_at`

func scanImage(row scanner) (*entity.ProductImage, error) {
	var img entity.ProductImage
	if err := row.Scan(&img.ID, &img.ProductID, &img.URL, &img.AltText, &img.IsPrimary, &img.Order, &img.CreatedAt); err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *ProductImageRepo) Create(ctx context.Context, img *entity.ProductImage) error {
	_, err := r.q.Exec(ctx, `INSERT INTO product_images (`+imageColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		img.ID, img.ProductID, img.URL, img.AltText, img.IsPrimary, img.Order, img.CreatedAt)
	return wrap("insert product image", err)
}

func (r *ProductImageRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ProductImage, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+imageColumns+` FROM product_images WHERE product_id = $1 ORDER BY sort_order, created_at`, productID)
	return collect(rows, err, "list product images", scanImage)
}

func (r *ProductImageRepo) GetByID(ctx context.Context, id string) (*entity.ProductImage, error) {
	img, err := scanImage(r.q.QueryRow(ctx, `SELECT `+imageColumns+` FROM product_images WHERE id = $1`, id))
	return img, wrap("get product image", err)
}

func (r *ProductImageRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM product_images WHERE id = $1`, id)
	return mustAffect(tag, err, "delete product image")
}

func (r *ProductImageRepo) ClearPrimary(ctx context.Context, productID string) error {
	_, err := r.q.Exec(ctx, `UPDATE product_images SET is_primary = FALSE WHERE product_id = $1 AND is_primary`, productID)
	return wrap("clear primary image", err)
}

// CartRepo carrito de la tienda.
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

const cartColumns = `id, user_id, session_key, created_at, updated_at`

func scanCart(row scanner) (*entity.Cart, error) {
	var c entity.Cart
	var userID, sessionKey *string
	if err := row.Scan(&c.ID, &userID, &sessionKey, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.UserID, c.SessionKey = deref(userID), deref(sessionKey)
	return &c, nil
}

func (r *CartRepo) Create(ctx context.Context, c *entity.Cart) error {
	_, err := r.q.Exec(ctx, `INSERT INTO carts (`+cartColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, nullable(c.UserID), nullable(c.SessionKey), c.CreatedAt, c.UpdatedAt)
	return wrap("insert cart", err)
}

func (r *CartRepo) GetByUserID(ctx context.Context, userID string) (*entity.Cart, error) {
	c, err := scanCart(r.q.QueryRow(ctx, `SELECT `+cartColumns+` FROM carts WHERE user_id = $1`, userID))
	return c, wrap("get cart by user", err)
}

func (r *CartRepo) GetBySessionKey(ctx context.Context, key string) (*entity.Cart, error) {
	c, err := scanCart(r.q.QueryRow(ctx,
		`SELECT `+cartColumns+` FROM carts WHERE user_id IS NULL AND session_key = $1 ORDER BY created_at LIMIT 1`, key))
	return c, wrap("get cart by session", err)
}

// ListItems carga cada línea con su producto.
func (r *CartRepo) ListItems(ctx context.Context, cartID string) ([]entity.CartItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
			p.id, p.name, p.slug, p.description, p.short_description, p.category_id, p.brand_id, p.price, p.cost_price,
			p.iva_percentage, p.sku, p.barcode, p.weight, p.dimensions, p.is_active, p.is_featured, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at`, cartID)
	list, err := collect(rows, err, "list cart items", func(row scanner) (*entity.CartItem, error) {
		var it entity.CartItem
		var p entity.Product
		var categoryID, brandID *string
		err := row.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt,
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription, &categoryID, &brandID,
			&p.Price, &p.CostPrice, &p.IVAPercentage, &p.SKU, &p.Barcode, &p.Weight, &p.Dimensions,
			&p.IsActive, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		p.CategoryID, p.BrandID = deref(categoryID), deref(brandID)
		it.Product = &p
		return &it, nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]entity.CartItem, 0, len(list))
	for _, it := range list {
		out = append(out, *it)
	}
	return out, nil
}

// SaveItem inserta o actualiza la línea por id.
func (r *CartRepo) SaveItem(ctx context.Context, item *entity.CartItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`,
		item.ID, item.CartID, item.ProductID, item.Quantity, item.CreatedAt, item.UpdatedAt)
	return wrap("save cart item", err)
}

func (r *CartRepo) GetItem(ctx context.Context, cartID, itemID string) (*entity.CartItem, error) {
	var it entity.CartItem
	err := r.q.QueryRow(ctx, `
		SELECT id, cart_id, product_id, quantity, created_at, updated_at
		FROM cart_items WHERE cart_id = $1 AND id = $2`, cartID, itemID,
	).Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, wrap("get cart item", err)
	}
	return &it, nil
}

func (r *CartRepo) DeleteItem(ctx context.Context, cartID, itemID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND id = $2`, cartID, itemID)
	return mustAffect(tag, err, "delete cart item")
}

func (r *CartRepo) Clear(ctx context.Context, cartID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return wrap("clear cart", err)
}
