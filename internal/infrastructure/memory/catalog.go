package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

type categoryRepo struct{ s *Store }

func (r categoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.s.with(func(d *data) error {
		for _, x := range d.categories {
			if x.Slug == c.Slug {
				return domain.ErrDuplicate
			}
		}
		d.categories[c.ID] = *c
		return nil
	})
}

func (r categoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.s.with(func(d *data) error {
		if _, ok := d.categories[c.ID]; !ok {
			return domain.ErrNotFound
		}
		d.categories[c.ID] = *c
		return nil
	})
}

func (r categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.s.with(func(d *data) error {
		c, ok := d.categories[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = ptr(c)
		return nil
	})
	return out, err
}

func (r categoryRepo) ExistsSlug(_ context.Context, slug, exceptID string) (bool, error) {
	found := false
	err := r.s.with(func(d *data) error {
		for _, c := range d.categories {
			if c.Slug == slug && c.ID != exceptID {
				found = true
			}
		}
		return nil
	})
	return found, err
}

func (r categoryRepo) List(_ context.Context, activeOnly bool) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.s.with(func(d *data) error {
		for _, c := range d.categories {
			if !activeOnly || c.IsActive {
				out = append(out, ptr(c))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Category) int { return cmp.Compare(a.Name, b.Name) })
	return out, err
}

type brandRepo struct{ s *Store }

func (r brandRepo) Create(_ context.Context, b *entity.Brand) error {
	return r.s.with(func(d *data) error {
		for _, x := range d.brands {
			if x.Slug == b.Slug {
				return domain.ErrDuplicate
			}
		}
		d.brands[b.ID] = *b
		return nil
	})
}

func (r brandRepo) Update(_ context.Context, b *entity.Brand) error {
	return r.s.with(func(d *data) error {
		if _, ok := d.brands[b.ID]; !ok {
			return domain.ErrNotFound
		}
		d.brands[b.ID] = *b
		return nil
	})
}

func (r brandRepo) GetByID(_ context.Context, id string) (*entity.Brand, error) {
	var out *entity.Brand
	err := r.s.with(func(d *data) error {
		b, ok := d.brands[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = ptr(b)
		return nil
	})
	return out, err
}

func (r brandRepo) ExistsSlug(_ context.Context, slug, exceptID string) (bool, error) {
	found := false
	err := r.s.with(func(d *data) error {
		for _, b := range d.brands {
			if b.Slug == slug && b.ID != exceptID {
				found = true
			}
		}
		return nil
	})
	return found, err
}

func (r brandRepo) List(_ context.Context, activeOnly bool) ([]*entity.Brand, error) {
	var out []*entity.Brand
	err := r.s.with(func(d *data) error {
		for _, b := range d.brands {
			if !activeOnly || b.IsActive {
				out = append(out, ptr(b))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Brand) int { return cmp.Compare(a.Name, b.Name) })
	return out, err
}

type productRepo struct{ s *Store }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.s.with(func(d *data) error {
		for _, x := range d.products {
			if strings.EqualFold(x.SKU, p.SKU) || x.Slug == p.Slug {
				return domain.ErrDuplicate
			}
		}
		d.products[p.ID] = *p
		return nil
	})
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.s.with(func(d *data) error {
		if _, ok := d.products[p.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, x := range d.products {
			if x.ID != p.ID && strings.EqualFold(x.SKU, p.SKU) {
				return domain.ErrDuplicate
			}
		}
		d.products[p.ID] = *p
		return nil
	})
}

func (r productRepo) UpdateCost(_ context.Context, productID string, cost decimal.Decimal) error {
	return r.s.with(func(d *data) error {
		p, ok := d.products[productID]
		if !ok {
			return domain.ErrNotFound
		}
		p.CostPrice = cost
		d.products[productID] = p
		return nil
	})
}

func (r productRepo) find(match func(entity.Product) bool) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.with(func(d *data) error {
		for _, p := range d.products {
			if match(p) {
				out = ptr(p)
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.find(func(p entity.Product) bool { return p.ID == id })
}

func (r productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	return r.find(func(p entity.Product) bool { return strings.EqualFold(p.SKU, sku) })
}

func (r productRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	return r.find(func(p entity.Product) bool { return barcode != "" && p.Barcode == barcode })
}

func (r productRepo) ExistsSlug(_ context.Context, slug, exceptID string) (bool, error) {
	_, err := r.find(func(p entity.Product) bool { return p.Slug == slug && p.ID != exceptID })
	if domain.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

func (r productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var all []*entity.Product
	search := strings.ToLower(strings.TrimSpace(f.Search))
	err := r.s.with(func(d *data) error {
		for _, p := range d.products {
			switch {
			case f.CategoryID != "" && p.CategoryID != f.CategoryID,
				f.BrandID != "" && p.BrandID != f.BrandID,
				f.Active != nil && p.IsActive != *f.Active,
				f.Featured != nil && p.IsFeatured != *f.Featured:
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.SKU), search) && p.Barcode != f.Search {
				continue
			}
			all = append(all, ptr(p))
		}
		return nil
	})
	slices.SortFunc(all, func(a, b *entity.Product) int { return cmp.Compare(a.Name, b.Name) })
	return paginate(all, f.Page), len(all), err
}

type imageRepo struct{ s *Store }

func (r imageRepo) Create(_ context.Context, img *entity.ProductImage) error {
	return r.s.with(func(d *data) error {
		d.images[img.ID] = *img
		return nil
	})
}

func (r imageRepo) ListByProduct(_ context.Context, productID string) ([]*entity.ProductImage, error) {
	var out []*entity.ProductImage
	err := r.s.with(func(d *data) error {
		for _, img := range d.images {
			if img.ProductID == productID {
				out = append(out, ptr(img))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.ProductImage) int {
		return cmp.Or(cmp.Compare(a.Order, b.Order), a.CreatedAt.Compare(b.CreatedAt))
	})
	return out, err
}

func (r imageRepo) GetByID(_ context.Context, id string) (*entity.ProductImage, error) {
	var out *entity.ProductImage
	err := r.s.with(func(d *data) error {
		img, ok := d.images[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = ptr(img)
		return nil
	})
	return out, err
}

func (r imageRepo) Delete(_ context.Context, id string) error {
	return r.s.with(func(d *data) error {
		if _, ok := d.images[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.images, id)
		return nil
	})
}

func (r imageRepo) ClearPrimary(_ context.Context, productID string) error {
	return r.s.with(func(d *data) error {
		for id, img := range d.images {
			if img.ProductID == productID && img.IsPrimary {
				img.IsPrimary = false
				d.images[id] = img
			}
		}
		return nil
	})
}

type cartRepo struct{ s *Store }

func (r cartRepo) Create(_ context.Context, c *entity.Cart) error {
	return r.s.with(func(d *data) error {
		v := *c
		v.Items = nil
		d.carts[c.ID] = v
		return nil
	})
}

func (r cartRepo) find(match func(entity.Cart) bool) (*entity.Cart, error) {
	var out *entity.Cart
	err := r.s.with(func(d *data) error {
		for _, c := range d.carts {
			if match(c) {
				out = ptr(c)
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r cartRepo) GetByUserID(_ context.Context, userID string) (*entity.Cart, error) {
	return r.find(func(c entity.Cart) bool { return c.UserID == userID })
}

func (r cartRepo) GetBySessionKey(_ context.Context, key string) (*entity.Cart, error) {
	return r.find(func(c entity.Cart) bool { return c.UserID == "" && c.SessionKey == key })
}

func (r cartRepo) ListItems(_ context.Context, cartID string) ([]entity.CartItem, error) {
	var out []entity.CartItem
	err := r.s.with(func(d *data) error {
		for _, it := range d.cartItems {
			if it.CartID != cartID {
				continue
			}
			if p, ok := d.products[it.ProductID]; ok {
				it.Product = ptr(p)
			}
			out = append(out, it)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b entity.CartItem) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, err
}

func (r cartRepo) SaveItem(_ context.Context, item *entity.CartItem) error {
	return r.s.with(func(d *data) error {
		for id, it := range d.cartItems {
			if it.CartID == item.CartID && it.ProductID == item.ProductID && id != item.ID {
				return domain.ErrDuplicate
			}
		}
		v := *item
		v.Product = nil
		d.cartItems[item.ID] = v
		return nil
	})
}

func (r cartRepo) GetItem(_ context.Context, cartID, itemID string) (*entity.CartItem, error) {
	var out *entity.CartItem
	err := r.s.with(func(d *data) error {
		it, ok := d.cartItems[itemID]
		if !ok || it.CartID != cartID {
			return domain.ErrNotFound
		}
		out = ptr(it)
		return nil
	})
	return out, err
}

func (r cartRepo) DeleteItem(_ context.Context, cartID, itemID string) error {
	return r.s.with(func(d *data) error {
		it, ok := d.cartItems[itemID]
		if !ok || it.CartID != cartID {
			return domain.ErrNotFound
		}
		delete(d.cartItems, itemID)
		return nil
	})
}

func (r cartRepo) Clear(_ context.Context, cartID string) error {
	return r.s.with(func(d *data) error {
		for id, it := range d.cartItems {
			if it.CartID == cartID {
				delete(d.cartItems, id)
			}
		}
		return nil
	})
}
