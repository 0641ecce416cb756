package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
)

// CartUseCase carrito de la tienda web (usuario autenticado o sesión anónima).
type CartUseCase struct {
	uow ports.UnitOfWork
	now func() time.Time
}

// NewCartUseCase construye el caso de uso del carrito.
func NewCartUseCase(uow ports.UnitOfWork) *CartUseCase {
	return &CartUseCase{uow: uow, now: time.Now}
}

// FindCart busca el carrito del dueño sin crearlo.
func FindCart(ctx context.Context, repos ports.Repositories, owner dto.CartOwner) (*entity.Cart, error) {
	switch {
	case owner.UserID != "":
		return repos.Carts().GetByUserID(ctx, owner.UserID)
	case owner.SessionKey != "":
		return repos.Carts().GetBySessionKey(ctx, owner.SessionKey)
	}
	return nil, fmt.Errorf("carrito sin usuario ni sesión: %w", domain.ErrInvalidInput)
}

func (uc *CartUseCase) getOrCreate(ctx context.Context, tx ports.Repositories, owner dto.CartOwner) (*entity.Cart, error) {
	c, err := FindCart(ctx, tx, owner)
	if err == nil || !domain.IsNotFound(err) {
		return c, err
	}
	now := uc.now()
	c = &entity.Cart{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	if owner.UserID != "" {
		c.UserID = owner.UserID
	} else {
		c.SessionKey = owner.SessionKey
	}
	if err := tx.Carts().Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get devuelve el carrito (creándolo vacío si no existe) con totales.
func (uc *CartUseCase) Get(ctx context.Context, owner dto.CartOwner) (*dto.CartResponse, error) {
	var out *dto.CartResponse
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		c, err := uc.getOrCreate(ctx, tx, owner)
		if err != nil {
			return err
		}
		out, err = loadCart(ctx, tx, c)
		return err
	})
	return out, err
}

// AddItem agrega el producto al carrito; si ya existe acumula la cantidad.
func (uc *CartUseCase) AddItem(ctx context.Context, owner dto.CartOwner, in dto.CartItemRequest) (*dto.CartResponse, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.CartResponse
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		p, err := tx.Products().GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if !p.IsActive {
			return fmt.Errorf("producto no disponible: %w", domain.ErrInvalidInput)
		}
		c, err := uc.getOrCreate(ctx, tx, owner)
		if err != nil {
			return err
		}
		items, err := tx.Carts().ListItems(ctx, c.ID)
		if err != nil {
			return err
		}
		now := uc.now()
		item := &entity.CartItem{ID: uuid.New().String(), CartID: c.ID, ProductID: p.ID, CreatedAt: now}
		for i := range items {
			if items[i].ProductID == p.ID {
				existing := items[i]
				item = &existing
				break
			}
		}
		item.Quantity += in.Quantity
		item.UpdatedAt = now
		if err := tx.Carts().SaveItem(ctx, item); err != nil {
			return err
		}
		out, err = loadCart(ctx, tx, c)
		return err
	})
	return out, err
}

// UpdateItem cambia la cantidad de una línea; con cantidad <= 0 la elimina.
func (uc *CartUseCase) UpdateItem(ctx context.Context, owner dto.CartOwner, itemID string, quantity int) (*dto.CartResponse, error) {
	var out *dto.CartResponse
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		c, err := FindCart(ctx, tx, owner)
		if err != nil {
			return err
		}
		item, err := tx.Carts().GetItem(ctx, c.ID, itemID)
		if err != nil {
			return err
		}
		if quantity <= 0 {
			err = tx.Carts().DeleteItem(ctx, c.ID, itemID)
		} else {
			item.Quantity = quantity
			item.UpdatedAt = uc.now()
			err = tx.Carts().SaveItem(ctx, item)
		}
		if err != nil {
			return err
		}
		out, err = loadCart(ctx, tx, c)
		return err
	})
	return out, err
}

// RemoveItem elimina una línea del carrito.
func (uc *CartUseCase) RemoveItem(ctx context.Context, owner dto.CartOwner, itemID string) (*dto.CartResponse, error) {
	return uc.UpdateItem(ctx, owner, itemID, 0)
}

// Clear vacía el carrito.
func (uc *CartUseCase) Clear(ctx context.Context, owner dto.CartOwner) error {
	return uc.uow.Run(ctx, func(tx ports.Repositories) error {
		c, err := FindCart(ctx, tx, owner)
		if err != nil {
			if domain.IsNotFound(err) {
				return nil
			}
			return err
		}
		return tx.Carts().Clear(ctx, c.ID)
	})
}

func loadCart(ctx context.Context, repos ports.Repositories, c *entity.Cart) (*dto.CartResponse, error) {
	items, err := repos.Carts().ListItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items
	out := &dto.CartResponse{
		ID:           c.ID,
		Items:        make([]dto.CartItemResponse, 0, len(items)),
		TotalItems:   c.TotalItems(),
		TotalAmount:  c.TotalAmount(),
		TotalIVA:     c.TotalIVA(),
		TotalWithIVA: c.TotalWithIVA(),
	}
	for _, it := range items {
		r := dto.CartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Total:     it.Total(),
			IVAAmount: it.IVAAmount(),
		}
		if it.Product != nil {
			r.ProductName = it.Product.Name
			r.UnitPrice = it.Product.Price
		}
		out.Items = append(out.Items, r)
	}
	return out, nil
}
