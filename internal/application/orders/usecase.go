package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/catalog"
	"github.com/jhoicas/naturalmede-api/internal/application/customers"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
	"github.com/jhoicas/naturalmede-api/pkg/logger"
)

// Options parámetros de Wompi tomados de la configuración.
type Options struct {
	RequireSignature bool
	CheckoutURL      string
	Currency         string
	PublicBaseURL    string
}

// UseCase órdenes web, tarifas de envío y pasarela Wompi.
type UseCase struct {
	uow         ports.UnitOfWork
	locker      ports.Locker
	idempotency ports.IdempotencyStore
	recorder    *audit.Recorder
	publisher   ports.EventPublisher
	opts        Options
	log         *logger.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso de órdenes.
func NewUseCase(uow ports.UnitOfWork, locker ports.Locker, idempotency ports.IdempotencyStore, recorder *audit.Recorder, publisher ports.EventPublisher, opts Options, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Currency == "" {
		opts.Currency = "COP"
	}
	return &UseCase{
		uow:         uow,
		locker:      locker,
		idempotency: idempotency,
		recorder:    recorder,
		publisher:   publisher,
		opts:        opts,
		log:         log.Named("orders"),
		now:         time.Now,
	}
}

// Checkout convierte el carrito en una orden: precios del producto, cliente por documento
// (se crea si no existe), costo de envío por ciudad y peso. El carrito queda vacío.
func (uc *UseCase) Checkout(ctx context.Context, owner dto.CartOwner, in dto.CheckoutRequest) (*dto.OrderResponse, error) {
	orderType := in.OrderType
	if orderType == "" {
		orderType = entity.OrderTypePrincipal
	}
	if !entity.ValidOrderType(orderType) {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	o := &entity.Order{
		ID:              uuid.New().String(),
		OrderType:       orderType,
		Status:          entity.OrderStatusNew,
		PaymentMethod:   in.PaymentMethod,
		ShippingAddress: strings.TrimSpace(in.ShippingAddress),
		ShippingCity:    strings.TrimSpace(in.ShippingCity),
		ShippingNotes:   in.ShippingNotes,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		cart, err := catalog.FindCart(ctx, tx, owner)
		if domain.IsNotFound(err) {
			return domain.ErrEmptyCart
		}
		if err != nil {
			return err
		}
		items, err := tx.Carts().ListItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrEmptyCart
		}

		customer, err := customers.Resolve(ctx, tx, dto.CustomerRequest{
			FirstName:      in.FirstName,
			LastName:       in.LastName,
			Email:          in.Email,
			DocumentType:   in.DocumentType,
			DocumentNumber: in.DocumentNumber,
			Phone:          in.Phone,
			Address:        in.ShippingAddress,
			City:           in.ShippingCity,
			Channel:        entity.ChannelWebsite,
		}, now)
		if err != nil {
			return err
		}
		if owner.UserID != "" && customer.UserID == "" {
			customer.UserID = owner.UserID
			customer.UpdatedAt = now
			if err := tx.Customers().Update(ctx, customer); err != nil {
				return err
			}
		}
		o.CustomerID = customer.ID
		o.ShippingPhone = customer.Phone

		weight := decimal.Zero
		for _, it := range items {
			p := it.Product
			if p == nil {
				if p, err = tx.Products().GetByID(ctx, it.ProductID); err != nil {
					return err
				}
			}
			if !p.IsActive {
				return fmt.Errorf("producto %s no disponible: %w", p.SKU, domain.ErrInvalidInput)
			}
			o.Items = append(o.Items, entity.OrderItem{
				ID:            uuid.New().String(),
				OrderID:       o.ID,
				ProductID:     p.ID,
				Quantity:      it.Quantity,
				UnitPrice:     p.Price,
				IVAPercentage: p.IVAPercentage,
			})
			weight = weight.Add(p.WeightOrZero().Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		if o.ShippingCost, err = shippingCost(ctx, tx, o.ShippingCity, weight); err != nil {
			return err
		}
		o.RecalculateTotals()

		seq, err := tx.Sequences().Next(ctx, entity.DailySequenceKey("order", orderType, now))
		if err != nil {
			return err
		}
		o.OrderNumber = entity.FormatDailyNumber(orderType, now, seq)
		if err := tx.Orders().Create(ctx, o); err != nil {
			return err
		}
		return tx.Carts().Clear(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	out := toOrderResponse(o)
	uc.recorder.Record(ctx, audit.Entry{Action: entity.AuditActionCreate, EntityType: entity.AuditEntityOrder, ObjectID: o.ID, ObjectRepr: o.OrderNumber, New: out})
	ports.PublishQuietly(ctx, uc.publisher, uc.log, ports.EventOrderCreated, map[string]any{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"customer_id":  o.CustomerID,
		"total":        o.Total,
	})
	return &out, nil
}

// Get obtiene una orden con sus líneas.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.uow.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toOrderResponse(o)
	return &out, nil
}

// GetByNumber obtiene una orden por su número.
func (uc *UseCase) GetByNumber(ctx context.Context, number string) (*dto.OrderResponse, error) {
	o, err := uc.uow.Orders().GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	out := toOrderResponse(o)
	return &out, nil
}

// List lista órdenes por estado, cliente y rango de fechas.
func (uc *UseCase) List(ctx context.Context, in dto.OrderFilterRequest) (*dto.OrderListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.uow.Orders().List(ctx, repository.OrderFilter{
		Status: in.Status, CustomerID: in.CustomerID, From: in.From, To: in.To,
		Page: repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, toOrderResponse(o))
	}
	return &dto.OrderListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total}}, nil
}

// UpdateStatus cambio manual de estado según la lista blanca de transiciones.
// Pasar a pagada descuenta inventario; cancelar una orden pagada lo devuelve una sola vez.
func (uc *UseCase) UpdateStatus(ctx context.Context, userID, id string, in dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error) {
	var o *entity.Order
	var prev string
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		var err error
		o, err = tx.Orders().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !o.CanTransitionTo(in.Status) {
			return fmt.Errorf("%s -> %s: %w", o.Status, in.Status, domain.ErrInvalidTransition)
		}
		prev = o.Status
		now := uc.now()
		o.ApplyStatus(in.Status, now)
		if in.InternalNotes != "" {
			o.InternalNotes = in.InternalNotes
		}
		switch {
		case in.Status == entity.OrderStatusPaid:
			if err := uc.deductInventory(ctx, tx, o, userID, now); err != nil {
				return err
			}
		case in.Status == entity.OrderStatusCancelled:
			if err := uc.restockInventory(ctx, tx, o, userID, now); err != nil {
				return err
			}
		}
		o.UpdatedAt = now
		return tx.Orders().Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	uc.afterStatusChange(ctx, userID, o, prev)
	out := toOrderResponse(o)
	return &out, nil
}

// afterStatusChange audita y publica el cambio de estado.
func (uc *UseCase) afterStatusChange(ctx context.Context, userID string, o *entity.Order, prev string) {
	action := entity.AuditActionStatusChange
	switch o.Status {
	case entity.OrderStatusPaid:
		action = entity.AuditActionPayment
	case entity.OrderStatusCancelled:
		action = entity.AuditActionCancel
	}
	uc.recorder.Record(ctx, audit.Entry{
		UserID: userID, Action: action, EntityType: entity.AuditEntityOrder,
		ObjectID: o.ID, ObjectRepr: o.OrderNumber,
		Old: map[string]any{"status": prev}, New: map[string]any{"status": o.Status},
	})
	payload := map[string]any{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"from":         prev,
		"to":           o.Status,
	}
	ports.PublishQuietly(ctx, uc.publisher, uc.log, ports.EventOrderStatus, payload)
	if o.Status == entity.OrderStatusPaid {
		ports.PublishQuietly(ctx, uc.publisher, uc.log, ports.EventOrderPaid, map[string]any{
			"order_id":     o.ID,
			"order_number": o.OrderNumber,
			"total":        o.Total,
			"paid_at":      o.PaidAt,
		})
	}
}

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:            it.ID,
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			IVAPercentage: it.IVAPercentage,
			Subtotal:      it.Subtotal,
			IVAAmount:     it.IVAAmount,
			Total:         it.Total,
		})
	}
	return dto.OrderResponse{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		OrderType:          o.OrderType,
		CustomerID:         o.CustomerID,
		Status:             o.Status,
		PaymentMethod:      o.PaymentMethod,
		Subtotal:           o.Subtotal,
		IVAAmount:          o.IVAAmount,
		ShippingCost:       o.ShippingCost,
		Total:              o.Total,
		ShippingAddress:    o.ShippingAddress,
		ShippingCity:       o.ShippingCity,
		ShippingPhone:      o.ShippingPhone,
		ShippingNotes:      o.ShippingNotes,
		Notes:              o.Notes,
		InternalNotes:      o.InternalNotes,
		WompiReference:     o.WompiReference,
		WompiTransactionID: o.WompiTransactionID,
		WompiStatus:        o.WompiStatus,
		AllowedTransitions: o.AllowedTransitions(),
		Items:              items,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
		PaidAt:             o.PaidAt,
		ShippedAt:          o.ShippedAt,
		DeliveredAt:        o.DeliveredAt,
	}
}
