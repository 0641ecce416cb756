package purchases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/inventory"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	costing "github.com/jhoicas/naturalmede-api/internal/domain/inventory"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
	"github.com/jhoicas/naturalmede-api/pkg/logger"
)

// UseCase proveedores y órdenes de compra.
type UseCase struct {
	uow       ports.UnitOfWork
	recorder  *audit.Recorder
	publisher ports.EventPublisher
	pdf       ports.PDFRenderer
	storeName string
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso de compras.
func NewUseCase(uow ports.UnitOfWork, recorder *audit.Recorder, publisher ports.EventPublisher, pdf ports.PDFRenderer, storeName string, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{uow: uow, recorder: recorder, publisher: publisher, pdf: pdf, storeName: storeName, log: log.Named("purchases"), now: time.Now}
}

// Create crea una compra en borrador con número COMP-YYYYMM-NNNN.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if len(in.Items) == 0 || in.ShippingCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	p := &entity.Purchase{
		ID:               uuid.New().String(),
		SupplierID:       in.SupplierID,
		WarehouseID:      in.WarehouseID,
		OrderDate:        now,
		ExpectedDelivery: in.ExpectedDelivery,
		Status:           entity.PurchaseStatusDraft,
		PaymentStatus:    entity.PaymentStatusPending,
		ShippingCost:     in.ShippingCost,
		Notes:            in.Notes,
		CreatedBy:        userID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if in.OrderDate != nil {
		p.OrderDate = *in.OrderDate
	}
	for _, it := range in.Items {
		item, err := newItem(p.ID, it)
		if err != nil {
			return nil, err
		}
		p.Items = append(p.Items, *item)
	}
	p.RecalculateTotals()

	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		s, err := tx.Suppliers().GetByID(ctx, p.SupplierID)
		if err != nil {
			return err
		}
		if !s.IsActive {
			return fmt.Errorf("proveedor inactivo: %w", domain.ErrInvalidInput)
		}
		if _, err := tx.Warehouses().GetByID(ctx, p.WarehouseID); err != nil {
			return err
		}
		for _, it := range p.Items {
			if _, err := tx.Products().GetByID(ctx, it.ProductID); err != nil {
				return err
			}
		}
		seq, err := tx.Sequences().Next(ctx, entity.MonthlySequenceKey(now))
		if err != nil {
			return err
		}
		p.PurchaseNumber = entity.FormatPurchaseNumber(now, seq)
		return tx.Purchases().Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	out := toPurchaseResponse(p)
	uc.recorder.Record(ctx, audit.Entry{UserID: userID, Action: entity.AuditActionCreate, EntityType: entity.AuditEntityPurchase, ObjectID: p.ID, ObjectRepr: p.PurchaseNumber, New: out})
	return &out, nil
}

func newItem(purchaseID string, in dto.PurchaseItemRequest) (*entity.PurchaseItem, error) {
	if in.Quantity < 1 || !in.UnitCost.IsPositive() || in.DiscountPercentage.IsNegative() || in.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, domain.ErrInvalidInput
	}
	tax := entity.DefaultIVAPercentage
	if in.TaxPercentage != nil {
		if in.TaxPercentage.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		tax = *in.TaxPercentage
	}
	item := &entity.PurchaseItem{
		ID:                 uuid.New().String(),
		PurchaseID:         purchaseID,
		ProductID:          in.ProductID,
		Quantity:           in.Quantity,
		UnitCost:           in.UnitCost,
		TaxPercentage:      tax,
		DiscountPercentage: in.DiscountPercentage,
	}
	item.Calculate()
	return item, nil
}

// Get obtiene una compra con sus líneas.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.uow.Purchases().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toPurchaseResponse(p)
	return &out, nil
}

// List lista compras por estado y proveedor.
func (uc *UseCase) List(ctx context.Context, in dto.PurchaseFilterRequest) (*dto.PurchaseListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.uow.Purchases().List(ctx, repository.PurchaseFilter{
		Status:     in.Status,
		SupplierID: in.SupplierID,
		Page:       repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, toPurchaseResponse(p))
	}
	return &dto.PurchaseListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total}}, nil
}

// mutate carga la compra editable, aplica fn, recalcula totales y la guarda.
func (uc *UseCase) mutate(ctx context.Context, id string, fn func(tx ports.Repositories, p *entity.Purchase) error) (*entity.Purchase, error) {
	var p *entity.Purchase
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		var err error
		p, err = tx.Purchases().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !p.IsEditable() {
			return fmt.Errorf("compra %s en estado %s: %w", p.PurchaseNumber, p.Status, domain.ErrConflict)
		}
		if err := fn(tx, p); err != nil {
			return err
		}
		p.RecalculateTotals()
		p.UpdatedAt = uc.now()
		return tx.Purchases().Update(ctx, p)
	})
	return p, err
}

// AddItem agrega una línea y recalcula totales.
func (uc *UseCase) AddItem(ctx context.Context, id string, in dto.PurchaseItemRequest) (*dto.PurchaseResponse, error) {
	item, err := newItem(id, in)
	if err != nil {
		return nil, err
	}
	p, err := uc.mutate(ctx, id, func(tx ports.Repositories, p *entity.Purchase) error {
		if _, err := tx.Products().GetByID(ctx, item.ProductID); err != nil {
			return err
		}
		if err := tx.Purchases().AddItem(ctx, item); err != nil {
			return err
		}
		p.Items = append(p.Items, *item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toPurchaseResponse(p)
	return &out, nil
}

// RemoveItem quita una línea y recalcula totales.
func (uc *UseCase) RemoveItem(ctx context.Context, id, itemID string) (*dto.PurchaseResponse, error) {
	p, err := uc.mutate(ctx, id, func(tx ports.Repositories, p *entity.Purchase) error {
		idx := -1
		for i := range p.Items {
			if p.Items[i].ID == itemID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.ErrNotFound
		}
		if err := tx.Purchases().DeleteItem(ctx, p.ID, itemID); err != nil {
			return err
		}
		p.Items = append(p.Items[:idx], p.Items[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toPurchaseResponse(p)
	return &out, nil
}

// UpdateShipping cambia el costo de envío y recalcula el total.
func (uc *UseCase) UpdateShipping(ctx context.Context, id string, cost decimal.Decimal) (*dto.PurchaseResponse, error) {
	if cost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.mutate(ctx, id, func(_ ports.Repositories, p *entity.Purchase) error {
		p.ShippingCost = cost
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toPurchaseResponse(p)
	return &out, nil
}

// Submit pasa la compra de borrador a pendiente.
func (uc *UseCase) Submit(ctx context.Context, userID, id string) (*dto.PurchaseResponse, error) {
	return uc.changeStatus(ctx, userID, id, entity.AuditActionStatusChange, []string{entity.PurchaseStatusDraft}, entity.PurchaseStatusPending)
}

// Cancel cancela una compra en borrador o pendiente.
func (uc *UseCase) Cancel(ctx context.Context, userID, id string) (*dto.PurchaseResponse, error) {
	return uc.changeStatus(ctx, userID, id, entity.AuditActionCancel, []string{entity.PurchaseStatusDraft, entity.PurchaseStatusPending}, entity.PurchaseStatusCancelled)
}

func (uc *UseCase) changeStatus(ctx context.Context, userID, id, action string, from []string, to string) (*dto.PurchaseResponse, error) {
	var p *entity.Purchase
	var prev string
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		var err error
		p, err = tx.Purchases().GetByID(ctx, id)
		if err != nil {
			return err
		}
		allowed := false
		for _, s := range from {
			if p.Status == s {
				allowed = true
			}
		}
		if !allowed {
			return fmt.Errorf("compra %s en estado %s: %w", p.PurchaseNumber, p.Status, domain.ErrInvalidTransition)
		}
		if to == entity.PurchaseStatusPending && len(p.Items) == 0 {
			return domain.ErrInvalidInput
		}
		prev = p.Status
		p.Status = to
		p.UpdatedAt = uc.now()
		return tx.Purchases().Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, audit.Entry{
		UserID: userID, Action: action, EntityType: entity.AuditEntityPurchase,
		ObjectID: p.ID, ObjectRepr: p.PurchaseNumber,
		Old: map[string]any{"status": prev}, New: map[string]any{"status": to},
	})
	out := toPurchaseResponse(p)
	return &out, nil
}

// UpdatePaymentStatus cambia el estado de pago.
func (uc *UseCase) UpdatePaymentStatus(ctx context.Context, userID, id, status string) (*dto.PurchaseResponse, error) {
	switch status {
	case entity.PaymentStatusPending, entity.PaymentStatusPartial, entity.PaymentStatusPaid:
	default:
		return nil, domain.ErrInvalidInput
	}
	var p *entity.Purchase
	var prev string
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		var err error
		p, err = tx.Purchases().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.Status == entity.PurchaseStatusCancelled {
			return domain.ErrConflict
		}
		prev = p.PaymentStatus
		p.PaymentStatus = status
		p.UpdatedAt = uc.now()
		return tx.Purchases().Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, audit.Entry{
		UserID: userID, Action: entity.AuditActionPayment, EntityType: entity.AuditEntityPurchase,
		ObjectID: p.ID, ObjectRepr: p.PurchaseNumber,
		Old: map[string]any{"payment_status": prev}, New: map[string]any{"payment_status": status},
	})
	out := toPurchaseResponse(p)
	return &out, nil
}

// Receive recibe una compra pendiente: crea la constancia, ingresa el inventario en la bodega
// de la compra y actualiza el costo promedio ponderado de cada producto.
func (uc *UseCase) Receive(ctx context.Context, userID, id, notes string) (*dto.ReceiptResponse, error) {
	var p *entity.Purchase
	var receipt *entity.PurchaseReceipt
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		var err error
		p, err = tx.Purchases().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.Status != entity.PurchaseStatusPending {
			return fmt.Errorf("compra %s en estado %s: %w", p.PurchaseNumber, p.Status, domain.ErrInvalidTransition)
		}
		now := uc.now()
		reference := "Compra " + p.PurchaseNumber
		for _, it := range p.Items {
			product, err := tx.Products().GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			onHand, err := tx.Stock().TotalByProduct(ctx, it.ProductID)
			if err != nil {
				return err
			}
			netUnitCost := it.Subtotal.Sub(it.DiscountAmount).Div(decimal.NewFromInt(int64(it.Quantity)))
			newCost := costing.CostCalculator(onHand, product.CostPrice, it.Quantity, netUnitCost)
			if !newCost.Equal(product.CostPrice) {
				if err := tx.Products().UpdateCost(ctx, product.ID, newCost); err != nil {
					return err
				}
			}
			if _, err := inventory.ApplyMovement(ctx, tx, inventory.MovementInput{
				ProductID:   it.ProductID,
				WarehouseID: p.WarehouseID,
				Type:        entity.MovementTypeIn,
				Quantity:    it.Quantity,
				Reference:   reference,
				UserID:      userID,
				SourceKind:  entity.SourcePurchase,
				SourceID:    p.ID,
			}, now); err != nil {
				return err
			}
		}
		receipt = &entity.PurchaseReceipt{
			ID:            uuid.New().String(),
			PurchaseID:    p.ID,
			ReceiptNumber: "REC-" + p.PurchaseNumber,
			ReceivedBy:    userID,
			ReceivedAt:    now,
			Notes:         notes,
		}
		if err := tx.Purchases().CreateReceipt(ctx, receipt); err != nil {
			return err
		}
		p.Status = entity.PurchaseStatusReceived
		p.ReceivedDate = &now
		p.UpdatedAt = now
		return tx.Purchases().Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, audit.Entry{
		UserID: userID, Action: entity.AuditActionReceive, EntityType: entity.AuditEntityPurchase,
		ObjectID: p.ID, ObjectRepr: p.PurchaseNumber,
		Old: map[string]any{"status": entity.PurchaseStatusPending},
		New: map[string]any{"status": p.Status, "receipt_number": receipt.ReceiptNumber},
	})
	ports.PublishQuietly(ctx, uc.publisher, uc.log, ports.EventPurchaseReceived, map[string]any{
		"purchase_id":     p.ID,
		"purchase_number": p.PurchaseNumber,
		"warehouse_id":    p.WarehouseID,
		"units":           p.TotalQuantity(),
	})
	return &dto.ReceiptResponse{
		ID:            receipt.ID,
		PurchaseID:    receipt.PurchaseID,
		ReceiptNumber: receipt.ReceiptNumber,
		ReceivedBy:    receipt.ReceivedBy,
		ReceivedAt:    receipt.ReceivedAt,
		Notes:         receipt.Notes,
	}, nil
}

// PurchaseOrderPDF genera la orden de compra imprimible.
func (uc *UseCase) PurchaseOrderPDF(ctx context.Context, id string) ([]byte, string, error) {
	p, err := uc.uow.Purchases().GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	s, err := uc.uow.Suppliers().GetByID(ctx, p.SupplierID)
	if err != nil {
		return nil, "", err
	}
	data := ports.PurchaseOrderData{StoreName: uc.storeName, Purchase: p, Supplier: s, ProductNames: map[string]string{}}
	if w, err := uc.uow.Warehouses().GetByID(ctx, p.WarehouseID); err == nil {
		data.WarehouseName = w.Name
	}
	for _, it := range p.Items {
		if prod, err := uc.uow.Products().GetByID(ctx, it.ProductID); err == nil {
			data.ProductNames[it.ProductID] = prod.SKU + " " + prod.Name
		}
	}
	pdf, err := uc.pdf.PurchaseOrder(data)
	if err != nil {
		return nil, "", err
	}
	return pdf, p.PurchaseNumber + ".pdf", nil
}

func toPurchaseResponse(p *entity.Purchase) dto.PurchaseResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, dto.PurchaseItemResponse{
			ID:                 it.ID,
			ProductID:          it.ProductID,
			Quantity:           it.Quantity,
			UnitCost:           it.UnitCost,
			TaxPercentage:      it.TaxPercentage,
			DiscountPercentage: it.DiscountPercentage,
			Subtotal:           it.Subtotal,
			TaxAmount:          it.TaxAmount,
			DiscountAmount:     it.DiscountAmount,
			Total:              it.Total,
		})
	}
	return dto.PurchaseResponse{
		ID:               p.ID,
		PurchaseNumber:   p.PurchaseNumber,
		SupplierID:       p.SupplierID,
		WarehouseID:      p.WarehouseID,
		OrderDate:        p.OrderDate,
		ExpectedDelivery: p.ExpectedDelivery,
		ReceivedDate:     p.ReceivedDate,
		Status:           p.Status,
		PaymentStatus:    p.PaymentStatus,
		Subtotal:         p.Subtotal,
		TaxAmount:        p.TaxAmount,
		DiscountAmount:   p.DiscountAmount,
		ShippingCost:     p.ShippingCost,
		Total:            p.Total,
		Notes:            p.Notes,
		CreatedBy:        p.CreatedBy,
		Items:            items,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
