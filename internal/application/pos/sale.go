package pos

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/inventory"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

// CreateSale registra una venta en la sesión abierta del usuario y descuenta el inventario
// de la bodega de la sesión. Si algún producto no alcanza, no se guarda nada.
func (uc *UseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 || !entity.ValidOrderType(in.OrderType) || in.AmountReceived.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	switch in.PaymentMethod {
	case entity.POSPaymentCash, entity.POSPaymentCard, entity.POSPaymentTransfer, entity.POSPaymentMixed:
	default:
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	sale := &entity.POSSale{
		ID:             uuid.New().String(),
		CustomerID:     in.CustomerID,
		OrderType:      in.OrderType,
		PaymentMethod:  in.PaymentMethod,
		AmountReceived: in.AmountReceived,
		Notes:          in.Notes,
		BarcodeScanned: strings.TrimSpace(in.BarcodeScanned),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	var session *entity.POSSession

	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		var err error
		session, err = tx.POSSessions().GetOpenByUser(ctx, userID)
		if domain.IsNotFound(err) {
			return domain.ErrSessionClosed
		}
		if err != nil {
			return err
		}
		sale.SessionID = session.ID
		if sale.CustomerID != "" {
			if _, err := tx.Customers().GetByID(ctx, sale.CustomerID); err != nil {
				return err
			}
		}
		for _, it := range in.Items {
			if it.Quantity < 1 || it.DiscountPercentage.IsNegative() || it.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
				return domain.ErrInvalidInput
			}
			p, err := tx.Products().GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if !p.IsActive {
				return fmt.Errorf("producto %s inactivo: %w", p.SKU, domain.ErrInvalidInput)
			}
			price := p.Price
			if it.UnitPrice != nil {
				if !it.UnitPrice.IsPositive() {
					return domain.ErrInvalidInput
				}
				price = *it.UnitPrice
			}
			sale.Items = append(sale.Items, entity.POSSaleItem{
				ID:                 uuid.New().String(),
				SaleID:             sale.ID,
				ProductID:          p.ID,
				Quantity:           it.Quantity,
				UnitPrice:          price,
				IVAPercentage:      p.IVAPercentage,
				DiscountPercentage: it.DiscountPercentage,
			})
		}
		sale.RecalculateTotals()
		if err := settlePayment(sale); err != nil {
			return err
		}

		seq, err := tx.Sequences().Next(ctx, entity.DailySequenceKey("sale", sale.OrderType, now))
		if err != nil {
			return err
		}
		sale.SaleNumber = entity.FormatDailyNumber(sale.OrderType, now, seq)
		reference := "Venta POS " + sale.SaleNumber
		for _, it := range sale.Items {
			if _, err := inventory.ApplyMovement(ctx, tx, inventory.MovementInput{
				ProductID:   it.ProductID,
				WarehouseID: session.WarehouseID,
				Type:        entity.MovementTypeOut,
				Quantity:    it.Quantity,
				Reference:   reference,
				UserID:      userID,
				SourceKind:  entity.SourcePOSSale,
				SourceID:    sale.ID,
			}, now); err != nil {
				return err
			}
		}
		return tx.POSSales().Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	out := toSaleResponse(sale)
	uc.recorder.Record(ctx, audit.Entry{UserID: userID, Action: entity.AuditActionCreate, EntityType: entity.AuditEntityPOSSale, ObjectID: sale.ID, ObjectRepr: sale.SaleNumber, New: out})
	ports.PublishQuietly(ctx, uc.publisher, uc.log, ports.EventSaleCreated, map[string]any{
		"sale_id":      sale.ID,
		"sale_number":  sale.SaleNumber,
		"session_id":   session.SessionID,
		"warehouse_id": session.WarehouseID,
		"total":        sale.Total,
	})
	return &out, nil
}

// settlePayment en efectivo lo recibido debe cubrir el total; en otros medios se cobra exacto.
func settlePayment(s *entity.POSSale) error {
	if s.PaymentMethod == entity.POSPaymentCash {
		if s.AmountReceived.LessThan(s.Total) {
			return fmt.Errorf("efectivo recibido %s menor al total %s: %w", s.AmountReceived, s.Total, domain.ErrInvalidInput)
		}
		s.ChangeAmount = s.AmountReceived.Sub(s.Total)
		return nil
	}
	if s.AmountReceived.IsZero() {
		s.AmountReceived = s.Total
	}
	s.ChangeAmount = decimal.Zero
	return nil
}

// GetSale obtiene una venta con sus líneas.
func (uc *UseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.uow.POSSales().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toSaleResponse(s)
	return &out, nil
}

// ListSales lista ventas por sesión y rango de fechas.
func (uc *UseCase) ListSales(ctx context.Context, in dto.SaleFilterRequest) ([]dto.SaleResponse, error) {
	in.DefaultPage()
	list, err := uc.uow.POSSales().List(ctx, repository.POSSaleFilter{
		SessionID: in.SessionID, From: in.From, To: in.To,
		Page: repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSaleResponse(s))
	}
	return out, nil
}

// ReceiptPDF genera el recibo imprimible de la venta.
func (uc *UseCase) ReceiptPDF(ctx context.Context, id string) ([]byte, string, error) {
	s, err := uc.uow.POSSales().GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data := ports.ReceiptData{StoreName: uc.storeName, Sale: s, ProductNames: map[string]string{}}
	if session, err := uc.uow.POSSessions().GetByID(ctx, s.SessionID); err == nil {
		if w, err := uc.uow.Warehouses().GetByID(ctx, session.WarehouseID); err == nil {
			data.WarehouseName = w.Name
		}
	}
	if s.CustomerID != "" {
		if c, err := uc.uow.Customers().GetByID(ctx, s.CustomerID); err == nil {
			data.CustomerName = strings.TrimSpace(c.FirstName + " " + c.LastName)
		}
	}
	for _, it := range s.Items {
		if p, err := uc.uow.Products().GetByID(ctx, it.ProductID); err == nil {
			data.ProductNames[it.ProductID] = p.Name
		}
	}
	pdf, err := uc.pdf.SaleReceipt(data)
	if err != nil {
		return nil, "", err
	}
	uc.recorder.Record(ctx, audit.Entry{Action: entity.AuditActionPrint, EntityType: entity.AuditEntityPOSSale, ObjectID: s.ID, ObjectRepr: s.SaleNumber})
	return pdf, "recibo-" + s.SaleNumber + ".pdf", nil
}

func toSaleResponse(s *entity.POSSale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ID:                 it.ID,
			ProductID:          it.ProductID,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			IVAPercentage:      it.IVAPercentage,
			DiscountPercentage: it.DiscountPercentage,
			Subtotal:           it.Subtotal,
			IVAAmount:          it.IVAAmount,
			DiscountAmount:     it.DiscountAmount,
			Total:              it.Total,
		})
	}
	return dto.SaleResponse{
		ID:             s.ID,
		SaleNumber:     s.SaleNumber,
		SessionID:      s.SessionID,
		CustomerID:     s.CustomerID,
		OrderType:      s.OrderType,
		PaymentMethod:  s.PaymentMethod,
		Subtotal:       s.Subtotal,
		IVAAmount:      s.IVAAmount,
		DiscountAmount: s.DiscountAmount,
		Total:          s.Total,
		AmountReceived: s.AmountReceived,
		ChangeAmount:   s.ChangeAmount,
		Notes:          s.Notes,
		Items:          items,
		CreatedAt:      s.CreatedAt,
	}
}
