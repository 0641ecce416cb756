package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/catalog"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/pkg/wompi"
)

const (
	webhookLockTTL     = 30 * time.Second
	webhookIdempotency = 24 * time.Hour
)

// GetWompiConfig devuelve la configuración con los secretos enmascarados.
func (uc *UseCase) GetWompiConfig(ctx context.Context) (*dto.WompiConfigResponse, error) {
	cfg, err := uc.uow.WompiConfig().Get(ctx)
	if domain.IsNotFound(err) {
		cfg = &entity.WompiConfig{IsTestMode: true}
	} else if err != nil {
		return nil, err
	}
	out := toWompiResponse(cfg)
	return &out, nil
}

// UpdateWompiConfig actualiza credenciales; los campos vacíos conservan el valor guardado.
func (uc *UseCase) UpdateWompiConfig(ctx context.Context, userID string, in dto.WompiConfigRequest) (*dto.WompiConfigResponse, error) {
	var before, after dto.WompiConfigResponse
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		cfg, err := tx.WompiConfig().Get(ctx)
		if domain.IsNotFound(err) {
			cfg = &entity.WompiConfig{IsTestMode: true}
		} else if err != nil {
			return err
		}
		before = toWompiResponse(cfg)
		if v := strings.TrimSpace(in.PublicKey); v != "" {
			cfg.PublicKey = v
		}
		if v := strings.TrimSpace(in.PrivateKey); v != "" {
			cfg.PrivateKey = v
		}
		if v := strings.TrimSpace(in.IntegritySecret); v != "" {
			cfg.IntegritySecret = v
		}
		if v := strings.TrimSpace(in.EventsSecret); v != "" {
			cfg.EventsSecret = v
		}
		if in.IsTestMode != nil {
			cfg.IsTestMode = *in.IsTestMode
		}
		if in.IsActive != nil {
			cfg.IsActive = *in.IsActive
		}
		cfg.UpdatedAt = uc.now()
		after = toWompiResponse(cfg)
		return tx.WompiConfig().Save(ctx, cfg)
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, audit.Entry{
		UserID: userID, Action: entity.AuditActionSystemConfig, EntityType: entity.AuditEntityWompiConfig,
		ObjectID: "wompi", ObjectRepr: "Configuración Wompi", Old: before, New: after,
	})
	return &after, nil
}

// WidgetData datos firmados para abrir el checkout de Wompi y guarda la referencia en la orden.
func (uc *UseCase) WidgetData(ctx context.Context, orderNumber string) (*dto.WompiWidgetResponse, error) {
	cfg, err := uc.uow.WompiConfig().Get(ctx)
	if err != nil && !domain.IsNotFound(err) {
		return nil, err
	}
	if cfg == nil || !cfg.IsActive || cfg.PublicKey == "" || cfg.IntegritySecret == "" {
		return nil, fmt.Errorf("wompi no está configurado: %w", domain.ErrConflict)
	}
	var out *dto.WompiWidgetResponse
	err = uc.uow.Run(ctx, func(tx ports.Repositories) error {
		o, err := tx.Orders().GetByNumber(ctx, orderNumber)
		if err != nil {
			return err
		}
		if o.Status != entity.OrderStatusNew && o.Status != entity.OrderStatusPending {
			return fmt.Errorf("orden %s en estado %s: %w", o.OrderNumber, o.Status, domain.ErrConflict)
		}
		cents := wompi.AmountInCents(o.Total)
		reference := o.OrderNumber
		signature := wompi.IntegritySignature(reference, cents, uc.opts.Currency, cfg.IntegritySecret)
		redirect := ""
		if uc.opts.PublicBaseURL != "" {
			redirect = uc.opts.PublicBaseURL + "/checkout/resultado?order=" + reference
		}
		out = &dto.WompiWidgetResponse{
			PublicKey:          cfg.PublicKey,
			Currency:           uc.opts.Currency,
			AmountInCents:      cents,
			Reference:          reference,
			IntegritySignature: signature,
			RedirectURL:        redirect,
			CheckoutURL: wompi.CheckoutURL(uc.opts.CheckoutURL, wompi.CheckoutParams{
				PublicKey:     cfg.PublicKey,
				Currency:      uc.opts.Currency,
				AmountInCents: cents,
				Reference:     reference,
				RedirectURL:   redirect,
				Signature:     signature,
			}),
		}
		if o.WompiReference == reference {
			return nil
		}
		o.WompiReference = reference
		o.UpdatedAt = uc.now()
		return tx.Orders().Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HandleWompiEvent procesa el webhook de Wompi. Valida la firma, serializa por referencia,
// descarta repeticiones de (transacción, estado) y aplica el resultado del pago a la orden.
func (uc *UseCase) HandleWompiEvent(ctx context.Context, ev dto.WompiEvent, signature string) error {
	t := ev.Data.Transaction
	reference := strings.TrimSpace(t.Reference)
	if reference == "" {
		return fmt.Errorf("evento sin referencia: %w", domain.ErrInvalidInput)
	}
	cfg, err := uc.uow.WompiConfig().Get(ctx)
	if err != nil && !domain.IsNotFound(err) {
		return err
	}
	if err := uc.verifySignature(cfg.WebhookSecret(), t, signature); err != nil {
		return err
	}

	if _, err := uc.uow.Orders().GetByNumber(ctx, reference); err != nil {
		return err
	}
	lock, err := uc.locker.Obtain(ctx, "wompi:order:"+reference, webhookLockTTL)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(context.Background()); err != nil {
			uc.log.Warn().Err(err).Str("reference", reference).Msg("no se pudo liberar el lock del webhook")
		}
	}()

	key := "wompi:event:" + t.ID + ":" + t.Status
	fresh, err := uc.idempotency.MarkProcessed(ctx, key, webhookIdempotency)
	if err != nil {
		return err
	}
	if !fresh {
		uc.log.Info().Str("reference", reference).Str("transaction_id", t.ID).Str("status", t.Status).Msg("evento wompi repetido, se omite")
		return nil
	}

	o, prev, err := uc.applyTransaction(ctx, reference, t)
	if err != nil {
		if ferr := uc.idempotency.Forget(ctx, key); ferr != nil {
			uc.log.Warn().Err(ferr).Str("key", key).Msg("no se pudo liberar la clave de idempotencia")
		}
		return err
	}
	if o.Status != prev {
		uc.afterStatusChange(ctx, "", o, prev)
	}
	uc.log.Info().Str("order_number", o.OrderNumber).Str("transaction_id", t.ID).Str("wompi_status", t.Status).Str("status", o.Status).Msg("webhook wompi procesado")
	return nil
}

func (uc *UseCase) verifySignature(secret string, t dto.WompiTransaction, signature string) error {
	if secret != "" {
		if !wompi.VerifyEventSignature(signature, t.ID, t.Status, t.AmountInCents.String(), secret) {
			return domain.ErrInvalidSignature
		}
		return nil
	}
	if uc.opts.RequireSignature {
		return fmt.Errorf("sin secreto de eventos configurado: %w", domain.ErrInvalidSignature)
	}
	uc.log.Warn().Str("reference", t.Reference).Msg("webhook wompi aceptado sin firma: no hay secreto configurado")
	return nil
}

func (uc *UseCase) applyTransaction(ctx context.Context, reference string, t dto.WompiTransaction) (*entity.Order, string, error) {
	var o *entity.Order
	var prev string
	err := uc.uow.Run(ctx, func(tx ports.Repositories) error {
		var err error
		o, err = tx.Orders().GetByNumber(ctx, reference)
		if err != nil {
			return err
		}
		prev = o.Status
		now := uc.now()
		o.WompiStatus = t.Status
		o.WompiTransactionID = t.ID
		if cents, err := t.AmountInCents.Int64(); err == nil && cents != wompi.AmountInCents(o.Total) {
			uc.log.Warn().Str("order_number", o.OrderNumber).Int64("amount_in_cents", cents).Msg("el monto de la transacción no coincide con el total de la orden")
		}

		switch t.Status {
		case wompi.StatusApproved:
			if !isSettled(o.Status) {
				o.ApplyStatus(entity.OrderStatusPaid, now)
			}
			if err := uc.deductInventory(ctx, tx, o, "", now); err != nil {
				return err
			}
			if err := clearCustomerCart(ctx, tx, o.CustomerID); err != nil {
				return err
			}
		case wompi.StatusDeclined, wompi.StatusVoided, wompi.StatusError:
			// Un rechazo posterior al pago también cancela y devuelve lo descontado.
			if o.Status != entity.OrderStatusCancelled {
				o.ApplyStatus(entity.OrderStatusCancelled, now)
				if err := uc.restockInventory(ctx, tx, o, "", now); err != nil {
					return err
				}
			}
		}
		o.UpdatedAt = now
		return tx.Orders().Update(ctx, o)
	})
	return o, prev, err
}

// isSettled la orden ya fue pagada (o avanzó después del pago).
func isSettled(status string) bool {
	return status == entity.OrderStatusPaid || status == entity.OrderStatusShipped || status == entity.OrderStatusDelivered
}

func clearCustomerCart(ctx context.Context, tx ports.Repositories, customerID string) error {
	c, err := tx.Customers().GetByID(ctx, customerID)
	if err != nil || c.UserID == "" {
		return nil
	}
	cart, err := catalog.FindCart(ctx, tx, dto.CartOwner{UserID: c.UserID})
	if domain.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return tx.Carts().Clear(ctx, cart.ID)
}

func toWompiResponse(c *entity.WompiConfig) dto.WompiConfigResponse {
	return dto.WompiConfigResponse{
		PublicKey:          c.PublicKey,
		HasPrivateKey:      c.PrivateKey != "",
		HasIntegritySecret: c.IntegritySecret != "",
		HasEventsSecret:    c.EventsSecret != "",
		IsTestMode:         c.IsTestMode,
		IsActive:           c.IsActive,
		UpdatedAt:          c.UpdatedAt,
	}
}
