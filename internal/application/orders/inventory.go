package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/naturalmede-api/internal/application/inventory"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

// deductInventory descuenta las líneas de la orden en la bodega por defecto con la
// referencia "Orden {n}". Los productos con salida pendiente de devolución se omiten, así los
// reintentos no duplican. Los faltantes no bloquean el pago: se anotan en las notas internas.
func (uc *UseCase) deductInventory(ctx context.Context, tx ports.Repositories, o *entity.Order, userID string, now time.Time) error {
	w, err := tx.Warehouses().GetDefault(ctx)
	if domain.IsNotFound(err) {
		uc.log.Warn().Str("order_number", o.OrderNumber).Msg("sin bodega activa, no se descuenta inventario")
		return nil
	}
	if err != nil {
		return err
	}
	_, pending, err := outstanding(ctx, tx, o.ID)
	if err != nil {
		return err
	}
	deducted := map[string]bool{}
	for k, qty := range pending {
		if qty > 0 {
			deducted[k.ProductID] = true
		}
	}

	var missing []string
	for _, it := range o.Items {
		if deducted[it.ProductID] {
			continue
		}
		_, err = inventory.ApplyMovement(ctx, tx, inventory.MovementInput{
			ProductID:   it.ProductID,
			WarehouseID: w.ID,
			Type:        entity.MovementTypeOut,
			Quantity:    it.Quantity,
			Reference:   o.InventoryReference(),
			UserID:      userID,
			SourceKind:  entity.SourceOrder,
			SourceID:    o.ID,
		}, now)
		if errors.Is(err, domain.ErrInsufficientStock) {
			missing = append(missing, fmt.Sprintf("%s x%d", it.ProductID, it.Quantity))
			continue
		}
		if err != nil {
			return err
		}
	}
	if len(missing) > 0 {
		note := "Sin stock en " + w.Code + ": " + strings.Join(missing, ", ")
		uc.log.Error().Str("order_number", o.OrderNumber).Str("warehouse", w.Code).Strs("items", missing).Msg("orden pagada con faltantes de inventario")
		if o.InternalNotes != "" {
			note = o.InternalNotes + "\n" + note
		}
		o.InternalNotes = note
	}
	return nil
}

// restockInventory devuelve cada salida pendiente de la orden a la bodega de donde salió.
// Lo ya devuelto no se repite.
func (uc *UseCase) restockInventory(ctx context.Context, tx ports.Repositories, o *entity.Order, userID string, now time.Time) error {
	keys, pending, err := outstanding(ctx, tx, o.ID)
	if err != nil {
		return err
	}
	for _, k := range keys {
		qty := pending[k]
		if qty <= 0 {
			continue
		}
		if _, err := inventory.ApplyMovement(ctx, tx, inventory.MovementInput{
			ProductID:   k.ProductID,
			WarehouseID: k.WarehouseID,
			Type:        entity.MovementTypeReturn,
			Quantity:    qty,
			Reference:   o.ReturnReference(),
			UserID:      userID,
			SourceKind:  entity.SourceOrderReturn,
			SourceID:    o.ID,
		}, now); err != nil {
			return err
		}
	}
	return nil
}

// outstanding unidades descontadas por la orden y aún no devueltas, por producto y bodega.
// keys conserva el orden de la primera salida.
func outstanding(ctx context.Context, tx ports.Repositories, orderID string) ([]repository.StockKey, map[repository.StockKey]int, error) {
	out, err := tx.Movements().ListBySource(ctx, entity.SourceOrder, orderID)
	if err != nil {
		return nil, nil, err
	}
	returns, err := tx.Movements().ListBySource(ctx, entity.SourceOrderReturn, orderID)
	if err != nil {
		return nil, nil, err
	}
	var keys []repository.StockKey
	pending := map[repository.StockKey]int{}
	for _, m := range out {
		k := repository.StockKey{ProductID: m.ProductID, WarehouseID: m.WarehouseID}
		if _, ok := pending[k]; !ok {
			keys = append(keys, k)
		}
		pending[k] += -m.Quantity
	}
	for _, m := range returns {
		k := repository.StockKey{ProductID: m.ProductID, WarehouseID: m.WarehouseID}
		pending[k] -= m.Quantity
	}
	return keys, pending, nil
}
