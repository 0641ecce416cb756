package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

// Replenishment sugiere reposición para las existencias en o bajo el mínimo de una bodega
// (vacío = todas). Cantidad sugerida: hasta el máximo, o 1.5 veces el mínimo si no hay máximo.
func (uc *UseCase) Replenishment(ctx context.Context, warehouseID string) ([]dto.ReplenishmentSuggestion, error) {
	low, err := uc.uow.Stock().List(ctx, repository.StockFilter{WarehouseID: warehouseID, LowOnly: true})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReplenishmentSuggestion, 0, len(low))
	for _, s := range low {
		p, err := uc.uow.Products().GetByID(ctx, s.ProductID)
		if err != nil {
			if domain.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if !p.IsActive {
			continue
		}
		ideal := s.MaxStock
		if ideal <= 0 {
			ideal = (s.MinStock*3 + 1) / 2
		}
		qty := ideal - s.Quantity
		if qty <= 0 {
			qty = 1
		}
		out = append(out, dto.ReplenishmentSuggestion{
			ProductID:          p.ID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			WarehouseID:        s.WarehouseID,
			CurrentStock:       s.Quantity,
			MinStock:           s.MinStock,
			IdealStock:         ideal,
			SuggestedOrderQty:  qty,
			UnitCost:           p.CostPrice,
			EstimatedOrderCost: p.CostPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2),
		})
	}
	// Prioridad: primero los que están más lejos del mínimo.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MinStock-out[i].CurrentStock > out[j].MinStock-out[j].CurrentStock
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
