package inventory

import (
	"context"

	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

// Trace proyección de trazabilidad sobre el ledger. El resumen por producto cubre todas las
// filas filtradas; solo Items se pagina.
func (uc *UseCase) Trace(ctx context.Context, in dto.TraceFilterRequest) (*dto.TraceResponse, error) {
	in.DefaultPage()
	rows, err := uc.uow.Movements().Trace(ctx, repository.MovementFilter{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		TraceType:   in.MovementType,
		From:        in.From,
		To:          in.To,
	})
	if err != nil {
		return nil, err
	}
	page := repository.Page{Limit: in.Limit, Offset: in.Offset}.Normalize()
	start := min(page.Offset, len(rows))
	end := min(start+page.Limit, len(rows))

	out := &dto.TraceResponse{Items: make([]dto.TraceRowResponse, 0, end-start), Total: len(rows)}
	for _, r := range rows[start:end] {
		out.Items = append(out.Items, dto.TraceRowResponse{
			MovementID:    r.MovementID,
			MovementType:  r.TraceType,
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			ProductSKU:    r.ProductSKU,
			WarehouseID:   r.WarehouseID,
			WarehouseName: r.WarehouseName,
			Quantity:      r.Quantity,
			StockBefore:   r.StockBefore,
			StockAfter:    r.StockAfter,
			Reference:     r.Reference,
			Notes:         r.Notes,
			UserID:        r.UserID,
			CreatedAt:     r.CreatedAt,
		})
	}

	summaries := map[string]*entity.TraceSummary{}
	var order []string
	for _, r := range rows {
		s, ok := summaries[r.ProductID]
		if !ok {
			s = &entity.TraceSummary{ProductID: r.ProductID, ProductName: r.ProductName}
			summaries[r.ProductID] = s
			order = append(order, r.ProductID)
		}
		if r.Quantity > 0 {
			s.TotalIn += r.Quantity
		} else {
			s.TotalOut += -r.Quantity
		}
		s.MovementCount++
	}
	out.Summary = make([]dto.TraceSummaryResponse, 0, len(order))
	for _, id := range order {
		s := summaries[id]
		out.Summary = append(out.Summary, dto.TraceSummaryResponse{
			ProductID:     s.ProductID,
			ProductName:   s.ProductName,
			TotalIn:       s.TotalIn,
			TotalOut:      s.TotalOut,
			MovementCount: s.MovementCount,
		})
	}
	return out, nil
}
