package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
	"github.com/jhoicas/naturalmede-api/internal/domain/repository"
)

// Reportes exportables.
const (
	ReportSales     = "sales"
	ReportInventory = "inventory"
	ReportProducts  = "products"
	ReportCustomers = "customers"
	ReportFinancial = "financial"
)

// Formatos de exportación.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

// Export genera el reporte pedido en xlsx (por defecto) o csv y registra la exportación.
func (uc *UseCase) Export(ctx context.Context, userID string, in dto.ExportRequest) (*dto.ExportFile, error) {
	format := in.Format
	if format == "" {
		format = FormatXLSX
	}
	if format != FormatXLSX && format != FormatCSV {
		return nil, domain.ErrInvalidInput
	}
	sheet, err := uc.buildSheet(ctx, in)
	if err != nil {
		return nil, err
	}

	file := &dto.ExportFile{Filename: fmt.Sprintf("%s_%s.%s", in.Report, uc.now().Format("20060102_150405"), format)}
	switch format {
	case FormatCSV:
		file.ContentType = contentTypeCSV
		file.Content, err = toCSV(sheet)
	default:
		file.ContentType = contentTypeXLSX
		file.Content, err = uc.exporter.XLSX(sheet)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", in.Report, err)
	}

	extra := map[string]any{"report": in.Report, "format": format, "rows": len(sheet.Rows)}
	if in.Status != "" {
		extra["status"] = in.Status
	}
	if in.From != nil {
		extra["from"] = in.From.Format(time.DateOnly)
	}
	if in.To != nil {
		extra["to"] = in.To.Format(time.DateOnly)
	}
	uc.recorder.Record(ctx, audit.Entry{
		UserID: userID, Action: entity.AuditActionExport, EntityType: entity.AuditEntityReport,
		ObjectID: in.Report, ObjectRepr: file.Filename, Extra: extra,
	})
	return file, nil
}

func (uc *UseCase) buildSheet(ctx context.Context, in dto.ExportRequest) (ports.Sheet, error) {
	repo := uc.uow.Reports()
	switch in.Report {
	case ReportSales, ReportFinancial:
		f := repository.OrderFilter{Status: in.Status, From: in.From, To: in.To}
		title := "Ventas"
		if in.Report == ReportFinancial {
			f.Status = ""
			f.Statuses = entity.PaidOrderStatuses
			title = "Financiero"
		}
		rows, err := repo.SalesRows(ctx, f)
		if err != nil {
			return ports.Sheet{}, err
		}
		return salesSheet(title, rows), nil
	case ReportInventory:
		rows, err := repo.InventoryRows(ctx)
		if err != nil {
			return ports.Sheet{}, err
		}
		s := ports.Sheet{Title: "Inventario", Headers: []string{"SKU", "Producto", "Bodega", "Cantidad", "Stock mínimo", "Costo", "Valor"}}
		total := decimal.Zero
		for _, r := range rows {
			s.Rows = append(s.Rows, []any{r.SKU, r.ProductName, r.WarehouseName, r.Quantity, r.MinStock, money(r.CostPrice), money(r.Value)})
			total = total.Add(r.Value)
		}
		s.Rows = append(s.Rows, []any{"TOTAL", "", "", "", "", "", money(total)})
		return s, nil
	case ReportProducts:
		rows, err := repo.ProductRows(ctx)
		if err != nil {
			return ports.Sheet{}, err
		}
		s := ports.Sheet{Title: "Productos", Headers: []string{"SKU", "Nombre", "Precio", "Costo", "Stock total", "Valor"}}
		for _, r := range rows {
			s.Rows = append(s.Rows, []any{r.SKU, r.Name, money(r.Price), money(r.CostPrice), r.TotalStock, money(r.Value)})
		}
		return s, nil
	case ReportCustomers:
		rows, err := repo.CustomerRows(ctx)
		if err != nil {
			return ports.Sheet{}, err
		}
		s := ports.Sheet{Title: "Clientes", Headers: []string{"Documento", "Nombre", "Email", "Teléfono", "Tipo", "Órdenes", "Gasto entregado"}}
		for _, r := range rows {
			s.Rows = append(s.Rows, []any{r.DocumentNumber, r.Name, r.Email, r.Phone, r.CustomerType, r.Orders, money(r.Spent)})
		}
		return s, nil
	}
	return ports.Sheet{}, fmt.Errorf("reporte %q desconocido: %w", in.Report, domain.ErrInvalidInput)
}

func salesSheet(title string, rows []entity.SalesReportRow) ports.Sheet {
	s := ports.Sheet{Title: title, Headers: []string{"Orden", "Fecha", "Cliente", "Estado", "Método de pago", "Subtotal", "IVA", "Envío", "Total"}}
	total := decimal.Zero
	for _, r := range rows {
		s.Rows = append(s.Rows, []any{
			r.OrderNumber, r.CreatedAt.Format("2006-01-02 15:04"), r.CustomerName, r.Status, r.PaymentMethod,
			money(r.Subtotal), money(r.IVAAmount), money(r.ShippingCost), money(r.Total),
		})
		total = total.Add(r.Total)
	}
	s.Rows = append(s.Rows, []any{"TOTAL", "", "", "", "", "", "", "", money(total)})
	return s
}

// money valor numérico para la hoja (float64 con dos decimales).
func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func toCSV(s ports.Sheet) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(s.Headers); err != nil {
		return nil, err
	}
	for _, row := range s.Rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = fmt.Sprint(v)
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
