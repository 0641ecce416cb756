package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/reports"
)

// ReportHandler maneja el dashboard y las exportaciones.
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Dashboard godoc
// @Summary      Resumen del negocio
// @Description  Ventas pagadas de hoy y del mes (órdenes y POS), top productos, top clientes, stock bajo y órdenes pendientes.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar reporte
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        report      path   string  true   "sales | inventory | products | customers | financial"
// @Param        format      query  string  false  "xlsx | csv"  default(xlsx)
// @Param        status      query  string  false  "Estado (ventas)"
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/export/{report} [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	var in dto.ExportRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	in.Report = c.Params("report")
	var ok bool
	if in.From, in.To, ok = dateRange(c); !ok {
		return badRequest(c, "VALIDATION", "fechas inválidas")
	}
	file, err := h.uc.Export(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return sendFile(c, file.ContentType, file.Filename, file.Content)
}
