package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
)

// AuditHandler consulta de auditoría, configuración y limpieza (solo admin).
type AuditHandler struct {
	uc *audit.UseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Listar registros de auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        entity_type  query  string  false  "Tipo de entidad (app.model)"
// @Param        object_id    query  string  false  "ID del objeto"
// @Param        user_id      query  string  false  "Usuario"
// @Param        action       query  string  false  "Acción"
// @Param        severity     query  string  false  "LOW | MEDIUM | HIGH | CRITICAL"
// @Param        start_date   query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date     query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {object}  dto.AuditLogListResponse
// @Router       /api/audit/logs [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var in dto.AuditFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	var ok bool
	if in.From, in.To, ok = dateRange(c); !ok {
		return badRequest(c, "VALIDATION", "fechas inválidas")
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener registro de auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.AuditLogResponse
// @Router       /api/audit/logs/{id} [get]
func (h *AuditHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AuditStatsResponse
// @Router       /api/audit/stats [get]
func (h *AuditHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListConfigs godoc
// @Summary      Configuraciones de auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AuditConfigResponse
// @Router       /api/audit/configs [get]
func (h *AuditHandler) ListConfigs(c *fiber.Ctx) error {
	out, err := h.uc.ListConfigs(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetConfig godoc
// @Summary      Configuración de un tipo de entidad
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        entityType  path  string  true  "Tipo de entidad"
// @Success      200         {object}  dto.AuditConfigResponse
// @Router       /api/audit/configs/{entityType} [get]
func (h *AuditHandler) GetConfig(c *fiber.Ctx) error {
	out, err := h.uc.GetConfig(c.UserContext(), c.Params("entityType"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// UpsertConfig godoc
// @Summary      Crear o actualizar configuración de auditoría
// @Tags         audit
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AuditConfigRequest  true  "Configuración"
// @Success      200   {object}  dto.AuditConfigResponse
// @Router       /api/audit/configs [put]
func (h *AuditHandler) UpsertConfig(c *fiber.Ctx) error {
	var in dto.AuditConfigRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpsertConfig(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Cleanup godoc
// @Summary      Limpiar registros vencidos
// @Description  Borra, por cada configuración habilitada, los registros más antiguos que su retención. Con dry_run solo cuenta.
// @Tags         audit
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CleanupRequest  false  "days y dry_run"
// @Success      200   {object}  dto.CleanupResponse
// @Router       /api/audit/cleanup [post]
func (h *AuditHandler) Cleanup(c *fiber.Ctx) error {
	var in dto.CleanupRequest
	if len(c.Body()) > 0 {
		if ok, err := bind(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.Cleanup(c.UserContext(), in.Days, in.DryRun)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
