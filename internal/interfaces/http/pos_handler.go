package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/pos"
)

// POSHandler maneja sesiones de caja y ventas de mostrador.
type POSHandler struct {
	uc *pos.UseCase
}

// NewPOSHandler construye el handler.
func NewPOSHandler(uc *pos.UseCase) *POSHandler {
	return &POSHandler{uc: uc}
}

// OpenSession godoc
// @Summary      Abrir caja
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenSessionRequest  true  "Bodega y base de caja"
// @Success      201   {object}  dto.SessionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/sessions [post]
func (h *POSHandler) OpenSession(c *fiber.Ctx) error {
	var in dto.OpenSessionRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.OpenSession(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CurrentSession godoc
// @Summary      Sesión abierta del usuario
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pos/sessions/current [get]
func (h *POSHandler) CurrentSession(c *fiber.Ctx) error {
	out, err := h.uc.CurrentSession(c.UserContext(), GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetSession godoc
// @Summary      Obtener sesión
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/pos/sessions/{id} [get]
func (h *POSHandler) GetSession(c *fiber.Ctx) error {
	out, err := h.uc.GetSession(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// CloseSession godoc
// @Summary      Cerrar caja
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sesión"
// @Param        body  body  dto.CloseSessionRequest  true  "Efectivo contado"
// @Success      200   {object}  dto.SessionResponse
// @Router       /api/pos/sessions/{id}/close [post]
func (h *POSHandler) CloseSession(c *fiber.Ctx) error {
	var in dto.CloseSessionRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.CloseSession(c.UserContext(), GetUserID(c), GetRole(c) == RoleAdmin, c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListSessions godoc
// @Summary      Listar sesiones
// @Description  Un admin ve todas; los demás solo las propias.
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "open | closed"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.SessionResponse
// @Router       /api/pos/sessions [get]
func (h *POSHandler) ListSessions(c *fiber.Ctx) error {
	var page dto.PageRequest
	if ok, err := bindQuery(c, &page); !ok {
		return err
	}
	userID := GetUserID(c)
	if GetRole(c) == RoleAdmin {
		userID = c.Query("user_id")
	}
	out, err := h.uc.ListSessions(c.UserContext(), userID, c.Query("status"), page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// CreateSale godoc
// @Summary      Registrar venta POS
// @Description  Descuenta inventario de la bodega de la sesión. Sin stock suficiente no se registra nada.
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/sales [post]
func (h *POSHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateSale(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetSale godoc
// @Summary      Obtener venta
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Router       /api/pos/sales/{id} [get]
func (h *POSHandler) GetSale(c *fiber.Ctx) error {
	out, err := h.uc.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListSales godoc
// @Summary      Listar ventas
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        session_id  query  string  false  "Sesión"
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {array}  dto.SaleResponse
// @Router       /api/pos/sales [get]
func (h *POSHandler) ListSales(c *fiber.Ctx) error {
	var in dto.SaleFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	var ok bool
	if in.From, in.To, ok = dateRange(c); !ok {
		return badRequest(c, "VALIDATION", "fechas inválidas")
	}
	out, err := h.uc.ListSales(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Recibo de venta en PDF
// @Tags         pos
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Router       /api/pos/sales/{id}/receipt [get]
func (h *POSHandler) Receipt(c *fiber.Ctx) error {
	content, filename, err := h.uc.ReceiptPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return sendFile(c, contentTypePDF, filename, content)
}
