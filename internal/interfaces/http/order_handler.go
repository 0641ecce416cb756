package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/orders"
)

// HeaderWompiSignature firma HMAC del evento enviada por Wompi.
const HeaderWompiSignature = "X-Signature"

// OrderHandler maneja órdenes web, tarifas de envío, configuración y webhook de Wompi.
type OrderHandler struct {
	uc *orders.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Get godoc
// @Summary      Obtener orden
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetByNumber godoc
// @Summary      Obtener orden por número
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de orden"
// @Success      200     {object}  dto.OrderResponse
// @Router       /api/orders/number/{number} [get]
func (h *OrderHandler) GetByNumber(c *fiber.Ctx) error {
	out, err := h.uc.GetByNumber(c.UserContext(), c.Params("number"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "Estado (uno o varios separados por coma)"
// @Param        customer_id  query  string  false  "Cliente"
// @Param        start_date   query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date     query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var in dto.OrderFilterRequest
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

// UpdateStatus godoc
// @Summary      Cambiar estado de la orden
// @Description  new→pending|cancelled, pending→paid|cancelled, paid→shipped|cancelled, shipped→delivered.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// CreateShippingRate godoc
// @Summary      Crear tarifa de envío
// @Tags         shipping
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ShippingRateRequest  true  "Tarifa"
// @Success      201   {object}  dto.ShippingRateResponse
// @Router       /api/shipping-rates [post]
func (h *OrderHandler) CreateShippingRate(c *fiber.Ctx) error {
	var in dto.ShippingRateRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateShippingRate(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateShippingRate godoc
// @Summary      Actualizar tarifa de envío
// @Tags         shipping
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tarifa"
// @Param        body  body  dto.ShippingRateRequest  true  "Tarifa"
// @Success      200   {object}  dto.ShippingRateResponse
// @Router       /api/shipping-rates/{id} [put]
func (h *OrderHandler) UpdateShippingRate(c *fiber.Ctx) error {
	var in dto.ShippingRateRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateShippingRate(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// DeleteShippingRate godoc
// @Summary      Eliminar tarifa de envío
// @Tags         shipping
// @Security     Bearer
// @Param        id   path  string  true  "ID de la tarifa"
// @Success      204
// @Router       /api/shipping-rates/{id} [delete]
func (h *OrderHandler) DeleteShippingRate(c *fiber.Ctx) error {
	if err := h.uc.DeleteShippingRate(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetShippingRate godoc
// @Summary      Obtener tarifa de envío
// @Tags         shipping
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tarifa"
// @Success      200  {object}  dto.ShippingRateResponse
// @Router       /api/shipping-rates/{id} [get]
func (h *OrderHandler) GetShippingRate(c *fiber.Ctx) error {
	out, err := h.uc.GetShippingRate(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListShippingRates godoc
// @Summary      Listar tarifas de envío
// @Tags         shipping
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "Solo activas"
// @Success      200     {array}  dto.ShippingRateResponse
// @Router       /api/shipping-rates [get]
func (h *OrderHandler) ListShippingRates(c *fiber.Ctx) error {
	out, err := h.uc.ListShippingRates(c.UserContext(), c.QueryBool("active", false))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetWompiConfig godoc
// @Summary      Configuración Wompi (secretos enmascarados)
// @Tags         wompi
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.WompiConfigResponse
// @Router       /api/wompi/config [get]
func (h *OrderHandler) GetWompiConfig(c *fiber.Ctx) error {
	out, err := h.uc.GetWompiConfig(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// UpdateWompiConfig godoc
// @Summary      Actualizar configuración Wompi
// @Tags         wompi
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WompiConfigRequest  true  "Credenciales"
// @Success      200   {object}  dto.WompiConfigResponse
// @Router       /api/wompi/config [put]
func (h *OrderHandler) UpdateWompiConfig(c *fiber.Ctx) error {
	var in dto.WompiConfigRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateWompiConfig(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// WompiWebhook godoc
// @Summary      Webhook de eventos de Wompi
// @Description  Verifica la firma HMAC-SHA256 de "id^status^amount_in_cents" y aplica el resultado del pago.
// @Tags         wompi
// @Accept       json
// @Produce      plain
// @Param        X-Signature  header  string          false  "Firma del evento"
// @Param        body         body    dto.WompiEvent  true   "Evento"
// @Success      200  {string}  string  "OK"
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/webhooks/wompi [post]
func (h *OrderHandler) WompiWebhook(c *fiber.Ctx) error {
	var ev dto.WompiEvent
	if err := c.App().Config().JSONDecoder(c.Body(), &ev); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.uc.HandleWompiEvent(c.UserContext(), ev, c.Get(HeaderWompiSignature)); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusOK).SendString("OK")
}
