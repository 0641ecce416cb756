package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/purchases"
)

const contentTypePDF = "application/pdf"

// PurchaseHandler maneja proveedores y compras.
type PurchaseHandler struct {
	uc *purchases.UseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchases.UseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// CreateSupplier godoc
// @Summary      Crear proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SupplierRequest  true  "Proveedor"
// @Success      201   {object}  dto.SupplierResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/suppliers [post]
func (h *PurchaseHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.SupplierRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateSupplier(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateSupplier godoc
// @Summary      Actualizar proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del proveedor"
// @Param        body  body  dto.SupplierRequest  true  "Proveedor"
// @Success      200   {object}  dto.SupplierResponse
// @Router       /api/suppliers/{id} [put]
func (h *PurchaseHandler) UpdateSupplier(c *fiber.Ctx) error {
	var in dto.SupplierRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateSupplier(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetSupplier godoc
// @Summary      Obtener proveedor
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.SupplierResponse
// @Router       /api/suppliers/{id} [get]
func (h *PurchaseHandler) GetSupplier(c *fiber.Ctx) error {
	out, err := h.uc.GetSupplier(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListSuppliers godoc
// @Summary      Listar proveedores
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Nombre o NIT"
// @Param        active  query  bool    false  "Solo activos"
// @Success      200     {array}  dto.SupplierResponse
// @Router       /api/suppliers [get]
func (h *PurchaseHandler) ListSuppliers(c *fiber.Ctx) error {
	out, err := h.uc.ListSuppliers(c.UserContext(), c.Query("search"), c.QueryBool("active", false))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear compra en borrador
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "Compra con sus líneas"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar compras
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "draft | pending | received | cancelled"
// @Param        supplier_id  query  string  false  "Proveedor"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {object}  dto.PurchaseListResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	var in dto.PurchaseFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar línea a la compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la compra"
// @Param        body  body  dto.PurchaseItemRequest  true  "Línea"
// @Success      200   {object}  dto.PurchaseResponse
// @Router       /api/purchases/{id}/items [post]
func (h *PurchaseHandler) AddItem(c *fiber.Ctx) error {
	var in dto.PurchaseItemRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddItem(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar línea de la compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID de la compra"
// @Param        itemId  path  string  true  "ID de la línea"
// @Success      200     {object}  dto.PurchaseResponse
// @Router       /api/purchases/{id}/items/{itemId} [delete]
func (h *PurchaseHandler) RemoveItem(c *fiber.Ctx) error {
	out, err := h.uc.RemoveItem(c.UserContext(), c.Params("id"), c.Params("itemId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// UpdateShipping godoc
// @Summary      Cambiar costo de envío
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la compra"
// @Param        body  body  dto.UpdateShippingRequest  true  "Costo de envío"
// @Success      200   {object}  dto.PurchaseResponse
// @Router       /api/purchases/{id}/shipping [put]
func (h *PurchaseHandler) UpdateShipping(c *fiber.Ctx) error {
	var in dto.UpdateShippingRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateShipping(c.UserContext(), c.Params("id"), in.ShippingCost)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Enviar compra (borrador a pendiente)
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/submit [post]
func (h *PurchaseHandler) Submit(c *fiber.Ctx) error {
	out, err := h.uc.Submit(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Recibir compra
// @Description  Ingresa el inventario en la bodega de la compra y recalcula el costo promedio.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la compra"
// @Param        body  body  dto.ReceivePurchaseRequest  false  "Notas"
// @Success      200   {object}  dto.ReceiptResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/receive [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseRequest
	if len(c.Body()) > 0 {
		if ok, err := bind(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.Receive(c.UserContext(), GetUserID(c), c.Params("id"), in.Notes)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Router       /api/purchases/{id}/cancel [post]
func (h *PurchaseHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// UpdatePaymentStatus godoc
// @Summary      Cambiar estado de pago
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la compra"
// @Param        body  body  dto.PaymentStatusRequest  true  "Estado de pago"
// @Success      200   {object}  dto.PurchaseResponse
// @Router       /api/purchases/{id}/payment-status [put]
func (h *PurchaseHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	var in dto.PaymentStatusRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdatePaymentStatus(c.UserContext(), GetUserID(c), c.Params("id"), in.PaymentStatus)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Orden de compra en PDF
// @Tags         purchases
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {file}  binary
// @Router       /api/purchases/{id}/pdf [get]
func (h *PurchaseHandler) PDF(c *fiber.Ctx) error {
	content, filename, err := h.uc.PurchaseOrderPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return sendFile(c, contentTypePDF, filename, content)
}

// sendFile responde un archivo descargable.
func sendFile(c *fiber.Ctx, contentType, filename string, content []byte) error {
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(content)
}
