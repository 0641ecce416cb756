package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/inventory"
)

// InventoryHandler maneja movimientos, existencias, traslados y trazabilidad.
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Entrada, salida, ajuste o devolución. Actualiza la existencia de forma atómica.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterMovement(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Producto"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        type          query  string  false  "in | out | transfer | adjustment | return"
// @Param        start_date    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date      query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200           {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	var ok bool
	if in.From, in.To, ok = dateRange(c); !ok {
		return badRequest(c, "VALIDATION", "fechas inválidas")
	}
	out, err := h.uc.ListMovements(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListStock godoc
// @Summary      Existencias
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        product_id    query  string  false  "Producto"
// @Param        low_stock     query  bool    false  "Solo stock bajo"
// @Success      200           {array}  dto.StockResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	var in dto.StockFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.ListStock(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetStock godoc
// @Summary      Existencia de un producto en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId    path  string  true  "Producto"
// @Param        warehouseId  path  string  true  "Bodega"
// @Success      200          {object}  dto.StockResponse
// @Router       /api/inventory/stock/{productId}/{warehouseId} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	out, err := h.uc.GetStock(c.UserContext(), c.Params("productId"), c.Params("warehouseId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// SetThresholds godoc
// @Summary      Definir mínimos, máximos y ubicación
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId    path  string  true  "Producto"
// @Param        warehouseId  path  string  true  "Bodega"
// @Param        body         body  dto.StockThresholdsRequest  true  "Umbrales"
// @Success      200          {object}  dto.StockResponse
// @Router       /api/inventory/stock/{productId}/{warehouseId} [put]
func (h *InventoryHandler) SetThresholds(c *fiber.Ctx) error {
	var in dto.StockThresholdsRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetThresholds(c.UserContext(), c.Params("productId"), c.Params("warehouseId"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Sugerencias de reabastecimiento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega"
// @Success      200           {array}  dto.ReplenishmentSuggestion
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.uc.Replenishment(c.UserContext(), c.Query("warehouse_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Trace godoc
// @Summary      Trazabilidad de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id     query  string  false  "Producto"
// @Param        warehouse_id   query  string  false  "Bodega"
// @Param        movement_type  query  string  false  "PURCHASE_RECEIPT | STOCK_TRANSFER | SALE | ..."
// @Param        start_date     query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date       query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200            {object}  dto.TraceResponse
// @Router       /api/inventory/trace [get]
func (h *InventoryHandler) Trace(c *fiber.Ctx) error {
	var in dto.TraceFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	var ok bool
	if in.From, in.To, ok = dateRange(c); !ok {
		return badRequest(c, "VALIDATION", "fechas inválidas")
	}
	out, err := h.uc.Trace(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// CreateTransfer godoc
// @Summary      Crear traslado entre bodegas
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Traslado"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) CreateTransfer(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateTransfer(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetTransfer godoc
// @Summary      Obtener traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Router       /api/inventory/transfers/{id} [get]
func (h *InventoryHandler) GetTransfer(c *fiber.Ctx) error {
	out, err := h.uc.GetTransfer(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListTransfers godoc
// @Summary      Listar traslados
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | in_transit | completed | cancelled"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.TransferResponse
// @Router       /api/inventory/transfers [get]
func (h *InventoryHandler) ListTransfers(c *fiber.Ctx) error {
	var page dto.PageRequest
	if ok, err := bindQuery(c, &page); !ok {
		return err
	}
	out, err := h.uc.ListTransfers(c.UserContext(), c.Query("status"), page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// CompleteTransfer godoc
// @Summary      Completar traslado
// @Description  Mueve todas las líneas o ninguna. Sin stock suficiente responde 409 y el traslado sigue pendiente.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers/{id}/complete [post]
func (h *InventoryHandler) CompleteTransfer(c *fiber.Ctx) error {
	out, err := h.uc.CompleteTransfer(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// CancelTransfer godoc
// @Summary      Cancelar traslado pendiente
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Router       /api/inventory/transfers/{id}/cancel [post]
func (h *InventoryHandler) CancelTransfer(c *fiber.Ctx) error {
	out, err := h.uc.CancelTransfer(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
