package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/naturalmede-api/internal/application/catalog"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/application/orders"
)

// HeaderCartSession identifica el carrito de un visitante anónimo.
const HeaderCartSession = "X-Cart-Session"

// StoreHandler endpoints públicos de la tienda: vitrina, carrito, checkout y pago.
type StoreHandler struct {
	catalog *catalog.UseCase
	cart    *catalog.CartUseCase
	orders  *orders.UseCase
}

// NewStoreHandler construye el handler de la tienda.
func NewStoreHandler(catalogUC *catalog.UseCase, cartUC *catalog.CartUseCase, ordersUC *orders.UseCase) *StoreHandler {
	return &StoreHandler{catalog: catalogUC, cart: cartUC, orders: ordersUC}
}

func cartOwner(c *fiber.Ctx) (dto.CartOwner, bool) {
	owner := dto.CartOwner{UserID: GetUserID(c), SessionKey: strings.TrimSpace(c.Get(HeaderCartSession))}
	if owner.UserID != "" {
		owner.SessionKey = ""
	}
	return owner, owner.UserID != "" || owner.SessionKey != ""
}

func missingCart(c *fiber.Ctx) error {
	return badRequest(c, "MISSING_CART", "se requiere token o header "+HeaderCartSession)
}

// Products godoc
// @Summary      Vitrina de productos activos
// @Tags         store
// @Produce      json
// @Param        category_id  query  string  false  "Categoría"
// @Param        brand_id     query  string  false  "Marca"
// @Param        search       query  string  false  "Búsqueda"
// @Param        featured     query  bool    false  "Destacados"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {object}  dto.ProductListResponse
// @Router       /api/store/products [get]
func (h *StoreHandler) Products(c *fiber.Ctx) error {
	var in dto.ProductFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	active := true
	in.Active = &active
	out, err := h.catalog.ListProducts(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Product godoc
// @Summary      Detalle de producto de la vitrina
// @Tags         store
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store/products/{id} [get]
func (h *StoreHandler) Product(c *fiber.Ctx) error {
	out, err := h.catalog.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if !out.IsActive {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.JSON(out)
}

// GetCart godoc
// @Summary      Carrito actual
// @Tags         store
// @Produce      json
// @Param        X-Cart-Session  header  string  false  "Llave del carrito anónimo"
// @Success      200  {object}  dto.CartResponse
// @Router       /api/store/cart [get]
func (h *StoreHandler) GetCart(c *fiber.Ctx) error {
	owner, ok := cartOwner(c)
	if !ok {
		return missingCart(c)
	}
	out, err := h.cart.Get(c.UserContext(), owner)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// AddCartItem godoc
// @Summary      Agregar producto al carrito
// @Tags         store
// @Accept       json
// @Produce      json
// @Param        X-Cart-Session  header  string  false  "Llave del carrito anónimo"
// @Param        body  body  dto.CartItemRequest  true  "Producto y cantidad"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/store/cart/items [post]
func (h *StoreHandler) AddCartItem(c *fiber.Ctx) error {
	owner, ok := cartOwner(c)
	if !ok {
		return missingCart(c)
	}
	var in dto.CartItemRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.cart.AddItem(c.UserContext(), owner, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// UpdateCartItem godoc
// @Summary      Cambiar cantidad de una línea (<= 0 la elimina)
// @Tags         store
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la línea"
// @Param        body  body  dto.CartQuantityRequest  true  "Cantidad"
// @Success      200   {object}  dto.CartResponse
// @Router       /api/store/cart/items/{id} [put]
func (h *StoreHandler) UpdateCartItem(c *fiber.Ctx) error {
	owner, ok := cartOwner(c)
	if !ok {
		return missingCart(c)
	}
	var in dto.CartQuantityRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.cart.UpdateItem(c.UserContext(), owner, c.Params("id"), in.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// RemoveCartItem godoc
// @Summary      Quitar línea del carrito
// @Tags         store
// @Produce      json
// @Param        id   path  string  true  "ID de la línea"
// @Success      200  {object}  dto.CartResponse
// @Router       /api/store/cart/items/{id} [delete]
func (h *StoreHandler) RemoveCartItem(c *fiber.Ctx) error {
	owner, ok := cartOwner(c)
	if !ok {
		return missingCart(c)
	}
	out, err := h.cart.RemoveItem(c.UserContext(), owner, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ClearCart godoc
// @Summary      Vaciar carrito
// @Tags         store
// @Success      204
// @Router       /api/store/cart [delete]
func (h *StoreHandler) ClearCart(c *fiber.Ctx) error {
	owner, ok := cartOwner(c)
	if !ok {
		return missingCart(c)
	}
	if err := h.cart.Clear(c.UserContext(), owner); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Checkout godoc
// @Summary      Convertir el carrito en orden
// @Tags         store
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Datos de cliente y envío"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/store/checkout [post]
func (h *StoreHandler) Checkout(c *fiber.Ctx) error {
	owner, ok := cartOwner(c)
	if !ok {
		return missingCart(c)
	}
	var in dto.CheckoutRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.orders.Checkout(c.UserContext(), owner, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// WompiWidget godoc
// @Summary      Datos del widget de pago Wompi para una orden
// @Tags         store
// @Produce      json
// @Param        number  path  string  true  "Número de orden"
// @Success      200     {object}  dto.WompiWidgetResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/store/orders/{number}/wompi [get]
func (h *StoreHandler) WompiWidget(c *fiber.Ctx) error {
	out, err := h.orders.WidgetData(c.UserContext(), c.Params("number"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ShippingQuote godoc
// @Summary      Cotizar envío por ciudad y peso
// @Tags         store
// @Produce      json
// @Param        city    query  string  true  "Ciudad"
// @Param        weight  query  number  false  "Peso en kg"
// @Success      200     {object}  dto.ShippingQuoteResponse
// @Router       /api/store/shipping/quote [get]
func (h *StoreHandler) ShippingQuote(c *fiber.Ctx) error {
	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		return badRequest(c, "VALIDATION", "city es requerido")
	}
	weight, err := queryDecimal(c, "weight")
	if err != nil {
		return badRequest(c, "VALIDATION", "weight inválido")
	}
	out, err := h.orders.QuoteShipping(c.UserContext(), city, weight)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
