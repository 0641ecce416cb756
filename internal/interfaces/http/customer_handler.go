package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/naturalmede-api/internal/application/customers"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
)

// CustomerHandler maneja clientes, direcciones de envío y ubicaciones.
type CustomerHandler struct {
	uc *customers.UseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *customers.UseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CustomerRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del cliente"
// @Param        body  body  dto.CustomerRequest  true  "Datos del cliente"
// @Success      200   {object}  dto.CustomerResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetByDocument godoc
// @Summary      Buscar cliente por documento
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        document  path  string  true  "Número de documento"
// @Success      200       {object}  dto.CustomerResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/customers/document/{document} [get]
func (h *CustomerHandler) GetByDocument(c *fiber.Ctx) error {
	out, err := h.uc.GetByDocument(c.UserContext(), c.Params("document"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        search         query  string  false  "Nombre, email, documento o teléfono"
// @Param        customer_type  query  string  false  "normal | vip"
// @Param        active         query  bool    false  "Activos"
// @Param        limit          query  int     false  "Límite"  default(20)
// @Param        offset         query  int     false  "Offset"  default(0)
// @Success      200            {object}  dto.CustomerListResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var in dto.CustomerFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar cliente
// @Tags         customers
// @Security     Bearer
// @Param        id   path  string  true  "ID del cliente"
// @Success      204
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddAddress godoc
// @Summary      Agregar dirección de envío
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del cliente"
// @Param        body  body  dto.AddressRequest  true  "Dirección"
// @Success      201   {object}  dto.AddressResponse
// @Router       /api/customers/{id}/addresses [post]
func (h *CustomerHandler) AddAddress(c *fiber.Ctx) error {
	var in dto.AddressRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddAddress(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAddresses godoc
// @Summary      Direcciones del cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {array}  dto.AddressResponse
// @Router       /api/customers/{id}/addresses [get]
func (h *CustomerHandler) ListAddresses(c *fiber.Ctx) error {
	out, err := h.uc.ListAddresses(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// DeleteAddress godoc
// @Summary      Eliminar dirección
// @Tags         customers
// @Security     Bearer
// @Param        id         path  string  true  "ID del cliente"
// @Param        addressId  path  string  true  "ID de la dirección"
// @Success      204
// @Router       /api/customers/{id}/addresses/{addressId} [delete]
func (h *CustomerHandler) DeleteAddress(c *fiber.Ctx) error {
	if err := h.uc.DeleteAddress(c.UserContext(), c.Params("id"), c.Params("addressId")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetDefaultAddress godoc
// @Summary      Marcar dirección por defecto
// @Tags         customers
// @Security     Bearer
// @Param        id         path  string  true  "ID del cliente"
// @Param        addressId  path  string  true  "ID de la dirección"
// @Success      204
// @Router       /api/customers/{id}/addresses/{addressId}/default [post]
func (h *CustomerHandler) SetDefaultAddress(c *fiber.Ctx) error {
	if err := h.uc.SetDefaultAddress(c.UserContext(), c.Params("id"), c.Params("addressId")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Countries godoc
// @Summary      Países
// @Tags         locations
// @Produce      json
// @Success      200  {array}  dto.CountryResponse
// @Router       /api/locations/countries [get]
func (h *CustomerHandler) Countries(c *fiber.Ctx) error {
	out, err := h.uc.ListCountries(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Departments godoc
// @Summary      Departamentos de un país
// @Tags         locations
// @Produce      json
// @Param        country_id  query  int  true  "ID del país"
// @Success      200         {array}  dto.DepartmentResponse
// @Router       /api/locations/departments [get]
func (h *CustomerHandler) Departments(c *fiber.Ctx) error {
	id := c.QueryInt("country_id", 0)
	if id <= 0 {
		return badRequest(c, "VALIDATION", "country_id es requerido")
	}
	out, err := h.uc.ListDepartments(c.UserContext(), int64(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Cities godoc
// @Summary      Ciudades de un departamento
// @Tags         locations
// @Produce      json
// @Param        department_id  query  int  true  "ID del departamento"
// @Success      200            {array}  dto.CityResponse
// @Router       /api/locations/cities [get]
func (h *CustomerHandler) Cities(c *fiber.Ctx) error {
	id := c.QueryInt("department_id", 0)
	if id <= 0 {
		return badRequest(c, "VALIDATION", "department_id es requerido")
	}
	out, err := h.uc.ListCities(c.UserContext(), int64(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
