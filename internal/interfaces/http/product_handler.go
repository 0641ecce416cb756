package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/naturalmede-api/internal/application/catalog"
	"github.com/jhoicas/naturalmede-api/internal/application/dto"
)

// CatalogHandler maneja categorías, marcas, productos e imágenes.
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "Datos de la categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateCategory(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateCategory godoc
// @Summary      Actualizar categoría
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la categoría"
// @Param        body  body  dto.CategoryRequest  true  "Datos de la categoría"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateCategory(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetCategory godoc
// @Summary      Obtener categoría
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	out, err := h.uc.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListCategories godoc
// @Summary      Listar categorías
// @Tags         catalog
// @Produce      json
// @Param        active  query  bool  false  "Solo activas"
// @Success      200     {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.uc.ListCategories(c.UserContext(), c.QueryBool("active", false))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// CreateBrand godoc
// @Summary      Crear marca
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BrandRequest  true  "Datos de la marca"
// @Success      201   {object}  dto.BrandResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/brands [post]
func (h *CatalogHandler) CreateBrand(c *fiber.Ctx) error {
	var in dto.BrandRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateBrand(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateBrand godoc
// @Summary      Actualizar marca
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la marca"
// @Param        body  body  dto.BrandRequest  true  "Datos de la marca"
// @Success      200   {object}  dto.BrandResponse
// @Router       /api/brands/{id} [put]
func (h *CatalogHandler) UpdateBrand(c *fiber.Ctx) error {
	var in dto.BrandRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateBrand(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetBrand godoc
// @Summary      Obtener marca
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la marca"
// @Success      200  {object}  dto.BrandResponse
// @Router       /api/brands/{id} [get]
func (h *CatalogHandler) GetBrand(c *fiber.Ctx) error {
	out, err := h.uc.GetBrand(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListBrands godoc
// @Summary      Listar marcas
// @Tags         catalog
// @Produce      json
// @Param        active  query  bool  false  "Solo activas"
// @Success      200     {array}  dto.BrandResponse
// @Router       /api/brands [get]
func (h *CatalogHandler) ListBrands(c *fiber.Ctx) error {
	out, err := h.uc.ListBrands(c.UserContext(), c.QueryBool("active", false))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// CreateProduct godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateProduct(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetProduct godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "MISSING_ID", "id es requerido")
	}
	out, err := h.uc.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetProductByBarcode godoc
// @Summary      Buscar producto por código de barras
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        barcode  path  string  true  "Código de barras"
// @Success      200      {object}  dto.ProductResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/products/barcode/{barcode} [get]
func (h *CatalogHandler) GetProductByBarcode(c *fiber.Ctx) error {
	out, err := h.uc.GetProductByBarcode(c.UserContext(), c.Params("barcode"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListProducts godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        category_id  query  string  false  "Categoría"
// @Param        brand_id     query  string  false  "Marca"
// @Param        search       query  string  false  "Nombre, SKU o código de barras"
// @Param        active       query  bool    false  "Activos"
// @Param        featured     query  bool    false  "Destacados"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	var in dto.ProductFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.ListProducts(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// UpdateProduct godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateProduct(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// DeactivateProduct godoc
// @Summary      Desactivar producto
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *CatalogHandler) DeactivateProduct(c *fiber.Ctx) error {
	if err := h.uc.DeactivateProduct(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddImage godoc
// @Summary      Agregar imagen al producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.ProductImageRequest  true  "Imagen"
// @Success      201   {object}  dto.ProductImageResponse
// @Router       /api/products/{id}/images [post]
func (h *CatalogHandler) AddImage(c *fiber.Ctx) error {
	var in dto.ProductImageRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddImage(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListImages godoc
// @Summary      Imágenes del producto
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}  dto.ProductImageResponse
// @Router       /api/products/{id}/images [get]
func (h *CatalogHandler) ListImages(c *fiber.Ctx) error {
	out, err := h.uc.ListImages(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// DeleteImage godoc
// @Summary      Eliminar imagen
// @Tags         products
// @Security     Bearer
// @Param        id        path  string  true  "ID del producto"
// @Param        imageId   path  string  true  "ID de la imagen"
// @Success      204
// @Router       /api/products/{id}/images/{imageId} [delete]
func (h *CatalogHandler) DeleteImage(c *fiber.Ctx) error {
	if err := h.uc.DeleteImage(c.UserContext(), c.Params("id"), c.Params("imageId")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
