package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/naturalmede-api/internal/application/audit"
	"github.com/jhoicas/naturalmede-api/internal/application/auth"
	"github.com/jhoicas/naturalmede-api/internal/application/catalog"
	"github.com/jhoicas/naturalmede-api/internal/application/customers"
	"github.com/jhoicas/naturalmede-api/internal/application/inventory"
	"github.com/jhoicas/naturalmede-api/internal/application/orders"
	"github.com/jhoicas/naturalmede-api/internal/application/pos"
	"github.com/jhoicas/naturalmede-api/internal/application/purchases"
	"github.com/jhoicas/naturalmede-api/internal/application/reports"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CatalogUC   *catalog.UseCase
	CartUC      *catalog.CartUseCase
	CustomerUC  *customers.UseCase
	InventoryUC *inventory.UseCase
	PurchaseUC  *purchases.UseCase
	POSUC       *pos.UseCase
	OrderUC     *orders.UseCase
	AuditUC     *audit.UseCase
	ReportUC    *reports.UseCase
	JWTSecret   string
	ServiceName string
	// Ping verifica la base de datos para /health; nil = siempre ok.
	Ping func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Ping != nil {
			if err := deps.Ping(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "service": deps.ServiceName})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	orderHandler := NewOrderHandler(deps.OrderUC)
	storeHandler := NewStoreHandler(deps.CatalogUC, deps.CartUC, deps.OrderUC)
	authHandler := NewAuthHandler(deps.AuthUC)

	// Auth (público)
	api.Post("/auth/login", authHandler.Login)

	// Tienda (público; el token es opcional y asocia el carrito al usuario)
	store := api.Group("/store", OptionalAuth(deps.JWTSecret))
	store.Get("/products", storeHandler.Products)
	store.Get("/products/:id", storeHandler.Product)
	store.Get("/cart", storeHandler.GetCart)
	store.Delete("/cart", storeHandler.ClearCart)
	store.Post("/cart/items", storeHandler.AddCartItem)
	store.Put("/cart/items/:id", storeHandler.UpdateCartItem)
	store.Delete("/cart/items/:id", storeHandler.RemoveCartItem)
	store.Post("/checkout", storeHandler.Checkout)
	store.Get("/orders/:number/wompi", storeHandler.WompiWidget)
	store.Get("/shipping/quote", storeHandler.ShippingQuote)
	store.Get("/categories", catalogHandler.ListCategories)
	store.Get("/brands", catalogHandler.ListBrands)

	// Ubicaciones (público)
	locations := api.Group("/locations")
	locations.Get("/countries", customerHandler.Countries)
	locations.Get("/departments", customerHandler.Departments)
	locations.Get("/cities", customerHandler.Cities)

	// Webhook Wompi (público, validado por firma)
	api.Post("/webhooks/wompi", orderHandler.WompiWebhook)
	app.Post("/catalog/wompi/webhook", orderHandler.WompiWebhook)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(RoleAdmin)
	stockRoles := RequireRole(RoleAdmin, RoleBodeguero)
	salesRoles := RequireRole(RoleAdmin, RoleVendedor)
	anyRole := RequireRole(RoleAdmin, RoleBodeguero, RoleVendedor)

	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/register", adminOnly, authHandler.Register)
	protected.Get("/users", adminOnly, authHandler.ListUsers)

	// Catálogo: lectura para todos los roles, escritura solo admin
	categories := protected.Group("/categories")
	categories.Get("/", anyRole, catalogHandler.ListCategories)
	categories.Get("/:id", anyRole, catalogHandler.GetCategory)
	categories.Post("/", adminOnly, catalogHandler.CreateCategory)
	categories.Put("/:id", adminOnly, catalogHandler.UpdateCategory)

	brands := protected.Group("/brands")
	brands.Get("/", anyRole, catalogHandler.ListBrands)
	brands.Get("/:id", anyRole, catalogHandler.GetBrand)
	brands.Post("/", adminOnly, catalogHandler.CreateBrand)
	brands.Put("/:id", adminOnly, catalogHandler.UpdateBrand)

	products := protected.Group("/products")
	products.Get("/", anyRole, catalogHandler.ListProducts)
	products.Get("/barcode/:barcode", anyRole, catalogHandler.GetProductByBarcode)
	products.Get("/:id", anyRole, catalogHandler.GetProduct)
	products.Get("/:id/images", anyRole, catalogHandler.ListImages)
	products.Post("/", adminOnly, catalogHandler.CreateProduct)
	products.Put("/:id", adminOnly, catalogHandler.UpdateProduct)
	products.Delete("/:id", adminOnly, catalogHandler.DeactivateProduct)
	products.Post("/:id/images", adminOnly, catalogHandler.AddImage)
	products.Delete("/:id/images/:imageId", adminOnly, catalogHandler.DeleteImage)

	// Clientes (admin, vendedor)
	customersGroup := protected.Group("/customers", salesRoles)
	customersGroup.Get("/", customerHandler.List)
	customersGroup.Post("/", customerHandler.Create)
	customersGroup.Get("/document/:document", customerHandler.GetByDocument)
	customersGroup.Get("/:id", customerHandler.Get)
	customersGroup.Put("/:id", customerHandler.Update)
	customersGroup.Delete("/:id", customerHandler.Deactivate)
	customersGroup.Get("/:id/addresses", customerHandler.ListAddresses)
	customersGroup.Post("/:id/addresses", customerHandler.AddAddress)
	customersGroup.Delete("/:id/addresses/:addressId", customerHandler.DeleteAddress)
	customersGroup.Post("/:id/addresses/:addressId/default", customerHandler.SetDefaultAddress)

	// Bodegas: lectura para todos (la caja elige bodega), escritura admin y bodeguero
	warehouseHandler := NewWarehouseHandler(deps.InventoryUC)
	warehouses := protected.Group("/warehouses")
	warehouses.Get("/", anyRole, warehouseHandler.List)
	warehouses.Get("/:id", anyRole, warehouseHandler.GetByID)
	warehouses.Post("/", stockRoles, warehouseHandler.Create)
	warehouses.Put("/:id", stockRoles, warehouseHandler.Update)
	warehouses.Post("/:id/main", adminOnly, warehouseHandler.SetMain)

	// Inventario (admin, bodeguero)
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	inv := protected.Group("/inventory", stockRoles)
	inv.Post("/movements", inventoryHandler.RegisterMovement)
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Get("/stock", inventoryHandler.ListStock)
	inv.Get("/stock/:productId/:warehouseId", inventoryHandler.GetStock)
	inv.Put("/stock/:productId/:warehouseId", inventoryHandler.SetThresholds)
	inv.Get("/replenishment", inventoryHandler.Replenishment)
	inv.Get("/trace", inventoryHandler.Trace)
	inv.Post("/transfers", inventoryHandler.CreateTransfer)
	inv.Get("/transfers", inventoryHandler.ListTransfers)
	inv.Get("/transfers/:id", inventoryHandler.GetTransfer)
	inv.Post("/transfers/:id/complete", inventoryHandler.CompleteTransfer)
	inv.Post("/transfers/:id/cancel", inventoryHandler.CancelTransfer)

	// Compras y proveedores (admin, bodeguero)
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	suppliers := protected.Group("/suppliers", stockRoles)
	suppliers.Get("/", purchaseHandler.ListSuppliers)
	suppliers.Post("/", purchaseHandler.CreateSupplier)
	suppliers.Get("/:id", purchaseHandler.GetSupplier)
	suppliers.Put("/:id", purchaseHandler.UpdateSupplier)

	purchasesGroup := protected.Group("/purchases", stockRoles)
	purchasesGroup.Get("/", purchaseHandler.List)
	purchasesGroup.Post("/", purchaseHandler.Create)
	purchasesGroup.Get("/:id", purchaseHandler.Get)
	purchasesGroup.Get("/:id/pdf", purchaseHandler.PDF)
	purchasesGroup.Post("/:id/items", purchaseHandler.AddItem)
	purchasesGroup.Delete("/:id/items/:itemId", purchaseHandler.RemoveItem)
	purchasesGroup.Put("/:id/shipping", purchaseHandler.UpdateShipping)
	purchasesGroup.Post("/:id/submit", purchaseHandler.Submit)
	purchasesGroup.Post("/:id/receive", purchaseHandler.Receive)
	purchasesGroup.Post("/:id/cancel", purchaseHandler.Cancel)
	purchasesGroup.Put("/:id/payment-status", purchaseHandler.UpdatePaymentStatus)

	// POS (admin, vendedor)
	posHandler := NewPOSHandler(deps.POSUC)
	posGroup := protected.Group("/pos", salesRoles)
	posGroup.Post("/sessions", posHandler.OpenSession)
	posGroup.Get("/sessions", posHandler.ListSessions)
	posGroup.Get("/sessions/current", posHandler.CurrentSession)
	posGroup.Get("/sessions/:id", posHandler.GetSession)
	posGroup.Post("/sessions/:id/close", posHandler.CloseSession)
	posGroup.Post("/sales", posHandler.CreateSale)
	posGroup.Get("/sales", posHandler.ListSales)
	posGroup.Get("/sales/:id", posHandler.GetSale)
	posGroup.Get("/sales/:id/receipt", posHandler.Receipt)

	// Órdenes (admin, vendedor)
	ordersGroup := protected.Group("/orders", salesRoles)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/number/:number", orderHandler.GetByNumber)
	ordersGroup.Get("/:id", orderHandler.Get)
	ordersGroup.Put("/:id/status", orderHandler.UpdateStatus)

	rates := protected.Group("/shipping-rates")
	rates.Get("/", salesRoles, orderHandler.ListShippingRates)
	rates.Get("/:id", salesRoles, orderHandler.GetShippingRate)
	rates.Post("/", adminOnly, orderHandler.CreateShippingRate)
	rates.Put("/:id", adminOnly, orderHandler.UpdateShippingRate)
	rates.Delete("/:id", adminOnly, orderHandler.DeleteShippingRate)

	// Configuración Wompi (solo admin)
	wompiGroup := protected.Group("/wompi", adminOnly)
	wompiGroup.Get("/config", orderHandler.GetWompiConfig)
	wompiGroup.Put("/config", orderHandler.UpdateWompiConfig)

	// Auditoría (solo admin)
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup := protected.Group("/audit", adminOnly)
	auditGroup.Get("/logs", auditHandler.List)
	auditGroup.Get("/logs/:id", auditHandler.Get)
	auditGroup.Get("/stats", auditHandler.Stats)
	auditGroup.Get("/configs", auditHandler.ListConfigs)
	auditGroup.Get("/configs/:entityType", auditHandler.GetConfig)
	auditGroup.Put("/configs", auditHandler.UpsertConfig)
	auditGroup.Post("/cleanup", auditHandler.Cleanup)

	// Reportes (solo admin)
	reportHandler := NewReportHandler(deps.ReportUC)
	reportsGroup := protected.Group("/reports", adminOnly)
	reportsGroup.Get("/dashboard", reportHandler.Dashboard)
	reportsGroup.Get("/export/:report", reportHandler.Export)
}
