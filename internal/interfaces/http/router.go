package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiendamx/pos-mostrador/internal/application/auth"
	"github.com/tiendamx/pos-mostrador/internal/application/backup"
	"github.com/tiendamx/pos-mostrador/internal/application/cashbox"
	"github.com/tiendamx/pos-mostrador/internal/application/catalog"
	"github.com/tiendamx/pos-mostrador/internal/application/credit"
	"github.com/tiendamx/pos-mostrador/internal/application/customers"
	"github.com/tiendamx/pos-mostrador/internal/application/fiscal"
	"github.com/tiendamx/pos-mostrador/internal/application/inventory"
	"github.com/tiendamx/pos-mostrador/internal/application/layaway"
	"github.com/tiendamx/pos-mostrador/internal/application/reports"
	"github.com/tiendamx/pos-mostrador/internal/application/sales"
	"github.com/tiendamx/pos-mostrador/internal/application/syncsvc"
	"github.com/tiendamx/pos-mostrador/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.Usecase
	CatalogUC   *catalog.Usecase
	CustomersUC *customers.Usecase
	SalesUC     *sales.Usecase
	LayawayUC   *layaway.Usecase
	CreditUC    *credit.Usecase
	CashboxUC   *cashbox.Usecase
	InventoryUC *inventory.Usecase
	ReportsUC   *reports.Usecase
	FiscalUC    *fiscal.Usecase
	BackupUC    *backup.Usecase
	SyncUC      *syncsvc.Usecase
	JWTSecret   string
	BranchID    int64
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Público
	api.Get("/ping", NewSyncHandler(deps.SyncUC).Ping)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Sincronización MultiCaja (X-Token de caja cliente)
	tokenMW := TokenMiddleware(deps.AuthUC, deps.BranchID)
	syncHandler := NewSyncHandler(deps.SyncUC)
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	api.Get("/sync", tokenMW, syncHandler.Incremental)
	api.Post("/inventory/apply_sale", tokenMW, inventoryHandler.ApplySale)
	api.Post("/inventory/remote_adjust", tokenMW, inventoryHandler.Adjust)

	// Rutas protegidas (Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	staff := []string{entity.RoleAdmin, entity.RoleSupervisor, entity.RoleCashier}
	managers := []string{entity.RoleAdmin, entity.RoleSupervisor}

	// Catálogo
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC)
	products.Get("/", productHandler.List)
	products.Get("/find", productHandler.Find)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRoles(managers...), productHandler.Create)
	products.Put("/:id", RequireRoles(managers...), productHandler.Update)
	products.Delete("/:id", RequireRoles(managers...), productHandler.Delete)
	products.Post("/:id/deactivate", RequireRoles(managers...), productHandler.Deactivate)
	products.Post("/:id/favorite", productHandler.ToggleFavorite)

	// Clientes y crédito
	customersGroup := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomersUC)
	creditHandler := NewCreditHandler(deps.CreditUC)
	customersGroup.Get("/", customerHandler.List)
	customersGroup.Get("/debtors", creditHandler.Debtors)
	customersGroup.Get("/:id", customerHandler.GetByID)
	customersGroup.Post("/", RequireRoles(staff...), customerHandler.Create)
	customersGroup.Put("/:id", RequireRoles(staff...), customerHandler.Update)
	customersGroup.Delete("/:id", RequireRoles(managers...), customerHandler.Delete)
	customersGroup.Post("/:id/payments", RequireRoles(staff...), creditHandler.RegisterPayment)
	customersGroup.Get("/:id/statement", creditHandler.Statement)

	// Ventas
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC)
	salesGroup.Post("/", RequireRoles(staff...), saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)

	// Apartados
	layaways := protected.Group("/layaways")
	layawayHandler := NewLayawayHandler(deps.LayawayUC)
	layaways.Post("/", RequireRoles(staff...), layawayHandler.Create)
	layaways.Get("/", layawayHandler.List)
	layaways.Get("/:id", layawayHandler.GetByID)
	layaways.Post("/:id/payments", RequireRoles(staff...), layawayHandler.AddPayment)
	layaways.Post("/:id/liquidate", RequireRoles(staff...), layawayHandler.Liquidate)
	layaways.Post("/:id/cancel", RequireRoles(managers...), layawayHandler.Cancel)

	// Caja
	cashboxGroup := protected.Group("/cashbox")
	cashboxHandler := NewCashboxHandler(deps.CashboxUC)
	cashboxGroup.Post("/turns", RequireRoles(staff...), cashboxHandler.Open)
	cashboxGroup.Get("/turns", cashboxHandler.List)
	cashboxGroup.Get("/turns/current", cashboxHandler.Current)
	cashboxGroup.Get("/turns/:id/summary", cashboxHandler.Summary)
	cashboxGroup.Get("/turns/:id/movements", cashboxHandler.Movements)
	cashboxGroup.Post("/turns/close", RequireRoles(staff...), cashboxHandler.Close)
	cashboxGroup.Post("/movements", RequireRoles(staff...), cashboxHandler.Movement)

	// Inventario
	invGroup := protected.Group("/inventory")
	invGroup.Get("/stock", inventoryHandler.ListStock)
	invGroup.Get("/stock/:id", inventoryHandler.GetStock)
	invGroup.Get("/logs", inventoryHandler.Logs)
	invGroup.Post("/adjust", RequireRoles(managers...), inventoryHandler.Adjust)
	invGroup.Post("/set", RequireRoles(managers...), inventoryHandler.Set)
	invGroup.Post("/levels", RequireRoles(managers...), inventoryHandler.SetLevels)

	// Dashboard (reportes de lectura)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.ReportsUC)
	dashboard.Get("/sales", dashboardHandler.Sales)
	dashboard.Get("/top-products", dashboardHandler.TopProducts)
	dashboard.Get("/low-stock", dashboardHandler.LowStock)
	dashboard.Get("/outstanding", dashboardHandler.Outstanding)

	// Fiscal (CFDI)
	fiscalGroup := protected.Group("/fiscal", RequireRoles(managers...))
	fiscalHandler := NewFiscalHandler(deps.FiscalUC)
	fiscalGroup.Get("/config", fiscalHandler.GetConfig)
	fiscalGroup.Put("/config", fiscalHandler.UpdateConfig)
	fiscalGroup.Post("/cfdi", fiscalHandler.Issue)
	fiscalGroup.Post("/cfdi/pago", fiscalHandler.IssuePago)
	fiscalGroup.Get("/cfdi", fiscalHandler.List)
	fiscalGroup.Get("/sales/:id/cfdi", fiscalHandler.ForSale)
	fiscalGroup.Get("/cfdi/:id", fiscalHandler.GetByID)
	fiscalGroup.Get("/cfdi/:id/xml", fiscalHandler.XML)
	fiscalGroup.Post("/cfdi/:id/cancel", fiscalHandler.Cancel)

	// Respaldos
	backups := protected.Group("/backups", RequireRoles(entity.RoleAdmin))
	backupHandler := NewBackupHandler(deps.BackupUC)
	backups.Post("/", backupHandler.Create)
	backups.Get("/", backupHandler.List)
	backups.Post("/:id/verify", backupHandler.Verify)
}
