package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sistema-comercial/internal/application/auth"
	"github.com/jhoicas/sistema-comercial/internal/application/catalog"
	"github.com/jhoicas/sistema-comercial/internal/application/commercial"
	"github.com/jhoicas/sistema-comercial/internal/application/finance"
	"github.com/jhoicas/sistema-comercial/internal/application/inventory"
)

// Perfiles usados en las rutas.
const (
	roleAdmin      = "ADMINISTRADOR"
	roleFinance    = "FINANCIERO"
	roleSales      = "VENTAS"
	rolePurchasing = "COMPRAS"
	roleStock      = "INVENTARIO"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	Products         *catalog.CatalogLookup
	Parties          *catalog.PartyLookup
	ProductUC        *catalog.ProductUseCase
	PartyUC          *catalog.PartyUseCase
	OrderUC          *commercial.OrderUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	LedgerUC         *finance.LedgerUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Post("/operators", RequireRole(roleAdmin), authHandler.CreateOperator)

	catalogHandler := NewCatalogHandler(deps.Products, deps.Parties, deps.ProductUC, deps.PartyUC)
	protected.Get("/products", catalogHandler.SearchProducts)
	protected.Post("/products", RequireRole(roleStock, rolePurchasing), catalogHandler.CreateProduct)
	protected.Put("/products/:id", RequireRole(roleStock, rolePurchasing), catalogHandler.UpdateProduct)
	protected.Get("/parties", catalogHandler.ListParties)
	protected.Post("/parties", RequireRole(roleSales, rolePurchasing, roleFinance), catalogHandler.CreateParty)
	protected.Put("/parties/:id", RequireRole(roleSales, rolePurchasing, roleFinance), catalogHandler.UpdateParty)

	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/validate", RequireRole(roleSales, rolePurchasing), orderHandler.Validate)
	orders.Post("/sales", RequireRole(roleSales), orderHandler.CreateSale)
	orders.Post("/purchases", RequireRole(rolePurchasing), orderHandler.CreatePurchase)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/receipt", orderHandler.Receipt)

	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	invGroup.Post("/movements", RequireRole(roleStock, rolePurchasing), inventoryHandler.RegisterMovement)
	invGroup.Get("/products/:id/movements", inventoryHandler.ListByProduct)

	ledger := protected.Group("/ledger", RequireRole(roleFinance))
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	ledger.Get("/", ledgerHandler.List)
	ledger.Post("/:id/settle", ledgerHandler.Settle)
	ledger.Post("/:id/cancel", ledgerHandler.Cancel)
}
