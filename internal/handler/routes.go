package handler

import (
	"go-inventory-crm/internal/middleware"
	"go-inventory-crm/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Auth        *AuthHandler
	Inventory   *InventoryHandler
	Customer    *CustomerHandler
	Sales       *SalesHandler
	Maintenance *MaintenanceHandler
	Dashboard   *DashboardHandler
}

// RouteOptions carries the cross-cutting pieces the routes need.
type RouteOptions struct {
	Tokens     middleware.TokenValidator
	LoginLimit fiber.Handler
	Hub        *ws.Hub
}

func RegisterRoutes(app *fiber.App, h *Handlers, opts RouteOptions) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	if opts.LoginLimit != nil {
		auth.Post("/login", opts.LoginLimit, h.Auth.Login)
	} else {
		auth.Post("/login", h.Auth.Login)
	}

	// ============ PROTECTED ROUTES ============
	requireAuth := middleware.RequireAuth(opts.Tokens)
	protected := api.Group("", requireAuth)

	protected.Get("/auth/me", h.Auth.Me)

	protected.Get("/dashboard/stats", h.Dashboard.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", h.Dashboard.GetStockMovement)

	protected.Get("/products", h.Inventory.GetProducts)
	protected.Post("/products", h.Inventory.CreateProduct)
	protected.Get("/products/:id", h.Inventory.GetProduct)
	protected.Get("/inventory", h.Inventory.GetInventory)

	protected.Get("/stock-in", h.Inventory.GetStockIns)
	protected.Post("/stock-in", h.Inventory.CreateStockIn)

	protected.Get("/customers", h.Customer.GetCustomers)
	protected.Post("/customers", h.Customer.CreateCustomer)

	protected.Get("/sales", h.Sales.GetSales)
	protected.Post("/sales", h.Sales.CreateSale)
	protected.Get("/sales/:orderNo", h.Sales.GetSale)

	protected.Get("/maintenance", h.Maintenance.GetMaintenance)
	protected.Post("/maintenance", h.Maintenance.CreateMaintenance)

	if opts.Hub == nil {
		return
	}
	// WebSocket feed for the dashboard
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	}, requireAuth)
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		opts.Hub.Register <- c
		defer func() { opts.Hub.Unregister <- c }()

		for {
			// keep-alive; clients only listen
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
