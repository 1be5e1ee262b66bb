package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     AuthService
	ClientUC   ClientService
	InvoiceUC  InvoiceService
	DocumentUC DocumentService
	DB         Pinger
	AppName    string
	JWTSecret  string
}

// Router registra las rutas de la API.
//
// Permisos por método:
//   - GET              → ROLE_USER, ROLE_ADMIN, ROLE_VIEWER
//   - POST, PUT, PATCH → ROLE_USER, ROLE_ADMIN
//   - DELETE           → ROLE_ADMIN
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/", Home(deps.AppName))
	app.Get("/health", Health(deps.DB))

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	read := RequireRole(entity.RoleUser, entity.RoleAdmin, entity.RoleViewer)
	write := RequireRole(entity.RoleUser, entity.RoleAdmin)
	admin := RequireRole(entity.RoleAdmin)

	// Clients: rutas fijas antes de /:id
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Get("/", read, clientHandler.List)
	clients.Get("/active", read, clientHandler.ListActive)
	clients.Get("/search", read, clientHandler.Search)
	clients.Get("/nit/:nit", read, clientHandler.GetByNIT)
	clients.Get("/:id", read, clientHandler.GetByID)
	clients.Post("/", write, clientHandler.Create)
	clients.Put("/:id", write, clientHandler.Update)
	clients.Delete("/:id/hard", admin, clientHandler.HardDelete)
	clients.Delete("/:id", admin, clientHandler.Deactivate)

	// Invoices: rutas fijas antes de /:id
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.DocumentUC)
	invoices.Get("/", read, invoiceHandler.List)
	invoices.Get("/export.xlsx", read, invoiceHandler.ExportXLSX)
	invoices.Get("/date-range", read, invoiceHandler.ListByDateRange)
	invoices.Get("/number/:numero", read, invoiceHandler.GetByNumber)
	invoices.Get("/client/:clientId", read, invoiceHandler.ListByClient)
	invoices.Get("/status/:status", read, invoiceHandler.ListByStatus)
	invoices.Get("/:id/pdf", read, invoiceHandler.PDF)
	invoices.Get("/:id/xml", read, invoiceHandler.XML)
	invoices.Get("/:id", read, invoiceHandler.GetByID)
	invoices.Post("/", write, invoiceHandler.Create)
	invoices.Patch("/:id/status", write, invoiceHandler.UpdateStatus)
	invoices.Patch("/:id/emit", write, invoiceHandler.Emit)
	invoices.Patch("/:id/cancel", write, invoiceHandler.Cancel)
	invoices.Delete("/:id", admin, invoiceHandler.Delete)
}
