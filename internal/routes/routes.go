package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ananth-NQI/loanverse-backend/internal/affordability"
	"github.com/Ananth-NQI/loanverse-backend/internal/config"
	"github.com/Ananth-NQI/loanverse-backend/internal/handlers"
	"github.com/Ananth-NQI/loanverse-backend/internal/logger"
	"github.com/Ananth-NQI/loanverse-backend/internal/middleware"
	"github.com/Ananth-NQI/loanverse-backend/internal/services"
	"github.com/Ananth-NQI/loanverse-backend/internal/storage"
)

// Deps are the services the routes are served from.
type Deps struct {
	Config   *config.Config
	Chat     *services.ChatService
	Sessions *services.SessionManager
	Store    storage.Store
	Logger   logger.Logger
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, d Deps) {
	cfg := d.Config

	health := handlers.NewHealthHandler(cfg.Server.AppName, cfg.Server.Version)
	app.Get("/", health.Root)
	app.Get("/health", health.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes
	api := app.Group("/api")

	sessions := handlers.NewSessionHandler(d.Chat)
	sg := api.Group("/sessions")
	sg.Post("/", sessions.Start)
	sg.Get("/:id", sessions.GetSession)
	sg.Delete("/:id", sessions.EndSession)
	sg.Post("/:id/messages", sessions.SendMessage)
	sg.Post("/:id/documents", sessions.UploadDocument)

	customers := handlers.NewCustomerHandler(d.Store, affordability.PolicyFromConfig(cfg.Lending))
	api.Get("/customers/:phone", customers.GetCustomer)

	sanctions := handlers.NewSanctionHandler(d.Chat)
	api.Get("/sanctions/:loanId", sanctions.GetSanction)

	analytics := handlers.NewAnalyticsHandler(d.Sessions)
	api.Get("/analytics/funnel", analytics.GetFunnel)

	// ========== WEBHOOK ROUTES ==========
	whatsapp := handlers.NewWhatsAppHandler(d.Chat, d.Logger)
	webhooks := app.Group("/webhook")
	if cfg.Twilio.ValidateWebhook {
		webhooks.Post("/whatsapp", middleware.ValidateTwilioSignature(cfg.Twilio.AuthToken, d.Logger), whatsapp.HandleWebhook)
	} else {
		d.Logger.Warn("WhatsApp webhook signature validation disabled", map[string]interface{}{
			"environment": cfg.Server.Environment,
		})
		webhooks.Post("/whatsapp", whatsapp.HandleWebhook)
	}

	// ========== TEST ROUTES (Development Only) ==========
	if cfg.Server.Environment != "production" {
		app.Post("/test/whatsapp", whatsapp.HandleTestWebhook)
	}

	// ========== ADMIN ROUTES ==========
	admin := handlers.NewAdminHandler(d.Store, d.Sessions, d.Logger)
	ag := app.Group("/admin", middleware.RequireAdminToken(cfg.Server.AdminToken))
	ag.Get("/overview", admin.GetOverview)
	ag.Get("/handoffs", admin.GetHandoffs)
	ag.Get("/customers", admin.ListCustomers)
	ag.Post("/customers", admin.UpsertCustomer)
}
