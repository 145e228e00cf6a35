package handlers

import "github.com/gofiber/fiber/v2"

// HealthHandler handles health check requests
type HealthHandler struct {
	AppName string
	Version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(appName, version string) *HealthHandler {
	return &HealthHandler{
		AppName: appName,
		Version: version,
	}
}

// Root lists the public endpoints
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome to " + h.AppName + "!",
		"version": h.Version,
		"endpoints": fiber.Map{
			"health":        "/health",
			"metrics":       "/metrics",
			"sessions":      "/api/sessions",
			"customers":     "/api/customers/:phone",
			"sanctions":     "/api/sanctions/:loanId",
			"webhook":       "/webhook/whatsapp",
			"test_whatsapp": "/test/whatsapp",
		},
	})
}

// Check returns the health status of the service
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "OK",
		"service": h.AppName,
		"version": h.Version,
	})
}
