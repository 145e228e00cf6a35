package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/twilio/twilio-go/client"

	"github.com/Ananth-NQI/loanverse-backend/internal/logger"
)

// ValidateTwilioSignature validates that the webhook request is from Twilio
func ValidateTwilioSignature(authToken string, log logger.Logger) fiber.Handler {
	validator := client.NewRequestValidator(authToken)

	return func(c *fiber.Ctx) error {
		// Get Twilio signature from header
		twilioSignature := c.Get("X-Twilio-Signature")
		if twilioSignature == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing Twilio signature",
			})
		}

		if authToken == "" {
			// Log error but don't expose to client
			log.Error("Twilio auth token not configured", nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Server configuration error",
			})
		}

		// Get all form parameters
		formParams := make(map[string]string)
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			formParams[string(key)] = string(value)
		})

		if !validator.Validate(fullURL(c), formParams, twilioSignature) {
			log.Warn("Rejected webhook with invalid signature", map[string]interface{}{
				"path": c.Path(),
				"ip":   c.IP(),
			})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid signature",
			})
		}

		return c.Next()
	}
}

// fullURL is the URL Twilio signed: scheme, host, path and query.
func fullURL(c *fiber.Ctx) string {
	return c.BaseURL() + c.OriginalURL()
}
