package handlers

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
	"github.com/Ananth-NQI/loanverse-backend/internal/logger"
	"github.com/Ananth-NQI/loanverse-backend/internal/services"
)

// whatsAppFailureMessage tells the customer why their message was not
// processed. Only infrastructure failures and unreadable numbers get here.
func whatsAppFailureMessage(err error) string {
	if se, ok := apperrors.AsStandard(err); ok && se.Code == apperrors.ErrCodeInvalidRequest {
		return "❌ I couldn't read your WhatsApp number, so I can't open a loan application for it. " +
			"Please message us from an Indian (+91) mobile number."
	}
	return "⚠️ Our loan service is temporarily unavailable, so I couldn't process your last message. " +
		"Your progress so far is kept. Please send it again in a few minutes."
}

// WhatsAppHandler handles WhatsApp webhook requests
type WhatsAppHandler struct {
	chat *services.ChatService
	log  logger.Logger
}

// NewWhatsAppHandler creates a new WhatsApp handler
func NewWhatsAppHandler(chat *services.ChatService, log logger.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{
		chat: chat,
		log:  log,
	}
}

// TwilioWebhookPayload represents incoming WhatsApp message from Twilio
type TwilioWebhookPayload struct {
	MessageSid          string `form:"MessageSid"`
	AccountSid          string `form:"AccountSid"`
	MessagingServiceSid string `form:"MessagingServiceSid"`
	From                string `form:"From"` // WhatsApp number (whatsapp:+919876543210)
	To                  string `form:"To"`   // Your Twilio number
	Body                string `form:"Body"` // Message text
	NumMedia            string `form:"NumMedia"`
	MediaUrl0           string `form:"MediaUrl0"`
	MediaContentType0   string `form:"MediaContentType0"`
}

// HandleWebhook processes incoming WhatsApp messages
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	// Twilio sends different payloads for different events
	var payload TwilioWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		h.log.Warn("Invalid webhook payload", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	// Process only incoming messages (not status updates)
	if payload.Body == "" || payload.From == "" {
		return c.SendStatus(fiber.StatusOK)
	}

	h.log.Info("WhatsApp message received", map[string]interface{}{
		"from":        payload.From,
		"message_sid": payload.MessageSid,
	})

	var texts []string
	result, err := h.chat.ProcessWhatsApp(c.UserContext(), payload.From, payload.Body)
	if err != nil {
		h.log.Error("Error processing message", map[string]interface{}{"from": payload.From, "error": err.Error()})
		texts = []string{whatsAppFailureMessage(err)}
	} else {
		texts = result.Texts()
	}

	// Send the response back via Twilio
	if err := h.chat.Deliver(payload.From, texts...); err != nil {
		h.log.Error("Failed to send WhatsApp response", map[string]interface{}{"to": payload.From, "error": err.Error()})
	}

	// Acknowledge webhook receipt
	return c.SendStatus(fiber.StatusOK)
}

// TestWebhookPayload is for testing without Twilio
type TestWebhookPayload struct {
	From    string `json:"from" validate:"required"`
	Message string `json:"message" validate:"required,max=2000"`
}

// HandleTestWebhook processes test WhatsApp messages (for development)
func (h *WhatsAppHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload
	if err := parseBody(c, &payload); err != nil {
		return err
	}

	result, err := h.chat.ProcessWhatsApp(c.UserContext(), payload.From, payload.Message)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"response":   result.Text(),
		"session_id": result.SessionID,
		"phase":      result.Phase,
	})
}
