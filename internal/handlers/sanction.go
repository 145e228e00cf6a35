package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loanverse-backend/internal/services"
)

// SanctionHandler serves issued sanction letters
type SanctionHandler struct {
	chat *services.ChatService
}

// NewSanctionHandler creates a new sanction handler
func NewSanctionHandler(chat *services.ChatService) *SanctionHandler {
	return &SanctionHandler{chat: chat}
}

// GetSanction returns the rendered letter
func (h *SanctionHandler) GetSanction(c *fiber.Ctx) error {
	rec, err := h.chat.GetSanction(c.UserContext(), c.Params("loanId"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, rec.ContentType)
	c.Set("X-Loan-ID", rec.LoanID)
	c.Set("X-Valid-Until", rec.ValidUntil.Format("2006-01-02"))
	return c.Send(rec.Document)
}
