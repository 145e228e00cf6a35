package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loanverse-backend/internal/conversation"
	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
	"github.com/Ananth-NQI/loanverse-backend/internal/logger"
	"github.com/Ananth-NQI/loanverse-backend/internal/models"
	"github.com/Ananth-NQI/loanverse-backend/internal/services"
	"github.com/Ananth-NQI/loanverse-backend/internal/storage"
)

// AdminHandler handles operator requests
type AdminHandler struct {
	store    storage.Store
	sessions *services.SessionManager
	log      logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store storage.Store, sessions *services.SessionManager, log logger.Logger) *AdminHandler {
	return &AdminHandler{
		store:    store,
		sessions: sessions,
		log:      log,
	}
}

type upsertCustomerRequest struct {
	Phone              string `json:"phone" validate:"required"`
	Name               string `json:"name" validate:"required,max=100"`
	CreditScore        int    `json:"credit_score" validate:"gte=0,lte=900"`
	PreApprovedLimit   int64  `json:"pre_approved_limit" validate:"gte=0"`
	MonthlySalary      int64  `json:"monthly_salary" validate:"gte=0"`
	CurrentEMIs        int64  `json:"current_emis" validate:"gte=0"`
	CurrentLoanDetails string `json:"current_loan_details" validate:"max=200"`
	Employment         string `json:"employment" validate:"max=100"`
	City               string `json:"city" validate:"max=100"`
	Address            string `json:"address" validate:"max=300"`
	PAN                string `json:"pan" validate:"omitempty,len=10,alphanum"`
}

// ListCustomers returns every pre-approved profile
func (h *AdminHandler) ListCustomers(c *fiber.Ctx) error {
	profiles, err := h.store.ListProfiles(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"customers": profiles,
		"count":     len(profiles),
	})
}

// UpsertCustomer creates or replaces a pre-approved profile
func (h *AdminHandler) UpsertCustomer(c *fiber.Ctx) error {
	var req upsertCustomerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	phone, ok := extract.NormalizePhone(req.Phone)
	if !ok {
		return apperrors.NewInvalidRequestError("phone must be a 10 digit Indian mobile number")
	}

	profile := &models.CustomerProfile{
		Phone:              phone,
		Name:               req.Name,
		CreditScore:        req.CreditScore,
		PreApprovedLimit:   req.PreApprovedLimit,
		MonthlySalary:      req.MonthlySalary,
		CurrentEMIs:        req.CurrentEMIs,
		CurrentLoanDetails: req.CurrentLoanDetails,
		Employment:         req.Employment,
		City:               req.City,
		Address:            req.Address,
		PAN:                req.PAN,
	}
	if err := h.store.UpsertProfile(c.UserContext(), profile); err != nil {
		return err
	}

	h.log.Info("Customer profile upserted", map[string]interface{}{"phone": phone})
	return c.JSON(fiber.Map{
		"success":  true,
		"customer": profile,
	})
}

// GetOverview summarises live conversations
func (h *AdminHandler) GetOverview(c *fiber.Ctx) error {
	sessions, err := h.sessions.ActiveSessions(c.UserContext())
	if err != nil {
		return err
	}

	byPhase := make(map[conversation.Phase]int)
	byChannel := make(map[string]int)
	handoffs, sanctioned := 0, 0
	for _, s := range sessions {
		byPhase[s.Phase]++
		byChannel[s.Channel]++
		if s.HumanHandoff() {
			handoffs++
		}
		if s.LoanID != "" {
			sanctioned++
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"overview": fiber.Map{
			"active_sessions": len(sessions),
			"by_phase":        byPhase,
			"by_channel":      byChannel,
			"human_handoffs":  handoffs,
			"sanctioned":      sanctioned,
			"last_updated":    time.Now(),
		},
	})
}

// GetHandoffs lists conversations waiting for an advisor
func (h *AdminHandler) GetHandoffs(c *fiber.Ctx) error {
	sessions, err := h.sessions.ActiveSessions(c.UserContext())
	if err != nil {
		return err
	}

	handoffs := make([]fiber.Map, 0)
	for _, s := range sessions {
		if !s.HumanHandoff() {
			continue
		}
		entry := fiber.Map{
			"session_id": s.ID,
			"customer":   s.CustomerName(),
			"channel":    s.Channel,
			"phase":      s.Phase,
			"domain":     s.Negotiation.Domain(),
			"updated_at": s.UpdatedAt,
		}
		if s.Entities.Phone != nil {
			entry["phone"] = *s.Entities.Phone
		}
		handoffs = append(handoffs, entry)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"handoffs": handoffs,
		"count":    len(handoffs),
	})
}
