package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loanverse-backend/internal/affordability"
	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
	"github.com/Ananth-NQI/loanverse-backend/internal/storage"
)

// CustomerHandler exposes pre-approved profiles
type CustomerHandler struct {
	store  storage.Store
	engine *affordability.Engine
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(store storage.Store, policy affordability.Policy) *CustomerHandler {
	return &CustomerHandler{
		store:  store,
		engine: affordability.NewEngine(policy),
	}
}

// GetCustomer looks a profile up by phone number in any common format
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	phone, ok := extract.NormalizePhone(c.Params("phone"))
	if !ok {
		return apperrors.NewInvalidRequestError("phone must be a 10 digit Indian mobile number")
	}

	profile, err := h.store.GetProfileByPhone(c.UserContext(), phone)
	if errors.Is(err, apperrors.ErrProfileNotFound) {
		return apperrors.NewProfileNotFoundError(phone)
	}
	if err != nil {
		return err
	}

	rate := affordability.RiskBasedRate(profile.CreditScore)
	return c.JSON(fiber.Map{
		"profile":      profile,
		"rate":         rate,
		"max_capacity": h.engine.MaxCapacity(*profile, rate),
	})
}
