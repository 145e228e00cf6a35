package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loanverse-backend/internal/conversation"
	"github.com/Ananth-NQI/loanverse-backend/internal/services"
)

var funnelPhases = []conversation.Phase{
	conversation.PhaseWarmOpening,
	conversation.PhasePurposeDiscovery,
	conversation.PhaseVerification,
	conversation.PhaseNeedsAnalysis,
	conversation.PhaseOptions,
	conversation.PhaseConfirmation,
	conversation.PhaseDocumentation,
}

type AnalyticsHandler struct {
	sessions *services.SessionManager
}

func NewAnalyticsHandler(sessions *services.SessionManager) *AnalyticsHandler {
	return &AnalyticsHandler{
		sessions: sessions,
	}
}

// GetFunnel counts live conversations that reached each phase.
func (h *AnalyticsHandler) GetFunnel(c *fiber.Ctx) error {
	sessions, err := h.sessions.ActiveSessions(c.UserContext())
	if err != nil {
		return err
	}

	reached := make([]int, len(funnelPhases))
	for _, s := range sessions {
		for i := 0; i < s.Phase.Number() && i < len(reached); i++ {
			reached[i]++
		}
	}

	stages := make([]fiber.Map, len(funnelPhases))
	for i, p := range funnelPhases {
		stages[i] = fiber.Map{
			"phase":   p,
			"number":  p.Number(),
			"reached": reached[i],
		}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"total":   len(sessions),
		"funnel":  stages,
	})
}
