package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loanverse-backend/internal/conversation"
	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
	"github.com/Ananth-NQI/loanverse-backend/internal/services"
)

// SessionHandler handles the web chat API
type SessionHandler struct {
	chat *services.ChatService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(chat *services.ChatService) *SessionHandler {
	return &SessionHandler{chat: chat}
}

type startSessionRequest struct {
	Source  string `json:"source" validate:"omitempty,max=64"`
	Purpose string `json:"purpose" validate:"omitempty,max=64"`
}

type messageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// sessionView is the public snapshot of a conversation.
type sessionView struct {
	SessionID    string                 `json:"session_id"`
	Source       string                 `json:"source"`
	Channel      string                 `json:"channel"`
	Phase        conversation.Phase     `json:"phase"`
	PhaseNumber  int                    `json:"phase_number"`
	Step         conversation.Step      `json:"step"`
	Entities     conversation.Entities  `json:"entities"`
	Verified     bool                   `json:"verified"`
	HumanHandoff bool                   `json:"human_handoff"`
	LoanID       string                 `json:"loan_id,omitempty"`
	Messages     []conversation.Message `json:"messages"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

func newSessionView(s *conversation.Session) sessionView {
	return sessionView{
		SessionID:    s.ID,
		Source:       s.Source,
		Channel:      s.Channel,
		Phase:        s.Phase,
		PhaseNumber:  s.Phase.Number(),
		Step:         s.Step,
		Entities:     s.Entities,
		Verified:     s.Verified,
		HumanHandoff: s.HumanHandoff(),
		LoanID:       s.LoanID,
		Messages:     s.Messages,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// Start opens a new conversation with the greeting for its traffic source
func (h *SessionHandler) Start(c *fiber.Ctx) error {
	var req startSessionRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}

	s, err := h.chat.Start(c.UserContext(), req.Source, req.Purpose)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id": s.ID,
		"phase":      s.Phase,
		"messages":   s.Messages,
	})
}

// SendMessage applies one customer message
func (h *SessionHandler) SendMessage(c *fiber.Ctx) error {
	var req messageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.chat.ProcessMessage(c.UserContext(), c.Params("id"), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// UploadDocument accepts a salary slip. Only the file name and size are
// inspected; the content is never stored.
func (h *SessionHandler) UploadDocument(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewInvalidRequestError("multipart field 'file' is required")
	}

	result, err := h.chat.ProcessUpload(c.UserContext(), c.Params("id"), file.Filename, file.Size)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetSession returns the conversation snapshot
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	s, err := h.chat.Session(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(newSessionView(s))
}

// EndSession expires a conversation
func (h *SessionHandler) EndSession(c *fiber.Ctx) error {
	if err := h.chat.EndSession(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
