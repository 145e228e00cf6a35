package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Ananth-NQI/loanverse-backend/internal/conversation"
	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
	"github.com/Ananth-NQI/loanverse-backend/internal/logger"
	"github.com/Ananth-NQI/loanverse-backend/internal/metrics"
	"github.com/Ananth-NQI/loanverse-backend/internal/models"
	"github.com/Ananth-NQI/loanverse-backend/internal/observability"
	"github.com/Ananth-NQI/loanverse-backend/internal/storage"
)

const sanctionContentType = "text/html; charset=utf-8"

// TurnResult is what the API returns for one processed message.
type TurnResult struct {
	SessionID    string                 `json:"session_id"`
	Phase        conversation.Phase     `json:"phase"`
	Step         conversation.Step      `json:"step"`
	Outcome      conversation.Outcome   `json:"outcome"`
	Messages     []conversation.Message `json:"messages"`
	HumanHandoff bool                   `json:"human_handoff"`
	SanctionID   string                 `json:"sanction_id,omitempty"`
	Reply        conversation.Reply     `json:"-"`
}

// Texts returns the message bodies in order.
func (r *TurnResult) Texts() []string {
	texts := make([]string, len(r.Messages))
	for i, m := range r.Messages {
		texts[i] = m.Text
	}
	return texts
}

// Text joins the message bodies the way a single chat bubble shows them.
func (r *TurnResult) Text() string {
	return strings.Join(r.Texts(), "\n\n")
}

// ChatService runs conversation turns against persisted sessions.
type ChatService struct {
	orchestrator *conversation.Orchestrator
	sessions     *SessionManager
	store        storage.Store
	sender       MessageSender
	log          logger.Logger
}

// NewChatService wires the orchestrator to session and record storage.
// sender may be nil when WhatsApp delivery is not configured.
func NewChatService(o *conversation.Orchestrator, sessions *SessionManager, store storage.Store, sender MessageSender, log logger.Logger) *ChatService {
	return &ChatService{
		orchestrator: o,
		sessions:     sessions,
		store:        store,
		sender:       sender,
		log:          log,
	}
}

// Start opens a web conversation. purpose may be a loan purpose word such
// as "wedding" to skip purpose discovery.
func (c *ChatService) Start(ctx context.Context, source, purpose string) (*conversation.Session, error) {
	s := c.orchestrator.Start(source, extract.ExtractPurpose(purpose))
	if err := c.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Session returns the current state of a conversation.
func (c *ChatService) Session(ctx context.Context, id string) (*conversation.Session, error) {
	return c.sessions.Load(ctx, id)
}

// EndSession expires a conversation.
func (c *ChatService) EndSession(ctx context.Context, id string) error {
	unlock := c.sessions.Lock(id)
	defer unlock()
	return c.sessions.Expire(ctx, id)
}

// ProcessMessage applies one customer message to a session.
func (c *ChatService) ProcessMessage(ctx context.Context, sessionID, text string) (*TurnResult, error) {
	return c.withSession(ctx, "chat.message", sessionID, func(ctx context.Context, s *conversation.Session) (conversation.Reply, error) {
		return c.orchestrator.HandleTurn(ctx, s, text)
	})
}

// ProcessUpload applies a salary slip upload to a session.
func (c *ChatService) ProcessUpload(ctx context.Context, sessionID, filename string, size int64) (*TurnResult, error) {
	return c.withSession(ctx, "chat.upload", sessionID, func(ctx context.Context, s *conversation.Session) (conversation.Reply, error) {
		return c.orchestrator.HandleUpload(ctx, s, filename, size)
	})
}

// ProcessWhatsApp handles an inbound WhatsApp message. Each number has one
// conversation; a new one starts with the WhatsApp greeting, and the first
// message is only processed when it already introduces the customer.
func (c *ChatService) ProcessWhatsApp(ctx context.Context, from, body string) (*TurnResult, error) {
	phone, ok := extract.NormalizePhone(from)
	if !ok {
		return nil, apperrors.NewInvalidRequestError("unrecognised WhatsApp number: " + from)
	}
	id := WhatsAppSessionID(phone)

	unlock := c.sessions.Lock(id)
	defer unlock()

	s, err := c.sessions.Load(ctx, id)
	switch {
	case err == nil:
		return c.turn(ctx, "whatsapp.message", s, func(ctx context.Context, s *conversation.Session) (conversation.Reply, error) {
			return c.orchestrator.HandleTurn(ctx, s, body)
		})
	case errors.Is(err, apperrors.ErrSessionNotFound), errors.Is(err, apperrors.ErrSessionExpired):
	default:
		return nil, err
	}

	s = c.orchestrator.Start(conversation.SourceWhatsApp, extract.PurposeUnspecified)
	s.ID = id
	s.Channel = conversation.ChannelWhatsApp
	greeting := append([]conversation.Message(nil), s.Messages...)

	if _, named := extract.Name(body); !named {
		if err := c.sessions.Save(ctx, s); err != nil {
			return nil, err
		}
		return &TurnResult{
			SessionID: s.ID,
			Phase:     s.Phase,
			Step:      s.Step,
			Outcome:   conversation.OutcomeAdvanced,
			Messages:  greeting,
		}, nil
	}

	result, err := c.turn(ctx, "whatsapp.message", s, func(ctx context.Context, s *conversation.Session) (conversation.Reply, error) {
		return c.orchestrator.HandleTurn(ctx, s, body)
	})
	if err != nil {
		return nil, err
	}
	result.Messages = append(greeting, result.Messages...)
	return result, nil
}

// Deliver sends each text as its own WhatsApp message. It is a no-op
// without a configured sender.
func (c *ChatService) Deliver(to string, texts ...string) error {
	if c.sender == nil {
		return nil
	}
	for _, text := range texts {
		if err := c.sender.SendWhatsAppMessage(to, text); err != nil {
			return err
		}
	}
	return nil
}

// GetSanction returns a stored sanction letter.
func (c *ChatService) GetSanction(ctx context.Context, loanID string) (*models.SanctionRecord, error) {
	rec, err := c.store.GetSanction(ctx, loanID)
	if errors.Is(err, apperrors.ErrSanctionNotFound) {
		return nil, apperrors.NewSanctionNotFoundError(loanID)
	}
	return rec, err
}

// WhatsAppSessionID is the session id of a WhatsApp number's conversation.
func WhatsAppSessionID(phone string) string {
	return "wa:" + phone
}

type turnFunc func(ctx context.Context, s *conversation.Session) (conversation.Reply, error)

func (c *ChatService) withSession(ctx context.Context, op, sessionID string, fn turnFunc) (*TurnResult, error) {
	unlock := c.sessions.Lock(sessionID)
	defer unlock()

	s, err := c.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return c.turn(ctx, op, s, fn)
}

// turn runs fn and persists the session. A failed turn leaves the stored
// session untouched.
func (c *ChatService) turn(ctx context.Context, op string, s *conversation.Session, fn turnFunc) (*TurnResult, error) {
	ctx, span := observability.Tracer().Start(ctx, op, trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("session.channel", s.Channel),
		attribute.String("session.phase", string(s.Phase)),
	))
	defer span.End()

	start := time.Now()
	from := s.Phase

	reply, err := fn(ctx, s)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Error("Turn failed", map[string]interface{}{"session_id": s.ID, "phase": from, "error": err.Error()})
		return nil, err
	}

	result := &TurnResult{
		SessionID:    s.ID,
		Phase:        reply.Phase,
		Step:         reply.Step,
		Outcome:      reply.Outcome,
		Messages:     reply.Messages,
		HumanHandoff: s.HumanHandoff(),
		Reply:        reply,
	}

	if reply.Sanction != nil {
		rec := sanctionRecord(s, reply.Sanction)
		if err := c.store.SaveSanction(ctx, rec); err != nil {
			span.RecordError(err)
			return nil, err
		}
		result.SanctionID = rec.LoanID
		metrics.SanctionsIssued.Inc()
	}

	if err := c.sessions.Save(ctx, s); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("turn.outcome", string(reply.Outcome)),
		attribute.String("turn.phase", string(reply.Phase)),
	)
	recordTurn(s.Channel, from, reply, time.Since(start))
	return result, nil
}

func recordTurn(channel string, from conversation.Phase, reply conversation.Reply, elapsed time.Duration) {
	metrics.TurnsProcessed.WithLabelValues(channel, string(from)).Inc()
	metrics.TurnDuration.WithLabelValues(channel).Observe(elapsed.Seconds())
	if reply.Phase != from {
		metrics.PhaseTransitions.WithLabelValues(string(from), string(reply.Phase)).Inc()
	}
	if reply.Decision != nil {
		metrics.UnderwritingDecisions.WithLabelValues(string(reply.Decision.Status)).Inc()
	}
	if n := reply.Negotiated; n != nil {
		metrics.NegotiationAttempts.WithLabelValues(string(n.Domain), string(n.Tier)).Inc()
	}
	if reply.Compliance != nil {
		metrics.ComplianceBlocks.WithLabelValues(string(reply.Compliance.Category)).Inc()
	}
	if reply.Outcome == conversation.OutcomeHandoff {
		reason := "keyword"
		if reply.Negotiated != nil {
			reason = "negotiation"
		}
		metrics.HumanHandoffs.WithLabelValues(reason).Inc()
	}
}

func sanctionRecord(s *conversation.Session, sanction *conversation.Sanction) *models.SanctionRecord {
	d := sanction.Details
	return &models.SanctionRecord{
		LoanID:           d.LoanID,
		SessionID:        s.ID,
		Phone:            d.Phone,
		CustomerName:     d.CustomerName,
		Amount:           d.Amount,
		Rate:             d.Rate,
		TenureMonths:     d.TenureMonths,
		EMI:              d.EMI,
		TotalInterest:    d.TotalInterest,
		TotalPayment:     d.TotalPayment,
		ApprovalType:     d.ApprovalType,
		IssuedAt:         d.IssuedAt,
		ValidUntil:       d.ValidUntil(),
		PreApprovedLimit: d.PreApprovedLimit,
		Document:         sanction.Document,
		ContentType:      sanctionContentType,
	}
}
