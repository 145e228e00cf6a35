// Package conversation drives a loan application through its seven phases,
// one customer message at a time.
package conversation

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ananth-NQI/loanverse-backend/internal/affordability"
	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
	"github.com/Ananth-NQI/loanverse-backend/internal/models"
	"github.com/Ananth-NQI/loanverse-backend/internal/negotiation"
	"github.com/Ananth-NQI/loanverse-backend/internal/underwriting"
)

// Phase is the coarse position of a conversation.
type Phase string

const (
	PhaseWarmOpening      Phase = "warm_opening"
	PhasePurposeDiscovery Phase = "purpose_discovery"
	PhaseVerification     Phase = "verification"
	PhaseNeedsAnalysis    Phase = "needs_analysis"
	PhaseOptions          Phase = "options_presentation"
	PhaseConfirmation     Phase = "confirmation"
	PhaseDocumentation    Phase = "documentation"
)

// Number is the 1-based position shown to operators.
func (p Phase) Number() int {
	switch p {
	case PhaseWarmOpening:
		return 1
	case PhasePurposeDiscovery:
		return 2
	case PhaseVerification:
		return 3
	case PhaseNeedsAnalysis:
		return 4
	case PhaseOptions:
		return 5
	case PhaseConfirmation:
		return 6
	case PhaseDocumentation:
		return 7
	default:
		return 0
	}
}

// Step is the sub-state inside a phase. Only one step is current at a time.
type Step string

const (
	StepNone Step = ""

	// verification
	StepAwaitPhone       Step = "await_phone"
	StepNewCustomerQuery Step = "new_customer_query"
	StepIdentityMismatch Step = "identity_mismatch"

	// needs analysis
	StepNormal                 Step = "normal"
	StepAwaitingRenegotiation  Step = "awaiting_renegotiation"
	StepRenegotiationConfirmed Step = "awaiting_renegotiation_confirmed"
	StepPathSelection          Step = "path_selection"

	// options
	StepSelecting           Step = "selecting"
	StepAwaitingSalarySlip  Step = "awaiting_salary_slip"
	StepAwaitingSlipConfirm Step = "awaiting_slip_confirm"
	StepTenureCounterOffer  Step = "tenure_counter_offer"
)

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Entities are the facts collected from the customer. A nil field has not
// been provided yet.
type Entities struct {
	Name            *string          `json:"name,omitempty"`
	Phone           *string          `json:"phone,omitempty"`
	Purpose         *extract.Purpose `json:"purpose,omitempty"`
	RequestedAmount *int64           `json:"requested_amount,omitempty"`
	Option          *int             `json:"option,omitempty"`
	TenureMonths    *int             `json:"tenure_months,omitempty"`
}

// Selection is the plan the customer picked.
type Selection struct {
	Option        int     `json:"option"` // 0 for a custom tenure
	Label         string  `json:"label"`
	Amount        int64   `json:"amount"`
	Rate          float64 `json:"rate"`
	TenureMonths  int     `json:"tenure_months"`
	EMI           int64   `json:"emi"`
	TotalInterest int64   `json:"total_interest"`
	TotalPayment  int64   `json:"total_payment"`
}

// Session is the complete, serializable state of one conversation.
type Session struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Channel string `json:"channel"`

	Phase Phase `json:"phase"`
	Step  Step  `json:"step"`

	Entities         Entities         `json:"entities"`
	PrefilledPurpose *extract.Purpose `json:"prefilled_purpose,omitempty"`

	Verified     bool                    `json:"verified"`
	ConsentGiven bool                    `json:"consent_given"`
	Profile      *models.CustomerProfile `json:"profile,omitempty"`
	// PendingProfile is held while the customer confirms a name mismatch.
	PendingProfile *models.CustomerProfile `json:"pending_profile,omitempty"`

	Rate          float64                `json:"rate,omitempty"`
	SafeAmount    *int64                 `json:"safe_amount,omitempty"`
	Decision      *underwriting.Decision `json:"decision,omitempty"`
	ApprovalType  string                 `json:"approval_type,omitempty"`
	SalaryChecked bool                   `json:"salary_checked"`
	Plans         *affordability.PlanSet `json:"plans,omitempty"`
	Selection     *Selection             `json:"selection,omitempty"`
	PendingTenure *int                   `json:"pending_tenure,omitempty"`

	Negotiation      negotiation.State `json:"negotiation"`
	HandoffRequested bool              `json:"handoff_requested"`

	LoanID       string `json:"loan_id,omitempty"`
	FollowUpSent bool   `json:"follow_up_sent"`

	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates an empty session in the warm opening phase.
func NewSession(source, channel string, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Source:    source,
		Channel:   channel,
		Phase:     PhaseWarmOpening,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HumanHandoff reports whether the customer has been handed to an advisor,
// either by asking for one or by exhausting negotiation.
func (s *Session) HumanHandoff() bool {
	return s.HandoffRequested || s.Negotiation.HandedOff()
}

// CustomerName prefers the verified profile name over the introduced one.
func (s *Session) CustomerName() string {
	if s.Profile != nil && s.Profile.Name != "" {
		return s.Profile.Name
	}
	if s.Entities.Name != nil {
		return *s.Entities.Name
	}
	return ""
}

// PurposeLabel is the display form of the collected purpose.
func (s *Session) PurposeLabel() string {
	if s.Entities.Purpose == nil {
		return "personal needs"
	}
	return s.Entities.Purpose.Label()
}

// Awaiting reports whether the conversation is waiting on a decision from the
// customer that a reminder could nudge.
func (s *Session) Awaiting() bool {
	switch s.Phase {
	case PhaseOptions, PhaseConfirmation:
		return true
	case PhaseNeedsAnalysis:
		return s.Step == StepAwaitingRenegotiation || s.Step == StepRenegotiationConfirmed
	default:
		return false
	}
}

// FollowUp records a one-time reminder for an idle conversation and returns
// its text. It returns false when a reminder was already sent or nothing is
// pending.
func (s *Session) FollowUp(now time.Time) (string, bool) {
	if s.FollowUpSent || !s.Awaiting() {
		return "", false
	}
	text := followUpMessage(s)
	s.record(RoleAssistant, text, now)
	s.FollowUpSent = true
	return text, true
}

func (s *Session) moveTo(phase Phase, step Step) {
	s.Phase = phase
	s.Step = step
}

func (s *Session) setRequested(amount int64) {
	if s.Entities.RequestedAmount != nil && *s.Entities.RequestedAmount == amount {
		return
	}
	s.Entities.RequestedAmount = ptr(amount)
	if s.Plans != nil && s.Plans.Amount != amount {
		s.Plans = nil
	}
	s.Selection = nil
}

func (s *Session) requested() int64 {
	if s.Entities.RequestedAmount == nil {
		return 0
	}
	return *s.Entities.RequestedAmount
}

func (s *Session) record(role Role, text string, at time.Time) {
	s.Messages = append(s.Messages, Message{Role: role, Text: text, Timestamp: at})
	s.UpdatedAt = at
}

func ptr[T any](v T) *T {
	return &v
}
