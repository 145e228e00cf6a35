package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/Ananth-NQI/loanverse-backend/internal/affordability"
	"github.com/Ananth-NQI/loanverse-backend/internal/compliance"
	"github.com/Ananth-NQI/loanverse-backend/internal/documents"
	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
	"github.com/Ananth-NQI/loanverse-backend/internal/logger"
	"github.com/Ananth-NQI/loanverse-backend/internal/negotiation"
	"github.com/Ananth-NQI/loanverse-backend/internal/underwriting"
)

// Outcome summarises what a turn did, for logs and metrics.
type Outcome string

const (
	OutcomeAdvanced        Outcome = "advanced"
	OutcomeReprompt        Outcome = "reprompt"
	OutcomeComplianceBlock Outcome = "compliance_block"
	OutcomeHandoff         Outcome = "handoff"
	OutcomeNegotiation     Outcome = "negotiation"
	OutcomeRejected        Outcome = "rejected"
	OutcomeSanctioned      Outcome = "sanctioned"
	OutcomeInfo            Outcome = "info"
)

// Sanction is a letter generated when the customer confirms.
type Sanction struct {
	Details  documents.LoanDetails
	Document []byte
}

// Reply is everything a turn produced.
type Reply struct {
	Messages   []Message              `json:"messages"`
	Phase      Phase                  `json:"phase"`
	Step       Step                   `json:"step"`
	Outcome    Outcome                `json:"outcome"`
	Compliance *compliance.Verdict    `json:"compliance,omitempty"`
	Handoff    *negotiation.Handoff   `json:"handoff,omitempty"`
	Negotiated *negotiation.Response  `json:"negotiation,omitempty"`
	Decision   *underwriting.Decision `json:"decision,omitempty"`
	Slip       *documents.SlipCheck   `json:"slip,omitempty"`
	Sanction   *Sanction              `json:"-"`
}

// Texts returns the reply bodies in order.
func (r Reply) Texts() []string {
	out := make([]string, len(r.Messages))
	for i, m := range r.Messages {
		out[i] = m.Text
	}
	return out
}

// Text joins the reply bodies with blank lines.
func (r Reply) Text() string {
	return strings.Join(r.Texts(), "\n\n")
}

// Deps are the collaborators an Orchestrator needs.
type Deps struct {
	Profiles  underwriting.ProfileLookup
	Extractor *extract.Extractor
	Policy    affordability.Policy
	Advisor   negotiation.Contact
	Sanctions *documents.SanctionGenerator
	Logger    logger.Logger
	Clock     func() time.Time
}

// Orchestrator routes each message to the handler of the session's phase.
// It holds no per-conversation state; everything lives in the Session.
type Orchestrator struct {
	profiles    underwriting.ProfileLookup
	extractor   *extract.Extractor
	policy      affordability.Policy
	afford      *affordability.Engine
	underwriter *underwriting.Engine
	bureau      *underwriting.Bureau
	negotiator  *negotiation.Engine
	guardrail   *compliance.Guardrail
	sanctions   *documents.SanctionGenerator
	log         logger.Logger
	now         func() time.Time
}

// NewOrchestrator builds the decision engines around a profile source.
func NewOrchestrator(deps Deps) (*Orchestrator, error) {
	if deps.Extractor == nil {
		deps.Extractor = extract.NewExtractor(0, 0)
	}
	if deps.Policy == (affordability.Policy{}) {
		deps.Policy = affordability.DefaultPolicy()
	}
	if deps.Sanctions == nil {
		gen, err := documents.NewSanctionGenerator()
		if err != nil {
			return nil, err
		}
		deps.Sanctions = gen
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	return &Orchestrator{
		profiles:    deps.Profiles,
		extractor:   deps.Extractor,
		policy:      deps.Policy,
		afford:      affordability.NewEngine(deps.Policy),
		underwriter: underwriting.NewEngine(deps.Profiles, deps.Policy),
		bureau:      underwriting.NewBureau(deps.Profiles),
		negotiator:  negotiation.NewEngine(deps.Advisor),
		guardrail:   compliance.NewGuardrail(),
		sanctions:   deps.Sanctions,
		log:         deps.Logger,
		now:         deps.Clock,
	}, nil
}

// turn accumulates one reply while a handler runs.
type turn struct {
	s     *Session
	reply Reply
	now   time.Time
}

func (t *turn) say(text string) {
	t.s.record(RoleAssistant, text, t.now)
	t.reply.Messages = append(t.reply.Messages, Message{Role: RoleAssistant, Text: text, Timestamp: t.now})
}

func (t *turn) respond(outcome Outcome, text string) {
	t.reply.Outcome = outcome
	t.say(text)
}

func (o *Orchestrator) begin(s *Session) *turn {
	return &turn{s: s, now: o.now(), reply: Reply{Outcome: OutcomeAdvanced}}
}

func (o *Orchestrator) finish(t *turn) Reply {
	t.reply.Phase = t.s.Phase
	t.reply.Step = t.s.Step

	fields := map[string]interface{}{
		"session_id": t.s.ID,
		"phase":      t.s.Phase,
		"step":       t.s.Step,
		"outcome":    t.reply.Outcome,
	}
	switch t.reply.Outcome {
	case OutcomeComplianceBlock, OutcomeHandoff:
		o.log.Warn("Turn escalated", fields)
	default:
		o.log.Debug("Turn processed", fields)
	}
	return t.reply
}

// HandleTurn applies one customer message to the session. Errors are
// returned only when a collaborator fails; every business outcome is a reply.
func (o *Orchestrator) HandleTurn(ctx context.Context, s *Session, text string) (Reply, error) {
	t := o.begin(s)
	text = strings.TrimSpace(text)
	s.record(RoleUser, text, t.now)

	if verdict, blocked := o.guardrail.Check(text); blocked {
		t.reply.Compliance = &verdict
		t.respond(OutcomeComplianceBlock, verdict.Message)
		return o.finish(t), nil
	}

	if s.Phase != PhaseWarmOpening && handoffWords.Match(text) {
		h := o.negotiator.Handoff(s.CustomerName())
		s.HandoffRequested = true
		t.reply.Handoff = &h
		t.respond(OutcomeHandoff, h.Text)
		return o.finish(t), nil
	}

	var err error
	switch s.Phase {
	case PhaseWarmOpening:
		o.warmOpening(t, text)
	case PhasePurposeDiscovery:
		o.purposeDiscovery(t, text)
	case PhaseVerification:
		err = o.verification(ctx, t, text)
	case PhaseNeedsAnalysis:
		err = o.needsAnalysis(ctx, t, text)
	case PhaseOptions:
		err = o.options(ctx, t, text)
	case PhaseConfirmation:
		err = o.confirmation(t, text)
	case PhaseDocumentation:
		o.documentation(t, text)
	default:
		s.moveTo(PhaseWarmOpening, StepNone)
		t.respond(OutcomeReprompt, fallbackMessage())
	}
	if err != nil {
		return Reply{}, err
	}
	return o.finish(t), nil
}

// HandleUpload processes a salary slip upload. Only metadata is inspected.
func (o *Orchestrator) HandleUpload(ctx context.Context, s *Session, filename string, size int64) (Reply, error) {
	t := o.begin(s)
	s.record(RoleUser, "📎 "+filename, t.now)

	if s.Phase != PhaseOptions || (s.Step != StepAwaitingSalarySlip && s.Step != StepAwaitingSlipConfirm) {
		t.respond(OutcomeInfo, unexpectedUploadMessage())
		return o.finish(t), nil
	}

	check := documents.ValidateSalarySlip(filename, size)
	t.reply.Slip = &check
	report := documents.RenderReport(check.Lines())

	switch check.Outcome() {
	case documents.SlipRejected:
		s.Step = StepAwaitingSalarySlip
		t.respond(OutcomeReprompt, report+"\n\n"+slipRejectedMessage())
		return o.finish(t), nil
	case documents.SlipNeedsConfirmation:
		s.Step = StepAwaitingSlipConfirm
		t.respond(OutcomeReprompt, report+"\n\n"+slipConfirmMessage(filename))
		return o.finish(t), nil
	}

	t.say(report)
	o.verifySalary(t)
	return o.finish(t), nil
}

var handoffWords = extract.NewWordSet(
	"human", "agent", "real person", "customer care", "talk to a person", "executive",
)
