package conversation

import (
	"fmt"

	"github.com/Ananth-NQI/loanverse-backend/internal/documents"
	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
	"github.com/Ananth-NQI/loanverse-backend/internal/underwriting"
	"github.com/Ananth-NQI/loanverse-backend/internal/utils"
)

func (o *Orchestrator) confirmation(t *turn, text string) error {
	s := t.s
	if s.Selection == nil || s.Profile == nil {
		s.moveTo(PhaseOptions, StepSelecting)
		t.respond(OutcomeReprompt, backToOptionsMessage(s.Plans))
		return nil
	}

	switch {
	case confirmNo.Match(text):
		s.Selection = nil
		s.moveTo(PhaseOptions, StepSelecting)
		t.respond(OutcomeAdvanced, backToOptionsMessage(s.Plans))
		return nil
	case confirmYes.Match(text):
		return o.issueSanction(t)
	}

	t.respond(OutcomeReprompt, confirmPromptMessage(*s.Selection))
	return nil
}

// issueSanction renders the sanction letter for the confirmed selection.
func (o *Orchestrator) issueSanction(t *turn) error {
	s := t.s
	p := *s.Profile
	sel := *s.Selection

	approval := s.ApprovalType
	if approval == "" {
		approval = string(underwriting.ApprovalInstant)
	}
	details := documents.LoanDetails{
		LoanID:           utils.LoanID(p.Phone, t.now),
		CustomerName:     p.Name,
		Phone:            p.Phone,
		Address:          p.Address,
		PAN:              p.PAN,
		Employment:       p.Employment,
		City:             p.City,
		CreditScore:      p.CreditScore,
		PreApprovedLimit: p.PreApprovedLimit,
		Amount:           sel.Amount,
		Rate:             sel.Rate,
		TenureMonths:     sel.TenureMonths,
		EMI:              sel.EMI,
		TotalInterest:    sel.TotalInterest,
		TotalPayment:     sel.TotalPayment,
		ApprovalType:     approval,
		IssuedAt:         t.now,
	}

	letter, err := o.sanctions.Generate(details)
	if err != nil {
		return fmt.Errorf("generate sanction letter: %w", err)
	}

	s.LoanID = details.LoanID
	s.ApprovalType = approval
	s.Negotiation.Close()
	s.moveTo(PhaseDocumentation, StepNone)
	t.reply.Sanction = &Sanction{Details: details, Document: letter}
	t.respond(OutcomeSanctioned, sanctionSuccessMessage(details.LoanID, sel.Amount, details.ValidUntil().Format("02 January 2006")))

	o.log.Info("Sanction issued", map[string]interface{}{
		"session_id": s.ID,
		"loan_id":    details.LoanID,
		"amount":     sel.Amount,
		"tenure":     sel.TenureMonths,
		"approval":   approval,
	})
	return nil
}

// documentation answers post-sanction questions.
func (o *Orchestrator) documentation(t *turn, text string) {
	s := t.s
	switch {
	case extract.ContainsAny(text, disbursementWords...):
		t.respond(OutcomeInfo, disbursementMessage())
	case extract.ContainsAny(text, documentWords...):
		t.respond(OutcomeInfo, documentChecklistMessage())
	case extract.ContainsAny(text, repaymentWords...):
		t.respond(OutcomeInfo, repaymentMessage(s.Selection))
	default:
		advisor := o.negotiator.Advisor()
		t.respond(OutcomeInfo, approvedInfoMessage(s.LoanID, advisor.Name, advisor.Phone))
	}
}
