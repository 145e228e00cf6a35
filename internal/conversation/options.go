package conversation

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Ananth-NQI/loanverse-backend/internal/affordability"
	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
	"github.com/Ananth-NQI/loanverse-backend/internal/negotiation"
	"github.com/Ananth-NQI/loanverse-backend/internal/underwriting"
)

var optionPickRe = regexp.MustCompile(`\b(option\s*[123]|choose\s*[123]|go\s*with\s*[123]|pick\s*[123]|select\s*[123])\b`)

// options lets the customer pick a plan or a custom tenure. While a salary
// slip is outstanding the plans stay hidden.
func (o *Orchestrator) options(_ context.Context, t *turn, text string) error {
	s := t.s
	if s.Profile == nil {
		s.moveTo(PhaseVerification, StepAwaitPhone)
		t.respond(OutcomeReprompt, askPhoneMessage())
		return nil
	}

	switch s.Step {
	case StepAwaitingSlipConfirm:
		if slipYes.Match(text) {
			o.verifySalary(t)
			return nil
		}
		s.Step = StepAwaitingSalarySlip
		t.respond(OutcomeReprompt, slipReuploadMessage())
		return nil

	case StepAwaitingSalarySlip:
		if rateWords.Match(text) {
			t.respond(OutcomeNegotiation, rateObjectionMessage(s.Profile.CreditScore, s.Rate)+"\n\n"+waitingForSlipMessage())
			return nil
		}
		if salary, ok := extract.Salary(text); ok {
			t.respond(OutcomeReprompt, typedSalaryMessage(salary))
			return nil
		}
		t.respond(OutcomeReprompt, waitingForSlipMessage())
		return nil

	case StepTenureCounterOffer:
		pending := s.PendingTenure
		s.PendingTenure = nil
		s.Step = StepSelecting
		if pending != nil && renegotiationYes.Match(text) && !extract.HasDigit(text) {
			o.selectCustom(t, *pending)
			return nil
		}
	}

	if s.Plans == nil {
		plans := o.afford.Plans(s.requested(), s.Rate, s.Profile.MonthlySalary, s.Profile.CurrentEMIs)
		s.Plans = &plans
	}

	// Instalment complaints here are about the plans on screen, so an
	// amount objection is answered as an EMI one.
	if intent, ok := negotiation.DetectIntent(text); ok && !optionPickRe.MatchString(strings.ToLower(text)) {
		domain := negotiation.DomainEMI
		if intent == negotiation.DomainRate {
			domain = negotiation.DomainRate
		}
		if resp, fired := o.negotiator.Negotiate(&s.Negotiation, domain, o.negotiationContext(s)); fired {
			o.negotiated(t, resp)
			return nil
		}
	}

	if months, ok := extract.Tenure(text); ok {
		o.customTenure(t, months)
		return nil
	}
	if n, ok := extract.Option(text); ok {
		if plan, found := s.Plans.Option(n); found {
			o.selectPlan(t, plan)
			return nil
		}
	}

	t.respond(OutcomeReprompt, optionPromptMessage())
	return nil
}

// verifySalary re-runs eligibility with the salary on file once a slip has
// been accepted.
func (o *Orchestrator) verifySalary(t *turn) {
	s := t.s
	p := *s.Profile
	amount := s.requested()
	salary := p.MonthlySalary

	decision := o.underwriter.EvaluateProfile(p, amount, &salary)
	s.Decision = &decision
	t.reply.Decision = &decision
	s.SalaryChecked = true

	if decision.Status == underwriting.StatusApprove {
		s.ApprovalType = string(decision.Type)
		if s.Plans == nil || s.Plans.Amount != amount {
			plans := o.afford.Plans(amount, s.Rate, p.MonthlySalary, p.CurrentEMIs)
			s.Plans = &plans
		}
		s.moveTo(PhaseOptions, StepSelecting)
		t.say(slipVerifiedMessage(amount, salary, decision.DTI) + "\n\n" + plansMessage(*s.Plans))
		return
	}

	s.Plans = nil
	alt := min(2*p.PreApprovedLimit, o.afford.SafeAmount(salary, p.CurrentEMIs, s.Rate, o.policy.LenientTenure))
	if alt < o.policy.MinLoanAmount {
		s.moveTo(PhaseNeedsAnalysis, StepPathSelection)
		t.respond(OutcomeRejected, slipFailedMessage(decision.Reason, 0)+"\n\n"+adviceCard(p))
		return
	}
	s.SafeAmount = ptr(alt)
	s.moveTo(PhaseNeedsAnalysis, StepAwaitingRenegotiation)
	t.respond(OutcomeRejected, slipFailedMessage(decision.Reason, alt))
}

func (o *Orchestrator) customTenure(t *turn, months int) {
	s := t.s
	p := *s.Profile
	if months > o.policy.MaxTenureMonths {
		t.respond(OutcomeReprompt, tenureTooLongMessage(o.policy.MaxTenureMonths))
		return
	}

	amount := s.Plans.Amount
	emi := affordability.EMI(amount, months, s.Rate)
	if o.afford.Assess(p.MonthlySalary, emi, p.CurrentEMIs).Safe {
		o.selectCustom(t, months)
		return
	}

	safe := o.afford.SafeTenure(amount, p.MonthlySalary, p.CurrentEMIs, s.Rate)
	if safe == 0 || safe > o.policy.MaxTenureMonths {
		extended, _ := s.Plans.Option(3)
		t.respond(OutcomeReprompt, tenureUnaffordableMessage(months, extended))
		return
	}
	s.PendingTenure = ptr(safe)
	s.Step = StepTenureCounterOffer
	t.respond(OutcomeNegotiation, tenureCounterOfferMessage(months, safe, affordability.EMI(amount, safe, s.Rate)))
}

func (o *Orchestrator) selectCustom(t *turn, months int) {
	amount := t.s.Plans.Amount
	emi := affordability.EMI(amount, months, t.s.Rate)
	interest := affordability.TotalInterest(emi, months, amount)
	o.choose(t, Selection{
		Label:         fmt.Sprintf("Custom (%d months)", months),
		Amount:        amount,
		Rate:          t.s.Rate,
		TenureMonths:  months,
		EMI:           emi,
		TotalInterest: interest,
		TotalPayment:  amount + interest,
	})
}

func (o *Orchestrator) selectPlan(t *turn, plan affordability.Plan) {
	o.choose(t, Selection{
		Option:        plan.Option,
		Label:         plan.Label,
		Amount:        t.s.Plans.Amount,
		Rate:          t.s.Plans.Rate,
		TenureMonths:  plan.TenureMonths,
		EMI:           plan.EMI,
		TotalInterest: plan.TotalInterest,
		TotalPayment:  plan.TotalPayment,
	})
}

func (o *Orchestrator) choose(t *turn, sel Selection) {
	s := t.s
	s.Selection = &sel
	s.Entities.TenureMonths = ptr(sel.TenureMonths)
	if sel.Option > 0 {
		s.Entities.Option = ptr(sel.Option)
	} else {
		s.Entities.Option = nil
	}
	s.moveTo(PhaseConfirmation, StepNone)
	t.say(confirmationSummary(*s.Profile, sel, s.PurposeLabel()))
}
