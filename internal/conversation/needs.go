package conversation

import (
	"context"

	"github.com/Ananth-NQI/loanverse-backend/internal/affordability"
	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
	"github.com/Ananth-NQI/loanverse-backend/internal/negotiation"
	"github.com/Ananth-NQI/loanverse-backend/internal/underwriting"
)

// needsAnalysis turns a requested amount into plans, a salary-slip request,
// a counter-offer or a rejection. Interceptors run in a fixed order: the
// advice card paths, then negotiation, then the pending renegotiation step.
func (o *Orchestrator) needsAnalysis(_ context.Context, t *turn, text string) error {
	s := t.s
	if s.Profile == nil {
		s.moveTo(PhaseVerification, StepAwaitPhone)
		t.respond(OutcomeReprompt, askPhoneMessage())
		return nil
	}

	if o.adviceCard(t, text) {
		return nil
	}
	if o.negotiate(t, text) {
		return nil
	}

	var (
		amount int64
		ok     bool
	)
	switch s.Step {
	case StepRenegotiationConfirmed:
		safe := s.safeAmount()
		switch {
		case exploreAmount.Match(text):
			s.Step = StepAwaitingRenegotiation
			t.respond(OutcomeReprompt, renegotiationExploreMessage(safe))
			return nil
		case renegotiationYes.Match(text) && safe > 0:
			amount, ok = safe, true
		default:
			t.respond(OutcomeReprompt, renegotiationClarifyMessage(safe))
			return nil
		}
	case StepAwaitingRenegotiation:
		var handled bool
		amount, ok, handled = o.renegotiate(t, text)
		if handled {
			return nil
		}
	default:
		amount, ok = o.extractor.Amount(text)
	}

	s.Step = StepNormal
	if !ok {
		t.respond(OutcomeReprompt, amountPromptMessage(s.Profile.PreApprovedLimit))
		return nil
	}
	o.analyze(t, amount)
	return nil
}

// adviceCard handles the Path A/B/C card shown after a rejection.
func (o *Orchestrator) adviceCard(t *turn, text string) bool {
	s := t.s
	p := *s.Profile

	switch detectAdvicePath(text) {
	case adviceExplore:
		s.Step = StepAwaitingRenegotiation
		t.respond(OutcomeInfo, adviceCard(p))
	case adviceA:
		s.Step = StepAwaitingRenegotiation
		t.respond(OutcomeInfo, pathAMessage(p.PreApprovedLimit))
	case adviceB:
		s.Step = StepNormal
		if p.CurrentEMIs > 0 {
			advisor := o.negotiator.Advisor()
			t.respond(OutcomeInfo, pathBConsolidationMessage(advisor.Name, advisor.Phone))
		} else {
			estimate := o.afford.SafeAmount(p.MonthlySalary, 0, affordability.RiskBasedRate(o.policy.MinCreditScore), o.policy.StandardTenure)
			t.respond(OutcomeInfo, pathBScoreMessage(p.Name, p.CreditScore, estimate))
		}
	case adviceC:
		s.Step = StepNormal
		t.respond(OutcomeInfo, pathCMessage(p.CreditScore))
	default:
		return false
	}
	return true
}

// negotiate intercepts pushback. Rate objections are always heard; amount
// objections only once a negotiation is running, so a first amount is never
// mistaken for a challenge.
func (o *Orchestrator) negotiate(t *turn, text string) bool {
	s := t.s
	intent, hasIntent := negotiation.DetectIntent(text)
	active := s.Negotiation.Active()

	if active {
		// Paths exist only once an amount thread has sent its trade-off reply.
		if s.Negotiation.PathsOffered() && s.requested() > 0 {
			if path, ok := negotiation.DetectPath(text); ok {
				o.takePath(t, path)
				return true
			}
		}
		amount, hasAmount := o.extractor.Amount(text)
		if negotiationAccept.Match(text) || (hasAmount && amount >= o.policy.MinLoanAmount && !hasIntent) {
			s.Negotiation.Accept()
			return false
		}
	}
	if !hasIntent {
		return false
	}

	renegotiating := s.Step == StepAwaitingRenegotiation || s.Step == StepRenegotiationConfirmed
	ratePushback := intent == negotiation.DomainRate && !renegotiating
	amountPushback := intent == negotiation.DomainAmount && active && !renegotiating
	refire := active && s.Step != StepAwaitingRenegotiation
	if !ratePushback && !amountPushback && !refire {
		return false
	}

	resp, ok := o.negotiator.Negotiate(&s.Negotiation, intent, o.negotiationContext(s))
	if !ok {
		return false
	}
	o.negotiated(t, resp)
	return true
}

func (o *Orchestrator) negotiated(t *turn, resp negotiation.Response) {
	t.reply.Negotiated = &resp
	if resp.Handoff != nil {
		t.reply.Handoff = resp.Handoff
		t.respond(OutcomeHandoff, resp.Text)
		return
	}
	t.respond(OutcomeNegotiation, resp.Text)
}

func (o *Orchestrator) negotiationContext(s *Session) negotiation.Context {
	c := negotiation.Context{
		CustomerName: s.CustomerName(),
		Rate:         s.Rate,
		Requested:    s.requested(),
		Purpose:      s.PurposeLabel(),
	}
	if p := s.Profile; p != nil {
		c.CreditScore = p.CreditScore
		c.Salary = p.MonthlySalary
		c.CurrentEMIs = p.CurrentEMIs
		c.Approved = p.PreApprovedLimit
	}
	if safe := s.safeAmount(); safe > 0 {
		c.Approved = safe
	}
	if s.Plans != nil && len(s.Plans.Plans) > 0 {
		rec := s.Plans.Recommended()
		c.EMI = rec.EMI
		c.TenureMonths = rec.TenureMonths
	}
	return c
}

// takePath carries out one of the alternatives offered on the second amount
// pushback.
func (o *Orchestrator) takePath(t *turn, path negotiation.Path) {
	s := t.s
	p := *s.Profile
	c := o.negotiationContext(s)
	text, action := o.negotiator.ExecutePath(path, c)
	s.Negotiation.ResetAfterPath()

	switch action {
	case negotiation.ActionSalarySlip:
		amount := min(s.requested(), 2*p.PreApprovedLimit)
		s.setRequested(amount)
		plans := o.afford.Plans(amount, s.Rate, p.MonthlySalary, p.CurrentEMIs)
		s.Plans = &plans
		s.moveTo(PhaseOptions, StepAwaitingSalarySlip)
		t.respond(OutcomeAdvanced, text)
	case negotiation.ActionCoBorrower:
		s.SafeAmount = ptr(c.Approved)
		s.Step = StepAwaitingRenegotiation
		t.respond(OutcomeNegotiation, text)
	case negotiation.ActionSplitLoan:
		t.say(text)
		o.analyze(t, min(c.Approved, p.PreApprovedLimit))
	}
}

// renegotiate handles replies to a counter-offer. handled is true when the
// reply has been answered and no analysis should follow.
func (o *Orchestrator) renegotiate(t *turn, text string) (amount int64, ok, handled bool) {
	s := t.s
	safe := s.safeAmount()
	stated, hasStated := o.extractor.Amount(text)

	if !hasStated && safe > 0 && renegotiationYes.Match(text) {
		if rateWords.Match(text) {
			s.setRequested(safe)
			s.Step = StepRenegotiationConfirmed
			t.respond(OutcomeNegotiation, rateLockedMessage(safe, rateObjectionMessage(s.Profile.CreditScore, s.Rate)))
			return 0, false, true
		}
		t.say(amountUpdatedMessage(safe))
		return safe, true, false
	}

	if rejectionWords.Match(text) && !extract.HasDigit(text) {
		t.respond(OutcomeReprompt, renegotiationDeclinedMessage(safe))
		return 0, false, true
	}

	amount, ok = stated, hasStated
	if extract.ContainsAny(text, fullAmountPhrases...) && s.requested() > 0 {
		amount, ok = s.requested(), true
	}

	if ok && safe > 0 && amount > safe {
		s.Step = StepNormal
		c := o.negotiationContext(s)
		c.Requested = amount
		resp, fired := o.negotiator.Negotiate(&s.Negotiation, negotiation.DomainAmount, c)
		if fired {
			o.negotiated(t, resp)
			return 0, false, true
		}
	}
	return amount, ok, false
}

// analyze runs the affordability and eligibility checks for an amount and
// routes the conversation on the result.
func (o *Orchestrator) analyze(t *turn, amount int64) {
	s := t.s
	p := *s.Profile

	if amount < o.policy.MinLoanAmount {
		s.Step = StepNormal
		t.respond(OutcomeReprompt, amountTooSmallMessage(o.policy.MinLoanAmount))
		return
	}

	s.setRequested(amount)
	s.SafeAmount = nil
	rate := affordability.RiskBasedRate(p.CreditScore)
	s.Rate = rate

	decision := o.underwriter.EvaluateProfile(p, amount, nil)
	s.Decision = &decision
	t.reply.Decision = &decision

	emi := affordability.EMI(amount, o.policy.StandardTenure, rate)
	view := analysisView{
		name:        p.Name,
		purpose:     s.PurposeLabel(),
		amount:      amount,
		salary:      p.MonthlySalary,
		existing:    p.CurrentEMIs,
		loanDetails: p.CurrentLoanDetails,
		score:       p.CreditScore,
		assessment:  o.afford.Assess(p.MonthlySalary, emi, p.CurrentEMIs),
	}

	if decision.Status == underwriting.StatusReject && decision.Rule == underwriting.RuleScoreGate {
		o.reject(t, decision.Reason)
		return
	}

	validation := o.afford.ValidateAmountRequest(p, amount)
	switch validation.Status {
	case affordability.StatusInstantApprove:
		if decision.Status != underwriting.StatusApprove {
			alt := o.afford.SafeAmount(p.MonthlySalary, p.CurrentEMIs, rate, o.policy.LenientTenure)
			o.counterOffer(t, alt, decision.Reason, debtTrapMessage(decision.Reason, alt))
			return
		}
		s.ApprovalType = string(decision.Type)
		plans := o.afford.Plans(amount, rate, p.MonthlySalary, p.CurrentEMIs)
		s.Plans = &plans
		s.moveTo(PhaseOptions, StepSelecting)
		intro := view.comfortable()
		if !view.assessment.Safe {
			intro = view.tenureExtension()
		}
		t.say(intro + "\n\n" + plansMessage(plans))

	case affordability.StatusConditional:
		plans := o.afford.Plans(amount, rate, p.MonthlySalary, p.CurrentEMIs)
		s.Plans = &plans
		s.moveTo(PhaseOptions, StepAwaitingSalarySlip)
		t.say(view.salaryRequired(p.PreApprovedLimit))

	case affordability.StatusOverCapacity:
		alt := validation.AlternativeAmount
		o.counterOffer(t, alt, o.afford.CounterOffer(p, amount).Reason, view.overCapacity(alt))

	default:
		alt := min(validation.AlternativeAmount, o.afford.SafeAmount(p.MonthlySalary, p.CurrentEMIs, rate, o.policy.LenientTenure))
		o.counterOffer(t, alt, decision.Reason, hardCapMessage(decision.Reason, alt))
	}
}

// counterOffer parks the conversation on a safe alternative, or rejects when
// no workable amount remains.
func (o *Orchestrator) counterOffer(t *turn, alt int64, reason, message string) {
	if alt < o.policy.MinLoanAmount {
		o.reject(t, reason)
		return
	}
	t.s.SafeAmount = ptr(alt)
	t.s.moveTo(PhaseNeedsAnalysis, StepAwaitingRenegotiation)
	t.respond(OutcomeRejected, message)
}

func (o *Orchestrator) reject(t *turn, reason string) {
	s := t.s
	s.Plans = nil
	s.moveTo(PhaseNeedsAnalysis, StepPathSelection)
	t.respond(OutcomeRejected, rejectionMessage(reason, s.Profile.CreditScore)+"\n\n"+adviceCard(*s.Profile))
}

func (s *Session) safeAmount() int64 {
	if s.SafeAmount == nil {
		return 0
	}
	return *s.SafeAmount
}
