package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ananth-NQI/loanverse-backend/internal/affordability"
	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
	"github.com/Ananth-NQI/loanverse-backend/internal/models"
)

// verification matches the mobile number to a pre-approved profile. A new
// number always restarts the lookup, even while a question is pending.
func (o *Orchestrator) verification(ctx context.Context, t *turn, text string) error {
	s := t.s
	phone, hasPhone := extract.Phone(text)

	switch s.Step {
	case StepNewCustomerQuery:
		if !hasPhone {
			s.Step = StepAwaitPhone
			if newCustomerYes.Match(text) {
				t.respond(OutcomeInfo, newCustomerMessage())
			} else {
				t.respond(OutcomeReprompt, reenterPhoneMessage())
			}
			return nil
		}
	case StepIdentityMismatch:
		pending := s.PendingProfile
		s.PendingProfile = nil
		if !hasPhone {
			if pending != nil && mismatchYes.Match(text) {
				s.Entities.Name = ptr(pending.Name)
				return o.completeVerification(ctx, t, pending)
			}
			s.Step = StepAwaitPhone
			t.respond(OutcomeReprompt, mismatchDeclinedMessage())
			return nil
		}
	}

	if !hasPhone {
		s.Step = StepAwaitPhone
		t.respond(OutcomeReprompt, invalidPhoneMessage())
		return nil
	}
	s.Entities.Phone = ptr(phone)

	profile, err := o.profiles.GetProfileByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			s.Step = StepNewCustomerQuery
			t.respond(OutcomeReprompt, notFoundMessage(phone))
			return nil
		}
		return fmt.Errorf("lookup profile: %w", err)
	}

	if s.Entities.Name != nil && !namesMatch(*s.Entities.Name, profile.Name) {
		s.PendingProfile = profile
		s.Step = StepIdentityMismatch
		t.respond(OutcomeReprompt, identityMismatchMessage(*s.Entities.Name, profile.Name))
		return nil
	}
	return o.completeVerification(ctx, t, profile)
}

// namesMatch is a loose check: either name may contain the other.
func namesMatch(provided, registered string) bool {
	a := strings.ToLower(strings.TrimSpace(provided))
	b := strings.ToLower(strings.TrimSpace(registered))
	if a == "" || b == "" {
		return true
	}
	return strings.Contains(b, a) || strings.Contains(a, b)
}

// completeVerification records consent, shows the profile card and, when an
// amount was mentioned earlier, runs the affordability check straight away.
func (o *Orchestrator) completeVerification(ctx context.Context, t *turn, p *models.CustomerProfile) error {
	s := t.s
	report, err := o.bureau.Fetch(ctx, p.Phone)
	if err != nil {
		return fmt.Errorf("credit report: %w", err)
	}

	s.Profile = p
	s.PendingProfile = nil
	s.Verified = true
	s.ConsentGiven = true
	s.Entities.Phone = ptr(p.Phone)
	s.Rate = affordability.RiskBasedRate(p.CreditScore)
	s.moveTo(PhaseNeedsAnalysis, StepNormal)

	card := profileCard{
		profile:     *p,
		rate:        s.Rate,
		maxCapacity: o.afford.MaxCapacity(*p, s.Rate),
		bureauRef:   report.Reference,
		purpose:     s.PurposeLabel(),
		askAmount:   s.Entities.RequestedAmount == nil,
	}
	t.say(card.String())

	if amount := s.requested(); amount > 0 {
		o.analyze(t, amount)
	}
	return nil
}
