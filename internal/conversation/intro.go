package conversation

import (
	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
)

// warmOpening collects the customer's name. An amount mentioned along the
// way is kept for later.
func (o *Orchestrator) warmOpening(t *turn, text string) {
	s := t.s
	amount, hasAmount := o.extractor.Amount(text)
	if hasAmount {
		s.setRequested(amount)
	}

	name, ok := extract.Name(text)
	if !ok && s.Entities.Name == nil {
		if hasAmount {
			t.respond(OutcomeReprompt, nameWithAmountMessage(amount))
		} else {
			t.respond(OutcomeReprompt, askNameMessage())
		}
		return
	}
	if ok {
		s.Entities.Name = ptr(name)
	}
	greeting := niceToMeetMessage(*s.Entities.Name)

	if s.PrefilledPurpose != nil {
		s.Entities.Purpose = ptr(*s.PrefilledPurpose)
		s.moveTo(PhaseVerification, StepAwaitPhone)
		t.say(greeting + " " + celebrationMessage(*s.PrefilledPurpose) + "\n\n" + askPhoneMessage())
		return
	}

	s.moveTo(PhasePurposeDiscovery, StepNone)
	t.say(greeting + "\n\n" + askPurposeMessage())
}

// purposeDiscovery classifies the loan purpose. An unrecognised purpose is
// asked again rather than guessed.
func (o *Orchestrator) purposeDiscovery(t *turn, text string) {
	s := t.s
	if amount, ok := o.extractor.Amount(text); ok {
		s.setRequested(amount)
	}

	purpose := extract.ExtractPurpose(text)
	if purpose == extract.PurposeUnspecified {
		t.respond(OutcomeReprompt, purposeRepromptMessage(s.requested()))
		return
	}

	s.Entities.Purpose = ptr(purpose)
	s.moveTo(PhaseVerification, StepAwaitPhone)
	t.say(celebrationMessage(purpose) + "\n\n" + askPhoneMessage())
}
