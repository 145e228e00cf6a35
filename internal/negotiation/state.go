package negotiation

import "encoding/json"

// MaxAttempts is the number of automated counter-arguments before a human takes over.
const MaxAttempts = 3

// State tracks pushback within one conversation. Callers change it only
// through Fire, Accept, ResetAfterPath and Close.
type State struct {
	active   bool
	domain   Domain
	attempts int
	handoff  bool
}

type stateJSON struct {
	Active   bool   `json:"active"`
	Domain   Domain `json:"domain,omitempty"`
	Attempts int    `json:"attempts"`
	Handoff  bool   `json:"human_handoff"`
}

// Fire records one pushback. When intent is DomainNone the stored domain is
// re-used, so a vague "still too much" continues the current thread. A switch
// to a new domain restarts the ladder. It returns the domain being negotiated,
// the zero-based attempt index and whether the customer must go to a human.
// Once handed off, every later call reports the handoff again.
func (s *State) Fire(intent Domain) (Domain, int, bool) {
	domain := intent
	if domain == DomainNone {
		domain = s.domain
	}
	if domain == DomainNone {
		return DomainNone, 0, false
	}
	if s.handoff {
		return domain, s.attempts, true
	}

	if domain != s.domain {
		s.domain = domain
		s.attempts = 0
	}
	s.active = true

	if s.attempts >= MaxAttempts {
		s.active = false
		s.handoff = true
		return domain, s.attempts, true
	}

	attempt := s.attempts
	s.attempts++
	return domain, attempt, false
}

// Accept ends the current negotiation on the customer's agreement.
func (s *State) Accept() {
	s.active = false
	s.attempts = 0
}

// ResetAfterPath clears the ladder once an alternative path has been taken.
func (s *State) ResetAfterPath() {
	s.active = false
	s.domain = DomainNone
	s.attempts = 0
}

// Close stops listening for path choices without touching the counter.
func (s *State) Close() {
	s.active = false
}

// Active reports whether a negotiation thread is open.
func (s *State) Active() bool { return s.active }
func (s *State) Domain() Domain { return s.domain }
func (s *State) Attempts() int { return s.attempts }
func (s *State) HandedOff() bool { return s.handoff }

// PathsOffered reports whether the alternative paths are on the table: an
// open amount negotiation that has already sent its trade-off reply.
func (s *State) PathsOffered() bool {
	return s.active && s.domain == DomainAmount && s.attempts >= 2
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateJSON{
		Active:   s.active,
		Domain:   s.domain,
		Attempts: s.attempts,
		Handoff:  s.handoff,
	})
}

func (s *State) UnmarshalJSON(data []byte) error {
	var raw stateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.active = raw.Active
	s.domain = raw.Domain
	s.attempts = raw.Attempts
	s.handoff = raw.Handoff
	return nil
}
