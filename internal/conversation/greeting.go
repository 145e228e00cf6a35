package conversation

import (
	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
)

// Traffic sources recognised by Start.
const (
	SourceDirect        = "direct"
	SourceWeddingEmail  = "email_wedding"
	SourcePreApprovedAd = "ad_preapproved"
	SourceHomeEmail     = "email_home"
	SourceMedicalAd     = "ad_medical"
	SourceWhatsApp      = "whatsapp"
)

// Delivery channels.
const (
	ChannelWeb      = "web"
	ChannelWhatsApp = "whatsapp"
)

var greetings = map[string]string{
	SourceDirect:        "Hello! I'm Maya, your LoanVerse relationship manager. How can I help you with a personal loan today?",
	SourceWeddingEmail:  "Welcome back! 💍 You came in from our wedding loan email, and your ₹5,00,000 pre-approved offer is ready to explore.",
	SourcePreApprovedAd: "Hi there! 🎉 You've been pre-selected for a special personal loan offer. I can unlock your rate in about two minutes.",
	SourceHomeEmail:     "Welcome! 🏡 Let's turn your dream home into reality.",
	SourceMedicalAd:     "Hello. I understand this might be urgent, and we're here to help with medical expenses.",
	SourceWhatsApp:      "Namaste! 🙏 I'm Maya from LoanVerse. I can check your pre-approved personal loan right here on WhatsApp.",
}

// Greeting returns the opening line for a traffic source. Unknown sources get
// the direct-visit greeting.
func Greeting(source string) string {
	if g, ok := greetings[source]; ok {
		return g
	}
	return greetings[SourceDirect]
}

// Start opens a conversation with a source-aware greeting. A prefilled
// purpose is remembered so purpose discovery can be skipped once the
// customer has introduced themselves.
func (o *Orchestrator) Start(source string, prefill extract.Purpose) *Session {
	now := o.now()
	if source == "" {
		source = SourceDirect
	}
	s := NewSession(source, ChannelWeb, now)
	if prefill != extract.PurposeUnspecified {
		s.PrefilledPurpose = ptr(prefill)
	}

	t := &turn{s: s, now: now}
	t.say(Greeting(source) + "\n\n" + askNameMessage())

	o.log.Info("Conversation started", map[string]interface{}{
		"session_id": s.ID,
		"source":     source,
		"prefill":    string(prefill),
	})
	return s
}
