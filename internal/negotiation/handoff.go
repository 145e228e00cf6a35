package negotiation

import (
	"fmt"
	"strings"

	"github.com/Ananth-NQI/loanverse-backend/internal/utils"
)

// Contact is the human a negotiation escalates to.
type Contact struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Phone    string `json:"phone"`
	Hours    string `json:"hours"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
}

var DefaultAdvisor = Contact{
	Name:     "Mr. Arjun Mehta",
	Title:    "Senior Relationship Manager",
	Phone:    "+91-22-6789-1234",
	Hours:    "Mon–Sat, 9 AM–6 PM",
	Email:    "arjun.mehta@loanverse.ai",
	WhatsApp: "+91-98765-01234",
}

// Handoff is the terminal outcome of a negotiation.
type Handoff struct {
	Contact   Contact `json:"contact"`
	Reference string  `json:"reference"`
	Text      string  `json:"text"`
}

// Handoff builds the escalation message for a customer.
func (e *Engine) Handoff(customerName string) Handoff {
	name := utils.FirstName(customerName)
	if name == "" {
		name = "there"
	}
	ref := utils.EscalationReference(customerName)
	c := e.advisor

	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your patience, %s. I've taken this as far as I can automatically, "+
		"so I'm connecting you with a colleague who has full discretionary authority over:\n", name)
	b.WriteString("- Custom interest rate structures\n")
	b.WriteString("- Limits above the standard pre-approval\n")
	b.WriteString("- Repayment holidays and moratoriums\n\n")
	b.WriteString("---\n")
	fmt.Fprintf(&b, "**%s** · %s\n", c.Name, c.Title)
	fmt.Fprintf(&b, "📞 **%s** (%s)\n", c.Phone, c.Hours)
	fmt.Fprintf(&b, "📧 **%s**\n", c.Email)
	fmt.Fprintf(&b, "💬 **WhatsApp:** %s\n", c.WhatsApp)
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "Quote reference **`%s`** so your application is already on screen. "+
		"Expect a reply within **2 business hours**.", ref)

	return Handoff{Contact: c, Reference: ref, Text: b.String()}
}
