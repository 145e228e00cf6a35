// Package compliance screens every customer message before it reaches the
// conversation flow. A match is a hard stop for that turn.
package compliance

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
)

// Category identifies which policy a message violated.
type Category string

const (
	CategoryCoercion Category = "coercion"
	CategoryFraud    Category = "fraud"
	CategoryBribery  Category = "bribery"
	CategoryCrypto   Category = "crypto"
	CategoryAge      Category = "age"
)

// MinimumAge is the youngest stated age we will lend to.
const MinimumAge = 18

// Verdict is the outcome of a blocked message.
type Verdict struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

type rule struct {
	category Category
	match    func(msg string) bool
	message  string
}

var (
	cryptoRe = regexp.MustCompile(`\b(bitcoin|crypto\w*|usdt|eth|ethereum|btc)\b`)
	ageRe    = regexp.MustCompile(`\b(\d{1,2})\s*(?:years|yrs|year|yr)\s*old`)
)

func substrings(flags ...string) func(string) bool {
	return func(msg string) bool { return extract.ContainsAny(msg, flags...) }
}

func underage(msg string) bool {
	m := ageRe.FindStringSubmatch(msg)
	if m == nil {
		return false
	}
	age, err := strconv.Atoi(m[1])
	return err == nil && age < MinimumAge
}

// Guardrail holds the ordered policy rules. The first rule that matches wins.
type Guardrail struct {
	rules []rule
}

// NewGuardrail returns a guardrail with the standard lending policies.
func NewGuardrail() *Guardrail {
	return &Guardrail{rules: []rule{
		{
			category: CategoryCoercion,
			match: substrings(
				"my husband", "my wife", "forcing me", "help someone else",
				"commission", "my boss", "someone else", "for my friend",
				"making me", "told me to",
			),
			message: "⚠️ **Compliance Alert:** A personal loan can only be taken for your own use. " +
				"I can't continue with this application.",
		},
		{
			category: CategoryFraud,
			match: substrings(
				"fake", "forge", "forged", "fabricate", "false salary",
				"false document", "edit the pdf", "edit pdf", "edit document",
				"fake pan", "fake id",
			),
			message: "⚠️ **Compliance Alert:** I can't help with altered or fabricated documents. " +
				"That breaks both our lending policy and the law.",
		},
		{
			category: CategoryBribery,
			match: substrings(
				"pay you extra", "bribe", "extra money for you", "i'll pay you",
				"give you something", "reward you", "tip you", "pay extra",
				"money for approval", "commission for you", "extra for approval",
			),
			message: "⚠️ **Compliance Alert:** I can't accept tips or extra payments of any kind. " +
				"Decisions come from automated underwriting based only on creditworthiness.",
		},
		{
			category: CategoryCrypto,
			match:    cryptoRe.MatchString,
			message: "⚠️ **Policy Alert:** Cryptocurrency is not accepted for EMIs or disbursement. " +
				"We only work in Indian Rupees through banking channels.",
		},
		{
			category: CategoryAge,
			match:    underage,
			message: "⚠️ **Eligibility Alert:** Applicants must be at least " + strconv.Itoa(MinimumAge) +
				" years old. We can't proceed.",
		},
	}}
}

// Check returns a verdict and true when text must be blocked.
func (g *Guardrail) Check(text string) (Verdict, bool) {
	msg := strings.ToLower(text)
	for _, r := range g.rules {
		if r.match(msg) {
			return Verdict{Category: r.category, Message: r.message}, true
		}
	}
	return Verdict{}, false
}
