package negotiation

import (
	"strings"

	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
)

// Domain is the subject a customer is pushing back on.
type Domain string

const (
	DomainNone   Domain = ""
	DomainRate   Domain = "RATE"
	DomainAmount Domain = "AMOUNT"
	DomainEMI    Domain = "EMI"
)

// pureAccept messages never count as pushback even when they contain a signal.
var pureAccept = map[string]struct{}{
	"yes": {}, "ok": {}, "okay": {}, "sure": {}, "confirm": {}, "proceed": {},
	"go ahead": {}, "yep": {}, "yeah": {}, "fine": {}, "done": {}, "agreed": {},
	"accept": {}, "sounds good": {}, "alright": {}, "great": {},
}

var challengeWords = []string{
	"why", "how", "can", "could", "please", "need", "want",
	"reduce", "lower", "not", "don't", "too", "is it", "what",
	"better", "less", "more", "high", "much",
}

type intentRule struct {
	domain  Domain
	signals []string
}

// intentRules is checked top to bottom. EMI sits above AMOUNT so that
// "EMI is too much" is read as an instalment complaint.
var intentRules = []intentRule{
	{DomainEMI, []string{
		"emi", "monthly", "installment", "instalment", "payment", "per month",
		"afford", "burden", "too much", "reduce emi", "lower emi", "small emi",
		"less emi", "stretch tenure", "more months", "longer period", "extend",
		"flexible", "can i pay less", "smaller payment",
	}},
	{DomainRate, []string{
		"rate", "interest", "percent",
		"too high", "expensive", "costly", "reduce rate", "lower rate",
		"better rate", "discount", "cheap", "less interest", "better deal",
		"other bank", "competitor", "market rate", "rbi rate",
	}},
	{DomainAmount, []string{
		"more money", "need more", "want more", "full amount", "complete amount",
		"not enough", "increase", "raise", "higher amount", "can you give more",
		"not fair", "why limit", "why 6", "why so less", "too low", "maximum",
		"max out", "stretch", "full 8", "full 7", "full 10", "entire amount",
		"whole amount", "reconsider", "reviewed again",
	}},
}

// DetectIntent classifies a message as pushback on rate, amount or EMI.
// Short messages and plain acceptances are never pushback.
func DetectIntent(text string) (Domain, bool) {
	msg := strings.ToLower(strings.TrimSpace(text))
	if _, ok := pureAccept[msg]; ok || len(msg) <= 3 {
		return DomainNone, false
	}
	if !extract.ContainsAny(msg, challengeWords...) {
		return DomainNone, false
	}
	for _, rule := range intentRules {
		if extract.ContainsAny(msg, rule.signals...) {
			return rule.domain, true
		}
	}
	return DomainNone, false
}
