package conversation

import (
	"strings"

	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
)

// Each reply context has its own vocabulary: "correct" answers a
// new-customer question but not a plan confirmation.
var (
	newCustomerYes = extract.NewWordSet("yes", "yeah", "yep", "true", "correct", "i am")
	mismatchYes    = extract.NewWordSet(
		"yes", "sure", "okay", "ok", "proceed", "go ahead", "yep", "yeah", "fine", "do it", "accept", "continue",
	)
	renegotiationYes = extract.NewWordSet(
		"yes", "sure", "okay", "ok", "proceed", "go ahead", "yep", "yeah", "fine", "do it", "accept", "confirm",
	)
	negotiationAccept = extract.NewWordSet(
		"yes", "ok", "okay", "sure", "fine", "proceed", "accept", "go ahead", "continue", "option",
		"agreed", "deal", "confirm", "sounds good", "alright", "done",
	)
	slipYes = extract.NewWordSet(
		"confirm", "yes", "correct", "proceed", "yep", "yeah", "sure", "ok", "okay", "it is", "that's right", "thats right",
	)
	confirmYes = extract.NewWordSet(
		"yes", "confirm", "proceed", "approve", "go ahead", "sure", "okay", "ok", "yep", "yeah", "generate",
	)
	confirmNo = extract.NewWordSet("no", "wait", "stop", "back", "cancel", "change", "not now", "don't", "dont")

	rejectionWords = extract.NewWordSet("no", "nope", "don't", "dont", "not", "reject", "refuse", "decline", "disagree")
	rateWords      = extract.NewWordSet("rate", "interest", "high", "expensive", "lower", "reduce", "discount", "less", "cheaper")
	exploreAmount  = extract.NewWordSet(
		"explore", "other", "different", "alternatives", "options", "lower amount", "something else",
		"reconsider", "change", "reduce", "less", "smaller",
	)

	disbursementWords = []string{"when", "disburs", "credit", "transfer"}
	documentWords     = []string{"document", "doc", "paper", "submit", "need"}
	repaymentWords    = []string{"emi", "payment", "debit", "auto"}
)

// Phrases that mean "the whole amount I first asked for".
var fullAmountPhrases = []string{
	"all at once", "all in one", "all of it", "the whole", "full amount", "the full",
	"the entire", "entire amount", "whole thing", "everything at once", "lump sum",
}

var exploreAdvicePhrases = []string{
	"explore", "alternative", "other option", "other path", "different path", "different option",
	"something else", "other ways", "what else", "what are my options",
}

type advicePath int

const (
	adviceNone advicePath = iota
	adviceExplore
	adviceA
	adviceB
	adviceC
)

// detectAdvicePath recognises a choice from the Path A/B/C card. Explore
// requests only count when the message carries no figures.
func detectAdvicePath(text string) advicePath {
	msg := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.HasPrefix(msg, "path a") || msg == "a":
		return adviceA
	case strings.HasPrefix(msg, "path b") || msg == "b":
		return adviceB
	case strings.HasPrefix(msg, "path c") || msg == "c":
		return adviceC
	case extract.ContainsAny(msg, exploreAdvicePhrases...) && !extract.HasDigit(msg):
		return adviceExplore
	default:
		return adviceNone
	}
}
