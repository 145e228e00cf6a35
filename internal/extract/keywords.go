package extract

import (
	"regexp"
	"strings"
)

// WordSet matches whole words or phrases case-insensitively.
type WordSet struct {
	words []string
	re    *regexp.Regexp
}

// NewWordSet compiles the given words into one alternation.
func NewWordSet(words ...string) WordSet {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(w))
	}
	return WordSet{
		words: words,
		re:    regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Match reports whether any word appears in text on word boundaries.
func (s WordSet) Match(text string) bool {
	return s.re.MatchString(strings.ToLower(text))
}

// Words returns the configured words.
func (s WordSet) Words() []string {
	return s.words
}

// ContainsAny reports whether text contains any of the substrings.
func ContainsAny(text string, subs ...string) bool {
	lower := strings.ToLower(text)
	for _, s := range subs {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// HasDigit reports whether text contains at least one ASCII digit.
func HasDigit(text string) bool {
	return strings.ContainsAny(text, "0123456789")
}
