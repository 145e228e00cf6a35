package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultMaxAmount   int64 = 10000000
	DefaultIdiomAmount int64 = 500000
)

// numberWords maps spoken quantities, English and Hindi transliterated, to values.
var numberWords = []struct {
	word  string
	value float64
}{
	{"one", 1}, {"two", 2}, {"three", 3}, {"four", 4}, {"five", 5},
	{"six", 6}, {"seven", 7}, {"eight", 8}, {"nine", 9}, {"ten", 10},
	{"fifty", 50}, {"hundred", 100},
	{"ek", 1}, {"do", 2}, {"teen", 3}, {"char", 4}, {"paanch", 5}, {"panch", 5},
	{"chhe", 6}, {"saat", 7}, {"aath", 8}, {"nau", 9}, {"das", 10},
	{"dedh", 1.5}, {"dhai", 2.5}, {"sawa", 1.25}, {"paune", 0.75},
}

// unitWords are the multipliers recognized after a spoken quantity. Single
// letter units (k, l) only count after digits.
var unitWords = []struct {
	pattern string
	value   float64
}{
	{`thousands?|hajar|hazaar`, 1000},
	{`lakhs?|lacs?|peti`, 100000},
	{`crores?|cr|khokha`, 10000000},
}

var digitUnitRes = []struct {
	re    *regexp.Regexp
	value float64
}{
	{regexp.MustCompile(`(\d+\.?\d*)\s*(cr|crore|crores|khokha)\b`), 10000000},
	{regexp.MustCompile(`(\d+\.?\d*)\s*(l|lakh|lakhs|lac|lacs|peti)\b`), 100000},
	{regexp.MustCompile(`(\d+\.?\d*)\s*(k|thousand|thousands|hajar|hazaar)\b`), 1000},
}

var (
	compoundRe      = regexp.MustCompile(`(\d+)\s*(?:lakhs?|lacs?|l)\s*(\d+)\s*(?:thousand|k)`)
	andHalfRe       = regexp.MustCompile(`\bone\s+and\s+(?:a\s+)?half\b`)
	lakhWordRe      = regexp.MustCompile(`\b(?:lakhs?|lacs?)\b`)
	croreWordRe     = regexp.MustCompile(`\b(?:crores?|cr)\b`)
	currencyRe      = regexp.MustCompile(`(?:\binr|\brs|₹)\.?\s*(\d+)`)
	standaloneRe    = regexp.MustCompile(`\b\d{5,}\b`)
	wordUnitRes     = buildWordUnitRes()
	wordThousandRes = buildWordThousandRes()
)

var idioms = []string{
	"paisa chahiye",
	"paise chahiye",
	"loan chahiye",
	"udhar chahiye",
	"help loan",
	"need loan",
}

type wordUnitRule struct {
	re    *regexp.Regexp
	value float64
}

func buildWordUnitRes() []wordUnitRule {
	var rules []wordUnitRule
	for _, w := range numberWords {
		for _, u := range unitWords {
			rules = append(rules, wordUnitRule{
				re:    regexp.MustCompile(`\b` + w.word + `\s+(?:` + u.pattern + `)\b`),
				value: w.value * u.value,
			})
		}
	}
	return rules
}

func buildWordThousandRes() []wordUnitRule {
	rules := make([]wordUnitRule, 0, len(numberWords))
	for _, w := range numberWords {
		rules = append(rules, wordUnitRule{
			re:    regexp.MustCompile(`\b` + w.word + `\s+thousand\b`),
			value: w.value * 1000,
		})
	}
	return rules
}

// AmountRule is one entry of the amount precedence table.
type AmountRule struct {
	Name  string
	match func(e *Extractor, msg string) (float64, bool)
}

// amountRules is evaluated top to bottom; the first rule that matches wins.
//
//	1 compound       "2 lakh 50 thousand"
//	2 word_unit      "paanch lakh", "dedh crore"
//	3 digit_unit     "5 lakhs", "2.5l", "50k"
//	4 word_thousand  "fifty thousand"
//	5 and_half       "one and half lakh"; "two and a half lakh" is left unparsed
//	6 currency       "Rs. 450000", "₹3,00,000"
//	7 standalone     "500000" (phone-like 10 digit runs skipped)
//	8 idiom          "paisa chahiye"
var amountRules = []AmountRule{
	{Name: "compound", match: matchCompound},
	{Name: "word_unit", match: matchWordUnit},
	{Name: "digit_unit", match: matchDigitUnit},
	{Name: "word_thousand", match: matchWordThousand},
	{Name: "and_half", match: matchAndHalf},
	{Name: "currency", match: matchCurrency},
	{Name: "standalone", match: matchStandalone},
	{Name: "idiom", match: matchIdiom},
}

// Extractor holds the configurable amount limits. The zero value is not
// usable; call NewExtractor.
type Extractor struct {
	maxAmount   int64
	idiomAmount int64
}

// NewExtractor creates an extractor clamping amounts to maxAmount.
// Non-positive arguments fall back to the defaults.
func NewExtractor(maxAmount, idiomAmount int64) *Extractor {
	if maxAmount <= 0 {
		maxAmount = DefaultMaxAmount
	}
	if idiomAmount <= 0 {
		idiomAmount = DefaultIdiomAmount
	}
	return &Extractor{maxAmount: maxAmount, idiomAmount: idiomAmount}
}

// MaxAmount returns the configured ceiling.
func (e *Extractor) MaxAmount() int64 {
	return e.maxAmount
}

// Amount parses a loan amount in rupees from free text.
func (e *Extractor) Amount(text string) (int64, bool) {
	amount, _, ok := e.AmountWithRule(text)
	return amount, ok
}

// AmountWithRule is Amount plus the name of the rule that matched.
func (e *Extractor) AmountWithRule(text string) (int64, string, bool) {
	msg := strings.ToLower(strings.TrimSpace(text))
	if msg == "" {
		return 0, "", false
	}
	for _, rule := range amountRules {
		value, ok := rule.match(e, msg)
		if !ok {
			continue
		}
		amount := e.clamp(value)
		if amount <= 0 {
			return 0, "", false
		}
		return amount, rule.Name, true
	}
	return 0, "", false
}

func (e *Extractor) clamp(value float64) int64 {
	amount := int64(math.Round(value))
	if amount > e.maxAmount {
		return e.maxAmount
	}
	return amount
}

func matchCompound(_ *Extractor, msg string) (float64, bool) {
	m := compoundRe.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}
	lakhs, _ := strconv.ParseFloat(m[1], 64)
	thousands, _ := strconv.ParseFloat(m[2], 64)
	return lakhs*100000 + thousands*1000, true
}

func matchWordUnit(_ *Extractor, msg string) (float64, bool) {
	for _, rule := range wordUnitRes {
		if rule.re.MatchString(msg) {
			return rule.value, true
		}
	}
	return 0, false
}

func matchDigitUnit(_ *Extractor, msg string) (float64, bool) {
	for _, rule := range digitUnitRes {
		m := rule.re.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return n * rule.value, true
	}
	return 0, false
}

func matchWordThousand(_ *Extractor, msg string) (float64, bool) {
	for _, rule := range wordThousandRes {
		if rule.re.MatchString(msg) {
			return rule.value, true
		}
	}
	return 0, false
}

func matchAndHalf(_ *Extractor, msg string) (float64, bool) {
	if !andHalfRe.MatchString(msg) {
		return 0, false
	}
	switch {
	case lakhWordRe.MatchString(msg):
		return 150000, true
	case croreWordRe.MatchString(msg):
		return 15000000, true
	}
	return 0, false
}

func matchCurrency(_ *Extractor, msg string) (float64, bool) {
	m := currencyRe.FindStringSubmatch(strings.ReplaceAll(msg, ",", ""))
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func matchStandalone(_ *Extractor, msg string) (float64, bool) {
	clean := strings.ReplaceAll(msg, ",", "")
	for _, run := range standaloneRe.FindAllString(clean, -1) {
		if looksLikeMobile(run) {
			continue
		}
		n, err := strconv.ParseFloat(run, 64)
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}

func matchIdiom(e *Extractor, msg string) (float64, bool) {
	for _, idiom := range idioms {
		if strings.Contains(msg, idiom) {
			return float64(e.idiomAmount), true
		}
	}
	return 0, false
}

func looksLikeMobile(digits string) bool {
	return len(digits) == 10 && digits[0] >= '6' && digits[0] <= '9'
}
