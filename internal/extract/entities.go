package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Ananth-NQI/loanverse-backend/internal/utils"
)

// Purpose is a loan purpose category.
type Purpose string

const (
	PurposeUnspecified       Purpose = ""
	PurposeWedding           Purpose = "wedding"
	PurposeEducation         Purpose = "education"
	PurposeMedical           Purpose = "medical"
	PurposeHome              Purpose = "home"
	PurposeTravel            Purpose = "travel"
	PurposeBusiness          Purpose = "business"
	PurposeDebtConsolidation Purpose = "debt_consolidation"
	PurposeVehicle           Purpose = "vehicle"
	PurposeEmergency         Purpose = "emergency"
	PurposePersonal          Purpose = "personal"
)

var purposeLabels = map[Purpose]string{
	PurposeWedding:           "Wedding",
	PurposeEducation:         "Education",
	PurposeMedical:           "Medical",
	PurposeHome:              "Home Renovation",
	PurposeTravel:            "Travel",
	PurposeBusiness:          "Business",
	PurposeDebtConsolidation: "Debt Consolidation",
	PurposeVehicle:           "Vehicle",
	PurposeEmergency:         "Emergency",
	PurposePersonal:          "Personal",
}

// Label is the display form of the purpose.
func (p Purpose) Label() string {
	if l, ok := purposeLabels[p]; ok {
		return l
	}
	return "Personal"
}

// purposeTable is scanned in order; the first category with a matching
// keyword wins.
var purposeTable = []struct {
	purpose Purpose
	words   WordSet
}{
	{PurposeWedding, NewWordSet("wedding", "weddings", "shaadi", "shadi", "marriage", "vivah", "bride", "groom")},
	{PurposeEducation, NewWordSet("education", "college", "university", "course", "degree", "studies", "study", "fees", "school", "tuition", "mba")},
	{PurposeMedical, NewWordSet("medical", "hospital", "health", "surgery", "treatment", "doctor", "medicine", "operation")},
	{PurposeHome, NewWordSet("renovation", "renovate", "home improvement", "repair", "repairs", "construction", "interior", "interiors", "remodel", "furnish", "furniture", "home", "house")},
	{PurposeTravel, NewWordSet("travel", "trip", "vacation", "holiday", "tour", "abroad")},
	{PurposeBusiness, NewWordSet("business", "startup", "shop", "store", "enterprise", "venture")},
	{PurposeDebtConsolidation, NewWordSet("debt", "debts", "consolidation", "consolidate", "credit card", "credit cards", "existing loan", "pay off", "payoff")},
	{PurposeVehicle, NewWordSet("car", "bike", "vehicle", "scooter", "two-wheeler", "four-wheeler")},
	{PurposeEmergency, NewWordSet("emergency", "urgent", "urgently")},
	{PurposePersonal, NewWordSet("personal", "expenses", "gadget", "phone", "laptop")},
}

// ExtractPurpose classifies the loan purpose, or PurposeUnspecified.
func ExtractPurpose(text string) Purpose {
	for _, row := range purposeTable {
		if row.words.Match(text) {
			return row.purpose
		}
	}
	return PurposeUnspecified
}

var (
	punctuationRe      = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	apostropheReplacer = strings.NewReplacer("'", "", "’", "")

	nameStopWords = buildStopWords(
		// greetings and filler
		"hi", "hello", "hey", "namaste", "namaskar", "good", "morning", "evening", "afternoon",
		"i", "im", "am", "my", "name", "is", "its", "this", "here", "me", "call", "called",
		"the", "a", "an", "and", "of", "for", "to", "with", "please", "help", "apply",
		"need", "want", "get", "looking", "would", "like", "loan", "mera", "naam", "hai",
		"yes", "ok", "okay", "sure", "no", "years", "year", "old", "age",
		// units and currency
		"rs", "rupees", "inr", "k", "l", "lakh", "lakhs", "lac", "lacs", "thousand",
		"crore", "crores", "cr", "hajar", "hazaar", "peti", "khokha",
		// spoken numbers
		"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten",
		"fifty", "hundred", "ek", "do", "teen", "char", "paanch", "panch", "chhe", "saat",
		"aath", "nau", "das", "dedh", "dhai", "sawa", "paune",
		// purposes
		"wedding", "education", "travel", "medical", "business", "home", "renovation",
		"house", "studies", "college", "trip", "holiday", "emergency", "hospital",
		"startup", "shop", "car", "bike", "personal",
	)
)

func buildStopWords(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Name pulls a customer name out of an introduction such as
// "Hi, I am Rahul Sharma". It keeps at most two tokens.
func Name(text string) (string, bool) {
	clean := apostropheReplacer.Replace(strings.ToLower(text))
	clean = punctuationRe.ReplaceAllString(clean, " ")
	var kept []string
	for _, tok := range strings.Fields(clean) {
		if _, stop := nameStopWords[tok]; stop {
			continue
		}
		if HasDigit(tok) {
			continue
		}
		kept = append(kept, tok)
		if len(kept) == 2 {
			break
		}
	}
	if len(kept) == 0 {
		return "", false
	}
	return utils.TitleCase(strings.Join(kept, " ")), true
}

var (
	tenureMonthsRe = regexp.MustCompile(`(\d+)\s*(?:months|month|mo|m)\b`)
	tenureYearsRe  = regexp.MustCompile(`(\d+)\s*(?:years|year|yrs|yr|y)\b`)
)

// Tenure reads a duration in months; years are converted.
func Tenure(text string) (int, bool) {
	msg := strings.ToLower(text)
	if m := tenureMonthsRe.FindStringSubmatch(msg); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n, true
		}
	}
	if m := tenureYearsRe.FindStringSubmatch(msg); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n * 12, true
		}
	}
	return 0, false
}

var optionRes = []struct {
	re     *regexp.Regexp
	option int
}{
	{regexp.MustCompile(`\b(?:1|one|first)\b`), 1},
	{regexp.MustCompile(`\b(?:2|two|second)\b`), 2},
	{regexp.MustCompile(`\b(?:3|three|third)\b`), 3},
}

// Option reads a plan choice between 1 and 3.
func Option(text string) (int, bool) {
	msg := strings.ToLower(text)
	for _, o := range optionRes {
		if o.re.MatchString(msg) {
			return o.option, true
		}
	}
	return 0, false
}

var (
	salaryKRe     = regexp.MustCompile(`(\d+)\s*k\b`)
	salaryLabelRe = regexp.MustCompile(`(?:salary|income|earning|earnings|ctc)\D*?(\d{4,})`)
)

// Salary reads a monthly salary figure such as "75k" or "salary is 75000".
func Salary(text string) (int64, bool) {
	msg := strings.ReplaceAll(strings.ToLower(text), ",", "")
	if m := salaryKRe.FindStringSubmatch(msg); m != nil {
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil && n > 0 {
			return n * 1000, true
		}
	}
	if m := salaryLabelRe.FindStringSubmatch(msg); m != nil {
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}
