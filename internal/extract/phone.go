package extract

import (
	"regexp"
	"strings"
)

var (
	// phoneClusterRe finds digit runs that may contain separators.
	phoneClusterRe = regexp.MustCompile(`\+?\(?\+?\d[\d\s\-.()]*\d`)
	digitRunRe     = regexp.MustCompile(`\d+`)
	nonDigitRe     = regexp.MustCompile(`\D`)
	bareDigitsRe   = regexp.MustCompile(`^[\s+\-.()\d]+$`)
)

// NormalizePhone reduces raw input to a 10 digit Indian mobile number.
// It accepts +91, 91 and trunk 0 prefixes and any separators.
func NormalizePhone(raw string) (string, bool) {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		digits = digits[2:]
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		digits = digits[1:]
	}
	if !looksLikeMobile(digits) {
		return "", false
	}
	return digits, true
}

// Phone finds a mobile number inside free text. A message made only of
// digits and separators is treated as a phone number first.
func Phone(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	if bareDigitsRe.MatchString(text) {
		if phone, ok := NormalizePhone(text); ok {
			return phone, true
		}
	}

	for _, cluster := range phoneClusterRe.FindAllString(text, -1) {
		if phone, ok := NormalizePhone(cluster); ok {
			return phone, true
		}
		// A cluster can glue an amount to a number; look at its parts.
		for _, part := range strings.Fields(cluster) {
			if phone, ok := NormalizePhone(part); ok {
				return phone, true
			}
		}
	}

	for _, run := range digitRunRe.FindAllString(text, -1) {
		if phone, ok := NormalizePhone(run); ok {
			return phone, true
		}
	}
	return "", false
}
