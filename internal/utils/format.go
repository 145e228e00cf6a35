package utils

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer = message.NewPrinter(language.English)
	titler  = cases.Title(language.English)
)

// FormatINR renders a rupee amount with thousands grouping, e.g. ₹400,000.
func FormatINR(amount int64) string {
	return printer.Sprintf("₹%d", amount)
}

// FormatNumber groups digits without a currency symbol.
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatPercent renders a percentage with one decimal place.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatRate renders an annual rate without trailing zeros, e.g. 11.5% or 15%.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "%"
}

// TitleCase capitalizes every word of s.
func TitleCase(s string) string {
	return titler.String(strings.ToLower(s))
}

// FirstName returns the first whitespace separated token of name.
func FirstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// LastDigits returns the trailing n digits of a phone number, or the whole
// string when it is shorter.
func LastDigits(phone string, n int) string {
	if len(phone) <= n {
		return phone
	}
	return phone[len(phone)-n:]
}
