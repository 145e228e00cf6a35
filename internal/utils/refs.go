package utils

import (
	"fmt"
	"strings"
	"time"
)

// LoanID builds a sanction identifier: LV + issue date + last four digits of the phone.
func LoanID(phone string, issuedAt time.Time) string {
	return fmt.Sprintf("LV%s%s", issuedAt.Format("20060102"), LastDigits(phone, 4))
}

// BureauReference mirrors the reference format printed on bureau pulls.
func BureauReference(phone string, pulledAt time.Time) string {
	return fmt.Sprintf("CIBIL/%s/%s", pulledAt.Format("20060102"), LastDigits(phone, 4))
}

// EscalationReference tags a human handoff with the customer's first name.
func EscalationReference(customerName string) string {
	first := strings.ToUpper(FirstName(customerName))
	if first == "" {
		first = "CUSTOMER"
	}
	return first + "-ESCALATE"
}
