package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "₹400,000", FormatINR(400000))
	assert.Equal(t, "₹10,000,000", FormatINR(10000000))
	assert.Equal(t, "₹950", FormatINR(950))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Rahul Sharma", TitleCase("rAHUL sharma"))
}

func TestReferences(t *testing.T) {
	day := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "LV202603141234", LoanID("9278901234", day))
	assert.Equal(t, "CIBIL/20260314/1234", BureauReference("9278901234", day))
	assert.Equal(t, "RAHUL-ESCALATE", EscalationReference("Rahul Sharma"))
	assert.Equal(t, "CUSTOMER-ESCALATE", EscalationReference(""))
}

func TestLastDigits(t *testing.T) {
	assert.Equal(t, "34", LastDigits("34", 4))
	assert.Equal(t, "1234", LastDigits("9278901234", 4))
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "11.5%", FormatRate(11.5))
	assert.Equal(t, "15%", FormatRate(15))
	assert.Equal(t, "48.3%", FormatPercent(48.26))
}
