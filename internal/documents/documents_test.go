package documents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSalarySlip(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		outcome  SlipOutcome
	}{
		{"payslip pdf", "Salary_Slip_March.pdf", 120 * 1024, SlipAccepted},
		{"payroll png", "payroll-2025.PNG", 300 * 1024, SlipAccepted},
		{"wrong type", "salary.docx", 120 * 1024, SlipRejected},
		{"too small", "salary.pdf", 1024, SlipRejected},
		{"too large", "salary.pdf", 21 * 1024 * 1024, SlipRejected},
		{"unrelated name", "document.pdf", 120 * 1024, SlipNeedsConfirmation},
		{"screenshot of slip", "screenshot_salary.png", 120 * 1024, SlipNeedsConfirmation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := ValidateSalarySlip(tt.filename, tt.size)
			assert.Equal(t, tt.outcome, check.Outcome())
		})
	}
}

func TestSlipReport(t *testing.T) {
	check := ValidateSalarySlip("photo.pdf", 1024)
	lines := check.Lines()
	require.Len(t, lines, 3)
	assert.True(t, lines[0].Passed)
	assert.False(t, lines[1].Passed)
	assert.Contains(t, lines[1].Detail, "too small")
	assert.False(t, lines[2].Passed)

	report := RenderReport(lines)
	assert.Contains(t, report, "Document Verification Report")
	assert.Contains(t, report, "**File size:**")
}

func TestSanctionGenerator(t *testing.T) {
	gen, err := NewSanctionGenerator()
	require.NoError(t, err)

	issued := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	details := LoanDetails{
		CustomerName:     "Rahul Sharma",
		Phone:            "9876543210",
		PAN:              "ABCDE1234F",
		City:             "Bangalore",
		CreditScore:      780,
		PreApprovedLimit: 500000,
		Amount:           400000,
		Rate:             11.5,
		TenureMonths:     36,
		EMI:              13191,
		TotalInterest:    74876,
		TotalPayment:     474876,
		ApprovalType:     "INSTANT",
		IssuedAt:         issued,
	}

	md, err := gen.Markdown(details)
	require.NoError(t, err)
	assert.Contains(t, string(md), "LV202503143210")
	assert.Contains(t, string(md), "LVSL/2025/03/543210")
	assert.Contains(t, string(md), "13 April 2025")
	assert.Contains(t, string(md), "01 April 2025")
	assert.Contains(t, string(md), "01 March 2028")
	assert.Contains(t, string(md), "| City | Bangalore |")
	assert.Contains(t, string(md), "| Sanctioned Amount | ₹400,000 |\n| Pre-approved Limit | ₹500,000 |\n| Interest Rate")

	details.PreApprovedLimit = 0
	md, err = gen.Markdown(details)
	require.NoError(t, err)
	assert.NotContains(t, string(md), "Pre-approved Limit")
	assert.Contains(t, string(md), "| Sanctioned Amount | ₹400,000 |\n| Interest Rate")
	details.PreApprovedLimit = 500000

	doc, err := gen.Generate(details)
	require.NoError(t, err)
	html := string(doc)
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "₹400,000")
	assert.Contains(t, html, "11.5%")
	assert.Contains(t, html, "Sanction Letter LV202503143210")
}
