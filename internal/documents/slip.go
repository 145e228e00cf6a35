package documents

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
)

const (
	minSlipBytes = 2 * 1024
	maxSlipBytes = 20480 * 1024
)

var (
	slipExtensions = map[string]struct{}{"pdf": {}, "jpg": {}, "jpeg": {}, "png": {}}

	salaryKeywords = []string{
		"salary", "payslip", "pay_slip", "payroll", "paystub", "pay_stub",
		"income", "compensation", "wage", "earning", "slip", "stub", "ctc",
		"offer_letter", "offer letter", "employment", "hike", "remuner",
	}

	// unrelatedFlags mark screenshots and camera output that are rarely payslips.
	unrelatedFlags = []string{
		"screenshot", "photo", "img_", "dsc_", "cam", "whatsapp",
		"selfie", "profile", "wallpaper", "meme", "video", "thumbnail",
	}
)

// SlipOutcome is the overall result of an upload check.
type SlipOutcome string

const (
	// SlipRejected means the file cannot be used and must be uploaded again.
	SlipRejected SlipOutcome = "rejected"
	// SlipNeedsConfirmation means the file is usable but does not look like a payslip.
	SlipNeedsConfirmation SlipOutcome = "needs_confirmation"
	SlipAccepted          SlipOutcome = "accepted"
)

// SlipCheck is the metadata-level validation of an uploaded salary slip.
type SlipCheck struct {
	Filename  string `json:"filename"`
	Extension string `json:"extension"`
	SizeBytes int64  `json:"size_bytes"`
	TypeOK    bool   `json:"type_ok"`
	SizeOK    bool   `json:"size_ok"`
	SalaryDoc bool   `json:"salary_doc"`
	Unrelated bool   `json:"unrelated"`
	KeywordOK bool   `json:"keyword_ok"`
}

// ValidateSalarySlip checks type, size and filename of an upload. The
// content itself is not inspected.
func ValidateSalarySlip(filename string, size int64) SlipCheck {
	name := strings.ToLower(filename)
	ext := strings.TrimPrefix(filepath.Ext(name), ".")

	_, typeOK := slipExtensions[ext]
	salaryDoc := extract.ContainsAny(name, salaryKeywords...)
	unrelated := extract.ContainsAny(name, unrelatedFlags...)

	return SlipCheck{
		Filename:  filename,
		Extension: ext,
		SizeBytes: size,
		TypeOK:    typeOK,
		SizeOK:    size >= minSlipBytes && size <= maxSlipBytes,
		SalaryDoc: salaryDoc,
		Unrelated: unrelated,
		KeywordOK: salaryDoc && !unrelated,
	}
}

// Outcome classifies the check: a wrong type or size is a hard failure,
// a filename that doesn't look like a payslip needs confirmation.
func (c SlipCheck) Outcome() SlipOutcome {
	switch {
	case !c.TypeOK || !c.SizeOK:
		return SlipRejected
	case !c.KeywordOK:
		return SlipNeedsConfirmation
	default:
		return SlipAccepted
	}
}

// CheckLine is one row of a verification report.
type CheckLine struct {
	Label  string
	Passed bool
	Detail string
}

// Lines describes the type, size and keyword results for a report card.
func (c SlipCheck) Lines() []CheckLine {
	kb := float64(c.SizeBytes) / 1024

	typeDetail := fmt.Sprintf("Accepted format: **%s**", strings.ToUpper(c.Extension))
	if !c.TypeOK {
		typeDetail = fmt.Sprintf("Unsupported format '.%s'. Please upload PDF, JPG or PNG", c.Extension)
	}

	sizeDetail := fmt.Sprintf("**%.1f KB**", kb)
	switch {
	case c.SizeBytes < minSlipBytes:
		sizeDetail = fmt.Sprintf("File too small (%.1f KB), it may be blank or corrupt", kb)
	case c.SizeBytes > maxSlipBytes:
		sizeDetail = fmt.Sprintf("File too large (%.1f MB), please compress and re-upload", kb/1024)
	}

	keywordDetail := fmt.Sprintf("'%s' looks like a salary document", c.Filename)
	switch {
	case !c.SalaryDoc:
		keywordDetail = fmt.Sprintf("'%s' doesn't look like a salary slip", c.Filename)
	case c.Unrelated:
		keywordDetail = "The filename suggests this may not be a financial document"
	}

	return []CheckLine{
		{Label: "File type", Passed: c.TypeOK, Detail: typeDetail},
		{Label: "File size", Passed: c.SizeOK, Detail: sizeDetail},
		{Label: "Document keyword match", Passed: c.KeywordOK, Detail: keywordDetail},
	}
}

// RenderReport formats check lines as a Markdown card.
func RenderReport(lines []CheckLine) string {
	var b strings.Builder
	b.WriteString("🔍 **Document Verification Report**\n")
	for _, l := range lines {
		icon := "✅"
		if !l.Passed {
			icon = "⚠️"
		}
		fmt.Fprintf(&b, "\n%s **%s:** %s", icon, l.Label, l.Detail)
	}
	return b.String()
}
