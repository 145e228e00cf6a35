// Package documents validates uploaded salary slips and renders sanction letters.
package documents

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"text/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
	"github.com/Ananth-NQI/loanverse-backend/internal/utils"
)

// SanctionValidity is how long an issued sanction can be accepted.
const SanctionValidity = 30 * 24 * time.Hour

//go:embed templates/sanction.md.tmpl
var templateFS embed.FS

// LoanDetails is everything printed on a sanction letter.
type LoanDetails struct {
	LoanID        string
	CustomerName  string
	Phone         string
	Address       string
	PAN           string
	Employment    string
	City          string
	CreditScore   int
	Amount        int64
	Rate          float64
	TenureMonths  int
	EMI           int64
	TotalInterest int64
	TotalPayment  int64
	ApprovalType  string
	IssuedAt      time.Time

	// PreApprovedLimit is printed only when set.
	PreApprovedLimit int64
}

// ValidUntil is the last day the sanction can be accepted.
func (d LoanDetails) ValidUntil() time.Time {
	return d.IssuedAt.Add(SanctionValidity)
}

type letterData struct {
	LoanDetails
	SanctionNumber    string
	ApplicationNumber string
	ApprovalLabel     string
	ValidUntil        time.Time
	FirstEMIDate      time.Time
	LastEMIDate       time.Time
}

// SanctionGenerator renders sanction letters as standalone HTML documents.
type SanctionGenerator struct {
	tmpl *template.Template
	md   goldmark.Markdown
}

// NewSanctionGenerator parses the embedded letter template.
func NewSanctionGenerator() (*SanctionGenerator, error) {
	tmpl, err := template.New("sanction.md.tmpl").Funcs(template.FuncMap{
		"inr":  utils.FormatINR,
		"rate": utils.FormatRate,
		"date": func(t time.Time) string { return t.Format("02 January 2006") },
	}).ParseFS(templateFS, "templates/sanction.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse sanction template: %w", err)
	}

	return &SanctionGenerator{
		tmpl: tmpl,
		md:   goldmark.New(goldmark.WithExtensions(extension.Table)),
	}, nil
}

func (d LoanDetails) withDefaults() LoanDetails {
	if d.IssuedAt.IsZero() {
		d.IssuedAt = time.Now()
	}
	if d.LoanID == "" {
		d.LoanID = utils.LoanID(d.Phone, d.IssuedAt)
	}
	return d
}

// Markdown renders the letter body without converting it to HTML.
func (g *SanctionGenerator) Markdown(d LoanDetails) ([]byte, error) {
	d = d.withDefaults()
	firstEMI := time.Date(d.IssuedAt.Year(), d.IssuedAt.Month()+1, 1, 0, 0, 0, 0, d.IssuedAt.Location())
	data := letterData{
		LoanDetails:       d,
		SanctionNumber:    fmt.Sprintf("LVSL/%s/%s", d.IssuedAt.Format("2006/01"), utils.LastDigits(d.Phone, 6)),
		ApplicationNumber: fmt.Sprintf("LVAPP/%s/%s", d.IssuedAt.Format("20060102"), utils.LastDigits(d.Phone, 4)),
		ApprovalLabel:     approvalLabel(d.ApprovalType),
		ValidUntil:        d.ValidUntil(),
		FirstEMIDate:      firstEMI,
		LastEMIDate:       firstEMI.AddDate(0, max(d.TenureMonths-1, 0), 0),
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Generate renders the letter to an HTML document.
func (g *SanctionGenerator) Generate(d LoanDetails) ([]byte, error) {
	d = d.withDefaults()
	source, err := g.Markdown(d)
	if err != nil {
		return nil, apperrors.NewDocumentGenerationError(err)
	}

	var body bytes.Buffer
	if err := g.md.Convert(source, &body); err != nil {
		return nil, apperrors.NewDocumentGenerationError(err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>Sanction Letter %s</title>\n", html.EscapeString(d.LoanID))
	out.WriteString("<style>body{font-family:Helvetica,Arial,sans-serif;max-width:820px;margin:2em auto;color:#222}" +
		"table{border-collapse:collapse;width:100%}td,th{border-bottom:1px solid #ddd;padding:6px;text-align:left}" +
		"h1{color:#0b3d91}h2{text-align:center}</style>\n</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

func approvalLabel(approvalType string) string {
	switch approvalType {
	case "SALARY_VERIFIED":
		return "salary verified"
	case "INSTANT":
		return "instant, within pre-approved limit"
	case "":
		return "approved"
	default:
		return approvalType
	}
}
