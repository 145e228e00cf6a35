package negotiation

import (
	"fmt"
	"strings"

	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
	"github.com/Ananth-NQI/loanverse-backend/internal/utils"
)

// Path is one of the alternatives offered on the second amount pushback.
type Path string

const (
	PathSalarySlip Path = "PATH_1"
	PathCoBorrower Path = "PATH_2"
	PathSplitLoan  Path = "PATH_3"
)

// Action tells the conversation what to do after a path is taken.
type Action string

const (
	ActionSalarySlip Action = "SALARY_SLIP"
	ActionCoBorrower Action = "CO_BORROWER"
	ActionSplitLoan  Action = "SPLIT_LOAN"
)

var pathRules = []struct {
	path    Path
	signals []string
}{
	{PathSalarySlip, []string{
		"path 1", "path1", "salary slip", "salary", "upload", "payslip",
		"income proof", "slip verification", "verify income", "first path",
		"first option", "option 1", "option a",
	}},
	{PathCoBorrower, []string{
		"path 2", "path2", "co-borrower", "coborrower", "co borrower",
		"joint", "add someone", "spouse", "parent", "sibling", "guarantor",
		"second path", "second option", "option 2", "option b",
	}},
	{PathSplitLoan, []string{
		"path 3", "path3", "split", "two products", "separate", "partial",
		"half now", "proceed with", "approved amount", "go ahead with",
		"third path", "third option", "option 3", "option c",
	}},
}

// DetectPath recognises a choice among the alternative paths.
func DetectPath(text string) (Path, bool) {
	msg := strings.ToLower(strings.TrimSpace(text))
	for _, rule := range pathRules {
		if extract.ContainsAny(msg, rule.signals...) {
			return rule.path, true
		}
	}
	return "", false
}

// ExecutePath explains the chosen path and returns the follow-up action.
func (e *Engine) ExecutePath(path Path, ctx Context) (string, Action) {
	name := ctx.firstName()
	var b strings.Builder

	switch path {
	case PathSalarySlip:
		fmt.Fprintf(&b, "Good choice, %s. Salary verification is the quickest way to a higher limit.\n\n", name)
		b.WriteString("**Next steps:**\n")
		b.WriteString("- Upload your **latest salary slip** (PDF, JPG or PNG)\n")
		b.WriteString("- We check the income against your profile\n")
		fmt.Fprintf(&b, "- If it confirms at least %s, we may approve up to **%s**\n\n",
			utils.FormatINR(ctx.Salary), utils.FormatINR(enhancedLimit(ctx)))
		b.WriteString("Go ahead and upload it whenever you're ready. 📎")
		return b.String(), ActionSalarySlip

	case PathCoBorrower:
		c := e.advisor
		fmt.Fprintf(&b, "A co-borrower can make a big difference, %s.\n\n", name)
		b.WriteString("**How it works:**\n")
		b.WriteString("- Both incomes count towards the DTI calculation\n")
		fmt.Fprintf(&b, "- That could unlock the full **%s**\n\n", utils.FormatINR(ctx.Requested))
		b.WriteString("**Who qualifies:** a spouse, parent, sibling or employed adult child with a valid PAN and salary proof.\n\n")
		b.WriteString("Our advisor will help set up the joint application:\n")
		fmt.Fprintf(&b, "**%s** · %s\n📞 **%s** · 📧 **%s**\n\n", c.Name, c.Title, c.Phone, c.Email)
		fmt.Fprintf(&b, "Meanwhile, would you like to take the pre-approved **%s** right away?",
			utils.FormatINR(ctx.Approved))
		return b.String(), ActionCoBorrower

	case PathSplitLoan:
		fmt.Fprintf(&b, "Sensible, %s. Let's start with what is fully approved today.\n\n", name)
		fmt.Fprintf(&b, "I'll proceed with **%s** as your personal loan.\n\n", utils.FormatINR(ctx.Approved))
		fmt.Fprintf(&b, "**For the remaining %s:**\n", utils.FormatINR(max(ctx.Requested-ctx.Approved, 0)))
		b.WriteString("- After 3–4 months of repayments your DTI profile improves\n")
		b.WriteString("- You can then apply for a top-up or home improvement loan for the balance\n\n")
		fmt.Fprintf(&b, "Here are your EMI options for %s.", utils.FormatINR(ctx.Approved))
		return b.String(), ActionSplitLoan
	}
	return "", ""
}
