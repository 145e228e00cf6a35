package conversation

import (
	"fmt"
	"strings"

	"github.com/Ananth-NQI/loanverse-backend/internal/affordability"
	"github.com/Ananth-NQI/loanverse-backend/internal/extract"
	"github.com/Ananth-NQI/loanverse-backend/internal/models"
	"github.com/Ananth-NQI/loanverse-backend/internal/utils"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━"

func inr(v int64) string { return utils.FormatINR(v) }

func firstNameOr(name, fallback string) string {
	if f := utils.FirstName(name); f != "" {
		return f
	}
	return fallback
}

func askNameMessage() string {
	return "May I have your name to get started?"
}

func fallbackMessage() string {
	return "Sorry, I didn't quite catch that. Could you rephrase? I can help you check your pre-approved loan, compare EMIs or explain our rates."
}

// Warm opening and purpose discovery

func nameWithAmountMessage(amount int64) string {
	return fmt.Sprintf("Got it, you're looking for **%s**. Before I check what's possible, may I have your name?", inr(amount))
}

func niceToMeetMessage(name string) string {
	return fmt.Sprintf("Nice to meet you, %s! 😊", firstNameOr(name, name))
}

func askPurposeMessage() string {
	return "What brings you here today?\n\n" +
		"💍 **Wedding**\n📚 **Education**\n🏥 **Medical**\n🏠 **Home Renovation**\n✈️ **Travel**\n💼 **Business**\n\n" +
		"Or just tell me in your own words what the loan is for."
}

func purposeRepromptMessage(amount int64) string {
	if amount > 0 {
		return fmt.Sprintf("Noted, **%s**. What will the loan be used for? For example a wedding, education, medical bills, home renovation, travel or business.", inr(amount))
	}
	return "Could you tell me what the loan is for? For example a wedding, education, medical bills, home renovation, travel or business."
}

var celebrations = map[extract.Purpose]string{
	extract.PurposeWedding:   "How wonderful, congratulations on the upcoming wedding! 🎊",
	extract.PurposeEducation: "Excellent! Investing in education is one of the best decisions you can make. 📚",
	extract.PurposeMedical:   "I understand. We're here to help you through this. 🏥",
	extract.PurposeTravel:    "How exciting! Everyone deserves a break. ✈️",
	extract.PurposeHome:      "Great choice! A comfortable home matters so much. 🏠",
	extract.PurposeBusiness:  "Fantastic! We love supporting entrepreneurs. 💼",
}

func celebrationMessage(p extract.Purpose) string {
	if c, ok := celebrations[p]; ok {
		return c
	}
	return "Thank you for sharing that with me! Let's find the right loan for you."
}

func askPhoneMessage() string {
	return "To pull up your pre-approved offer, please share your **10-digit mobile number**.\n\n" +
		"🔒 By sharing it you consent to a **soft credit inquiry**. It does not affect your credit score, " +
		"and your data is used only to process this application."
}

// Verification

func invalidPhoneMessage() string {
	return "That doesn't look like a valid Indian mobile number. Please enter the 10 digits, for example 98765 43210."
}

func notFoundMessage(phone string) string {
	return fmt.Sprintf("I couldn't find a pre-approved profile for **%s**.\n\nAre you a new customer with us? (Yes/No)", phone)
}

func newCustomerMessage() string {
	return "Thanks for letting me know! This assistant is currently available to existing pre-approved customers.\n\n" +
		"You can visit your nearest LoanVerse branch to start a fresh application, " +
		"or re-enter your mobile number if you think you typed it incorrectly."
}

func reenterPhoneMessage() string {
	return "No problem. Please enter the correct 10-digit mobile number linked to your account."
}

func identityMismatchMessage(provided, registered string) string {
	return fmt.Sprintf("🔐 **Identity Check**\n\nThis number is registered to **%s**, but you introduced yourself as **%s**.\n\n"+
		"If you are %s and would like to continue with this profile, reply **yes**. Otherwise, please share the correct number.",
		registered, provided, registered)
}

func mismatchDeclinedMessage() string {
	return "Understood, I won't proceed with that profile. Please provide the correct mobile number registered in your name."
}

func scoreTier(score int) (string, string) {
	switch {
	case score >= 780:
		return "Exceptional, top 10% in India", "🏆"
	case score >= 750:
		return "Excellent, top 25% in India", "⭐"
	case score >= 720:
		return "Very good, above average", "✓"
	case score >= 700:
		return "Good, qualifies for standard rates", "✓"
	default:
		return "Fair, just below our preferred range", "⚠️"
	}
}

type profileCard struct {
	profile     models.CustomerProfile
	rate        float64
	maxCapacity int64
	bureauRef   string
	purpose     string
	askAmount   bool
}

func (c profileCard) String() string {
	p := c.profile
	tier, emoji := scoreTier(p.CreditScore)

	var b strings.Builder
	b.WriteString("Thank you! Pulling up your profile now...\n\n")
	if c.bureauRef != "" {
		fmt.Fprintf(&b, "_Bureau reference: %s_\n\n", c.bureauRef)
	}
	fmt.Fprintf(&b, "✅ **Identity verified.** Welcome back, **%s**! 👋\n\n", p.Name)
	fmt.Fprintf(&b, "%s\n📊 **YOUR FINANCIAL PROFILE**\n%s\n\n", rule, rule)
	fmt.Fprintf(&b, "💳 **Credit Score:** %d/900 %s\n   %s\n\n", p.CreditScore, emoji, tier)
	fmt.Fprintf(&b, "💰 **Pre-Approved Limit:** %s\n   Instant approval up to this amount\n\n", inr(p.PreApprovedLimit))
	fmt.Fprintf(&b, "📈 **Your Interest Rate:** %s per annum\n", utils.FormatRate(c.rate))
	if p.Employment != "" {
		fmt.Fprintf(&b, "\n👔 **Employment:** %s\n", p.Employment)
	}

	fmt.Fprintf(&b, "\n%s\n🧮 **AFFORDABILITY & LIMITS**\n%s\n", rule, rule)
	if p.MonthlySalary > 0 {
		fmt.Fprintf(&b, "• **Monthly Income:** %s\n", inr(p.MonthlySalary))
	}
	if p.CurrentEMIs > 0 {
		detail := p.CurrentLoanDetails
		if detail == "" {
			detail = "existing loans"
		}
		fmt.Fprintf(&b, "• **Current EMIs:** %s/month (%s)\n", inr(p.CurrentEMIs), detail)
	} else {
		b.WriteString("• **Current EMIs:** ₹0/month, a clean slate!\n")
	}
	if c.maxCapacity > p.PreApprovedLimit {
		fmt.Fprintf(&b, "• **Max Capacity:** up to %s with income proof\n", inr(c.maxCapacity))
	} else {
		fmt.Fprintf(&b, "• **Max Capacity:** %s\n", inr(c.maxCapacity))
	}

	switch {
	case p.CreditScore >= 780:
		fmt.Fprintf(&b, "\n💡 A %d score gets you our lowest rate, the highest limits and the fastest processing.\n", p.CreditScore)
	case p.CreditScore >= 750:
		fmt.Fprintf(&b, "\n💡 A %d score gets you a competitive rate and quick processing.\n", p.CreditScore)
	case p.CreditScore < 700:
		fmt.Fprintf(&b, "\n💡 Your score is %d points below our 700 threshold. Six months of on-time payments could lift it past 720.\n", 700-p.CreditScore)
	}

	if c.askAmount {
		fmt.Fprintf(&b, "\n%s\n\nNow, for your **%s**, how much would you like to borrow? (Remember, up to %s is approved instantly.)",
			rule, strings.ToLower(c.purpose), inr(p.PreApprovedLimit))
	} else {
		b.WriteString("\nRunning your affordability check now...")
	}
	return b.String()
}

// Needs analysis

func amountPromptMessage(limit int64) string {
	return fmt.Sprintf("How much would you like to borrow? You can say something like '3 lakh' or '250000'. Up to %s is approved instantly.", inr(limit))
}

func amountTooSmallMessage(minimum int64) string {
	return fmt.Sprintf("Our personal loans start at %s. How much would you like to borrow?", inr(minimum))
}

type analysisView struct {
	name        string
	purpose     string
	amount      int64
	salary      int64
	existing    int64
	loanDetails string
	score       int
	assessment  affordability.Assessment
}

func (v analysisView) header() string {
	return fmt.Sprintf("Got it, **%s** for your %s.\n\nLet me check your affordability...\n\n", inr(v.amount), strings.ToLower(v.purpose))
}

func (v analysisView) comfortable() string {
	a := v.assessment
	name := firstNameOr(v.name, "there")
	var b strings.Builder
	b.WriteString(v.header())
	switch {
	case v.existing == 0:
		fmt.Fprintf(&b, "%s\n✅ **EXCELLENT SITUATION!**\n%s\n\n", rule, rule)
		fmt.Fprintf(&b, "• Monthly Salary: %s\n• Current EMIs: ₹0\n• Proposed EMI: %s\n• **DTI: %s** ✅\n\n",
			inr(v.salary), inr(a.ProposedEMI), utils.FormatPercent(a.DTI))
		fmt.Fprintf(&b, "%s, with no existing loans this is very comfortable for you. Here are three ways to repay:", name)
	case strings.Contains(strings.ToLower(v.loanDetails), "education loan"):
		fmt.Fprintf(&b, "%s, I see you're repaying an education loan at %s a month. On-time payments like yours (your %d score shows it) count in your favour.\n\n",
			name, inr(v.existing), v.score)
		fmt.Fprintf(&b, "• Total EMIs would be %s\n• That's %s of your salary\n• It leaves %s for living expenses\n\nVery manageable. Here are your options:",
			inr(a.TotalEMI), utils.FormatPercent(a.DTI), inr(a.Available))
	default:
		fmt.Fprintf(&b, "%s\n✅ **AFFORDABILITY CHECK**\n%s\n\n", rule, rule)
		fmt.Fprintf(&b, "• Monthly Salary: %s\n• Existing EMIs: %s\n• Proposed EMI: %s\n• **Total DTI: %s** ✅ (under the 50%% limit)\n\n",
			inr(v.salary), inr(v.existing), inr(a.ProposedEMI), utils.FormatPercent(a.DTI))
		fmt.Fprintf(&b, "Everything looks good, %s. You keep healthy income for living expenses. Let's look at your options:", name)
	}
	return b.String()
}

func (v analysisView) tenureExtension() string {
	return v.header() + fmt.Sprintf("%s\n⚠️ **LONGER TENURE RECOMMENDED**\n%s\n\n", rule, rule) +
		fmt.Sprintf("%s, a 3-year loan would take your debt-to-income ratio to %s, above our 50%% comfort threshold. "+
			"A longer tenure brings the EMI down. Compare the options below, the extended plan keeps you safest:",
			firstNameOr(v.name, "there"), utils.FormatPercent(v.assessment.DTI))
}

func (v analysisView) salaryRequired(limit int64) string {
	return v.header() + fmt.Sprintf("📄 **Salary Verification Required**\n\n"+
		"%s is above your instant limit of %s, but within what we can approve after verifying your income.\n\n"+
		"Please upload your **latest salary slip** (PDF, JPG or PNG). Once it checks out I'll show you your repayment options.",
		inr(v.amount), inr(limit))
}

func (v analysisView) overCapacity(safe int64) string {
	return v.header() + fmt.Sprintf("⚠️ **AFFORDABILITY ANALYSIS**\n\n"+
		"Adding this loan would push your debt-to-income ratio to %s, above our 50%% safety threshold.\n\n"+
		"The most you can comfortably borrow right now is **%s**. Would you like to proceed with that amount instead?",
		utils.FormatPercent(v.assessment.DTI), inr(safe))
}

func plansMessage(set affordability.PlanSet) string {
	var b strings.Builder
	for _, p := range set.Plans {
		star := ""
		if p.Recommended {
			star = " ⭐"
		}
		fmt.Fprintf(&b, "%s\n📋 **OPTION %d: %s**%s\n%s\n", rule, p.Option, p.Label, star, rule)
		fmt.Fprintf(&b, "EMI: %s/month\n", inr(p.EMI))
		fmt.Fprintf(&b, "Total interest: %s\n", inr(p.TotalInterest))
		if set.Salary > 0 {
			fmt.Fprintf(&b, "Total EMIs: %s (%s of salary)\n", inr(p.TotalEMI), utils.FormatPercent(p.DTI))
			fmt.Fprintf(&b, "Left for other expenses: %s/month\n", inr(p.Available))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "All at %s per annum for %s.\n\n", utils.FormatRate(set.Rate), inr(set.Amount))
	b.WriteString("💡 **My recommendation:** Option 2. It keeps the EMI comfortable while saving on interest.\n\n")
	b.WriteString("Reply **1**, **2** or **3**, or tell me a tenure you prefer (for example '48 months').")
	return b.String()
}

func rejectionMessage(reason string, score int) string {
	return fmt.Sprintf("I understand this isn't the news you hoped for. 😔\n\n"+
		"**Current status:** I'm unable to approve this loan today.\n\n**Reason:** %s\n\n"+
		"This is not permanent. A score of %d can improve with a few months of on-time payments, "+
		"card balances under 30%% of the limit and fewer new credit applications.", reason, score)
}

func adviceCard(p models.CustomerProfile) string {
	pathB := "Improve Your CIBIL Score"
	pathBDetail := fmt.Sprintf("Your score is %d/900, %d points from our standard tier.", p.CreditScore, max(700-p.CreditScore, 0))
	if p.CurrentEMIs > 0 {
		pathB = "Loan Consolidation"
		pathBDetail = "Roll your existing EMIs into a single product at a lower rate."
	}
	return fmt.Sprintf("Here are the paths available to you:\n\n"+
		"**Path A: Start with what's approved instantly**\nI can approve up to **%s** right now, no documents needed.\n\n"+
		"**Path B: %s**\n%s\n\n"+
		"**Path C: Wait & Strengthen**\nCome back in 3 to 6 months with a stronger score for a fast-track approval.\n\n"+
		"Which path would you like? (Type **Path A**, **Path B** or **Path C**)",
		inr(p.PreApprovedLimit), pathB, pathBDetail)
}

func pathAMessage(limit int64) string {
	return fmt.Sprintf("Great choice! 💪 I can approve up to **%s** instantly with no salary slip.\n\n"+
		"**How much would you like to borrow?** Tell me an amount and I'll run the check right away.", inr(limit))
}

func pathBConsolidationMessage(advisor, phone string) string {
	return "Smart thinking! 🔄 Consolidation can simplify your finances and lower your overall EMI.\n\n" +
		"**Next steps:**\n- Share your existing loans (lender, outstanding, EMI)\n" +
		"- Our team prepares a consolidated offer within 24 hours\n- Typical savings: 1 to 3% lower rate and a single EMI\n\n" +
		fmt.Sprintf("📞 **%s** (%s) can arrange this for you.", advisor, phone)
}

func pathBScoreMessage(name string, score int, estimate int64) string {
	return fmt.Sprintf("Smart move, %s! 📈 Your score is **%d/900**, just **%d points** from our 700+ standard tier at 13.5%%.\n\n"+
		"**Your 3-month plan:**\n✅ Pay every bill and EMI on time\n✅ Keep card balances under 30%% of the limit\n✅ Avoid new credit applications\n\n"+
		"After 3 to 6 months you could qualify for up to **%s** at 13.5%%.",
		firstNameOr(name, "there"), score, max(700-score, 0), inr(estimate))
}

func pathCMessage(score int) string {
	return fmt.Sprintf("A wise choice! 🌱 Strengthening your profile first means better rates and higher limits.\n\n"+
		"**Your 6-month timeline:**\n📅 Months 1 to 3: build a consistent payment history\n"+
		"📅 Months 3 to 5: watch your CIBIL score (target %d+)\n"+
		"📅 Month 6: come back and we'll fast-track your application.\n\nWe'll be here whenever you're ready. 🤝",
		min(score+50, 900))
}

func hardCapMessage(reason string, alternative int64) string {
	return fmt.Sprintf("⚠️ %s\n\nThe most I can offer you is **%s**. Would you like to proceed with that amount?", reason, inr(alternative))
}

func debtTrapMessage(reason string, alternative int64) string {
	return fmt.Sprintf("⚠️ %s\n\nA loan of **%s** keeps your repayments safe. Shall we go with that instead?", reason, inr(alternative))
}

func renegotiationExploreMessage(safe int64) string {
	return fmt.Sprintf("Absolutely, let's find what works best for you. 😊\n\n"+
		"Our affordability check suggests up to **%s** is comfortable given your income and commitments.\n\n"+
		"**What amount would you like me to check?**", inr(safe))
}

func renegotiationClarifyMessage(safe int64) string {
	return fmt.Sprintf("Just to confirm, shall I proceed with **%s**, or would you like to explore a different amount?\n\n"+
		"Reply **yes** to proceed or tell me the amount you'd prefer.", inr(safe))
}

func renegotiationDeclinedMessage(safe int64) string {
	return fmt.Sprintf("No problem. The maximum safe amount for you is **%s**. What amount would you like me to check?", inr(safe))
}

func amountUpdatedMessage(amount int64) string {
	return fmt.Sprintf("Great, I'll update your requested amount to **%s** and recalculate your options.", inr(amount))
}

func rateLockedMessage(amount int64, explainer string) string {
	return fmt.Sprintf("I've locked in your loan amount at **%s**.\n\nNow, about the interest rate:\n\n%s", inr(amount), explainer)
}

// rateObjectionMessage breaks the rate into its components. The risk premium
// is whatever remains after the fixed parts.
func rateObjectionMessage(score int, rate float64) string {
	const (
		base      = 6.5
		operating = 2.0
	)
	discount := 0.0
	if score >= 750 {
		discount = -0.5
	}
	risk := rate - base - operating - discount

	var b strings.Builder
	fmt.Fprintf(&b, "I completely understand your concern. Here's exactly how we arrived at %s:\n\n", utils.FormatRate(rate))
	b.WriteString("📊 **RATE BREAKDOWN**\n")
	fmt.Fprintf(&b, "• Base rate (RBI repo linked): %s\n", utils.FormatRate(base))
	fmt.Fprintf(&b, "• Operating cost: %s\n", utils.FormatRate(operating))
	fmt.Fprintf(&b, "• Risk premium (unsecured loan): %s\n", utils.FormatRate(risk))
	fmt.Fprintf(&b, "• Your score discount: %s\n", utils.FormatRate(discount))
	fmt.Fprintf(&b, "**Final rate: %s**\n\n", utils.FormatRate(rate))
	if score >= 780 {
		fmt.Fprintf(&b, "✅ With a score of %d you already have our best rate.\n\n", score)
	} else {
		b.WriteString("💡 On-time EMIs on this loan will lift your score and unlock lower rates on future loans.\n\n")
	}
	fmt.Fprintf(&b, "Would you like to proceed at %s, or would a **smaller amount** suit you better?", utils.FormatRate(rate))
	return b.String()
}

// Options

func optionPromptMessage() string {
	return "Please choose **Option 1**, **2** or **3**, or tell me a tenure in months (for example '48 months')."
}

func waitingForSlipMessage() string {
	return "I'm waiting for your salary slip. 📎 Please upload it (PDF, JPG or PNG, between 2 KB and 20 MB) and I'll verify it right away."
}

func typedSalaryMessage(salary int64) string {
	return fmt.Sprintf("Thanks, I've noted %s a month. I still need the salary slip itself to verify it. 📎 Please upload it (PDF, JPG or PNG, between 2 KB and 20 MB).", inr(salary))
}

func unexpectedUploadMessage() string {
	return "Thanks! I'm not expecting a document right now, so I haven't used this file. I'll ask if I need your salary slip."
}

func slipRejectedMessage() string {
	return "❌ I couldn't use this file. Please upload your salary slip again as a PDF, JPG or PNG between 2 KB and 20 MB."
}

func slipConfirmMessage(filename string) string {
	return fmt.Sprintf("The file '%s' doesn't look like a salary slip from its name. Is this your latest salary slip? "+
		"Reply **confirm** to continue or upload the correct file.", filename)
}

func slipReuploadMessage() string {
	return "No problem. Please upload your latest salary slip when you're ready. 📎"
}

func slipVerifiedMessage(amount int64, salary int64, dti float64) string {
	return fmt.Sprintf("✅ **Salary Slip Verified**\n\n• Monthly income confirmed: %s\n• Debt-to-income ratio: %s\n• Approved amount: **%s**\n\nHere are your repayment options:",
		inr(salary), utils.FormatPercent(dti), inr(amount))
}

func slipFailedMessage(reason string, alternative int64) string {
	msg := fmt.Sprintf("❌ **Salary Verification Failed**\n\n%s", reason)
	if alternative > 0 {
		msg += fmt.Sprintf("\n\nBased on your verified income, I can offer **%s** safely. Would you like to proceed with that amount?", inr(alternative))
	}
	return msg
}

func tenureTooLongMessage(maxMonths int) string {
	return fmt.Sprintf("Our longest tenure is %d months. Would you like to pick one of the options above or a tenure up to %d months?", maxMonths, maxMonths)
}

func tenureUnaffordableMessage(months int, extended affordability.Plan) string {
	return fmt.Sprintf("A %d-month tenure would still stretch your budget beyond our safe limit, and no tenure up to 84 months brings it under 50%% of your income.\n\n"+
		"The gentlest option is **Option 3: %s** at %s/month. Would you like that, or a smaller amount?",
		months, extended.Label, inr(extended.EMI))
}

func tenureCounterOfferMessage(requested, safe int, emi int64) string {
	return fmt.Sprintf("At %d months the EMI would push your debt-to-income ratio above 50%%. "+
		"The shortest safe tenure is **%d months** at **%s/month**. Shall I go with %d months?",
		requested, safe, inr(emi), safe)
}

func confirmationSummary(p models.CustomerProfile, sel Selection, purpose string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Perfect choice, %s!\n\n%s\n✅ **YOUR LOAN SUMMARY**\n%s\n\n", firstNameOr(p.Name, "there"), rule, rule)
	fmt.Fprintf(&b, "• Borrower: %s\n", p.Name)
	if p.City != "" {
		fmt.Fprintf(&b, "• Location: %s\n", p.City)
	}
	if p.Employment != "" {
		fmt.Fprintf(&b, "• Employment: %s\n", p.Employment)
	}
	fmt.Fprintf(&b, "• Purpose: %s\n• Amount: %s\n• Interest rate: %s p.a.\n• Tenure: %d months\n• EMI: %s\n• Total interest: %s\n",
		purpose, inr(sel.Amount), utils.FormatRate(sel.Rate), sel.TenureMonths, inr(sel.EMI), inr(sel.TotalInterest))

	switch {
	case strings.Contains(p.City, "Mumbai"):
		b.WriteString("\n💡 **Mumbai tip:** keep about ₹50,000 aside as a buffer, city expenses can surprise you.\n")
	case strings.Contains(p.City, "Bangalore") && strings.Contains(p.Employment, "Engineer"):
		b.WriteString("\n💡 **Tech tip:** consider putting annual bonuses towards prepayment to close the loan faster.\n")
	case strings.EqualFold(purpose, extract.PurposeMedical.Label()):
		b.WriteString("\n🏥 I've marked this as a medical priority. Keep a buffer for follow-up care.\n")
	}
	b.WriteString("\nShall I generate your official **Sanction Letter**? (Yes/No)")
	return b.String()
}

// Confirmation and documentation

func confirmPromptMessage(sel Selection) string {
	return fmt.Sprintf("Shall I proceed with the sanction letter for %s over %d months at %s/month? (Yes/No)",
		inr(sel.Amount), sel.TenureMonths, inr(sel.EMI))
}

func backToOptionsMessage(set *affordability.PlanSet) string {
	msg := "No problem, let's revisit your options."
	if set != nil {
		msg += "\n\n" + plansMessage(*set)
	}
	return msg
}

func sanctionSuccessMessage(loanID string, amount int64, validUntil string) string {
	return fmt.Sprintf("🎊 **CONGRATULATIONS! Your loan is APPROVED!**\n\n"+
		"Your %s loan has been sanctioned.\n\n📄 **Sanction Letter:** %s (valid until %s)\n\n"+
		"**Next steps:**\n1. Download and e-sign the sanction letter\n2. Upload your PAN card and last 3 months' bank statement\n"+
		"3. Funds are disbursed within 24 to 48 hours ⚡\n\nIs there anything else I can help with?",
		inr(amount), loanID, validUntil)
}

func disbursementMessage() string {
	return "💸 **Disbursement timeline**\n\n• Document verification: within 24 hours\n" +
		"• Disbursement: 24 to 48 hours after verification, straight to your registered bank account\n\n" +
		"You'll get an SMS and email as soon as the funds are credited."
}

func documentChecklistMessage() string {
	return "📋 **Documents for disbursement**\n\n1. Aadhaar (e-KYC)\n2. PAN card\n3. Last 3 months' salary slips\n" +
		"4. Last 6 months' bank statement\n5. Signed sanction letter\n6. NACH mandate for auto-debit"
}

func repaymentMessage(sel *Selection) string {
	if sel == nil {
		return "🔁 EMIs are auto-debited through NACH on the 1st of every month."
	}
	return fmt.Sprintf("🔁 Your EMI of **%s** is auto-debited through NACH on the 1st of every month for %d months.",
		inr(sel.EMI), sel.TenureMonths)
}

func approvedInfoMessage(loanID, advisor, phone string) string {
	return fmt.Sprintf("Your loan **%s** is approved and your sanction letter is ready. "+
		"Ask me about disbursement, documents or EMI payments, or reach %s at %s.", loanID, advisor, phone)
}

// Follow-ups

func followUpMessage(s *Session) string {
	name := firstNameOr(s.CustomerName(), "there")
	switch {
	case s.Phase == PhaseConfirmation && s.Selection != nil:
		return fmt.Sprintf("Hi %s, your %s plan at **%s/month** is still waiting for you. Reply *yes* to lock it in, or *no* to compare options again.",
			name, s.Selection.Label, inr(s.Selection.EMI))
	case s.Phase == PhaseOptions && s.Step == StepAwaitingSalarySlip:
		return fmt.Sprintf("Hi %s, just a reminder: upload your latest salary slip and I can finish checking your %s loan.", name, s.PurposeLabel())
	case s.Phase == PhaseOptions:
		return fmt.Sprintf("Hi %s, your personalised EMI options are ready whenever you are. Reply with *Option 1*, *2* or *3*, or tell me a tenure you prefer.", name)
	default:
		return fmt.Sprintf("Hi %s, I'm still here to help with your %s loan. Reply whenever you're ready to continue.", name, s.PurposeLabel())
	}
}
