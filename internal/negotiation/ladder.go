package negotiation

import (
	"fmt"
	"strings"

	"github.com/Ananth-NQI/loanverse-backend/internal/affordability"
	"github.com/Ananth-NQI/loanverse-backend/internal/utils"
)

// Tier names the strength of a counter-argument.
type Tier string

const (
	TierEducate   Tier = "educate"
	TierTradeOff  Tier = "trade_off"
	TierSweetener Tier = "sweetener"
	TierHandoff   Tier = "handoff"
)

var tiers = [MaxAttempts]Tier{TierEducate, TierTradeOff, TierSweetener}

const (
	defaultRate   = 13.5
	defaultTenure = 36
	floorRate     = 10.5
)

// Context is the loan picture the negotiator argues from.
type Context struct {
	CustomerName string
	CreditScore  int
	Rate         float64
	Requested    int64
	Approved     int64
	Salary       int64
	CurrentEMIs  int64
	Purpose      string
	EMI          int64
	TenureMonths int
}

func (c Context) firstName() string {
	if name := utils.FirstName(c.CustomerName); name != "" {
		return name
	}
	return "there"
}

func (c Context) rate() float64 {
	if c.Rate > 0 {
		return c.Rate
	}
	return defaultRate
}

// principal is the amount on the table: approved when known, requested otherwise.
func (c Context) principal() int64 {
	if c.Approved > 0 {
		return c.Approved
	}
	return c.Requested
}

// Response is one negotiation reply.
type Response struct {
	Domain  Domain   `json:"domain"`
	Attempt int      `json:"attempt"`
	Tier    Tier     `json:"tier"`
	Text    string   `json:"text"`
	Handoff *Handoff `json:"handoff,omitempty"`
}

// Engine produces counter-arguments and alternative paths.
type Engine struct {
	advisor Contact
}

// NewEngine creates a negotiator that escalates to advisor. A zero Contact
// falls back to DefaultAdvisor.
func NewEngine(advisor Contact) *Engine {
	if advisor.Name == "" {
		advisor = DefaultAdvisor
	}
	return &Engine{advisor: advisor}
}

// Advisor is the contact customers are escalated to.
func (e *Engine) Advisor() Contact {
	return e.advisor
}

// Negotiate fires the state and answers with the matching tier, or the
// handoff once the ladder is exhausted. ok is false when there is nothing
// to negotiate.
func (e *Engine) Negotiate(state *State, intent Domain, ctx Context) (Response, bool) {
	domain, attempt, handoff := state.Fire(intent)
	if domain == DomainNone {
		return Response{}, false
	}
	if handoff {
		return e.handoffResponse(domain, attempt, ctx), true
	}
	return e.Respond(domain, ctx, attempt), true
}

// Respond returns the counter-argument for a zero-based attempt index.
// Attempts from MaxAttempts on are answered with the human handoff.
func (e *Engine) Respond(domain Domain, ctx Context, attempt int) Response {
	if attempt < 0 {
		attempt = 0
	}
	if attempt >= MaxAttempts {
		return e.handoffResponse(domain, attempt, ctx)
	}

	var text string
	switch domain {
	case DomainRate:
		text = rateTier(ctx, attempt)
	case DomainAmount:
		text = amountTier(ctx, attempt)
	default:
		domain = DomainEMI
		text = emiTier(ctx, attempt)
	}
	return Response{Domain: domain, Attempt: attempt, Tier: tiers[attempt], Text: text}
}

func (e *Engine) handoffResponse(domain Domain, attempt int, ctx Context) Response {
	h := e.Handoff(ctx.CustomerName)
	return Response{Domain: domain, Attempt: attempt, Tier: TierHandoff, Text: h.Text, Handoff: &h}
}

func rateTier(ctx Context, attempt int) string {
	name := ctx.firstName()
	rate := ctx.rate()
	score := ctx.CreditScore
	if score == 0 {
		score = 750
	}
	amount := ctx.principal()

	var b strings.Builder
	switch attempt {
	case 0:
		fmt.Fprintf(&b, "That's a fair question, %s. Here is exactly how your rate is set.\n\n", name)
		fmt.Fprintf(&b, "**Why %s:**\n", utils.FormatRate(rate))
		fmt.Fprintf(&b, "- Your CIBIL score of **%d/900** places you in a risk tier\n", score)
		b.WriteString("- Pricing is risk-based, as RBI requires of NBFCs\n")
		b.WriteString("- Tiers: 800+ → 10.5% | 750–799 → 11.5% | 700–749 → 13.5% | below 700 → 15%\n\n")
		b.WriteString("**What the market charges:**\n")
		b.WriteString("- Public sector banks: 13–17% p.a.\n")
		b.WriteString("- Other NBFCs: 14–24% p.a.\n")
		b.WriteString("- Gold loans: 14–18% p.a.\n\n")
		fmt.Fprintf(&b, "At **%s** you are already near the bottom of that range, and the processing fee "+
			"(₹1,499–₹5,000 elsewhere) is waived.\n\n", utils.FormatRate(rate))
		b.WriteString("Shall we go ahead, or would you like a total cost comparison?")
	case 1:
		improvedScore := min(score+50, 900)
		improvedRate := max(rate-1.0, floorRate)
		current := int64(float64(amount) * rate / 1200)
		improved := int64(float64(amount) * improvedRate / 1200)
		fmt.Fprintf(&b, "I want you to get the best deal, %s, so here are two ways to look at it.\n\n", name)
		b.WriteString("**Option A: improve your score first**\n")
		fmt.Fprintf(&b, "Your score is %d. Over 3–6 months:\n", score)
		b.WriteString("- Pay every existing EMI on time → +20–30 points\n")
		b.WriteString("- Keep card utilisation under 30% → +15–20 points\n")
		b.WriteString("- Avoid new credit enquiries → +10 points\n")
		fmt.Fprintf(&b, "- Projected score ~%d → **rate falls to %s**\n\n", improvedScore, utils.FormatRate(improvedRate))
		fmt.Fprintf(&b, "**Option B: proceed today at %s**\n", utils.FormatRate(rate))
		fmt.Fprintf(&b, "On %s the monthly interest component is:\n", utils.FormatINR(amount))
		fmt.Fprintf(&b, "- At %s: %s\n", utils.FormatRate(rate), utils.FormatINR(current))
		fmt.Fprintf(&b, "- At %s: %s\n", utils.FormatRate(improvedRate), utils.FormatINR(improved))
		fmt.Fprintf(&b, "- Difference: %s a month\n\n", utils.FormatINR(current-improved))
		b.WriteString("Waiting six months usually costs more than that difference, but it is your call. Which suits you?")
	default:
		fmt.Fprintf(&b, "You drive a hard bargain, %s! This is the best package I can put together:\n\n", name)
		fmt.Fprintf(&b, "1. **Rate locked at %s** for 30 days\n", utils.FormatRate(rate))
		b.WriteString("2. **Zero processing fee**, against a market average of ₹3,000–₹5,000\n")
		b.WriteString("3. **Rate review** after 12 on-time EMIs if your score improves\n")
		b.WriteString("4. **No pre-closure penalty**\n\n")
		b.WriteString("Together that is worth ₹5,000–₹8,000. It is the most flexibility I have today.\n\n")
		b.WriteString("I can also put you in touch with our **Senior Loan Advisor**, who has discretionary authority. " +
			"Would you like that, or shall we go ahead with this package?")
	}
	return b.String()
}

func amountTier(ctx Context, attempt int) string {
	name := ctx.firstName()
	requested := ctx.Requested
	approved := ctx.Approved
	salary := ctx.Salary
	purpose := ctx.Purpose
	if purpose == "" {
		purpose = "your needs"
	}

	var b strings.Builder
	switch attempt {
	case 0:
		capacity := salary / 2
		emi := affordability.EMI(requested, defaultTenure, ctx.rate())
		dti := min(affordability.DTI(emi, ctx.CurrentEMIs, salary), 99)
		fmt.Fprintf(&b, "I understand wanting the full amount, %s. %s for %s is a reasonable ask, "+
			"so let me show you where the number comes from.\n\n", name, utils.FormatINR(requested), purpose)
		b.WriteString("**Your affordability (RBI debt-to-income rule):**\n")
		fmt.Fprintf(&b, "- Monthly take-home: **%s**\n", utils.FormatINR(salary))
		fmt.Fprintf(&b, "- Existing EMIs: **%s**\n", utils.FormatINR(ctx.CurrentEMIs))
		fmt.Fprintf(&b, "- EMI capacity at 50%% of salary: **%s**\n", utils.FormatINR(capacity))
		fmt.Fprintf(&b, "- Free capacity after existing EMIs: **%s**\n\n", utils.FormatINR(capacity-ctx.CurrentEMIs))
		fmt.Fprintf(&b, "%s over 36 months needs about %s a month, taking your DTI to **~%s**, "+
			"above the **50%% ceiling**.\n\n", utils.FormatINR(requested), utils.FormatINR(emi), utils.FormatPercent(dti))
		fmt.Fprintf(&b, "Keeping to %s holds you at or under 50%% and protects your credit score.\n\n", utils.FormatINR(approved))
		fmt.Fprintf(&b, "Shall we proceed with %s, or look at an alternative path?", utils.FormatINR(approved))
	case 1:
		fmt.Fprintf(&b, "Understood, %s. Here are three concrete ways to get closer to what you need.\n\n", name)
		b.WriteString("**Path 1: Salary slip verification**\n")
		fmt.Fprintf(&b, "Upload your latest salary slip and I will run an enhanced check. If your income of %s "+
			"is confirmed, I may approve up to **%s** under conditional approval.\n\n",
			utils.FormatINR(salary), utils.FormatINR(enhancedLimit(ctx)))
		b.WriteString("**Path 2: Add a co-borrower**\n")
		fmt.Fprintf(&b, "A spouse, parent or sibling's income is added to yours, which could unlock the full **%s**.\n\n",
			utils.FormatINR(requested))
		b.WriteString("**Path 3: Split into two products**\n")
		fmt.Fprintf(&b, "Take %s now and apply for the remaining %s as a separate product in 3–4 months, "+
			"once your DTI has improved.\n\n", utils.FormatINR(approved), utils.FormatINR(max(requested-approved, 0)))
		b.WriteString("Which path works for you?")
	default:
		increased := min(requested, int64(float64(approved)*1.15))
		fmt.Fprintf(&b, "Here is my final offer, %s, after a manual review:\n\n", name)
		b.WriteString("**Negotiated terms:**\n")
		fmt.Fprintf(&b, "- Amount: **%s** (was %s)\n", utils.FormatINR(increased), utils.FormatINR(approved))
		fmt.Fprintf(&b, "- Condition: a salary slip confirming income of at least %s\n", utils.FormatINR(salary))
		b.WriteString("- Tenure: 48 months to keep the EMI manageable\n")
		b.WriteString("- Everything else unchanged\n\n")
		fmt.Fprintf(&b, "That is %s above the standard offer and the most I can clear at this level.\n\n",
			utils.FormatINR(max(increased-approved, 0)))
		b.WriteString("If it still falls short, our **Senior Relationship Manager** can approve higher limits. " +
			"Shall I connect you, or would you like to accept this offer?")
	}
	return b.String()
}

func emiTier(ctx Context, attempt int) string {
	name := ctx.firstName()
	rate := ctx.rate()
	amount := ctx.principal()
	tenure := ctx.TenureMonths
	if tenure <= 0 {
		tenure = defaultTenure
	}
	emi := ctx.EMI
	if emi <= 0 {
		emi = affordability.EMI(amount, tenure, rate)
	}
	emi60 := affordability.EMI(amount, 60, rate)
	emi84 := affordability.EMI(amount, 84, rate)

	var b strings.Builder
	switch attempt {
	case 0:
		fmt.Fprintf(&b, "Monthly cash flow matters, %s. Here is how the EMI moves with tenure.\n\n", name)
		fmt.Fprintf(&b, "**%s at %s:**\n", utils.FormatINR(amount), utils.FormatRate(rate))
		b.WriteString("| Tenure | Monthly EMI | Total Interest |\n")
		b.WriteString("|--------|-------------|----------------|\n")
		fmt.Fprintf(&b, "| %d months (current) | **%s** | %s |\n", tenure, utils.FormatINR(emi),
			utils.FormatINR(affordability.TotalInterest(emi, tenure, amount)))
		fmt.Fprintf(&b, "| 60 months | **%s** | %s |\n", utils.FormatINR(emi60),
			utils.FormatINR(affordability.TotalInterest(emi60, 60, amount)))
		fmt.Fprintf(&b, "| 84 months | **%s** | %s |\n\n", utils.FormatINR(emi84),
			utils.FormatINR(affordability.TotalInterest(emi84, 84, amount)))
		fmt.Fprintf(&b, "Moving to **60 months** lowers your EMI by %s a month. You pay a little more interest "+
			"overall but keep more room each month.\n\n", utils.FormatINR(max(emi-emi60, 0)))
		b.WriteString("Which tenure fits your budget?")
	case 1:
		fmt.Fprintf(&b, "Let's go further, %s. There are more ways to ease the monthly load.\n\n", name)
		b.WriteString("**Strategy 1: maximum tenure (84 months)**\n")
		fmt.Fprintf(&b, "- EMI drops to **%s**, the lowest possible\n", utils.FormatINR(emi84))
		b.WriteString("- Pre-close any time after 6 EMIs without penalty\n\n")
		b.WriteString("**Strategy 2: step-up EMI**\n")
		b.WriteString("- Start lower and step up 5–10% a year alongside your increments\n\n")
		b.WriteString("**Strategy 3: part pre-payment**\n")
		b.WriteString("- A ₹50,000 pre-payment at month 6 noticeably reduces later EMIs\n\n")
		if ctx.Salary > 0 {
			fmt.Fprintf(&b, "On a salary of %s, an EMI of %s is only **%d%% of your take-home**.\n\n",
				utils.FormatINR(ctx.Salary), utils.FormatINR(emi60), emi60*100/ctx.Salary)
		}
		b.WriteString("Which strategy should I work out in detail?")
	default:
		fmt.Fprintf(&b, "I've taken the numbers as far as the system allows, %s. My best EMI offer:\n\n", name)
		fmt.Fprintf(&b, "- **84 months** → EMI **%s/month**\n", utils.FormatINR(emi84))
		b.WriteString("- **Zero processing fee**\n")
		b.WriteString("- **No pre-closure penalty**\n")
		b.WriteString("- **EMI revision** on request after 12 months\n\n")
		if ctx.Salary > 0 {
			fmt.Fprintf(&b, "That is %d%% of your salary, well inside the RBI guideline.\n\n", emi84*100/ctx.Salary)
		}
		b.WriteString("For anything more flexible, such as a moratorium or balloon repayment, our **Senior Loan Advisor** " +
			"can help. Shall I escalate?")
	}
	return b.String()
}

// enhancedLimit is what salary verification can unlock: up to 1.5x the
// approved amount, never more than was asked for.
func enhancedLimit(ctx Context) int64 {
	return min(ctx.Requested, int64(float64(ctx.Approved)*1.5))
}
