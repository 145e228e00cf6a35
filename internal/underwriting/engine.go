package underwriting

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ananth-NQI/loanverse-backend/internal/affordability"
	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
	"github.com/Ananth-NQI/loanverse-backend/internal/models"
	"github.com/Ananth-NQI/loanverse-backend/internal/utils"
)

// Status is the eligibility outcome.
type Status string

const (
	StatusApprove      Status = "APPROVE"
	StatusConditional  Status = "CONDITIONAL"
	StatusReject       Status = "REJECT"
	StatusUserNotFound Status = "USER_NOT_FOUND"
)

// ApprovalType distinguishes how an approval was reached.
type ApprovalType string

const (
	ApprovalInstant        ApprovalType = "INSTANT"
	ApprovalSalaryVerified ApprovalType = "SALARY_VERIFIED"
)

// Rule names the matrix row that produced a decision.
type Rule string

const (
	RuleProfileLookup Rule = "profile_lookup"
	RuleScoreGate     Rule = "score_gate"
	RuleInstant       Rule = "instant"
	RuleConditional   Rule = "conditional"
	RuleHardCap       Rule = "hard_cap"
)

// NeedSalarySlip is the follow-up required by a conditional decision.
const NeedSalarySlip = "SALARY_SLIP"

// Decision is an immutable eligibility result.
type Decision struct {
	Status         Status       `json:"status"`
	Rule           Rule         `json:"rule"`
	Type           ApprovalType `json:"type,omitempty"`
	CustomerName   string       `json:"customer_name,omitempty"`
	CreditScore    int          `json:"credit_score,omitempty"`
	ApprovedAmount int64        `json:"approved_amount,omitempty"`
	EMI            int64        `json:"emi,omitempty"`
	Rate           float64      `json:"rate,omitempty"`
	DTI            float64      `json:"dti,omitempty"`
	TenureMonths   int          `json:"tenure_months,omitempty"`
	Limit          int64        `json:"limit"`
	MaxEligible    int64        `json:"max_eligible"`
	Needs          string       `json:"needs,omitempty"`
	Reason         string       `json:"reason"`
}

// ProfileLookup resolves a normalized phone number to a profile.
type ProfileLookup interface {
	GetProfileByPhone(ctx context.Context, phone string) (*models.CustomerProfile, error)
}

// Engine applies the four-rule eligibility matrix.
type Engine struct {
	profiles ProfileLookup
	policy   affordability.Policy
}

// NewEngine wires the engine to a profile source.
func NewEngine(profiles ProfileLookup, policy affordability.Policy) *Engine {
	return &Engine{profiles: profiles, policy: policy}
}

// Evaluate looks the customer up and runs EvaluateProfile. A lookup miss is
// reported as USER_NOT_FOUND; only infrastructure failures return an error.
func (e *Engine) Evaluate(ctx context.Context, phone string, amount int64, salary *int64) (Decision, error) {
	profile, err := e.profiles.GetProfileByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return Decision{
				Status: StatusUserNotFound,
				Rule:   RuleProfileLookup,
				Reason: "No pre-approved offer found for this number.",
			}, nil
		}
		return Decision{}, fmt.Errorf("lookup profile: %w", err)
	}
	return e.EvaluateProfile(*profile, amount, salary), nil
}

// EvaluateProfile runs the matrix top to bottom:
//
//	1 score below minimum            REJECT
//	2 amount within limit            APPROVE INSTANT unless the 60 month DTI is a debt trap
//	3 amount within twice the limit  CONDITIONAL until salary is known, then DTI gated
//	4 anything larger                REJECT with twice the limit as maximum
func (e *Engine) EvaluateProfile(p models.CustomerProfile, amount int64, salary *int64) Decision {
	limit := p.PreApprovedLimit

	if p.CreditScore < e.policy.MinCreditScore {
		return Decision{
			Status:       StatusReject,
			Rule:         RuleScoreGate,
			CustomerName: p.Name,
			CreditScore:  p.CreditScore,
			Limit:        limit,
			Reason: fmt.Sprintf("Credit score of %d is below our minimum requirement of %d.",
				p.CreditScore, e.policy.MinCreditScore),
		}
	}

	rate := affordability.RiskBasedRate(p.CreditScore)
	standardEMI := affordability.EMI(amount, e.policy.StandardTenure, rate)
	lenientEMI := affordability.EMI(amount, e.policy.LenientTenure, rate)

	if amount <= limit {
		dti := affordability.DTI(lenientEMI, p.CurrentEMIs, p.MonthlySalary)
		if dti > e.policy.DebtTrapDTI {
			return Decision{
				Status:       StatusReject,
				Rule:         RuleInstant,
				CustomerName: p.Name,
				CreditScore:  p.CreditScore,
				Rate:         rate,
				DTI:          dti,
				Limit:        limit,
				Reason: fmt.Sprintf("Although pre-approved, your existing EMIs (%s) plus this new loan would exceed %.0f%% of your income even on the longest tenure (DTI %s at %d months).",
					utils.FormatINR(p.CurrentEMIs), e.policy.DebtTrapDTI, utils.FormatPercent(dti), e.policy.LenientTenure),
			}
		}
		return Decision{
			Status:         StatusApprove,
			Rule:           RuleInstant,
			Type:           ApprovalInstant,
			CustomerName:   p.Name,
			CreditScore:    p.CreditScore,
			ApprovedAmount: amount,
			EMI:            standardEMI,
			Rate:           rate,
			DTI:            dti,
			TenureMonths:   e.policy.StandardTenure,
			Limit:          limit,
			MaxEligible:    limit,
			Reason: fmt.Sprintf("Loan of %s is within your pre-approved limit of %s.",
				utils.FormatINR(amount), utils.FormatINR(limit)),
		}
	}

	if amount <= 2*limit {
		if salary == nil {
			return Decision{
				Status:       StatusConditional,
				Rule:         RuleConditional,
				CustomerName: p.Name,
				CreditScore:  p.CreditScore,
				Rate:         rate,
				Limit:        limit,
				MaxEligible:  2 * limit,
				Needs:        NeedSalarySlip,
				Reason: fmt.Sprintf("%s exceeds your limit of %s. Please provide your salary slip to verify repayment capacity.",
					utils.FormatINR(amount), utils.FormatINR(limit)),
			}
		}

		dti := affordability.DTI(lenientEMI, p.CurrentEMIs, *salary)
		if dti > e.policy.SafeDTI {
			return Decision{
				Status:       StatusReject,
				Rule:         RuleConditional,
				CustomerName: p.Name,
				CreditScore:  p.CreditScore,
				EMI:          standardEMI,
				Rate:         rate,
				DTI:          dti,
				Limit:        limit,
				Reason: fmt.Sprintf("Based on your salary (%s) and existing obligations (%s), the new EMI takes your DTI to %s, above our %.0f%% DTI limit.",
					utils.FormatINR(*salary), utils.FormatINR(p.CurrentEMIs), utils.FormatPercent(dti), e.policy.SafeDTI),
			}
		}
		return Decision{
			Status:         StatusApprove,
			Rule:           RuleConditional,
			Type:           ApprovalSalaryVerified,
			CustomerName:   p.Name,
			CreditScore:    p.CreditScore,
			ApprovedAmount: amount,
			EMI:            standardEMI,
			Rate:           rate,
			DTI:            dti,
			TenureMonths:   e.policy.StandardTenure,
			Limit:          limit,
			MaxEligible:    2 * limit,
			Reason: fmt.Sprintf("Approved %s after salary verification. Your DTI is healthy at %s.",
				utils.FormatINR(amount), utils.FormatPercent(dti)),
		}
	}

	return Decision{
		Status:       StatusReject,
		Rule:         RuleHardCap,
		CustomerName: p.Name,
		CreditScore:  p.CreditScore,
		Rate:         rate,
		Limit:        limit,
		MaxEligible:  2 * limit,
		Reason: fmt.Sprintf("%s exceeds our maximum lending limit of %s (2x your pre-approved limit).",
			utils.FormatINR(amount), utils.FormatINR(2*limit)),
	}
}

// Summary is a one-line status for logs and operator views.
func (e *Engine) Summary(ctx context.Context, phone string, amount int64) (string, error) {
	d, err := e.Evaluate(ctx, phone, amount, nil)
	if err != nil {
		return "", err
	}
	switch d.Status {
	case StatusApprove:
		return fmt.Sprintf("APPROVED | Score: %d/900 | Type: %s", d.CreditScore, d.Type), nil
	case StatusReject:
		return fmt.Sprintf("REJECTED | Score: %d/900 | Reason: %s", d.CreditScore, d.Reason), nil
	case StatusConditional:
		return fmt.Sprintf("CONDITIONAL | Score: %d/900 | Requires: Salary Slip Upload", d.CreditScore), nil
	default:
		return "Customer not found in CRM.", nil
	}
}
