package affordability

import (
	"fmt"

	"github.com/Ananth-NQI/loanverse-backend/internal/models"
	"github.com/Ananth-NQI/loanverse-backend/internal/utils"
)

// ValidationStatus classifies a requested amount against the profile.
type ValidationStatus string

const (
	StatusInstantApprove ValidationStatus = "INSTANT_APPROVE"
	StatusConditional    ValidationStatus = "CONDITIONAL"
	StatusExceedLimit    ValidationStatus = "EXCEED_LIMIT"
	StatusOverCapacity   ValidationStatus = "OVER_CAPACITY"
)

// AmountValidation is the outcome of ValidateAmountRequest.
type AmountValidation struct {
	Status            ValidationStatus `json:"status"`
	Message           string           `json:"message"`
	RequireSalary     bool             `json:"require_salary"`
	AlternativeAmount int64            `json:"alternative_amount,omitempty"`
}

// ValidateAmountRequest checks a request against the pre-approved limit and
// the customer's capacity to repay given existing EMIs.
func (e *Engine) ValidateAmountRequest(p models.CustomerProfile, amount int64) AmountValidation {
	limit := p.PreApprovedLimit
	rate := RiskBasedRate(p.CreditScore)

	switch {
	case amount <= limit:
		return AmountValidation{
			Status:  StatusInstantApprove,
			Message: "No additional verification needed!",
		}
	case amount <= 2*limit:
		proposed := EMI(amount, e.policy.StandardTenure, rate)
		if float64(proposed) <= e.maxSafeEMI(p.MonthlySalary, p.CurrentEMIs) {
			return AmountValidation{
				Status:        StatusConditional,
				Message:       "Need salary verification for this amount",
				RequireSalary: true,
			}
		}
		safe := e.SafeAmount(p.MonthlySalary, p.CurrentEMIs, rate, e.policy.LenientTenure)
		if safe < amount {
			return AmountValidation{
				Status:            StatusOverCapacity,
				Message:           fmt.Sprintf("Max you can afford: %s", utils.FormatINR(safe)),
				AlternativeAmount: safe,
			}
		}
		return AmountValidation{
			Status:        StatusConditional,
			Message:       "Need salary verification for this amount",
			RequireSalary: true,
		}
	default:
		return AmountValidation{
			Status:            StatusExceedLimit,
			Message:           fmt.Sprintf("Maximum possible: %s", utils.FormatINR(2*limit)),
			AlternativeAmount: 2 * limit,
		}
	}
}

// CounterOffer is a suggested amount after a rejection.
type CounterOffer struct {
	SuggestedAmount int64  `json:"suggested_amount"`
	Reason          string `json:"reason"`
	Requires        string `json:"requires,omitempty"`
}

// CounterOffer proposes an amount the customer can carry at the standard
// tenure, or the hard cap when the request exceeded it.
func (e *Engine) CounterOffer(p models.CustomerProfile, rejected int64) CounterOffer {
	limit := p.PreApprovedLimit
	if rejected > 2*limit {
		return CounterOffer{
			SuggestedAmount: 2 * limit,
			Reason:          fmt.Sprintf("Maximum eligible amount is %s (2x your pre-approved limit)", utils.FormatINR(2*limit)),
			Requires:        "SALARY_SLIP",
		}
	}

	maxEMI := e.maxSafeEMI(p.MonthlySalary, p.CurrentEMIs)
	if maxEMI <= 0 {
		return CounterOffer{
			Reason: fmt.Sprintf("Your existing EMIs of %s already use %s of your salary",
				utils.FormatINR(p.CurrentEMIs), utils.FormatPercent(DTI(0, p.CurrentEMIs, p.MonthlySalary))),
		}
	}

	rate := RiskBasedRate(p.CreditScore)
	suggested := roundDownTo(principalFor(maxEMI, rate, e.policy.StandardTenure), 10000)
	return CounterOffer{
		SuggestedAmount: suggested,
		Reason: fmt.Sprintf("Based on your salary of %s, we can offer %s with a comfortable EMI",
			utils.FormatINR(p.MonthlySalary), utils.FormatINR(suggested)),
	}
}
