package affordability

import (
	"math"

	"github.com/Ananth-NQI/loanverse-backend/internal/models"
)

// Engine evaluates affordability under a Policy.
type Engine struct {
	policy Policy
}

// NewEngine creates an engine with the given thresholds.
func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// Policy returns the engine thresholds.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Assessment is the DTI evaluation of one proposed EMI.
type Assessment struct {
	Salary       int64   `json:"salary"`
	ProposedEMI  int64   `json:"proposed_emi"`
	ExistingEMIs int64   `json:"existing_emis"`
	TotalEMI     int64   `json:"total_emi"`
	DTI          float64 `json:"dti"`
	Available    int64   `json:"available_income"`
	Safe         bool    `json:"safe"`
}

// Assess computes DTI for a proposed EMI. Safe is a strict comparison
// against the safe threshold, so exactly 50% is unsafe.
func (e *Engine) Assess(salary, proposedEMI, existingEMIs int64) Assessment {
	dti := DTI(proposedEMI, existingEMIs, salary)
	total := proposedEMI + existingEMIs
	return Assessment{
		Salary:       salary,
		ProposedEMI:  proposedEMI,
		ExistingEMIs: existingEMIs,
		TotalEMI:     total,
		DTI:          round(dti, 1),
		Available:    salary - total,
		Safe:         dti < e.policy.SafeDTI,
	}
}

func (e *Engine) maxSafeEMI(salary, existingEMIs int64) float64 {
	return float64(salary)*e.policy.SafeDTI/100 - float64(existingEMIs)
}

// SafeTenure returns the shortest tenure in months that keeps DTI within
// the safe threshold, or 0 when no tenure can.
func (e *Engine) SafeTenure(amount, salary, existingEMIs int64, annualRate float64) int {
	maxEMI := e.maxSafeEMI(salary, existingEMIs)
	if maxEMI <= 0 || amount <= 0 {
		return 0
	}
	r := annualRate / 1200
	if r <= 0 {
		return int(math.Ceil(float64(amount) / maxEMI))
	}
	interestOnly := float64(amount) * r
	if interestOnly >= maxEMI {
		return 0
	}
	x := maxEMI / interestOnly
	n := math.Log(x/(x-1)) / math.Log(1+r)
	return int(math.Ceil(n))
}

// SafeAmount is the largest principal whose EMI at tenure keeps DTI within
// the safe threshold, rounded down to ₹10,000.
func (e *Engine) SafeAmount(salary, existingEMIs int64, annualRate float64, tenure int) int64 {
	maxEMI := e.maxSafeEMI(salary, existingEMIs)
	if maxEMI <= 0 || tenure <= 0 {
		return 0
	}
	return roundDownTo(principalFor(maxEMI, annualRate, tenure), 10000)
}

// principalFor inverts the EMI formula.
func principalFor(emi, annualRate float64, tenure int) float64 {
	r := annualRate / 1200
	if r <= 0 {
		return emi * float64(tenure)
	}
	factor := math.Pow(1+r, float64(tenure))
	return emi * (factor - 1) / (r * factor)
}

// MaxCapacity is the profile card's stretch figure: the principal at the
// debt-trap ceiling over the lenient tenure, rounded to ₹10,000.
func (e *Engine) MaxCapacity(p models.CustomerProfile, annualRate float64) int64 {
	maxEMI := float64(p.MonthlySalary)*e.policy.DebtTrapDTI/100 - float64(p.CurrentEMIs)
	if maxEMI <= 0 {
		return 0
	}
	return roundTo(principalFor(maxEMI, annualRate, e.policy.LenientTenure), 10000)
}
