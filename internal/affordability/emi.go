package affordability

import (
	"math"

	"github.com/shopspring/decimal"
)

// EMI returns the reducing-balance monthly instalment rounded to the rupee.
// Non-positive principal or tenure yields 0.
func EMI(principal int64, months int, annualRate float64) int64 {
	if principal <= 0 || months <= 0 {
		return 0
	}
	r := annualRate / 1200
	if r <= 0 {
		return decimal.NewFromInt(principal).
			Div(decimal.NewFromInt(int64(months))).
			Round(0).IntPart()
	}
	factor := math.Pow(1+r, float64(months))
	emi := float64(principal) * r * factor / (factor - 1)
	return decimal.NewFromFloat(emi).Round(0).IntPart()
}

// TotalInterest is the interest paid over the tenure at the given EMI.
func TotalInterest(emi int64, months int, principal int64) int64 {
	return emi*int64(months) - principal
}

// DTI is the debt-to-income ratio in percent, rounded to two decimals.
// A missing salary is reported as 100.
func DTI(proposedEMI, existingEMIs, salary int64) float64 {
	if salary <= 0 {
		return 100.0
	}
	ratio := float64(proposedEMI+existingEMIs) / float64(salary) * 100
	return round(ratio, 2)
}

// RiskBasedRate maps a credit score to the annual rate offered.
func RiskBasedRate(score int) float64 {
	switch {
	case score >= 800:
		return 10.5
	case score >= 750:
		return 11.5
	case score >= 700:
		return 13.5
	default:
		return 15.0
	}
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// roundDownTo floors v to a multiple of step.
func roundDownTo(v float64, step int64) int64 {
	if v <= 0 {
		return 0
	}
	s := decimal.NewFromInt(step)
	return decimal.NewFromFloat(v).Div(s).Floor().Mul(s).IntPart()
}

// roundTo rounds v to the nearest multiple of step.
func roundTo(v float64, step int64) int64 {
	if v <= 0 {
		return 0
	}
	s := decimal.NewFromInt(step)
	return decimal.NewFromFloat(v).Div(s).Round(0).Mul(s).IntPart()
}
