package affordability

import "github.com/Ananth-NQI/loanverse-backend/internal/config"

// Policy holds the lending thresholds. Values mirror the configured defaults.
type Policy struct {
	SafeDTI         float64 // new EMI plus obligations must stay strictly below this share of salary
	DebtTrapDTI     float64
	MinCreditScore  int
	MinLoanAmount   int64
	StandardTenure  int
	LenientTenure   int
	MaxTenureMonths int
}

// DefaultPolicy returns the production thresholds.
func DefaultPolicy() Policy {
	return Policy{
		SafeDTI:         50,
		DebtTrapDTI:     60,
		MinCreditScore:  700,
		MinLoanAmount:   10000,
		StandardTenure:  36,
		LenientTenure:   60,
		MaxTenureMonths: 84,
	}
}

// PolicyFromConfig overlays configured thresholds on the defaults.
func PolicyFromConfig(cfg config.LendingConfig) Policy {
	p := DefaultPolicy()
	if cfg.SafeDTI > 0 {
		p.SafeDTI = cfg.SafeDTI
	}
	if cfg.DebtTrapDTI > 0 {
		p.DebtTrapDTI = cfg.DebtTrapDTI
	}
	if cfg.MinCreditScore > 0 {
		p.MinCreditScore = cfg.MinCreditScore
	}
	if cfg.MinLoanAmount > 0 {
		p.MinLoanAmount = cfg.MinLoanAmount
	}
	if cfg.MaxTenureMonths > 0 {
		p.MaxTenureMonths = cfg.MaxTenureMonths
	}
	return p
}
