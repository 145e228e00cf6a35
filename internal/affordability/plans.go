package affordability

// Plan is one tenure option shown to the customer.
type Plan struct {
	Option        int     `json:"option"`
	Key           string  `json:"key"`
	Label         string  `json:"label"`
	TenureMonths  int     `json:"tenure_months"`
	EMI           int64   `json:"emi"`
	TotalInterest int64   `json:"total_interest"`
	TotalPayment  int64   `json:"total_payment"`
	DTI           float64 `json:"dti"`
	TotalEMI      int64   `json:"total_emi"`
	Available     int64   `json:"available_income"`
	Recommended   bool    `json:"recommended"`
}

// PlanSet is the fixed fast/balanced/extended trio for one amount and rate.
type PlanSet struct {
	Amount int64   `json:"amount"`
	Rate   float64 `json:"rate"`
	Salary int64   `json:"salary"`
	Plans  []Plan  `json:"plans"`
}

var planLayout = []struct {
	key         string
	label       string
	tenure      int
	recommended bool
}{
	{"aggressive", "Fast (24 months)", 24, false},
	{"balanced", "Balanced (36 months)", 36, true},
	{"relaxed", "Extended (60 months)", 60, false},
}

// Plans builds the three tenure options. The 36 month plan is always the
// recommended anchor.
func (e *Engine) Plans(amount int64, annualRate float64, salary, existingEMIs int64) PlanSet {
	set := PlanSet{Amount: amount, Rate: annualRate, Salary: salary}
	for i, layout := range planLayout {
		emi := EMI(amount, layout.tenure, annualRate)
		a := e.Assess(salary, emi, existingEMIs)
		interest := TotalInterest(emi, layout.tenure, amount)
		set.Plans = append(set.Plans, Plan{
			Option:        i + 1,
			Key:           layout.key,
			Label:         layout.label,
			TenureMonths:  layout.tenure,
			EMI:           emi,
			TotalInterest: interest,
			TotalPayment:  amount + interest,
			DTI:           a.DTI,
			TotalEMI:      a.TotalEMI,
			Available:     a.Available,
			Recommended:   layout.recommended,
		})
	}
	return set
}

// Option returns the plan with the given 1-based option number.
func (s *PlanSet) Option(n int) (Plan, bool) {
	if s == nil || n < 1 || n > len(s.Plans) {
		return Plan{}, false
	}
	return s.Plans[n-1], true
}

// Recommended returns the anchor plan.
func (s *PlanSet) Recommended() Plan {
	for _, p := range s.Plans {
		if p.Recommended {
			return p
		}
	}
	return s.Plans[0]
}
