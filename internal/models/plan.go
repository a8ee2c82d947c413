package models

import "fmt"

// MonthlyPayment is one debt's outcome for one simulated month
type MonthlyPayment struct {
	DebtID           string  `json:"debtId"`
	MinimumPayment   float64 `json:"minimumPayment"` // Amount applied, capped at the balance
	ExtraPayment     float64 `json:"extraPayment"`   // Surplus allocated by the strategy
	InterestPaid     float64 `json:"interestPaid"`   // Interest accrued this month
	RemainingBalance float64 `json:"remainingBalance"`
	IsPaidOff        bool    `json:"isPaidOff"`
}

// MonthlyPlan aggregates every payment made in one simulated month
type MonthlyPlan struct {
	Month        int              `json:"month"` // 1-based
	TotalPayment float64          `json:"totalPayment"`
	Payments     []MonthlyPayment `json:"payments"`
}

// PaymentPlanDetail is the full result of a payoff simulation
type PaymentPlanDetail struct {
	Months                int           `json:"months"`
	TotalInterest         float64       `json:"totalInterest"`
	RecommendedPercentage int           `json:"recommendedPercentage"`
	MonthlyPlans          []MonthlyPlan `json:"monthlyPlans"`
}

// RemainingBalance sums what is still owed after the last simulated month.
// Debts paid off in earlier months no longer appear and count as zero.
func (p *PaymentPlanDetail) RemainingBalance() float64 {
	if len(p.MonthlyPlans) == 0 {
		return 0
	}
	total := 0.0
	for _, pay := range p.MonthlyPlans[len(p.MonthlyPlans)-1].Payments {
		total += pay.RemainingBalance
	}
	return total
}

// IsFullyPaid reports whether the simulation ended with every debt at zero.
// Months alone can't tell this: the simulation stops silently at the month cap.
func (p *PaymentPlanDetail) IsFullyPaid() bool {
	return p.RemainingBalance() == 0
}

// PayoffMonth returns the month in which the given debt reached zero
func (p *PaymentPlanDetail) PayoffMonth(debtID string) (int, bool) {
	for _, mp := range p.MonthlyPlans {
		for _, pay := range mp.Payments {
			if pay.DebtID == debtID && pay.IsPaidOff {
				return mp.Month, true
			}
		}
	}
	return 0, false
}

// PaidOffDebtIDs lists debts in the order they were paid off
func (p *PaymentPlanDetail) PaidOffDebtIDs() []string {
	ids := []string{}
	for _, mp := range p.MonthlyPlans {
		for _, pay := range mp.Payments {
			if pay.IsPaidOff {
				ids = append(ids, pay.DebtID)
			}
		}
	}
	return ids
}

// Month returns the plan for a 1-based month number
func (p *PaymentPlanDetail) Month(month int) (*MonthlyPlan, bool) {
	if month < 1 || month > len(p.MonthlyPlans) {
		return nil, false
	}
	return &p.MonthlyPlans[month-1], true
}

// StrategyResult summarizes one strategy in a comparison
type StrategyResult struct {
	Strategy      Strategy           `json:"strategy"`
	Months        int                `json:"months"`
	TotalInterest float64            `json:"totalInterest"`
	FullyPaid     bool               `json:"fullyPaid"`
	Plan          *PaymentPlanDetail `json:"plan,omitempty"`
}

// Comparison contains one result per strategy plus the winner
type Comparison struct {
	Results       []StrategyResult `json:"results"`
	Best          Strategy         `json:"best"`
	InterestSaved float64          `json:"interestSaved"` // Best versus worst
	MonthsSaved   int              `json:"monthsSaved"`
}

// Result returns the entry for a strategy
func (c *Comparison) Result(s Strategy) (StrategyResult, bool) {
	for _, r := range c.Results {
		if r.Strategy == s {
			return r, true
		}
	}
	return StrategyResult{}, false
}

// PlanRequest is an ad-hoc simulation request; nothing in it is persisted
type PlanRequest struct {
	Debts         []Debt   `json:"debts"`
	MonthlyBudget float64  `json:"monthlyBudget"`
	Strategy      Strategy `json:"strategy"`
	MonthlyIncome float64  `json:"monthlyIncome"`
}

// Validate checks the request at the API boundary. Debts must pass the
// simulation rule; the engine itself assumes they do.
func (r PlanRequest) Validate() error {
	if _, err := ParseStrategy(string(r.Strategy)); err != nil {
		return err
	}
	for i, d := range r.Debts {
		if !d.IsSimulatable() {
			return fmt.Errorf("debt %d (%s): balance and minimum payment must be positive and interest rate non-negative", i, d.ID)
		}
	}
	return nil
}
