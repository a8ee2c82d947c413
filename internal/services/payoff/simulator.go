// Package payoff simulates month-by-month debt repayment under a chosen strategy.
package payoff

import (
	"math"
	"sort"

	"debtplan/internal/models"
)

// MaxMonths caps a simulation at 30 years. Debts whose minimum payment never
// outpaces their interest would otherwise loop forever.
const MaxMonths = 360

// workingDebt is the engine's private, mutable copy of a debt
type workingDebt struct {
	id             string
	balance        float64
	interestRate   float64
	monthlyRate    float64
	minimumPayment float64
}

// Simulate runs a payoff simulation and returns the full schedule.
//
// The caller's debts are never modified. Processing order is fixed once at the
// start and is not re-evaluated as balances change. Surplus for snowball and
// avalanche goes to the first remaining debt only; money left over when that
// debt is cleared is not passed on to the next one until the following month.
func Simulate(debts []models.Debt, monthlyBudget float64, strategy models.Strategy, monthlyIncome float64) models.PaymentPlanDetail {
	if len(debts) == 0 {
		return models.PaymentPlanDetail{MonthlyPlans: []models.MonthlyPlan{}}
	}

	remaining := orderDebts(debts, strategy)

	plans := make([]models.MonthlyPlan, 0, 12)
	totalInterest := 0.0
	month := 0

	for len(remaining) > 0 && month < MaxMonths {
		month++
		payments := make([]models.MonthlyPayment, len(remaining))

		// Minimum payments, with interest accrued on the pre-payment balance
		totalMinimum := 0.0
		for i, d := range remaining {
			minimum := math.Min(d.minimumPayment, d.balance)
			interest := d.balance * d.monthlyRate
			totalInterest += interest

			d.balance = math.Max(0, d.balance-minimum+interest)
			totalMinimum += minimum

			payments[i] = models.MonthlyPayment{
				DebtID:           d.id,
				MinimumPayment:   minimum,
				InterestPaid:     interest,
				RemainingBalance: d.balance,
			}
		}

		// Surplus allocation
		if available := monthlyBudget - totalMinimum; available > 0 {
			if strategy == models.Proportional {
				allocateProportional(remaining, payments, available)
			} else {
				applyExtra(remaining[0], &payments[0], available)
			}
		}

		totalPayment := 0.0
		for i := range payments {
			payments[i].IsPaidOff = payments[i].RemainingBalance == 0
			totalPayment += payments[i].MinimumPayment + payments[i].ExtraPayment
		}

		plans = append(plans, models.MonthlyPlan{
			Month:        month,
			TotalPayment: totalPayment,
			Payments:     payments,
		})

		remaining = dropPaidOff(remaining)
	}

	return models.PaymentPlanDetail{
		Months:                month,
		TotalInterest:         math.Round(totalInterest),
		RecommendedPercentage: RecommendedPercentage(debts, monthlyIncome),
		MonthlyPlans:          plans,
	}
}

// RecommendedPercentage is the whole percent of income needed to cover every
// minimum payment. Zero or negative income yields 0.
func RecommendedPercentage(debts []models.Debt, monthlyIncome float64) int {
	if monthlyIncome <= 0 {
		return 0
	}
	totalMinimum := 0.0
	for _, d := range debts {
		totalMinimum += d.MinimumPayment
	}
	return int(math.Ceil(totalMinimum * 100 / monthlyIncome))
}

// orderDebts copies the input into working state, sorted for the strategy
func orderDebts(debts []models.Debt, strategy models.Strategy) []*workingDebt {
	working := make([]*workingDebt, len(debts))
	for i, d := range debts {
		working[i] = &workingDebt{
			id:             d.ID,
			balance:        d.Balance,
			interestRate:   d.InterestRate,
			monthlyRate:    d.InterestRate / 100 / 12,
			minimumPayment: d.MinimumPayment,
		}
	}

	switch strategy {
	case models.Snowball:
		sort.SliceStable(working, func(i, j int) bool {
			return working[i].balance < working[j].balance
		})
	case models.Avalanche:
		sort.SliceStable(working, func(i, j int) bool {
			return working[i].interestRate > working[j].interestRate
		})
	}

	return working
}

// allocateProportional splits the surplus by each debt's share of the total balance
func allocateProportional(remaining []*workingDebt, payments []models.MonthlyPayment, available float64) {
	totalBalance := 0.0
	for _, d := range remaining {
		totalBalance += d.balance
	}
	if totalBalance <= 0 {
		return
	}

	for i, d := range remaining {
		share := d.balance / totalBalance
		applyExtra(d, &payments[i], available*share)
	}
}

// applyExtra pays up to amount toward a debt without taking it below zero
func applyExtra(d *workingDebt, payment *models.MonthlyPayment, amount float64) {
	extra := math.Min(amount, d.balance)
	d.balance -= extra
	payment.ExtraPayment = extra
	payment.RemainingBalance = d.balance
}

// dropPaidOff removes debts whose balance is exactly zero, keeping order
func dropPaidOff(remaining []*workingDebt) []*workingDebt {
	kept := remaining[:0]
	for _, d := range remaining {
		if d.balance != 0 {
			kept = append(kept, d)
		}
	}
	return kept
}
