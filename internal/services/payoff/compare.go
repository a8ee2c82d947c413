package payoff

import (
	"context"

	"golang.org/x/sync/errgroup"

	"debtplan/internal/models"
)

// CompareStrategies simulates every strategy concurrently against the same debts.
//
// Best is the strategy paying the least interest; ties go to the shorter plan,
// then to declaration order. Each run works on its own copy of the input, so
// no coordination between goroutines is needed beyond collecting results.
func CompareStrategies(ctx context.Context, debts []models.Debt, monthlyBudget, monthlyIncome float64) (*models.Comparison, error) {
	results := make([]models.StrategyResult, len(models.Strategies))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, strategy := range models.Strategies {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			plan := Simulate(debts, monthlyBudget, strategy, monthlyIncome)
			results[i] = models.StrategyResult{
				Strategy:      strategy,
				Months:        plan.Months,
				TotalInterest: plan.TotalInterest,
				FullyPaid:     plan.IsFullyPaid(),
				Plan:          &plan,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	best, worst := results[0], results[0]
	for _, r := range results[1:] {
		if better(r, best) {
			best = r
		}
		if better(worst, r) {
			worst = r
		}
	}

	return &models.Comparison{
		Results:       results,
		Best:          best.Strategy,
		InterestSaved: worst.TotalInterest - best.TotalInterest,
		MonthsSaved:   worst.Months - best.Months,
	}, nil
}

// better reports whether a beats b. A plan that clears every debt always beats
// one that hit the month cap.
func better(a, b models.StrategyResult) bool {
	if a.FullyPaid != b.FullyPaid {
		return a.FullyPaid
	}
	if a.TotalInterest != b.TotalInterest {
		return a.TotalInterest < b.TotalInterest
	}
	return a.Months < b.Months
}
