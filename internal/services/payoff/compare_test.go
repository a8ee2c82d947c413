package payoff

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"debtplan/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCompareStrategiesPicksAvalancheOnRateSkew(t *testing.T) {
	debts := []models.Debt{
		debt("low-rate-small", 800, 3, 40),
		debt("high-rate-large", 6000, 29.99, 150),
		debt("mid", 2500, 12, 75),
	}

	cmpResult, err := CompareStrategies(context.Background(), debts, 700, 5000)
	if err != nil {
		t.Fatalf("CompareStrategies() error = %v", err)
	}

	if len(cmpResult.Results) != len(models.Strategies) {
		t.Fatalf("got %d results, want %d", len(cmpResult.Results), len(models.Strategies))
	}
	for i, r := range cmpResult.Results {
		if r.Strategy != models.Strategies[i] {
			t.Errorf("result %d strategy = %s, want %s", i, r.Strategy, models.Strategies[i])
		}
		if r.Plan == nil {
			t.Fatalf("result %d has no plan", i)
		}
		if diff := cmp.Diff(Simulate(debts, 700, r.Strategy, 5000), *r.Plan); diff != "" {
			t.Errorf("%s plan differs from a direct simulation (-want +got):\n%s", r.Strategy, diff)
		}
	}

	if cmpResult.Best != models.Avalanche {
		t.Errorf("Best = %s, want avalanche", cmpResult.Best)
	}

	avalanche, _ := cmpResult.Result(models.Avalanche)
	snowball, _ := cmpResult.Result(models.Snowball)
	if avalanche.TotalInterest > snowball.TotalInterest {
		t.Errorf("avalanche interest %v > snowball interest %v", avalanche.TotalInterest, snowball.TotalInterest)
	}
	if cmpResult.InterestSaved < 0 {
		t.Errorf("InterestSaved = %v, want >= 0", cmpResult.InterestSaved)
	}
}

func TestCompareStrategiesTieKeepsDeclarationOrder(t *testing.T) {
	// With no interest every strategy costs nothing and finishes together
	debts := []models.Debt{debt("only", 1000, 0, 100)}

	cmpResult, err := CompareStrategies(context.Background(), debts, 250, 0)
	if err != nil {
		t.Fatalf("CompareStrategies() error = %v", err)
	}
	if cmpResult.Best != models.Snowball {
		t.Errorf("Best = %s, want snowball", cmpResult.Best)
	}
	if cmpResult.InterestSaved != 0 || cmpResult.MonthsSaved != 0 {
		t.Errorf("savings = %v/%d, want 0/0", cmpResult.InterestSaved, cmpResult.MonthsSaved)
	}
}

func TestCompareStrategiesPrefersFullPayoff(t *testing.T) {
	a := models.StrategyResult{Strategy: models.Snowball, TotalInterest: 9000, Months: 120, FullyPaid: true}
	b := models.StrategyResult{Strategy: models.Avalanche, TotalInterest: 100, Months: 360, FullyPaid: false}

	if !better(a, b) {
		t.Error("a plan that clears the debt should beat one that hit the cap")
	}
	if better(b, a) {
		t.Error("a capped plan should not beat a finished one")
	}
}

func TestCompareStrategiesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CompareStrategies(ctx, []models.Debt{debt("a", 100, 5, 10)}, 50, 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
