package cli

import (
	"strings"
	"testing"

	"debtplan/internal/models"
)

func samplePlan() (*models.PaymentPlanDetail, []models.Debt) {
	debts := []models.Debt{
		{ID: "a", Name: "Store card"},
		{ID: "b", Name: "Visa"},
	}
	plan := &models.PaymentPlanDetail{
		Months:                2,
		TotalInterest:         12,
		RecommendedPercentage: 9,
		MonthlyPlans: []models.MonthlyPlan{
			{Month: 1, TotalPayment: 500, Payments: []models.MonthlyPayment{
				{DebtID: "a", MinimumPayment: 10, ExtraPayment: 90, InterestPaid: 1, RemainingBalance: 0, IsPaidOff: true},
				{DebtID: "b", MinimumPayment: 10, InterestPaid: 10, RemainingBalance: 990},
			}},
			{Month: 2, TotalPayment: 1000, Payments: []models.MonthlyPayment{
				{DebtID: "b", MinimumPayment: 10, ExtraPayment: 980, InterestPaid: 1, RemainingBalance: 0, IsPaidOff: true},
			}},
		},
	}
	return plan, debts
}

func TestRenderSummary(t *testing.T) {
	plan, _ := samplePlan()
	out := RenderSummary(plan, models.Snowball, 1000)

	for _, want := range []string{"snowball", "$1,000.00", "2m", "$12", "9%"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Not paid off") {
		t.Error("summary warns about a finished plan")
	}

	plan.MonthlyPlans[1].Payments[0].RemainingBalance = 5
	plan.MonthlyPlans[1].Payments[0].IsPaidOff = false
	if out := RenderSummary(plan, models.Snowball, 1000); !strings.Contains(out, "Not paid off") {
		t.Errorf("summary should warn when debt remains:\n%s", out)
	}
}

func TestRenderPayoffOrderAndSchedule(t *testing.T) {
	plan, debts := samplePlan()

	order := RenderPayoffOrder(plan, debts)
	if i, j := strings.Index(order, "Store card"), strings.Index(order, "Visa"); i < 0 || j < 0 || i > j {
		t.Errorf("payoff order wrong:\n%s", order)
	}

	schedule := RenderSchedule(plan, debts)
	for _, want := range []string{"Remaining", "$990.00", "$980.00", "Store card ✓"} {
		if !strings.Contains(schedule, want) {
			t.Errorf("schedule missing %q:\n%s", want, schedule)
		}
	}
}

func TestRenderComparison(t *testing.T) {
	c := &models.Comparison{
		Results: []models.StrategyResult{
			{Strategy: models.Snowball, Months: 30, TotalInterest: 2100, FullyPaid: true},
			{Strategy: models.Avalanche, Months: 29, TotalInterest: 1800, FullyPaid: true},
			{Strategy: models.Proportional, Months: 360, TotalInterest: 9000, FullyPaid: false},
		},
		Best:          models.Avalanche,
		InterestSaved: 7200,
		MonthsSaved:   331,
	}

	out := RenderComparison(c)
	for _, want := range []string{"avalanche ★", "capped", "$7,200", "27y 7m"} {
		if !strings.Contains(out, want) {
			t.Errorf("comparison missing %q:\n%s", want, out)
		}
	}
}
