package debts

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"debtplan/internal/models"
	"debtplan/internal/services/payoff"
	"debtplan/internal/services/storage"
)

func newTestManager(t *testing.T) (*Manager, *storage.Storage) {
	t.Helper()
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	return NewManager(store), store
}

func validDebt(name string, balance, rate, minimum float64) models.Debt {
	return models.Debt{
		Name:           name,
		Balance:        balance,
		InterestRate:   rate,
		MinimumPayment: minimum,
		TotalPayments:  36,
	}
}

func TestAddAssignsID(t *testing.T) {
	m, _ := newTestManager(t)

	added, err := m.Add(validDebt("Visa", 1500, 19.9, 45))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.ID == "" {
		t.Fatal("Expected an id to be assigned")
	}

	got, err := m.Get(added.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(added, got); diff != "" {
		t.Errorf("stored debt differs (-added +got):\n%s", diff)
	}
}

func TestAddRejectsInvalid(t *testing.T) {
	m, _ := newTestManager(t)

	tests := []struct {
		name string
		debt models.Debt
	}{
		{"empty name", validDebt("", 100, 5, 10)},
		{"blank name", validDebt("   ", 100, 5, 10)},
		{"zero balance", validDebt("x", 0, 5, 10)},
		{"zero rate", validDebt("x", 100, 0, 10)},
		{"zero minimum", validDebt("x", 100, 5, 0)},
		{"zero installments", models.Debt{Name: "x", Balance: 100, InterestRate: 5, MinimumPayment: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Add(tt.debt); err == nil {
				t.Error("Expected validation error")
			}
		})
	}

	all, _ := m.List()
	if len(all) != 0 {
		t.Errorf("List() = %d debts, want 0", len(all))
	}
}

func TestAddDuplicateID(t *testing.T) {
	m, _ := newTestManager(t)

	d := validDebt("Visa", 1500, 19.9, 45)
	d.ID = "fixed"
	if _, err := m.Add(d); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := m.Add(d); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate Add: err = %v, want ErrDuplicate", err)
	}
}

func TestUpdateAndRemove(t *testing.T) {
	m, _ := newTestManager(t)

	added, _ := m.Add(validDebt("Auto", 9000, 6.5, 280))
	added.Balance = 8720
	if _, err := m.Update(*added); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := m.Get(added.ID)
	if got.Balance != 8720 {
		t.Errorf("Balance = %v, want 8720", got.Balance)
	}

	if _, err := m.Update(models.Debt{ID: "missing", Name: "x", Balance: 1, InterestRate: 1, MinimumPayment: 1, TotalPayments: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing: err = %v, want ErrNotFound", err)
	}

	if err := m.Remove(added.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := m.Remove(added.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove: err = %v, want ErrNotFound", err)
	}
	if _, err := m.Get(added.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Remove: err = %v, want ErrNotFound", err)
	}
}

func TestBudgetDefaultsAndSave(t *testing.T) {
	m, _ := newTestManager(t)

	b, err := m.LoadBudget()
	if err != nil {
		t.Fatalf("LoadBudget: %v", err)
	}
	if diff := cmp.Diff(models.DefaultBudgetSettings(), b); diff != "" {
		t.Errorf("defaults differ (-want +got):\n%s", diff)
	}

	want := &models.BudgetSettings{MonthlyIncome: 5200, DebtPercentage: 25, Strategy: models.Snowball}
	if err := m.SaveBudget(want); err != nil {
		t.Fatalf("SaveBudget: %v", err)
	}
	got, _ := m.LoadBudget()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("budget differs (-want +got):\n%s", diff)
	}

	if err := m.SaveBudget(&models.BudgetSettings{MonthlyIncome: 100, DebtPercentage: 140, Strategy: models.Snowball}); err == nil {
		t.Error("Expected error for a percentage over 100")
	}
}

func TestSaveBudgetStoresCanonicalStrategy(t *testing.T) {
	m, _ := newTestManager(t)

	settings := &models.BudgetSettings{MonthlyIncome: 4000, DebtPercentage: 10, Strategy: " Snowball "}
	if err := m.SaveBudget(settings); err != nil {
		t.Fatalf("SaveBudget: %v", err)
	}
	if settings.Strategy != models.Snowball {
		t.Errorf("settings.Strategy = %q, want %q", settings.Strategy, models.Snowball)
	}

	got, err := m.LoadBudget()
	if err != nil {
		t.Fatalf("LoadBudget: %v", err)
	}
	if got.Strategy != models.Snowball {
		t.Errorf("stored strategy = %q, want %q", got.Strategy, models.Snowball)
	}
}

func TestApplyMonthMarksPaidOff(t *testing.T) {
	m, _ := newTestManager(t)

	small, _ := m.Add(validDebt("Store card", 100, 12, 10))
	large, _ := m.Add(validDebt("Loan", 1000, 6, 10))

	debts, err := m.SimulationDebts()
	if err != nil {
		t.Fatalf("SimulationDebts: %v", err)
	}
	plan := payoff.Simulate(debts, 500, models.Snowball, 0)

	paid, err := m.ApplyMonth(&plan, 1)
	if err != nil {
		t.Fatalf("ApplyMonth: %v", err)
	}
	if diff := cmp.Diff([]string{small.ID}, paid); diff != "" {
		t.Errorf("newly paid (-want +got):\n%s", diff)
	}

	got, _ := m.Get(large.ID)
	want := plan.MonthlyPlans[0].Payments[1].RemainingBalance
	if got.Balance != want || got.IsPaidOff {
		t.Errorf("Loan = %+v, want balance %v and open", got, want)
	}

	open, _ := m.SimulationDebts()
	if len(open) != 1 || open[0].ID != large.ID {
		t.Errorf("SimulationDebts() = %+v, want only the loan", open)
	}

	// Applying the same month again reports nothing new
	paid, _ = m.ApplyMonth(&plan, 1)
	if len(paid) != 0 {
		t.Errorf("second ApplyMonth reported %v", paid)
	}

	if _, err := m.ApplyMonth(&plan, plan.Months+1); err == nil {
		t.Error("Expected error for a month past the plan")
	}
}

func TestManagerThroughEncryption(t *testing.T) {
	m, store := newTestManager(t)

	added, _ := m.Add(validDebt("Visa", 1500, 19.9, 45))
	if err := store.EnableEncryption("manager-secret"); err != nil {
		t.Fatalf("EnableEncryption: %v", err)
	}

	store.Lock()
	if _, err := m.List(); !errors.Is(err, storage.ErrLocked) {
		t.Errorf("List while locked: err = %v, want storage.ErrLocked", err)
	}

	if err := store.Unlock("manager-secret"); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	got, err := m.Get(added.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Visa" {
		t.Errorf("Name = %q, want Visa", got.Name)
	}
}
