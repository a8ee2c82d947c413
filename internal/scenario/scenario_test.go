package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"debtplan/internal/models"
)

const sample = `
monthly_income = 6000
debt_percentage = 15
strategy = "Snowball"

[[debt]]
name = "Visa Platinum"
balance = 4800
interest_rate = 19.9
minimum_payment = 120
total_payments = 60

[[debt]]
id = "car"
name = "Car loan"
balance = 9200
interest_rate = 5.9
minimum_payment = 260

[[debt]]
name = "Visa Platinum"
balance = 300
interest_rate = 0
minimum_payment = 25
`

func TestParse(t *testing.T) {
	s, err := Parse(sample)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if s.Budget() != 900 {
		t.Errorf("Budget() = %v, want 900", s.Budget())
	}
	if s.StrategyOrDefault() != models.Snowball {
		t.Errorf("StrategyOrDefault() = %s, want snowball", s.StrategyOrDefault())
	}

	want := []models.Debt{
		{ID: "visa-platinum", Name: "Visa Platinum", Balance: 4800, InterestRate: 19.9, MinimumPayment: 120, TotalPayments: 60},
		{ID: "car", Name: "Car loan", Balance: 9200, InterestRate: 5.9, MinimumPayment: 260},
		{ID: "visa-platinum-2", Name: "Visa Platinum", Balance: 300, InterestRate: 0, MinimumPayment: 25},
	}
	if diff := cmp.Diff(want, s.ToDebts()); diff != "" {
		t.Errorf("ToDebts() mismatch (-want +got):\n%s", diff)
	}
}

func TestToDebtsUniqueIDs(t *testing.T) {
	tests := []struct {
		name  string
		debts []Debt
		want  []string
	}{
		{
			name:  "repeated names",
			debts: []Debt{{Name: "Visa"}, {Name: "Visa"}, {Name: "Visa"}},
			want:  []string{"visa", "visa-2", "visa-3"},
		},
		{
			name:  "explicit id taken by a later derived one",
			debts: []Debt{{Name: "Visa"}, {Name: "Visa"}, {ID: "visa-2", Name: "Old visa"}},
			want:  []string{"visa", "visa-3", "visa-2"},
		},
		{
			name:  "explicit id equal to a slug",
			debts: []Debt{{Name: "Car"}, {ID: "car", Name: "Truck"}},
			want:  []string{"car-2", "car"},
		},
		{
			name:  "unnamed",
			debts: []Debt{{}, {ID: "debt-1"}},
			want:  []string{"debt-1-2", "debt-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Scenario{Debts: tt.debts}
			var got []string
			for _, d := range s.ToDebts() {
				got = append(got, d.ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBudgetOverride(t *testing.T) {
	s, err := Parse(`
monthly_income = 6000
debt_percentage = 15
monthly_budget = 1250

[[debt]]
name = "Card"
balance = 100
interest_rate = 10
minimum_payment = 10
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Budget() != 1250 {
		t.Errorf("Budget() = %v, want 1250", s.Budget())
	}
	if s.StrategyOrDefault() != models.Avalanche {
		t.Errorf("StrategyOrDefault() = %s, want avalanche", s.StrategyOrDefault())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad strategy", `strategy = "fastest"`},
		{"unknown key", `monthly_salary = 100`},
		{"percentage out of range", `debt_percentage = 150`},
		{"negative income", `monthly_income = -1`},
		{"zero minimum", "[[debt]]\nname = \"x\"\nbalance = 100\ninterest_rate = 5\nminimum_payment = 0\n"},
		{"negative rate", "[[debt]]\nname = \"x\"\nbalance = 100\ninterest_rate = -5\nminimum_payment = 10\n"},
		{"syntax", `monthly_income = `},
		{"duplicate id", "[[debt]]\nid = \"a\"\nname = \"x\"\nbalance = 100\ninterest_rate = 5\nminimum_payment = 10\n" +
			"[[debt]]\nid = \"a\"\nname = \"y\"\nbalance = 200\ninterest_rate = 5\nminimum_payment = 10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.data); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.toml")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Debts) != 3 {
		t.Errorf("got %d debts, want 3", len(s.Debts))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected error for a missing file")
	}
}
