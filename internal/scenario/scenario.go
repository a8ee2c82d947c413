// Package scenario loads payoff scenarios from TOML files for the CLI.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"debtplan/internal/models"
)

// Scenario is a set of debts plus the budget to pay them with.
//
//	monthly_income = 6000
//	debt_percentage = 15      # or monthly_budget = 900
//	strategy = "avalanche"
//
//	[[debt]]
//	name = "Visa"
//	balance = 4800
//	interest_rate = 19.9
//	minimum_payment = 120
type Scenario struct {
	MonthlyIncome  float64 `toml:"monthly_income"`
	DebtPercentage float64 `toml:"debt_percentage"`
	MonthlyBudget  float64 `toml:"monthly_budget"` // Overrides the percentage when set
	Strategy       string  `toml:"strategy"`

	Debts []Debt `toml:"debt"`
}

// Debt is one [[debt]] table
type Debt struct {
	ID             string  `toml:"id"`
	Name           string  `toml:"name"`
	Balance        float64 `toml:"balance"`
	InterestRate   float64 `toml:"interest_rate"`
	MinimumPayment float64 `toml:"minimum_payment"`
	TotalPayments  int     `toml:"total_payments"`
}

// Load reads and validates a scenario file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes and validates scenario TOML
func Parse(data string) (*Scenario, error) {
	var s Scenario
	md, err := toml.Decode(data, &s)
	if err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing scenario: unknown key %q", undecoded[0].String())
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that the scenario can be simulated
func (s *Scenario) Validate() error {
	if s.Strategy != "" {
		if _, err := models.ParseStrategy(s.Strategy); err != nil {
			return err
		}
	}
	if s.MonthlyIncome < 0 || s.MonthlyBudget < 0 {
		return errors.New("income and budget cannot be negative")
	}
	if s.DebtPercentage < 0 || s.DebtPercentage > 100 {
		return errors.New("debt_percentage must be between 0 and 100")
	}
	ids := make(map[string]bool, len(s.Debts))
	for i, d := range s.Debts {
		if d.ID == "" {
			continue
		}
		if ids[d.ID] {
			return fmt.Errorf("debt %d (%s): duplicate id %q", i+1, d.Name, d.ID)
		}
		ids[d.ID] = true
	}
	for i, d := range s.ToDebts() {
		if !d.IsSimulatable() {
			return fmt.Errorf("debt %d (%s): balance and minimum_payment must be positive, interest_rate non-negative", i+1, d.Name)
		}
	}
	return nil
}

// Budget returns the monthly debt budget
func (s *Scenario) Budget() float64 {
	if s.MonthlyBudget > 0 {
		return s.MonthlyBudget
	}
	return models.BudgetSettings{MonthlyIncome: s.MonthlyIncome, DebtPercentage: s.DebtPercentage}.MonthlyBudget()
}

// StrategyOrDefault returns the configured strategy, avalanche when unset
func (s *Scenario) StrategyOrDefault() models.Strategy {
	if st, err := models.ParseStrategy(s.Strategy); err == nil {
		return st
	}
	return models.Avalanche
}

// ToDebts converts the [[debt]] tables, deriving ids from names when absent.
// Derived ids never collide with explicit ids or with each other.
func (s *Scenario) ToDebts() []models.Debt {
	seen := make(map[string]bool, len(s.Debts))
	for _, d := range s.Debts {
		if d.ID != "" {
			seen[d.ID] = true
		}
	}

	debts := make([]models.Debt, len(s.Debts))
	for i, d := range s.Debts {
		id := d.ID
		if id == "" {
			base := slug(d.Name)
			if base == "" {
				base = fmt.Sprintf("debt-%d", i+1)
			}
			id = base
			for n := 2; seen[id]; n++ {
				id = fmt.Sprintf("%s-%d", base, n)
			}
			seen[id] = true
		}

		debts[i] = models.Debt{
			ID:             id,
			Name:           d.Name,
			Balance:        d.Balance,
			InterestRate:   d.InterestRate,
			MinimumPayment: d.MinimumPayment,
			TotalPayments:  d.TotalPayments,
		}
	}
	return debts
}

// slug lower-cases name and joins its words with dashes
func slug(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}
