package models

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy selects how surplus money is allocated across debts
type Strategy string

const (
	// Snowball pays the smallest balance first
	Snowball Strategy = "snowball"
	// Avalanche pays the highest interest rate first
	Avalanche Strategy = "avalanche"
	// Proportional splits surplus by each debt's share of the total balance
	Proportional Strategy = "proportional"
)

// Strategies lists every supported strategy in declaration order
var Strategies = []Strategy{Snowball, Avalanche, Proportional}

// ParseStrategy converts user input into a Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case Snowball, Avalanche, Proportional:
		return st, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want snowball, avalanche or proportional)", s)
	}
}

// Debt is one liability being tracked
type Debt struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Balance        float64 `json:"balance"`        // Outstanding principal
	InterestRate   float64 `json:"interestRate"`   // Nominal APR, e.g. 19.9 for 19.9%
	MinimumPayment float64 `json:"minimumPayment"` // Contractual monthly minimum
	TotalPayments  int     `json:"totalPayments"`  // Original number of installments (informational)

	// IsPaidOff is set by the debt repository once a recorded month zeroes the balance
	IsPaidOff bool `json:"isPaidOff,omitempty"`
}

var (
	errEmptyName      = errors.New("name is required")
	errBalance        = errors.New("balance must be greater than zero")
	errInterestRate   = errors.New("interest rate must be greater than zero")
	errMinimumPayment = errors.New("minimum payment must be greater than zero")
	errTotalPayments  = errors.New("total payments must be greater than zero")
)

// Validate returns the first rule a debt record breaks, or nil when it may be saved
func (d Debt) Validate() error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return errEmptyName
	case !(d.Balance > 0):
		return errBalance
	case !(d.InterestRate > 0):
		return errInterestRate
	case !(d.MinimumPayment > 0):
		return errMinimumPayment
	case d.TotalPayments <= 0:
		return errTotalPayments
	}
	return nil
}

// IsValid reports whether the record may be admitted to a simulation by the form layer
func (d Debt) IsValid() bool {
	return d.Validate() == nil
}

// IsSimulatable is the looser rule the engine itself assumes: zero-rate debts are fine
func (d Debt) IsSimulatable() bool {
	return d.Balance > 0 && d.InterestRate >= 0 && d.MinimumPayment > 0
}

// BudgetSettings holds the income-side inputs for a payoff plan
type BudgetSettings struct {
	MonthlyIncome  float64  `json:"monthlyIncome"`
	DebtPercentage float64  `json:"debtPercentage"` // Share of income put toward debt, 0-100
	Strategy       Strategy `json:"strategy"`
}

// DefaultBudgetSettings returns the settings used before the user saves any
func DefaultBudgetSettings() *BudgetSettings {
	return &BudgetSettings{
		MonthlyIncome:  0,
		DebtPercentage: 20,
		Strategy:       Avalanche,
	}
}

// MonthlyBudget is the money available for debt each month
func (b BudgetSettings) MonthlyBudget() float64 {
	return b.MonthlyIncome * b.DebtPercentage / 100
}

// Validate checks the settings before they are persisted
func (b BudgetSettings) Validate() error {
	if b.MonthlyIncome < 0 {
		return errors.New("monthly income cannot be negative")
	}
	if b.DebtPercentage < 0 || b.DebtPercentage > 100 {
		return errors.New("debt percentage must be between 0 and 100")
	}
	if _, err := ParseStrategy(string(b.Strategy)); err != nil {
		return err
	}
	return nil
}
