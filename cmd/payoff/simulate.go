package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"debtplan/internal/cli"
	"debtplan/internal/scenario"
	"debtplan/internal/services/payoff"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate one payoff strategy",
	RunE:  runSimulate,
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare every payoff strategy",
	RunE:  runCompare,
}

func init() {
	simulateCmd.Flags().StringVarP(&flagStrategy, "strategy", "s", "", "snowball, avalanche or proportional (overrides the scenario)")
	simulateCmd.Flags().BoolVar(&flagMonths, "months", false, "Print the month-by-month schedule")

	rootCmd.AddCommand(simulateCmd, compareCmd)
}

// loadScenario reads the scenario file and applies flag overrides
func loadScenario(cmd *cobra.Command) (*scenario.Scenario, error) {
	s, err := scenario.Load(flagFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("income") {
		s.MonthlyIncome = flagIncome
	}
	if flags.Changed("percent") {
		s.DebtPercentage = flagPercent
		s.MonthlyBudget = 0
	}
	if flags.Changed("budget") {
		s.MonthlyBudget = flagBudget
	}
	if flags.Changed("strategy") {
		s.Strategy = flagStrategy
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	s, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	debts := s.ToDebts()
	strategy := s.StrategyOrDefault()
	plan := payoff.Simulate(debts, s.Budget(), strategy, s.MonthlyIncome)

	out := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(out, plan)
	}
	if len(debts) == 0 {
		fmt.Fprintln(out, "\n  No debts in scenario.")
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTitle(fmt.Sprintf("PAYOFF PLAN  %d debts", len(debts))))
	fmt.Fprintln(out)
	fmt.Fprint(out, cli.RenderSummary(&plan, strategy, s.Budget()))
	fmt.Fprintln(out)
	fmt.Fprint(out, cli.RenderPayoffOrder(&plan, debts))
	if flagMonths {
		fmt.Fprintln(out)
		fmt.Fprint(out, cli.RenderSchedule(&plan, debts))
	}
	return nil
}

func runCompare(cmd *cobra.Command, _ []string) error {
	s, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	result, err := payoff.CompareStrategies(cmd.Context(), s.ToDebts(), s.Budget(), s.MonthlyIncome)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		for i := range result.Results {
			result.Results[i].Plan = nil
		}
		return writeJSON(out, result)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTitle(fmt.Sprintf("STRATEGIES  %s a month", cli.FormatCurrency(s.Budget()))))
	fmt.Fprintln(out)
	fmt.Fprint(out, cli.RenderComparison(result))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
