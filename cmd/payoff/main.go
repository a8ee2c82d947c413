// Command payoff simulates debt payoff plans from TOML scenario files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"debtplan/internal/version"
)

var (
	flagFile     string
	flagStrategy string
	flagBudget   float64
	flagIncome   float64
	flagPercent  float64
	flagMonths   bool
	flagJSON     bool
)

var rootCmd = &cobra.Command{
	Use:           "payoff",
	Short:         "Debt payoff planner",
	Long:          "Simulate snowball, avalanche and proportional debt payoff plans from a TOML scenario.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagFile, "file", "f", "scenario.toml", "Scenario file")
	pf.Float64Var(&flagBudget, "budget", 0, "Monthly debt budget (overrides the scenario)")
	pf.Float64Var(&flagIncome, "income", 0, "Monthly income (overrides the scenario)")
	pf.Float64Var(&flagPercent, "percent", 0, "Percent of income for debt (overrides the scenario)")
	pf.BoolVar(&flagJSON, "json", false, "Print JSON instead of tables")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "payoff", version.Get().String())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
