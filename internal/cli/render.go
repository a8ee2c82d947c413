package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"debtplan/internal/models"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorText   = lipgloss.Color("#FFFCF0")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorOrange = lipgloss.Color("#DA702C")
	colorMuted  = lipgloss.Color("#6F6E69")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Foreground(colorText).Padding(0, 1)
	bestStyle   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true).Padding(0, 1)
	warnStyle   = lipgloss.NewStyle().Foreground(colorOrange)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

// RenderTitle renders a title in a rounded box
func RenderTitle(title string) string {
	return titleStyle.Render(title)
}

// renderTable draws rows under headers. Every column after the first is right-aligned.
func renderTable(headers []string, rows [][]string, highlight func(row int) bool) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			var s lipgloss.Style
			switch {
			case row == table.HeaderRow:
				s = headerStyle
			case highlight != nil && highlight(row):
				s = bestStyle
			default:
				s = cellStyle
			}
			if col > 0 {
				s = s.Align(lipgloss.Right)
			}
			return s
		})
	return t.Render() + "\n"
}

// RenderSummary renders the headline numbers of a plan
func RenderSummary(plan *models.PaymentPlanDetail, strategy models.Strategy, budget float64) string {
	rows := [][]string{
		{"Strategy", string(strategy)},
		{"Monthly budget", FormatCurrency(budget)},
		{"Time to payoff", FormatMonths(plan.Months)},
		{"Total interest", FormatWholeCurrency(plan.TotalInterest)},
		{"Recommended share of income", fmt.Sprintf("%d%%", plan.RecommendedPercentage)},
	}

	out := renderTable([]string{"Plan", ""}, rows, nil)
	if !plan.IsFullyPaid() && plan.Months > 0 {
		out += warnStyle.Render(fmt.Sprintf("  Not paid off after %s: %s still owed. Raise the budget above the interest.",
			FormatMonths(plan.Months), FormatCurrency(plan.RemainingBalance()))) + "\n"
	}
	return out
}

// RenderPayoffOrder lists debts in the order they are paid off
func RenderPayoffOrder(plan *models.PaymentPlanDetail, debts []models.Debt) string {
	names := make(map[string]string, len(debts))
	for _, d := range debts {
		names[d.ID] = d.Name
	}

	rows := [][]string{}
	for _, id := range plan.PaidOffDebtIDs() {
		month, _ := plan.PayoffMonth(id)
		rows = append(rows, []string{displayName(names, id), fmt.Sprintf("%d", month), FormatMonths(month)})
	}
	if len(rows) == 0 {
		return mutedStyle.Render("  No debt is paid off within the plan.") + "\n"
	}
	return renderTable([]string{"Debt", "Month", "After"}, rows, nil)
}

// RenderSchedule renders every payment of every month
func RenderSchedule(plan *models.PaymentPlanDetail, debts []models.Debt) string {
	names := make(map[string]string, len(debts))
	for _, d := range debts {
		names[d.ID] = d.Name
	}

	rows := [][]string{}
	for _, mp := range plan.MonthlyPlans {
		for i, p := range mp.Payments {
			month := ""
			if i == 0 {
				month = fmt.Sprintf("%d", mp.Month)
			}
			name := displayName(names, p.DebtID)
			if p.IsPaidOff {
				name += " ✓"
			}
			rows = append(rows, []string{
				month,
				name,
				FormatCurrency(p.MinimumPayment),
				FormatCurrency(p.ExtraPayment),
				FormatCurrency(p.InterestPaid),
				FormatCurrency(p.RemainingBalance),
			})
		}
	}
	return renderTable([]string{"Month", "Debt", "Minimum", "Extra", "Interest", "Remaining"}, rows, nil)
}

// RenderComparison renders one row per strategy, highlighting the best
func RenderComparison(c *models.Comparison) string {
	rows := make([][]string, 0, len(c.Results))
	best := -1
	for i, r := range c.Results {
		status := "paid off"
		if !r.FullyPaid {
			status = "capped"
		}
		name := string(r.Strategy)
		if r.Strategy == c.Best {
			name += " ★"
			best = i
		}
		rows = append(rows, []string{name, FormatMonths(r.Months), FormatWholeCurrency(r.TotalInterest), status})
	}

	var b strings.Builder
	b.WriteString(renderTable([]string{"Strategy", "Time", "Interest", "Result"}, rows, func(row int) bool {
		return row == best
	}))
	if c.InterestSaved > 0 || c.MonthsSaved > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s saves %s and %s over the worst strategy.",
			c.Best, FormatWholeCurrency(c.InterestSaved), FormatMonths(c.MonthsSaved))))
		b.WriteString("\n")
	}
	return b.String()
}

func displayName(names map[string]string, id string) string {
	if n := names[id]; n != "" {
		return n
	}
	return id
}
