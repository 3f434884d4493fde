package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/moneymap/moneytree/internal/cli"
	"github.com/moneymap/moneytree/internal/dashboard"
	"github.com/moneymap/moneytree/internal/model"
	"github.com/moneymap/moneytree/internal/tui/components"
	"github.com/moneymap/moneytree/internal/tui/theme"
)

type budgetState struct {
	vm     *dashboard.Budget
	report *model.BudgetReport
}

func newBudgetState(deps Deps, userID string) budgetState {
	return budgetState{vm: dashboard.NewBudget(deps.Client, userID)}
}

func (a App) renderBudgetTab(cw int) string {
	t := theme.Active
	r := a.budget.report
	if r == nil {
		return a.renderLoading(cw, "Loading budget...")
	}

	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	if !r.HasData || r.Summary == nil {
		body := dim.Render("No statement uploaded yet.\n\nRun `moneytree onboard --statement export.csv` with a CSV bank export\nto see where your money goes.")
		return components.ContentCard("Budget", body, cw)
	}

	s := r.Summary
	rateColor := t.Green
	if s.SavingsRate < 10 {
		rateColor = t.Orange
	}

	var b strings.Builder
	b.WriteString(components.MetricRow([]components.Metric{
		{Label: "Income", Value: cli.FormatCompactMoney(s.TotalIncome), Note: s.Period},
		{Label: "Spending", Value: cli.FormatCompactMoney(s.TotalSpending)},
		{Label: "Net savings", Value: cli.FormatCompactMoney(s.NetSavings)},
		{Label: "Savings rate", Value: cli.FormatPercent(s.SavingsRate), Color: rateColor},
	}, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)

	var bars []components.Bar
	for _, c := range dashboard.TopCategories(r, 8) {
		bars = append(bars, components.Bar{
			Label: c.Category,
			Value: c.Amount,
			Text:  fmt.Sprintf("%s %s", cli.FormatMoney(c.Amount), cli.FormatPercent(c.Percentage)),
		})
	}
	spending := components.HBarChart(bars, components.CardInnerWidth(halves[0]), t.Accent)
	if spending == "" {
		spending = dim.Render("No categorized spending")
	}

	b.WriteString(components.CardRow([]string{
		components.ContentCard("Spending by Category", spending, halves[0]),
		components.ContentCard("Insights", a.renderInsights(r, components.CardInnerWidth(halves[1])), halves[1]),
	}))
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Recent Transactions", renderTransactions(r.RecentTransactions, components.CardInnerWidth(cw)), cw))
	return b.String()
}

func (a App) renderInsights(r *model.BudgetReport, innerW int) string {
	t := theme.Active
	title := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	body := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	good := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)

	var lines []string
	if r.OptimizationScore != nil {
		lines = append(lines, body.Render("Optimization score ")+good.Render(fmt.Sprintf("%.0f/100", *r.OptimizationScore)))
	}
	if total := dashboard.PotentialSavings(r); total > 0 {
		lines = append(lines, body.Render("Potential savings ")+good.Render(cli.FormatMoney(total)))
	}
	for i, in := range r.Insights {
		if i == 4 {
			break
		}
		lines = append(lines, "", title.Render(truncStr(in.Title, innerW)), body.Render(truncStr(in.Description, innerW)))
	}
	if len(lines) == 0 {
		return body.Render("No insights yet")
	}
	return strings.Join(lines, "\n")
}

func renderTransactions(txns []model.Transaction, innerW int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	neg := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	pos := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)

	if len(txns) == 0 {
		return dim.Render("No transactions")
	}
	descW := max(innerW-40, 10)
	var lines []string
	for i, tx := range txns {
		if i == 8 {
			break
		}
		amt := pos
		if tx.Amount < 0 {
			amt = neg
		}
		lines = append(lines, dim.Render(fmt.Sprintf("%-10s ", truncStr(tx.Date, 10)))+
			row.Render(fmt.Sprintf("%-*s ", descW, truncStr(tx.Description, descW)))+
			dim.Render(fmt.Sprintf("%-14s ", truncStr(tx.Category, 14)))+
			amt.Render(fmt.Sprintf("%12s", cli.FormatMoney(tx.Amount))))
	}
	return strings.Join(lines, "\n")
}
