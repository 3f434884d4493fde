package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/moneymap/moneytree/internal/cli"
	"github.com/moneymap/moneytree/internal/dashboard"
	"github.com/moneymap/moneytree/internal/goals"
	"github.com/moneymap/moneytree/internal/model"
	"github.com/moneymap/moneytree/internal/tui/components"
	"github.com/moneymap/moneytree/internal/tui/theme"
)

type dashState struct {
	vm     *dashboard.Dashboard
	data   *model.Dashboard
	loaded bool
}

func newDashState(deps Deps, userID string) dashState {
	return dashState{vm: dashboard.New(deps.Client, userID)}
}

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	if !a.dash.loaded || a.dash.data == nil {
		return a.renderLoading(cw, "Loading your forest...")
	}

	sum := a.dash.vm.Summary()
	var b strings.Builder

	b.WriteString(components.MetricRow([]components.Metric{
		{Label: "Saved", Value: cli.FormatCompactMoney(sum.Saved), Note: "of " + cli.FormatCompactMoney(sum.Target)},
		{Label: "Goals", Value: fmt.Sprintf("%d", sum.Goals), Note: fmt.Sprintf("%d on roadmap", sum.OnRoadmap)},
		{Label: "Missions", Value: fmt.Sprintf("%d", sum.ActiveMissions), Note: fmt.Sprintf("%d completed", sum.CompletedMissions)},
		{Label: "Streak", Value: fmt.Sprintf("%d days", sum.Streak), Color: t.Yellow},
	}, cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)

	// Overall progress + tree
	var left strings.Builder
	left.WriteString(components.TreeBadge(sum.Level))
	left.WriteString("\n\n")
	barW := max(components.CardInnerWidth(halves[0])-6, 10)
	left.WriteString(components.ProgressBar(sum.Progress(), barW, components.ProgressColor(sum.Progress())))
	left.WriteString("\n")
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	left.WriteString(muted.Render(fmt.Sprintf("%s saved toward %s", cli.FormatMoney(sum.Saved), cli.FormatMoney(sum.Target))))

	roadmap := goals.Roadmap(a.dash.data.Goals)
	right := a.renderRoadmapList(roadmap, components.CardInnerWidth(halves[1]))

	b.WriteString(components.CardRow([]string{
		components.ContentCard("Your Tree", left.String(), halves[0]),
		components.ContentCard("Roadmap", right, halves[1]),
	}))
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Active Missions", a.renderActiveMissions(components.CardInnerWidth(cw)), cw))
	return b.String()
}

func (a App) renderRoadmapList(roadmap []model.FinancialGoal, innerW int) string {
	t := theme.Active
	if len(roadmap) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render("No goals on your roadmap yet. Chat with the planner (p).")
	}

	dateStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	labelW := min(20, innerW/3)
	barW := max(innerW-labelW-18, 6)
	now := time.Now()

	var lines []string
	for _, g := range roadmap {
		pct := goals.ClampedProgress(g)
		line := components.LabeledBar(g.Title, pct, labelW, barW, components.ProgressColor(pct))
		line += dateStyle.Render("  " + cli.FormatDaysRemaining(goals.DaysRemaining(g.TargetDate, now)))
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (a App) renderActiveMissions(innerW int) string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	typeStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	ptsStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)

	var lines []string
	for _, m := range a.dash.data.Missions {
		if m.Status != model.MissionActive {
			continue
		}
		kind := fmt.Sprintf("%-12s", truncStr(cli.FormatMissionType(m.MissionType), 12))
		pts := fmt.Sprintf("%4d pts", m.Points)
		title := truncStr(m.Title, max(innerW-lipgloss.Width(kind)-lipgloss.Width(pts)-4, 8))
		lines = append(lines, typeStyle.Render(kind)+"  "+titleStyle.Render(title)+"  "+ptsStyle.Render(pts))
		if len(lines) == 6 {
			break
		}
	}
	if len(lines) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render("No active missions. Open a goal (g, enter) and press m to generate some.")
	}
	return strings.Join(lines, "\n")
}

func (a App) renderLoading(cw int, label string) string {
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)
	return lipgloss.PlaceHorizontal(cw, lipgloss.Center, "\n\n"+a.spinner.View()+style.Render(" "+label),
		lipgloss.WithWhitespaceBackground(t.Background))
}
