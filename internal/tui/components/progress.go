package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/moneymap/moneytree/internal/goals"
	"github.com/moneymap/moneytree/internal/tui/theme"
)

// LevelColor returns the theme color of a tree level.
func LevelColor(l goals.Level) lipgloss.Color {
	t := theme.Active
	switch l {
	case goals.Sapling:
		return t.Sapling
	case goals.Tree:
		return t.Tree
	case goals.AppleTree:
		return t.AppleTree
	default:
		return t.Seed
	}
}

// LevelIcon is a short glyph for a tree level.
func LevelIcon(l goals.Level) string {
	switch l {
	case goals.Sapling:
		return "🌿"
	case goals.Tree:
		return "🌳"
	case goals.AppleTree:
		return "🍎"
	default:
		return "🌱"
	}
}

// TreeBadge renders the icon and name of a tree level.
func TreeBadge(l goals.Level) string {
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(LevelColor(l)).Background(t.Surface).Bold(true)
	return style.Render(LevelIcon(l) + " " + l.String())
}

// ProgressBar renders a 0-100 percentage bar followed by the percentage.
func ProgressBar(pct float64, width int, color lipgloss.Color) string {
	t := theme.Active
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if width < 4 {
		width = 4
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")
	return bar.ViewAs(pct/100) + space + pctStyle.Render(fmt.Sprintf("%3.0f%%", pct))
}

// LabeledBar renders "label  [bar] pct" with a fixed label column.
func LabeledBar(label string, pct float64, labelW, barW int, color lipgloss.Color) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")
	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(label, labelW))) + space + ProgressBar(pct, barW, color)
}

// ProgressColor picks a bar color for financial progress.
func ProgressColor(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 100:
		return t.AccentBright
	case pct >= 50:
		return t.Green
	case pct >= 25:
		return t.Yellow
	default:
		return t.Orange
	}
}
