package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/moneymap/moneytree/internal/tui/theme"
)

// Bar is one entry of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Text  string // rendered after the bar, e.g. a formatted amount
}

// HBarChart renders bars scaled to the largest value within width columns.
func HBarChart(bars []Bar, width int, color lipgloss.Color) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	textW := 0
	peak := 0.0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		textW = max(textW, lipgloss.Width(b.Text))
		peak = max(peak, b.Value)
	}
	labelW = min(labelW, width/3)
	barMax := width - labelW - textW - 2
	if barMax < 1 {
		barMax = 1
	}
	if peak <= 0 {
		peak = 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, len(bars))
	for i, b := range bars {
		n := int(b.Value / peak * float64(barMax))
		n = max(0, min(n, barMax))
		lines[i] = labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(b.Label, labelW))) +
			space.Render(" ") +
			barStyle.Render(strings.Repeat("█", n)) +
			space.Render(strings.Repeat(" ", barMax-n+1)) +
			textStyle.Render(b.Text)
	}
	return strings.Join(lines, "\n")
}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		buf.WriteRune(blocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}
