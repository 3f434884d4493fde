package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/moneymap/moneytree/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tabs defines all available tabs. Each shortcut is the first letter of its name.
var Tabs = []Tab{
	{Name: "Dashboard", Key: 'd'},
	{Name: "Goals", Key: 'g'},
	{Name: "Plan", Key: 'p'},
	{Name: "Credit", Key: 'c'},
	{Name: "Budget", Key: 'b'},
}

func tabStyles() (active, inactive, key lipgloss.Style) {
	t := theme.Active
	active = lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)
	inactive = lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Padding(0, 1)
	key = lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)
	return active, inactive, key
}

func renderTab(tab Tab, isActive bool) string {
	active, inactive, key := tabStyles()
	if isActive {
		return active.Render(tab.Name)
	}
	// Inactive tabs underline the shortcut letter by coloring it.
	return inactive.UnsetPaddingRight().Render("") +
		key.Render(tab.Name[:1]) +
		inactive.UnsetPaddingLeft().Render(tab.Name[1:])
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}

	row := strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}

// TabVisualWidth returns the rendered width of a tab, for mouse hit testing.
func TabVisualWidth(tab Tab, isActive bool) int {
	return lipgloss.Width(renderTab(tab, isActive))
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
