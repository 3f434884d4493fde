package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/moneymap/moneytree/internal/tui/theme"
)

// Status is the content of the bottom status bar.
type Status struct {
	UserID  string
	Message string
	IsError bool
	Busy    string // spinner frame while a request is in flight
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	msgStyle := base.Foreground(t.TextPrimary)
	if s.IsError {
		msgStyle = base.Foreground(t.Red)
	}

	left := base.Render(" [?]help  [q]uit ")
	if s.Busy != "" {
		left += base.Foreground(t.Accent).Render(s.Busy + " ")
	}
	if s.Message != "" {
		left += msgStyle.Render(s.Message)
	}

	right := ""
	if s.UserID != "" {
		right = base.Foreground(t.TextDim).Render("user " + truncate(s.UserID, 12) + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	return left + base.Render(spaces(padding)) + right
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
