// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/moneymap/moneytree/internal/model"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatMoney formats a USD amount. Whole amounts drop the cents.
// e.g., 1234567 -> "$1,234,567", 12.5 -> "$12.50", -40 -> "-$40"
func FormatMoney(v float64) string {
	if v < 0 {
		return "-" + FormatMoney(-v)
	}
	if v == math.Trunc(v) {
		return printer.Sprintf("$%d", int64(v))
	}
	return printer.Sprintf("$%.2f", v)
}

// FormatCompactMoney shortens large amounts: 1500 -> "$1.5K", 2300000 -> "$2.3M".
func FormatCompactMoney(v float64) string {
	abs := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, abs/1_000_000)
	case abs >= 10_000:
		return fmt.Sprintf("%s$%.0fK", sign, abs/1_000)
	case abs >= 1_000:
		return fmt.Sprintf("%s$%.1fK", sign, abs/1_000)
	default:
		return FormatMoney(v)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatPercent formats a 0-100 percentage with no decimals.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}

// FormatDaysRemaining describes a countdown in days.
func FormatDaysRemaining(days int) string {
	switch {
	case days > 1:
		return fmt.Sprintf("%d days left", days)
	case days == 1:
		return "1 day left"
	case days == 0:
		return "due today"
	case days == -1:
		return "1 day overdue"
	default:
		return fmt.Sprintf("%d days overdue", -days)
	}
}

// FormatDate renders a calendar date like "Mar 15, 2026".
func FormatDate(d model.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("Jan 2, 2006")
}

// FormatPriority capitalizes a goal priority.
func FormatPriority(p model.Priority) string {
	if p == "" {
		return "-"
	}
	s := string(p)
	return strings.ToUpper(s[:1]) + s[1:]
}

// FormatMissionType turns SPENDING_REDUCTION into "Spending reduction".
func FormatMissionType(t model.MissionType) string {
	s := strings.ToLower(strings.ReplaceAll(string(t.Normalize()), "_", " "))
	if s == "" {
		return "-"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FormatAge formats how long ago t was, for "last synced" style labels.
func FormatAge(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
