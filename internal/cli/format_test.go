package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/moneymap/moneytree/internal/model"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{12.5, "$12.50"},
		{1234567, "$1,234,567"},
		{10000, "$10,000"},
		{-40, "-$40"},
		{1234.56, "$1,234.56"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(tt.in), "FormatMoney(%v)", tt.in)
	}
}

func TestFormatCompactMoney(t *testing.T) {
	assert.Equal(t, "$999", FormatCompactMoney(999))
	assert.Equal(t, "$1.5K", FormatCompactMoney(1500))
	assert.Equal(t, "$65K", FormatCompactMoney(65000))
	assert.Equal(t, "$2.3M", FormatCompactMoney(2_300_000))
	assert.Equal(t, "-$1.5K", FormatCompactMoney(-1500))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
	assert.Equal(t, "-1,000", FormatNumber(-1000))
	assert.Equal(t, "12", FormatNumber(12))
}

func TestFormatDaysRemaining(t *testing.T) {
	assert.Equal(t, "12 days left", FormatDaysRemaining(12))
	assert.Equal(t, "1 day left", FormatDaysRemaining(1))
	assert.Equal(t, "due today", FormatDaysRemaining(0))
	assert.Equal(t, "1 day overdue", FormatDaysRemaining(-1))
	assert.Equal(t, "5 days overdue", FormatDaysRemaining(-5))
}

func TestFormatLabels(t *testing.T) {
	assert.Equal(t, "High", FormatPriority(model.PriorityHigh))
	assert.Equal(t, "Spending reduction", FormatMissionType("spending"))
	assert.Equal(t, "Mar 15, 2026", FormatDate(model.NewDate(2026, time.March, 15)))
	assert.Equal(t, "-", FormatDate(model.Date{}))
	assert.Equal(t, "65%", FormatPercent(65.2))
}
