// Package model defines the wire and domain types shared by the moneytree client.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Debt is a single outstanding debt reported during onboarding.
type Debt struct {
	Type   string  `json:"type" validate:"required"`
	Amount float64 `json:"amount" validate:"gt=0"`
}

// UserProfile is the cached copy of the user's onboarding answers.
type UserProfile struct {
	UserID       string  `json:"user_id"`
	Age          int     `json:"age"`
	AnnualIncome float64 `json:"annual_income"`
	Debts        []Debt  `json:"debts"`
	CreatedAt    string  `json:"created_at,omitempty"`
}

// UserSession is the locally persisted identity of this client.
// IsOnboarded is true iff UserID is non-empty.
type UserSession struct {
	UserID      string
	Profile     *UserProfile
	IsOnboarded bool
}

// OnboardRequest is submitted once to create a user on the backend.
type OnboardRequest struct {
	Age          int     `json:"age" validate:"required,gte=13,lte=120"`
	AnnualIncome float64 `json:"annual_income" validate:"required,gt=0"`
	Debts        []Debt  `json:"debts" validate:"dive"`

	// StatementPath is an optional CSV bank statement uploaded with the form.
	StatementPath string `json:"-" validate:"omitempty,endswith=.csv"`
}

// Profile builds the profile cached after a successful onboarding.
func (r OnboardRequest) Profile(userID string) UserProfile {
	debts := make([]Debt, len(r.Debts))
	copy(debts, r.Debts)
	return UserProfile{
		UserID:       userID,
		Age:          r.Age,
		AnnualIncome: r.AnnualIncome,
		Debts:        debts,
	}
}

// OnboardResponse is returned by the onboarding endpoint.
type OnboardResponse struct {
	UserID   string `json:"user_id"`
	Message  string `json:"message"`
	NextStep string `json:"next_step"`
}

// UserStreak tracks mission completion streaks shown on the dashboard.
type UserStreak struct {
	UserID                 string `json:"user_id"`
	Username               string `json:"username"`
	CurrentStreak          int    `json:"current_streak"`
	LongestStreak          int    `json:"longest_streak"`
	TotalMissionsCompleted int    `json:"total_missions_completed"`
	SharkLevel             int    `json:"shark_level"`
	ApplesCollected        int    `json:"apples_collected,omitempty"`
}

// SharkStatus is the growth summary returned by the shark endpoint.
type SharkStatus struct {
	SharkLevel    int     `json:"shark_level"`
	CurrentStreak int     `json:"current_streak"`
	TotalMissions int     `json:"total_missions"`
	NextLevelAt   int     `json:"next_level_at"`
	Progress      float64 `json:"progress"`
}

// ParseDebts parses "type:amount" pairs separated by commas, e.g.
// "student loan:12000, car:4500". Blank input yields no debts.
func ParseDebts(s string) ([]Debt, error) {
	var debts []Debt
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i := strings.LastIndex(part, ":")
		if i < 0 {
			return nil, &ValidationError{Field: "debts", Reason: fmt.Sprintf("%q is not type:amount", part)}
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(part[i+1:], "$", "")), 64)
		if err != nil {
			return nil, &ValidationError{Field: "debts", Reason: fmt.Sprintf("%q has no valid amount", part)}
		}
		debts = append(debts, Debt{Type: strings.TrimSpace(part[:i]), Amount: amount})
	}
	return debts, nil
}
