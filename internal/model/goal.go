package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Priority ranks a goal relative to the user's other goals.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Date is a calendar date that accepts both "2006-01-02" and RFC 3339 on the wire.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate truncates t to its calendar date in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// FinancialGoal is a savings target owned by the backend.
type FinancialGoal struct {
	GoalID        string   `json:"goal_id"`
	UserID        string   `json:"user_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	TargetAmount  float64  `json:"target_amount"`
	CurrentAmount float64  `json:"current_amount"`
	TargetDate    Date     `json:"target_date"`
	Priority      Priority `json:"priority"`
	Category      string   `json:"category"`
	OnRoadmap     bool     `json:"on_roadmap"`
}

// GoalUpdate is a partial update sent to the goal PATCH endpoint.
type GoalUpdate struct {
	CurrentAmount *float64 `json:"current_amount,omitempty"`
	OnRoadmap     *bool    `json:"on_roadmap,omitempty"`
}

// MissionType classifies a mission. The backend has used both upper and lower case.
type MissionType string

const (
	MissionSavings           MissionType = "SAVINGS"
	MissionSpendingReduction MissionType = "SPENDING_REDUCTION"
	MissionLearning          MissionType = "LEARNING"
	MissionChallenge         MissionType = "CHALLENGE"
	MissionInvestment        MissionType = "INVESTMENT"
	MissionDebt              MissionType = "DEBT"
)

// Normalize maps legacy lower-case values onto the canonical constants.
func (t MissionType) Normalize() MissionType {
	up := MissionType(strings.ToUpper(string(t)))
	if up == "SPENDING" {
		return MissionSpendingReduction
	}
	return up
}

// MissionStatus is the lifecycle state of a mission.
type MissionStatus string

const (
	MissionActive    MissionStatus = "active"
	MissionCompleted MissionStatus = "completed"
	MissionFailed    MissionStatus = "failed"
)

// Toggled returns the status a user toggle moves to: completed <-> active.
func (s MissionStatus) Toggled() MissionStatus {
	if s == MissionCompleted {
		return MissionActive
	}
	return MissionCompleted
}

// Mission is a server-generated action item attached to a goal.
type Mission struct {
	MissionID        string        `json:"mission_id"`
	UserID           string        `json:"user_id,omitempty"`
	GoalID           string        `json:"goal_id,omitempty"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	MissionType      MissionType   `json:"mission_type"`
	TargetValue      *float64      `json:"target_value,omitempty"`
	Deadline         Date          `json:"deadline"`
	Points           int           `json:"points"`
	Status           MissionStatus `json:"status"`
	MilestonePercent *int          `json:"milestone_percent,omitempty"`
}
