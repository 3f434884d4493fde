// Package dashboard loads the read-only aggregates behind the home and budget screens.
package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/moneymap/moneytree/internal/goals"
	"github.com/moneymap/moneytree/internal/model"
)

// Service is the slice of the backend the dashboards need. *api.Client satisfies it.
type Service interface {
	Dashboard(ctx context.Context, userID string) (*model.Dashboard, error)
	Budget(ctx context.Context, userID string) (*model.BudgetReport, error)
}

// Dashboard is the home screen aggregate.
type Dashboard struct {
	svc    Service
	userID string

	mu   sync.Mutex
	data *model.Dashboard
}

// New returns a Dashboard for userID.
func New(svc Service, userID string) *Dashboard {
	return &Dashboard{svc: svc, userID: userID}
}

// Load fetches the aggregate. A 404 matches api.ErrNotFound.
func (d *Dashboard) Load(ctx context.Context) (*model.Dashboard, error) {
	data, err := d.svc.Dashboard(ctx, d.userID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: loading: %w", err)
	}
	d.mu.Lock()
	d.data = data
	d.mu.Unlock()
	return data, nil
}

// Summary holds the headline numbers derived from a loaded dashboard.
type Summary struct {
	Goals             int
	OnRoadmap         int
	Saved             float64
	Target            float64
	ActiveMissions    int
	CompletedMissions int
	Streak            int
	Level             goals.Level
}

// Progress is Saved over Target, clamped for display.
func (s Summary) Progress() float64 {
	return goals.ClampedProgress(model.FinancialGoal{TargetAmount: s.Target, CurrentAmount: s.Saved})
}

// Summarize derives the headline numbers from data.
func Summarize(data *model.Dashboard) Summary {
	var s Summary
	if data == nil {
		return s
	}
	s.Goals = len(data.Goals)
	s.OnRoadmap = len(goals.Roadmap(data.Goals))
	for _, g := range data.Goals {
		s.Saved += g.CurrentAmount
		s.Target += g.TargetAmount
	}
	s.CompletedMissions = goals.CompletedMissions(data.Missions)
	for _, m := range data.Missions {
		if m.Status == model.MissionActive {
			s.ActiveMissions++
		}
	}
	if data.Streak != nil {
		s.Streak = data.Streak.CurrentStreak
	}
	s.Level = goals.TreeLevel(goals.MissionProgress(data.Missions))
	return s
}

// Summary summarizes the last loaded aggregate.
func (d *Dashboard) Summary() Summary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Summarize(d.data)
}
