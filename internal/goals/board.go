// Package goals holds the goal view-models: the goals board, the goal detail
// screen with its missions, and the goal-planning conversation.
package goals

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/moneymap/moneytree/internal/api"
	"github.com/moneymap/moneytree/internal/model"
)

var (
	ErrUnknownGoal = errors.New("goals: unknown goal")
	ErrBusy        = errors.New("goals: goal has a change in flight")
)

// Service is the slice of the backend the board needs. *api.Client satisfies it.
type Service interface {
	ListGoals(ctx context.Context, userID string) ([]model.FinancialGoal, error)
	UpdateGoal(ctx context.Context, userID, goalID string, upd model.GoalUpdate) (*api.GoalResponse, error)
	DeleteGoal(ctx context.Context, userID, goalID string) (*api.MessageResponse, error)
}

// BoardOptions configures a Board.
type BoardOptions struct {
	// RollbackToggle reverts an optimistic roadmap toggle when the server rejects it.
	RollbackToggle bool
	Logger         *slog.Logger
}

// Board is the cached list of a user's goals plus the mutations on it.
// Toggles are optimistic; deletes and deposits apply only after the server
// confirms them.
type Board struct {
	svc    Service
	userID string
	opts   BoardOptions
	log    *slog.Logger

	mu      sync.Mutex
	goals   []model.FinancialGoal
	loaded  bool
	pending map[string]bool
}

// NewBoard returns an empty board for userID.
func NewBoard(svc Service, userID string, opts BoardOptions) *Board {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Board{
		svc:     svc,
		userID:  userID,
		opts:    opts,
		log:     log.With("user_id", userID),
		pending: make(map[string]bool),
	}
}

// Load fetches all goals. A 404 matches api.ErrNotFound; the previous cache
// is kept on any failure.
func (b *Board) Load(ctx context.Context) error {
	goals, err := b.svc.ListGoals(ctx, b.userID)
	if err != nil {
		return fmt.Errorf("goals: loading: %w", err)
	}
	b.mu.Lock()
	b.goals = append([]model.FinancialGoal(nil), goals...)
	b.loaded = true
	b.mu.Unlock()
	return nil
}

// Loaded reports whether Load has succeeded at least once.
func (b *Board) Loaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loaded
}

// Goals returns a copy of the cached goals in server order.
func (b *Board) Goals() []model.FinancialGoal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.FinancialGoal(nil), b.goals...)
}

// Roadmap returns the roadmap view of the cached goals.
func (b *Board) Roadmap() []model.FinancialGoal {
	return Roadmap(b.Goals())
}

// Get returns the cached goal with goalID.
func (b *Board) Get(goalID string) (model.FinancialGoal, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexLocked(goalID); i >= 0 {
		return b.goals[i], true
	}
	return model.FinancialGoal{}, false
}

// Pending reports whether goalID has a mutation in flight.
func (b *Board) Pending(goalID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending[goalID]
}

// ToggleRoadmap flips OnRoadmap locally, then asks the server to persist it.
func (b *Board) ToggleRoadmap(ctx context.Context, goalID string) (model.FinancialGoal, error) {
	m, err := b.begin(goalID, toggleMutation)
	if err != nil {
		return model.FinancialGoal{}, err
	}
	next := !m.Previous.OnRoadmap
	return b.run(ctx, m, func(ctx context.Context) (*api.GoalResponse, error) {
		return b.svc.UpdateGoal(ctx, b.userID, goalID, model.GoalUpdate{OnRoadmap: &next})
	})
}

// Delete removes the goal on the server, then from the cache.
func (b *Board) Delete(ctx context.Context, goalID string) error {
	m, err := b.begin(goalID, removeMutation)
	if err != nil {
		return err
	}
	_, err = b.run(ctx, m, func(ctx context.Context) (*api.GoalResponse, error) {
		_, err := b.svc.DeleteGoal(ctx, b.userID, goalID)
		return nil, err
	})
	return err
}

// AddSavings deposits delta into the goal. The absolute new total is sent and
// the server's copy of the goal replaces the cached one.
func (b *Board) AddSavings(ctx context.Context, goalID string, delta float64) (model.FinancialGoal, error) {
	if err := model.ValidateVar("amount", delta, "gt=0"); err != nil {
		return model.FinancialGoal{}, err
	}

	var total float64
	m, err := b.begin(goalID, func(prev model.FinancialGoal) Mutation {
		total = prev.CurrentAmount + delta
		return depositMutation(prev, total)
	})
	if err != nil {
		return model.FinancialGoal{}, err
	}
	return b.run(ctx, m, func(ctx context.Context) (*api.GoalResponse, error) {
		return b.svc.UpdateGoal(ctx, b.userID, goalID, model.GoalUpdate{CurrentAmount: &total})
	})
}

// run applies m around call according to its kind. Optimistic kinds are
// applied first and rolled back on failure when configured; the rest are
// applied only after call succeeds. A goal returned by the server always
// replaces the cached copy.
func (b *Board) run(ctx context.Context, m Mutation, call func(context.Context) (*api.GoalResponse, error)) (model.FinancialGoal, error) {
	optimistic := m.Kind.Optimistic()
	if optimistic {
		b.mu.Lock()
		b.goals = m.Apply(b.goals)
		b.mu.Unlock()
	}

	resp, err := call(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, m.GoalID)

	if err != nil {
		rollback := optimistic && m.Rollback != nil && b.opts.RollbackToggle
		if rollback {
			b.goals = m.Rollback(b.goals)
		}
		b.log.Warn("goal change failed", "goal_id", m.GoalID, "kind", m.Kind.String(), "rolled_back", rollback, "err", err)
		return b.currentLocked(m.GoalID, m.Previous), fmt.Errorf("goals: %s %s: %w", m.Kind, m.GoalID, err)
	}

	if !b.adoptLocked(m.GoalID, resp) && !optimistic {
		b.goals = m.Apply(b.goals)
	}
	return b.currentLocked(m.GoalID, m.Previous), nil
}

// begin checks goalID is cached and idle, marks it pending and builds the mutation.
func (b *Board) begin(goalID string, build func(prev model.FinancialGoal) Mutation) (Mutation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexLocked(goalID)
	if i < 0 {
		return Mutation{}, fmt.Errorf("%w: %s", ErrUnknownGoal, goalID)
	}
	if b.pending[goalID] {
		return Mutation{}, ErrBusy
	}
	b.pending[goalID] = true
	return build(b.goals[i]), nil
}

// adoptLocked replaces the cached goal with the server's copy, if it sent one.
func (b *Board) adoptLocked(goalID string, resp *api.GoalResponse) bool {
	if resp == nil || resp.Goal.GoalID == "" {
		return false
	}
	if i := b.indexLocked(goalID); i >= 0 {
		b.goals[i] = resp.Goal
		return true
	}
	return false
}

func (b *Board) currentLocked(goalID string, fallback model.FinancialGoal) model.FinancialGoal {
	if i := b.indexLocked(goalID); i >= 0 {
		return b.goals[i]
	}
	return fallback
}

func (b *Board) indexLocked(goalID string) int {
	for i := range b.goals {
		if b.goals[i].GoalID == goalID {
			return i
		}
	}
	return -1
}
