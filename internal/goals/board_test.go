package goals

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneymap/moneytree/internal/api"
	"github.com/moneymap/moneytree/internal/logger"
	"github.com/moneymap/moneytree/internal/model"
)

type fakeService struct {
	mu      sync.Mutex
	goals   []model.FinancialGoal
	listErr error
	failErr error
	updates []model.GoalUpdate
	deletes []string

	// block, when set, is waited on inside UpdateGoal.
	block chan struct{}
}

func (f *fakeService) ListGoals(context.Context, string) ([]model.FinancialGoal, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.FinancialGoal(nil), f.goals...), nil
}

func (f *fakeService) UpdateGoal(_ context.Context, _, goalID string, upd model.GoalUpdate) (*api.GoalResponse, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, upd)
	if f.failErr != nil {
		return nil, f.failErr
	}
	for i := range f.goals {
		if f.goals[i].GoalID != goalID {
			continue
		}
		if upd.CurrentAmount != nil {
			f.goals[i].CurrentAmount = *upd.CurrentAmount
		}
		if upd.OnRoadmap != nil {
			f.goals[i].OnRoadmap = *upd.OnRoadmap
		}
		return &api.GoalResponse{Goal: f.goals[i], Message: "Goal updated"}, nil
	}
	return nil, &api.RequestError{Status: http.StatusNotFound, Message: "Goal not found"}
}

func (f *fakeService) DeleteGoal(_ context.Context, _, goalID string) (*api.MessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, goalID)
	if f.failErr != nil {
		return nil, f.failErr
	}
	return &api.MessageResponse{Message: "deleted"}, nil
}

var errServer = &api.RequestError{Status: http.StatusInternalServerError, Message: "API Error: 500"}

func newBoard(t *testing.T, svc *fakeService, rollback bool) *Board {
	t.Helper()
	b := NewBoard(svc, "u1", BoardOptions{RollbackToggle: rollback, Logger: logger.Discard()})
	require.NoError(t, b.Load(t.Context()))
	return b
}

func seedGoals() []model.FinancialGoal {
	return []model.FinancialGoal{
		{GoalID: "g1", Title: "Emergency fund", TargetAmount: 10000, CurrentAmount: 6500},
		{GoalID: "g2", Title: "Vacation", TargetAmount: 3000, OnRoadmap: true},
	}
}

func TestLoadNotFound(t *testing.T) {
	svc := &fakeService{listErr: &api.RequestError{Status: http.StatusNotFound, Message: "User not found"}}
	b := NewBoard(svc, "u1", BoardOptions{Logger: logger.Discard()})

	err := b.Load(t.Context())
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
	assert.False(t, b.Loaded())
}

func TestLoadFailureKeepsCache(t *testing.T) {
	svc := &fakeService{goals: seedGoals()}
	b := newBoard(t, svc, true)

	svc.listErr = errServer
	require.Error(t, b.Load(t.Context()))
	assert.Len(t, b.Goals(), 2)
}

func TestAddSavings(t *testing.T) {
	svc := &fakeService{goals: seedGoals()}
	b := newBoard(t, svc, true)

	g, err := b.AddSavings(t.Context(), "g1", 500)
	require.NoError(t, err)
	assert.InDelta(t, 7000, g.CurrentAmount, 1e-9)
	assert.InDelta(t, 70.0, FinancialProgress(g), 1e-9)

	require.Len(t, svc.updates, 1)
	require.NotNil(t, svc.updates[0].CurrentAmount)
	assert.InDelta(t, 7000, *svc.updates[0].CurrentAmount, 1e-9, "absolute total is sent")
	assert.Nil(t, svc.updates[0].OnRoadmap)

	cached, ok := b.Get("g1")
	require.True(t, ok)
	assert.InDelta(t, 7000, cached.CurrentAmount, 1e-9)
}

func TestAddSavingsRejectsNonPositive(t *testing.T) {
	svc := &fakeService{goals: seedGoals()}
	b := newBoard(t, svc, true)

	for _, delta := range []float64{0, -10} {
		_, err := b.AddSavings(t.Context(), "g1", delta)
		var verr *model.ValidationError
		require.True(t, errors.As(err, &verr), "delta %v", delta)
	}
	assert.Empty(t, svc.updates, "validation must block the network call")
}

func TestAddSavingsFailureLeavesAmount(t *testing.T) {
	svc := &fakeService{goals: seedGoals()}
	b := newBoard(t, svc, true)
	svc.failErr = errServer

	_, err := b.AddSavings(t.Context(), "g1", 500)
	require.Error(t, err)
	g, _ := b.Get("g1")
	assert.InDelta(t, 6500, g.CurrentAmount, 1e-9)
	assert.False(t, b.Pending("g1"))
}

func TestDeleteConfirmThenApply(t *testing.T) {
	svc := &fakeService{goals: seedGoals()}
	b := newBoard(t, svc, true)

	require.NoError(t, b.Delete(t.Context(), "g1"))
	_, ok := b.Get("g1")
	assert.False(t, ok)
	assert.Len(t, b.Goals(), 1)
}

func TestDeleteRejectedKeepsGoal(t *testing.T) {
	svc := &fakeService{goals: seedGoals()}
	b := newBoard(t, svc, true)
	svc.failErr = errServer

	err := b.Delete(t.Context(), "g1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API Error: 500")
	_, ok := b.Get("g1")
	assert.True(t, ok)
	assert.Len(t, b.Goals(), 2)
}

func TestToggleRoadmap(t *testing.T) {
	svc := &fakeService{goals: seedGoals()}
	b := newBoard(t, svc, true)

	g, err := b.ToggleRoadmap(t.Context(), "g1")
	require.NoError(t, err)
	assert.True(t, g.OnRoadmap)
	require.Len(t, svc.updates, 1)
	require.NotNil(t, svc.updates[0].OnRoadmap)
	assert.True(t, *svc.updates[0].OnRoadmap)

	ids := []string{}
	for _, g := range b.Roadmap() {
		ids = append(ids, g.GoalID)
	}
	assert.ElementsMatch(t, []string{"g1", "g2"}, ids)
}

func TestToggleRoadmapIsOptimistic(t *testing.T) {
	svc := &fakeService{goals: seedGoals(), block: make(chan struct{})}
	b := newBoard(t, svc, true)

	done := make(chan error, 1)
	go func() {
		_, err := b.ToggleRoadmap(context.Background(), "g1")
		done <- err
	}()

	require.Eventually(t, func() bool {
		g, _ := b.Get("g1")
		return g.OnRoadmap
	}, time.Second, time.Millisecond)
	assert.True(t, b.Pending("g1"))

	_, err := b.ToggleRoadmap(t.Context(), "g1")
	assert.ErrorIs(t, err, ErrBusy)

	close(svc.block)
	require.NoError(t, <-done)
	assert.False(t, b.Pending("g1"))
}

func TestToggleRoadmapRollback(t *testing.T) {
	tests := []struct {
		name     string
		rollback bool
		want     bool
	}{
		{"rollback enabled", true, false},
		{"rollback disabled", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{goals: seedGoals()}
			b := newBoard(t, svc, tt.rollback)
			svc.failErr = errServer

			g, err := b.ToggleRoadmap(t.Context(), "g1")
			require.Error(t, err)
			assert.Equal(t, tt.want, g.OnRoadmap)
			cached, _ := b.Get("g1")
			assert.Equal(t, tt.want, cached.OnRoadmap)
		})
	}
}

func TestUnknownGoal(t *testing.T) {
	b := newBoard(t, &fakeService{goals: seedGoals()}, true)

	_, err := b.ToggleRoadmap(t.Context(), "nope")
	assert.ErrorIs(t, err, ErrUnknownGoal)
	assert.ErrorIs(t, b.Delete(t.Context(), "nope"), ErrUnknownGoal)
	_, err = b.AddSavings(t.Context(), "nope", 5)
	assert.ErrorIs(t, err, ErrUnknownGoal)
}

func TestGoalsReturnsCopy(t *testing.T) {
	b := newBoard(t, &fakeService{goals: seedGoals()}, true)
	got := b.Goals()
	got[0].Title = "changed"
	g, _ := b.Get("g1")
	assert.Equal(t, "Emergency fund", g.Title)
}
