package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneymap/moneytree/internal/model"
)

type fakeLoader struct {
	data *model.Dashboard
	err  error
}

func (f *fakeLoader) Load(context.Context) (*model.Dashboard, error) {
	return f.data, f.err
}

func missions(total, completed int) []model.Mission {
	out := make([]model.Mission, total)
	for i := range out {
		out[i].Status = model.MissionActive
		if i < completed {
			out[i].Status = model.MissionCompleted
		}
	}
	return out
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{Goals: 2, Saved: 100, CompletedMissions: 1, Streak: 3}
	curr := Snapshot{Goals: 3, Saved: 175.5, CompletedMissions: 2, Streak: 4}

	delta := diffSnapshots(prev, curr)
	assert.Equal(t, 1, delta.Goals)
	assert.InDelta(t, 75.5, delta.Saved, 1e-9)
	assert.Equal(t, 1, delta.CompletedMissions)
	assert.Equal(t, 1, delta.Streak)
	assert.False(t, delta.isZero())
	assert.True(t, diffSnapshots(curr, curr).isZero())
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, &fakeLoader{})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	require.Len(t, s.events, 2)
	assert.Equal(t, int64(2), s.events[0].ID)
	assert.Equal(t, int64(3), s.events[1].ID)
}

func TestPollEmitsSnapshotProgressAndLevelUp(t *testing.T) {
	loader := &fakeLoader{data: &model.Dashboard{
		Goals:    []model.FinancialGoal{{GoalID: "g1", TargetAmount: 1000, CurrentAmount: 100}},
		Missions: missions(4, 0),
	}}
	s := New(Config{UserID: "u1"}, loader)
	ctx := t.Context()

	s.PollOnce(ctx)
	// Unchanged data publishes nothing.
	s.PollOnce(ctx)

	loader.data = &model.Dashboard{
		Goals:    []model.FinancialGoal{{GoalID: "g1", TargetAmount: 1000, CurrentAmount: 300}},
		Missions: missions(4, 3),
	}
	s.PollOnce(ctx)

	s.mu.RLock()
	events := append([]Event(nil), s.events...)
	s.mu.RUnlock()

	require.Len(t, events, 3)
	assert.Equal(t, EventSnapshot, events[0].Type)
	assert.Equal(t, "seed", events[0].Snapshot.Level)
	assert.Equal(t, EventProgress, events[1].Type)
	assert.InDelta(t, 200, events[1].Delta.Saved, 1e-9)
	assert.Equal(t, 3, events[1].Delta.CompletedMissions)
	assert.Equal(t, EventLevelUp, events[2].Type)
	assert.Equal(t, "tree", events[2].Snapshot.Level)
}

func TestPollFailureIsRecorded(t *testing.T) {
	s := New(Config{}, &fakeLoader{err: errors.New("backend down")})
	s.PollOnce(t.Context())

	st := s.snapshotStatus()
	assert.Equal(t, int64(1), st.PollCount)
	assert.Equal(t, "backend down", st.LastError)
	assert.Zero(t, st.EventCount)
}

func TestStatusEndpoint(t *testing.T) {
	loader := &fakeLoader{data: &model.Dashboard{Missions: missions(2, 1)}}
	s := New(Config{UserID: "u1", Interval: 30 * time.Second}, loader)
	s.PollOnce(t.Context())

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/status")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var st Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, "u1", st.UserID)
	assert.Equal(t, 30, st.PollIntervalSec)
	assert.Equal(t, 1, st.Summary.CompletedMissions)
	assert.Equal(t, 1, st.EventCount)
}
