package goals

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneymap/moneytree/internal/api"
	"github.com/moneymap/moneytree/internal/logger"
	"github.com/moneymap/moneytree/internal/model"
)

type fakeMissions struct {
	goal      model.FinancialGoal
	missions  []model.Mission
	generated []model.Mission
	getErr    error
	updateErr error
	statuses  map[string]model.MissionStatus
}

func (f *fakeMissions) GetGoal(context.Context, string, string) (*model.FinancialGoal, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	g := f.goal
	return &g, nil
}

func (f *fakeMissions) GoalMissions(context.Context, string, string) ([]model.Mission, error) {
	return append([]model.Mission(nil), f.missions...), nil
}

func (f *fakeMissions) GenerateGoalMissions(context.Context, string, string) ([]model.Mission, error) {
	return f.generated, nil
}

func (f *fakeMissions) UpdateMissionStatus(_ context.Context, _, _, missionID string, status model.MissionStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.statuses == nil {
		f.statuses = make(map[string]model.MissionStatus)
	}
	f.statuses[missionID] = status
	return nil
}

func fourMissions(completed int) []model.Mission {
	ms := missions(4, completed)
	for i := range ms {
		ms[i].MissionID = string(rune('a' + i))
	}
	return ms
}

func TestDetailLoadIsBaseline(t *testing.T) {
	svc := &fakeMissions{goal: model.FinancialGoal{GoalID: "g1"}, missions: fourMissions(3)}
	d := NewDetail(svc, "u1", "g1", logger.Discard())
	require.NoError(t, d.Load(t.Context()))

	assert.Equal(t, "g1", d.Goal().GoalID)
	assert.InDelta(t, 75.0, d.MissionProgress(), 1e-9)
	assert.Equal(t, Tree, d.Level())
}

func TestDetailToggleMissionLevelUp(t *testing.T) {
	svc := &fakeMissions{goal: model.FinancialGoal{GoalID: "g1"}, missions: fourMissions(0)}
	d := NewDetail(svc, "u1", "g1", logger.Discard())
	require.NoError(t, d.Load(t.Context()))
	assert.Equal(t, Seed, d.Level())

	change, up, err := d.ToggleMission(t.Context(), "a")
	require.NoError(t, err)
	assert.True(t, up)
	assert.Equal(t, LevelChange{From: Seed, To: Sapling}, change)
	assert.Equal(t, model.MissionCompleted, svc.statuses["a"])

	_, up, err = d.ToggleMission(t.Context(), "b")
	require.NoError(t, err)
	assert.False(t, up, "50% is still a sapling")

	_, up, err = d.ToggleMission(t.Context(), "a")
	require.NoError(t, err)
	assert.False(t, up)
	assert.Equal(t, model.MissionActive, svc.statuses["a"])
}

func TestDetailToggleMissionFailure(t *testing.T) {
	svc := &fakeMissions{goal: model.FinancialGoal{GoalID: "g1"}, missions: fourMissions(0), updateErr: &api.RequestError{Status: 500, Message: "API Error: 500"}}
	d := NewDetail(svc, "u1", "g1", logger.Discard())
	require.NoError(t, d.Load(t.Context()))

	_, up, err := d.ToggleMission(t.Context(), "a")
	require.Error(t, err)
	assert.False(t, up)
	assert.Zero(t, CompletedMissions(d.Missions()), "status changes only after confirmation")
}

func TestDetailUnknownMission(t *testing.T) {
	d := NewDetail(&fakeMissions{}, "u1", "g1", logger.Discard())
	_, _, err := d.ToggleMission(t.Context(), "zzz")
	assert.Error(t, err)
}

func TestDetailLoadNotFound(t *testing.T) {
	svc := &fakeMissions{getErr: &api.RequestError{Status: http.StatusNotFound, Message: "Goal not found"}}
	d := NewDetail(svc, "u1", "g1", logger.Discard())
	assert.True(t, api.IsNotFound(d.Load(t.Context())))
}

func TestDetailGenerateMissions(t *testing.T) {
	svc := &fakeMissions{goal: model.FinancialGoal{GoalID: "g1"}, generated: fourMissions(0)}
	d := NewDetail(svc, "u1", "g1", logger.Discard())
	require.NoError(t, d.Load(t.Context()))
	assert.Empty(t, d.Missions())

	require.NoError(t, d.GenerateMissions(t.Context()))
	assert.Len(t, d.Missions(), 4)
	assert.False(t, d.IsGenerating())
}
