package goals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/moneymap/moneytree/internal/model"
)

func TestFinancialProgress(t *testing.T) {
	g := model.FinancialGoal{TargetAmount: 10000, CurrentAmount: 6500}
	assert.InDelta(t, 65.0, FinancialProgress(g), 1e-9)

	g.CurrentAmount += 500
	assert.InDelta(t, 70.0, FinancialProgress(g), 1e-9)

	assert.Zero(t, FinancialProgress(model.FinancialGoal{CurrentAmount: 50}))
}

func TestClampedProgressBounds(t *testing.T) {
	tests := []struct {
		name            string
		target, current float64
		want            float64
	}{
		{"zero target", 0, 100, 0},
		{"over target", 100, 250, 100},
		{"negative current", 100, -5, 0},
		{"half", 200, 100, 50},
		{"exact", 100, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampedProgress(model.FinancialGoal{TargetAmount: tt.target, CurrentAmount: tt.current})
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestRoadmapFiltersAndSorts(t *testing.T) {
	goals := []model.FinancialGoal{
		{GoalID: "late", OnRoadmap: true, TargetDate: model.NewDate(2027, time.June, 1)},
		{GoalID: "off", OnRoadmap: false, TargetDate: model.NewDate(2026, time.January, 1)},
		{GoalID: "early", OnRoadmap: true, TargetDate: model.NewDate(2026, time.March, 1)},
	}

	got := Roadmap(goals)
	ids := make([]string, len(got))
	for i, g := range got {
		ids[i] = g.GoalID
	}
	assert.Equal(t, []string{"early", "late"}, ids)
	assert.Equal(t, "late", goals[0].GoalID, "input must not be reordered")
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

func TestMissionProgressAndTreeLevel(t *testing.T) {
	assert.Zero(t, MissionProgress(nil))

	p := MissionProgress(missions(4, 1))
	assert.InDelta(t, 25.0, p, 1e-9)
	assert.Equal(t, Sapling, TreeLevel(p))

	tests := []struct {
		progress float64
		want     Level
	}{
		{0, Seed},
		{24.99, Seed},
		{25, Sapling},
		{74.99, Sapling},
		{75, Tree},
		{99.99, Tree},
		{100, AppleTree},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TreeLevel(tt.progress), "TreeLevel(%v)", tt.progress)
	}
}

func TestTreeLevelMonotonic(t *testing.T) {
	for total := 1; total <= 12; total++ {
		prev := Seed
		for done := 0; done <= total; done++ {
			lvl := TreeLevel(MissionProgress(missions(total, done)))
			assert.GreaterOrEqual(t, lvl, prev, "total=%d done=%d", total, done)
			prev = lvl
		}
		assert.Equal(t, AppleTree, prev)
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "seed", Seed.String())
	assert.Equal(t, "appletree", AppleTree.String())
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 10, DaysRemaining(model.NewDate(2026, time.March, 11), now))
	assert.Equal(t, 1, DaysRemaining(model.NewDate(2026, time.March, 2), now))
	assert.Equal(t, 0, DaysRemaining(model.NewDate(2026, time.March, 1), now))
	assert.Equal(t, -9, DaysRemaining(model.NewDate(2026, time.February, 20), now))
}

func TestLevelTrackerBaselineIsNotALevelUp(t *testing.T) {
	var tr LevelTracker
	_, up := tr.Observe(Tree)
	assert.False(t, up, "first observation is the baseline")

	_, up = tr.Observe(Tree)
	assert.False(t, up)

	change, up := tr.Observe(AppleTree)
	assert.True(t, up)
	assert.Equal(t, LevelChange{From: Tree, To: AppleTree}, change)

	_, up = tr.Observe(Sapling)
	assert.False(t, up, "dropping a level is not a level-up")

	tr.Reset(Seed)
	change, up = tr.Observe(Sapling)
	assert.True(t, up)
	assert.Equal(t, Seed, change.From)
}
