package goals

import (
	"math"
	"slices"
	"time"

	"github.com/moneymap/moneytree/internal/model"
)

// FinancialProgress is current/target as a percentage, unclamped.
// A zero target yields 0.
func FinancialProgress(g model.FinancialGoal) float64 {
	if g.TargetAmount == 0 {
		return 0
	}
	return g.CurrentAmount / g.TargetAmount * 100
}

// ClampedProgress is FinancialProgress limited to [0, 100] for display.
func ClampedProgress(g model.FinancialGoal) float64 {
	return clampPercent(FinancialProgress(g))
}

func clampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// Roadmap returns the goals on the roadmap ordered by target date, earliest first.
func Roadmap(goals []model.FinancialGoal) []model.FinancialGoal {
	out := make([]model.FinancialGoal, 0, len(goals))
	for _, g := range goals {
		if g.OnRoadmap {
			out = append(out, g)
		}
	}
	slices.SortStableFunc(out, func(a, b model.FinancialGoal) int {
		return a.TargetDate.Compare(b.TargetDate.Time)
	})
	return out
}

// CompletedMissions counts missions with status completed.
func CompletedMissions(missions []model.Mission) int {
	n := 0
	for _, m := range missions {
		if m.Status == model.MissionCompleted {
			n++
		}
	}
	return n
}

// MissionProgress is the completed share of missions as a percentage, 0 if none.
func MissionProgress(missions []model.Mission) float64 {
	if len(missions) == 0 {
		return 0
	}
	return float64(CompletedMissions(missions)) / float64(len(missions)) * 100
}

// Level is the growth stage of a goal's tree.
type Level int

const (
	Seed Level = iota
	Sapling
	Tree
	AppleTree
)

func (l Level) String() string {
	switch l {
	case Seed:
		return "seed"
	case Sapling:
		return "sapling"
	case Tree:
		return "tree"
	case AppleTree:
		return "appletree"
	default:
		return "unknown"
	}
}

// TreeLevel buckets mission progress: [0,25) seed, [25,75) sapling,
// [75,100) tree, 100 appletree.
func TreeLevel(missionProgress float64) Level {
	switch {
	case missionProgress >= 100:
		return AppleTree
	case missionProgress >= 75:
		return Tree
	case missionProgress >= 25:
		return Sapling
	default:
		return Seed
	}
}

// DaysRemaining is the number of days from now until target, rounded up.
// Past targets give zero or negative values.
func DaysRemaining(target model.Date, now time.Time) int {
	return int(math.Ceil(target.Sub(now).Hours() / 24))
}

// LevelChange describes a tree level-up.
type LevelChange struct {
	From Level
	To   Level
}

// LevelTracker detects level-ups caused by user actions. The first level it
// sees is the baseline and never counts as a level-up.
type LevelTracker struct {
	level    Level
	baseline bool
}

// Reset records level as the baseline, e.g. after loading data.
func (t *LevelTracker) Reset(level Level) {
	t.level = level
	t.baseline = true
}

// Observe records the level after a user action and reports whether it rose.
func (t *LevelTracker) Observe(level Level) (LevelChange, bool) {
	if !t.baseline {
		t.Reset(level)
		return LevelChange{}, false
	}
	prev := t.level
	t.level = level
	if level > prev {
		return LevelChange{From: prev, To: level}, true
	}
	return LevelChange{}, false
}

// Level returns the last recorded level.
func (t *LevelTracker) Level() Level {
	return t.level
}
