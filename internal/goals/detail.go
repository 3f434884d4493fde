package goals

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/moneymap/moneytree/internal/model"
)

// MissionService is the slice of the backend the detail screen needs.
type MissionService interface {
	GetGoal(ctx context.Context, userID, goalID string) (*model.FinancialGoal, error)
	GoalMissions(ctx context.Context, userID, goalID string) ([]model.Mission, error)
	GenerateGoalMissions(ctx context.Context, userID, goalID string) ([]model.Mission, error)
	UpdateMissionStatus(ctx context.Context, userID, goalID, missionID string, status model.MissionStatus) error
}

// Detail is one goal with its missions and tree level.
type Detail struct {
	svc    MissionService
	userID string
	goalID string
	log    *slog.Logger

	mu         sync.Mutex
	goal       model.FinancialGoal
	missions   []model.Mission
	tracker    LevelTracker
	generating bool
	toggling   map[string]bool
}

// NewDetail returns a detail view-model for goalID.
func NewDetail(svc MissionService, userID, goalID string, log *slog.Logger) *Detail {
	if log == nil {
		log = slog.Default()
	}
	return &Detail{
		svc:      svc,
		userID:   userID,
		goalID:   goalID,
		log:      log.With("user_id", userID, "goal_id", goalID),
		toggling: make(map[string]bool),
	}
}

// Load fetches the goal and its missions. The resulting tree level becomes
// the baseline for level-up detection.
func (d *Detail) Load(ctx context.Context) error {
	goal, err := d.svc.GetGoal(ctx, d.userID, d.goalID)
	if err != nil {
		return fmt.Errorf("goals: loading goal: %w", err)
	}
	missions, err := d.svc.GoalMissions(ctx, d.userID, d.goalID)
	if err != nil {
		return fmt.Errorf("goals: loading missions: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.goal = *goal
	d.missions = append([]model.Mission(nil), missions...)
	d.tracker.Reset(TreeLevel(MissionProgress(d.missions)))
	return nil
}

// GenerateMissions replaces the missions with a freshly generated set.
func (d *Detail) GenerateMissions(ctx context.Context) error {
	d.mu.Lock()
	if d.generating {
		d.mu.Unlock()
		return ErrBusy
	}
	d.generating = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.generating = false
		d.mu.Unlock()
	}()

	missions, err := d.svc.GenerateGoalMissions(ctx, d.userID, d.goalID)
	if err != nil {
		d.log.Warn("generating missions", "err", err)
		return fmt.Errorf("goals: generating missions: %w", err)
	}

	d.mu.Lock()
	d.missions = append([]model.Mission(nil), missions...)
	d.tracker.Reset(TreeLevel(MissionProgress(d.missions)))
	d.mu.Unlock()
	return nil
}

// ToggleMission flips a mission between active and completed once the
// server confirms. The returned bool reports a tree level-up.
func (d *Detail) ToggleMission(ctx context.Context, missionID string) (LevelChange, bool, error) {
	d.mu.Lock()
	i := d.missionIndexLocked(missionID)
	if i < 0 {
		d.mu.Unlock()
		return LevelChange{}, false, fmt.Errorf("goals: unknown mission %s", missionID)
	}
	if d.toggling[missionID] {
		d.mu.Unlock()
		return LevelChange{}, false, ErrBusy
	}
	next := d.missions[i].Status.Toggled()
	d.toggling[missionID] = true
	d.mu.Unlock()

	err := d.svc.UpdateMissionStatus(ctx, d.userID, d.goalID, missionID, next)

	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.toggling, missionID)
	if err != nil {
		d.log.Warn("updating mission", "mission_id", missionID, "err", err)
		return LevelChange{}, false, fmt.Errorf("goals: updating mission: %w", err)
	}
	if i := d.missionIndexLocked(missionID); i >= 0 {
		d.missions[i].Status = next
	}
	change, up := d.tracker.Observe(TreeLevel(MissionProgress(d.missions)))
	return change, up, nil
}

// Goal returns the loaded goal.
func (d *Detail) Goal() model.FinancialGoal {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.goal
}

// Missions returns a copy of the loaded missions.
func (d *Detail) Missions() []model.Mission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Mission(nil), d.missions...)
}

// MissionProgress is the completed share of the loaded missions.
func (d *Detail) MissionProgress() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return MissionProgress(d.missions)
}

// Level is the current tree level.
func (d *Detail) Level() Level {
	return TreeLevel(d.MissionProgress())
}

// IsGenerating reports whether mission generation is in flight.
func (d *Detail) IsGenerating() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generating
}

func (d *Detail) missionIndexLocked(missionID string) int {
	for i := range d.missions {
		if d.missions[i].MissionID == missionID {
			return i
		}
	}
	return -1
}
