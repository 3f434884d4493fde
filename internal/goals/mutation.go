package goals

import "github.com/moneymap/moneytree/internal/model"

// MutationKind names a change to a cached goal.
type MutationKind int

const (
	Toggle MutationKind = iota
	Remove
	Deposit
)

func (k MutationKind) String() string {
	switch k {
	case Toggle:
		return "toggle"
	case Remove:
		return "remove"
	case Deposit:
		return "deposit"
	default:
		return "unknown"
	}
}

// Optimistic reports whether the kind is applied before the server confirms.
// Destructive and financial changes wait for the server.
func (k MutationKind) Optimistic() bool {
	return k == Toggle
}

// Mutation is one pending change to the cached goal list. Apply and Rollback
// return the updated list; Rollback is nil for kinds that are never applied
// before confirmation.
type Mutation struct {
	Kind     MutationKind
	GoalID   string
	Previous model.FinancialGoal
	Apply    func(goals []model.FinancialGoal) []model.FinancialGoal
	Rollback func(goals []model.FinancialGoal) []model.FinancialGoal
}

func editGoal(goalID string, fn func(g *model.FinancialGoal)) func([]model.FinancialGoal) []model.FinancialGoal {
	return func(goals []model.FinancialGoal) []model.FinancialGoal {
		for i := range goals {
			if goals[i].GoalID == goalID {
				fn(&goals[i])
			}
		}
		return goals
	}
}

func removeGoal(goalID string) func([]model.FinancialGoal) []model.FinancialGoal {
	return func(goals []model.FinancialGoal) []model.FinancialGoal {
		out := goals[:0]
		for _, g := range goals {
			if g.GoalID != goalID {
				out = append(out, g)
			}
		}
		return out
	}
}

func toggleMutation(prev model.FinancialGoal) Mutation {
	return Mutation{
		Kind:     Toggle,
		GoalID:   prev.GoalID,
		Previous: prev,
		Apply:    editGoal(prev.GoalID, func(g *model.FinancialGoal) { g.OnRoadmap = !prev.OnRoadmap }),
		Rollback: editGoal(prev.GoalID, func(g *model.FinancialGoal) { g.OnRoadmap = prev.OnRoadmap }),
	}
}

func removeMutation(prev model.FinancialGoal) Mutation {
	return Mutation{
		Kind:     Remove,
		GoalID:   prev.GoalID,
		Previous: prev,
		Apply:    removeGoal(prev.GoalID),
	}
}

func depositMutation(prev model.FinancialGoal, total float64) Mutation {
	return Mutation{
		Kind:     Deposit,
		GoalID:   prev.GoalID,
		Previous: prev,
		Apply:    editGoal(prev.GoalID, func(g *model.FinancialGoal) { g.CurrentAmount = total }),
	}
}
