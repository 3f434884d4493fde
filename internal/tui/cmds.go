package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/moneymap/moneytree/internal/chat"
	"github.com/moneymap/moneytree/internal/dashboard"
	"github.com/moneymap/moneytree/internal/goals"
	"github.com/moneymap/moneytree/internal/model"
)

type conversation int

const (
	convPlan conversation = iota
	convCredit
)

// Messages carrying the results of async loads and mutations.

type dashLoadedMsg struct {
	data *model.Dashboard
	err  error
}

type goalsLoadedMsg struct {
	err error
}

type goalChangedMsg struct {
	kind goals.MutationKind
	goal model.FinancialGoal
	err  error
}

type detailLoadedMsg struct {
	goalID string
	err    error
}

type missionToggledMsg struct {
	change  goals.LevelChange
	leveled bool
	err     error
}

type missionsGeneratedMsg struct {
	err error
}

type chatRestoredMsg struct {
	conv conversation
	err  error
}

type chatSentMsg struct {
	conv conversation
	err  error
}

type chatFinalizedMsg struct {
	conv conversation
	note string
	err  error
}

type budgetLoadedMsg struct {
	report *model.BudgetReport
	err    error
}

func loadDashboardCmd(vm *dashboard.Dashboard) tea.Cmd {
	return func() tea.Msg {
		data, err := vm.Load(context.Background())
		return dashLoadedMsg{data: data, err: err}
	}
}

func loadGoalsCmd(b *goals.Board) tea.Cmd {
	return func() tea.Msg {
		return goalsLoadedMsg{err: b.Load(context.Background())}
	}
}

func toggleGoalCmd(b *goals.Board, goalID string) tea.Cmd {
	return func() tea.Msg {
		g, err := b.ToggleRoadmap(context.Background(), goalID)
		return goalChangedMsg{kind: goals.Toggle, goal: g, err: err}
	}
}

func deleteGoalCmd(b *goals.Board, goalID string) tea.Cmd {
	return func() tea.Msg {
		err := b.Delete(context.Background(), goalID)
		return goalChangedMsg{kind: goals.Remove, err: err}
	}
}

func addSavingsCmd(b *goals.Board, goalID string, amount float64) tea.Cmd {
	return func() tea.Msg {
		g, err := b.AddSavings(context.Background(), goalID, amount)
		return goalChangedMsg{kind: goals.Deposit, goal: g, err: err}
	}
}

func loadDetailCmd(d *goals.Detail) tea.Cmd {
	return func() tea.Msg {
		err := d.Load(context.Background())
		return detailLoadedMsg{goalID: d.Goal().GoalID, err: err}
	}
}

func toggleMissionCmd(d *goals.Detail, missionID string) tea.Cmd {
	return func() tea.Msg {
		change, leveled, err := d.ToggleMission(context.Background(), missionID)
		return missionToggledMsg{change: change, leveled: leveled, err: err}
	}
}

func generateMissionsCmd(d *goals.Detail) tea.Cmd {
	return func() tea.Msg {
		return missionsGeneratedMsg{err: d.GenerateMissions(context.Background())}
	}
}

func restoreChatCmd(conv conversation, c *chat.Controller) tea.Cmd {
	return func() tea.Msg {
		return chatRestoredMsg{conv: conv, err: c.Restore(context.Background())}
	}
}

func sendChatCmd(conv conversation, c *chat.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		return chatSentMsg{conv: conv, err: c.Send(context.Background(), text)}
	}
}

func finalizePlanCmd(c *chat.Controller, p *goals.Planner) tea.Cmd {
	return func() tea.Msg {
		var note string
		err := c.Finalize(context.Background(), func(ctx context.Context) error {
			resp, err := p.Finalize(ctx, c.UserID())
			if err != nil {
				return err
			}
			note = fmt.Sprintf("Created %d goals", len(resp.Goals))
			if resp.Message != "" {
				note = resp.Message
			}
			return nil
		})
		return chatFinalizedMsg{conv: convPlan, note: note, err: err}
	}
}

func finalizeCreditCmd(c *chat.Controller, a creditFinalizer) tea.Cmd {
	return func() tea.Msg {
		var note string
		err := c.Finalize(context.Background(), func(ctx context.Context) error {
			stack, err := a.Finalize(ctx, c.UserID())
			if err != nil {
				return err
			}
			note = fmt.Sprintf("Stack finalized: %d cards", len(stack.Cards))
			return nil
		})
		return chatFinalizedMsg{conv: convCredit, note: note, err: err}
	}
}

func loadBudgetCmd(vm *dashboard.Budget) tea.Cmd {
	return func() tea.Msg {
		report, err := vm.Load(context.Background())
		return budgetLoadedMsg{report: report, err: err}
	}
}

type creditFinalizer interface {
	Finalize(ctx context.Context, userID string) (*model.CreditCardStack, error)
}

// handleResult applies an async result to the app. ok is false for
// messages it does not own.
func (a App) handleResult(msg tea.Msg) (App, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case dashLoadedMsg:
		a.done()
		if msg.err != nil {
			next, cmd := a.fail(msg.err)
			return next, cmd, true
		}
		a.dash.data = msg.data
		a.dash.loaded = true
		return a, nil, true

	case goalsLoadedMsg:
		a.done()
		if msg.err != nil {
			next, cmd := a.fail(msg.err)
			return next, cmd, true
		}
		a.goals.clampCursor()
		return a, nil, true

	case goalChangedMsg:
		a.done()
		a.goals.clampCursor()
		if msg.err != nil {
			next, cmd := a.fail(msg.err)
			return next, cmd, true
		}
		switch msg.kind {
		case goals.Remove:
			a.notify("Goal deleted")
		case goals.Deposit:
			a.notify(fmt.Sprintf("Saved toward %s", msg.goal.Title))
		default:
			a.notify("Roadmap updated")
		}
		// Totals on the dashboard moved.
		a.inflight++
		return a, loadDashboardCmd(a.dash.vm), true

	case detailLoadedMsg:
		a.done()
		if msg.err != nil {
			next, cmd := a.fail(msg.err)
			return next, cmd, true
		}
		a.goals.clampMissionCursor()
		return a, nil, true

	case missionToggledMsg:
		a.done()
		if msg.err != nil {
			next, cmd := a.fail(msg.err)
			return next, cmd, true
		}
		if msg.leveled {
			change := msg.change
			a.goals.levelUp = &change
			a.notify(fmt.Sprintf("Your tree grew into a %s!", msg.change.To))
		} else {
			a.notify("Mission updated")
		}
		a.inflight++
		return a, loadDashboardCmd(a.dash.vm), true

	case missionsGeneratedMsg:
		a.done()
		if msg.err != nil {
			next, cmd := a.fail(msg.err)
			return next, cmd, true
		}
		a.goals.clampMissionCursor()
		a.notify("New missions generated")
		return a, nil, true

	case chatRestoredMsg:
		a.done()
		if msg.err != nil {
			next, cmd := a.fail(msg.err)
			return next, cmd, true
		}
		if cs := a.chatFor(msg.conv); cs.ctrl.State() == chat.Finalized {
			cs.input.Blur()
		}
		return a, nil, true

	case chatSentMsg:
		a.done()
		a.chatFor(msg.conv).pending = ""
		if msg.err != nil {
			next, cmd := a.fail(msg.err)
			return next, cmd, true
		}
		return a, nil, true

	case chatFinalizedMsg:
		a.done()
		if msg.err != nil {
			next, cmd := a.fail(msg.err)
			return next, cmd, true
		}
		a.chatFor(msg.conv).input.Blur()
		a.notify(msg.note)
		if msg.conv == convPlan {
			// The planner created goals server-side.
			a.inflight += 2
			return a, tea.Batch(loadGoalsCmd(a.goals.board), loadDashboardCmd(a.dash.vm)), true
		}
		return a, nil, true

	case budgetLoadedMsg:
		a.done()
		if msg.err != nil {
			next, cmd := a.fail(msg.err)
			return next, cmd, true
		}
		a.budget.report = msg.report
		return a, nil, true
	}
	return a, nil, false
}
