package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moneymap/moneytree/internal/cli"
	"github.com/moneymap/moneytree/internal/goals"
	"github.com/moneymap/moneytree/internal/model"
	"github.com/moneymap/moneytree/internal/tui/components"
	"github.com/moneymap/moneytree/internal/tui/theme"
)

type goalsState struct {
	board      *goals.Board
	openDetail func(goalID string) *goals.Detail

	cursor        int
	confirmDelete string // goal id awaiting y/n
	depositFor    string // goal id the deposit input applies to
	deposit       textinput.Model

	detail        *goals.Detail
	missionCursor int
	levelUp       *goals.LevelChange
}

func newGoalsState(deps Deps, userID string) goalsState {
	ti := textinput.New()
	ti.Placeholder = "amount"
	ti.Prompt = "$ "
	ti.CharLimit = 12
	ti.Width = 14

	return goalsState{
		board: goals.NewBoard(deps.Client, userID, goals.BoardOptions{
			RollbackToggle: deps.Config.Goals.RollbackRoadmapToggle,
			Logger:         deps.Log,
		}),
		openDetail: func(goalID string) *goals.Detail {
			return goals.NewDetail(deps.Client, userID, goalID, deps.Log)
		},
		deposit: ti,
	}
}

func (s *goalsState) clampCursor() {
	n := len(s.board.Goals())
	s.cursor = max(min(s.cursor, n-1), 0)
}

func (s *goalsState) clampMissionCursor() {
	if s.detail == nil {
		return
	}
	n := len(s.detail.Missions())
	s.missionCursor = max(min(s.missionCursor, n-1), 0)
}

func (s goalsState) selected() (model.FinancialGoal, bool) {
	list := s.board.Goals()
	if s.cursor < 0 || s.cursor >= len(list) {
		return model.FinancialGoal{}, false
	}
	return list[s.cursor], true
}

func (s goalsState) selectedMission() (model.Mission, bool) {
	if s.detail == nil {
		return model.Mission{}, false
	}
	list := s.detail.Missions()
	if s.missionCursor < 0 || s.missionCursor >= len(list) {
		return model.Mission{}, false
	}
	return list[s.missionCursor], true
}

func (a App) updateGoalsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	gs := &a.goals
	key := msg.String()

	if gs.detail != nil {
		return a.updateDetailKey(key)
	}

	switch key {
	case "j", "down":
		gs.cursor++
		gs.clampCursor()
	case "k", "up":
		gs.cursor--
		gs.clampCursor()
	case " ", "space":
		if g, ok := gs.selected(); ok {
			a.inflight++
			return a, toggleGoalCmd(gs.board, g.GoalID)
		}
	case "x", "delete":
		if g, ok := gs.selected(); ok {
			gs.confirmDelete = g.GoalID
		}
	case "a":
		if g, ok := gs.selected(); ok {
			gs.depositFor = g.GoalID
			gs.deposit.SetValue("")
			return a, gs.deposit.Focus()
		}
	case "enter":
		if g, ok := gs.selected(); ok {
			gs.detail = gs.openDetail(g.GoalID)
			gs.missionCursor = 0
			gs.levelUp = nil
			a.inflight++
			return a, loadDetailCmd(gs.detail)
		}
	}
	return a, nil
}

func (a App) updateDetailKey(key string) (tea.Model, tea.Cmd) {
	gs := &a.goals
	if gs.levelUp != nil {
		gs.levelUp = nil
		return a, nil
	}

	switch key {
	case "esc", "backspace":
		gs.detail = nil
	case "j", "down":
		gs.missionCursor++
		gs.clampMissionCursor()
	case "k", "up":
		gs.missionCursor--
		gs.clampMissionCursor()
	case " ", "space", "enter":
		if m, ok := gs.selectedMission(); ok {
			a.inflight++
			return a, toggleMissionCmd(gs.detail, m.MissionID)
		}
	case "m":
		if !gs.detail.IsGenerating() {
			a.inflight++
			return a, generateMissionsCmd(gs.detail)
		}
	}
	return a, nil
}

// updateGoalsFocused handles keys while a delete confirmation or the
// deposit input is open.
func (a App) updateGoalsFocused(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	gs := &a.goals

	if gs.confirmDelete != "" {
		id := gs.confirmDelete
		gs.confirmDelete = ""
		if msg.String() == "y" {
			a.inflight++
			return a, deleteGoalCmd(gs.board, id)
		}
		return a, nil
	}

	switch msg.String() {
	case "esc":
		gs.depositFor = ""
		gs.deposit.Blur()
		return a, nil
	case "enter":
		id := gs.depositFor
		amount, err := parseAmount(gs.deposit.Value())
		if err != nil {
			a.status, a.statusErr = "enter an amount like 50 or 125.25", true
			return a, nil
		}
		gs.depositFor = ""
		gs.deposit.Blur()
		a.inflight++
		return a, addSavingsCmd(gs.board, id, amount)
	}

	var cmd tea.Cmd
	gs.deposit, cmd = gs.deposit.Update(msg)
	return a, cmd
}

func (a App) renderGoalsTab(cw, h int) string {
	if a.goals.detail != nil {
		return a.renderGoalDetail(cw)
	}
	if !a.goals.board.Loaded() {
		return a.renderLoading(cw, "Loading goals...")
	}

	t := theme.Active
	gs := a.goals
	list := gs.board.Goals()
	innerW := components.CardInnerWidth(cw)

	if len(list) == 0 {
		empty := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render("No goals yet. Press p to plan them with the goal assistant.")
		return components.ContentCard("Goals", empty, cw)
	}

	titleW := min(28, innerW/4)
	barW := max(innerW-titleW-48, 8)
	now := time.Now()

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	onStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)

	visible := max(h-8, 3)
	start := max(0, gs.cursor-visible+1)

	var lines []string
	for i := start; i < len(list) && i < start+visible; i++ {
		g := list[i]
		mark := dimStyle.Render("[ ]")
		if g.OnRoadmap {
			mark = onStyle.Render("[✓]")
		}
		if gs.board.Pending(g.GoalID) {
			mark = dimStyle.Render(" … ")
		}
		pct := goals.ClampedProgress(g)
		style := rowStyle
		if i == gs.cursor {
			style = selStyle
		}
		title := style.Render(fmt.Sprintf(" %-*s ", titleW, truncStr(g.Title, titleW)))
		amounts := fmt.Sprintf("%10s / %-10s", cli.FormatCompactMoney(g.CurrentAmount), cli.FormatCompactMoney(g.TargetAmount))
		due := fmt.Sprintf("%-14s", cli.FormatDaysRemaining(goals.DaysRemaining(g.TargetDate, now)))
		lines = append(lines, mark+title+components.ProgressBar(pct, barW, components.ProgressColor(pct))+
			dimStyle.Render(" "+amounts+" "+due)+dimStyle.Render(cli.FormatPriority(g.Priority)))
	}

	body := strings.Join(lines, "\n")
	body += "\n\n" + a.renderGoalsFooter()
	return components.FocusCard(fmt.Sprintf("Goals (%d)", len(list)), body, cw)
}

func (a App) renderGoalsFooter() string {
	t := theme.Active
	gs := a.goals
	hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)

	switch {
	case gs.confirmDelete != "":
		g, _ := gs.board.Get(gs.confirmDelete)
		return warn.Render(fmt.Sprintf("Delete %q? This cannot be undone. (y/n)", g.Title))
	case gs.depositFor != "":
		g, _ := gs.board.Get(gs.depositFor)
		return hint.Render("Add savings to "+g.Title+": ") + gs.deposit.View() + hint.Render("  enter save · esc cancel")
	}
	return hint.Render("space roadmap · a add savings · x delete · enter open · r reload")
}

func (a App) renderGoalDetail(cw int) string {
	t := theme.Active
	d := a.goals.detail
	g := d.Goal()
	if g.GoalID == "" {
		return a.renderLoading(cw, "Loading goal...")
	}

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	halves := components.LayoutRow(cw, 2)

	var info strings.Builder
	if g.Description != "" {
		info.WriteString(muted.Render(truncStr(g.Description, components.CardInnerWidth(halves[0]))))
		info.WriteString("\n\n")
	}
	pct := goals.ClampedProgress(g)
	info.WriteString(components.ProgressBar(pct, max(components.CardInnerWidth(halves[0])-6, 8), components.ProgressColor(pct)))
	info.WriteString("\n")
	info.WriteString(muted.Render(fmt.Sprintf("%s of %s", cli.FormatMoney(g.CurrentAmount), cli.FormatMoney(g.TargetAmount))))
	info.WriteString("\n")
	info.WriteString(dim.Render(fmt.Sprintf("Due %s · %s · %s priority",
		cli.FormatDate(g.TargetDate),
		cli.FormatDaysRemaining(goals.DaysRemaining(g.TargetDate, time.Now())),
		cli.FormatPriority(g.Priority))))

	var tree strings.Builder
	tree.WriteString(components.TreeBadge(d.Level()))
	tree.WriteString("\n\n")
	tree.WriteString(components.ProgressBar(d.MissionProgress(), max(components.CardInnerWidth(halves[1])-6, 8), components.LevelColor(d.Level())))
	tree.WriteString("\n")
	missions := d.Missions()
	tree.WriteString(muted.Render(fmt.Sprintf("%d of %d missions complete", goals.CompletedMissions(missions), len(missions))))

	var b strings.Builder
	b.WriteString(components.CardRow([]string{
		components.ContentCard(g.Title, info.String(), halves[0]),
		components.ContentCard("Tree", tree.String(), halves[1]),
	}))
	b.WriteString("\n")

	if lu := a.goals.levelUp; lu != nil {
		banner := lipgloss.NewStyle().Foreground(components.LevelColor(lu.To)).Background(t.Surface).Bold(true).
			Render(fmt.Sprintf("%s Level up! %s → %s", components.LevelIcon(lu.To), lu.From, lu.To))
		b.WriteString(components.FocusCard("Growth", banner+"\n"+dim.Render("press any key"), cw))
		b.WriteString("\n")
	}

	b.WriteString(components.FocusCard("Missions", a.renderMissionList(components.CardInnerWidth(cw)), cw))
	return b.String()
}

func (a App) renderMissionList(innerW int) string {
	t := theme.Active
	d := a.goals.detail
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	sel := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	done := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	pts := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)

	var lines []string
	if d.IsGenerating() {
		lines = append(lines, a.spinner.View()+dim.Render(" Generating missions..."))
	}

	missions := d.Missions()
	if len(missions) == 0 && !d.IsGenerating() {
		lines = append(lines, dim.Render("No missions yet. Press m to generate some."))
	}
	for i, m := range missions {
		mark := dim.Render("[ ]")
		if m.Status == model.MissionCompleted {
			mark = done.Render("[✓]")
		}
		style := row
		if i == a.goals.missionCursor {
			style = sel
		}
		kind := fmt.Sprintf("%-12s", truncStr(cli.FormatMissionType(m.MissionType), 12))
		title := truncStr(m.Title, max(innerW-40, 10))
		lines = append(lines, mark+" "+dim.Render(kind)+" "+style.Render(title)+" "+
			pts.Render(fmt.Sprintf("%d pts", m.Points))+dim.Render("  "+cli.FormatDate(m.Deadline)))
	}

	lines = append(lines, "", dim.Render("space toggle · m generate · esc back"))
	return strings.Join(lines, "\n")
}
