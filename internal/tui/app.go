// Package tui provides the interactive Bubble Tea client for moneytree.
package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moneymap/moneytree/internal/api"
	"github.com/moneymap/moneytree/internal/config"
	"github.com/moneymap/moneytree/internal/session"
	"github.com/moneymap/moneytree/internal/tui/components"
	"github.com/moneymap/moneytree/internal/tui/theme"
)

// Deps are the collaborators the TUI is built from.
type Deps struct {
	Client  *api.Client
	Session *session.Store
	Config  config.Config
	Log     *slog.Logger
}

const (
	tabDashboard = iota
	tabGoals
	tabPlan
	tabCredit
	tabBudget
)

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
)

// App is the root Bubble Tea model.
type App struct {
	deps   Deps
	log    *slog.Logger
	userID string

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Status line
	spinner   spinner.Model
	inflight  int
	status    string
	statusErr bool

	// First run, or after the backend forgot the user
	onboard *onboardState

	dash   dashState
	goals  goalsState
	plan   chatState
	credit creditState
	budget budgetState
}

// NewApp creates a new TUI app model.
func NewApp(deps Deps) App {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	deps.Log = log

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		deps:    deps,
		log:     log,
		spinner: sp,
	}

	if sess := deps.Session.Session(); sess.IsOnboarded {
		a.bind(sess.UserID)
	} else {
		a.onboard = newOnboardState()
	}
	return a
}

// bind builds the per-user view-models.
func (a *App) bind(userID string) {
	a.userID = userID
	a.onboard = nil
	a.dash = newDashState(a.deps, userID)
	a.goals = newGoalsState(a.deps, userID)
	a.plan = newPlanState(a.deps, userID)
	a.credit = newCreditState(a.deps, userID)
	a.budget = newBudgetState(a.deps, userID)
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion, a.spinner.Tick}
	if a.onboard != nil {
		cmds = append(cmds, a.onboard.form.Init())
	} else {
		cmds = append(cmds, a.loadAll())
	}
	return tea.Batch(cmds...)
}

// loadAll starts every screen's initial fetch.
func (a *App) loadAll() tea.Cmd {
	a.inflight += 5
	return tea.Batch(
		loadDashboardCmd(a.dash.vm),
		loadGoalsCmd(a.goals.board),
		restoreChatCmd(convPlan, a.plan.ctrl),
		restoreChatCmd(convCredit, a.credit.chat.ctrl),
		loadBudgetCmd(a.budget.vm),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.onboard != nil {
			a.onboard.form = a.onboard.form.WithWidth(min(msg.Width, 72)).WithHeight(msg.Height)
		}
		a.resizeChats()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.MouseMsg:
		if a.onboard != nil || a.showHelp {
			return a, nil
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				return a.switchTab(tab)
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.onboard != nil {
			return a.updateOnboard(msg)
		}
		return a.updateKey(msg)

	case onboardedMsg:
		return a.handleOnboarded(msg)
	}

	if a.onboard != nil {
		return a.updateOnboard(msg)
	}
	if next, cmd, ok := a.handleResult(msg); ok {
		return next, cmd
	}

	// Cursor blinks and other input plumbing for the chat inputs.
	return a.forwardToInput(msg)
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	// Focused inputs swallow everything but navigation out of them.
	if a.inputFocused() {
		return a.updateFocused(msg)
	}

	switch key {
	case "?":
		a.showHelp = true
		return a, nil
	case "q":
		return a, tea.Quit
	case "left", "shift+tab":
		return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
	case "right", "tab":
		return a.switchTab((a.activeTab + 1) % len(components.Tabs))
	case "r":
		return a, a.reloadActive()
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			return a.switchTab(idx)
		}
	}

	switch a.activeTab {
	case tabGoals:
		return a.updateGoalsKey(msg)
	case tabPlan:
		return a.updatePlanKey(msg)
	case tabCredit:
		return a.updateCreditKey(msg)
	}
	return a, nil
}

func (a App) switchTab(idx int) (tea.Model, tea.Cmd) {
	a.activeTab = idx
	a.status, a.statusErr = "", false
	return a, nil
}

// reloadActive refetches the data behind the active tab.
func (a *App) reloadActive() tea.Cmd {
	a.inflight++
	switch a.activeTab {
	case tabDashboard:
		return loadDashboardCmd(a.dash.vm)
	case tabGoals:
		if a.goals.detail != nil {
			return loadDetailCmd(a.goals.detail)
		}
		return loadGoalsCmd(a.goals.board)
	case tabPlan:
		return restoreChatCmd(convPlan, a.plan.ctrl)
	case tabCredit:
		return restoreChatCmd(convCredit, a.credit.chat.ctrl)
	default:
		return loadBudgetCmd(a.budget.vm)
	}
}

// fail records err in the status line. A 404 means the backend no longer
// knows this user: the session is cleared and onboarding starts over.
func (a App) fail(err error) (App, tea.Cmd) {
	if api.IsNotFound(err) {
		a.log.Warn("user not found on backend, clearing session", "user_id", a.userID, "err", err)
		if cerr := a.deps.Session.Clear(); cerr != nil {
			a.log.Warn("clearing session", "err", cerr)
		}
		a.userID = ""
		a.onboard = newOnboardState()
		if a.width > 0 {
			a.onboard.form = a.onboard.form.WithWidth(min(a.width, 72)).WithHeight(a.height)
		}
		a.onboard.notice = "We couldn't find your profile. Let's set it up again."
		return a, a.onboard.form.Init()
	}
	a.status, a.statusErr = err.Error(), true
	return a, nil
}

func (a *App) done() {
	if a.inflight > 0 {
		a.inflight--
	}
}

func (a *App) notify(s string) {
	a.status, a.statusErr = s, false
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) contentHeight() int {
	// tab bar + status bar
	return max(a.height-2, minContentHeight)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  moneytree needs at least %d columns.\n", a.width, minTerminalWidth)
	}
	if a.onboard != nil {
		return a.viewOnboard()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.contentHeight()

	header := components.RenderTabBar(a.activeTab, w)

	busy := ""
	if a.inflight > 0 {
		busy = a.spinner.View()
	}
	statusBar := components.RenderStatusBar(w, components.Status{
		UserID:  a.userID,
		Message: a.status,
		IsError: a.statusErr,
		Busy:    busy,
	})

	var content string
	switch a.activeTab {
	case tabDashboard:
		content = a.renderDashboardTab(cw)
	case tabGoals:
		content = a.renderGoalsTab(cw, h)
	case tabPlan:
		content = a.renderPlanTab(cw, h)
	case tabCredit:
		content = a.renderCreditTab(cw, h)
	case tabBudget:
		content = a.renderBudgetTab(cw)
	}

	content = padHeight(truncateHeight(content, h), h)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, h, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"d g p c b", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Move selection"},
			{"r", "Reload"},
		}},
		{"Goals", [][2]string{
			{"space", "Toggle roadmap / mission"},
			{"a", "Add savings"},
			{"x", "Delete goal"},
			{"enter", "Open goal"},
			{"m", "Generate missions"},
			{"esc", "Back"},
		}},
		{"Chat", [][2]string{
			{"enter", "Send message"},
			{"ctrl+f", "Finalize"},
			{"esc / i", "Leave / focus input"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("🌳 Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, kb := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", kb[0])),
				descStyle.Render(kb[1]))
		}
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes use the same widths RenderTabBar renders.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
