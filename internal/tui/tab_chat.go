package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moneymap/moneytree/internal/chat"
	"github.com/moneymap/moneytree/internal/goals"
	"github.com/moneymap/moneytree/internal/model"
	"github.com/moneymap/moneytree/internal/tui/components"
	"github.com/moneymap/moneytree/internal/tui/theme"
)

// chatState is one conversation pane. pending holds text that was sent but
// may not be in the controller's history yet.
type chatState struct {
	ctrl     *chat.Controller
	finalize func() tea.Cmd
	input    textinput.Model
	view     viewport.Model
	scroll   int // lines scrolled up from the bottom
	pending  string
}

func newChatState(ctrl *chat.Controller, placeholder string) chatState {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 1000
	ti.Focus()

	return chatState{
		ctrl:  ctrl,
		input: ti,
		view:  viewport.New(40, 10),
	}
}

func newPlanState(deps Deps, userID string) chatState {
	planner := goals.NewPlanner(deps.Client)
	ctrl := chat.New(planner, userID, chat.Options{
		Greeting:    goals.Greeting,
		MinMessages: deps.Config.Chat.GoalMinMessages,
		Logger:      deps.Log,
	})
	s := newChatState(ctrl, "Tell the planner about your goals...")
	s.finalize = func() tea.Cmd { return finalizePlanCmd(ctrl, planner) }
	return s
}

func (a *App) chatFor(conv conversation) *chatState {
	if conv == convCredit {
		return &a.credit.chat
	}
	return &a.plan
}

// activeChat returns the pane of the active tab, or nil.
func (a *App) activeChat() *chatState {
	switch a.activeTab {
	case tabPlan:
		return &a.plan
	case tabCredit:
		return &a.credit.chat
	}
	return nil
}

func (a *App) resizeChats() {
	if a.onboard != nil || a.plan.ctrl == nil {
		return
	}
	cw := a.contentWidth()
	a.plan.input.Width = max(components.CardInnerWidth(cw)-4, 10)
	a.credit.chat.input.Width = max(components.CardInnerWidth(creditChatWidth(cw))-4, 10)
}

func (a App) inputFocused() bool {
	switch a.activeTab {
	case tabGoals:
		return a.goals.depositFor != "" || a.goals.confirmDelete != ""
	case tabPlan, tabCredit:
		return a.activeChat().input.Focused()
	}
	return false
}

func (a App) updateFocused(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.activeTab == tabGoals {
		return a.updateGoalsFocused(msg)
	}

	switch msg.String() {
	case "tab":
		return a.switchTab((a.activeTab + 1) % len(components.Tabs))
	case "shift+tab":
		return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
	}

	cs := a.activeChat()
	switch msg.String() {
	case "esc":
		cs.input.Blur()
		return a, nil
	case "enter":
		return a.sendChat()
	case "ctrl+f":
		return a.finalizeChat()
	case "pgup", "pgdown":
		cs.scrollBy(msg.String())
		return a, nil
	}

	var cmd tea.Cmd
	cs.input, cmd = cs.input.Update(msg)
	return a, cmd
}

func (a App) updatePlanKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	return a.updateChatKey(msg)
}

func (a App) updateChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cs := a.activeChat()
	switch msg.String() {
	case "i", "enter":
		if cs.ctrl.State() == chat.Finalized {
			a.notify("This conversation is finalized")
			return a, nil
		}
		return a, cs.input.Focus()
	case "ctrl+f":
		return a.finalizeChat()
	case "pgup", "pgdown":
		cs.scrollBy(msg.String())
	}
	return a, nil
}

func (s *chatState) scrollBy(key string) {
	if key == "pgup" {
		s.scroll += max(s.view.Height/2, 1)
		return
	}
	s.scroll = max(s.scroll-max(s.view.Height/2, 1), 0)
}

func (a App) sendChat() (tea.Model, tea.Cmd) {
	cs := a.activeChat()
	text := strings.TrimSpace(cs.input.Value())
	switch {
	case text == "":
		return a, nil
	case cs.ctrl.State() == chat.Finalized:
		a.status, a.statusErr = "This conversation is finalized", true
		return a, nil
	case cs.ctrl.IsSending() || cs.pending != "":
		return a, nil
	}

	cs.input.Reset()
	cs.pending = text
	cs.scroll = 0
	a.inflight++
	conv := convPlan
	if a.activeTab == tabCredit {
		conv = convCredit
	}
	return a, sendChatCmd(conv, cs.ctrl, text)
}

func (a App) finalizeChat() (tea.Model, tea.Cmd) {
	cs := a.activeChat()
	switch {
	case cs.ctrl.State() == chat.Finalized:
		a.notify("Already finalized")
		return a, nil
	case cs.ctrl.IsFinalizing():
		return a, nil
	case !cs.ctrl.CanFinalize():
		a.status, a.statusErr = "Keep chatting a little longer before finalizing", true
		return a, nil
	}
	a.inflight++
	return a, cs.finalize()
}

// forwardToInput hands non-key messages (cursor blink) to the focused input.
func (a App) forwardToInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.userID == "" {
		return a, nil
	}
	if a.activeTab == tabGoals && a.goals.depositFor != "" {
		var cmd tea.Cmd
		a.goals.deposit, cmd = a.goals.deposit.Update(msg)
		return a, cmd
	}
	if cs := a.activeChat(); cs != nil && cs.input.Focused() {
		var cmd tea.Cmd
		cs.input, cmd = cs.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) renderPlanTab(cw, h int) string {
	return a.renderChatPane(a.plan, "Goal Planner", cw, h)
}

// renderChatPane draws the transcript in a focus card with the input below.
func (a App) renderChatPane(cs chatState, title string, cw, h int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	innerW := components.CardInnerWidth(cw)

	switch cs.ctrl.State() {
	case chat.Uninitialized, chat.Restoring:
		return a.renderLoading(cw, "Restoring conversation...")
	}

	msgs := cs.ctrl.Messages()
	if cs.pending != "" && !endsWithUser(msgs, cs.pending) {
		msgs = append(msgs, model.ChatMessage{Role: model.RoleUser, Content: cs.pending})
	}

	var transcript strings.Builder
	for i, m := range msgs {
		if i > 0 {
			transcript.WriteString("\n\n")
		}
		transcript.WriteString(renderChatMessage(m, innerW))
	}
	if cs.ctrl.IsSending() || cs.pending != "" {
		transcript.WriteString("\n\n" + a.spinner.View() + dim.Render(" thinking..."))
	}

	// card border (2) + title (2) + footer (3)
	vp := cs.view
	vp.Width = innerW
	vp.Height = max(h-9, 3)
	vp.SetContent(transcript.String())
	vp.SetYOffset(max(vp.TotalLineCount()-vp.Height-cs.scroll, 0))

	var footer string
	switch {
	case cs.ctrl.State() == chat.Finalized:
		footer = lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Render("✓ Finalized")
	case cs.ctrl.IsFinalizing():
		footer = a.spinner.View() + dim.Render(" Finalizing...")
	case cs.input.Focused():
		footer = cs.input.View() + "\n" + dim.Render("enter send · ctrl+f finalize · esc leave input")
	default:
		footer = dim.Render("i type · ctrl+f finalize · pgup/pgdn scroll")
	}

	return components.FocusCard(title, vp.View()+"\n\n"+footer, cw)
}

func endsWithUser(msgs []model.ChatMessage, text string) bool {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == model.RoleUser {
			return msgs[i].Content == text
		}
	}
	return false
}

func renderChatMessage(m model.ChatMessage, width int) string {
	t := theme.Active
	who := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	name := "🌳 MoneyTree"
	if m.Role == model.RoleUser {
		who = who.Foreground(t.Blue)
		name = "You"
	}
	body := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(max(width-2, 10)).
		Render(m.Content)
	return who.Render(name) + "\n" + body
}
