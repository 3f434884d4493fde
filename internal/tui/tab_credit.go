package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moneymap/moneytree/internal/chat"
	"github.com/moneymap/moneytree/internal/cli"
	"github.com/moneymap/moneytree/internal/credit"
	"github.com/moneymap/moneytree/internal/model"
	"github.com/moneymap/moneytree/internal/tui/components"
	"github.com/moneymap/moneytree/internal/tui/theme"
)

type creditState struct {
	chat    chatState
	advisor *credit.Advisor
}

func newCreditState(deps Deps, userID string) creditState {
	advisor := credit.NewAdvisor(deps.Client, deps.Log)
	ctrl := chat.New(advisor, userID, chat.Options{
		Greeting:    credit.Greeting,
		MinMessages: deps.Config.Chat.CreditMinMessages,
		Logger:      deps.Log,
	})
	cs := newChatState(ctrl, "Ask about cards, rewards, fees...")
	cs.finalize = func() tea.Cmd { return finalizeCreditCmd(ctrl, advisor) }
	return creditState{chat: cs, advisor: advisor}
}

func (a App) updateCreditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	return a.updateChatKey(msg)
}

// creditChatWidth is the width of the chat column; the loadout takes the rest.
func creditChatWidth(cw int) int {
	return cw * 3 / 5
}

func (a App) renderCreditTab(cw, h int) string {
	chatW := creditChatWidth(cw)
	sideW := cw - chatW

	left := a.renderChatPane(a.credit.chat, "Credit Advisor", chatW, h)
	right := a.renderLoadout(sideW)
	return components.CardRow([]string{left, right})
}

func (a App) renderLoadout(w int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(w)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	name := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	accent := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	loadout := a.credit.advisor.Loadout()
	stack, finalized := a.credit.advisor.Stack()

	var b strings.Builder
	if loadout.TreeName != nil && *loadout.TreeName != "" {
		b.WriteString(accent.Render("🌳 " + *loadout.TreeName))
		b.WriteString("\n\n")
	}

	if len(loadout.Cards) == 0 {
		b.WriteString(dim.Render("Cards appear here as the advisor recommends them."))
	}
	for i, c := range loadout.Cards {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(name.Render(truncStr(c.Name, innerW)))
		b.WriteString("\n")
		b.WriteString(muted.Render(truncStr(cardLine(c), innerW)))
		b.WriteString("\n")
		if len(c.BestCategories) > 0 {
			b.WriteString(dim.Render(truncStr(strings.Join(c.BestCategories, " · "), innerW)))
			b.WriteString("\n")
		}
	}

	if finalized {
		b.WriteString("\n")
		if stack.TotalEstimatedAnnualValue != nil {
			b.WriteString(accent.Render(fmt.Sprintf("Est. value %s/yr", cli.FormatMoney(*stack.TotalEstimatedAnnualValue))))
			b.WriteString("\n")
		}
		if stack.Strategy != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(innerW).Render(stack.Strategy))
			b.WriteString("\n")
		}
		if stack.Summary != "" {
			b.WriteString(muted.Width(innerW).Render(stack.Summary))
		}
	}

	title := "Loadout"
	if finalized {
		title = "Your Card Stack"
	}
	return components.ContentCard(title, strings.TrimRight(b.String(), "\n"), w)
}

func cardLine(c model.CreditCard) string {
	var parts []string
	if c.Issuer != "" {
		parts = append(parts, c.Issuer)
	}
	if c.AnnualFee != nil {
		if *c.AnnualFee == 0 {
			parts = append(parts, "no annual fee")
		} else {
			parts = append(parts, cli.FormatMoney(*c.AnnualFee)+" fee")
		}
	}
	if len(parts) == 0 {
		return c.Reason
	}
	return strings.Join(parts, " · ")
}
