package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/moneymap/moneytree/internal/tui/components"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0

		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w + 1 // separator
		}
		assert.Equal(t, -1, a.tabAtX(pos+5), "past the last tab")
	}
}

func TestClickOnTabBarSwitchesTab(t *testing.T) {
	a := newTestApp(t, nil, "u1")
	a.width, a.height = 120, 40

	pos := 0
	for i := 0; i < tabCredit; i++ {
		pos += components.TabVisualWidth(components.Tabs[i], i == a.activeTab) + 1
	}

	next, _ := a.Update(tea.MouseMsg{X: pos + 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, tabCredit, next.(App).activeTab)

	// Clicks below the tab bar are ignored.
	next, _ = next.(App).Update(tea.MouseMsg{X: 1, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, tabCredit, next.(App).activeTab)
}
