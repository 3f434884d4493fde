package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/moneymap/moneytree/internal/api"
	"github.com/moneymap/moneytree/internal/model"
	"github.com/moneymap/moneytree/internal/session"
	"github.com/moneymap/moneytree/internal/tui/theme"
)

// OnboardValues are the raw answers of the onboarding form.
type OnboardValues struct {
	Age       string
	Income    string
	Debts     string
	Statement string
}

// Request converts the answers into a validated onboarding request.
func (v OnboardValues) Request() (model.OnboardRequest, error) {
	var req model.OnboardRequest

	age, err := strconv.Atoi(strings.TrimSpace(v.Age))
	if err != nil {
		return req, &model.ValidationError{Field: "age", Reason: "must be a whole number"}
	}
	income, err := parseAmount(v.Income)
	if err != nil {
		return req, &model.ValidationError{Field: "annual_income", Reason: "must be a number"}
	}
	debts, err := model.ParseDebts(v.Debts)
	if err != nil {
		return req, err
	}

	req = model.OnboardRequest{
		Age:           age,
		AnnualIncome:  income,
		Debts:         debts,
		StatementPath: strings.TrimSpace(v.Statement),
	}
	if err := model.Validate(req); err != nil {
		return req, err
	}
	return req, nil
}

func parseAmount(s string) (float64, error) {
	s = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	return strconv.ParseFloat(s, 64)
}

// NewOnboardForm builds the onboarding form bound to vals.
func NewOnboardForm(vals *OnboardValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to MoneyTree").
				Description("Tell us a little about your finances and we'll plant your tree."),
			huh.NewInput().
				Title("Age").
				Value(&vals.Age).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return errors.New("enter your age in years")
					}
					return model.ValidateVar("age", n, "gte=13,lte=120")
				}),
			huh.NewInput().
				Title("Annual income").
				Placeholder("65000").
				Value(&vals.Income).
				Validate(func(s string) error {
					n, err := parseAmount(s)
					if err != nil {
						return errors.New("enter a number")
					}
					return model.ValidateVar("annual_income", n, "gt=0")
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Debts").
				Description("type:amount pairs separated by commas, or leave blank").
				Placeholder("student loan:12000, credit card:1500").
				Value(&vals.Debts).
				Validate(func(s string) error {
					_, err := model.ParseDebts(s)
					return err
				}),
			huh.NewInput().
				Title("Bank statement (optional)").
				Description("Path to a CSV export for the budget screen").
				Value(&vals.Statement).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return nil
					}
					if !strings.HasSuffix(strings.ToLower(s), ".csv") {
						return errors.New("statement must be a .csv file")
					}
					if _, err := os.Stat(s); err != nil {
						return fmt.Errorf("cannot read %s", s)
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeCharm())
}

// SubmitOnboarding creates the user on the backend and persists the session.
func SubmitOnboarding(ctx context.Context, client *api.Client, store *session.Store, req model.OnboardRequest) (string, error) {
	resp, err := client.Onboard(ctx, req)
	if err != nil {
		return "", err
	}
	if err := store.SetUserID(resp.UserID); err != nil {
		return "", err
	}
	// The profile is a cache; a failure here still leaves a usable session.
	_ = store.SetProfile(req.Profile(resp.UserID))
	return resp.UserID, nil
}

type onboardState struct {
	form       *huh.Form
	vals       *OnboardValues
	notice     string
	err        string
	submitting bool
}

func newOnboardState() *onboardState {
	vals := &OnboardValues{}
	return &onboardState{form: NewOnboardForm(vals), vals: vals}
}

type onboardedMsg struct {
	userID string
	err    error
}

func submitOnboardingCmd(deps Deps, req model.OnboardRequest) tea.Cmd {
	return func() tea.Msg {
		id, err := SubmitOnboarding(context.Background(), deps.Client, deps.Session, req)
		return onboardedMsg{userID: id, err: err}
	}
}

func (a App) updateOnboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	ob := a.onboard
	if ob.submitting {
		return a, nil
	}

	form, cmd := ob.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		ob.form = f
	}

	switch ob.form.State {
	case huh.StateAborted:
		return a, tea.Quit
	case huh.StateCompleted:
		req, err := ob.vals.Request()
		if err != nil {
			return a, a.restartOnboard(err)
		}
		ob.submitting = true
		ob.err = ""
		a.inflight++
		return a, submitOnboardingCmd(a.deps, req)
	}
	return a, cmd
}

// restartOnboard rebuilds the form, keeping the answers, after a failure.
func (a *App) restartOnboard(err error) tea.Cmd {
	ob := a.onboard
	ob.submitting = false
	ob.err = err.Error()
	ob.form = NewOnboardForm(ob.vals)
	if a.width > 0 {
		ob.form = ob.form.WithWidth(min(a.width, 72)).WithHeight(a.height)
	}
	return ob.form.Init()
}

func (a App) handleOnboarded(msg onboardedMsg) (tea.Model, tea.Cmd) {
	a.done()
	if a.onboard == nil {
		return a, nil
	}
	if msg.err != nil {
		a.log.Warn("onboarding failed", "err", msg.err)
		return a, a.restartOnboard(msg.err)
	}
	a.log.Info("onboarded", "user_id", msg.userID)
	a.bind(msg.userID)
	a.resizeChats()
	a.notify("Welcome! Your tree is planted.")
	return a, a.loadAll()
}

func (a App) viewOnboard() string {
	t := theme.Active
	ob := a.onboard

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	noticeStyle := lipgloss.NewStyle().Foreground(t.Yellow)
	errStyle := lipgloss.NewStyle().Foreground(t.Red)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render("🌱 MoneyTree"))
	b.WriteString("\n\n")
	if ob.notice != "" {
		b.WriteString(noticeStyle.Render(ob.notice))
		b.WriteString("\n\n")
	}
	if ob.submitting {
		b.WriteString(a.spinner.View() + " " + dimStyle.Render("Creating your profile..."))
	} else {
		b.WriteString(ob.form.View())
	}
	if ob.err != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(ob.err))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, b.String())
}
