package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/moneymap/moneytree/internal/chat"
	"github.com/moneymap/moneytree/internal/cli"
	"github.com/moneymap/moneytree/internal/credit"
	"github.com/moneymap/moneytree/internal/goals"
	"github.com/moneymap/moneytree/internal/model"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Plan your goals with the goal assistant",
	Long:  "Chat with the goal assistant. Type /finalize to turn the conversation into goals, /quit to leave.",
	RunE:  runChat,
}

var creditCmd = &cobra.Command{
	Use:   "credit",
	Short: "Build a credit card stack with the credit advisor",
	Long:  "Chat with the credit advisor. Type /loadout to see the cards so far, /finalize to lock in your stack, /quit to leave.",
	RunE:  runCredit,
}

func init() {
	rootCmd.AddCommand(chatCmd, creditCmd)
}

var (
	youStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FA8D3")).Bold(true)
	treeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6FBF73")).Bold(true)
)

// repl drives one conversation over stdin. Extra slash commands go to extra.
type repl struct {
	ctrl     *chat.Controller
	finalize func(ctx context.Context) error
	extra    map[string]func()
}

func runChat(cmd *cobra.Command, _ []string) error {
	userID, err := requireUser()
	if err != nil {
		return err
	}
	planner := goals.NewPlanner(client)
	ctrl := chat.New(planner, userID, chat.Options{
		Greeting:    goals.Greeting,
		MinMessages: cfg.Chat.GoalMinMessages,
		Logger:      log,
	})

	r := repl{
		ctrl: ctrl,
		finalize: func(ctx context.Context) error {
			resp, err := planner.Finalize(ctx, userID)
			if err != nil {
				return err
			}
			fmt.Println()
			if resp.Message != "" {
				fmt.Println("  " + resp.Message)
			}
			fmt.Println(goalTable("NEW GOALS", resp.Goals))
			return nil
		},
	}
	return r.run(cmd.Context())
}

func runCredit(cmd *cobra.Command, _ []string) error {
	userID, err := requireUser()
	if err != nil {
		return err
	}
	advisor := credit.NewAdvisor(client, log)
	ctrl := chat.New(advisor, userID, chat.Options{
		Greeting:    credit.Greeting,
		MinMessages: cfg.Chat.CreditMinMessages,
		Logger:      log,
	})

	r := repl{
		ctrl: ctrl,
		finalize: func(ctx context.Context) error {
			stack, err := advisor.Finalize(ctx, userID)
			if err != nil {
				return err
			}
			printStack(*stack)
			return nil
		},
		extra: map[string]func(){
			"/loadout": func() { printLoadout(advisor.Loadout()) },
		},
	}
	return r.run(cmd.Context())
}

func (r repl) run(ctx context.Context) error {
	if err := r.ctrl.Restore(ctx); err != nil {
		return handleNotFound(err)
	}
	for _, m := range r.ctrl.Messages() {
		printMessage(m)
	}
	if r.ctrl.State() == chat.Finalized {
		fmt.Println(cli.RenderHint("  This conversation is finalized."))
		return nil
	}

	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 0, 4096), 64*1024)
	for {
		fmt.Print(youStyle.Render("you › "))
		if !in.Scan() {
			fmt.Println()
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/finalize":
			err := r.ctrl.Finalize(ctx, r.finalize)
			switch {
			case errors.Is(err, chat.ErrTooShort):
				fmt.Println(cli.RenderWarning("  Keep chatting a little longer before finalizing."))
				continue
			case err != nil:
				return handleNotFound(err)
			}
			return nil
		}
		if fn, ok := r.extra[line]; ok {
			fn()
			continue
		}

		err := r.ctrl.Send(ctx, line)
		for _, m := range chat.Replies(r.ctrl.Messages()) {
			printMessage(m)
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn("chat turn failed", "err", err)
			if errors.Is(err, chat.ErrFinalized) {
				return nil
			}
		}
	}
}

func printMessage(m model.ChatMessage) {
	if m.Role == model.RoleUser {
		fmt.Println(youStyle.Render("you › ") + m.Content)
		return
	}
	fmt.Println(treeStyle.Render("🌳 › ") + m.Content)
	fmt.Println()
}

func printLoadout(l model.Loadout) {
	fmt.Println()
	if l.TreeName != nil && *l.TreeName != "" {
		fmt.Println(cli.RenderSection("  🌳 " + *l.TreeName))
	}
	if len(l.Cards) == 0 {
		fmt.Println(cli.RenderHint("  No cards yet."))
		fmt.Println()
		return
	}
	for _, c := range l.Cards {
		fmt.Printf("  • %s", c.Name)
		if c.Issuer != "" {
			fmt.Printf(" (%s)", c.Issuer)
		}
		fmt.Println()
	}
	fmt.Println()
}

func printStack(s model.CreditCardStack) {
	rows := make([][]string, 0, len(s.Cards))
	for _, c := range s.Cards {
		fee := "-"
		if c.AnnualFee != nil {
			fee = cli.FormatMoney(*c.AnnualFee)
		}
		rows = append(rows, []string{c.Name, c.Issuer, fee, strings.Join(c.BestCategories, ", ")})
	}

	title := "YOUR CARD STACK"
	if s.TreeName != "" {
		title = strings.ToUpper(s.TreeName)
	}
	fmt.Println()
	fmt.Println(cli.RenderTable(cli.Table{
		Title:   title,
		Headers: []string{"Card", "Issuer", "Annual fee", "Best for"},
		Rows:    rows,
	}))
	if s.Strategy != "" {
		fmt.Println("  " + s.Strategy)
	}
	if s.TotalEstimatedAnnualValue != nil {
		fmt.Printf("  Estimated value: %s/yr\n", cli.FormatMoney(*s.TotalEstimatedAnnualValue))
	}
	fmt.Println()
}
