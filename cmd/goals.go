package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/moneymap/moneytree/internal/cli"
	"github.com/moneymap/moneytree/internal/goals"
	"github.com/moneymap/moneytree/internal/model"
)

var flagYes bool

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "List your financial goals",
	RunE:  runGoals,
}

var goalsRoadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Show roadmap goals ordered by target date",
	RunE:  runGoalsRoadmap,
}

var goalsToggleCmd = &cobra.Command{
	Use:   "toggle <goal-id>",
	Short: "Add or remove a goal from the roadmap",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsToggle,
}

var goalsDeleteCmd = &cobra.Command{
	Use:   "delete <goal-id>",
	Short: "Delete a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsDelete,
}

var goalsSaveCmd = &cobra.Command{
	Use:   "save <goal-id> <amount>",
	Short: "Record savings toward a goal",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoalsSave,
}

var goalsShowCmd = &cobra.Command{
	Use:   "show <goal-id>",
	Short: "Show a goal with its missions and tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsShow,
}

func init() {
	goalsDeleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")
	goalsCmd.AddCommand(goalsRoadmapCmd, goalsToggleCmd, goalsDeleteCmd, goalsSaveCmd, goalsShowCmd)
	rootCmd.AddCommand(goalsCmd)
}

// loadBoard returns a loaded goals board for the current user.
func loadBoard(cmd *cobra.Command) (*goals.Board, error) {
	userID, err := requireUser()
	if err != nil {
		return nil, err
	}
	board := goals.NewBoard(client, userID, goals.BoardOptions{
		RollbackToggle: cfg.Goals.RollbackRoadmapToggle,
		Logger:         log,
	})
	if err := board.Load(cmd.Context()); err != nil {
		return nil, handleNotFound(err)
	}
	return board, nil
}

func runGoals(cmd *cobra.Command, _ []string) error {
	board, err := loadBoard(cmd)
	if err != nil {
		return err
	}
	list := board.Goals()
	if len(list) == 0 {
		fmt.Println(cli.RenderHint("  No goals yet. Run `moneytree chat` to plan some."))
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("GOALS"))
	fmt.Println()
	fmt.Println(goalTable("", list))
	return nil
}

func runGoalsRoadmap(cmd *cobra.Command, _ []string) error {
	board, err := loadBoard(cmd)
	if err != nil {
		return err
	}
	roadmap := board.Roadmap()
	if len(roadmap) == 0 {
		fmt.Println(cli.RenderHint("  Nothing on your roadmap. Use `moneytree goals toggle <id>` to add a goal."))
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("ROADMAP"))
	fmt.Println()
	for _, g := range roadmap {
		pct := goals.ClampedProgress(g)
		fmt.Printf("  %-24s %s  %s\n", g.Title, cli.RenderProgressBar(pct, 30), cli.FormatDate(g.TargetDate))
	}
	fmt.Println()
	return nil
}

func goalTable(title string, list []model.FinancialGoal) string {
	now := time.Now()
	rows := make([][]string, 0, len(list))
	for _, g := range list {
		road := ""
		if g.OnRoadmap {
			road = "✓"
		}
		rows = append(rows, []string{
			g.GoalID,
			g.Title,
			cli.FormatMoney(g.CurrentAmount),
			cli.FormatMoney(g.TargetAmount),
			cli.FormatPercent(goals.FinancialProgress(g)),
			cli.FormatDaysRemaining(goals.DaysRemaining(g.TargetDate, now)),
			cli.FormatPriority(g.Priority),
			road,
		})
	}
	return cli.RenderTable(cli.Table{
		Title:   title,
		Headers: []string{"ID", "Goal", "Saved", "Target", "Progress", "Due", "Priority", "Roadmap"},
		Rows:    rows,
	})
}

func runGoalsToggle(cmd *cobra.Command, args []string) error {
	board, err := loadBoard(cmd)
	if err != nil {
		return err
	}
	g, err := board.ToggleRoadmap(cmd.Context(), args[0])
	if err != nil {
		return handleNotFound(err)
	}
	if g.OnRoadmap {
		fmt.Printf("  %s added to your roadmap\n", g.Title)
	} else {
		fmt.Printf("  %s removed from your roadmap\n", g.Title)
	}
	return nil
}

func runGoalsDelete(cmd *cobra.Command, args []string) error {
	board, err := loadBoard(cmd)
	if err != nil {
		return err
	}
	g, ok := board.Get(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", goals.ErrUnknownGoal, args[0])
	}

	if !flagYes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q?", g.Title)).
			Description("This cannot be undone.").
			Affirmative("Delete").
			Negative("Keep").
			Value(&confirmed).
			Run()
		if err != nil || !confirmed {
			fmt.Println("  Kept.")
			return nil
		}
	}

	if err := board.Delete(cmd.Context(), g.GoalID); err != nil {
		return handleNotFound(err)
	}
	fmt.Printf("  Deleted %s\n", g.Title)
	return nil
}

func runGoalsSave(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(strings.TrimPrefix(args[1], "$"), 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[1])
	}
	board, err := loadBoard(cmd)
	if err != nil {
		return err
	}
	g, err := board.AddSavings(cmd.Context(), args[0], amount)
	if err != nil {
		return handleNotFound(err)
	}

	pct := goals.ClampedProgress(g)
	fmt.Printf("  Saved %s toward %s\n", cli.FormatMoney(amount), g.Title)
	fmt.Printf("  %s  %s of %s\n", cli.RenderProgressBar(pct, 30), cli.FormatMoney(g.CurrentAmount), cli.FormatMoney(g.TargetAmount))
	return nil
}

func runGoalsShow(cmd *cobra.Command, args []string) error {
	userID, err := requireUser()
	if err != nil {
		return err
	}
	d := goals.NewDetail(client, userID, args[0], log)
	if err := d.Load(cmd.Context()); err != nil {
		return handleNotFound(err)
	}
	g := d.Goal()

	fmt.Println()
	fmt.Println(cli.RenderTitle(strings.ToUpper(g.Title)))
	if g.Description != "" {
		fmt.Println("  " + g.Description)
	}
	fmt.Println()
	pct := goals.ClampedProgress(g)
	fmt.Printf("  Saved     %s  %s of %s\n", cli.RenderProgressBar(pct, 30), cli.FormatMoney(g.CurrentAmount), cli.FormatMoney(g.TargetAmount))
	fmt.Printf("  Missions  %s  %s\n", cli.RenderProgressBar(d.MissionProgress(), 30), d.Level())
	fmt.Printf("  Due       %s (%s)\n", cli.FormatDate(g.TargetDate), cli.FormatDaysRemaining(goals.DaysRemaining(g.TargetDate, time.Now())))
	fmt.Println()
	printMissions(d.Missions())
	return nil
}
