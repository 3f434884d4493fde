package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moneymap/moneytree/internal/cli"
	"github.com/moneymap/moneytree/internal/goals"
	"github.com/moneymap/moneytree/internal/model"
)

var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "List missions across all goals",
	RunE:  runMissions,
}

var missionsGenerateCmd = &cobra.Command{
	Use:   "generate <goal-id>",
	Short: "Generate new missions for a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runMissionsGenerate,
}

var missionsToggleCmd = &cobra.Command{
	Use:   "toggle <goal-id> <mission-id>",
	Short: "Mark a mission completed, or active again",
	Args:  cobra.ExactArgs(2),
	RunE:  runMissionsToggle,
}

var missionsCompleteCmd = &cobra.Command{
	Use:   "complete <mission-id>",
	Short: "Complete a mission and update your streak",
	Args:  cobra.ExactArgs(1),
	RunE:  runMissionsComplete,
}

func init() {
	missionsCmd.AddCommand(missionsGenerateCmd, missionsToggleCmd, missionsCompleteCmd)
	rootCmd.AddCommand(missionsCmd)
}

func runMissions(cmd *cobra.Command, _ []string) error {
	userID, err := requireUser()
	if err != nil {
		return err
	}
	missions, err := client.Missions(cmd.Context(), userID)
	if err != nil {
		return handleNotFound(err)
	}
	if len(missions) == 0 {
		fmt.Println(cli.RenderHint("  No missions yet. Run `moneytree missions generate <goal-id>`."))
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("MISSIONS"))
	fmt.Println()
	printMissions(missions)
	level := goals.TreeLevel(goals.MissionProgress(missions))
	fmt.Printf("  %d of %d complete · tree: %s\n\n", goals.CompletedMissions(missions), len(missions), level)
	return nil
}

func printMissions(missions []model.Mission) {
	if len(missions) == 0 {
		fmt.Println(cli.RenderHint("  No missions for this goal. Generate some with `moneytree missions generate`."))
		return
	}
	rows := make([][]string, 0, len(missions))
	for _, m := range missions {
		status := "active"
		switch m.Status {
		case model.MissionCompleted:
			status = "✓ done"
		case model.MissionFailed:
			status = "failed"
		}
		rows = append(rows, []string{
			m.MissionID,
			m.Title,
			cli.FormatMissionType(m.MissionType),
			fmt.Sprintf("%d", m.Points),
			cli.FormatDate(m.Deadline),
			status,
		})
	}
	fmt.Println(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Mission", "Type", "Points", "Deadline", "Status"},
		Rows:    rows,
	}))
}

func runMissionsGenerate(cmd *cobra.Command, args []string) error {
	userID, err := requireUser()
	if err != nil {
		return err
	}
	d := goals.NewDetail(client, userID, args[0], log)
	if err := d.Load(cmd.Context()); err != nil {
		return handleNotFound(err)
	}
	fmt.Printf("  Generating missions for %s...\n", d.Goal().Title)
	if err := d.GenerateMissions(cmd.Context()); err != nil {
		return handleNotFound(err)
	}
	printMissions(d.Missions())
	return nil
}

func runMissionsToggle(cmd *cobra.Command, args []string) error {
	userID, err := requireUser()
	if err != nil {
		return err
	}
	d := goals.NewDetail(client, userID, args[0], log)
	if err := d.Load(cmd.Context()); err != nil {
		return handleNotFound(err)
	}
	change, leveled, err := d.ToggleMission(cmd.Context(), args[1])
	if err != nil {
		return handleNotFound(err)
	}

	for _, m := range d.Missions() {
		if m.MissionID == args[1] {
			fmt.Printf("  %s is now %s\n", m.Title, m.Status)
		}
	}
	fmt.Printf("  Missions %s\n", cli.RenderProgressBar(d.MissionProgress(), 30))
	if leveled {
		fmt.Println(cli.RenderSection(fmt.Sprintf("  🎉 Your tree grew from %s to %s!", change.From, change.To)))
	}
	return nil
}

func runMissionsComplete(cmd *cobra.Command, args []string) error {
	userID, err := requireUser()
	if err != nil {
		return err
	}
	resp, err := client.CompleteMission(cmd.Context(), userID, args[0])
	if err != nil {
		return handleNotFound(err)
	}
	fmt.Printf("  Completed %s (+%d pts)\n", resp.Mission.Title, resp.Mission.Points)
	fmt.Printf("  Streak: %d days (best %d) · shark level %d\n",
		resp.Streak.CurrentStreak, resp.Streak.LongestStreak, resp.SharkLevel)
	return nil
}
