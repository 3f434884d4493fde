package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moneymap/moneytree/internal/cli"
	"github.com/moneymap/moneytree/internal/dashboard"
	"github.com/moneymap/moneytree/internal/goals"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Summarize goals, missions and your streak",
	RunE:  runDashboard,
}

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show spending from your uploaded statement",
	RunE:  runBudget,
}

var spendingCmd = &cobra.Command{
	Use:   "spending",
	Short: "Show the spending analysis report",
	RunE:  runSpending,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(dashboardCmd, budgetCmd, spendingCmd, healthCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	userID, err := requireUser()
	if err != nil {
		return err
	}
	d := dashboard.New(client, userID)
	data, err := d.Load(cmd.Context())
	if err != nil {
		return handleNotFound(err)
	}
	sum := d.Summary()

	fmt.Println()
	fmt.Println(cli.RenderTitle("MONEYTREE"))
	fmt.Println()
	fmt.Printf("  Saved      %s of %s\n", cli.FormatMoney(sum.Saved), cli.FormatMoney(sum.Target))
	fmt.Printf("             %s\n", cli.RenderProgressBar(sum.Progress(), 30))
	fmt.Printf("  Goals      %d (%d on roadmap)\n", sum.Goals, sum.OnRoadmap)
	fmt.Printf("  Missions   %d active, %d completed\n", sum.ActiveMissions, sum.CompletedMissions)
	fmt.Printf("  Streak     %d days\n", sum.Streak)
	fmt.Printf("  Tree       %s\n", sum.Level)

	// The shark endpoint is optional on older backends.
	if shark, err := client.SharkStatus(cmd.Context(), userID); err == nil {
		fmt.Printf("  Shark      level %d, next at %d missions\n", shark.SharkLevel, shark.NextLevelAt)
	} else {
		log.Debug("shark status unavailable", "err", err)
	}
	fmt.Println()

	if roadmap := goals.Roadmap(data.Goals); len(roadmap) > 0 {
		fmt.Println(goalTable("ROADMAP", roadmap))
	}
	return nil
}

func runBudget(cmd *cobra.Command, _ []string) error {
	userID, err := requireUser()
	if err != nil {
		return err
	}
	report, err := dashboard.NewBudget(client, userID).Load(cmd.Context())
	if err != nil {
		return handleNotFound(err)
	}
	if !report.HasData || report.Summary == nil {
		fmt.Println(cli.RenderHint("  No statement uploaded yet. Run `moneytree onboard --force --statement export.csv`."))
		return nil
	}

	s := report.Summary
	fmt.Println()
	fmt.Println(cli.RenderTitle("BUDGET"))
	fmt.Println()
	fmt.Printf("  Income        %s\n", cli.FormatMoney(s.TotalIncome))
	fmt.Printf("  Spending      %s\n", cli.FormatMoney(s.TotalSpending))
	fmt.Printf("  Net savings   %s (%s)\n", cli.FormatMoney(s.NetSavings), cli.FormatPercent(s.SavingsRate))
	if report.OptimizationScore != nil {
		fmt.Printf("  Score         %.0f/100\n", *report.OptimizationScore)
	}
	fmt.Println()

	top := dashboard.TopCategories(report, 10)
	if len(top) > 0 {
		fmt.Println(cli.RenderSection("  Spending by category"))
		peak := top[0].Amount
		for _, c := range top {
			fmt.Println(cli.RenderHorizontalBar(c.Category, c.Amount, peak, 30, 18))
		}
		fmt.Println()
	}

	if len(report.Insights) > 0 {
		fmt.Println(cli.RenderSection("  Insights"))
		for _, in := range report.Insights {
			fmt.Printf("  • %s\n", in.Title)
			if in.Description != "" {
				fmt.Println(cli.RenderHint("    " + in.Description))
			}
		}
		if total := dashboard.PotentialSavings(report); total > 0 {
			fmt.Printf("\n  Potential savings: %s\n", cli.FormatMoney(total))
		}
		fmt.Println()
	}
	return nil
}

func runSpending(cmd *cobra.Command, _ []string) error {
	userID, err := requireUser()
	if err != nil {
		return err
	}
	report, err := client.SpendingReport(cmd.Context(), userID)
	if err != nil {
		return handleNotFound(err)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SPENDING " + report.Period))
	fmt.Println()
	fmt.Printf("  Total spending  %s\n", cli.FormatMoney(report.TotalSpending))
	fmt.Printf("  Score           %.0f/100\n\n", report.OptimizationScore)

	cats := slices.SortedFunc(maps.Keys(report.CategoryBreakdown), func(a, b string) int {
		switch va, vb := report.CategoryBreakdown[a], report.CategoryBreakdown[b]; {
		case va > vb:
			return -1
		case va < vb:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})
	peak := 0.0
	if len(cats) > 0 {
		peak = report.CategoryBreakdown[cats[0]]
	}
	for _, c := range cats {
		fmt.Println(cli.RenderHorizontalBar(c, report.CategoryBreakdown[c], peak, 30, 18))
	}
	fmt.Println()
	return nil
}

func runHealth(cmd *cobra.Command, _ []string) error {
	h, err := client.Health(cmd.Context())
	if err != nil {
		fmt.Println(cli.RenderError("  Backend unreachable at " + client.BaseURL()))
		return err
	}
	fmt.Printf("  %s: %s (%s)\n", client.BaseURL(), h.Status, h.Timestamp)
	return nil
}
