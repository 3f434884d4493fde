package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/moneymap/moneytree/internal/cli"
	"github.com/moneymap/moneytree/internal/tui"
)

var (
	flagAge       int
	flagIncome    float64
	flagDebts     string
	flagStatement string
	flagForce     bool
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create your MoneyTree profile",
	Long: "Create your profile on the backend. Without --age and --income an interactive form is shown.\n" +
		"Debts are type:amount pairs, e.g. --debts \"student loan:12000, car:4500\".",
	RunE: runOnboard,
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Forget the local session",
	RunE:  runSignout,
}

func init() {
	onboardCmd.Flags().IntVar(&flagAge, "age", 0, "Your age")
	onboardCmd.Flags().Float64Var(&flagIncome, "income", 0, "Annual income in USD")
	onboardCmd.Flags().StringVar(&flagDebts, "debts", "", "Debts as type:amount pairs")
	onboardCmd.Flags().StringVar(&flagStatement, "statement", "", "CSV bank statement to upload")
	onboardCmd.Flags().BoolVar(&flagForce, "force", false, "Onboard again even if a session exists")
	rootCmd.AddCommand(onboardCmd, signoutCmd)
}

func runOnboard(cmd *cobra.Command, _ []string) error {
	if sess := sessions.Session(); sess.IsOnboarded && !flagForce {
		fmt.Printf("  Already onboarded as %s. Use --force to start over.\n", sess.UserID)
		return nil
	}

	vals := tui.OnboardValues{Debts: flagDebts, Statement: flagStatement}
	if flagAge > 0 {
		vals.Age = strconv.Itoa(flagAge)
	}
	if flagIncome > 0 {
		vals.Income = strconv.FormatFloat(flagIncome, 'f', -1, 64)
	}

	if vals.Age == "" || vals.Income == "" {
		if !isatty.IsTerminal(os.Stdin.Fd()) {
			return errors.New("--age and --income are required when stdin is not a terminal")
		}
		if err := tui.NewOnboardForm(&vals).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
	}

	req, err := vals.Request()
	if err != nil {
		return err
	}

	userID, err := tui.SubmitOnboarding(cmd.Context(), client, sessions, req)
	if err != nil {
		return fmt.Errorf("onboarding: %w", err)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("🌱 YOUR TREE IS PLANTED"))
	fmt.Printf("  User ID: %s\n", userID)
	if req.StatementPath != "" {
		fmt.Printf("  Statement: %s uploaded\n", req.StatementPath)
	}
	fmt.Println()
	fmt.Println(cli.RenderHint("  Next: `moneytree chat` to plan your goals, or `moneytree` for the dashboard."))
	return nil
}

func runSignout(_ *cobra.Command, _ []string) error {
	if err := sessions.Clear(); err != nil {
		return err
	}
	fmt.Println("  Signed out. Your goals stay on the server.")
	return nil
}
