package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moneymap/moneytree/internal/cli"
	"github.com/moneymap/moneytree/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE:  runConfigInit,
}

var configSetURLCmd = &cobra.Command{
	Use:   "set-url <url>",
	Short: "Point moneytree at a different backend",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetURL,
}

func init() {
	configCmd.AddCommand(configInitCmd, configSetURLCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println(cli.RenderSection("[Backend]"))
	fmt.Printf("    URL:     %s\n", config.BaseURL(cfg))
	fmt.Printf("    Timeout: %s\n", config.Timeout(cfg))
	fmt.Println()

	fmt.Println(cli.RenderSection("[Chat]"))
	fmt.Printf("    Goal planner finalize after:  %s\n", gateLabel(cfg.Chat.GoalMinMessages))
	fmt.Printf("    Credit advisor finalize after: %s\n", gateLabel(cfg.Chat.CreditMinMessages))
	fmt.Println()

	fmt.Println(cli.RenderSection("[Goals]"))
	fmt.Printf("    Roll back failed roadmap toggles: %v\n", cfg.Goals.RollbackRoadmapToggle)
	fmt.Println()

	fmt.Println(cli.RenderSection("[Appearance]"))
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println(cli.RenderSection("[Logging]"))
	fmt.Printf("    Level: %s\n", cfg.Logging.Level)
	fmt.Printf("    File:  %s\n", config.LogPath(cfg))
	fmt.Println()

	fmt.Println(cli.RenderSection("[Session]"))
	if sess := sessions.Session(); sess.IsOnboarded {
		fmt.Printf("    User: %s\n", sess.UserID)
	} else {
		fmt.Println("    User: not onboarded")
	}
	fmt.Printf("    Store: %s\n", config.SessionDBPath())
	fmt.Println()
	return nil
}

func gateLabel(n int) string {
	if n <= 0 {
		return "any time"
	}
	return fmt.Sprintf("%d messages", n)
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	if config.Exists() {
		fmt.Println(cli.RenderWarning("  Config already exists at " + config.Path()))
		return nil
	}
	if err := config.Save(config.DefaultConfig()); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("  Wrote %s\n", config.Path())
	return nil
}

func runConfigSetURL(_ *cobra.Command, args []string) error {
	cfg.Backend.BaseURL = args[0]
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("  Backend set to %s\n", config.BaseURL(cfg))
	return nil
}
