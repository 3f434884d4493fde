// Package cmd implements the moneytree CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/moneymap/moneytree/internal/api"
	"github.com/moneymap/moneytree/internal/config"
	"github.com/moneymap/moneytree/internal/logger"
	"github.com/moneymap/moneytree/internal/session"
	"github.com/moneymap/moneytree/internal/store"
	"github.com/moneymap/moneytree/internal/tui/theme"
)

var (
	flagVerbose   bool
	flagEphemeral bool
	flagAPIURL    string
)

// Process-wide collaborators, built once in PersistentPreRunE.
var (
	cfg      config.Config
	log      *slog.Logger
	client   *api.Client
	sessions *session.Store
	closers  []io.Closer
)

var errNotOnboarded = errors.New("not onboarded yet: run `moneytree onboard` first")

var rootCmd = &cobra.Command{
	Use:                "moneytree",
	Short:              "Grow your MoneyTree from the terminal",
	Long:               "Plan financial goals, complete missions, and build a credit card stack with the MoneyMap backend.",
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	RunE:               runTUI,
	SilenceUsage:       true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Mirror diagnostics to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "Keep the session in memory only")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Backend URL (overrides config and env)")
}

// ownsTerminal reports whether cmd runs the TUI, which never logs to stderr.
func ownsTerminal(cmd *cobra.Command) bool {
	root := cmd.Root()
	return cmd == root || (cmd.Name() == "tui" && cmd.Parent() == root)
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	l, closer, err := logger.Init(logger.Options{
		Level:  cfg.Logging.Level,
		File:   config.LogPath(cfg),
		Stderr: flagVerbose && !ownsTerminal(cmd),
	})
	if err != nil {
		return err
	}
	log = l
	closers = append(closers, closer)

	var backend session.Backend
	if flagEphemeral {
		backend = session.NewMemoryBackend()
	} else {
		kv, err := store.Open(config.SessionDBPath())
		if err != nil {
			return fmt.Errorf("opening session store: %w", err)
		}
		closers = append(closers, kv)
		backend = kv
	}
	sessions = session.New(backend, log)

	baseURL := config.BaseURL(cfg)
	if flagAPIURL != "" {
		baseURL = flagAPIURL
	}
	client = api.NewClient(baseURL,
		api.WithTimeout(config.Timeout(cfg)),
		api.WithLogger(log),
	)
	log.Debug("starting", "command", cmd.CommandPath(), "base_url", baseURL)
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	for i := len(closers) - 1; i >= 0; i-- {
		_ = closers[i].Close()
	}
	closers = nil
	return nil
}

// requireUser returns the onboarded user id.
func requireUser() (string, error) {
	sess := sessions.Session()
	if !sess.IsOnboarded {
		return "", errNotOnboarded
	}
	return sess.UserID, nil
}

// handleNotFound clears a session the backend no longer recognizes.
func handleNotFound(err error) error {
	if !api.IsNotFound(err) {
		return err
	}
	if cerr := sessions.Clear(); cerr != nil {
		log.Warn("clearing session", "err", cerr)
	}
	return fmt.Errorf("%w: the backend does not know this user anymore; run `moneytree onboard` again", err)
}
