package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/moneymap/moneytree/internal/daemon"
	"github.com/moneymap/moneytree/internal/dashboard"
)

var (
	flagDaemonAddr     string
	flagDaemonInterval time.Duration
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Watch your progress and serve it on a local HTTP API",
	Long: "Polls the dashboard and serves /healthz, /v1/status, /v1/events and an\n" +
		"SSE stream at /v1/stream for status bars and widgets.",
	RunE: runDaemon,
}

func init() {
	daemonCmd.Flags().StringVar(&flagDaemonAddr, "addr", "127.0.0.1:8787", "Listen address")
	daemonCmd.Flags().DurationVar(&flagDaemonInterval, "interval", time.Minute, "Poll interval (min 5s)")
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	userID, err := requireUser()
	if err != nil {
		return err
	}

	svc := daemon.New(daemon.Config{
		UserID:   userID,
		Interval: flagDaemonInterval,
		Addr:     flagDaemonAddr,
		Logger:   log,
	}, dashboard.New(client, userID))

	fmt.Fprintf(os.Stderr, "  moneytree daemon listening on http://%s\n", flagDaemonAddr)
	return svc.Run(cmd.Context())
}
