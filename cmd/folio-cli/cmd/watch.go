package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"folio/internal/ports"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep trees and statistics current while you write",
	Long: `Watch every project under the root. New, moved and deleted files update
the tree; edits recompute the statistics once the project has been quiet
for the configured debounce period.

Example:
  folio-cli watch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := current.Logger()
		logger.Info("watching", slog.String("root", current.Storage.Root()))

		return current.Watch(ctx, func(projectPath string, kind ports.ChangeKind, err error) {
			stamp := time.Now().Format(time.TimeOnly)
			if err != nil {
				fmt.Printf("%s %s: %v\n", stamp, projectPath, err)
				return
			}
			fmt.Printf("%s %s: %s refreshed\n", stamp, projectPath, kind)
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
