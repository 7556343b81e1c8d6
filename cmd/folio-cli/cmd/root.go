package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"folio/internal/app"
	"folio/internal/application"
	"folio/internal/config"
	"folio/internal/domain"
)

var (
	rootPath string
	verbose  bool
	current  *app.App
)

var rootCmd = &cobra.Command{
	Use:   "folio-cli",
	Short: "CLI for organizing writing projects",
	Long: `folio-cli manages a folder of writing projects kept as plain markdown
files: books, scripts, films, essays and custom project types.

It keeps each project's tree in sync with the disk, reorders chapters,
tracks inclusion and completion, and computes word count statistics.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		settings, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("root") {
			settings.Root = rootPath
		}

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		current, err = app.Open(settings, logger)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current == nil {
			return nil
		}
		return current.Close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootPath, "root", "r", config.Root(), "folder holding the projects")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log debug output to stderr")
}

// GetServices returns the initialized services
func GetServices() *application.Services {
	return current.Services
}

// resolveProject scans the root and finds a project by folder or title
func resolveProject(ctx context.Context, name string) (domain.Project, error) {
	ws := GetServices().Workspace
	ws.Refresh(ctx)
	return ws.Resolve(name)
}

// resolveNode accepts either a node id or a project-relative path
func resolveNode(ctx context.Context, projectPath, ref string) (*domain.Node, error) {
	return GetServices().Workspace.Node(ctx, projectPath, ref)
}
