package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"folio/internal/application/commands"
)

func inclusionCommand(use, short string, mode commands.InclusionMode) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <project> <path>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			project, err := resolveProject(ctx, args[0])
			if err != nil {
				return err
			}
			node, err := resolveNode(ctx, project.Path, args[1])
			if err != nil {
				return err
			}

			inclusionCmd := commands.NewSetInclusionCommand(GetServices().Mutator, project.Path, node.Path, mode)
			msg, err := inclusionCmd.Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

var undoComplete bool

var completeCmd = &cobra.Command{
	Use:   "complete <project> <path>",
	Short: "Mark a file as completed",
	Long: `Mark a file as completed, or back in progress with --undo.
Completed files drive the chapter progress.

Examples:
  folio-cli complete "The Long Winter" "Volume 1/Chapter 1.md"
  folio-cli complete "The Long Winter" "Volume 1/Chapter 1.md" --undo`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		project, err := resolveProject(ctx, args[0])
		if err != nil {
			return err
		}
		node, err := resolveNode(ctx, project.Path, args[1])
		if err != nil {
			return err
		}

		completeCmd := commands.NewSetCompletedCommand(GetServices().Mutator, project.Path, node.Path, !undoComplete)
		msg, err := completeCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	},
}

func init() {
	completeCmd.Flags().BoolVar(&undoComplete, "undo", false, "mark as in progress instead")

	rootCmd.AddCommand(inclusionCommand("include", "Always count a file, whatever its name", commands.InclusionInclude))
	rootCmd.AddCommand(inclusionCommand("exclude", "Never count a file or folder", commands.InclusionExclude))
	rootCmd.AddCommand(inclusionCommand("clear", "Drop manual inclusion overrides", commands.InclusionClear))
	rootCmd.AddCommand(completeCmd)
}
