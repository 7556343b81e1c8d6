package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"folio/internal/application/commands"
)

var position string

var reorderCmd = &cobra.Command{
	Use:   "reorder <project> <node> <target>",
	Short: "Move a node before, after or inside another",
	Long: `Move a file or folder relative to another node of the same project.
Nodes are given by project-relative path or by id.

Moving into another folder moves the file on disk; the move is refused
when a file with the same name already exists there.

Examples:
  folio-cli reorder "The Long Winter" "Volume 1/Epilogue.md" "Volume 1/Chapter 1.md" --position before
  folio-cli reorder "The Long Winter" Notes.md "Volume 2" --position inside`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		project, err := resolveProject(ctx, args[0])
		if err != nil {
			return err
		}
		dragged, err := resolveNode(ctx, project.Path, args[1])
		if err != nil {
			return err
		}
		target, err := resolveNode(ctx, project.Path, args[2])
		if err != nil {
			return err
		}

		reorderCmd := commands.NewReorderCommand(GetServices().Mutator, project.Path, dragged.ID, target.ID, position)
		result, err := reorderCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	reorderCmd.Flags().StringVarP(&position, "position", "p", "after", "before, after or inside")
	rootCmd.AddCommand(reorderCmd)
}
