package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"folio/internal/application/commands"
	"folio/internal/domain"
)

var showIDs bool

var treeCmd = &cobra.Command{
	Use:   "tree <project>",
	Short: "Display a project's tree",
	Long: `Display the stored tree of a project in editorial order.

Completed files are marked with [x], manual overrides with + or -.

Example:
  folio-cli tree "The Long Winter"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		project, err := resolveProject(ctx, args[0])
		if err != nil {
			return err
		}

		treeCmd := commands.NewShowTreeCommand(GetServices().Workspace, project.Path)
		tree, err := treeCmd.Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Println(project.Name)
		printTree(tree, 1)
		return nil
	},
}

func printTree(nodes []*domain.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		fmt.Printf("%s%s%s\n", indent, nodeMarks(n), n.Title)
		if showIDs {
			fmt.Printf("%s    %s %s\n", indent, n.ID, n.Path)
		}
		printTree(n.Children, depth+1)
	}
}

func nodeMarks(n *domain.Node) string {
	var b strings.Builder
	switch {
	case n.IsGroup():
		b.WriteString("▸ ")
	case n.Completed:
		b.WriteString("[x] ")
	default:
		b.WriteString("[ ] ")
	}
	if n.Include {
		b.WriteString("+")
	}
	if n.Exclude {
		b.WriteString("-")
	}
	if n.Include || n.Exclude {
		b.WriteString(" ")
	}
	return b.String()
}

var syncCmd = &cobra.Command{
	Use:   "sync <project>",
	Short: "Reconcile a project's tree with the disk",
	Long: `Add new files and folders to the stored tree and drop vanished ones.

Example:
  folio-cli sync "The Long Winter"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		project, err := resolveProject(ctx, args[0])
		if err != nil {
			return err
		}

		syncCmd := commands.NewSyncTreeCommand(GetServices().Sync, project.Path)
		result, err := syncCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	treeCmd.Flags().BoolVar(&showIDs, "ids", false, "print node ids and paths")

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(syncCmd)
}
