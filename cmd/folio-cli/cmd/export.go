package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"folio/internal/application/commands"
)

var (
	exportOutput string
	exportCopy   bool
)

var exportCmd = &cobra.Command{
	Use:   "export <project>",
	Short: "Assemble the manuscript as one markdown document",
	Long: `Join the project's files in tree order into one markdown document,
skipping excluded files. The result goes to stdout unless --output or
--copy is given.

Examples:
  folio-cli export "The Long Winter" > manuscript.md
  folio-cli export "The Long Winter" -o manuscript.md
  folio-cli export "The Long Winter" --copy`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		project, err := resolveProject(ctx, args[0])
		if err != nil {
			return err
		}

		exportCmd := commands.NewAssembleCommand(GetServices().Assembler, project.Path)
		result, err := exportCmd.Execute(ctx)
		if err != nil {
			return err
		}

		switch {
		case exportCopy:
			if err := clipboard.WriteAll(result.Markdown); err != nil {
				return fmt.Errorf("failed to copy to clipboard: %w", err)
			}
			fmt.Println(result.Message + ", copied to clipboard")
		case exportOutput != "":
			if err := os.WriteFile(exportOutput, []byte(result.Markdown), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", exportOutput, err)
			}
			fmt.Println(result.Message + " to " + exportOutput)
		default:
			fmt.Print(result.Markdown)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to a file")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "copy to the clipboard")
	rootCmd.AddCommand(exportCmd)
}
