package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"folio/internal/application/commands"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the projects under the root",
	Long: `List every project folder under the root with its type.

Example:
  folio-cli projects`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		listCmd := commands.NewListProjectsCommand(GetServices().Workspace)
		projects, err := listCmd.Execute(ctx)
		if err != nil {
			return err
		}

		for _, p := range projects {
			if p.Name != p.Path {
				fmt.Printf("%-12s %s (%s)\n", p.Type, p.Name, p.Path)
				continue
			}
			fmt.Printf("%-12s %s\n", p.Type, p.Name)
		}
		return nil
	},
}

var (
	createType        string
	createAuthors     []string
	createSubtitle    string
	createDescription string
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new project",
	Long: `Create a new project folder with its config and starter files.

The type decides the starter layout: book, script, film or essay.

Examples:
  folio-cli create "The Long Winter"
  folio-cli create "Harbour Lights" --type essay --author "A. Writer"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		createCmd := commands.NewCreateProjectCommand(GetServices().Creator, args[0], createType)
		createCmd.Authors = createAuthors
		createCmd.Subtitle = createSubtitle
		createCmd.Description = createDescription

		result, err := createCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createType, "type", "t", "book", "project type")
	createCmd.Flags().StringSliceVarP(&createAuthors, "author", "a", nil, "author name (repeatable)")
	createCmd.Flags().StringVar(&createSubtitle, "subtitle", "", "subtitle")
	createCmd.Flags().StringVar(&createDescription, "description", "", "short description")

	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(createCmd)
}
