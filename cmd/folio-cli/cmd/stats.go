package cmd

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"folio/internal/application/commands"
	"folio/internal/domain"
)

var (
	recompute bool
	showDaily bool
)

var statsCmd = &cobra.Command{
	Use:   "stats <project>",
	Short: "Show a project's word count statistics",
	Long: `Show the stored statistics of a project, or recompute them first.

Examples:
  folio-cli stats "The Long Winter"
  folio-cli stats "The Long Winter" --compute --daily`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		project, err := resolveProject(ctx, args[0])
		if err != nil {
			return err
		}

		svc := GetServices()
		var result *commands.StatsResult
		if recompute {
			result, err = commands.NewComputeStatsCommand(svc.Stats, project.Path).Execute(ctx)
		} else {
			result, err = commands.NewShowStatsCommand(svc.Configs, project.Path).Execute(ctx)
		}
		if err != nil {
			return err
		}

		printStats(project.Name, result.Stats)
		return nil
	},
}

func printStats(name string, s *domain.Stats) {
	fmt.Println(name)
	fmt.Printf("  words      %d", s.TotalWords)
	if s.TargetTotalWords > 0 {
		fmt.Printf(" / %d (%.2f%%)", s.TargetTotalWords, s.ProgressByWords)
	}
	fmt.Println()
	fmt.Printf("  chapters   %d / %d completed (%.2f%%)\n",
		s.ProgressByChapter.Completed, s.ProgressByChapter.Total, s.ProgressByChapter.Percent)
	fmt.Printf("  days       %d, %d words a day on average\n", s.WritingDays, s.AverageDailyWords)
	if s.LastWritingDate != "" {
		fmt.Printf("  last       %s\n", s.LastWritingDate)
	}

	if !showDaily {
		return
	}
	for _, day := range slices.Sorted(maps.Keys(s.DailyWords)) {
		fmt.Printf("  %s %6d\n", day, s.DailyWords[day])
	}
}

var targetCmd = &cobra.Command{
	Use:   "target <project> <words>",
	Short: "Set the word goal of a project",
	Long: `Set the total word goal; 0 clears it.

Example:
  folio-cli target "The Long Winter" 80000`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		words, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid word count %q: %w", args[1], err)
		}
		ctx := context.Background()
		project, err := resolveProject(ctx, args[0])
		if err != nil {
			return err
		}

		targetCmd := commands.NewSetTargetCommand(GetServices().Stats, project.Path, words)
		result, err := targetCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var baselineCmd = &cobra.Command{
	Use:   "baseline <project>",
	Short: "Rebuild the per-chapter word count baseline",
	Long: `Recount every countable file and replace the per-chapter baseline.
Run it after renaming or moving files outside folio.

Example:
  folio-cli baseline "The Long Winter"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		project, err := resolveProject(ctx, args[0])
		if err != nil {
			return err
		}

		baselineCmd := commands.NewSyncBaselineCommand(GetServices().Mutator, project.Path)
		msg, err := baselineCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVarP(&recompute, "compute", "c", false, "recount before printing")
	statsCmd.Flags().BoolVarP(&showDaily, "daily", "d", false, "print the daily ledger")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(targetCmd)
	rootCmd.AddCommand(baselineCmd)
}
