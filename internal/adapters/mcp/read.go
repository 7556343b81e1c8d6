package mcp

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"folio/internal/application"
	"folio/internal/application/commands"
	"folio/internal/domain"
)

// RegisterReadTools adds all read-only project tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, svc *application.Services) {
	s.AddTool(listProjectsTool(), listProjectsHandler(svc))
	s.AddTool(treeTool(), treeHandler(svc))
	s.AddTool(statsTool(), statsHandler(svc))
	s.AddTool(exportTool(), exportHandler(svc))
}

// --- list_projects ---

func listProjectsTool() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription("List the writing projects under the root with their type and folder."),
	)
}

func listProjectsHandler(svc *application.Services) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projects, err := commands.NewListProjectsCommand(svc.Workspace).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(projects) == 0 {
			return mcp.NewToolResultText("No projects."), nil
		}
		var sb strings.Builder
		for _, p := range projects {
			fmt.Fprintf(&sb, "%s  %s  %s\n", p.Path, p.Type, p.Name)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display a project's tree in editorial order with node ids, paths and flags."),
		projectArg(),
	)
}

func treeHandler(svc *application.Services) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := resolveProject(ctx, svc, req)
		if err != nil {
			return toolError(err)
		}
		tree, err := commands.NewShowTreeCommand(svc.Workspace, project.Path).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(tree) == 0 {
			return mcp.NewToolResultText("Empty tree. Run sync first."), nil
		}
		var sb strings.Builder
		renderTree(&sb, tree, "")
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderTree(sb *strings.Builder, nodes []*domain.Node, prefix string) {
	for _, n := range nodes {
		var flags []string
		if n.Completed {
			flags = append(flags, "completed")
		}
		if n.Include {
			flags = append(flags, "include")
		}
		if n.Exclude {
			flags = append(flags, "exclude")
		}
		fmt.Fprintf(sb, "%s%s  %s  %s", prefix, n.Type, n.Path, n.ID)
		if len(flags) > 0 {
			fmt.Fprintf(sb, "  [%s]", strings.Join(flags, ","))
		}
		sb.WriteByte('\n')
		renderTree(sb, n.Children, prefix+"  ")
	}
}

// --- stats ---

func statsTool() mcp.Tool {
	return mcp.NewTool("stats",
		mcp.WithDescription("Read the stored word count statistics of a project without recounting."),
		projectArg(),
	)
}

func statsHandler(svc *application.Services) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := resolveProject(ctx, svc, req)
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewShowStatsCommand(svc.Configs, project.Path).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(formatStats(result.Stats)), nil
	}
}

func formatStats(s *domain.Stats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "total_words: %d\n", s.TotalWords)
	fmt.Fprintf(&sb, "target_total_words: %d\n", s.TargetTotalWords)
	fmt.Fprintf(&sb, "progress_by_words: %.2f\n", s.ProgressByWords)
	fmt.Fprintf(&sb, "chapters_completed: %d/%d (%.2f%%)\n",
		s.ProgressByChapter.Completed, s.ProgressByChapter.Total, s.ProgressByChapter.Percent)
	fmt.Fprintf(&sb, "writing_days: %d\n", s.WritingDays)
	fmt.Fprintf(&sb, "average_daily_words: %d\n", s.AverageDailyWords)
	if s.LastWritingDate != "" {
		fmt.Fprintf(&sb, "last_writing_date: %s\n", s.LastWritingDate)
	}
	for _, p := range slices.Sorted(maps.Keys(s.PerChapter)) {
		fmt.Fprintf(&sb, "  %s: %d\n", p, s.PerChapter[p])
	}
	return sb.String()
}

// --- export ---

func exportTool() mcp.Tool {
	return mcp.NewTool("export",
		mcp.WithDescription("Assemble the project's included files into one markdown manuscript."),
		projectArg(),
	)
}

func exportHandler(svc *application.Services) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := resolveProject(ctx, svc, req)
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewAssembleCommand(svc.Assembler, project.Path).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Markdown), nil
	}
}

// --- helpers ---

func projectArg() mcp.ToolOption {
	return mcp.WithString("project",
		mcp.Description("Project folder or title"),
		mcp.Required(),
	)
}

func resolveProject(ctx context.Context, svc *application.Services, req mcp.CallToolRequest) (domain.Project, error) {
	name := req.GetString("project", "")
	if name == "" {
		return domain.Project{}, fmt.Errorf("project is required")
	}
	svc.Workspace.Refresh(ctx)
	return svc.Workspace.Resolve(name)
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
