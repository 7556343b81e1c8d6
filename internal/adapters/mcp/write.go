package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"folio/internal/application"
	"folio/internal/application/commands"
)

// RegisterWriteTools adds all project editing tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, svc *application.Services) {
	s.AddTool(createProjectTool(), createProjectHandler(svc))
	s.AddTool(syncTool(), syncHandler(svc))
	s.AddTool(reorderTool(), reorderHandler(svc))
	s.AddTool(setInclusionTool(), setInclusionHandler(svc))
	s.AddTool(setCompletedTool(), setCompletedHandler(svc))
	s.AddTool(computeStatsTool(), computeStatsHandler(svc))
	s.AddTool(setTargetTool(), setTargetHandler(svc))
}

// --- create_project ---

func createProjectTool() mcp.Tool {
	return mcp.NewTool("create_project",
		mcp.WithDescription("Create a new project folder with its config and starter files."),
		mcp.WithString("name",
			mcp.Description("Folder name, also used as the initial title"),
			mcp.Required(),
		),
		mcp.WithString("type",
			mcp.Description("Project type: book, script, film or essay. Defaults to book."),
		),
		mcp.WithString("author",
			mcp.Description("Author name"),
		),
	)
}

func createProjectHandler(svc *application.Services) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewCreateProjectCommand(svc.Creator, req.GetString("name", ""), req.GetString("type", ""))
		if author := req.GetString("author", ""); author != "" {
			cmd.Authors = []string{author}
		}
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- sync ---

func syncTool() mcp.Tool {
	return mcp.NewTool("sync",
		mcp.WithDescription("Reconcile a project's stored tree with the files on disk."),
		projectArg(),
	)
}

func syncHandler(svc *application.Services) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := resolveProject(ctx, svc, req)
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewSyncTreeCommand(svc.Sync, project.Path).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- reorder ---

func reorderTool() mcp.Tool {
	return mcp.NewTool("reorder",
		mcp.WithDescription("Move a node before, after or inside another node. Moving into another folder moves the file on disk."),
		projectArg(),
		mcp.WithString("node",
			mcp.Description("Path or id of the node to move"),
			mcp.Required(),
		),
		mcp.WithString("target",
			mcp.Description("Path or id of the node to drop on"),
			mcp.Required(),
		),
		mcp.WithString("position",
			mcp.Description("before, after or inside. Defaults to after."),
		),
	)
}

func reorderHandler(svc *application.Services) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := resolveProject(ctx, svc, req)
		if err != nil {
			return toolError(err)
		}
		dragged, err := svc.Workspace.Node(ctx, project.Path, req.GetString("node", ""))
		if err != nil {
			return toolError(err)
		}
		target, err := svc.Workspace.Node(ctx, project.Path, req.GetString("target", ""))
		if err != nil {
			return toolError(err)
		}

		cmd := commands.NewReorderCommand(svc.Mutator, project.Path, dragged.ID, target.ID, req.GetString("position", "after"))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- set_inclusion ---

func setInclusionTool() mcp.Tool {
	return mcp.NewTool("set_inclusion",
		mcp.WithDescription("Override whether a file counts toward the statistics. Excluding a folder excludes everything below it."),
		projectArg(),
		mcp.WithString("path",
			mcp.Description("Project-relative path of the file or folder"),
			mcp.Required(),
		),
		mcp.WithString("mode",
			mcp.Description("include, exclude or clear"),
			mcp.Required(),
		),
	)
}

func setInclusionHandler(svc *application.Services) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var mode commands.InclusionMode
		switch m := req.GetString("mode", ""); m {
		case "include":
			mode = commands.InclusionInclude
		case "exclude":
			mode = commands.InclusionExclude
		case "clear":
			mode = commands.InclusionClear
		default:
			return toolError(fmt.Errorf("mode must be include, exclude or clear, got: %s", m))
		}

		project, err := resolveProject(ctx, svc, req)
		if err != nil {
			return toolError(err)
		}
		msg, err := commands.NewSetInclusionCommand(svc.Mutator, project.Path, req.GetString("path", ""), mode).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(msg), nil
	}
}

// --- set_completed ---

func setCompletedTool() mcp.Tool {
	return mcp.NewTool("set_completed",
		mcp.WithDescription("Mark a file as completed or back in progress."),
		projectArg(),
		mcp.WithString("path",
			mcp.Description("Project-relative path of the file"),
			mcp.Required(),
		),
		mcp.WithBoolean("completed",
			mcp.Description("true for completed, false for in progress. Defaults to true."),
		),
	)
}

func setCompletedHandler(svc *application.Services) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := resolveProject(ctx, svc, req)
		if err != nil {
			return toolError(err)
		}
		cmd := commands.NewSetCompletedCommand(svc.Mutator, project.Path, req.GetString("path", ""), req.GetBool("completed", true))
		msg, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(msg), nil
	}
}

// --- compute_stats ---

func computeStatsTool() mcp.Tool {
	return mcp.NewTool("compute_stats",
		mcp.WithDescription("Recount a project's words, update the daily ledger and return the statistics."),
		projectArg(),
	)
}

func computeStatsHandler(svc *application.Services) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := resolveProject(ctx, svc, req)
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewComputeStatsCommand(svc.Stats, project.Path).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(formatStats(result.Stats)), nil
	}
}

// --- set_target ---

func setTargetTool() mcp.Tool {
	return mcp.NewTool("set_target",
		mcp.WithDescription("Set a project's total word goal. 0 clears it."),
		projectArg(),
		mcp.WithNumber("words",
			mcp.Description("Target word count"),
			mcp.Required(),
		),
	)
}

func setTargetHandler(svc *application.Services) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project, err := resolveProject(ctx, svc, req)
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewSetTargetCommand(svc.Stats, project.Path, req.GetInt("words", 0)).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}
