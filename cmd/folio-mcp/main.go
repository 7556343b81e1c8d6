package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"folio/internal/app"
	mcpadapter "folio/internal/adapters/mcp"
	"folio/internal/config"
)

func main() {
	_ = godotenv.Load()

	settings, err := config.Load()
	if err != nil {
		log.Fatalf("folio-mcp: %v", err)
	}
	rootFlag := flag.String("root", settings.Root, "folder holding the projects")
	flag.Parse()
	settings.Root = *rootFlag

	// stdout carries the protocol
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	a, err := app.Open(settings, logger)
	if err != nil {
		log.Fatalf("folio-mcp: %v", err)
	}
	defer a.Close()

	mcpServer := server.NewMCPServer(
		"folio-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, a.Services)
	mcpadapter.RegisterWriteTools(mcpServer, a.Services)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("folio-mcp: %v", err)
	}
}
