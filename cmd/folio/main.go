package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"folio/internal/adapters/editor"
	"folio/internal/adapters/tui"
	"folio/internal/adapters/tui/views"
	"folio/internal/app"
	"folio/internal/config"
	"folio/internal/ports"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	settings, err := config.Load()
	if err != nil {
		return err
	}

	// The alt screen owns the terminal; logs go to FOLIO_LOG when set
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if logPath := os.Getenv("FOLIO_LOG"); logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	a, err := app.Open(settings, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	model := tui.NewApp(a.Services, editor.NewOpener(), a.Storage.Root())
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	watchDone := make(chan error, 1)
	go func() {
		watchDone <- a.Watch(ctx, func(projectPath string, _ ports.ChangeKind, err error) {
			p.Send(views.ProjectChangedMsg{ProjectPath: projectPath, Err: err})
		})
	}()

	_, runErr := p.Run()
	cancel()
	if err := <-watchDone; err != nil {
		logger.Warn("file watching stopped", slog.Any("error", err))
	}
	return runErr
}
