package cli

import (
	"context"

	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"loom/internal/core/app"
)

// runWatchUI hosts the watch-mode TUI. The watcher pushes run summaries
// into the program; manual reruns come back as commands from the model.
func runWatchUI(ctx context.Context, service *app.Service, initial app.RunSummary) int {
	m := newModel(ctx, service, initial)
	p := tea.NewProgram(m, tea.WithAltScreen())

	w, err := service.StartWatch(ctx, func(summary app.RunSummary) {
		p.Send(runMsg{summary: summary})
	})
	if err != nil {
		slog.Error("failed to start watcher", "error", err)
		return exitUser
	}
	defer func() { _ = w.Close() }()

	go func() {
		<-ctx.Done()
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		slog.Error("failed to run UI", "error", err)
		return exitInternal
	}
	return exitOK
}
