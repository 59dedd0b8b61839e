package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"log/slog"

	"github.com/charmbracelet/lipgloss"

	"loom/internal/core/app"
	"loom/internal/core/config"
	lerrors "loom/internal/core/errors"
	"loom/internal/core/ports"
	"loom/internal/shared/observability"
)

// Exit codes: 0 success, 1 user-visible pipeline error, 2 internal
// invariant violation.
const (
	exitOK       = 0
	exitUser     = 1
	exitInternal = 2
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func Run(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		return exitInternal
	}

	if opts.version {
		fmt.Printf("loom v%s\n", versionString)
		return exitOK
	}

	cleanupLogs := configureLogging(opts.ui, opts.verbose)
	defer cleanupLogs()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return exitUser
	}
	if len(opts.args) > 0 {
		cfg.ScanPaths = []string{opts.args[0]}
	}
	if opts.history {
		cfg.History.Enabled = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, tracingEndpoint(cfg))
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = shutdownTracing(shutdownCtx)
		}()
	}

	service, err := app.NewService(cfg)
	if err != nil {
		slog.Error("failed to initialize pipeline", "error", err)
		return exitUser
	}
	defer func() { _ = service.Close() }()

	if opts.history {
		if service.History() == nil {
			fmt.Fprintln(os.Stderr, "history store is not configured")
			return exitUser
		}
		return printHistory(service.History(), opts.since)
	}

	summary := service.Run(ctx)
	printSummary(summary)
	if summary.Failed() {
		return classifyError(summary.Err)
	}

	if opts.once {
		return exitOK
	}

	if opts.ui {
		return runWatchUI(ctx, service, summary)
	}

	w, err := service.StartWatch(ctx, func(run app.RunSummary) {
		printSummary(run)
	})
	if err != nil {
		slog.Error("failed to start watcher", "error", err)
		return exitUser
	}
	defer func() { _ = w.Close() }()

	<-ctx.Done()
	return exitOK
}

// classifyError maps pipeline errors to exit codes: known taxonomy kinds
// and file-not-found or permission errors are user errors, anything else
// is an internal invariant violation.
func classifyError(err error) int {
	for _, kind := range []lerrors.Kind{
		lerrors.KindToken,
		lerrors.KindLexer,
		lerrors.KindParser,
		lerrors.KindInspector,
		lerrors.KindGenerator,
	} {
		if lerrors.IsKind(err, kind) {
			return exitUser
		}
	}
	if os.IsNotExist(err) || os.IsPermission(err) {
		return exitUser
	}
	return exitInternal
}

func printSummary(summary app.RunSummary) {
	if summary.Failed() {
		fmt.Fprintln(os.Stderr, errorStyle.Render("✗ ")+summary.Err.Error())
		return
	}
	fmt.Println(successStyle.Render("✓") + fmt.Sprintf(" %d units, %d wiring files", len(summary.Units), len(summary.Generated)))
}

func printHistory(store ports.HistoryStore, since string) int {
	var cutoff time.Time
	if since != "" {
		parsed, err := parseSince(since)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return exitUser
		}
		cutoff = parsed
	}

	runs, err := store.LoadRuns("", cutoff)
	if err != nil {
		slog.Error("failed to load history", "error", err)
		return exitUser
	}

	for _, run := range runs {
		line := fmt.Sprintf("%s  %-7s %s (%s)",
			run.Timestamp.Format(time.RFC3339), run.Status, run.UnitPath, run.Duration)
		if run.Status == "error" {
			fmt.Println(errorStyle.Render(line))
			if run.Error != "" {
				fmt.Println(dimStyle.Render("    " + run.Error))
			}
		} else {
			fmt.Println(line)
		}
	}
	return exitOK
}

func parseSince(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse --since value %q", value)
}

func tracingEndpoint(cfg *config.Config) string {
	if !cfg.Tracing.Enabled {
		return ""
	}
	return cfg.Tracing.Endpoint
}

// configureLogging routes slog output. In UI mode logs go to an XDG
// state file so stdout stays clean for the TUI.
func configureLogging(ui, verbose bool) func() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	output := os.Stderr
	cleanup := func() {}
	if ui {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err == nil {
			if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600); err == nil {
				output = f
				cleanup = func() { _ = f.Close() }
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cleanup
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "loom", "loom.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "loom", "loom.log")
	}

	return "loom.log"
}
