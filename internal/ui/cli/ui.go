package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"loom/internal/core/app"
)

type runMsg struct {
	summary app.RunSummary
}

const unitDurationPrecision = 100 * time.Microsecond

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okBadge     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("●")
	errBadge    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("●")
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

type model struct {
	ctx     context.Context
	service *app.Service

	summary  app.RunSummary
	runCount int
	running  bool

	diagnostics viewport.Model
	width       int
	height      int
	ready       bool
}

func newModel(ctx context.Context, service *app.Service, initial app.RunSummary) model {
	return model{
		ctx:      ctx,
		service:  service,
		summary:  initial,
		runCount: 1,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) runCmd() tea.Cmd {
	service, ctx := m.service, m.ctx
	return func() tea.Msg {
		return runMsg{summary: service.Run(ctx)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			if !m.running {
				m.running = true
				return m, m.runCmd()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.diagnostics, cmd = m.diagnostics.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		viewportHeight := msg.Height - 8
		if viewportHeight < 3 {
			viewportHeight = 3
		}
		if !m.ready {
			m.diagnostics = viewport.New(msg.Width-4, viewportHeight)
			m.ready = true
		} else {
			m.diagnostics.Width = msg.Width - 4
			m.diagnostics.Height = viewportHeight
		}
		m.diagnostics.SetContent(m.diagnosticsContent())
		return m, nil

	case runMsg:
		m.summary = msg.summary
		m.runCount++
		m.running = false
		if m.ready {
			m.diagnostics.SetContent(m.diagnosticsContent())
			m.diagnostics.GotoTop()
		}
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	if !m.ready {
		return "initializing..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("loom watch"))
	b.WriteString(statusStyle.Render(fmt.Sprintf("  run #%d", m.runCount)))
	if m.running {
		b.WriteString(statusStyle.Render("  regenerating..."))
	}
	b.WriteString("\n\n")

	if m.summary.Failed() {
		b.WriteString(errBadge + " generation failed\n")
	} else {
		b.WriteString(okBadge + fmt.Sprintf(" %d units, %d wiring files\n",
			len(m.summary.Units), len(m.summary.Generated)))
	}

	b.WriteString(borderStyle.Render(m.diagnostics.View()))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("q quit · r regenerate · ↑/↓ scroll"))
	return b.String()
}

// diagnosticsContent lists per-unit outcomes, with the failing unit's
// error rendered in full.
func (m model) diagnosticsContent() string {
	if len(m.summary.Units) == 0 {
		return "no source files found"
	}

	var b strings.Builder
	for _, unit := range m.summary.Units {
		badge := okBadge
		if unit.Err != nil {
			badge = errBadge
		}
		b.WriteString(fmt.Sprintf("%s %s (%s)\n", badge, filepath.Base(unit.Path), unit.Duration.Round(unitDurationPrecision)))
		if unit.Err != nil {
			b.WriteString("   " + unit.Err.Error() + "\n")
		}
	}
	if m.summary.Err != nil {
		b.WriteString("\n" + m.summary.Err.Error() + "\n")
	}
	return b.String()
}
