package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/quadcalc/internal/config"
	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integrand"
	"github.com/agbru/quadcalc/internal/quadrature"
)

const (
	headerRows   = 1
	footerRows   = 1
	minBodyRows  = 4
	logsShare    = 60 // percent of the width given to the trace
	metricsRows  = 7
	tickInterval = 500 * time.Millisecond
)

// run is one batch of integrations. Each restart bumps generation so that
// messages from a cancelled batch can be told apart.
type run struct {
	ctx        context.Context
	cancel     context.CancelFunc
	strategies []quadrature.Strategy
	generation uint64
	done       bool
	exitCode   int
}

// size splits the terminal between the trace on the left and the metrics
// and chart stacked on the right.
type size struct {
	width, height int
}

func (s size) bodyRows() int { return max(minBodyRows, s.height-headerRows-footerRows) }

func (s size) traceCols() int { return s.width * logsShare / 100 }

func (s size) panelCols() int { return s.width - s.traceCols() }

func (s size) metricsPanelRows() int { return min(metricsRows+1, s.bodyRows()/2) }

func (s size) chartRows() int { return s.bodyRows() - s.metricsPanelRows() }

// Model is the root bubbletea model.
type Model struct {
	header  HeaderModel
	logs    LogsModel
	metrics MetricsModel
	chart   ChartModel
	footer  FooterModel

	keymap KeyMap

	run
	size

	parentCtx context.Context
	config    config.AppConfig
	entry     integrand.Entry
	ref       *programRef
	paused    bool
}

// NewModel creates the dashboard for one configuration.
func NewModel(parentCtx context.Context, strategies []quadrature.Strategy, entry integrand.Entry, cfg config.AppConfig, version string) Model {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name()
	}

	ctx, cancel := context.WithCancel(parentCtx)

	logs := NewLogsModel(names)
	logs.AddExecutionConfig(cfg)

	problem := fmt.Sprintf("∫ %s dx on [%g, %g]", entry.Formula, cfg.A, cfg.B)
	settings := fmt.Sprintf("%d workers, tol %.0e", cfg.Workers, cfg.Tolerance)
	if cfg.N > 0 {
		settings = fmt.Sprintf("%d workers, n %d", cfg.Workers, cfg.N)
	}
	return Model{
		header:  NewHeaderModel(version, problem, settings),
		logs:    logs,
		metrics: NewMetricsModel(),
		chart:   NewChartModel(),
		footer:  NewFooterModel(DefaultKeyMap()),
		keymap:  DefaultKeyMap(),
		run: run{
			ctx:        ctx,
			cancel:     cancel,
			strategies: strategies,
			exitCode:   apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		config:    cfg,
		entry:     entry,
		ref:       &programRef{},
	}
}

// Init starts sampling, the batch and the context watcher.
func (m Model) Init() tea.Cmd { return m.launch() }

// launch starts a batch for the current generation.
func (m Model) launch() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startCalculationCmd(m.ctx, m.ref, m.strategies, m.entry, m.config, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// finish freezes the clocks and flags the run as over.
func (m *Model) finish(failed bool) {
	m.done = true
	m.header.SetDone()
	m.chart.SetDone(m.header.Elapsed())
	m.footer.SetDone(true)
	if failed {
		m.footer.SetError(true)
	}
}

// Update handles every incoming message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layoutPanels()

	case ProgressMsg:
		if m.paused {
			break
		}
		m.logs.AddProgressEntry(msg)
		m.chart.AddDataPoint(msg.Value, msg.AverageProgress, msg.ETA)
		m.metrics.UpdateProgress(msg.AverageProgress)
		m.metrics.UpdateStep(msg)

	case ComparisonResultsMsg:
		m.logs.AddResults(msg.Results)

	case FinalResultMsg:
		m.logs.AddFinalResult(msg)
		m.metrics.SetResult(msg)

	case ErrorMsg:
		m.logs.AddError(msg)
		m.finish(true)

	case TickMsg:
		switch {
		case m.done:
			return m, nil
		case m.paused:
			return m, tickCmd()
		}
		return m, tea.Batch(sampleCmd(), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)

	case SysStatsMsg:
		m.chart.UpdateSysStats(msg.CPUPercent, msg.MemPercent)

	case CalculationCompleteMsg:
		if msg.Generation == m.generation {
			m.exitCode = msg.ExitCode
			m.finish(m.footer.err)
		}

	case ContextCancelledMsg:
		if msg.Generation == m.generation {
			m.finish(false)
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keymap
	switch {
	case key.Matches(msg, km.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, km.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)

	case key.Matches(msg, km.Reset):
		return m.restart()

	case key.Matches(msg, km.Up, km.Down, km.PageUp, km.PageDown):
		m.logs.Update(msg)
	}
	return m, nil
}

// restart cancels the running batch and starts a new generation with
// fresh panels. Messages from the old generation are ignored.
func (m Model) restart() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	m.generation++
	m.ctx, m.cancel = context.WithCancel(m.parentCtx)

	m.header.Reset()
	m.logs.Reset()
	m.logs.AddExecutionConfig(m.config)
	m.chart.Reset()
	m.metrics = NewMetricsModel()
	m.metrics.SetSize(m.panelCols(), m.metricsPanelRows())
	m.footer = NewFooterModel(m.keymap)
	m.footer.SetWidth(m.width)
	m.done, m.paused = false, false
	m.exitCode = apperrors.ExitSuccess
	return m, m.launch()
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	rightCol := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	logs := m.logs.renderToHeight(lipgloss.Height(rightCol))
	body := lipgloss.JoinHorizontal(lipgloss.Top, logs, rightCol)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.logs.SetSize(m.traceCols(), m.bodyRows())
	m.metrics.SetSize(m.panelCols(), m.metricsPanelRows())
	m.chart.SetSize(m.panelCols(), m.chartRows())
}

// Run shows the dashboard until the user quits or ctx ends and returns
// the exit code of the last batch.
func Run(ctx context.Context, strategies []quadrature.Strategy, entry integrand.Entry, cfg config.AppConfig, version string) int {
	initTUIStyles()

	model := NewModel(ctx, strategies, entry, cfg, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}
