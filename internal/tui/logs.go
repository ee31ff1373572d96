package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/quadcalc/internal/config"
	"github.com/agbru/quadcalc/internal/format"
	"github.com/agbru/quadcalc/internal/orchestration"
)

// maxLogEntries caps the trace so long refinements do not grow unbounded.
const maxLogEntries = 2000

// LogsModel is the scrollable refinement trace.
type LogsModel struct {
	entries    []string
	strategies []string
	offset     int // lines scrolled up from the bottom
	keymap     KeyMap
	width      int
	height     int
}

// NewLogsModel creates the trace panel for the given strategies.
func NewLogsModel(strategies []string) LogsModel {
	return LogsModel{strategies: strategies, keymap: DefaultKeyMap()}
}

// SetSize updates dimensions.
func (l *LogsModel) SetSize(w, h int) {
	l.width = w
	l.height = h
}

// Reset clears the trace.
func (l *LogsModel) Reset() {
	l.entries = nil
	l.offset = 0
}

func (l *LogsModel) add(line string) {
	stamp := logTimeStyle.Render(time.Now().Format("15:04:05"))
	l.entries = append(l.entries, stamp+" "+line)
	if over := len(l.entries) - maxLogEntries; over > 0 {
		l.entries = l.entries[over:]
	}
}

// AddExecutionConfig logs the run settings.
func (l *LogsModel) AddExecutionConfig(cfg config.AppConfig) {
	l.add(fmt.Sprintf("Integrating %s over [%g, %g]", cfg.Function, cfg.A, cfg.B))
	l.add(fmt.Sprintf("Workers: %d, partition: %s, strategies: %s",
		cfg.Workers, cfg.Partition, strings.Join(l.strategies, ", ")))
	if cfg.N > 0 {
		l.add(fmt.Sprintf("Single integration at n = %s", format.FormatInt(cfg.N)))
	} else {
		l.add(fmt.Sprintf("Refining from n = %d by %d until |delta| < %g", cfg.InitialN, cfg.Increment, cfg.Tolerance))
	}
}

// AddProgressEntry logs one refinement step.
func (l *LogsModel) AddProgressEntry(msg ProgressMsg) {
	delta := ""
	if !math.IsNaN(msg.Delta) {
		delta = fmt.Sprintf("  Δ = %.3e", msg.Delta)
	}
	l.add(fmt.Sprintf("%s %s",
		logStrategyStyle.Render(fmt.Sprintf("[%-10s]", msg.Strategy)),
		logTraceStyle.Render(fmt.Sprintf("n = %-7d %.12f%s", msg.N, msg.Estimate, delta))))
}

// AddResults logs the per-strategy outcome of a batch.
func (l *LogsModel) AddResults(results []orchestration.RunResult) {
	for _, r := range results {
		if r.Err != nil {
			l.add(logErrorStyle.Render(fmt.Sprintf("%s failed after %s: %v", r.Strategy, format.FormatExecutionDuration(r.Duration), r.Err)))
			continue
		}
		l.add(logSuccessStyle.Render(fmt.Sprintf("%s: %.12f (n = %d, %d steps, %s)",
			r.Strategy, r.Estimate, r.N, r.Iterations, format.FormatExecutionDuration(r.Duration))))
	}
}

// AddFinalResult logs the selected estimate and its error.
func (l *LogsModel) AddFinalResult(msg FinalResultMsg) {
	r := msg.Result
	l.add(logSuccessStyle.Render(fmt.Sprintf("Estimate: %.15g", r.Estimate)))
	if msg.Options.HasExact {
		l.add(logSuccessStyle.Render(fmt.Sprintf("Exact:    %.15g  (abs error %.3e)",
			msg.Options.Exact, math.Abs(r.Estimate-msg.Options.Exact))))
	}
}

// AddError logs a failure.
func (l *LogsModel) AddError(msg ErrorMsg) {
	l.add(logErrorStyle.Render(fmt.Sprintf("Error after %s: %v", format.FormatExecutionDuration(msg.Duration), msg.Err)))
}

// Update scrolls on navigation keys.
func (l *LogsModel) Update(msg tea.KeyMsg) {
	page := max(1, l.visibleLines())
	switch {
	case key.Matches(msg, l.keymap.Up):
		l.offset++
	case key.Matches(msg, l.keymap.Down):
		l.offset--
	case key.Matches(msg, l.keymap.PageUp):
		l.offset += page
	case key.Matches(msg, l.keymap.PageDown):
		l.offset -= page
	}
	l.offset = max(0, min(l.offset, len(l.entries)-page))
}

func (l LogsModel) visibleLines() int { return l.height - 3 }

// View renders the panel at its configured height.
func (l LogsModel) View() string { return l.renderToHeight(l.height) }

// renderToHeight renders the panel so that it is exactly h lines tall.
func (l LogsModel) renderToHeight(h int) string {
	inner := max(1, h-3)
	end := max(0, len(l.entries)-l.offset)
	start := max(0, end-inner)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Refinement trace"))
	for _, e := range l.entries[start:end] {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().MaxWidth(max(1, l.width-4)).Render(e))
	}
	return panelStyle.Width(max(1, l.width-2)).Height(max(1, h-2)).Render(b.String())
}
