package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/quadcalc/internal/format"
)

// MetricsModel shows the refinement state of the batch next to runtime
// memory statistics, and the final estimate once known.
type MetricsModel struct {
	mem MemStatsMsg

	steps     int
	lastN     int
	lastDelta float64
	firstStep time.Time
	lastStep  time.Time
	progress  float64

	result *FinalResultMsg
	width  int
	height int
}

// NewMetricsModel creates an empty metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{lastDelta: math.NaN()}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateMemStats replaces the memory sample.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) { m.mem = msg }

// UpdateProgress records the batch-average convergence progress.
func (m *MetricsModel) UpdateProgress(progress float64) {
	m.progress = min(1, max(0, progress))
}

// UpdateStep records one refinement step of any run.
func (m *MetricsModel) UpdateStep(msg ProgressMsg) {
	now := time.Now()
	if m.steps == 0 {
		m.firstStep = now
	}
	m.steps++
	m.lastStep = now
	m.lastN = msg.N
	m.lastDelta = msg.Delta
}

// SetResult stores the final estimate.
func (m *MetricsModel) SetResult(msg FinalResultMsg) { m.result = &msg }

// stepRate is the number of refinement steps per second, 0 until two
// steps were seen far enough apart to measure.
func (m MetricsModel) stepRate() float64 {
	span := m.lastStep.Sub(m.firstStep).Seconds()
	if m.steps < 2 || span <= 0 {
		return 0
	}
	return float64(m.steps-1) / span
}

// View renders the metrics panel as two columns.
func (m MetricsModel) View() string {
	colWidth := max(10, (m.width-6)/2)
	cell := func(label, value string) string { return formatMetricCol(label, value, colWidth) }

	rate := "-"
	if r := m.stepRate(); r > 0 {
		rate = fmt.Sprintf("%.0f/s", r)
	}
	delta := "-"
	if !math.IsNaN(m.lastDelta) {
		delta = fmt.Sprintf("%.3e", m.lastDelta)
	}

	rows := [][2]string{
		{cell("Steps:", fmt.Sprintf("%d (n = %s)", m.steps, format.FormatInt(m.lastN))), cell("Rate:", rate)},
		{cell("Delta:", delta), cell("Progress:", fmt.Sprintf("%.1f%%", m.progress*100))},
		{cell("Memory:", format.FormatBytes(m.mem.Alloc)), cell("Heap:", format.FormatBytes(m.mem.HeapInuse)+" / "+format.FormatBytes(m.mem.HeapSys))},
		{cell("GC Runs:", fmt.Sprintf("%d (%.1fms)", m.mem.NumGC, float64(m.mem.PauseTotalNs)/1e6)), cell("Goroutines:", fmt.Sprintf("%d", m.mem.NumGoroutine))},
	}
	if m.result != nil {
		r := m.result.Result
		absErr := "n/a"
		if m.result.Options.HasExact {
			absErr = fmt.Sprintf("%.3e", math.Abs(r.Estimate-m.result.Options.Exact))
		}
		rows = append(rows, [2]string{cell("Estimate:", fmt.Sprintf("%.12g", r.Estimate)), cell("Abs error:", absErr)})
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Metrics"))
	for _, row := range rows {
		b.WriteString("\n" + row[0] + row[1])
	}
	return panelStyle.Width(max(1, m.width-2)).Height(max(1, m.height-2)).Render(b.String())
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-11s", label)),
		metricValueStyle.Render(value))
	if visible := lipgloss.Width(cell); visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}
