package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/quadcalc/internal/format"
)

// sparklineWidth is the room taken by the sparkline labels and borders.
const sparklineWidth = 17

// minSparklineHeight is the panel height below which sparklines are hidden.
const minSparklineHeight = 10

// ChartModel plots the convergence progress history, the overall
// progress bar and CPU and memory sparklines.
type ChartModel struct {
	history         *Series
	cpuHistory      *Series
	memHistory      *Series
	averageProgress float64
	eta             time.Duration
	elapsed         time.Duration
	done            bool
	width           int
	height          int
}

// NewChartModel creates an empty chart.
func NewChartModel() ChartModel {
	return ChartModel{
		history:    NewSeries(64),
		cpuHistory: NewSeries(32),
		memHistory: NewSeries(32),
	}
}

// SetSize updates dimensions and resizes the history buffers to the
// plottable width.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	spark := max(1, w-sparklineWidth)
	c.cpuHistory.SetLimit(spark)
	c.memHistory.SetLimit(spark)
	c.history.SetLimit(max(2, (w-4)*2))
}

// AddDataPoint records the progress of the latest step and the batch
// average.
func (c *ChartModel) AddDataPoint(value, average float64, eta time.Duration) {
	c.history.Add(value * 100)
	c.averageProgress = average
	c.eta = eta
}

// UpdateSysStats records a system sample.
func (c *ChartModel) UpdateSysStats(cpuPercent, memPercent float64) {
	c.cpuHistory.Add(cpuPercent)
	c.memHistory.Add(memPercent)
}

// SetDone freezes the chart with the total elapsed time.
func (c *ChartModel) SetDone(elapsed time.Duration) {
	c.done = true
	c.elapsed = elapsed
	c.eta = 0
}

// Reset clears every series.
func (c *ChartModel) Reset() {
	c.history.Clear()
	c.cpuHistory.Clear()
	c.memHistory.Clear()
	c.averageProgress = 0
	c.eta = 0
	c.elapsed = 0
	c.done = false
}

// renderProgressBar renders "bar pct% ETA: x", or "" when too narrow.
func (c ChartModel) renderProgressBar() string {
	barWidth := c.width - 24
	if barWidth < 4 {
		return ""
	}
	p := min(1, max(0, c.averageProgress))
	filled := int(p * float64(barWidth))
	bar := chartBarStyle.Render(strings.Repeat("█", filled)) +
		chartEmptyStyle.Render(strings.Repeat("░", barWidth-filled))

	tail := "ETA: " + format.FormatETA(c.eta)
	if c.done {
		tail = "in " + format.FormatExecutionDuration(c.elapsed)
	}
	return fmt.Sprintf(" %s %5.1f%% %s", bar, p*100, tail)
}

// View renders the chart panel.
func (c ChartModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Convergence"))

	showSparks := c.height >= minSparklineHeight
	reserved := 4 // title, progress bar, borders
	if showSparks {
		reserved += 2
	}
	rows := max(1, c.height-reserved)
	for _, line := range plotBraille(c.history.Values(), max(1, c.width-4), rows) {
		b.WriteString("\n ")
		b.WriteString(chartBarStyle.Render(line))
	}

	if bar := c.renderProgressBar(); bar != "" {
		b.WriteString("\n")
		b.WriteString(bar)
	}

	if showSparks {
		b.WriteString(fmt.Sprintf("\n %s %s %5.1f%%",
			metricLabelStyle.Render("CPU"), cpuSparklineStyle.Render(sparkline(c.cpuHistory.Values())), c.cpuHistory.Last()))
		b.WriteString(fmt.Sprintf("\n %s %s %5.1f%%",
			metricLabelStyle.Render("MEM"), memSparklineStyle.Render(sparkline(c.memHistory.Values())), c.memHistory.Last()))
	}

	return panelStyle.Width(max(1, c.width-2)).Height(max(1, c.height-2)).Render(b.String())
}
