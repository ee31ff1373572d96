package format

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// maxETA caps estimates produced from very slow progress rates.
const maxETA = 24 * time.Hour

// ProgressState tracks one progress fraction per concurrent run and
// averages them into a single bar.
type ProgressState struct {
	progresses     []float64
	numCalculators int
}

// NewProgressState creates a state for numCalculators runs.
func NewProgressState(numCalculators int) *ProgressState {
	if numCalculators < 0 {
		numCalculators = 0
	}
	return &ProgressState{
		progresses:     make([]float64, numCalculators),
		numCalculators: numCalculators,
	}
}

// Update records the progress of run index, clamped to [0, 1].
// Out-of-range indices are ignored.
func (ps *ProgressState) Update(index int, value float64) {
	if index < 0 || index >= len(ps.progresses) {
		return
	}
	ps.progresses[index] = clamp01(value)
}

// CalculateAverage returns the mean progress across all runs.
func (ps *ProgressState) CalculateAverage() float64 {
	if ps.numCalculators == 0 {
		return 0
	}
	var total float64
	for _, p := range ps.progresses {
		total += p
	}
	return total / float64(ps.numCalculators)
}

// ProgressWithETA extends ProgressState with a smoothed progress rate used
// to estimate the remaining time.
type ProgressWithETA struct {
	*ProgressState
	numCalculators int
	startTime      time.Time
	lastUpdate     time.Time
	lastProgress   float64
	progressRate   float64 // fraction per second, exponentially smoothed
}

// NewProgressWithETA creates a tracker for numCalculators runs.
func NewProgressWithETA(numCalculators int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState:  NewProgressState(numCalculators),
		numCalculators: numCalculators,
		startTime:      now,
		lastUpdate:     now,
	}
}

// UpdateWithETA records a progress value and returns the new average and
// the estimated remaining time.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	avg := p.CalculateAverage()

	now := time.Now()
	if dt := now.Sub(p.lastUpdate).Seconds(); dt > 0 && avg > p.lastProgress {
		rate := (avg - p.lastProgress) / dt
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = 0.3*rate + 0.7*p.progressRate
		}
		p.lastUpdate = now
		p.lastProgress = avg
	}
	return avg, p.GetETA()
}

// GetETA returns the remaining time at the current smoothed rate, or zero
// when no rate is known yet.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	secs := remaining / p.progressRate
	if secs > maxETA.Seconds() {
		return maxETA
	}
	return time.Duration(secs * float64(time.Second))
}

// ProgressBar renders progress as a bar of length cells.
func ProgressBar(progress float64, length int) string {
	count := int(clamp01(progress) * float64(length))
	var b strings.Builder
	b.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}

// FormatProgressBarWithETA renders "[bar] 42.0% ETA: 3s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clamp01(progress)*100, FormatETA(eta))
}

// ConvergenceProgress maps the distance to the tolerance onto [0, 1] on a
// logarithmic scale: the first observed delta counts as 0 and tolerance as
// 1. NaN or non-positive deltas report no progress.
func ConvergenceProgress(firstDelta, delta, tolerance float64) float64 {
	if math.IsNaN(delta) || math.IsNaN(firstDelta) || delta <= 0 || firstDelta <= 0 || tolerance <= 0 {
		return 0
	}
	if delta <= tolerance {
		return 1
	}
	if firstDelta <= tolerance {
		return 0
	}
	return clamp01(math.Log(firstDelta/delta) / math.Log(firstDelta/tolerance))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
