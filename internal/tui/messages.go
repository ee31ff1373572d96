package tui

import (
	"time"

	"github.com/agbru/quadcalc/internal/orchestration"
)

// ProgressMsg carries one refinement step of one run.
type ProgressMsg struct {
	RunIndex        int
	Strategy        string
	N               int
	Estimate        float64
	Delta           float64
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// ProgressDoneMsg is sent once the progress channel is closed.
type ProgressDoneMsg struct{}

// ComparisonResultsMsg carries the per-strategy results of a batch.
type ComparisonResultsMsg struct {
	Results []orchestration.RunResult
}

// FinalResultMsg carries the selected result.
type FinalResultMsg struct {
	Result  orchestration.RunResult
	Options orchestration.PresentationOptions
}

// ErrorMsg reports a failed batch.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg is a runtime.MemStats sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapInuse    uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg is a system-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// CalculationCompleteMsg is sent when a batch has been analyzed.
type CalculationCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg is sent when the batch context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
