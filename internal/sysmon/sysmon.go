// Package sysmon samples system-wide CPU and memory usage for the
// dashboard sparklines.
package sysmon

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// DefaultTimeout bounds a single sample.
const DefaultTimeout = 200 * time.Millisecond

// Stats holds one snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	MemTotal   uint64
	MemUsed    uint64
}

// Sample collects a snapshot bounded by DefaultTimeout.
func Sample() Stats {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()
	return SampleContext(ctx)
}

// SampleContext collects a snapshot. CPU usage is the delta since the
// previous call (interval 0). Fields that cannot be read are left zero.
func SampleContext(ctx context.Context) Stats {
	var s Stats
	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = clampPercent(pcts[0])
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil && vm != nil {
		s.MemPercent = clampPercent(vm.UsedPercent)
		s.MemTotal = vm.Total
		s.MemUsed = vm.Used
	}
	return s
}

func clampPercent(p float64) float64 {
	return min(100, max(0, p))
}
