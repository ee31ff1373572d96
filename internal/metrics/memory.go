package metrics

import "runtime"

// MemorySnapshot is a point-in-time reading of the Go runtime allocator.
type MemorySnapshot struct {
	HeapAlloc    uint64 // live heap bytes
	TotalAlloc   uint64 // cumulative bytes allocated
	Sys          uint64 // bytes obtained from the OS
	NumGC        uint32 // completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause
	Goroutines   int
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		Goroutines:   runtime.NumGoroutine(),
	}
}

// Since returns the allocation, GC and pause counts accumulated between
// before and s. HeapAlloc, Sys and Goroutines are taken from s.
func (s MemorySnapshot) Since(before MemorySnapshot) MemorySnapshot {
	return MemorySnapshot{
		HeapAlloc:    s.HeapAlloc,
		TotalAlloc:   s.TotalAlloc - before.TotalAlloc,
		Sys:          s.Sys,
		NumGC:        s.NumGC - before.NumGC,
		PauseTotalNs: s.PauseTotalNs - before.PauseTotalNs,
		Goroutines:   s.Goroutines,
	}
}
