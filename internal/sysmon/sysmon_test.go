package sysmon

import (
	"context"
	"testing"
)

func TestSample_ReturnsValidRanges(t *testing.T) {
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
}

func TestSample_MemoryReported(t *testing.T) {
	s := Sample()
	if s.MemPercent == 0 || s.MemTotal == 0 {
		t.Error("expected memory usage on a running system")
	}
	if s.MemUsed > s.MemTotal {
		t.Errorf("MemUsed %d exceeds MemTotal %d", s.MemUsed, s.MemTotal)
	}
}

func TestSampleContext_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := SampleContext(ctx)
	if s.CPUPercent < 0 || s.MemPercent < 0 {
		t.Errorf("unexpected negative values: %+v", s)
	}
}

func TestClampPercent(t *testing.T) {
	for in, want := range map[float64]float64{-5: 0, 0: 0, 42.5: 42.5, 100: 100, 130: 100} {
		if got := clampPercent(in); got != want {
			t.Errorf("clampPercent(%v) = %v, want %v", in, got, want)
		}
	}
}
