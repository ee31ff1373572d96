package calibration

import (
	"runtime"
	"slices"
)

// GenerateWorkerCandidates returns the worker counts to benchmark: powers
// of two up to twice the CPU count, plus the CPU count itself.
//
// The rationale:
//   - 1 is the sequential baseline.
//   - NumCPU is the usual optimum for CPU-bound integrands.
//   - Oversubscription up to 2x shows whether scheduling hides stalls.
func GenerateWorkerCandidates() []int {
	return workerCandidates(runtime.NumCPU(), 2)
}

// GenerateQuickWorkerCandidates returns a reduced set for a fast check:
// 1, NumCPU/2 and NumCPU.
func GenerateQuickWorkerCandidates() []int {
	numCPU := runtime.NumCPU()
	return dedupSorted([]int{1, max(1, numCPU/2), numCPU})
}

func workerCandidates(numCPU, oversubscribe int) []int {
	limit := max(1, numCPU*oversubscribe)
	candidates := []int{numCPU}
	for w := 1; w <= limit; w *= 2 {
		candidates = append(candidates, w)
	}
	return dedupSorted(candidates)
}

func dedupSorted(v []int) []int {
	slices.Sort(v)
	return slices.Compact(v)
}
