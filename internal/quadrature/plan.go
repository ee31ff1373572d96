package quadrature

import (
	"fmt"
	"strings"

	apperrors "github.com/agbru/quadcalc/internal/errors"
)

// Range is an inclusive block [Start, End] of interior sample indices.
// A range with Start > End is empty.
type Range struct {
	Start, End int
}

// Empty reports whether r holds no index.
func (r Range) Empty() bool { return r.Start > r.End }

// Len returns the number of indices in r.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Policy decides where the remainder of (n-1)/workers goes.
type Policy int

const (
	// PolicyLastAbsorbs gives every worker floor((n-1)/workers) indices and
	// extends the last one to n-1.
	PolicyLastAbsorbs Policy = iota
	// PolicyBalanced hands one extra index to each of the first
	// (n-1) mod workers workers.
	PolicyBalanced
)

// String returns the flag spelling of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyLastAbsorbs:
		return "last"
	case PolicyBalanced:
		return "balanced"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy accepts "last" and "balanced".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "last":
		return PolicyLastAbsorbs, nil
	case "balanced":
		return PolicyBalanced, nil
	default:
		return 0, apperrors.NewConfigError("unknown partition policy %q (want last or balanced)", s)
	}
}

// Partition is the ordered list of ranges, one per worker.
type Partition []Range

// Covered returns the total number of indices across all ranges.
func (p Partition) Covered() int {
	total := 0
	for _, r := range p {
		total += r.Len()
	}
	return total
}

// Check verifies that p covers exactly {1, ..., n-1} in order without
// overlap.
func (p Partition) Check(n int) error {
	next := 1
	for i, r := range p {
		if r.Empty() {
			continue
		}
		if r.Start != next {
			return fmt.Errorf("range %d starts at %d, expected %d", i, r.Start, next)
		}
		next = r.End + 1
	}
	if next != n {
		return fmt.Errorf("partition ends at %d, expected %d", next-1, n-1)
	}
	return nil
}

// Plan splits the interior indices of an n sub-interval grid across
// workers. When n-1 < workers some ranges are empty; they stay in the
// partition so that worker indices are stable.
func Plan(n, workers int, policy Policy) (Partition, error) {
	if workers < 1 {
		return nil, apperrors.NewConfigError("worker count must be at least 1, got %d", workers)
	}
	if n < 1 {
		return nil, apperrors.NewConfigError("sample count must be at least 1, got %d", n)
	}
	interior := n - 1
	part := make(Partition, workers)
	switch policy {
	case PolicyBalanced:
		q, rem := interior/workers, interior%workers
		start := 1
		for t := range part {
			size := q
			if t < rem {
				size++
			}
			part[t] = Range{Start: start, End: start + size - 1}
			start += size
		}
	case PolicyLastAbsorbs:
		blockSize := interior / workers
		for t := range part {
			r := Range{Start: t*blockSize + 1, End: (t + 1) * blockSize}
			if t == workers-1 {
				r.End = interior
			}
			if r.Empty() {
				r.End = r.Start - 1
			}
			part[t] = r
		}
	default:
		return nil, apperrors.NewConfigError("unknown partition policy %d", int(policy))
	}
	return part, nil
}
