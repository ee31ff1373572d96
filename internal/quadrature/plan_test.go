package quadrature

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/agbru/quadcalc/internal/errors"
)

func TestPlanLastAbsorbs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		n       int
		workers int
		want    Partition
	}{
		{"even split", 9, 4, Partition{{1, 2}, {3, 4}, {5, 6}, {7, 8}}},
		{"remainder to last", 11, 4, Partition{{1, 2}, {3, 4}, {5, 6}, {7, 10}}},
		{"single worker", 5, 1, Partition{{1, 4}}},
		{"degenerate n=2", 2, 4, Partition{{1, 0}, {1, 0}, {1, 0}, {1, 1}}},
		{"no interior", 1, 3, Partition{{1, 0}, {1, 0}, {1, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Plan(tt.n, tt.workers, PolicyLastAbsorbs)
			if err != nil {
				t.Fatalf("Plan(%d, %d) error: %v", tt.n, tt.workers, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d ranges, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("range %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
			if err := got.Check(tt.n); err != nil {
				t.Errorf("coverage check failed: %v", err)
			}
		})
	}
}

func TestPlanBalanced(t *testing.T) {
	t.Parallel()
	got, err := Plan(11, 4, PolicyBalanced)
	if err != nil {
		t.Fatal(err)
	}
	want := Partition{{1, 3}, {4, 6}, {7, 8}, {9, 10}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("range %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPlanRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		n       int
		workers int
		policy  Policy
	}{
		{"zero workers", 10, 0, PolicyLastAbsorbs},
		{"negative workers", 10, -2, PolicyBalanced},
		{"zero samples", 0, 2, PolicyLastAbsorbs},
		{"unknown policy", 10, 2, Policy(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Plan(tt.n, tt.workers, tt.policy)
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected ConfigError, got %v", err)
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]Policy{"": PolicyLastAbsorbs, "last": PolicyLastAbsorbs, "Balanced": PolicyBalanced} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParsePolicy(%q) = %v, %v; want %v", in, got, err, want)
		}
		if got.String() != want.String() {
			t.Errorf("String mismatch for %q", in)
		}
	}
	if _, err := ParsePolicy("random"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

// TestPlanCoverage_PropertyBased checks that every plan covers exactly the
// interior indices {1, ..., n-1}, in order, without overlap.
func TestPlanCoverage_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	for _, policy := range []Policy{PolicyLastAbsorbs, PolicyBalanced} {
		properties.Property(policy.String()+" covers the interior exactly once", prop.ForAll(
			func(n, workers int) bool {
				part, err := Plan(n, workers, policy)
				if err != nil {
					return false
				}
				return len(part) == workers && part.Covered() == n-1 && part.Check(n) == nil
			},
			gen.IntRange(1, 100_000),
			gen.IntRange(1, 64),
		))
	}

	properties.TestingRun(t)
}

func FuzzPlan(f *testing.F) {
	f.Add(1, 1, 0)
	f.Add(2, 4, 0)
	f.Add(1001, 7, 1)
	f.Add(58001, 16, 0)
	f.Fuzz(func(t *testing.T, n, workers, policy int) {
		if n < 1 || n > 1_000_000 || workers < 1 || workers > 1024 {
			return
		}
		p := Policy(policy & 1)
		part, err := Plan(n, workers, p)
		if err != nil {
			t.Fatalf("Plan(%d, %d, %v) error: %v", n, workers, p, err)
		}
		if err := part.Check(n); err != nil {
			t.Fatalf("Plan(%d, %d, %v): %v", n, workers, p, err)
		}
	})
}
