package md2site

// Notes:
// - ResolveWorkers: clamp to [1, MaxWorkers], auto-size on zero/negative

import (
	"runtime"
	"testing"
)

// -----------------------------------------------------------------------------
// TestResolveWorkers - Clamping behavior
// -----------------------------------------------------------------------------

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{name: "explicit", requested: 4, want: 4},
		{name: "minimum", requested: 1, want: 1},
		{name: "above cap", requested: 1000, want: MaxWorkers},
		{name: "at cap", requested: MaxWorkers, want: MaxWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolveWorkers(tt.requested); got != tt.want {
				t.Errorf("ResolveWorkers(%d) = %d, want %d", tt.requested, got, tt.want)
			}
		})
	}
}

func TestResolveWorkersAuto(t *testing.T) {
	t.Parallel()

	want := runtime.NumCPU()
	if want > MaxWorkers {
		want = MaxWorkers
	}
	for _, requested := range []int{0, -1} {
		if got := ResolveWorkers(requested); got != want {
			t.Errorf("ResolveWorkers(%d) = %d, want %d", requested, got, want)
		}
	}
}
