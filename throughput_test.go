package pixelsort

import (
	"math"
	"testing"
	"time"
)

func TestRateTracker(t *testing.T) {
	rt := newRateTracker(time.Second)
	start := time.Now()
	if got := rt.rate(); got != 0 {
		t.Fatalf("rate() = %v on an empty tracker, want 0", got)
	}

	for i := 0; i < 11; i++ {
		rt.add(start.Add(time.Duration(i) * 50 * time.Millisecond))
	}
	if got, want := rt.rate(), 20.0; math.Abs(got-want) > 0.01 {
		t.Fatalf("rate() = %v, want %v", got, want)
	}

	// Everything but the last two frames falls out of the window.
	rt.add(start.Add(1600 * time.Millisecond))
	rt.add(start.Add(1700 * time.Millisecond))
	if got, want := len(rt.times), 2; got != want {
		t.Fatalf("window holds %d frames, want %d", got, want)
	}
	if got, want := rt.rate(), 10.0; math.Abs(got-want) > 0.01 {
		t.Fatalf("rate() = %v, want %v", got, want)
	}
}
