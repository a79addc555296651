package pixelsort

import "time"

// rateTracker measures the delivery rate over a sliding window. It is owned
// by the sink and not safe for concurrent use.
type rateTracker struct {
	windowSize time.Duration
	times      []time.Time
}

func newRateTracker(windowSize time.Duration) *rateTracker {
	return &rateTracker{windowSize: windowSize}
}

func (rt *rateTracker) add(timestamp time.Time) {
	rt.times = append(rt.times, timestamp)

	// Remove old entries outside the window
	cutoff := timestamp.Add(-rt.windowSize)
	i := 0
	for ; i < len(rt.times); i++ {
		if rt.times[i].After(cutoff) {
			break
		}
	}
	rt.times = rt.times[i:]
}

// rate returns frames per second, 0 until two frames are in the window.
func (rt *rateTracker) rate() float64 {
	if len(rt.times) < 2 {
		return 0
	}
	duration := rt.times[len(rt.times)-1].Sub(rt.times[0]).Seconds()
	if duration <= 0 {
		return 0
	}
	return float64(len(rt.times)-1) / duration
}
