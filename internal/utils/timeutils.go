package utils

import "time"

// WithinWindow reports whether ts falls in the trailing window ending at now (inclusive).
func WithinWindow(ts, now time.Time, window time.Duration) bool {
	if window <= 0 {
		return false
	}
	return !ts.Before(now.Add(-window)) && !ts.After(now)
}

// ClampDuration bounds d to [min, max].
func ClampDuration(d, min, max time.Duration) time.Duration {
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}
