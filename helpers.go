package taillight

// CalculateStopRate returns the fraction of dispatches aborted by ErrStop
// (0.0 to 1.0). Returns 0.0 if the signal has never been called.
func CalculateStopRate(stats SignalStats) float64 {
	if stats.Calls == 0 {
		return 0.0
	}
	return float64(stats.Stopped) / float64(stats.Calls)
}

// CalculateDeferRate returns the fraction of dispatches paused by ErrDefer
// (0.0 to 1.0). Returns 0.0 if the signal has never been called.
func CalculateDeferRate(stats SignalStats) float64 {
	if stats.Calls == 0 {
		return 0.0
	}
	return float64(stats.Deferred) / float64(stats.Calls)
}
