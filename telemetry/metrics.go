package telemetry

// This package is how we write metrics in weathervault.  By default they are
// no-ops.  But a user can provide an implementation if they want their
// metrics to go somewhere.

type Metrics interface {
	IncrCount(key string, delta int64)
	SetGauge(key string, value float64)
}

type NOPMetrics struct {
}

func (n NOPMetrics) IncrCount(key string, delta int64) {
}
func (n NOPMetrics) SetGauge(key string, value float64) {
}
