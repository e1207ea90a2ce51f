package reconcile

import "time"

// Config holds tuning knobs for propagation and health reporting.
type Config struct {
	// PropagationTimeoutMs bounds the delivery of one update to one target.
	PropagationTimeoutMs int `mapstructure:"propagation_timeout_ms" default:"3000"`
	// MaxParallel caps concurrent target deliveries per update.
	MaxParallel int `mapstructure:"max_parallel" default:"8"`
	// HealthyLagThreshold is the average lag at or above which sync is unhealthy.
	HealthyLagThreshold float64 `mapstructure:"healthy_lag_threshold" default:"5"`
	// SnapshotIntervalSeconds enables periodic snapshot persistence when positive.
	SnapshotIntervalSeconds int `mapstructure:"snapshot_interval_seconds" default:"0"`
}

// PropagationTimeout returns the per-target timeout, defaulting to 3s.
func (c Config) PropagationTimeout() time.Duration {
	if c.PropagationTimeoutMs <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.PropagationTimeoutMs) * time.Millisecond
}

// SnapshotInterval returns the periodic snapshot interval, zero when disabled.
func (c Config) SnapshotInterval() time.Duration {
	if c.SnapshotIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(c.SnapshotIntervalSeconds) * time.Second
}

func (c Config) maxParallel() int {
	if c.MaxParallel <= 0 {
		return 8
	}
	return c.MaxParallel
}

func (c Config) healthyLag() float64 {
	if c.HealthyLagThreshold <= 0 {
		return 5
	}
	return c.HealthyLagThreshold
}
