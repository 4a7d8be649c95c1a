package config

import (
	"fmt"
	"time"

	"github.com/cptspacemanspiff/batnotify/internal/notify"
)

const (
	DefaultThreshold          = 30.0
	DefaultInterval           = 5 * time.Second
	DefaultLongInterval       = 300 * time.Second
	DefaultLongIntervalMargin = 10.0

	minThreshold = 0.0
	maxThreshold = 100.0
	minInterval  = time.Second
	maxInterval  = time.Hour
)

// Config is fixed for the life of the process.
type Config struct {
	// Threshold is the charge percentage at or below which the alert shows.
	Threshold float64
	Urgency   notify.Urgency

	// Interval is the normal delay between polls. LongInterval is used while
	// the charge is at least LongIntervalMargin points above Threshold.
	Interval           time.Duration
	LongInterval       time.Duration
	LongIntervalMargin float64

	// FailFast makes any read error terminate the loop.
	FailFast bool
}

func DefaultConfig() *Config {
	return &Config{
		Threshold:          DefaultThreshold,
		Urgency:            notify.UrgencyNormal,
		Interval:           DefaultInterval,
		LongInterval:       DefaultLongInterval,
		LongIntervalMargin: DefaultLongIntervalMargin,
	}
}

func NormalizeAndValidate(cfg *Config) (*Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	sanitized := *cfg

	// Written so that NaN fails.
	if !(sanitized.Threshold > minThreshold && sanitized.Threshold <= maxThreshold) {
		return nil, fmt.Errorf("%g is an invalid percentage, must be greater than %g and at most %g", sanitized.Threshold, minThreshold, maxThreshold)
	}
	switch sanitized.Urgency {
	case notify.UrgencyLow, notify.UrgencyNormal, notify.UrgencyCritical:
	default:
		return nil, fmt.Errorf("unknown urgency %s", sanitized.Urgency)
	}
	if err := validateRange("interval", sanitized.Interval, minInterval, maxInterval); err != nil {
		return nil, err
	}
	if err := validateRange("long-interval", sanitized.LongInterval, minInterval, maxInterval); err != nil {
		return nil, err
	}
	if sanitized.LongInterval < sanitized.Interval {
		return nil, fmt.Errorf("long-interval (%s) must not be shorter than interval (%s)", sanitized.LongInterval, sanitized.Interval)
	}
	if sanitized.LongIntervalMargin < 0 {
		sanitized.LongIntervalMargin = 0
	}

	return &sanitized, nil
}

// SleepInterval returns how long to wait after a poll that read pct.
func (c *Config) SleepInterval(pct float64) time.Duration {
	if pct >= c.Threshold+c.LongIntervalMargin {
		return c.LongInterval
	}
	return c.Interval
}

func validateRange(name string, value, min, max time.Duration) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %s and %s, got %s", name, min, max, value)
	}

	return nil
}
