package healthcheck

import "fmt"

// Config is the validated, immutable-after-Validate healthcheck
// configuration for one container, as discovered from its
// io.podman.healthcheck annotation.
type Config struct {
	// Test is the probe command argv, e.g. ["CMD", "curl", "-f", "http://..."]
	// or ["CMD-SHELL", "curl -f http://... || exit 1"].
	Test []string
	// IntervalS is the number of seconds between probes, in [1, 3600].
	IntervalS int
	// TimeoutS is the number of seconds a probe is allowed before it is
	// considered to have overrun, in [1, 300]. Not enforced via kill; see
	// the Probe Runner's documented limitation.
	TimeoutS int
	// StartPeriodS is the grace period, in seconds, during which failures
	// do not count toward the failing streak, in [0, 3600].
	StartPeriodS int
	// Retries is the number of consecutive failures required to transition
	// to Unhealthy, in [0, 100].
	Retries int
	// Enabled is false for the zero-value Config returned by NewConfig.
	Enabled bool
}

// NewConfig returns the invalid-by-default parse target: Enabled is false
// and no range has been validated yet.
func NewConfig() Config {
	return Config{}
}

// Validate reports the first out-of-range field it finds, naming the field
// and the offending value.
func (c Config) Validate() error {
	if len(c.Test) == 0 {
		return fmt.Errorf("healthcheck config: Test must not be empty")
	}
	if c.IntervalS < 1 || c.IntervalS > 3600 {
		return fmt.Errorf("healthcheck config: IntervalS out of range [1,3600]: %d", c.IntervalS)
	}
	if c.TimeoutS < 1 || c.TimeoutS > 300 {
		return fmt.Errorf("healthcheck config: TimeoutS out of range [1,300]: %d", c.TimeoutS)
	}
	if c.StartPeriodS < 0 || c.StartPeriodS > 3600 {
		return fmt.Errorf("healthcheck config: StartPeriodS out of range [0,3600]: %d", c.StartPeriodS)
	}
	if c.Retries < 0 || c.Retries > 100 {
		return fmt.Errorf("healthcheck config: Retries out of range [0,100]: %d", c.Retries)
	}
	return nil
}

// Clone returns a value copy of c with its own backing array for Test, so
// that callers holding a Clone never observe mutation of the original.
func (c Config) Clone() Config {
	out := c
	out.Test = append([]string(nil), c.Test...)
	return out
}
