package healthcheck

import "errors"

// Sentinel errors distinguishing the failure classes of spec.md §7. Callers
// use errors.Is against these, never string matching.
var (
	// ErrInvalidConfig means a healthcheck annotation was present but could
	// not be parsed into a valid Config.
	ErrInvalidConfig = errors.New("invalid healthcheck config")
	// ErrDiscoveryMissing means no healthcheck annotation was found on the
	// bundle; this is not a hard failure, just "nothing to monitor".
	ErrDiscoveryMissing = errors.New("no healthcheck annotation discovered")
	// ErrProbeSpawnFailure means the OCI runtime could not even be started
	// (binary missing, permission denied, ...).
	ErrProbeSpawnFailure = errors.New("probe command failed to spawn")
	// ErrProbeAbnormalTermination means the probe process started but ended
	// neither by a normal exit nor by a signal (a probe killed by signal N
	// is reported as exit code 128+N instead).
	ErrProbeAbnormalTermination = errors.New("probe command terminated abnormally")
	// ErrReportWriteFailure means a StatusUpdate could not be written to the
	// sync channel. Logged and swallowed by the Reporter, never fatal.
	ErrReportWriteFailure = errors.New("status report write failed")
	// ErrRegistryConflict means Insert was called for a container ID that
	// already has a live Timer in the Registry.
	ErrRegistryConflict = errors.New("timer already registered for container")
)
