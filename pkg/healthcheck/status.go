package healthcheck

import "github.com/containers/podman/v5/libpod/define"

// Status is the reported health state of a monitored container.
type Status int

const (
	// None is the initial state of a Timer. It stays None until a tick sets
	// Starting, Healthy or Unhealthy; sub-threshold failures leave it as is.
	None Status = iota
	Starting
	Healthy
	Unhealthy
)

func (s Status) String() string {
	switch s {
	case Starting:
		return define.HealthCheckStarting
	case Healthy:
		return define.HealthCheckHealthy
	case Unhealthy:
		return define.HealthCheckUnhealthy
	default:
		return "none"
	}
}

// ParseStatus is the inverse of String.
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "none":
		return None, true
	case define.HealthCheckStarting:
		return Starting, true
	case define.HealthCheckHealthy:
		return Healthy, true
	case define.HealthCheckUnhealthy:
		return Unhealthy, true
	default:
		return None, false
	}
}
