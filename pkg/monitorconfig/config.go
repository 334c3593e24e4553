// Package monitorconfig resolves the monitor process's own bootstrap
// configuration: which container it watches, which OCI runtime it shells
// out to, and where it keeps its own diagnostic log. This is distinct from
// the healthcheck.Config discovered from the container's annotation.
package monitorconfig

import (
	"os"

	"github.com/OpenPeeDeeP/xdg"
)

// AppConfig holds the base configuration fields required to run the monitor
// process for a single container.
type AppConfig struct {
	// Bundle is the path to the OCI bundle directory containing config.json.
	Bundle string
	// ContainerID identifies the container this monitor instance watches.
	ContainerID string
	// RuntimePath is the path to the OCI runtime binary used for probe exec.
	RuntimePath string
	// SyncFD is the file descriptor number of the already-open sync channel
	// the monitor writes status updates to. -1 means none was supplied (the
	// debug/inspection CLI modes don't need one).
	SyncFD int
	// Debug enables file-backed development logging.
	Debug bool
	// LogDir is where the development log is written when Debug is set.
	LogDir string
}

// NewAppConfig resolves the monitor's bootstrap configuration. It does not
// touch the container bundle beyond what the caller already validated.
func NewAppConfig(bundle, containerID, runtimePath string, syncFD int, debug bool) (*AppConfig, error) {
	logDir, err := findOrCreateLogDir("conmon-healthcheck")
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		Bundle:      bundle,
		ContainerID: containerID,
		RuntimePath: runtimePath,
		SyncFD:      syncFD,
		Debug:       debug || os.Getenv("DEBUG") == "TRUE",
		LogDir:      logDir,
	}, nil
}

func logDirForVendor(vendor, projectName string) string {
	if envDir := os.Getenv("CONFIG_DIR"); envDir != "" {
		return envDir
	}
	dirs := xdg.New(vendor, projectName)
	return dirs.CacheHome()
}

func findOrCreateLogDir(projectName string) (string, error) {
	dir := logDirForVendor("", projectName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
