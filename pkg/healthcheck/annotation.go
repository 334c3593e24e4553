package healthcheck

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/containers/podman/v5/libpod/define"
)

// annotationKey is the OCI annotation this engine discovers its Config from,
// the same key Podman itself writes onto the bundle it generates.
const annotationKey = "io.podman.healthcheck"

// maxCmdShellLen bounds a CMD-SHELL command string.
const maxCmdShellLen = 4096

// rawAnnotation mirrors the JSON shape of the io.podman.healthcheck
// annotation value. Field names are the engine's own wire vocabulary
// (seconds, not duration strings) rather than Podman's internal
// manifest.Schema2HealthConfig shape, which this engine does not embed.
type rawAnnotation struct {
	Test        []string `json:"test"`
	IntervalS   int      `json:"interval"`
	TimeoutS    int      `json:"timeout"`
	StartPeriod int      `json:"start_period"`
	Retries     int      `json:"retries"`
}

// ParseAnnotation decodes the io.podman.healthcheck JSON payload into a
// validated, Enabled Config, or a wrapped ErrInvalidConfig.
func ParseAnnotation(raw string) (Config, error) {
	var parsed rawAnnotation
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Config{}, fmt.Errorf("%w: malformed json: %v", ErrInvalidConfig, err)
	}

	if len(parsed.Test) == 0 {
		return Config{}, fmt.Errorf("%w: empty test command", ErrInvalidConfig)
	}

	switch parsed.Test[0] {
	case define.HealthConfigTestCmd:
		if len(parsed.Test) < 2 {
			return Config{}, fmt.Errorf("%w: %s requires at least one argument", ErrInvalidConfig, define.HealthConfigTestCmd)
		}
	case define.HealthConfigTestCmdShell:
		if len(parsed.Test) != 2 {
			return Config{}, fmt.Errorf("%w: %s requires exactly one command string", ErrInvalidConfig, define.HealthConfigTestCmdShell)
		}
		if parsed.Test[1] == "" {
			return Config{}, fmt.Errorf("%w: %s command string must not be empty", ErrInvalidConfig, define.HealthConfigTestCmdShell)
		}
		if len(parsed.Test[1]) > maxCmdShellLen {
			return Config{}, fmt.Errorf("%w: %s command string exceeds %d bytes", ErrInvalidConfig, define.HealthConfigTestCmdShell, maxCmdShellLen)
		}
	default:
		return Config{}, fmt.Errorf("%w: unknown test tag %q, want %s or %s",
			ErrInvalidConfig, parsed.Test[0], define.HealthConfigTestCmd, define.HealthConfigTestCmdShell)
	}

	cfg := Config{
		Test:         parsed.Test,
		IntervalS:    parsed.IntervalS,
		TimeoutS:     parsed.TimeoutS,
		StartPeriodS: parsed.StartPeriod,
		Retries:      parsed.Retries,
		Enabled:      true,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// ociSpec is the minimal slice of an OCI runtime config.json this engine
// needs: just the annotation map.
type ociSpec struct {
	Annotations map[string]string `json:"annotations"`
}

// DiscoverFromBundle reads <bundlePath>/config.json, extracts the
// io.podman.healthcheck annotation, and delegates to ParseAnnotation. A
// missing file or missing annotation yields ErrDiscoveryMissing, not a hard
// error — that distinction lets callers tell "nothing to monitor" apart
// from "something is broken".
func DiscoverFromBundle(bundlePath string) (Config, error) {
	configPath := filepath.Join(bundlePath, "config.json")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s not found", ErrDiscoveryMissing, configPath)
		}
		return Config{}, fmt.Errorf("reading %s: %w", configPath, err)
	}

	var spec ociSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return Config{}, fmt.Errorf("%w: parsing %s: %v", ErrInvalidConfig, configPath, err)
	}

	raw, ok := spec.Annotations[annotationKey]
	if !ok || raw == "" {
		return Config{}, fmt.Errorf("%w: %s has no %s annotation", ErrDiscoveryMissing, configPath, annotationKey)
	}

	return ParseAnnotation(raw)
}
