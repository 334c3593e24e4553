package healthcheck

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/containers/podman/v5/libpod/define"
	"github.com/sirupsen/logrus"
)

// maxStderrBytes bounds how much of a probe's stderr is kept for
// diagnostics; the rest is discarded rather than buffered.
const maxStderrBytes = 4 * 1024

// ProbeResult is the outcome of one probe invocation.
type ProbeResult struct {
	// ExitCode is the probe command's exit status, or 128+N for a probe
	// killed by signal N, following the same convention the shell uses.
	ExitCode int
	// OK is true when the probe ran to completion (regardless of exit
	// code); false means it never started or terminated abnormally enough
	// that ExitCode isn't meaningful.
	OK bool
	// Stderr is up to maxStderrBytes of the probe's stderr output.
	Stderr string
	// Duration is how long Execute spent running the probe.
	Duration time.Duration
}

// Runner executes one probe command per call. Execute goes through the OCI
// runtime's exec subcommand, against an already-running container, and never
// runs the probe inside this process's own namespace; ExecuteDirect is the
// one exception and runs the command locally.
type Runner struct {
	Log *logrus.Entry
	// command is overridable for testing.
	command func(name string, args ...string) *exec.Cmd
}

// NewRunner returns a Runner using the real os/exec.Command.
func NewRunner(log *logrus.Entry) *Runner {
	return &Runner{Log: log, command: exec.Command}
}

// buildArgv turns a validated Config.Test into the argv passed after
// "exec <containerID>", following the same CMD/CMD-SHELL dispatch Podman's
// own runHealthCheck uses.
func buildArgv(test []string) ([]string, error) {
	switch test[0] {
	case define.HealthConfigTestCmd:
		return test[1:], nil
	case define.HealthConfigTestCmdShell:
		return []string{"/bin/sh", "-c", strings.Join(test[1:], " ")}, nil
	default:
		return nil, fmt.Errorf("%w: unknown test tag %q", ErrInvalidConfig, test[0])
	}
}

// Execute runs one probe for containerID using runtimePath as the OCI
// runtime binary. cfg.TimeoutS is not enforced by killing the child; it is
// informational only (§9 of the design notes forbids unilateral change of
// that behavior).
func (r *Runner) Execute(ctx context.Context, cfg Config, containerID, runtimePath string) (ProbeResult, error) {
	testArgv, err := buildArgv(cfg.Test)
	if err != nil {
		return ProbeResult{}, err
	}

	argv := append([]string{"exec", containerID}, testArgv...)
	return r.run(runtimePath, argv)
}

// ExecuteDirect runs cfg.Test's command directly in this process's own
// environment, with no OCI runtime or container involved. It exists for the
// --test-shell CLI mode, where an operator wants to sanity-check a probe
// command locally before putting it in a bundle annotation.
func (r *Runner) ExecuteDirect(ctx context.Context, cfg Config) (ProbeResult, error) {
	testArgv, err := buildArgv(cfg.Test)
	if err != nil {
		return ProbeResult{}, err
	}
	if len(testArgv) == 0 {
		return ProbeResult{}, fmt.Errorf("%w: empty command", ErrInvalidConfig)
	}
	return r.run(testArgv[0], testArgv[1:])
}

func (r *Runner) run(name string, args []string) (ProbeResult, error) {
	cmd := r.command(name, args...)
	cmd.Stdin = nil

	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &boundedWriter{buf: &stderr, limit: maxStderrBytes}

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	result := ProbeResult{Stderr: strings.TrimRight(stderr.String(), "\n"), Duration: duration}

	if err == nil {
		result.ExitCode = 0
		result.OK = true
		return result, nil
	}

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		// Spawn failure: binary not found, permission denied, etc. Caller
		// state is left untouched; this is not a probe result.
		return ProbeResult{}, fmt.Errorf("%w: %v", ErrProbeSpawnFailure, err)
	}

	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		result.ExitCode = 128 + int(status.Signal())
		result.OK = true
		return result, nil
	}

	result.ExitCode = exitErr.ExitCode()
	if result.ExitCode < 0 {
		return ProbeResult{}, fmt.Errorf("%w: %v", ErrProbeAbnormalTermination, err)
	}
	result.OK = true
	return result, nil
}

// boundedWriter discards bytes past limit rather than growing forever; a
// chatty probe must not be able to exhaust monitor memory.
type boundedWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *boundedWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		w.buf.Write(p[:remaining])
	} else {
		w.buf.Write(p)
	}
	return len(p), nil
}
