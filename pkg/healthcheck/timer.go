package healthcheck

import (
	"context"
	"time"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// TimerSnapshot is a read-only, consistent copy of a Timer's mutable state,
// safe to hand to callers that must not observe concurrent mutation —
// Registry.Snapshot and the --inspect-field introspection path.
type TimerSnapshot struct {
	ContainerID     string
	Status          Status
	FailingStreak   int
	GraceRemainingS int
	LastExitCode    int
	LastProbeAt     time.Time
}

// Timer drives one container's probe-and-report loop on a fixed interval.
// One Timer exists per monitored container; its goroutine is owned
// exclusively by the Registry that inserted it.
type Timer struct {
	containerID string
	runtimePath string
	cfg         Config
	runner      *Runner
	reporter    *Reporter
	log         *logrus.Entry

	stop          chan struct{}
	notifyStopped chan struct{}

	mu              deadlock.Mutex
	status          Status
	failingStreak   int
	graceRemainingS int
	lastExitCode    int
	lastProbeAt     time.Time
}

// NewTimer builds a Timer for containerID from an already-validated Config.
// It does not start the worker goroutine; call Start for that.
func NewTimer(containerID, runtimePath string, cfg Config, runner *Runner, reporter *Reporter, log *logrus.Entry) *Timer {
	return &Timer{
		containerID:     containerID,
		runtimePath:     runtimePath,
		cfg:             cfg,
		runner:          runner,
		reporter:        reporter,
		log:             log,
		status:          None,
		graceRemainingS: cfg.StartPeriodS,
		stop:            make(chan struct{}, 1),
		notifyStopped:   make(chan struct{}),
	}
}

// Start launches the Timer's worker goroutine. Calling Start twice on the
// same Timer is a programmer error; the Registry guarantees it never happens.
func (t *Timer) Start() {
	go t.run()
}

// Stop requests the worker goroutine to exit and blocks until it has. The
// worker waits on this request alongside its 1-second ticker, independent of
// the probe interval, so Stop returns within about a second even when
// cfg.IntervalS is large — except while a probe is actually in flight, since
// teardown cancellation is cooperative only and a probe is never killed
// mid-flight.
func (t *Timer) Stop() {
	t.stop <- struct{}{}
	<-t.notifyStopped
}

// Snapshot returns a consistent copy of the Timer's current state.
func (t *Timer) Snapshot() TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TimerSnapshot{
		ContainerID:     t.containerID,
		Status:          t.status,
		FailingStreak:   t.failingStreak,
		GraceRemainingS: t.graceRemainingS,
		LastExitCode:    t.lastExitCode,
		LastProbeAt:     t.lastProbeAt,
	}
}

func (t *Timer) run() {
	defer close(t.notifyStopped)

	housekeeping := time.NewTicker(time.Second)
	defer housekeeping.Stop()

	elapsedS := t.cfg.IntervalS // probe immediately on the first eligible tick

	for {
		select {
		case <-t.stop:
			return
		case <-housekeeping.C:
			elapsedS++
			if elapsedS < t.cfg.IntervalS {
				continue
			}
			elapsedS = 0
			t.tick()
		}
	}
}

// tick advances the grace countdown and, once it has elapsed, runs exactly
// one probe and updates state per spec.md §4.4: the remaining start period
// is decremented by the full interval and floored at 0 first; while it
// stays above 0 the tick reports Starting (on transition only) and returns
// without probing. Once grace has elapsed, failure/success is folded into
// the failing streak and an update is emitted unless the tick is a
// sub-threshold failure (which stays silent).
func (t *Timer) tick() {
	t.mu.Lock()
	if t.graceRemainingS > 0 {
		t.graceRemainingS -= t.cfg.IntervalS
		if t.graceRemainingS < 0 {
			t.graceRemainingS = 0
		}
	}
	stillInGrace := t.graceRemainingS > 0
	enteringStarting := stillInGrace && t.status != Starting
	if stillInGrace {
		t.status = Starting
	}
	t.mu.Unlock()

	if stillInGrace {
		if enteringStarting {
			t.reporter.Send(t.containerID, Starting, 0)
		}
		return
	}

	result, err := t.runner.Execute(context.Background(), t.cfg, t.containerID, t.runtimePath)

	t.mu.Lock()
	t.lastProbeAt = time.Now()

	failed := err != nil || !result.OK || result.ExitCode != 0
	exitCode := result.ExitCode
	if err != nil {
		exitCode = -1
		t.log.WithError(err).Warn("probe did not complete normally")
	}
	t.lastExitCode = exitCode

	var toReport Status
	var shouldReport bool

	switch {
	case !failed:
		t.failingStreak = 0
		t.status = Healthy
		toReport, shouldReport = Healthy, true

	default:
		t.failingStreak++
		if t.failingStreak >= t.cfg.Retries {
			t.status = Unhealthy
			toReport, shouldReport = Unhealthy, true
		}
		// Sub-threshold failures are silent: no transition, no report,
		// just an incremented streak.
	}
	t.mu.Unlock()

	if shouldReport {
		t.reporter.Send(t.containerID, toReport, exitCode)
	}
}
