package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-errors/errors"
	"github.com/imdario/mergo"
	"github.com/integrii/flaggy"
	"github.com/jesseduffield/yaml"
	"github.com/mgutz/str"
	"github.com/samifruit514/conmon/pkg/app"
	"github.com/samifruit514/conmon/pkg/healthcheck"
	"github.com/samifruit514/conmon/pkg/monitorconfig"
	"github.com/sirupsen/logrus"
)

// cliLogger is used by the debug/inspection CLI modes, which run outside of
// app.NewApp and so never get the development logger applog wires up.
func cliLogger() *logrus.Entry {
	l := logrus.New()
	l.Out = os.Stderr
	return l.WithField("mode", "cli")
}

var (
	bundle      string
	containerID string
	runtimePath = "runc"
	syncFD      = -1

	debuggingFlag   = false
	printConfigFlag = false

	timeoutOverride = 0
	retriesOverride = -1

	inspectField string

	testShell      string
	testInterval   = 10
	testTimeout    = 5
	testStartPeriod = 0
	testRetries    = 3
)

func main() {
	flaggy.SetName("conmon-healthcheck")
	flaggy.SetDescription("per-container healthcheck monitor")

	flaggy.String(&bundle, "b", "bundle", "Path to the OCI bundle directory containing config.json")
	flaggy.String(&containerID, "i", "container-id", "ID of the container to monitor")
	flaggy.String(&runtimePath, "r", "runtime-path", "Path to the OCI runtime binary used to exec probes")
	flaggy.Int(&syncFD, "s", "sync-fd", "File descriptor of the already-open sync channel")
	flaggy.Bool(&debuggingFlag, "d", "debug", "enable file-backed debug logging")

	flaggy.Bool(&printConfigFlag, "", "print-config", "resolve the healthcheck config, print it as YAML, and exit")
	flaggy.Int(&timeoutOverride, "", "timeout-override", "override the discovered timeout in seconds")
	flaggy.Int(&retriesOverride, "", "retries-override", "override the discovered retries count")
	flaggy.String(&inspectField, "", "inspect-field", "print one dotted TimerSnapshot field and exit, e.g. FailingStreak")

	flaggy.String(&testShell, "", "test-shell", "run a CMD-style test command once, without an OCI bundle, and print the result")
	flaggy.Int(&testInterval, "", "interval", "interval in seconds for --test-shell's synthetic config")
	flaggy.Int(&testTimeout, "", "timeout", "timeout in seconds for --test-shell's synthetic config")
	flaggy.Int(&testStartPeriod, "", "start-period", "start period in seconds for --test-shell's synthetic config")
	flaggy.Int(&testRetries, "", "retries", "retries for --test-shell's synthetic config")

	flaggy.Parse()

	if err := run(); err != nil {
		newErr := errors.Wrap(err, 0)
		stackTrace := newErr.ErrorStack()
		log.Fatalf("monitor exited with error\n\n%s", stackTrace)
	}
}

func run() error {
	if testShell != "" {
		return runTestShell()
	}

	if printConfigFlag || inspectField != "" {
		return runInspect()
	}

	if containerID == "" || bundle == "" {
		return fmt.Errorf("--bundle and --container-id are required unless --test-shell is given")
	}

	appConfig, err := monitorconfig.NewAppConfig(bundle, containerID, runtimePath, syncFD, debuggingFlag)
	if err != nil {
		return err
	}

	a, err := app.NewApp(appConfig)
	if err == nil {
		err = a.Run()
	}
	if closeErr := a.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// resolveConfig discovers a Config the same way app.Run does, then applies
// the timeout/retries CLI overrides via mergo: only the fields the operator
// actually set are non-zero in the override struct, so WithOverride leaves
// everything else untouched. mergo skips zero values, so an explicit
// --retries-override 0 is applied after the merge.
func resolveConfig() (healthcheck.Config, error) {
	cfg, err := healthcheck.DiscoverFromBundle(bundle)
	if err != nil {
		return healthcheck.Config{}, err
	}

	override := healthcheck.Config{}
	if timeoutOverride > 0 {
		override.TimeoutS = timeoutOverride
	}
	if retriesOverride >= 0 {
		override.Retries = retriesOverride
	}

	if err := mergo.Merge(&cfg, override, mergo.WithOverride); err != nil {
		return healthcheck.Config{}, fmt.Errorf("merging cli overrides: %w", err)
	}
	if retriesOverride == 0 {
		cfg.Retries = 0
	}

	if err := cfg.Validate(); err != nil {
		return healthcheck.Config{}, err
	}
	return cfg, nil
}

func runInspect() error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	if printConfigFlag {
		var buf bytes.Buffer
		if err := yaml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		fmt.Print(buf.String())
		return nil
	}

	log := cliLogger()
	runner := healthcheck.NewRunner(log)
	reporter := healthcheck.NewReporter(healthcheck.NewFramedWriter(os.Stderr), log)
	timer := healthcheck.NewTimer(containerID, runtimePath, cfg, runner, reporter, log)

	value, err := healthcheck.LookupField(timer.Snapshot(), inspectField)
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

func runTestShell() error {
	argv := str.ToArgv(testShell)
	cfg := healthcheck.Config{
		Test:         append([]string{"CMD"}, argv...),
		IntervalS:    testInterval,
		TimeoutS:     testTimeout,
		StartPeriodS: testStartPeriod,
		Retries:      testRetries,
		Enabled:      true,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	runner := healthcheck.NewRunner(cliLogger())
	result, err := runner.ExecuteDirect(context.Background(), cfg)
	if err != nil {
		return err
	}

	fmt.Printf("exit_code=%d ok=%v duration=%s stderr=%q\n", result.ExitCode, result.OK, result.Duration, result.Stderr)
	return nil
}
