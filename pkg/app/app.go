// Package app wires the monitor's components together and drives its
// top-level lifecycle: discover the container's healthcheck Config, start
// its Timer, then block until a shutdown signal arrives and tear everything
// down.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samifruit514/conmon/pkg/applog"
	"github.com/samifruit514/conmon/pkg/healthcheck"
	"github.com/samifruit514/conmon/pkg/monitorconfig"
	"github.com/sirupsen/logrus"
)

// App is the monitor process for a single container.
type App struct {
	closers []io.Closer

	Config   *monitorconfig.AppConfig
	Log      *logrus.Entry
	Registry *healthcheck.Registry
	Reporter *healthcheck.Reporter
	runner   *healthcheck.Runner
}

// NewApp bootstraps a new App: opens the sync channel (if one was supplied),
// and constructs the Registry and Reporter it will run against.
func NewApp(config *monitorconfig.AppConfig) (*App, error) {
	app := &App{
		closers: []io.Closer{},
		Config:  config,
	}

	app.Log = applog.NewLogger(config)

	writer, err := newSyncWriter(config.SyncFD, &app.closers)
	if err != nil {
		return app, err
	}

	app.Reporter = healthcheck.NewReporter(writer, app.Log)
	app.Registry = healthcheck.Init(app.Log)
	app.runner = healthcheck.NewRunner(app.Log)

	return app, nil
}

// newSyncWriter wraps the already-open sync fd, if any, in a FramedWriter.
// A SyncFD of -1 (no --sync-fd given) yields a writer over
// os.Stderr instead, so Reporter.Send never has a nil writer to call.
func newSyncWriter(fd int, closers *[]io.Closer) (healthcheck.SyncWriter, error) {
	if fd < 0 {
		return healthcheck.NewFramedWriter(os.Stderr), nil
	}

	file := os.NewFile(uintptr(fd), "sync-channel")
	if file == nil {
		return nil, fmt.Errorf("sync fd %d is not valid", fd)
	}
	*closers = append(*closers, file)
	return healthcheck.NewFramedWriter(file), nil
}

// Run discovers the container's Config, starts its Timer, and blocks until
// a termination signal requests shutdown. A bundle with no healthcheck
// declared starts no Timer and still blocks until shutdown.
func (app *App) Run() error {
	cfg, err := healthcheck.DiscoverFromBundle(app.Config.Bundle)
	if errors.Is(err, healthcheck.ErrDiscoveryMissing) {
		app.Log.WithError(err).Info("no healthcheck declared, running without healthchecks")
		app.waitForShutdownSignal()
		return nil
	}
	if err != nil {
		return err
	}

	timer := healthcheck.NewTimer(app.Config.ContainerID, app.Config.RuntimePath, cfg, app.runner, app.Reporter, app.Log)
	if err := app.Registry.Insert(app.Config.ContainerID, timer); err != nil {
		return err
	}

	app.waitForShutdownSignal()
	return nil
}

func (app *App) waitForShutdownSignal() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGINT)
	<-sigs
	app.Log.Info("shutdown signal received, tearing down")
}

// Close tears down the Registry and releases any resources NewApp opened.
func (app *App) Close() error {
	if app.Registry != nil {
		app.Registry.Teardown()
	}

	for _, closer := range app.closers {
		if err := closer.Close(); err != nil {
			return err
		}
	}
	return nil
}
