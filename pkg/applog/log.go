package applog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/samifruit514/conmon/pkg/monitorconfig"
	"github.com/sirupsen/logrus"
)

// NewLogger returns the structured logger threaded through every component of
// the monitor. In debug mode it writes JSON lines to a file under the
// monitor's log directory; otherwise it discards all output.
func NewLogger(config *monitorconfig.AppConfig) *logrus.Entry {
	var log *logrus.Logger
	if config.Debug || os.Getenv("DEBUG") == "TRUE" {
		log = newDevelopmentLogger(config)
	} else {
		log = newProductionLogger()
	}

	log.Formatter = &logrus.JSONFormatter{}

	return log.WithFields(logrus.Fields{
		"debug":       config.Debug,
		"containerID": config.ContainerID,
		"bundle":      config.Bundle,
	})
}

func getLogLevel() logrus.Level {
	strLevel := os.Getenv("LOG_LEVEL")
	level, err := logrus.ParseLevel(strLevel)
	if err != nil {
		return logrus.DebugLevel
	}
	return level
}

func newDevelopmentLogger(config *monitorconfig.AppConfig) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(getLogLevel())
	file, err := os.OpenFile(filepath.Join(config.LogDir, "monitor.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		fmt.Println("unable to log to file")
		os.Exit(1)
	}
	log.SetOutput(file)
	return log
}

func newProductionLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	log.SetLevel(logrus.ErrorLevel)
	return log
}
