// Package logging holds the process-wide logger used by pixvox.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var once sync.Once

type logger struct {
	*log.Logger
}

var singleton *logger

func getLogger() *logger {
	once.Do(func() {
		l := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
			Prefix:          "pixvox",
		})
		l.SetLevel(log.InfoLevel)
		singleton = &logger{l}
	})
	return singleton
}

// SetVerbose switches between debug and info output.
func SetVerbose(verbose bool) {
	if verbose {
		getLogger().SetLevel(log.DebugLevel)
		getLogger().SetReportCaller(true)
		return
	}
	getLogger().SetLevel(log.InfoLevel)
	getLogger().SetReportCaller(false)
}

// SetOutput redirects log output, mostly for tests.
func SetOutput(w io.Writer) {
	getLogger().SetOutput(w)
}

// Debug logs msg with key/value pairs when verbose output is on.
func Debug(msg string, keyvals ...interface{}) {
	getLogger().Helper()
	getLogger().Debug(msg, keyvals...)
}

// Info logs msg with key/value pairs.
func Info(msg string, keyvals ...interface{}) {
	getLogger().Helper()
	getLogger().Info(msg, keyvals...)
}

// Warn logs a recoverable problem.
func Warn(msg string, keyvals ...interface{}) {
	getLogger().Helper()
	getLogger().Warn(msg, keyvals...)
}

// Error logs a failed operation.
func Error(msg string, keyvals ...interface{}) {
	getLogger().Helper()
	getLogger().Error(msg, keyvals...)
}
