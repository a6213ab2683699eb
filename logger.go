package tactile

import (
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

type loggerBox struct {
	l logrus.FieldLogger
}

// loggerPtr stores the active logger. Accessed atomically so SetLogger may
// race with logging from worker goroutines.
var loggerPtr atomic.Pointer[loggerBox]

func init() {
	loggerPtr.Store(&loggerBox{l: newDiscardLogger()})
}

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// SetLogger configures the logger used by tactile. By default nothing is
// logged. Pass nil to restore the silent default.
//
// Levels used:
//   - debug: per-frame stage timings and counts (Config.Debug only)
//   - info: structural changes (nodes added, removed, reconciled)
//   - warn: suspicious trees (very deep, very wide)
//
// Example:
//
//	l := logrus.New()
//	l.SetLevel(logrus.DebugLevel)
//	tactile.SetLogger(l.WithField("component", "touch"))
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = newDiscardLogger()
	}
	loggerPtr.Store(&loggerBox{l: l})
}

// Logger returns the current logger.
func Logger() logrus.FieldLogger {
	return loggerPtr.Load().l
}
