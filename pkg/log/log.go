// Package log provides the logging interface used by the emulator core.
// The default implementation is backed by logrus.
package log

import "github.com/sirupsen/logrus"

// Logger is the minimal logging surface the core depends on.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// New returns a Logger backed by logrus.
func New() Logger {
	return newLogrus(logrus.InfoLevel)
}

// NewDebug returns a Logger backed by logrus with debug output enabled.
func NewDebug() Logger {
	return newLogrus(logrus.DebugLevel)
}

func newLogrus(level logrus.Level) Logger {
	l := logrus.New()
	l.SetLevel(level)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return l
}
