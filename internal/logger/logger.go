// Package logger provides the observability sinks the store and views report failures to.
package logger

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
)

// Logger receives observability events. Args are extra context such as errors or IDs.
type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// GlogLogger writes events through glog.
type GlogLogger struct{}

var _ Logger = GlogLogger{}

func (GlogLogger) Info(msg string, args ...interface{}) {
	glog.InfoDepth(1, format(msg, args))
}

func (GlogLogger) Warn(msg string, args ...interface{}) {
	glog.WarningDepth(1, format(msg, args))
}

func (GlogLogger) Error(msg string, args ...interface{}) {
	glog.ErrorDepth(1, format(msg, args))
}

func format(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, fmt.Sprintf("%+v", arg))
	}
	return msg + ": " + strings.Join(parts, " ")
}

// Multi fans events out to several loggers.
type Multi []Logger

func (m Multi) Info(msg string, args ...interface{}) {
	for _, l := range m {
		l.Info(msg, args...)
	}
}

func (m Multi) Warn(msg string, args ...interface{}) {
	for _, l := range m {
		l.Warn(msg, args...)
	}
}

func (m Multi) Error(msg string, args ...interface{}) {
	for _, l := range m {
		l.Error(msg, args...)
	}
}
