package logger

import (
	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"studytrack/internal/config"
)

// RollbarLogger reports events to Rollbar.
type RollbarLogger struct{}

var _ Logger = RollbarLogger{}

func NewRollbarLogger(conf *config.TrackerConfig) RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "")
	return RollbarLogger{}
}

// expected fmt: msg | error, map[string]interface{}
func (RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	return append(newArgs, args...)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
}

// New returns the glog logger, plus Rollbar when a token is configured.
func New(conf *config.TrackerConfig) Logger {
	if conf == nil || conf.RollbarToken == "" {
		return GlogLogger{}
	}
	return Multi{GlogLogger{}, NewRollbarLogger(conf)}
}
