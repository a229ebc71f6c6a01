// Package logger wraps a single shared logrus logger. Components log
// through the class/method helpers so every line carries its origin.
package logger

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	base *logrus.Logger
	once sync.Once
)

// Init sets up the shared logger once. The level comes from
// GEARR_LOG_LEVEL (falling back to LOG_LEVEL, then info). Logs go to
// stderr so table output on stdout stays clean.
func Init() {
	once.Do(func() {
		base = logrus.New()
		base.SetOutput(os.Stderr)
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		level := os.Getenv("GEARR_LOG_LEVEL")
		if level == "" {
			level = os.Getenv("LOG_LEVEL")
		}
		base.SetLevel(parseLevel(level))
	})
}

func parseLevel(raw string) logrus.Level {
	level := strings.TrimSpace(strings.ToLower(raw))
	if level == "" {
		return logrus.InfoLevel
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

func ensure() {
	if base == nil {
		Init()
	}
}

// Debugf logs a debug message with class/method context.
func Debugf(className, methodName, format string, args ...interface{}) {
	ensure()
	base.Debugf("%s -> %s: %s", className, methodName, fmt.Sprintf(format, args...))
}

// Infof logs an informational message with class/method context.
func Infof(className, methodName, format string, args ...interface{}) {
	ensure()
	base.Infof("%s -> %s: %s", className, methodName, fmt.Sprintf(format, args...))
}

// Warnf logs a warning message with class/method context.
func Warnf(className, methodName, format string, args ...interface{}) {
	ensure()
	base.Warnf("%s -> %s: %s", className, methodName, fmt.Sprintf(format, args...))
}

// Error logs an error with class/method context.
func Error(className, methodName string, err error) {
	ensure()
	if err == nil {
		err = errors.New("unknown error")
	}
	base.Errorf("%s -> %s: %s", className, methodName, err.Error())
}
