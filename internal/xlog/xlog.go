// Package xlog configures process-wide diagnostic logging. Every
// logger writes to stderr: stdout is reserved for the UCI protocol
// stream and must never carry a stray log line.
package xlog

import (
	"os"

	logging "github.com/op/go-logging"
)

var format = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{level:.4s} %{module}: %{message}`,
)

var backend = func() logging.Backend {
	b := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(b, format)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.INFO, "")
	return leveled
}()

func init() {
	logging.SetBackend(backend)
}

// SetLevel adjusts the minimum level logged process-wide, e.g. from a
// config file's log_level field.
func SetLevel(level logging.Level) {
	logging.SetLevel(level, "")
}

// LevelFromString maps a config string ("debug", "info", "warning",
// "error") to a logging.Level, defaulting to INFO on an unrecognized
// value.
func LevelFromString(s string) logging.Level {
	lvl, err := logging.LogLevel(s)
	if err != nil {
		return logging.INFO
	}
	return lvl
}

// Get returns a named logger. Callers typically call this once per
// package and keep the result in a package-level var.
func Get(module string) *logging.Logger {
	return logging.MustGetLogger(module)
}
