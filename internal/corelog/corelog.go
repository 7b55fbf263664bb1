// Package corelog wraps charmbracelet/log with the terse,
// component-keyed structured logging used across the core.
package corelog

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// Logger is a component-scoped structured logger.
type Logger struct {
	l *log.Logger
}

var globalLevel = log.InfoLevel

// New builds a Logger for the named component (e.g. "core",
// "regmap", "recorder").
func New(component string) *Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: component,
	})
	l.SetLevel(globalLevel)
	return &Logger{l: l}
}

// SetGlobalLevel parses a level name ("debug", "info", "warn",
// "error") and applies it to every Logger created by New afterwards,
// the simulator's -log-level flag.
func SetGlobalLevel(name string) error {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("corelog: parse level %q: %w", name, err)
	}
	globalLevel = lvl
	return nil
}

func (g *Logger) Info(msg string, keyvals ...interface{})  { g.l.Info(msg, keyvals...) }
func (g *Logger) Warn(msg string, keyvals ...interface{})  { g.l.Warn(msg, keyvals...) }
func (g *Logger) Error(msg string, keyvals ...interface{}) { g.l.Error(msg, keyvals...) }
func (g *Logger) Debug(msg string, keyvals ...interface{}) { g.l.Debug(msg, keyvals...) }
