// Package log is the colored, prefixed logger every component gets from main.
package log

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/beka-birhanu/vinom-maze-agent/config"
)

// Logger writes "[PREFIX] [LEVEL] message" lines. The prefix is painted with
// the component color and the level with its own.
type Logger struct {
	out   *log.Logger
	debug bool
}

// New returns a logger for one component. Debug lines are dropped unless
// AGENT_DEBUG is set.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if prefix == "" {
		return nil, errors.New("logger prefix is empty")
	}
	if w == nil {
		return nil, errors.New("logger writer is nil")
	}

	_, debug := os.LookupEnv("AGENT_DEBUG")
	return &Logger{
		out:   log.New(w, fmt.Sprintf("%s[%s]%s ", color, prefix, config.ColorReset), log.LstdFlags),
		debug: debug,
	}, nil
}

// SetDebug turns debug output on or off.
func (l *Logger) SetDebug(on bool) {
	l.debug = on
}

func (l *Logger) Info(msg string) {
	l.print(config.LogInfoColor, "INFO", msg)
}

func (l *Logger) Warning(msg string) {
	l.print(config.LogWarningColor, "WARNING", msg)
}

func (l *Logger) Error(msg string) {
	l.print(config.LogErrorColor, "ERROR", msg)
}

func (l *Logger) Debug(msg string) {
	if !l.debug {
		return
	}
	l.print(config.LogDebugColor, "DEBUG", msg)
}

func (l *Logger) print(color, level, msg string) {
	l.out.Printf("%s[%s]%s %s", color, level, config.LogColorReset, msg)
}
