package clog

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// Backend multiplexes log records from every subsystem Logger to a
// configured set of writers. A Backend with no writers discards
// everything. The package's own backend writes through a writer that
// discards everything until InitLogRotators is called, so
// early-startup logging can never panic.
type Backend struct {
	writers []io.Writer
}

// NewBackend returns a Backend that writes every record to each of w.
func NewBackend(w ...io.Writer) *Backend {
	return &Backend{writers: w}
}

// Logger returns a Logger for subsystem tag backed by b. The returned
// Logger defaults to LevelInfo.
func (b *Backend) Logger(tag string) *Logger {
	l := &Logger{tag: tag, backend: b}
	l.level.Store(uint32(LevelInfo))
	return l
}

func (b *Backend) write(line string) {
	for _, w := range b.writers {
		io.WriteString(w, line)
	}
}

// Logger writes leveled, tagged log lines through its Backend. The zero
// value is not usable; obtain one via Backend.Logger.
type Logger struct {
	tag     string
	level   atomic.Uint32
	backend *Backend
}

// Level returns the logger's current minimum level.
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// SetLevel changes the minimum level at which l emits records.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(uint32(level))
}

func (l *Logger) write(level Level, s string) {
	if l == nil || l.backend == nil || Level(l.level.Load()) > level {
		return
	}
	line := fmt.Sprintf("%s [%s] %s: %s\n", time.Now().Format("2006-01-02 15:04:05.000"), level, l.tag, s)
	l.backend.write(line)
}

func (l *Logger) Tracef(format string, args ...interface{}) { l.write(LevelTrace, fmt.Sprintf(format, args...)) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.write(LevelDebug, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...interface{})  { l.write(LevelInfo, fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.write(LevelWarn, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.write(LevelError, fmt.Sprintf(format, args...)) }
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.write(LevelCritical, fmt.Sprintf(format, args...))
}

func (l *Logger) Trace(args ...interface{})    { l.write(LevelTrace, fmt.Sprint(args...)) }
func (l *Logger) Debug(args ...interface{})    { l.write(LevelDebug, fmt.Sprint(args...)) }
func (l *Logger) Info(args ...interface{})     { l.write(LevelInfo, fmt.Sprint(args...)) }
func (l *Logger) Warn(args ...interface{})     { l.write(LevelWarn, fmt.Sprint(args...)) }
func (l *Logger) Error(args ...interface{})    { l.write(LevelError, fmt.Sprint(args...)) }
func (l *Logger) Critical(args ...interface{}) { l.write(LevelCritical, fmt.Sprint(args...)) }
