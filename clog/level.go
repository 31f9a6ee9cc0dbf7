package clog

import "strings"

// Level describes the severity of a log message. Lower levels are more
// verbose. LevelOff disables a logger entirely.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

var levelStrings = [...]string{
	LevelTrace:    "TRC",
	LevelDebug:    "DBG",
	LevelInfo:     "INF",
	LevelWarn:     "WRN",
	LevelError:    "ERR",
	LevelCritical: "CRT",
	LevelOff:      "OFF",
}

// String returns the short, fixed-width tag used in log output.
func (l Level) String() string {
	if int(l) >= len(levelStrings) {
		return "UNK"
	}
	return levelStrings[l]
}

// LevelFromString parses a level name, case-insensitively. It returns
// LevelInfo and false if the name isn't recognized.
func LevelFromString(s string) (Level, bool) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "critical":
		return LevelCritical, true
	case "off":
		return LevelOff, true
	}
	return LevelInfo, false
}
