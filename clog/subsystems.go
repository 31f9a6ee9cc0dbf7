package clog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jrick/logrotate/rotator"
)

// stdoutAndRotator implements io.Writer, tee-ing to stdout and a log
// rotator. Writes are discarded until InitLogRotators has run so the
// package is safe to use for logging before the data directory exists.
type stdoutAndRotator struct{}

func (stdoutAndRotator) Write(p []byte) (int, error) {
	if logRotator != nil {
		os.Stdout.Write(p)
		logRotator.Write(p)
	}
	return len(p), nil
}

var (
	logRotator *rotator.Rotator

	backendLog = NewBackend(stdoutAndRotator{})

	scrpLog = backendLog.Logger(SubsystemTags.SCRP)
	valdLog = backendLog.Logger(SubsystemTags.VALD)
	connLog = backendLog.Logger(SubsystemTags.CONN)
	reogLog = backendLog.Logger(SubsystemTags.REOG)
	utxoLog = backendLog.Logger(SubsystemTags.UTXO)
	commLog = backendLog.Logger(SubsystemTags.COMM)
	syncLog = backendLog.Logger(SubsystemTags.SYNC)
	cdbLog  = backendLog.Logger(SubsystemTags.CDB)
	cscdLog = backendLog.Logger(SubsystemTags.CSCD)
)

// SubsystemTags is an enum of the subsystem tags this module logs
// under.
var SubsystemTags = struct {
	SCRP,
	VALD,
	CONN,
	REOG,
	UTXO,
	COMM,
	SYNC,
	CDB,
	CSCD string
}{
	SCRP: "SCRP",
	VALD: "VALD",
	CONN: "CONN",
	REOG: "REOG",
	UTXO: "UTXO",
	COMM: "COMM",
	SYNC: "SYNC",
	CDB:  "CDB",
	CSCD: "CSCD",
}

var subsystemLoggers = map[string]*Logger{
	SubsystemTags.SCRP: scrpLog,
	SubsystemTags.VALD: valdLog,
	SubsystemTags.CONN: connLog,
	SubsystemTags.REOG: reogLog,
	SubsystemTags.UTXO: utxoLog,
	SubsystemTags.COMM: commLog,
	SubsystemTags.SYNC: syncLog,
	SubsystemTags.CDB:  cdbLog,
	SubsystemTags.CSCD: cscdLog,
}

// Scrp returns the Script-VM subsystem logger.
func Scrp() *Logger { return scrpLog }

// Vald returns the transaction/block validation subsystem logger.
func Vald() *Logger { return valdLog }

// Conn returns the block connect/disconnect subsystem logger.
func Conn() *Logger { return connLog }

// Reog returns the chain reorganization subsystem logger.
func Reog() *Logger { return reogLog }

// Utxo returns the UTXO set subsystem logger.
func Utxo() *Logger { return utxoLog }

// Comm returns the UTXO commitment tree subsystem logger.
func Comm() *Logger { return commLog }

// Sync returns the peer-consensus initial-sync subsystem logger.
func Sync() *Logger { return syncLog }

// Cdb returns the persisted chainstate subsystem logger.
func Cdb() *Logger { return cdbLog }

// Cscd returns the consensuscheckd command subsystem logger.
func Cscd() *Logger { return cscdLog }

// InitLogRotators initializes the rotating log file at logFile, rolling
// at 10 MiB with 3 files kept. It must be called before any of the
// package's loggers write to disk; until then, all log output is
// discarded.
func InitLogRotators(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}
	logRotator = r
	return nil
}

// SetLogLevel sets the logging level for the named subsystem. Invalid
// subsystem names are ignored.
func SetLogLevel(subsystemID, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}
	level, _ := LevelFromString(logLevel)
	logger.SetLevel(level)
}

// SetLogLevels sets every subsystem logger to logLevel.
func SetLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		SetLogLevel(subsystemID, logLevel)
	}
}

// SupportedSubsystems returns the sorted list of subsystem tags.
func SupportedSubsystems() []string {
	tags := make([]string, 0, len(subsystemLoggers))
	for tag := range subsystemLoggers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Get returns the logger registered for tag, if any.
func Get(tag string) (*Logger, bool) {
	logger, ok := subsystemLoggers[tag]
	return logger, ok
}

// ParseAndSetDebugLevels parses a debug-level specification, either a
// single level applied to every subsystem ("info") or a comma-separated
// list of subsystem=level pairs ("SCRP=debug,CONN=trace").
func ParseAndSetDebugLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		if _, ok := LevelFromString(debugLevel); !ok {
			return fmt.Errorf("the specified debug level [%s] is invalid", debugLevel)
		}
		SetLogLevels(debugLevel)
		return nil
	}

	for _, pair := range strings.Split(debugLevel, ",") {
		fields := strings.Split(pair, "=")
		if len(fields) != 2 {
			return fmt.Errorf("the specified debug level contains an invalid subsystem/level pair [%s]", pair)
		}
		subsysID, level := fields[0], fields[1]
		if _, ok := Get(subsysID); !ok {
			return fmt.Errorf("the specified subsystem [%s] is invalid -- supported subsystems %s", subsysID, strings.Join(SupportedSubsystems(), ", "))
		}
		if _, ok := LevelFromString(level); !ok {
			return fmt.Errorf("the specified debug level [%s] is invalid", level)
		}
		SetLogLevel(subsysID, level)
	}
	return nil
}
