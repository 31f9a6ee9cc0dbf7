package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BTCDecoded/bllvm-consensus/clog"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultLogFilename = "consensuscheckd.log"
	appName            = "consensuscheckd"
)

var defaultHomeDir = defaultAppDataDir(appName)

type config struct {
	BlockDir    string `long:"blockdir" description:"Directory of sequential raw block files (000000.blk, 000001.blk, ...) to replay" required:"true"`
	Network     string `long:"network" description:"Consensus parameter set to validate against" default:"mainnet"`
	StatePath   string `long:"statedb" description:"Optional path to a chainstatedb file; when set, the UTXO set is persisted after each connected block (undo records are not persisted)"`
	DebugLevel  string `long:"debuglevel" description:"Logging level: trace, debug, info, warn, error, critical, or <subsystem>=<level>,..." default:"info"`
	MaxBlocks   uint64 `long:"maxblocks" description:"Stop after replaying this many blocks (0 means no limit)"`
	AllowFuture int64  `long:"now" description:"Unix time to treat as the current wall clock for the future-timestamp check (0 means use the real clock)"`
}

func parseConfig() (*config, error) {
	cfg := &config{}
	parser := flags.NewParser(cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(defaultHomeDir, 0700); err != nil {
		return nil, fmt.Errorf("creating home directory: %w", err)
	}

	if err := clog.InitLogRotators(filepath.Join(defaultHomeDir, defaultLogFilename)); err != nil {
		return nil, fmt.Errorf("initializing log rotation: %w", err)
	}
	if err := clog.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return nil, fmt.Errorf("parsing --debuglevel: %w", err)
	}

	return cfg, nil
}

// defaultAppDataDir mirrors the teacher's util.AppDataDir convention
// (an OS-appropriate per-application config/data directory) without
// pulling in its full util package, which carries dependencies this
// tool otherwise never touches.
func defaultAppDataDir(name string) string {
	if dir := os.Getenv("CONSENSUSCHECKD_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+name)
	}
	return filepath.Join(home, "."+name)
}
