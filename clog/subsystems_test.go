package clog

import "testing"

func TestParseAndSetDebugLevelsSingle(t *testing.T) {
	if err := ParseAndSetDebugLevels("debug"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := scrpLog.Level(); got != LevelDebug {
		t.Fatalf("expected every subsystem at LevelDebug, got %v for SCRP", got)
	}
	SetLogLevels("info")
}

func TestParseAndSetDebugLevelsPairs(t *testing.T) {
	if err := ParseAndSetDebugLevels("SCRP=trace,CONN=warn"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := scrpLog.Level(); got != LevelTrace {
		t.Fatalf("expected SCRP at LevelTrace, got %v", got)
	}
	if got := connLog.Level(); got != LevelWarn {
		t.Fatalf("expected CONN at LevelWarn, got %v", got)
	}
	SetLogLevels("info")
}

func TestParseAndSetDebugLevelsInvalidSubsystem(t *testing.T) {
	if err := ParseAndSetDebugLevels("BOGUS=debug"); err == nil {
		t.Fatal("expected an error for an unknown subsystem")
	}
}

func TestParseAndSetDebugLevelsInvalidLevel(t *testing.T) {
	if err := ParseAndSetDebugLevels("not-a-level"); err == nil {
		t.Fatal("expected an error for an invalid level")
	}
}

func TestLoggerDiscardsBeforeLevel(t *testing.T) {
	l := NewBackend().Logger("TEST")
	l.SetLevel(LevelOff)
	l.Infof("this must not panic even with no writers and the level off")
}
