package config

import (
	"testing"
	"time"

	"powchain/logger"
)

func TestValidateRejectsBadPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := DefaultConfig
		cfg.RPCPort = port
		if err := validate(&cfg); err == nil {
			t.Fatalf("port %d passed validation", port)
		}
	}
}

func TestValidateRejectsExcessiveDifficulty(t *testing.T) {
	cfg := DefaultConfig
	cfg.Difficulty = maxDifficulty + 1
	if err := validate(&cfg); err == nil {
		t.Fatalf("difficulty %d passed validation", cfg.Difficulty)
	}

	cfg.Difficulty = maxDifficulty
	if err := validate(&cfg); err != nil {
		t.Fatalf("difficulty %d rejected: %v", cfg.Difficulty, err)
	}
}

func TestValidateFixesEmptyFields(t *testing.T) {
	cfg := DefaultConfig
	cfg.RPCAddr = "   "
	cfg.MineInterval = 0
	if err := validate(&cfg); err != nil {
		t.Fatalf("validation failed: %v", err)
	}
	if cfg.RPCAddr != DefaultConfig.RPCAddr {
		t.Fatalf("empty rpcaddr not reset to default, got %q", cfg.RPCAddr)
	}
	if cfg.MineInterval != 2*time.Second {
		t.Fatalf("invalid mineinterval not reset to default, got %s", cfg.MineInterval)
	}
}

func TestGetLogLevel(t *testing.T) {
	cases := map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"trace":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		"error":   logger.ERROR,
		"fatal":   logger.FATAL,
		"bogus":   logger.INFO,
	}
	for in, want := range cases {
		cfg := Config{LogLevel: in}
		if got := cfg.GetLogLevel(); got != want {
			t.Fatalf("GetLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
