package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"powchain/logger"
)

// Config holds all configuration for the application. Tags are used by viper
// to map ENV variables and config file keys.
type Config struct {
	// HTTP API configuration
	RPCAddr string `mapstructure:"rpcaddr"`
	RPCPort int    `mapstructure:"rpcport"`

	// Mining configuration
	Mining       bool          `mapstructure:"mining"`
	Difficulty   uint32        `mapstructure:"difficulty"`
	MineInterval time.Duration `mapstructure:"mineinterval"`
	Payload      string        `mapstructure:"payload"`

	// Logging configuration
	LogLevel string `mapstructure:"log_level"`
}

// maxDifficulty mirrors the consensus bound: 64 leading zero hex characters
// is already the whole digest.
const maxDifficulty = 64

// defaultConfig holds the unexported default configuration values.
var defaultConfig = Config{
	RPCAddr:      "0.0.0.0",
	RPCPort:      8545,
	Mining:       true,
	Difficulty:   4,
	MineInterval: 2 * time.Second,
	Payload:      "",
	LogLevel:     "info",
}

// DefaultConfig is an exported copy of the defaults, used when setting up CLI
// flags.
var DefaultConfig = defaultConfig

// LoadConfig loads configuration from file, environment variables, and flags,
// in viper's priority order, on top of the defaults.
func LoadConfig() (*Config, error) {
	currentConfig := DefaultConfig

	if err := viper.Unmarshal(&currentConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config from Viper: %v", err)
	}
	if err := validate(&currentConfig); err != nil {
		return nil, err
	}
	return &currentConfig, nil
}

func validate(cfg *Config) error {
	cfg.RPCAddr = strings.TrimSpace(cfg.RPCAddr)
	if cfg.RPCAddr == "" {
		cfg.RPCAddr = DefaultConfig.RPCAddr
		logger.Warningf("rpcaddr is empty, using default: %s", cfg.RPCAddr)
	}
	if cfg.RPCPort <= 0 || cfg.RPCPort > 65535 {
		return fmt.Errorf("invalid RPC port: %d. Must be between 1 and 65535", cfg.RPCPort)
	}
	if cfg.Difficulty > maxDifficulty {
		return fmt.Errorf("invalid difficulty: %d. Must be between 0 and %d leading zero hex characters", cfg.Difficulty, maxDifficulty)
	}
	if cfg.MineInterval <= 0 {
		logger.Warningf("mineinterval is invalid (%s), using default: %s", cfg.MineInterval, DefaultConfig.MineInterval)
		cfg.MineInterval = DefaultConfig.MineInterval
	}
	return nil
}

// GetLogLevel maps the configured level string onto the logger's levels.
func (c *Config) GetLogLevel() logger.LogLevel {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "trace":
		return logger.DEBUG
	case "info":
		return logger.INFO
	case "warn", "warning":
		return logger.WARNING
	case "error":
		return logger.ERROR
	case "fatal":
		return logger.FATAL
	default:
		logger.Warningf("Unknown log_level '%s', defaulting to INFO", c.LogLevel)
		return logger.INFO
	}
}
