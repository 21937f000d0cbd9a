// Package config loads server configuration from flags, environment
// variables, an optional config file and built-in defaults, in that order
// of precedence, via Viper.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds everything the server needs to start.
type Config struct {
	ListenAddr  string `mapstructure:"listen_addr"`
	SearchDepth int    `mapstructure:"search_depth"`
	GameLogPath string `mapstructure:"game_log_path"`
	LogLevel    string `mapstructure:"log_level"`
}

// BindFlags registers the flags Load reads back via Viper, so a command
// built on top of this package gets them for free.
func BindFlags(flags *pflag.FlagSet) {
	flags.String("listen-addr", ":8080", "address to listen for WebSocket connections on")
	flags.Int("search-depth", 4, "search depth in plies for requests that give no depth")
	flags.String("game-log", "gomoku-search.log", "path to append completed search records to")
	flags.String("log-level", "info", "zerolog level: trace, debug, info, warn, error")
}

// Load reads configuration from (in ascending priority) defaults, a
// config file named gomoku-server.yaml on the usual search paths, the
// GOMOKU_ environment prefix, and flags already parsed onto flags.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("search_depth", 4)
	v.SetDefault("game_log_path", "gomoku-search.log")
	v.SetDefault("log_level", "info")

	v.SetConfigName("gomoku-server")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/gomoku-server")

	v.SetEnvPrefix("gomoku")
	v.AutomaticEnv()

	if err := v.BindPFlag("listen_addr", flags.Lookup("listen-addr")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("search_depth", flags.Lookup("search-depth")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("game_log_path", flags.Lookup("game-log")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("log_level", flags.Lookup("log-level")); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.SearchDepth <= 0 {
		return nil, fmt.Errorf("config: search_depth must be positive, got %d", cfg.SearchDepth)
	}

	return &cfg, nil
}
