// Package config provides configuration management for the askql CLI.
//
// Values are layered with koanf: built-in defaults, then the YAML config
// file, then ASKQL_ environment variables, then explicitly set command-line
// flags.
package config

import (
	"time"

	"github.com/leapstack-labs/askql/internal/api"
)

// Config holds all CLI configuration options.
type Config struct {
	APIURL       string        `koanf:"api_url"`
	Timeout      time.Duration `koanf:"timeout"`
	OutputFormat string        `koanf:"output"`
	Verbose      bool          `koanf:"verbose"`
	LogLevel     string        `koanf:"log_level"`
	LogFormat    string        `koanf:"log_format"`
	NoColor      bool          `koanf:"no_color"`
	HistoryFile  string        `koanf:"history_file"`
	TUI          TUIConfig     `koanf:"tui"`
}

// TUIConfig holds settings for the interactive terminal UI.
type TUIConfig struct {
	// LogFile receives log output while the TUI owns the terminal. Empty
	// discards logs.
	LogFile string `koanf:"log_file"`
}

// Default configuration values.
const (
	DefaultAPIURL      = api.DefaultBaseURL
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultHistoryFile = "~/.askql/history"
)

// Config file names searched in the working directory.
var configFileNames = []string{"askql.yaml", "askql.yml"}

// Default returns a Config populated with defaults only.
func Default() *Config {
	return &Config{
		APIURL:       DefaultAPIURL,
		OutputFormat: DefaultOutput,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		HistoryFile:  expandHome(DefaultHistoryFile),
	}
}
