// Package config provides configuration file parsing for the console.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Defaults applied when the file leaves a setting out.
const (
	defaultPort       = 8080
	defaultSQLitePath = "./console-state.db"
	defaultTimeoutSec = 30
)

// Config represents the console configuration.
type Config struct {
	Port        int    // Listen port of the console itself
	BaseURL     string // Public base URL of the console
	APIURL      string // Base URL of the backup server API (required)
	APIInsecure bool   // Skip TLS verification towards the backend
	APITimeout  int    // Backend request timeout in seconds
	SQLitePath  string // UI-state database path
}

// Load reads the configuration from path. An empty path falls back to
// the CONFIG_PATH environment variable; an explicitly named file must
// exist and parse.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		return nil, fmt.Errorf("no config file given (flag or CONFIG_PATH)")
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return parse(v)
}

// LoadReader loads configuration from literal content (useful for
// testing).
func LoadReader(content string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return parse(v)
}

func parse(v *viper.Viper) (*Config, error) {
	v.SetDefault("port", defaultPort)
	v.SetDefault("sqlite_path", defaultSQLitePath)
	v.SetDefault("api_timeout_sec", defaultTimeoutSec)

	cfg := &Config{
		Port:        v.GetInt("port"),
		BaseURL:     v.GetString("base_url"),
		APIURL:      v.GetString("api_url"),
		APIInsecure: v.GetBool("api_insecure"),
		APITimeout:  v.GetInt("api_timeout_sec"),
		SQLitePath:  v.GetString("sqlite_path"),
	}

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("api_url is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d/", cfg.Port)
	}

	return cfg, nil
}
