package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the NotesVault client.
//
// Fields:
//   - ServerURL: base URL of the REST API, without a trailing slash.
//   - SessionPath: sqlite file that keeps the signed-in session.
//   - RequestTimeout: upper bound of a single API call.
type Config struct {
	ServerURL      string        `env:"NOTESVAULT_SERVER_URL"`
	SessionPath    string        `env:"NOTESVAULT_SESSION_PATH"`
	RequestTimeout time.Duration `env:"NOTESVAULT_REQUEST_TIMEOUT"`
}

// LoadDefaults populates c with defaults for a server on localhost.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.SessionPath = filepath.Join(".notesvault", "session.db")
	c.RequestTimeout = 10 * time.Second
}

// Load builds a Config from defaults, then the JSON file named by -c/-config
// in args, then the environment, then short flags in args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("server url must not be empty")
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments and panics on error.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}
