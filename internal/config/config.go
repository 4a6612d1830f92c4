package config

import (
	"encoding/json"
	"net/url"
	"os"

	"github.com/statekit-dev/statekit/internal/errkit"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "statekit.json"

	// DefaultAddr is the default demo server listen address.
	DefaultAddr = ":8080"

	// DefaultPokeAPI is the default base address for the pokemon demo.
	DefaultPokeAPI = "https://pokeapi.co/api/v2/pokemon/"
)

// Environment variable overrides, applied after the file is read.
const (
	EnvAddr     = "STATEKIT_ADDR"
	EnvPokeAPI  = "STATEKIT_POKEAPI"
	EnvLogLevel = "STATEKIT_LOG_LEVEL"
)

// Config represents the statekit.json configuration for the demo server.
type Config struct {
	// Addr is the listen address for the demo server.
	Addr string `json:"addr,omitempty"`

	// PokeAPI is the base address the pokemon demo fetches from.
	// The fetch URL is this value concatenated with the pokemon name.
	PokeAPI string `json:"pokeapi,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:     DefaultAddr,
		PokeAPI:  DefaultPokeAPI,
		LogLevel: "info",
	}
}

// Load reads configuration from path, falling back to defaults when the
// file does not exist, then applies environment overrides and validates.
// An empty path means ConfigFileName in the working directory.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigFileName
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, errkit.Wrap("E201", err).WithDetail("reading %s", path)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errkit.Wrap("E201", err).WithDetail("parsing %s", path)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides config fields from the environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv(EnvPokeAPI); v != "" {
		cfg.PokeAPI = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errkit.New("E201").WithDetail("addr must not be empty")
	}

	u, err := url.Parse(c.PokeAPI)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errkit.New("E201").WithDetail("pokeapi %q is not an absolute URL", c.PokeAPI)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errkit.New("E201").WithDetail("logLevel %q is not one of debug, info, warn, error", c.LogLevel)
	}

	return nil
}
