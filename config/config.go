package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the file based configuration of the browser bridge.
type Config struct {
	Bridge BridgeConfig `toml:"bridge" yaml:"bridge"`
}

// BridgeConfig configures the local HTTP/WebSocket bridge.
type BridgeConfig struct {
	Addr            string   `toml:"addr" yaml:"addr"`
	AllowedOrigins  []string `toml:"allowed_origins" yaml:"allowed_origins"`
	RateLimit       float64  `toml:"rate_limit" yaml:"rate_limit"` // messages per second per connection
	Burst           int      `toml:"burst" yaml:"burst"`
	MaxMessageBytes int64    `toml:"max_message_bytes" yaml:"max_message_bytes"`
}

// DefaultBridgeAddr is the loopback address the bridge listens on.
const DefaultBridgeAddr = "127.0.0.1:49453"

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() *Config {
	c := &Config{}
	c.setDefaultValues()
	return c
}

// GetPath returns the path to the user's config directory
func GetPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting user home directory: %w", err)
	}
	return filepath.Join(homeDir, "."+strings.ToLower(AppName)), nil
}

// GetFilename returns the path to the user's config file
func GetFilename() (string, error) {
	dir, err := GetPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// isYAML reports whether filename is a YAML config; anything else is TOML.
func isYAML(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads the configuration from filename, as YAML for .yaml/.yml files and TOML
// otherwise. A missing file yields the defaults; fields absent from the file keep
// their defaults.
func Load(filename string) (*Config, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if isYAML(filename) {
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("decoding YAML config: %w", err)
		}
	} else if _, err := toml.Decode(string(data), c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	c.fillMissing()
	return c, nil
}

// setDefaultValues sets default values for the configuration
func (c *Config) setDefaultValues() {
	c.Bridge = BridgeConfig{
		Addr:            DefaultBridgeAddr,
		AllowedOrigins:  []string{"*"},
		RateLimit:       20,
		Burst:           5,
		MaxMessageBytes: 32 << 20,
	}
}

// fillMissing restores defaults for values a config file zeroed out.
func (c *Config) fillMissing() {
	d := DefaultConfig().Bridge
	if c.Bridge.Addr == "" {
		c.Bridge.Addr = d.Addr
	}
	if len(c.Bridge.AllowedOrigins) == 0 {
		c.Bridge.AllowedOrigins = d.AllowedOrigins
	}
	if c.Bridge.RateLimit <= 0 {
		c.Bridge.RateLimit = d.RateLimit
	}
	if c.Bridge.Burst <= 0 {
		c.Bridge.Burst = d.Burst
	}
	if c.Bridge.MaxMessageBytes <= 0 {
		c.Bridge.MaxMessageBytes = d.MaxMessageBytes
	}
}

// Save writes the configuration to filename, creating its directory if needed.
func (c *Config) Save(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	if isYAML(filename) {
		enc := yaml.NewEncoder(f)
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("encoding YAML config: %w", err)
		}
		return enc.Close()
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// OriginAllowed reports whether a websocket Origin header may connect.
// An empty origin (non-browser client) is always allowed.
func (b BridgeConfig) OriginAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, o := range b.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
