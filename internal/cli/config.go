package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/tablescape/foodweb/pkg/layout"
)

// =============================================================================
// Config
// =============================================================================

// Config holds user-tunable settings loaded from a TOML file. Command-line
// flags override config values, which override the built-in defaults.
type Config struct {
	// Dataset is the default dataset path or URL used when a command is not
	// given one explicitly.
	Dataset string `toml:"dataset"`

	// Width and Height set the layout frame in pixels.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// Seed drives the deterministic scatter of unanchored factor nodes.
	Seed int64 `toml:"seed"`

	Server ServerConfig `toml:"server"`

	// Colors overrides category colors, keyed by group name.
	Colors map[string]string `toml:"colors"`

	// CacheDir overrides the XDG cache location for render artifacts.
	CacheDir string `toml:"cache_dir"`
}

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`

	// Redis is an optional Redis address for shared session storage.
	// When empty, sessions live in process memory.
	Redis string `toml:"redis"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Width:  layout.DefaultWidth,
		Height: layout.DefaultHeight,
		Seed:   int64(layout.DefaultSeed),
		Server: ServerConfig{Addr: ":8080"},
	}
}

// LoadConfig reads the config file at path, falling back to the default
// location (~/.config/foodweb/config.toml). A missing file is not an error;
// the defaults are returned.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
	}

	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("load config %s: width and height must be positive", path)
	}
	return cfg, nil
}

// Frame returns the configured layout frame.
func (c *Config) Frame() layout.Frame {
	return layout.Frame{Width: float64(c.Width), Height: float64(c.Height)}
}

// defaultConfigPath returns the XDG config location (~/.config/foodweb/config.toml).
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
