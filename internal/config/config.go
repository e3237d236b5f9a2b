// Package config loads and live-reloads frontend settings. The file is
// TOML by default with a YAML fallback, found under the user config dir.
// A reload publishes on the event bus so the font context and dependent
// caches refresh without polling.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FontConfig selects the typeface and shaping options.
type FontConfig struct {
	// Family is the font family name, empty for the platform default.
	Family string `toml:"family" yaml:"family"`

	// Size is the point size.
	Size float64 `toml:"size" yaml:"size"`

	// Features are OpenType feature tags ("liga", "calt=0").
	Features []string `toml:"features" yaml:"features"`

	// Linespace adds extra pixels between lines, split above and below.
	Linespace float64 `toml:"linespace" yaml:"linespace"`
}

// Config is the root of the settings file.
type Config struct {
	Font FontConfig `toml:"font" yaml:"font"`

	// CtermColors substitutes the 16-color terminal palette for the
	// default colors, matching a terminal-derived colorscheme.
	CtermColors bool `toml:"cterm_colors" yaml:"cterm_colors"`
}

// Equal reports whether two configurations match field by field.
func (c Config) Equal(other Config) bool {
	if c.CtermColors != other.CtermColors {
		return false
	}
	if c.Font.Family != other.Font.Family || c.Font.Size != other.Font.Size || c.Font.Linespace != other.Font.Linespace {
		return false
	}
	if len(c.Font.Features) != len(other.Font.Features) {
		return false
	}
	for i, f := range c.Font.Features {
		if f != other.Font.Features[i] {
			return false
		}
	}
	return true
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Font: FontConfig{
			Size: 12,
		},
	}
}

// Dir returns the user config directory. NEOVIEW_CONFIG_HOME overrides,
// then XDG_CONFIG_HOME, then ~/.config.
func Dir() string {
	if dir := os.Getenv("NEOVIEW_CONFIG_HOME"); dir != "" {
		return dir
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "neoview")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "neoview")
}

// DefaultPath returns the first settings file that exists under Dir, or
// the TOML path if none does yet.
func DefaultPath() string {
	dir := Dir()
	candidates := []string{"config.toml", "config.yaml", "config.yml"}
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(dir, "config.toml")
}

// Load reads a settings file. A missing file is not an error: it returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("parse yaml config: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("parse toml config: %w", err)
		}
	}
	return cfg, nil
}
