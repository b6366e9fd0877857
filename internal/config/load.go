package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML file. Pointer fields distinguish "unset" from zero.
type fileConfig struct {
	Theme         *string     `yaml:"theme"`
	HighContrast  *bool       `yaml:"high_contrast"`
	TabSize       *int        `yaml:"tab_size"`
	DateFormat    *string     `yaml:"date_format"`
	BatchSize     *int        `yaml:"batch_size"`
	DiffBatchSize *int        `yaml:"diff_batch_size"`
	ListRatio     *float64    `yaml:"list_ratio"`
	Keybindings   Keybindings `yaml:"keybindings"`
}

// DefaultPath returns the per-user config file location, or "" when the
// platform has no config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gitt", "config.yaml")
}

// Load reads the config file at path over the defaults. When path is empty the
// default location is used and a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := cfg.apply(data); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) apply(data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}

	if fc.Theme != nil {
		c.ThemePreset = ThemePreset(*fc.Theme)
	}
	if fc.HighContrast != nil {
		c.HighContrast = *fc.HighContrast
	}
	if fc.TabSize != nil {
		c.TabSize = *fc.TabSize
	}
	if fc.DateFormat != nil && *fc.DateFormat != "" {
		c.DateFormat = *fc.DateFormat
	}
	if fc.BatchSize != nil {
		c.BatchSize = *fc.BatchSize
	}
	if fc.DiffBatchSize != nil {
		c.DiffBatchSize = *fc.DiffBatchSize
	}
	if fc.ListRatio != nil {
		c.ListRatio = *fc.ListRatio
	}
	c.Keybindings = MergeKeybindings(fc.Keybindings)

	if err := c.Validate(); err != nil {
		return err
	}
	c.Theme = ThemeForPreset(c.ThemePreset, c.HighContrast)
	return nil
}
