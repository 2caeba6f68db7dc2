package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/obegron/jtable/internal/convert"
	"github.com/obegron/jtable/internal/copier"
	"github.com/obegron/jtable/internal/errors"
	"github.com/obegron/jtable/internal/pretty"
	"github.com/obegron/jtable/internal/render"
)

// Config represents the complete configuration for jtable
type Config struct {
	Format     string        `yaml:"format"`
	Classifier string        `yaml:"classifier"`
	Numbers    string        `yaml:"numbers"`
	Clipboard  string        `yaml:"clipboard"`
	Table      TableConfig   `yaml:"table"`
	Palette    PaletteConfig `yaml:"palette"`
	Log        LogConfig     `yaml:"log"`
}

// TableConfig controls table chrome
type TableConfig struct {
	Borders bool `yaml:"borders"`
	Color   bool `yaml:"color"`
}

// PaletteConfig holds the highlight colors, as hex or ANSI color numbers
type PaletteConfig struct {
	Numeric string `yaml:"numeric"`
	String  string `yaml:"string"`
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Verbosity int    `yaml:"verbosity"`
	File      string `yaml:"file"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Format:     "table",
		Classifier: "structural",
		Numbers:    "canonical",
		Clipboard:  "auto",
		Table: TableConfig{
			Borders: true,
			Color:   true,
		},
		Palette: PaletteConfig{
			Numeric: "#ef9f76",
			String:  "#a6d189",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in the current directory and its parents
func FindConfigFile() string {
	configNames := []string{".jtable.yml", ".jtable.yaml", "jtable.yml", "jtable.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that every named option is known
func (c *Config) Validate() error {
	if _, err := render.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := convert.ParseMode(c.Classifier); err != nil {
		return err
	}
	if _, err := pretty.ParseNumbers(c.Numbers); err != nil {
		return err
	}
	if _, err := copier.ClipboardFor(c.Clipboard, nil); err != nil {
		return err
	}
	return nil
}

// ConvertOptions returns the conversion settings
func (c *Config) ConvertOptions() (convert.Options, error) {
	mode, err := convert.ParseMode(c.Classifier)
	if err != nil {
		return convert.Options{}, err
	}
	numbers, err := pretty.ParseNumbers(c.Numbers)
	if err != nil {
		return convert.Options{}, err
	}
	return convert.Options{Mode: mode, Numbers: numbers}, nil
}

// Overrides holds command-line values. Zero values leave the file
// configuration untouched.
type Overrides struct {
	Format     string
	Classifier string
	Numbers    string
	Clipboard  string
	NoColor    bool
	NoBorders  bool
	Verbosity  int
	LogFile    string
}

// Apply merges CLI overrides into the config
func (c *Config) Apply(o Overrides) {
	if o.Format != "" {
		c.Format = o.Format
	}
	if o.Classifier != "" {
		c.Classifier = o.Classifier
	}
	if o.Numbers != "" {
		c.Numbers = o.Numbers
	}
	if o.Clipboard != "" {
		c.Clipboard = o.Clipboard
	}
	if o.NoColor {
		c.Table.Color = false
	}
	if o.NoBorders {
		c.Table.Borders = false
	}
	if o.Verbosity > c.Log.Verbosity {
		c.Log.Verbosity = o.Verbosity
	}
	if o.LogFile != "" {
		c.Log.File = o.LogFile
	}
}

// Load reads path, or the nearest config file when path is empty, and
// applies the overrides on top
func Load(path string, o Overrides) (*Config, error) {
	cfg := NewConfig()
	if path == "" {
		path = FindConfigFile()
	}
	if path != "" {
		fileConfig, err := LoadConfig(path)
		if err != nil {
			return nil, errors.NewConfigError(path, err)
		}
		cfg = fileConfig
	}
	cfg.Apply(o)
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError("invalid option", err)
	}
	return cfg, nil
}
