package config

import (
	"errors"

	"fyne.io/fyne/v2"
)

// Preference keys.
const (
	KeyOutputDir  = "output_dir"
	KeyOpenFolder = "open_folder"
	KeyLogLevel   = "log_level"
)

// InkExtension is the file type offered by the picker.
const InkExtension = ".gif"

var (
	ErrNoOutputDir = errors.New("output directory not configured")
	ErrNoFilter    = errors.New("picker filter is empty")
)

type Config struct {
	OutputDir  string   // where JSON snapshots are written
	Filter     []string // picker extensions
	OpenFolder bool     // open OutputDir in the file browser after a load
	LogLevel   string
}

// Default returns the built-in configuration writing into outputDir.
func Default(outputDir string) Config {
	return Config{
		OutputDir:  outputDir,
		Filter:     []string{InkExtension},
		OpenFolder: true,
		LogLevel:   "info",
	}
}

// FromPreferences overlays stored preferences on base.
func FromPreferences(p fyne.Preferences, base Config) Config {
	cfg := base
	cfg.OutputDir = p.StringWithFallback(KeyOutputDir, base.OutputDir)
	cfg.OpenFolder = p.BoolWithFallback(KeyOpenFolder, base.OpenFolder)
	cfg.LogLevel = p.StringWithFallback(KeyLogLevel, base.LogLevel)
	return cfg
}

// Override applies non-empty command line values.
func (c Config) Override(outputDir, logLevel string) Config {
	if outputDir != "" {
		c.OutputDir = outputDir
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	return c
}

func (c Config) Validate() error {
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	if len(c.Filter) == 0 {
		return ErrNoFilter
	}
	return nil
}
