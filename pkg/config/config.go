// Package config loads mwlctl settings from YAML
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpfielding/worklist.go/pkg/dicom"
	"github.com/jpfielding/worklist.go/pkg/dicom/transfer"
	"github.com/jpfielding/worklist.go/pkg/logging"
	"gopkg.in/yaml.v3"
)

// Config holds output and logging settings. Zero values fall back to Default.
type Config struct {
	Output Output `yaml:"output"`
	Log    Log    `yaml:"log"`
}

// Output controls how worklist files are written
type Output struct {
	Dir            string `yaml:"dir"`
	TransferSyntax string `yaml:"transferSyntax"` // implicit, explicit or a UID
	IncludeMeta    *bool  `yaml:"includeMeta"`
	Extension      string `yaml:"extension"`
	// UIDPrefix switches study UID generation from 2.25 UUIDs to an organization root
	UIDPrefix string `yaml:"uidPrefix"`
}

// Log controls the slog handler and optional rotating file
type Log struct {
	Level      string `yaml:"level"`
	JSON       bool   `yaml:"json"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// Default mirrors the layout an Orthanc worklist plugin reads: implicit VR
// little endian with a Part 10 header in ./worklists
func Default() Config {
	includeMeta := true
	return Config{
		Output: Output{
			Dir:            "worklists",
			TransferSyntax: "implicit",
			IncludeMeta:    &includeMeta,
			Extension:      dicom.GetExtension(),
		},
		Log: Log{
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// LoadFile reads path over the defaults. A missing file yields the defaults.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config file, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes YAML over the defaults and validates the result
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if _, err := cfg.Syntax(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Syntax resolves the configured transfer syntax
func (c Config) Syntax() (transfer.Syntax, error) {
	return transfer.Parse(c.Output.TransferSyntax)
}

// WithMeta reports whether files get a Part 10 header
func (c Config) WithMeta() bool {
	return c.Output.IncludeMeta == nil || *c.Output.IncludeMeta
}

// Level parses the configured log level
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

// Rotation maps the file settings onto a rotating log writer config
func (c Config) Rotation() logging.Rotation {
	return logging.Rotation{
		Filename:   c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
	}
}
