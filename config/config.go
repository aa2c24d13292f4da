// Package config loads bonddump settings from a TOML file.
//
// Values start from Default, are overlaid by keys that the file actually
// defines, and are finally overridden by command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/bond-reader/bond"
	"github.com/wippyai/bond-reader/errors"
	"github.com/wippyai/bond-reader/render"
	"github.com/wippyai/bond-reader/source"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "BONDDUMP_CONFIG"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the effective bonddump configuration.
type Config struct {
	Format          render.Format
	Color           string
	Compression     source.Compression
	MaxDepth        int
	DetectGUIDs     bool
	ProtocolVersion uint16
	LogLevel        zapcore.Level
	Header          bool
}

type fileConfig struct {
	Format          string `toml:"format"`
	Color           string `toml:"color"`
	Compression     string `toml:"compression"`
	MaxDepth        int    `toml:"max_depth"`
	DetectGUIDs     bool   `toml:"detect_guids"`
	ProtocolVersion int    `toml:"version"`
	LogLevel        string `toml:"log_level"`
	Header          bool   `toml:"header"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Format:          render.FormatText,
		Color:           ColorAuto,
		Compression:     source.CompressionAuto,
		MaxDepth:        bond.DefaultMaxDepth,
		DetectGUIDs:     true,
		ProtocolVersion: bond.ProtocolV2,
		LogLevel:        zapcore.WarnLevel,
	}
}

// Path returns the config file to load: explicit if set, otherwise the
// value of EnvPath. An empty result means no file.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return strings.TrimSpace(os.Getenv(EnvPath))
}

// Load returns Default overlaid with the keys defined in the file at path.
// An empty path yields Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "load "+path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.InvalidInput(errors.PhaseConfig,
			fmt.Sprintf("%s: unknown key %q", path, undecoded[0].String()))
	}

	if meta.IsDefined("format") {
		f, err := render.ParseFormat(strings.TrimSpace(raw.Format))
		if err != nil {
			return Config{}, err
		}
		cfg.Format = f
	}

	if meta.IsDefined("color") {
		cfg.Color = strings.TrimSpace(raw.Color)
	}

	if meta.IsDefined("compression") {
		c, err := source.ParseCompression(strings.TrimSpace(raw.Compression))
		if err != nil {
			return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse compression")
		}
		cfg.Compression = c
	}

	if meta.IsDefined("max_depth") {
		cfg.MaxDepth = raw.MaxDepth
	}

	if meta.IsDefined("detect_guids") {
		cfg.DetectGUIDs = raw.DetectGUIDs
	}

	if meta.IsDefined("version") {
		if raw.ProtocolVersion < 0 || raw.ProtocolVersion > 0xffff {
			return Config{}, errors.InvalidInput(errors.PhaseConfig,
				fmt.Sprintf("version %d out of range", raw.ProtocolVersion))
		}
		cfg.ProtocolVersion = uint16(raw.ProtocolVersion)
	}

	if meta.IsDefined("log_level") {
		lvl, err := zapcore.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse log_level")
		}
		cfg.LogLevel = lvl
	}

	if meta.IsDefined("header") {
		cfg.Header = raw.Header
	}

	return cfg, cfg.Validate()
}

// Validate checks values that can be set independently of each other.
func (c Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("color must be auto, always or never, got %q", c.Color))
	}
	if c.MaxDepth < 0 {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("max_depth must not be negative, got %d", c.MaxDepth))
	}
	if c.ProtocolVersion != bond.ProtocolV1 && c.ProtocolVersion != bond.ProtocolV2 {
		return errors.Unsupported(errors.PhaseConfig, fmt.Sprintf("protocol version %d", c.ProtocolVersion))
	}
	return nil
}

// DecodeOptions returns the decoder options for c.
func (c Config) DecodeOptions() []bond.Option {
	return []bond.Option{
		bond.WithMaxDepth(c.MaxDepth),
		bond.WithGUIDDetection(c.DetectGUIDs),
		bond.WithProtocolVersion(c.ProtocolVersion),
	}
}
