// Package config loads the compiler's own configuration — precision
// defaults, diagnostic rendering, cache location — the ambient layer
// spec.md's distillation omits (SPEC_FULL.md §6). Grounded on the
// teacher's eval_harness.LoadSpec (internal/eval_harness/spec.go):
// os.ReadFile plus gopkg.in/yaml.v3.Unmarshal into a plain tagged
// struct, with the same "absence is not an error, defaults apply"
// shape internal/manifest.Example fields use for their omitempty
// optionals.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sunholo/lumen/internal/layout"
	"github.com/sunholo/lumen/internal/types"
)

// DiagnosticFormat selects how internal/diagnostic.Report is rendered
// at the CLI boundary.
type DiagnosticFormat string

const (
	FormatText DiagnosticFormat = "text"
	FormatJSON DiagnosticFormat = "json"
)

// Config is the compiler configuration spec.md's "EXTERNAL INTERFACES"
// section names: an optional lumen.yaml read relative to the working
// directory, with hardcoded defaults when the file is absent.
type Config struct {
	CacheDir            string           `yaml:"cacheDir"`
	RocVersion          string           `yaml:"rocVersion"`
	DefaultIntPrecision string           `yaml:"defaultIntPrecision"`
	DiagnosticFormat    DiagnosticFormat `yaml:"diagnosticFormat"`
}

// Default returns the hardcoded configuration used when no lumen.yaml
// is present.
func Default() Config {
	return Config{
		CacheDir:            defaultCacheDir(),
		RocVersion:          "0.1.0",
		DefaultIntPrecision: "i64",
		DiagnosticFormat:    FormatText,
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir + "/lumen"
	}
	return ".lumen-cache"
}

// Load reads path (typically "lumen.yaml") and overlays its fields
// onto Default(). A missing file is not an error: Load returns
// Default() unchanged, per spec.md §6 ("absence of the file uses
// hardcoded defaults").
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	overlayNonZero(&cfg, overlay)
	return cfg, nil
}

func overlayNonZero(cfg *Config, overlay Config) {
	if overlay.CacheDir != "" {
		cfg.CacheDir = overlay.CacheDir
	}
	if overlay.RocVersion != "" {
		cfg.RocVersion = overlay.RocVersion
	}
	if overlay.DefaultIntPrecision != "" {
		cfg.DefaultIntPrecision = overlay.DefaultIntPrecision
	}
	if overlay.DiagnosticFormat != "" {
		cfg.DiagnosticFormat = overlay.DiagnosticFormat
	}
}

// precisionByName maps lumen.yaml's defaultIntPrecision strings to
// types.Precision, mirroring the suffix names the lexer itself accepts
// on integer literals (spec.md §4.2).
var precisionByName = map[string]types.Precision{
	"i8": types.PrecI8, "i16": types.PrecI16, "i32": types.PrecI32, "i64": types.PrecI64,
	"u8": types.PrecU8, "u16": types.PrecU16, "u32": types.PrecU32, "u64": types.PrecU64,
	"i128": types.PrecI128, "u128": types.PrecU128,
}

// LayoutDefaults resolves this config's DefaultIntPrecision into the
// layout.Defaults internal/interp and internal/layout consult for any
// literal the checker leaves with an unconstrained numeric precision.
// An unrecognized name falls back to layout.DefaultDefaults()'s i64.
func (c Config) LayoutDefaults() layout.Defaults {
	defaults := layout.DefaultDefaults()
	if p, ok := precisionByName[c.DefaultIntPrecision]; ok {
		defaults.IntPrecision = p
	}
	return defaults
}
