package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/lumen/internal/types"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "lumen.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverlaysProvidedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lumen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaultIntPrecision: i32\ndiagnosticFormat: json\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "i32", cfg.DefaultIntPrecision)
	require.Equal(t, FormatJSON, cfg.DiagnosticFormat)
	require.Equal(t, Default().CacheDir, cfg.CacheDir)
}

func TestLayoutDefaultsResolvesPrecision(t *testing.T) {
	cfg := Default()
	cfg.DefaultIntPrecision = "u32"
	defaults := cfg.LayoutDefaults()
	require.Equal(t, types.PrecU32, defaults.IntPrecision)
}

func TestLayoutDefaultsFallsBackOnUnknownPrecision(t *testing.T) {
	cfg := Default()
	cfg.DefaultIntPrecision = "not-a-precision"
	defaults := cfg.LayoutDefaults()
	require.Equal(t, layoutDefaultIntPrecision(), defaults.IntPrecision)
}

func layoutDefaultIntPrecision() types.Precision {
	return types.PrecI64
}
