package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elastic/goko/config"
	"github.com/elastic/goko/labels"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeTempConfig(t, `
scale_base: 2.0
leaf_cutoff: 4
resolution: -20
use_singletons: true
data_path: data.bin
count: 100
data_dim: 8
in_ram: true
schema:
  label: string
  score: f64
  weight: f32
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.EqualValues(t, -20, cfg.MinResIndex)
	require.Equal(t, 100, cfg.Count)

	bc := cfg.ToBuildConfig()
	require.Equal(t, float32(2.0), bc.ScaleBase)
	require.EqualValues(t, -20, bc.MinResIndex)

	schema := cfg.ToLabelsSchema()
	require.Len(t, schema, 3)
	require.Equal(t, labels.ColumnF32, schema["weight"])
}

func TestLoadRejectsBadScaleBase(t *testing.T) {
	path := writeTempConfig(t, `
scale_base: 1.0
data_path: data.bin
count: 10
data_dim: 4
`)

	_, err := config.Load(path)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoadRejectsMissingDataPath(t *testing.T) {
	path := writeTempConfig(t, `
scale_base: 2.0
count: 10
data_dim: 4
`)

	_, err := config.Load(path)
	require.ErrorIs(t, err, config.ErrMissingKey)
}

func TestLoadRejectsUnknownSchemaType(t *testing.T) {
	path := writeTempConfig(t, `
scale_base: 2.0
data_path: data.bin
count: 10
data_dim: 4
schema:
  label: decimal
`)

	_, err := config.Load(path)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}
