package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/helixdb/pkg/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML_ResolvesDefaults(t *testing.T) {
	path := writeFile(t, "helix.yaml", `
vector_config:
  dimensions: 128
db_max_size_gb: 10
mcp: true
bm25: true
`)
	cfg, err := LoadYAML(path)
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.VectorConfig.M)
	assert.Equal(t, 128, cfg.VectorConfig.EfConstruction)
	assert.Equal(t, 768, cfg.VectorConfig.EfSearch)
	assert.Equal(t, types.MetricCosine, cfg.VectorConfig.Metric)
	assert.Equal(t, uint16(10), cfg.DBMaxSizeGB)
	assert.True(t, cfg.MCP)
	assert.True(t, cfg.BM25)
}

func TestLoadTOML_SecondaryIndices(t *testing.T) {
	path := writeFile(t, "helix.toml", `
[vector_config]
dimensions = 64
metric = "euclidean"

[graph_config]
[[graph_config.secondary_indices]]
kind = "unique"
property = "email"

[[graph_config.secondary_indices]]
kind = "index"
property = "city"
`)
	cfg, err := LoadTOML(path)
	require.NoError(t, err)

	assert.Equal(t, types.MetricEuclidean, cfg.VectorConfig.Metric)
	require.Len(t, cfg.GraphConfig.SecondaryIndices, 2)
	assert.Equal(t, types.IndexUnique, cfg.GraphConfig.SecondaryIndices[0].Kind)
	assert.Equal(t, "email", cfg.GraphConfig.SecondaryIndices[0].Property)
}

func TestResolve_UnknownMetricRejected(t *testing.T) {
	f := File{}
	f.Vector.Metric = "manhattan"
	_, err := f.Resolve()
	assert.Error(t, err)
}
