// Package config assembles and (de)serializes the resolved types.Config
// record. The module itself only consumes a types.Config; this package
// supplies the loading boundary for the host binary and test fixtures,
// following the teacher's use of yaml.v3 for its own configuration and
// extending it with go-toml/v2 to exercise the project's helix.toml
// boundary.
package config

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/cuemby/helixdb/pkg/types"
)

// File is the on-disk, author-facing shape of a resolved config, using
// plain strings for the two optional pointer fields so it round-trips
// cleanly through both YAML and TOML.
type File struct {
	Vector struct {
		M              int    `yaml:"m" toml:"m"`
		EfConstruction int    `yaml:"ef_construction" toml:"ef_construction"`
		EfSearch       int    `yaml:"ef_search" toml:"ef_search"`
		Dimensions     int    `yaml:"dimensions" toml:"dimensions"`
		Metric         string `yaml:"metric" toml:"metric"`
	} `yaml:"vector_config" toml:"vector_config"`

	Graph struct {
		SecondaryIndices []IndexEntry `yaml:"secondary_indices" toml:"secondary_indices"`
	} `yaml:"graph_config" toml:"graph_config"`

	DBMaxSizeGB       uint16 `yaml:"db_max_size_gb" toml:"db_max_size_gb"`
	MCP               bool   `yaml:"mcp" toml:"mcp"`
	BM25              bool   `yaml:"bm25" toml:"bm25"`
	Schema            string `yaml:"schema" toml:"schema"`
	EmbeddingModel    string `yaml:"embedding_model" toml:"embedding_model"`
	GraphvisNodeLabel string `yaml:"graphvis_node_label" toml:"graphvis_node_label"`
}

// IndexEntry is one secondary index declaration, e.g. "unique:email" or
// "index:city".
type IndexEntry struct {
	Kind     string `yaml:"kind" toml:"kind"`
	Property string `yaml:"property" toml:"property"`
}

// LoadYAML reads and resolves a Config from a YAML file (used for test
// fixtures; the helixdb CLI has no flag that calls it).
func LoadYAML(path string) (types.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return types.Config{}, fmt.Errorf("parsing yaml config %s: %w", path, err)
	}
	return f.Resolve()
}

// LoadTOML reads and resolves a Config from a helix.toml file.
func LoadTOML(path string) (types.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return types.Config{}, fmt.Errorf("parsing toml config %s: %w", path, err)
	}
	return f.Resolve()
}

// Resolve converts the on-disk File shape into the runtime types.Config,
// defaulting HNSW tuning the way spec.md's defaults describe (M=16,
// ef_construction=128, ef_search=768) when the file leaves them at zero.
func (f File) Resolve() (types.Config, error) {
	metric := types.DistanceMetric(f.Vector.Metric)
	switch metric {
	case types.MetricCosine, types.MetricEuclidean, types.MetricDotProduct:
	case "":
		metric = types.MetricCosine
	default:
		return types.Config{}, fmt.Errorf("unknown distance metric %q", f.Vector.Metric)
	}

	vc := types.DefaultVectorConfig(f.Vector.Dimensions, metric)
	if f.Vector.M > 0 {
		vc.M = f.Vector.M
	}
	if f.Vector.EfConstruction > 0 {
		vc.EfConstruction = f.Vector.EfConstruction
	}
	if f.Vector.EfSearch > 0 {
		vc.EfSearch = f.Vector.EfSearch
	}

	indices := make([]types.SecondaryIndexDescriptor, 0, len(f.Graph.SecondaryIndices))
	for _, e := range f.Graph.SecondaryIndices {
		var kind types.SecondaryIndexKind
		switch e.Kind {
		case string(types.IndexUnique):
			kind = types.IndexUnique
		case string(types.IndexMulti):
			kind = types.IndexMulti
		default:
			return types.Config{}, fmt.Errorf("unknown secondary index kind %q for property %q", e.Kind, e.Property)
		}
		indices = append(indices, types.SecondaryIndexDescriptor{Property: e.Property, Kind: kind})
	}

	cfg := types.Config{
		VectorConfig: vc,
		GraphConfig:  types.GraphConfig{SecondaryIndices: indices},
		DBMaxSizeGB:  f.DBMaxSizeGB,
		MCP:          f.MCP,
		BM25:         f.BM25,
		Schema:       f.Schema,
	}
	if f.EmbeddingModel != "" {
		cfg.EmbeddingModel = &f.EmbeddingModel
	}
	if f.GraphvisNodeLabel != "" {
		cfg.GraphvisNodeLabel = &f.GraphvisNodeLabel
	}
	return cfg, nil
}
