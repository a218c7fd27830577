package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/elastic/goko/covertree"
	"github.com/elastic/goko/labels"
	"github.com/elastic/goko/pointstore"
)

// Load reads and validates the YAML configuration document at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &IoError{Path: path, Cause: err}
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &IoError{Path: path, Cause: err}
	}

	// resolution is an accepted alias for min_res_index (§6); only consult
	// it when the document has no min_res_index key.
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err == nil {
		if _, hasMinRes := raw["min_res_index"]; !hasMinRes {
			if node, hasRes := raw["resolution"]; hasRes {
				var resolution int32
				if err := node.Decode(&resolution); err == nil {
					cfg.MinResIndex = resolution
				}
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that every recognized key holds an acceptable value.
func (c Config) Validate() error {
	if c.ScaleBase <= 1 {
		return fmt.Errorf("%w: scale_base must be > 1, got %v", ErrInvalidConfig, c.ScaleBase)
	}
	if c.DataPath == "" {
		return fmt.Errorf("%w: data_path", ErrMissingKey)
	}
	if c.Count <= 0 {
		return fmt.Errorf("%w: count must be > 0, got %d", ErrInvalidConfig, c.Count)
	}
	if c.DataDim <= 0 {
		return fmt.Errorf("%w: data_dim must be > 0, got %d", ErrInvalidConfig, c.DataDim)
	}
	for name, typ := range c.Schema {
		if _, ok := columnTypes[typ]; !ok {
			return fmt.Errorf("%w: schema column %q has unrecognized type %q", ErrInvalidConfig, name, typ)
		}
	}

	return nil
}

var columnTypes = map[string]labels.ColumnType{
	"i32":    labels.ColumnI32,
	"f32":    labels.ColumnF32,
	"f64":    labels.ColumnF64,
	"bool":   labels.ColumnBool,
	"string": labels.ColumnString,
}

// ToBuildConfig projects the builder-relevant keys into a
// covertree.BuildConfig.
func (c Config) ToBuildConfig() covertree.BuildConfig {
	cfg := covertree.DefaultBuildConfig()
	cfg.ScaleBase = c.ScaleBase
	cfg.LeafCutoff = c.LeafCutoff
	cfg.MinResIndex = c.MinResIndex
	cfg.UseSingletons = c.UseSingletons
	cfg.Verbosity = c.Verbosity

	return cfg
}

// ToLabelsSchema projects the schema key into a labels.Schema.
func (c Config) ToLabelsSchema() labels.Schema {
	schema := make(labels.Schema, len(c.Schema))
	for name, typ := range c.Schema {
		schema[name] = columnTypes[typ]
	}

	return schema
}

// LoadStore opens the point store described by data_path/count/data_dim/
// in_ram, using metric for distance computations (nil defaults to L2).
func (c Config) LoadStore(metric pointstore.Metric) (*pointstore.Store, error) {
	if c.InRAM {
		data, err := os.ReadFile(c.DataPath)
		if err != nil {
			return nil, &IoError{Path: c.DataPath, Cause: err}
		}
		floats, err := pointstore.DecodeLittleEndianFloats(data)
		if err != nil {
			return nil, &IoError{Path: c.DataPath, Cause: err}
		}

		return pointstore.NewInRAM(floats, c.Count, c.DataDim, metric)
	}

	return pointstore.NewMemoryMapped(c.DataPath, c.Count, c.DataDim, metric)
}
