package config

// Config is the recognized key/value document of §6, deserialized from
// YAML.
type Config struct {
	ScaleBase     float32 `yaml:"scale_base"`
	LeafCutoff    int     `yaml:"leaf_cutoff"`
	MinResIndex   int32   `yaml:"min_res_index"`
	UseSingletons bool    `yaml:"use_singletons"`

	DataPath   string `yaml:"data_path"`
	LabelsPath string `yaml:"labels_path,omitempty"`

	Count   int  `yaml:"count"`
	DataDim int  `yaml:"data_dim"`
	InRAM   bool `yaml:"in_ram"`

	// Schema maps a label column name to one of "i32", "f32", "f64", "bool",
	// "string" (§6 schema key).
	Schema map[string]string `yaml:"schema,omitempty"`

	Verbosity uint8 `yaml:"verbosity"`
}

// Default returns a Config with the same defaults as
// covertree.DefaultBuildConfig, plus InRAM = true and Verbosity = 0.
func Default() Config {
	return Config{
		ScaleBase:     2,
		LeafCutoff:    1,
		MinResIndex:   -30,
		UseSingletons: true,
		InRAM:         true,
	}
}
