// Package config loads and validates the engine's YAML configuration
// document (§6): the key/value options that drive the point store, the
// tree builder, and the label schema.
package config
