// Package load reads generator configuration and schema sources and
// drives the parse-then-generate pipeline on behalf of the CLI.
package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name looked up when none is given.
const DefaultConfigFile = "typedql.yaml"

// Config describes one code generation run.
type Config struct {
	// Schema is the path of the SDL schema file.
	Schema string `yaml:"schema"`
	// Target is the directory generated code is written to.
	Target string `yaml:"target"`
	// Package overrides the generated package name. It defaults to the
	// base name of Target.
	Package string `yaml:"package"`
}

// FromFile reads a config file. Relative Schema and Target paths resolve
// against the directory holding the config file, so a run behaves the
// same from any working directory.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("typedql: read config: %w", err)
	}
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("typedql: config %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	cfg.Schema = resolvePath(dir, cfg.Schema)
	cfg.Target = resolvePath(dir, cfg.Target)
	return cfg, nil
}

func parseConfig(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the config names both ends of the pipeline.
func (c *Config) Validate() error {
	if c.Schema == "" {
		return errors.New("schema path is required")
	}
	if c.Target == "" {
		return errors.New("target directory is required")
	}
	return nil
}

func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
