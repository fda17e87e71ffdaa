// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "DAGCAR_CONFIG"

// Config is the master configuration for dagcar.
type Config struct {
	// Codec selects block encodings.
	Codec CodecConfig `yaml:"codec"`

	// Hash is the multihash function name for every block CID.
	// Default: sha2-256
	Hash string `yaml:"hash"`

	// Workers bounds concurrent block encodes. Zero means one per CPU.
	Workers int `yaml:"workers"`

	// Container configures the container file.
	Container ContainerConfig `yaml:"container"`

	// Schema configures the schema gate.
	Schema SchemaConfig `yaml:"schema"`

	// Input configures where the assembly comes from.
	Input InputConfig `yaml:"input"`

	// Log configures diagnostic output.
	Log LogConfig `yaml:"log"`
}

// CodecConfig selects block encodings by multicodec name.
type CodecConfig struct {
	// Component encodes each component block.
	// Values: "dag-json", "dag-cbor". Default: dag-json
	Component string `yaml:"component"`

	// Root encodes the link list. Empty means the component codec.
	Root string `yaml:"root"`
}

// ContainerConfig configures the container file.
type ContainerConfig struct {
	// Path is where run and build write the container.
	// Default: assembly.car
	Path string `yaml:"path"`

	// Compression frames the written container.
	// Values: "none", "lz4", "zstd". Default: none
	Compression string `yaml:"compression"`

	// MaxSectionSize bounds a single section when reading.
	// Default: 33554432 (32 MiB)
	MaxSectionSize int `yaml:"max_section_size"`

	// SkipVerify loads blocks without recomputing their CIDs.
	SkipVerify bool `yaml:"skip_verify"`
}

// SchemaConfig configures the schema gate.
type SchemaConfig struct {
	// Path is a CUE schema file. Empty means the built-in schema.
	Path string `yaml:"path"`

	// Type is the definition an assembly must satisfy.
	// Default: Assembly
	Type string `yaml:"type"`
}

// InputConfig configures the assembly input.
type InputConfig struct {
	// Path is a JSON (comments allowed) file holding the assembly.
	// Empty means the built-in sample.
	Path string `yaml:"path"`
}

// LogConfig configures diagnostic output.
type LogConfig struct {
	// Level is the minimum slog level.
	// Values: "debug", "info", "warn", "error". Default: info
	Level string `yaml:"level"`
}

var (
	componentCodecs = []string{"dag-json", "dag-cbor"}
	hashNames       = []string{"sha2-256", "blake3", "blake2b-256"}
	compressions    = []string{"none", "lz4", "zstd"}
	logLevels       = []string{"debug", "info", "warn", "error"}
)

// Default returns the default configuration. Every field a file leaves
// out keeps its value from here.
func Default() *Config {
	return &Config{
		Codec: CodecConfig{
			Component: "dag-json",
		},
		Hash: "sha2-256",
		Container: ContainerConfig{
			Path:           "assembly.car",
			Compression:    "none",
			MaxSectionSize: 32 << 20,
		},
		Schema: SchemaConfig{
			Type: "Assembly",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the DAGCAR_CONFIG environment
// variable. It fails if the variable is not set.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your dagcar.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// Resolve picks the configuration source: flagPath if non-empty, else
// DAGCAR_CONFIG if set, else Default.
func Resolve(flagPath string) (*Config, error) {
	if flagPath != "" {
		return LoadFile(flagPath)
	}
	if os.Getenv(EnvironmentVariable) != "" {
		return Load()
	}
	return Default(), nil
}

// LoadFile loads configuration from a specific file path. Unknown keys
// are an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg.expandVariables(filepath.Dir(path))
	return cfg, nil
}

// loadFile decodes a single configuration file over the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables(configDir string) {
	vars := map[string]string{
		"CONFIG_DIR": configDir,
		"HOME":       os.Getenv("HOME"),
	}

	c.Container.Path = expandVars(c.Container.Path, vars)
	c.Schema.Path = expandVars(c.Schema.Path, vars)
	c.Input.Path = expandVars(c.Input.Path, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// RootCodec returns the root codec name, falling back to the component
// codec.
func (c *Config) RootCodec() string {
	if c.Codec.Root == "" {
		return c.Codec.Component
	}
	return c.Codec.Root
}

// Validate checks the configuration for errors. Every problem is
// reported, not just the first.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(componentCodecs, c.Codec.Component) {
		errs = append(errs, fmt.Errorf("codec.component must be one of: %v", componentCodecs))
	}
	if c.Codec.Root != "" && !slices.Contains(componentCodecs, c.Codec.Root) {
		errs = append(errs, fmt.Errorf("codec.root must be empty or one of: %v", componentCodecs))
	}

	if !slices.Contains(hashNames, c.Hash) {
		errs = append(errs, fmt.Errorf("hash must be one of: %v", hashNames))
	}

	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}

	if c.Container.Path == "" {
		errs = append(errs, errors.New("container.path is required"))
	}
	if !slices.Contains(compressions, c.Container.Compression) {
		errs = append(errs, fmt.Errorf("container.compression must be one of: %v", compressions))
	}
	if c.Container.MaxSectionSize <= 0 {
		errs = append(errs, fmt.Errorf("container.max_section_size must be positive, got %d", c.Container.MaxSectionSize))
	}

	if c.Schema.Type == "" {
		errs = append(errs, errors.New("schema.type is required"))
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", logLevels))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
