package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iamNilotpal/recordcomp/internal/core/domain"
)

type Config struct {
	Record RecordConfig `yaml:"record"`
}

// Holds record-layer compression configuration.
type RecordConfig struct {
	Method        string `yaml:"method"`          // Negotiated compression method ("null", "deflate")
	Level         int    `yaml:"level"`           // Compression effort (0-9)
	MaxRecordSize int    `yaml:"max_record_size"` // Ceiling for a compressed record
	MaxPlainSize  int    `yaml:"max_plain_size"`  // Ceiling for a decompressed record
}

// Returns a Config struct with reasonable default values. The ceilings
// default to the protocol's 16KB record limit.
func DefaultConfig() *Config {
	return &Config{
		Record: RecordConfig{
			Method:        "deflate",
			Level:         3,
			MaxRecordSize: 16 * 1024,
			MaxPlainSize:  16 * 1024,
		},
	}
}

// Loads configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Algorithm resolves the configured method name.
func (c *RecordConfig) Algorithm() (domain.Algorithm, error) {
	return domain.ParseAlgorithm(c.Method)
}

func validateConfig(config *Config) error {
	if _, err := domain.ParseAlgorithm(config.Record.Method); err != nil {
		return err
	}

	if config.Record.Level < 0 || config.Record.Level > 9 {
		return fmt.Errorf("level must be between 0 and 9, got %d", config.Record.Level)
	}

	if config.Record.MaxRecordSize <= 0 {
		return fmt.Errorf("max_record_size must be greater than 0, got %d", config.Record.MaxRecordSize)
	}

	if config.Record.MaxPlainSize <= 0 {
		return fmt.Errorf("max_plain_size must be greater than 0, got %d", config.Record.MaxPlainSize)
	}

	return nil
}
