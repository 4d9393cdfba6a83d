package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of a prepare run. Every field can also be set by a command line flag.
type Config struct {
	Input          string        `yaml:"input"`
	Delimiter      string        `yaml:"delimiter"`
	SplitOutput    string        `yaml:"split_output"`
	MetadataOutput string        `yaml:"metadata_output"`
	Format         string        `yaml:"format"` // gob (default) or msgpack
	Seed           uint64        `yaml:"seed"`
	TestFraction   float64       `yaml:"test_fraction"`
	MetricsFile    string        `yaml:"metrics_file"` // optional, prometheus textfile
	Logging        LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // info, error or debug
	Format string `yaml:"format"` // pretty or json
}

// Default returns a configuration with all defaults applied.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// Load reads a YAML configuration file. ${VAR} and ${VAR:-default} are expanded from the environment.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Delimiter == "" {
		c.Delimiter = ","
	}
	if c.SplitOutput == "" {
		c.SplitOutput = "processed_data.gob"
	}
	if c.MetadataOutput == "" {
		c.MetadataOutput = "model_metadata.gob"
	}
	if c.Format == "" {
		c.Format = "gob"
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
	if c.TestFraction == 0 {
		c.TestFraction = 0.2
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "pretty"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("test_fraction must be between 0 and 1, got %v", c.TestFraction)
	}
	if len([]rune(c.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	switch c.Format {
	case "gob", "msgpack":
	default:
		return fmt.Errorf("format must be \"gob\" or \"msgpack\", got %q", c.Format)
	}
	switch c.Logging.Level {
	case "info", "error", "debug":
	default:
		return fmt.Errorf("logging.level must be info, error or debug, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "pretty", "json":
	default:
		return fmt.Errorf("logging.format must be pretty or json, got %q", c.Logging.Format)
	}
	if c.SplitOutput == c.MetadataOutput {
		return fmt.Errorf("split_output and metadata_output must differ, both are %q", c.SplitOutput)
	}
	return nil
}

// DelimiterRune returns the input field delimiter.
func (c *Config) DelimiterRune() rune {
	return []rune(c.Delimiter)[0]
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
