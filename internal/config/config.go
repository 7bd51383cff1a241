package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up by the CLI
const FileName = "tracgen.yaml"

// ErrConfigNotFound is returned when no tracgen.yaml exists in the search path
var ErrConfigNotFound = errors.New("config file not found")

// Config represents the tracgen.yaml configuration file
type Config struct {
	// ImportPaths are the directories searched for .proto imports
	ImportPaths []string `yaml:"import_paths,omitempty"`

	// Files are the .proto files to generate, relative to an import path
	Files []string `yaml:"files,omitempty"`

	// Out is the directory generated files are written under
	Out string `yaml:"out,omitempty"`

	// Options are the generation options
	Options Options `yaml:"options,omitempty"`

	// Watch contains file watching configuration
	Watch WatchConfig `yaml:"watch,omitempty"`
}

// WatchConfig contains file watching configuration
type WatchConfig struct {
	Patterns []string `yaml:"patterns,omitempty"`
	Exclude  []string `yaml:"exclude,omitempty"`
}

// LoadConfig loads tracgen.yaml from the current directory or a parent directory
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return loadConfigFromDir(dir)
}

// LoadConfigFromPath loads the configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// DefaultConfig returns the configuration used when no tracgen.yaml exists
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Marshal encodes the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) applyDefaults() {
	if len(c.ImportPaths) == 0 {
		c.ImportPaths = []string{"."}
	}
	if c.Out == "" {
		c.Out = "./gen"
	}
	if len(c.Watch.Patterns) == 0 {
		c.Watch.Patterns = []string{"*.proto", "**/*.proto"}
	}
	if len(c.Watch.Exclude) == 0 {
		c.Watch.Exclude = []string{".git", "node_modules"}
	}
	c.Options = c.Options.WithDefaults()
}

// loadConfigFromDir searches for tracgen.yaml in the given directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			config, err := LoadConfigFromPath(configPath)
			if err != nil {
				return nil, "", err
			}
			return config, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("%w: no %s found in %s or any parent directory", ErrConfigNotFound, FileName, startDir)
}
