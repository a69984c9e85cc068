package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".urlscope"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Settings holds the tunable defaults a configuration file can carry.
// Every field mirrors a CLI flag; explicit flags always win over the file.
type Settings struct {
	// Compact disables pretty-printed JSON output.
	Compact bool `yaml:"compact,omitempty"`

	// Array emits batch results as a single JSON array.
	Array bool `yaml:"array,omitempty"`

	// Nested enables embedded URL scanning.
	Nested bool `yaml:"nested,omitempty"`

	// Markdown selects Markdown report output.
	Markdown bool `yaml:"markdown,omitempty"`

	// Text selects human-readable text output.
	Text bool `yaml:"text,omitempty"`

	// Domains selects the registrable domain list output.
	Domains bool `yaml:"domains,omitempty"`

	// IncludeSubdomains keeps full hosts in the domain list.
	IncludeSubdomains bool `yaml:"includeSubdomains,omitempty"`

	// Save persists records to the history database.
	Save bool `yaml:"save,omitempty"`

	// BatchSize is the number of concurrent analyses.
	BatchSize int `yaml:"batchSize,omitempty"`

	// SuffixList is a path to a public suffix list file.
	SuffixList string `yaml:"suffixList,omitempty"`

	// DBDir is the history database directory.
	DBDir string `yaml:"dbDir,omitempty"`
}

// File represents the structure of the .urlscope configuration file.
type File struct {
	// Defaults contains default settings applied to every invocation
	// unless overridden by CLI flags.
	Defaults Settings `yaml:"defaults,omitempty"`
}

// LoadConfigFile loads defaults from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .urlscope in the current directory
// 3. Look for .urlscope in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
