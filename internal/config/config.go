package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/countfunc/countfunc/internal/output"
	"github.com/countfunc/countfunc/internal/parser"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the count-func configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the count-func configuration directory
const ConfigDirName = ".count-func"

// Config holds all count-func configuration
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Parse    ParseConfig    `yaml:"parse"`
	Database DatabaseConfig `yaml:"database"`
}

// OutputConfig holds configuration for the final report
type OutputConfig struct {
	Format   string `yaml:"format"`
	PrintAll bool   `yaml:"print_all"`
	Sort     bool   `yaml:"sort"`
}

// ParseConfig holds configuration for the syntax front end
type ParseConfig struct {
	ASTDump bool `yaml:"ast_dump"`
	// HeaderLanguage picks the grammar for .h files when the compile
	// command does not decide it.
	HeaderLanguage string `yaml:"header_language"`
}

// DatabaseConfig holds configuration for compilation database lookup
type DatabaseConfig struct {
	BuildPath string `yaml:"build_path"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .count-func/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	return LoadFromPath(configPath)
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
// A missing file yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	merged := Merge(loaded, DefaultConfig())
	merged.Database.BuildPath = resolveBuildPath(path, merged.Database.BuildPath)

	if err := Validate(merged); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return merged, nil
}

// FindConfigDir locates the .count-func directory by walking up from startDir.
// Returns the path to the .count-func directory if found.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// Validate checks that config values are valid.
// Returns an error wrapping ErrInvalidConfig if validation fails.
func Validate(cfg *Config) error {
	if _, err := output.ParseFormat(cfg.Output.Format); err != nil {
		return fmt.Errorf("%w: output.format: %v", ErrInvalidConfig, err)
	}

	if _, err := parser.ParseLanguage(cfg.Parse.HeaderLanguage); err != nil {
		return fmt.Errorf("%w: parse.header_language: %v", ErrInvalidConfig, err)
	}

	if cfg.Database.BuildPath != "" {
		info, err := os.Stat(cfg.Database.BuildPath)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: database.build_path %q is not a directory",
				ErrInvalidConfig, cfg.Database.BuildPath)
		}
	}

	return nil
}

// resolveBuildPath makes a relative build path relative to the project
// root, which is the parent of the .count-func directory holding the
// config file, or the config file's own directory otherwise.
func resolveBuildPath(configPath, buildPath string) string {
	if buildPath == "" || filepath.IsAbs(buildPath) {
		return buildPath
	}
	base := filepath.Dir(configPath)
	if filepath.Base(base) == ConfigDirName {
		base = filepath.Dir(base)
	}
	return filepath.Join(base, buildPath)
}
