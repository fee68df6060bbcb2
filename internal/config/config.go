package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/simbuild/internal/flags"
	"github.com/harrison/simbuild/internal/macro"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by ApplyEnv
const (
	EnvStrategy  = "SIMBUILD_STRATEGY"
	EnvLogLevel  = "SIMBUILD_LOG_LEVEL"
	EnvOutputDir = "SIMBUILD_OUTPUT_DIR"
)

// Config represents simbuild configuration options
type Config struct {
	// SourceDir is the root of the source tree to scan
	SourceDir string `yaml:"source_dir"`

	// AppConfig is the path of the application configuration (mbed_app.json)
	AppConfig string `yaml:"app_config"`

	// IgnoreFile is the path of the ignore-pattern file
	IgnoreFile string `yaml:"ignore_file"`

	// OutputDir is where the build manifest is staged
	OutputDir string `yaml:"output_dir"`

	// Strategy is the execution strategy (asyncify, emterpretify)
	Strategy string `yaml:"strategy"`

	// Target selects the target_overrides layer merged over "*"
	Target string `yaml:"target"`

	// SkipVCS prunes .git and .hg directories while scanning
	SkipVCS bool `yaml:"skip_vcs"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		SourceDir:  ".",
		AppConfig:  "mbed_app.json",
		IgnoreFile: ".simignore",
		OutputDir:  filepath.Join("BUILD", macro.SimulatorTarget),
		Strategy:   string(flags.Asyncify),
		Target:     macro.SimulatorTarget,
		SkipVCS:    false,
		LogLevel:   "info",
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if fileCfg.SourceDir != "" {
		cfg.SourceDir = fileCfg.SourceDir
	}
	if fileCfg.AppConfig != "" {
		cfg.AppConfig = fileCfg.AppConfig
	}
	if fileCfg.IgnoreFile != "" {
		cfg.IgnoreFile = fileCfg.IgnoreFile
	}
	if fileCfg.OutputDir != "" {
		cfg.OutputDir = fileCfg.OutputDir
	}
	if fileCfg.Strategy != "" {
		cfg.Strategy = fileCfg.Strategy
	}
	if fileCfg.Target != "" {
		cfg.Target = fileCfg.Target
	}
	if fileCfg.SkipVCS {
		cfg.SkipVCS = true
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .simbuild/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".simbuild", "config.yaml"))
}

// ApplyEnv loads envFile into the process environment (a missing file is
// ignored, existing variables are not overwritten) and applies SIMBUILD_*
// variables on top of the configuration.
func (c *Config) ApplyEnv(envFile string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	if v := strings.TrimSpace(os.Getenv(EnvStrategy)); v != "" {
		c.Strategy = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputDir)); v != "" {
		c.OutputDir = v
	}
	return nil
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(sourceDir, appConfig, ignoreFile, outputDir, strategy, target *string, skipVCS *bool, logLevel *string) {
	if sourceDir != nil {
		c.SourceDir = *sourceDir
	}
	if appConfig != nil {
		c.AppConfig = *appConfig
	}
	if ignoreFile != nil {
		c.IgnoreFile = *ignoreFile
	}
	if outputDir != nil {
		c.OutputDir = *outputDir
	}
	if strategy != nil {
		c.Strategy = *strategy
	}
	if target != nil {
		c.Target = *target
	}
	if skipVCS != nil {
		c.SkipVCS = *skipVCS
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return fmt.Errorf("source_dir cannot be empty")
	}
	if c.Target == "" {
		return fmt.Errorf("target cannot be empty")
	}

	if _, err := flags.ParseStrategy(c.Strategy); err != nil {
		return err
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	return nil
}
