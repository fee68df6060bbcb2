package cmd

import (
	"fmt"
	"io"

	"github.com/harrison/simbuild/internal/build"
	"github.com/harrison/simbuild/internal/config"
	"github.com/harrison/simbuild/internal/display"
	"github.com/harrison/simbuild/internal/flags"
	"github.com/harrison/simbuild/internal/logger"
	"github.com/spf13/cobra"
)

// addConfigFlags registers the flags shared by every subcommand.
func addConfigFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default: .simbuild/config.yaml)")
	pf.String("env-file", ".env", "Environment file loaded before SIMBUILD_* variables are read")
	pf.String("source", "", "Root of the source tree")
	pf.String("app-config", "", "Application configuration (mbed_app.json)")
	pf.String("ignore", "", "Ignore file with one regular expression per line")
	pf.String("out", "", "Output directory for the staged manifest")
	pf.String("strategy", "", "Execution strategy: asyncify or emterpretify")
	pf.String("target", "", "Target whose overrides are merged over \"*\"")
	pf.Bool("skip-vcs", false, "Skip .git and .hg directories while scanning")
	pf.String("log-level", "", "Log level: trace, debug, info, warn, error")
}

// loadConfig resolves configuration from file, environment and flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	fs := cmd.Flags()

	configPath, _ := fs.GetString("config")
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(".")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	envFile, _ := fs.GetString("env-file")
	if err := cfg.ApplyEnv(envFile); err != nil {
		return nil, err
	}

	stringFlag := func(name string) *string {
		if !fs.Changed(name) {
			return nil
		}
		v, _ := fs.GetString(name)
		return &v
	}

	var skipVCS *bool
	if fs.Changed("skip-vcs") {
		v, _ := fs.GetBool("skip-vcs")
		skipVCS = &v
	}

	cfg.MergeWithFlags(
		stringFlag("source"),
		stringFlag("app-config"),
		stringFlag("ignore"),
		stringFlag("out"),
		stringFlag("strategy"),
		stringFlag("target"),
		skipVCS,
		stringFlag("log-level"),
	)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger writes diagnostics to stderr so stdout stays machine readable.
func newLogger(cmd *cobra.Command, cfg *config.Config) logger.Logger {
	return logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
}

// buildOptions converts a validated configuration into build options.
func buildOptions(cfg *config.Config) (build.Options, error) {
	strategy, err := flags.ParseStrategy(cfg.Strategy)
	if err != nil {
		return build.Options{}, err
	}
	return build.Options{
		SourceDir:  cfg.SourceDir,
		AppConfig:  cfg.AppConfig,
		IgnoreFile: cfg.IgnoreFile,
		Target:     cfg.Target,
		Strategy:   strategy,
		SkipVCS:    cfg.SkipVCS,
		OutputDir:  cfg.OutputDir,
	}, nil
}

// warnVCS logs a warning when VCS directories were scanned.
func warnVCS(log logger.Logger, cfg *config.Config, dirs []string) {
	if cfg.SkipVCS {
		return
	}
	if w, ok := display.VCSWarning(dirs); ok {
		log.LogWarning(w)
	}
}

func printLines(w io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}
