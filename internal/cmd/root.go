package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for simbuild
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simbuild",
		Short: "Resolve simulator build configuration for mbed applications",
		Long: `simbuild resolves the inputs of a browser simulator build for an mbed
application: the preprocessor macros derived from mbed_app.json, the include
directories and C/C++ sources of the source tree (minus anything matched by
the ignore file), and the compiler flags for the chosen execution strategy.

Configuration is loaded from .simbuild/config.yaml if present, then from
SIMBUILD_* environment variables (and a .env file). CLI flags win.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		// main reports the returned error
		SilenceErrors: true,
	}

	addConfigFlags(cmd)

	cmd.AddCommand(NewMacrosCommand())
	cmd.AddCommand(NewSourcesCommand())
	cmd.AddCommand(NewArgsCommand())

	return cmd
}
