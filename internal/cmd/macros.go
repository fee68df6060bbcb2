package cmd

import (
	"fmt"

	"github.com/harrison/simbuild/internal/macro"
	"github.com/spf13/cobra"
)

// NewMacrosCommand creates the macros subcommand
func NewMacrosCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "macros",
		Short: "Print the macros resolved from the application configuration",
		Long: `Resolve the application configuration into preprocessor macros, one per line.

Resolution order:
  1. every "config" parameter as MBED_CONF_APP_<KEY>[=value]
  2. every literal in "macros"
  3. "target_overrides" for "*" and the target, re-appended at the end

A missing application configuration resolves to no macros.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cmd, cfg)

			set, err := macro.ResolveTarget(cfg.AppConfig, cfg.Target)
			if err != nil {
				return err
			}
			log.LogDebug(fmt.Sprintf("Resolved %d macros from %s for %s", set.Len(), cfg.AppConfig, cfg.Target))

			defines, _ := cmd.Flags().GetBool("defines")
			if defines {
				printLines(cmd.OutOrStdout(), set.CompilerFlags())
			} else {
				printLines(cmd.OutOrStdout(), set.Strings())
			}
			return nil
		},
	}

	cmd.Flags().Bool("defines", false, "Print each macro as a -D compiler argument")

	return cmd
}
