package cmd

import (
	"time"

	"github.com/harrison/simbuild/internal/build"
	"github.com/spf13/cobra"
)

// NewArgsCommand creates the args subcommand
func NewArgsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "args",
		Short: "Print the full compiler argument list for a simulator build",
		Long: `Assemble the complete compiler invocation arguments, one per line:
baseline and strategy flags, -D per macro, -I per include directory, then
every source file.

With --write the resolved build is also staged as build-manifest.json in the
output directory (created if missing) for the compiler driver to pick up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cmd, cfg)

			opts, err := buildOptions(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			plan, err := build.Assemble(opts)
			if err != nil {
				return err
			}
			log.LogPlan(plan, time.Since(start))
			warnVCS(log, cfg, plan.IncludeDirs)

			write, _ := cmd.Flags().GetBool("write")
			if write {
				manifest, err := plan.Stage(cmd.Context(), cfg.OutputDir)
				if err != nil {
					return err
				}
				log.LogStaged(cfg.OutputDir, manifest)
			}

			printLines(cmd.OutOrStdout(), plan.Args())
			return nil
		},
	}

	cmd.Flags().Bool("write", false, "Stage the build manifest in the output directory")

	return cmd
}
