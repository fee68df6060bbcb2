package cmd

import (
	"fmt"

	"github.com/harrison/simbuild/internal/build"
	"github.com/harrison/simbuild/internal/fileutil"
	"github.com/harrison/simbuild/internal/ignore"
	"github.com/spf13/cobra"
)

// NewSourcesCommand creates the sources subcommand
func NewSourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Print the include directories and source files of the source tree",
		Long: `Scan the source tree and print every directory followed by every .c/.cpp
file, in depth-first order, after removing paths matched by the ignore file.

Use --dirs or --files to print only one of the two lists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cmd, cfg)

			dirsOnly, _ := cmd.Flags().GetBool("dirs")
			filesOnly, _ := cmd.Flags().GetBool("files")
			if dirsOnly && filesOnly {
				return fmt.Errorf("cannot use both --dirs and --files")
			}

			exclude, err := build.OutputExclusions(cfg.SourceDir, cfg.OutputDir)
			if err != nil {
				return err
			}
			scanner := fileutil.NewScanner(fileutil.ScanOptions{SkipVCS: cfg.SkipVCS, Exclude: exclude})
			out := cmd.OutOrStdout()

			if !filesOnly {
				dirs, err := scanner.RecursiveDirectories(cfg.SourceDir)
				if err != nil {
					return err
				}
				kept, err := ignore.Filter(dirs, cfg.IgnoreFile)
				if err != nil {
					return err
				}
				log.LogDebug(fmt.Sprintf("Directories: %d scanned, %d ignored", len(dirs), len(dirs)-len(kept)))
				warnVCS(log, cfg, kept)
				printLines(out, kept)
			}

			if !dirsOnly {
				files, err := scanner.RecursiveSourceFiles(cfg.SourceDir)
				if err != nil {
					return err
				}
				kept, err := ignore.Filter(files, cfg.IgnoreFile)
				if err != nil {
					return err
				}
				log.LogDebug(fmt.Sprintf("Sources: %d scanned, %d ignored", len(files), len(files)-len(kept)))
				printLines(out, kept)
			}

			return nil
		},
	}

	cmd.Flags().Bool("dirs", false, "Print only directories")
	cmd.Flags().Bool("files", false, "Print only source files")

	return cmd
}
