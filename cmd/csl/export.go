package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/claude-session-log/internal/config"
	"github.com/Zuo-Peng/claude-session-log/internal/export"
	"github.com/Zuo-Peng/claude-session-log/internal/pathenc"
)

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file> [outDir]",
		Short: "Export a session log to Markdown",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args, export.Options{})
		},
	}
}

func exportFilteredCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-filtered <file> [outDir]",
		Short: "Export a session log to Markdown, dropping empty turns",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args, export.Options{FilterEmpty: true})
		},
	}
}

// runExport writes one file and prints the resulting path, so shell
// wrappers can open it directly.
func runExport(args []string, opts export.Options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	outDir := cfg.ExportDir
	if len(args) == 2 {
		outDir = args[1]
	}
	out, err := export.Session(args[0], outDir, opts)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func exportAllFilteredCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-all-filtered [projectDir] [outDir]",
		Short: "Export every session in a project to Markdown, dropping empty turns",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var dir string
			if len(args) >= 1 {
				dir = args[0]
			} else {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolve working directory: %w", err)
				}
				dir = filepath.Join(cfg.ProjectsRoot, pathenc.Encode(cwd))
			}
			outDir := cfg.ExportDir
			if len(args) == 2 {
				outDir = args[1]
			}

			stats, err := export.All(dir, outDir, export.Options{FilterEmpty: true}, os.Stderr)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)
			return nil
		},
	}
}
