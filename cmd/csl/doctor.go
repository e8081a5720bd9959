package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/claude-session-log/internal/config"
	"github.com/Zuo-Peng/claude-session-log/internal/index"
	"github.com/Zuo-Peng/claude-session-log/internal/scan"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify the projects root, count logs, show cache stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Projects Root ===")
			checkDir("Projects", cfg.ProjectsRoot)

			fmt.Println("\n=== File Scan ===")
			dirs, err := scan.ProjectDirs(cfg.ProjectsRoot)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
			} else {
				total := 0
				for _, d := range dirs {
					files, err := scan.Sessions(filepath.Join(cfg.ProjectsRoot, d))
					if err != nil {
						continue
					}
					total += len(files)
				}
				fmt.Printf("  Project dirs:  %d\n", len(dirs))
				fmt.Printf("  Session files: %d\n", total)
			}

			fmt.Println("\n=== Cache ===")
			fmt.Printf("  Path: %s\n", cfg.CachePath)
			if !cfg.Cache {
				fmt.Println("  Config: disabled (enable with cache = true or --cached)")
			}
			if _, err := os.Stat(cfg.CachePath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (created on first cached listing)")
				return nil
			}

			c, err := index.Open(cfg.CachePath)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer c.Close()

			n, err := c.Count()
			if err != nil {
				return fmt.Errorf("count summaries: %w", err)
			}
			fmt.Printf("  Summaries: %d\n", n)

			if info, err := os.Stat(cfg.CachePath); err == nil {
				sizeMB := float64(info.Size()) / 1024 / 1024
				fmt.Printf("\n=== Cache Size: %.1f MB ===\n", sizeMB)
			}

			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
