package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/claude-session-log/internal/config"
	"github.com/Zuo-Peng/claude-session-log/internal/index"
	"github.com/Zuo-Peng/claude-session-log/internal/listing"
)

func projectsCmd() *cobra.Command {
	var width int
	var cached bool

	cmd := &cobra.Command{
		Use:   "projects [root]",
		Short: "List project directories under the Claude Code projects root",
		Long: `Prints two header lines and one row per project directory, most
recently active first. Each row ends with a unit separator (0x1F)
followed by the encoded directory name.

Pick a project with fzf and list its sessions:

  ccproj() {
    local row name
    row=$(csl projects | fzf --ansi --header-lines=2 \
      --delimiter=$'\x1f' --with-nth=1) || return
    name=$(awk -F$'\x1f' '{print $2}' <<<"$row")
    [ -n "$name" ] && csl list "$HOME/.claude/projects/$name"
  }`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			root := cfg.ProjectsRoot
			if len(args) == 1 {
				root = args[0]
			}

			opts := listing.Options{Width: width}
			if cached || cfg.Cache {
				c, err := index.Open(cfg.CachePath)
				if err != nil {
					return fmt.Errorf("open cache: %w", err)
				}
				defer c.Close()
				opts.Summarize = c.Summarize
			}
			return listing.Projects(os.Stdout, root, opts)
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Listing width in columns (0 = auto)")
	cmd.Flags().BoolVar(&cached, "cached", false, "Serve summaries from the cache when fresh")

	return cmd
}
