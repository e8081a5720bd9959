package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/claude-session-log/internal/config"
	"github.com/Zuo-Peng/claude-session-log/internal/index"
	"github.com/Zuo-Peng/claude-session-log/internal/listing"
	"github.com/Zuo-Peng/claude-session-log/internal/pathenc"
	"github.com/Zuo-Peng/claude-session-log/internal/scan"
)

func listCmd() *cobra.Command {
	var width int
	var cached bool

	cmd := &cobra.Command{
		Use:   "list [projectDir]",
		Short: "List sessions for a project, one selector-ready row per session",
		Long: `Prints four header lines and one row per session, most recent first.
Each row ends with a unit separator (0x1F) followed by the raw session
id, so a selector can display the columns and still return the id.

Without an argument the project directory is derived from the current
working directory under the configured projects root.

Pick interactively with fzf (Enter prints the session id):

  cclog() {
    local dir out key id
    dir="${1:-$HOME/.claude/projects/$(pwd | sed 's#[/._]#-#g')}"
    out=$(csl list "$dir" | fzf --ansi --header-lines=4 \
      --delimiter=$'\x1f' --with-nth=1 \
      --expect=ctrl-v,ctrl-p,ctrl-r \
      --preview "csl info $dir/{2}.jsonl; echo; csl view --color always $dir/{2}.jsonl" \
      --preview-window=right:50%:wrap) || return
    key=$(head -1 <<<"$out")
    id=$(tail -1 <<<"$out" | awk -F$'\x1f' '{print $2}')
    [ -n "$id" ] || return
    case "$key" in
      ctrl-v) csl view --color always "$dir/$id.jsonl" | less -R ;;
      ctrl-p) echo "$dir/$id.jsonl" ;;
      ctrl-r) claude --resume "$id" ;;
      *)      echo "$id" ;;
    esac
  }`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var dir string
			if len(args) == 1 {
				dir = args[0]
			} else {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolve working directory: %w", err)
				}
				dir = filepath.Join(cfg.ProjectsRoot, pathenc.Encode(cwd))
			}

			opts := listing.Options{Width: width}
			if cached || cfg.Cache {
				c, err := index.Open(cfg.CachePath)
				if err != nil {
					return fmt.Errorf("open cache: %w", err)
				}
				defer c.Close()
				defer pruneCache(c, dir)
				opts.Summarize = c.Summarize
			}
			return listing.Sessions(os.Stdout, dir, opts)
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Listing width in columns (0 = auto)")
	cmd.Flags().BoolVar(&cached, "cached", false, "Serve summaries from the cache when fresh")

	return cmd
}

// pruneCache drops cache rows for session files that no longer exist
// under dir. Best effort: a prune failure only warns.
func pruneCache(c *index.Cache, dir string) {
	files, err := scan.Sessions(dir)
	if err != nil {
		return
	}
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		seen[f.Path] = struct{}{}
	}
	if _, err := c.PruneDir(dir, seen); err != nil {
		fmt.Fprintf(os.Stderr, "WARN: prune cache: %v\n", err)
	}
}
