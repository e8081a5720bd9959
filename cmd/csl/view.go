package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/claude-session-log/internal/config"
	"github.com/Zuo-Peng/claude-session-log/internal/render"
)

func viewCmd() *cobra.Command {
	var color string
	var width int

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Render a session log as a colorized conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if color == "" {
				color = cfg.Color
			}
			return render.Session(os.Stdout, args[0], render.Options{
				Color: resolveColor(color),
				Width: width,
			})
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Color output: auto, always or never (default from config)")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap lines at this many columns (0 = no wrap)")

	return cmd
}

// resolveColor maps a color mode onto stdout: "always" and "never" are
// unconditional, anything else colors only a terminal.
func resolveColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}
