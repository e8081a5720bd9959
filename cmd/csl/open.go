package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/claude-session-log/internal/open"
)

func openCmd() *cobra.Command {
	var line int

	cmd := &cobra.Command{
		Use:   "open <file>",
		Short: "Open the raw JSONL log in $EDITOR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return open.File(args[0], line)
		},
	}

	cmd.Flags().IntVar(&line, "line", 1, "Line to jump to")

	return cmd
}
