package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/claude-session-log/internal/parse"
	"github.com/Zuo-Peng/claude-session-log/internal/render"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show a one-screen summary of a session log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topics := parse.BuildTopicIndex(filepath.Dir(args[0]))
			sum, err := parse.Summarize(args[0], topics)
			if err != nil {
				return err
			}
			render.Info(os.Stdout, sum)
			return nil
		},
	}
}
