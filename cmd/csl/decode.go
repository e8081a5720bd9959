package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/claude-session-log/internal/pathenc"
)

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <name>",
		Short: "Decode an encoded project directory name back to a path",
		Long: `Claude Code flattens a project path into a directory name by turning
"/", "." and "_" into "-". The reverse is ambiguous, so decoding walks
the filesystem and prefers segments that exist on disk; the remainder
falls back to treating every "-" as "/".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(pathenc.Decode(args[0]))
			return nil
		},
	}
}
