package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "csl",
		Short:   "Claude Session Log - browse, view and export Claude Code conversation logs",
		Version: version,
	}

	rootCmd.AddCommand(viewCmd())
	rootCmd.AddCommand(infoCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(projectsCmd())
	rootCmd.AddCommand(decodeCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(exportFilteredCmd())
	rootCmd.AddCommand(exportAllFilteredCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
