package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "atlas",
		Short: "Atlas - incremental knowledge-map engine",
		Long: `Atlas serves an organizational knowledge map as a live graph feed:
a snapshot on connect, deltas as the graph changes, and analytics
overlays for exploring who and what holds the map together.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the atlas version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("atlas %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
