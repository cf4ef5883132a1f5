package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crabman",
	Short: "Generate man pages from rustdoc JSON",
	Long:  `crabman converts a crate's rustdoc JSON index into one troff man page per documented item.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func init() {
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(aproposCmd)
	rootCmd.AddCommand(clearCacheCmd)
	rootCmd.AddCommand(mcpCmd)
}
