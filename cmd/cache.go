package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/crabman-cli/crabman/internal/config"
	"github.com/spf13/cobra"
)

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Remove cached rustdoc JSON and the whatis index",
	Run:   runClearCache,
}

func runClearCache(cmd *cobra.Command, args []string) {
	if err := os.RemoveAll(config.JSONCacheDir()); err != nil {
		log.Fatalf("removing json cache: %v", err)
	}
	if err := os.Remove(config.DBPath()); err != nil && !os.IsNotExist(err) {
		log.Fatalf("removing whatis index: %v", err)
	}
	fmt.Println("cache cleared")
}
