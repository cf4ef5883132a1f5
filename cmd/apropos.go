package cmd

import (
	"fmt"
	"log"

	"github.com/crabman-cli/crabman/internal/config"
	"github.com/crabman-cli/crabman/internal/db"
	"github.com/spf13/cobra"
)

var aproposCmd = &cobra.Command{
	Use:   "apropos <term>",
	Short: "Search generated pages by name or summary",
	Example: `  crabman apropos deserialize
  crabman apropos --limit 5 reader`,
	Args: cobra.ExactArgs(1),
	Run:  runApropos,
}

var aproposLimit int

func init() {
	aproposCmd.Flags().IntVar(&aproposLimit, "limit", 20, "max results")
}

func runApropos(cmd *cobra.Command, args []string) {
	database, err := db.New(config.DBPath())
	if err != nil {
		log.Fatalf("opening whatis index: %v", err)
	}
	defer database.Close()

	entries, err := database.Apropos(args[0], aproposLimit)
	if err != nil {
		log.Fatalf("searching whatis index: %v", err)
	}

	if len(entries) == 0 {
		fmt.Println("nothing appropriate")
		return
	}

	for _, e := range entries {
		fmt.Printf("%s(%d) - %s\n", e.Qualified, e.Section, e.Summary)
	}
}
