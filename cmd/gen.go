package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/crabman-cli/crabman/internal/config"
	"github.com/crabman-cli/crabman/internal/db"
	"github.com/crabman-cli/crabman/internal/render"
	"github.com/crabman-cli/crabman/internal/rustdoc"
	"github.com/crabman-cli/crabman/internal/sink"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var genCmd = &cobra.Command{
	Use:   "gen [crate[@version] ...]",
	Short: "Generate man pages for crates",
	Long:  `Fetch rustdoc JSON from docs.rs (or read it from --input) and write one man page per documented item. Version defaults to "latest".`,
	Example: `  crabman gen serde
  crabman gen serde@1.0 tokio@1.0
  crabman gen --input target/doc/mycrate.json`,
	Run: runGen,
}

var (
	genInput   string
	genOut     string
	genSection int
	genGzip    bool
	genNoIndex bool
)

func init() {
	genCmd.Flags().StringVar(&genInput, "input", "", "read rustdoc JSON from a local file instead of docs.rs")
	genCmd.Flags().StringVar(&genOut, "out", "", "output directory (default from config)")
	genCmd.Flags().IntVar(&genSection, "section", 0, "man section number (default from config)")
	genCmd.Flags().BoolVar(&genGzip, "gzip", false, "gzip-compress generated pages")
	genCmd.Flags().BoolVar(&genNoIndex, "no-index", false, "skip updating the whatis index")
}

func runGen(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	outDir := cfg.Output.Dir
	if genOut != "" {
		outDir = genOut
	}
	section := cfg.Output.Section
	if genSection != 0 {
		section = genSection
	}
	gzipOut := cfg.Output.Gzip || genGzip

	if genInput == "" && len(args) == 0 {
		log.Fatalf("nothing to generate: pass crate names or --input")
	}

	var crates []*rustdoc.Crate
	if genInput != "" {
		crate, err := rustdoc.LoadFile(genInput)
		if err != nil {
			log.Fatalf("loading %s: %v", genInput, err)
		}
		crates = append(crates, crate)
	}

	// Fetches may overlap; the render pipeline itself stays sequential.
	if len(args) > 0 {
		fetched := make([]*rustdoc.Crate, len(args))
		g, _ := errgroup.WithContext(context.Background())
		g.SetLimit(4)
		for i, arg := range args {
			name, version, _ := strings.Cut(arg, "@")
			g.Go(func() error {
				crate, err := rustdoc.Acquire(name, version)
				if err != nil {
					return fmt.Errorf("%s: %w", arg, err)
				}
				fetched[i] = crate
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			log.Fatalf("fetching crates: %v", err)
		}
		crates = append(crates, fetched...)
	}

	out, err := sink.New(outDir, gzipOut)
	if err != nil {
		log.Fatalf("preparing output: %v", err)
	}

	for _, crate := range crates {
		pages, err := generate(crate, out, section)
		if err != nil {
			log.Fatalf("generating %s: %v", crate.Name(), err)
		}
		fmt.Printf("  %s@%s: %d pages written to %s\n", crate.Name(), crate.Version(), len(pages), outDir)

		if genNoIndex {
			continue
		}
		if err := updateIndex(crate, pages); err != nil {
			log.Fatalf("updating whatis index: %v", err)
		}
	}
}

// generate runs the full pipeline for one crate: resolve qualified paths,
// then assemble and write every page. Resolution completes before any
// rendering starts.
func generate(crate *rustdoc.Crate, out *sink.Sink, section int) ([]render.Page, error) {
	paths, err := render.Resolve(crate)
	if err != nil {
		return nil, err
	}

	asm := render.NewAssembler(crate, paths, section)
	pages, err := asm.Pages()
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		if _, err := out.Write(page.Name, page.Content); err != nil {
			return nil, err
		}
	}
	return pages, nil
}

func updateIndex(crate *rustdoc.Crate, pages []render.Page) error {
	database, err := db.New(config.DBPath())
	if err != nil {
		return err
	}
	defer database.Close()

	entries := make([]db.Entry, 0, len(pages))
	for _, page := range pages {
		entries = append(entries, db.Entry{
			Crate:     crate.Name(),
			Version:   crate.Version(),
			Qualified: page.Qualified,
			Kind:      page.Kind,
			Section:   page.Section,
			Summary:   page.Summary,
		})
	}
	return database.ReplaceCrate(crate.Name(), crate.Version(), entries)
}
