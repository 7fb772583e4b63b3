package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/askdocs/askdocs/internal/config"
	"github.com/askdocs/askdocs/internal/document"
	"github.com/askdocs/askdocs/internal/ingest"
	"github.com/askdocs/askdocs/internal/llm"
	"github.com/askdocs/askdocs/internal/progress"
	"github.com/askdocs/askdocs/internal/rag"
)

var (
	importInclude []string
	importExclude []string
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import documents from a directory into the store",
	Long: `Walks a directory tree and saves every matching text file as a document.
The filename becomes the title and the relative path the source. Requires
sqlite storage so the imported documents survive the process.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if cfg.Storage != config.StorageSQLite {
			return fmt.Errorf("import requires sqlite storage, configured storage is %q", cfg.Storage)
		}

		store, dbPath, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}

		// The embedding strategy indexes a vector per imported document.
		var indexer document.Indexer
		if cfg.Strategy == config.StrategyEmbedding {
			client, err := llm.NewClient(cfg)
			if err != nil {
				return fmt.Errorf("creating embedding client: %w", err)
			}
			indexer = rag.NewEmbeddingStrategy(store, client)
		}

		files, err := ingest.Walk(ingest.WalkConfig{
			RootDir: args[0],
			Include: importInclude,
			Exclude: importExclude,
		})
		if err != nil {
			return fmt.Errorf("scanning %s: %w", args[0], err)
		}
		if len(files) == 0 {
			fmt.Fprintln(os.Stderr, "No matching files found.")
			return nil
		}

		ctx := context.Background()
		reporter := progress.NewReporter()
		reporter.Start(len(files))

		imported := 0
		for i, file := range files {
			reporter.Update(i+1, file.RelPath)

			content, err := os.ReadFile(file.Path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", file.RelPath, err)
				continue
			}

			doc, err := document.New(filepath.Base(file.Path), string(content), file.RelPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", file.RelPath, err)
				continue
			}

			saved, err := store.Save(ctx, doc)
			if err != nil {
				return fmt.Errorf("saving %s: %w", file.RelPath, err)
			}

			if indexer != nil {
				if err := indexer.IndexDocument(ctx, saved); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: indexing %s: %v\n", file.RelPath, err)
				}
			}

			imported++
		}
		reporter.Finish()

		fmt.Fprintf(os.Stderr, "Imported %d of %d files into %s\n", imported, len(files), dbPath)
		return nil
	},
}

func init() {
	importCmd.Flags().StringSliceVar(&importInclude, "include", nil, "glob patterns to include (default **/*.md, **/*.txt, **/*.rst)")
	importCmd.Flags().StringSliceVar(&importExclude, "exclude", nil, "glob patterns to exclude")
	rootCmd.AddCommand(importCmd)
}
