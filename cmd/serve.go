package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/askdocs/askdocs/internal/config"
	"github.com/askdocs/askdocs/internal/db"
	"github.com/askdocs/askdocs/internal/document"
	"github.com/askdocs/askdocs/internal/llm"
	"github.com/askdocs/askdocs/internal/rag"
	"github.com/askdocs/askdocs/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the askdocs HTTP server",
	Long:  `Starts the askdocs question-answering server with the document and RAG query REST APIs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if servePort != 0 {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		// Open the document store.
		store, dbPath, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}

		// Create generation client. Mock and simple strategies answer with
		// template responses when no API key is configured; the embedding
		// strategy cannot run without one.
		client, err := llm.NewClient(cfg)
		if err != nil {
			if cfg.Strategy == config.StrategyEmbedding {
				return fmt.Errorf("creating generation client: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			fmt.Fprintln(os.Stderr, "Serving template answers without a generation backend.")
		}

		strategy, indexer := buildStrategy(cfg, store, client)

		orch := rag.NewOrchestrator(strategy, client, rag.GenerationParams{
			Temperature: float32(cfg.Temperature),
			MaxTokens:   cfg.MaxTokens,
			Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		})

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
		})

		r := srv.Router()
		document.RegisterRoutes(r, store, indexer)
		rag.RegisterRoutes(r, orch)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "askdocs server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Strategy: %s\n", cfg.Strategy)
		fmt.Fprintf(os.Stderr, "  Storage: %s\n", cfg.Storage)
		if dbPath != "" {
			fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		}

		return srv.Start()
	},
}

// openStore opens the configured document store. The returned path is
// empty for the in-memory store.
func openStore(cfg *config.Config) (document.Store, string, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		dbPath := filepath.Join(cfg.DataDir, "askdocs.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return nil, "", err
		}
		return document.NewSQLiteStore(database), dbPath, nil
	default:
		store, err := document.NewMemoryStore()
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	}
}

// buildStrategy creates the configured retrieval strategy. The indexer is
// non-nil only for the embedding strategy, which maintains a vector per
// document on create.
func buildStrategy(cfg *config.Config, store document.Store, client llm.Client) (rag.Strategy, document.Indexer) {
	switch cfg.Strategy {
	case config.StrategyEmbedding:
		s := rag.NewEmbeddingStrategy(store, client)
		return s, s
	case config.StrategySimple:
		return rag.NewSimpleStrategy(store), nil
	default:
		return rag.NewMockStrategy(store), nil
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured server port")
	rootCmd.AddCommand(serveCmd)
}
