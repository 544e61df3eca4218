// Package cli implements the recall command-line interface. Commands
// wire the core services from configuration on demand, so commands
// that never touch the embedding API work without an API key.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/vectorstore/sqlite"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/services"
	"github.com/custodia-labs/recall-cli/internal/logger"
	"github.com/custodia-labs/recall-cli/internal/tokenizer/tiktoken"
)

var (
	verboseFlag bool
	configFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Index and search your personal documents",
	Long: `Recall ingests documents from local folders and Google Drive,
chunks and embeds them, and answers semantic queries against the
resulting index. All data stays in a local SQLite database.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file path (default ~/.recall/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSettings reads the config file named by --config or the default
// location.
func loadSettings() (*file.Settings, error) {
	settings, err := file.Load(configFlag)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return settings, nil
}

// openStore opens the SQLite vector store from settings.
func openStore(settings *file.Settings) (driven.VectorStore, error) {
	store, err := sqlite.NewStore(settings.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening vector store: %w", err)
	}
	return store, nil
}

// newEmbedder builds the tokenizer and the batching embedder from
// settings. The API key comes from the environment only.
func newEmbedder(settings *file.Settings) (driven.Embedder, driven.Tokenizer, error) {
	tokenizer, err := tiktoken.New(settings.Embedding.Model)
	if err != nil {
		return nil, nil, fmt.Errorf("loading tokenizer: %w", err)
	}

	service, err := openai.NewService(openai.Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: settings.Embedding.BaseURL,
		Model:   settings.Embedding.Model,
	})
	if err != nil {
		return nil, nil, err
	}

	batcher := services.NewBatcher(service, tokenizer, settings.Embedding.MaxRequestTokens)
	return batcher, tokenizer, nil
}

// newPipeline wires the full ingestion pipeline.
func newPipeline(settings *file.Settings, store driven.VectorStore) (*services.IngestionPipeline, error) {
	embedder, tokenizer, err := newEmbedder(settings)
	if err != nil {
		return nil, err
	}
	chunker := services.NewTokenChunker(tokenizer,
		services.WithChunkSize(settings.Chunking.Size),
		services.WithChunkOverlap(*settings.Chunking.Overlap),
	)
	return services.NewIngestionPipeline(chunker, embedder, store), nil
}

// newRetriever wires the retrieval service.
func newRetriever(settings *file.Settings, store driven.VectorStore) (*services.RetrievalService, error) {
	embedder, _, err := newEmbedder(settings)
	if err != nil {
		return nil, err
	}
	return services.NewRetrievalService(embedder, store, settings.Retrieval.TopK), nil
}
