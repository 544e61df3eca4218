package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/recall-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/recall-cli/internal/connectors/google/drive"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
)

var (
	ingestSourceType string
	ingestPath       string
	ingestFolderID   string
	ingestMaxResults int64
	ingestRecursive  bool
	ingestBatchSize  int
	ingestReindex    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest documents from a source into the index",
	Long: `Lists documents from the chosen source, skips those that have not
changed since their last ingestion, and chunks, embeds, and stores
the rest.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestSourceType, "source-type", "t", "local", "source type: local or gdrive")
	ingestCmd.Flags().StringVarP(&ingestPath, "source", "s", "", "directory to ingest (local source)")
	ingestCmd.Flags().StringVar(&ingestFolderID, "folder-id", "", "Drive folder to ingest (gdrive source)")
	ingestCmd.Flags().Int64Var(&ingestMaxResults, "max-results", 0, "cap on files listed from Drive")
	ingestCmd.Flags().BoolVarP(&ingestRecursive, "recursive", "r", true, "recurse into subdirectories (local source)")
	ingestCmd.Flags().IntVar(&ingestBatchSize, "batch-size", 0, "documents per embedding round trip")
	ingestCmd.Flags().BoolVar(&ingestReindex, "reindex", false, "re-ingest everything, ignoring change detection")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	sourceType, err := domain.ParseSourceType(ingestSourceType)
	if err != nil {
		return err
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	store, err := openStore(settings)
	if err != nil {
		return err
	}
	defer store.Close()

	pipeline, err := newPipeline(settings, store)
	if err != nil {
		return err
	}

	conn, err := buildConnector(cmd, sourceType, settings)
	if err != nil {
		return err
	}
	defer conn.Close()

	cmd.Printf("Ingesting from %s source...\n", sourceType)
	stats, err := pipeline.IngestSource(cmd.Context(), conn, driving.IngestOptions{
		SkipUnchanged: !ingestReindex,
		BatchSize:     ingestBatchSize,
	})
	printStats(cmd, stats)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	return nil
}

// buildConnector creates the connector for the chosen source type,
// merging command flags over the config file.
func buildConnector(
	cmd *cobra.Command, sourceType domain.SourceType, settings *file.Settings,
) (driven.Connector, error) {
	switch sourceType {
	case domain.SourceLocal:
		if ingestPath == "" {
			return nil, fmt.Errorf("%w: --source is required for the local source", domain.ErrInvalidInput)
		}
		return filesystem.New(ingestPath, ingestRecursive), nil

	case domain.SourceGoogleDrive:
		cfg := drive.Config{
			CredentialsFile: settings.Drive.CredentialsFile,
			TokenFile:       settings.Drive.TokenFile,
			FolderID:        settings.Drive.FolderID,
			MaxResults:      int64(settings.Drive.MaxResults),
		}
		if ingestFolderID != "" {
			cfg.FolderID = ingestFolderID
		}
		if ingestMaxResults > 0 {
			cfg.MaxResults = ingestMaxResults
		}
		return drive.New(cmd.Context(), cfg)

	default:
		return nil, fmt.Errorf("%w: source type %q", domain.ErrUnsupportedType, sourceType)
	}
}

// printStats reports an ingestion run summary.
func printStats(cmd *cobra.Command, stats domain.IngestionStats) {
	cmd.Printf("Indexed %d documents (%d chunks), skipped %d, failed %d in %s\n",
		stats.TotalDocuments, stats.TotalChunks,
		stats.SkippedDocuments, stats.FailedDocuments,
		stats.ProcessingTime.Round(time.Millisecond))
	for _, source := range stats.FailedSources {
		cmd.Printf("  failed: %s\n", source)
	}
}
