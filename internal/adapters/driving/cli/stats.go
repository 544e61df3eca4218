package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/core/services"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	store, err := openStore(settings)
	if err != nil {
		return err
	}
	defer store.Close()

	// Stats need the store only; no embedding credentials required.
	pipeline := services.NewIngestionPipeline(nil, nil, store)
	stats, err := pipeline.CollectionStats(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Location:     %s\n", stats.Location)
	cmd.Printf("Total chunks: %d\n", stats.TotalChunks)
	if len(stats.SourceTypes) > 0 {
		cmd.Println("Source types (sampled):")
		types := make([]string, 0, len(stats.SourceTypes))
		for st := range stats.SourceTypes {
			types = append(types, st)
		}
		sort.Strings(types)
		for _, st := range types {
			cmd.Printf("  %-8s %d\n", st, stats.SourceTypes[st])
		}
	}
	return nil
}
