package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
)

var (
	queryTopK        int
	queryMinScore    float64
	querySourceTypes []string
	queryShowContent bool
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Search the index semantically",
	Long: `Embeds the query text and returns the closest chunks in the index,
scored between 0 and 1.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().Float64Var(&queryMinScore, "min-score", 0, "drop results scoring below this threshold")
	queryCmd.Flags().StringSliceVar(&querySourceTypes, "source-type", nil, "restrict to source types (local, gdrive)")
	queryCmd.Flags().BoolVar(&queryShowContent, "content", false, "print full chunk content instead of a snippet")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	sourceTypes := make([]domain.SourceType, 0, len(querySourceTypes))
	for _, raw := range querySourceTypes {
		st, err := domain.ParseSourceType(raw)
		if err != nil {
			return err
		}
		sourceTypes = append(sourceTypes, st)
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

	retriever, err := newRetriever(settings, store)
	if err != nil {
		return err
	}

	results, err := retriever.Query(cmd.Context(), text, driving.QueryOptions{
		TopK:        queryTopK,
		SourceTypes: sourceTypes,
		MinScore:    effectiveMinScore(cmd, settings.Retrieval.MinScore),
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(results) == 0 {
		cmd.Println("No results.")
		return nil
	}
	for i, res := range results {
		printResult(cmd, i+1, res)
	}
	return nil
}

// effectiveMinScore picks the flag value whenever the flag was set,
// so --min-score 0 can override a non-zero config threshold.
func effectiveMinScore(cmd *cobra.Command, configured float64) float64 {
	if cmd.Flags().Changed("min-score") {
		return queryMinScore
	}
	return configured
}

// snippetLength bounds the preview printed per result.
const snippetLength = 200

func printResult(cmd *cobra.Command, rank int, res domain.RetrievalResult) {
	cmd.Printf("%d. [%.3f] %s (%s, chunk %d/%d)\n",
		rank, res.Score, res.Metadata.Title, res.Metadata.SourceType,
		res.Metadata.ChunkIndex+1, res.Metadata.TotalChunks)
	if res.Metadata.URL != "" {
		cmd.Printf("   %s\n", res.Metadata.URL)
	} else {
		cmd.Printf("   %s\n", res.Metadata.Source)
	}

	content := strings.TrimSpace(res.Content)
	if !queryShowContent && len(content) > snippetLength {
		content = content[:snippetLength] + "..."
	}
	cmd.Printf("   %s\n\n", strings.ReplaceAll(content, "\n", "\n   "))
}
