package services

import (
	"context"
	"time"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// ChangeGate decides whether a document needs re-ingestion by
// comparing its modification time against the ingestion time recorded
// on its first chunk. The gate fails open: any doubt means re-ingest,
// since a redundant ingestion costs tokens while a wrongly skipped one
// loses data.
type ChangeGate struct {
	store driven.VectorStore
}

// NewChangeGate creates a gate backed by the given store.
func NewChangeGate(store driven.VectorStore) *ChangeGate {
	return &ChangeGate{store: store}
}

// ShouldSkip reports whether the document identified by source can be
// skipped. title is used only for logging.
func (g *ChangeGate) ShouldSkip(ctx context.Context, source string, modifiedAt *time.Time, title string) bool {
	// The first chunk always exists for an indexed document and its ID
	// is deterministic, so one lookup answers "is this indexed".
	records, err := g.store.Get(ctx, driven.GetRequest{
		IDs: []string{domain.ChunkID(source, 0)},
	})
	if err != nil {
		logger.Warn("change gate lookup failed for %q, re-ingesting: %v", title, err)
		return false
	}
	if len(records) == 0 {
		logger.Debug("not indexed yet: %q", title)
		return false
	}

	raw, ok := records[0].Metadata["ingested_at"].(string)
	if !ok {
		return false
	}
	ingestedAt, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		logger.Warn("unparseable ingested_at for %q, re-ingesting: %v", title, err)
		return false
	}

	if modifiedAt != nil && modifiedAt.UTC().After(ingestedAt.UTC()) {
		logger.Debug("modified since last ingestion: %q", title)
		return false
	}

	logger.Debug("unchanged, skipping: %q", title)
	return true
}
