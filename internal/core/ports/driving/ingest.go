// Package driving defines the inbound ports of the Recall core:
// interfaces the CLI (or any other driver) calls into.
package driving

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// IngestOptions control one ingestion run.
type IngestOptions struct {
	// SkipUnchanged runs each document through the change gate and
	// skips documents already indexed at their current modification time.
	SkipUnchanged bool
	// BatchSize is the target number of documents whose chunks are
	// accumulated before one embed-and-store round trip. Zero means
	// the pipeline default.
	BatchSize int
}

// Ingestor drives documents through chunking, embedding, and storage.
type Ingestor interface {
	// Ingest processes the documents according to opts. Document-level
	// failures are recorded in the stats and do not stop the run;
	// batch-level failures (embedding, storage) end the run and return
	// both the partial stats and the error.
	Ingest(ctx context.Context, docs []domain.Document, opts IngestOptions) (domain.IngestionStats, error)

	// IngestAll processes the documents unconditionally, bypassing the
	// change gate.
	IngestAll(ctx context.Context, docs []domain.Document) (domain.IngestionStats, error)

	// IngestSource lists a connector's files, filters unchanged ones
	// before downloading when SkipUnchanged is set, fetches the rest,
	// and ingests them.
	IngestSource(ctx context.Context, conn driven.Connector, opts IngestOptions) (domain.IngestionStats, error)

	// CollectionStats reports the size and composition of the index.
	CollectionStats(ctx context.Context) (domain.CollectionStats, error)

	// Reset deletes everything in the index.
	Reset(ctx context.Context) error
}
