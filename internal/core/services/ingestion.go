package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// DefaultBatchSize is the default number of documents accumulated per
// embed-and-store round trip.
const DefaultBatchSize = 10

// chunksPerDocEstimate converts a document batch size into a chunk
// accumulation threshold.
const chunksPerDocEstimate = 5

// upsertBatchSize caps the number of records per store upsert.
const upsertBatchSize = 100

// statsSampleSize bounds the metadata sample used for collection
// statistics so stats stay cheap on large indexes.
const statsSampleSize = 100

// docOutcome is the result of processing one document.
type docOutcome int

const (
	outcomeIndexed docOutcome = iota
	outcomeSkipped
	outcomeFailed
)

// IngestionPipeline orchestrates chunking, embedding, and storage.
// It implements the Ingestor port.
type IngestionPipeline struct {
	chunker  driven.Chunker
	embedder driven.Embedder
	store    driven.VectorStore
	gate     *ChangeGate
}

// NewIngestionPipeline wires the pipeline from its collaborators.
func NewIngestionPipeline(
	chunker driven.Chunker,
	embedder driven.Embedder,
	store driven.VectorStore,
) *IngestionPipeline {
	return &IngestionPipeline{
		chunker:  chunker,
		embedder: embedder,
		store:    store,
		gate:     NewChangeGate(store),
	}
}

var _ driving.Ingestor = (*IngestionPipeline)(nil)

// Ingest processes the documents according to opts. Document-level
// failures (chunking errors, empty content) are counted and the run
// continues; a failed embed or store batch ends the run with the
// partial stats accumulated so far.
func (p *IngestionPipeline) Ingest(
	ctx context.Context, docs []domain.Document, opts driving.IngestOptions,
) (domain.IngestionStats, error) {
	start := time.Now()
	var stats domain.IngestionStats

	if len(docs) == 0 {
		logger.Warn("no documents to ingest")
		return stats, nil
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	threshold := batchSize * chunksPerDocEstimate

	runID := uuid.NewString()[:8]
	logger.Section("Ingestion")
	logger.Info("run %s: %d documents, batch size %d", runID, len(docs), batchSize)

	var pending []domain.Chunk
	for i := range docs {
		outcome, chunks := p.processDocument(ctx, &docs[i], opts.SkipUnchanged)
		switch outcome {
		case outcomeSkipped:
			stats.SkippedDocuments++
		case outcomeFailed:
			stats.FailedDocuments++
			stats.FailedSources = append(stats.FailedSources, docs[i].Metadata.Source)
		case outcomeIndexed:
			pending = append(pending, chunks...)
			stats.TotalDocuments++
		}

		if len(pending) >= threshold || i == len(docs)-1 {
			if err := p.flush(ctx, pending, &stats); err != nil {
				stats.ProcessingTime = time.Since(start)
				return stats, fmt.Errorf("run %s: %w", runID, err)
			}
			pending = pending[:0]
		}
	}

	stats.ProcessingTime = time.Since(start)
	logger.Info("run %s: indexed %d documents (%d chunks), skipped %d, failed %d in %s",
		runID, stats.TotalDocuments, stats.TotalChunks,
		stats.SkippedDocuments, stats.FailedDocuments, stats.ProcessingTime.Round(time.Millisecond))
	return stats, nil
}

// IngestAll processes the documents unconditionally, bypassing the
// change gate.
func (p *IngestionPipeline) IngestAll(ctx context.Context, docs []domain.Document) (domain.IngestionStats, error) {
	return p.Ingest(ctx, docs, driving.IngestOptions{SkipUnchanged: false})
}

// IngestSource lists a connector's files, filters unchanged ones from
// metadata alone so their content is never downloaded, fetches the
// survivors, and runs them through Ingest.
func (p *IngestionPipeline) IngestSource(
	ctx context.Context, conn driven.Connector, opts driving.IngestOptions,
) (domain.IngestionStats, error) {
	start := time.Now()

	if err := conn.Validate(ctx); err != nil {
		return domain.IngestionStats{}, fmt.Errorf("validate %s connector: %w", conn.Type(), err)
	}

	descriptors, err := conn.List(ctx)
	if err != nil {
		return domain.IngestionStats{}, fmt.Errorf("list %s source: %w", conn.Type(), err)
	}
	logger.Info("%s source: %d files listed", conn.Type(), len(descriptors))

	var skipped int
	var fetchFailed []string
	docs := make([]domain.Document, 0, len(descriptors))
	for _, desc := range descriptors {
		if opts.SkipUnchanged && p.gate.ShouldSkip(ctx, desc.Source, desc.ModifiedAt, desc.Title) {
			skipped++
			continue
		}
		doc, err := conn.Fetch(ctx, desc)
		if err != nil {
			logger.Warn("fetch %q failed: %v", desc.Title, err)
			fetchFailed = append(fetchFailed, desc.Source)
			continue
		}
		docs = append(docs, *doc)
	}

	// The gate already ran against descriptors; don't run it twice.
	stats, err := p.Ingest(ctx, docs, driving.IngestOptions{
		SkipUnchanged: false,
		BatchSize:     opts.BatchSize,
	})
	stats.SkippedDocuments += skipped
	stats.FailedDocuments += len(fetchFailed)
	stats.FailedSources = append(fetchFailed, stats.FailedSources...)
	stats.ProcessingTime = time.Since(start)
	return stats, err
}

// CollectionStats reports the index size and a source-type breakdown
// estimated from a bounded metadata sample.
func (p *IngestionPipeline) CollectionStats(ctx context.Context) (domain.CollectionStats, error) {
	count, err := p.store.Count(ctx)
	if err != nil {
		return domain.CollectionStats{}, fmt.Errorf("count records: %w", err)
	}

	stats := domain.CollectionStats{
		TotalChunks: count,
		SourceTypes: make(map[string]int),
		Location:    p.store.Location(),
	}
	if count == 0 {
		return stats, nil
	}

	sample := count
	if sample > statsSampleSize {
		sample = statsSampleSize
	}
	records, err := p.store.Get(ctx, driven.GetRequest{Limit: sample})
	if err != nil {
		return domain.CollectionStats{}, fmt.Errorf("sample records: %w", err)
	}
	for _, rec := range records {
		if st, ok := rec.Metadata["source_type"].(string); ok {
			stats.SourceTypes[st]++
		}
	}
	return stats, nil
}

// Reset deletes everything in the index.
func (p *IngestionPipeline) Reset(ctx context.Context) error {
	if err := p.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	logger.Info("index reset")
	return nil
}

// processDocument takes one document through the gate and the chunker.
// Failures stay local to the document.
func (p *IngestionPipeline) processDocument(
	ctx context.Context, doc *domain.Document, skipUnchanged bool,
) (docOutcome, []domain.Chunk) {
	if skipUnchanged && p.gate.ShouldSkip(ctx, doc.Metadata.Source, doc.Metadata.ModifiedAt, doc.Metadata.Title) {
		return outcomeSkipped, nil
	}

	chunks, err := p.chunker.ChunkDocument(*doc)
	if err != nil {
		logger.Warn("chunking %q failed: %v", doc.Metadata.Title, err)
		return outcomeFailed, nil
	}
	if len(chunks) == 0 {
		logger.Warn("no chunks produced for %q", doc.Metadata.Title)
		return outcomeFailed, nil
	}
	return outcomeIndexed, chunks
}

// flush embeds the pending chunks and upserts them, updating stats on
// success.
func (p *IngestionPipeline) flush(ctx context.Context, chunks []domain.Chunk, stats *domain.IngestionStats) error {
	if len(chunks) == 0 {
		return nil
	}

	embedded, err := p.embedder.EmbedChunks(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed %d chunks: %w", len(chunks), err)
	}

	for i := 0; i < len(embedded); i += upsertBatchSize {
		end := i + upsertBatchSize
		if end > len(embedded) {
			end = len(embedded)
		}
		records := make([]driven.Record, 0, end-i)
		for _, ch := range embedded[i:end] {
			records = append(records, driven.Record{
				ID:        ch.ID(),
				Content:   ch.Content,
				Embedding: ch.Embedding,
				Metadata:  ch.Metadata.ToMap(),
			})
		}
		if err := p.store.Upsert(ctx, records); err != nil {
			return fmt.Errorf("store %d records: %w", len(records), err)
		}
	}

	stats.TotalChunks += len(embedded)
	logger.Debug("flushed %d chunks", len(embedded))
	return nil
}
