package domain

import "time"

// RetrievalResult is a single hit returned by the retrieval service.
type RetrievalResult struct {
	// Content is the chunk text.
	Content string
	// Metadata is the chunk's stored metadata.
	Metadata ChunkMetadata
	// Score is the similarity score in (0, 1], computed as
	// 1 / (1 + distance). Higher is more similar.
	Score float64
	// Distance is the raw distance reported by the vector store.
	// Zero for direct lookups that bypass similarity search.
	Distance float64
}

// IngestionStats summarises one ingestion run. Counts accumulate as
// the run progresses, so a run that fails partway still reports the
// work completed before the failure.
type IngestionStats struct {
	// TotalDocuments is the number of documents chunked and indexed.
	TotalDocuments int
	// TotalChunks is the number of chunks embedded and stored.
	TotalChunks int
	// SkippedDocuments is the number of documents the change gate skipped.
	SkippedDocuments int
	// FailedDocuments is the number of documents that could not be processed.
	FailedDocuments int
	// FailedSources lists the source identifiers of failed documents.
	FailedSources []string
	// ProcessingTime is the wall-clock duration of the run.
	ProcessingTime time.Duration
}

// CollectionStats is a snapshot of the vector index.
type CollectionStats struct {
	// TotalChunks is the number of chunks in the index.
	TotalChunks int
	// SourceTypes counts chunks by source type, estimated from a
	// bounded metadata sample when the index is large.
	SourceTypes map[string]int
	// Location describes where the index lives (a path, or "memory").
	Location string
}
