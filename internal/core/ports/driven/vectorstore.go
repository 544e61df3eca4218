package driven

import "context"

// Record is one stored chunk: its identifier, text, embedding, and
// flattened metadata. Metadata values are strings and integers only;
// optional fields are absent rather than null.
type Record struct {
	ID        string
	Content   string
	Embedding []float32
	Metadata  map[string]any
}

// Match is a record returned by similarity search together with its
// distance from the query vector. Lower distance means more similar.
type Match struct {
	Record
	Distance float64
}

// Filter restricts queries to records whose metadata key equals one of
// the given values. An empty filter matches everything.
type Filter map[string][]string

// Matches reports whether metadata satisfies every filter clause.
func (f Filter) Matches(metadata map[string]any) bool {
	for key, allowed := range f {
		value, ok := metadata[key].(string)
		if !ok {
			return false
		}
		found := false
		for _, v := range allowed {
			if value == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// GetRequest describes a direct (non-similarity) lookup. When IDs is
// set the filter is ignored. Limit of zero means no limit.
type GetRequest struct {
	IDs    []string
	Filter Filter
	Limit  int
}

// VectorStore persists embedded chunks and answers similarity queries.
// Implementations must make Upsert idempotent on record ID.
type VectorStore interface {
	// Upsert inserts records, replacing any existing record with the
	// same ID.
	Upsert(ctx context.Context, records []Record) error

	// Query returns the topK nearest records to the embedding, filtered
	// by metadata, ordered by ascending distance.
	Query(ctx context.Context, embedding []float32, topK int, filter Filter) ([]Match, error)

	// Get fetches records directly by ID or metadata filter. Missing
	// IDs are omitted from the result, not an error.
	Get(ctx context.Context, req GetRequest) ([]Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Reset deletes all records.
	Reset(ctx context.Context) error

	// Location describes where the data lives, for diagnostics.
	Location() string

	// Close releases any held resources.
	Close() error
}
