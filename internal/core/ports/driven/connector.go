package driven

import (
	"context"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// Connector reads documents from one source system. Listing and
// fetching are separate so the pipeline can decide per file, from
// metadata alone, whether downloading content is worthwhile.
type Connector interface {
	// Type returns the source type this connector serves.
	Type() domain.SourceType

	// Validate checks configuration and credentials without fetching
	// any documents. Returns ErrConnectorValidation (wrapped) on failure.
	Validate(ctx context.Context) error

	// List enumerates available files as metadata-only descriptors.
	List(ctx context.Context) ([]domain.FileDescriptor, error)

	// Fetch downloads the content for one descriptor and builds the
	// full document.
	Fetch(ctx context.Context, desc domain.FileDescriptor) (*domain.Document, error)

	// Close releases any held resources.
	Close() error
}
