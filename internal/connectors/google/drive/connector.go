// Package drive implements the Connector port for Google Drive.
// Listing is metadata-only; content is exported or downloaded per
// file only when the pipeline decides the file needs ingesting.
package drive

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/recall-cli/internal/connectors/google"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// DefaultMaxResults caps one listing when the config is silent.
const DefaultMaxResults = 100

// listFields names the file attributes a listing fetches. Everything a
// descriptor needs, nothing more.
const listFields = "files(id, name, mimeType, createdTime, modifiedTime, owners, size, webViewLink)"

// Config holds Google Drive connector settings.
type Config struct {
	// CredentialsFile is the OAuth client credentials JSON path.
	CredentialsFile string
	// TokenFile is the stored OAuth token JSON path.
	TokenFile string
	// FolderID restricts listing to one folder. Empty means the whole drive.
	FolderID string
	// MaxResults caps how many files one listing returns.
	MaxResults int64
}

// Connector reads documents from Google Drive.
type Connector struct {
	svc     *drive.Service
	limiter *google.RateLimiter
	cfg     Config
}

// New creates a Drive connector with read-only scope.
func New(ctx context.Context, cfg Config) (*Connector, error) {
	ts, err := google.TokenSource(ctx, cfg.CredentialsFile, cfg.TokenFile, drive.DriveReadonlyScope)
	if err != nil {
		return nil, err
	}
	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	return &Connector{
		svc:     svc,
		limiter: google.NewRateLimiter(google.DriveRateLimit),
		cfg:     cfg,
	}, nil
}

var _ driven.Connector = (*Connector)(nil)

// Type returns the Drive source type.
func (c *Connector) Type() domain.SourceType {
	return domain.SourceGoogleDrive
}

// Validate performs a minimal listing to verify credentials and scope.
func (c *Connector) Validate(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := c.svc.Files.List().PageSize(1).Fields("files(id)").Context(ctx).Do()
	if err != nil {
		c.recordIfRateLimited(err)
		return fmt.Errorf("%w: %v", domain.ErrConnectorValidation, err)
	}
	return nil
}

// List returns descriptors for supported files, up to MaxResults.
func (c *Connector) List(ctx context.Context) ([]domain.FileDescriptor, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	call := c.svc.Files.List().
		Q(c.listQuery()).
		PageSize(c.cfg.MaxResults).
		Fields(googleapi.Field(listFields)).
		OrderBy("modifiedTime desc").
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		c.recordIfRateLimited(err)
		return nil, fmt.Errorf("listing drive files: %w", err)
	}

	descriptors := make([]domain.FileDescriptor, 0, len(resp.Files))
	for _, f := range resp.Files {
		descriptors = append(descriptors, descriptorFromFile(f))
	}
	logger.Debug("drive source: %d supported files", len(descriptors))
	return descriptors, nil
}

// Fetch exports or downloads the file content and builds the document.
func (c *Connector) Fetch(ctx context.Context, desc domain.FileDescriptor) (*domain.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	content, err := c.fetchContent(ctx, desc)
	if err != nil {
		c.recordIfRateLimited(err)
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyDocument, desc.Title)
	}

	return &domain.Document{
		Content: content,
		Metadata: domain.DocumentMetadata{
			Source:     desc.Source,
			SourceType: domain.SourceGoogleDrive,
			Title:      desc.Title,
			Author:     desc.Author,
			CreatedAt:  desc.CreatedAt,
			ModifiedAt: desc.ModifiedAt,
			FileType:   desc.FileType,
			FileSize:   desc.FileSize,
			URL:        desc.URL,
		},
	}, nil
}

// Close is a no-op; the Drive service holds no connections.
func (c *Connector) Close() error {
	return nil
}

// listQuery builds the Drive search query: supported MIME types,
// nothing trashed, optionally scoped to one folder.
func (c *Connector) listQuery() string {
	mimeClauses := make([]string, 0, len(supportedMimeTypes))
	for mime := range supportedMimeTypes {
		mimeClauses = append(mimeClauses, fmt.Sprintf("mimeType = '%s'", mime))
	}
	// Map iteration order varies; keep the query stable for logging.
	sort.Strings(mimeClauses)

	query := fmt.Sprintf("trashed = false and (%s)", strings.Join(mimeClauses, " or "))
	if c.cfg.FolderID != "" {
		query = fmt.Sprintf("'%s' in parents and %s", c.cfg.FolderID, query)
	}
	return query
}

// recordIfRateLimited tells the limiter to back off after a 429.
func (c *Connector) recordIfRateLimited(err error) {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		retryAfter := 0
		if v := apiErr.Header.Get("Retry-After"); v != "" {
			fmt.Sscanf(v, "%d", &retryAfter)
		}
		c.limiter.RecordRateLimitError(retryAfter)
		logger.Warn("drive API rate limited, backing off")
	}
}
