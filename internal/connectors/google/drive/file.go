package drive

import (
	"context"
	"fmt"
	"io"
	"time"

	drive "google.golang.org/api/drive/v3"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Google Workspace MIME types that are exported rather than downloaded.
const (
	MimeTypeGoogleDoc   = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet = "application/vnd.google-apps.spreadsheet"
)

// Export formats for Google Workspace files.
const (
	ExportMimeText = "text/plain"
	ExportMimeCSV  = "text/csv"
)

// MaxFetchSize is the maximum size for fetched content (5MB).
const MaxFetchSize = 5 * 1024 * 1024

// supportedMimeTypes maps ingestable MIME types to the file type
// recorded in chunk metadata.
var supportedMimeTypes = map[string]string{
	MimeTypeGoogleDoc:   "gdoc",
	MimeTypeGoogleSheet: "gsheet",
	"text/plain":        "txt",
	"text/markdown":     "md",
}

// descriptorFromFile builds a metadata-only descriptor from a Drive
// file listing entry.
func descriptorFromFile(f *drive.File) domain.FileDescriptor {
	desc := domain.FileDescriptor{
		Source:     f.Id,
		SourceType: domain.SourceGoogleDrive,
		Title:      f.Name,
		FileType:   supportedMimeTypes[f.MimeType],
		FileSize:   f.Size,
		URL:        f.WebViewLink,
		MIMEType:   f.MimeType,
	}
	if len(f.Owners) > 0 {
		desc.Author = f.Owners[0].DisplayName
	}
	if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
		utc := t.UTC()
		desc.CreatedAt = &utc
	}
	if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
		utc := t.UTC()
		desc.ModifiedAt = &utc
	}
	return desc
}

// fetchContent retrieves the text content for a descriptor, exporting
// Workspace files and downloading regular ones.
func (c *Connector) fetchContent(ctx context.Context, desc domain.FileDescriptor) (string, error) {
	switch desc.MIMEType {
	case MimeTypeGoogleDoc:
		return c.export(ctx, desc.Source, ExportMimeText)
	case MimeTypeGoogleSheet:
		return c.export(ctx, desc.Source, ExportMimeCSV)
	}

	if desc.FileSize > MaxFetchSize {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrUnsupportedType, desc.Title, MaxFetchSize)
	}
	return c.download(ctx, desc.Source)
}

// export converts a Google Workspace file to the given format.
func (c *Connector) export(ctx context.Context, fileID, exportMime string) (string, error) {
	resp, err := c.svc.Files.Export(fileID, exportMime).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("exporting file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchSize))
	if err != nil {
		return "", fmt.Errorf("reading export of %s: %w", fileID, err)
	}
	logger.Debug("exported %s as %s (%d bytes)", fileID, exportMime, len(data))
	return string(data), nil
}

// download fetches a regular file's raw content.
func (c *Connector) download(ctx context.Context, fileID string) (string, error) {
	resp, err := c.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("downloading file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchSize))
	if err != nil {
		return "", fmt.Errorf("reading file %s: %w", fileID, err)
	}
	return string(data), nil
}
