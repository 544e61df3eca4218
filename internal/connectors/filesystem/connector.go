// Package filesystem implements the Connector port for documents on
// the local filesystem.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// supportedExtensions lists the plain-text file types the connector
// ingests. Keys include the dot, values are the canonical file type.
var supportedExtensions = map[string]string{
	".txt":      "txt",
	".md":       "md",
	".markdown": "md",
}

// Connector reads documents from a directory tree.
type Connector struct {
	root      string
	recursive bool
}

// New creates a connector rooted at path. When recursive is true the
// whole tree below path is walked, otherwise only its direct children.
func New(path string, recursive bool) *Connector {
	return &Connector{root: path, recursive: recursive}
}

var _ driven.Connector = (*Connector)(nil)

// Type returns the local source type.
func (c *Connector) Type() domain.SourceType {
	return domain.SourceLocal
}

// Validate checks the root exists and is a readable directory.
func (c *Connector) Validate(_ context.Context) error {
	info, err := os.Stat(c.root)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnectorValidation, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrConnectorValidation, c.root)
	}
	return nil
}

// List enumerates supported files under the root as descriptors.
// Unreadable entries are logged and skipped.
func (c *Connector) List(ctx context.Context) ([]domain.FileDescriptor, error) {
	var descriptors []domain.FileDescriptor

	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if !c.recursive && path != c.root {
				return fs.SkipDir
			}
			return nil
		}

		fileType, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		modified := info.ModTime().UTC()
		descriptors = append(descriptors, domain.FileDescriptor{
			Source:     abs,
			SourceType: domain.SourceLocal,
			Title:      info.Name(),
			ModifiedAt: &modified,
			FileType:   fileType,
			FileSize:   info.Size(),
		})
		return nil
	}

	if err := filepath.WalkDir(c.root, walk); err != nil {
		return nil, fmt.Errorf("walking %s: %w", c.root, err)
	}

	logger.Debug("local source %s: %d supported files", c.root, len(descriptors))
	return descriptors, nil
}

// Fetch reads the file content and builds the document.
func (c *Connector) Fetch(_ context.Context, desc domain.FileDescriptor) (*domain.Document, error) {
	data, err := os.ReadFile(desc.Source)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", desc.Source, err)
	}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyDocument, desc.Source)
	}

	return &domain.Document{
		Content: content,
		Metadata: domain.DocumentMetadata{
			Source:     desc.Source,
			SourceType: domain.SourceLocal,
			Title:      desc.Title,
			CreatedAt:  desc.CreatedAt,
			ModifiedAt: desc.ModifiedAt,
			FileType:   desc.FileType,
			FileSize:   desc.FileSize,
		},
	}, nil
}

// Close is a no-op.
func (c *Connector) Close() error {
	return nil
}
