// Package domain contains the core types of the Recall pipeline:
// documents as fetched from sources, the chunks they are split into,
// and the results returned by retrieval.
package domain

import (
	"fmt"
	"time"
)

// SourceType identifies the kind of source a document came from.
type SourceType string

const (
	// SourceLocal is a document read from the local filesystem.
	SourceLocal SourceType = "local"
	// SourceGoogleDrive is a document fetched from Google Drive.
	SourceGoogleDrive SourceType = "gdrive"
)

// ParseSourceType validates and converts a string to a SourceType.
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(s) {
	case SourceLocal:
		return SourceLocal, nil
	case SourceGoogleDrive:
		return SourceGoogleDrive, nil
	default:
		return "", fmt.Errorf("%w: source type %q", ErrUnsupportedType, s)
	}
}

// String returns the canonical wire form of the source type.
func (s SourceType) String() string {
	return string(s)
}

// DocumentMetadata describes where a document came from and when it
// last changed. Source plus SourceType uniquely identify a document
// across ingestion runs.
type DocumentMetadata struct {
	// Source is the stable identifier within the source system:
	// an absolute file path for local files, a file ID for Drive.
	Source string
	// SourceType is the kind of source the document came from.
	SourceType SourceType
	// Title is a human-readable name, usually the file name.
	Title string
	// Author is the document author, if the source exposes one.
	Author string
	// CreatedAt is when the document was created, if known.
	CreatedAt *time.Time
	// ModifiedAt is when the document last changed, if known.
	// Drives the change-detection gate.
	ModifiedAt *time.Time
	// FileType is the lowercase file extension without the dot.
	FileType string
	// FileSize is the size in bytes, if known.
	FileSize int64
	// URL is a link back to the document in its source system.
	URL string
}

// Document is a unit of content fetched from a source, ready for
// chunking. Content is plain text.
type Document struct {
	Content  string
	Metadata DocumentMetadata
}

// FileDescriptor is the metadata-only view of a source file that
// connectors return from List, before any content is downloaded.
// It carries enough to decide whether fetching is worthwhile.
type FileDescriptor struct {
	// Source is the stable identifier within the source system.
	Source string
	// SourceType is the kind of source the file lives in.
	SourceType SourceType
	// Title is a human-readable name, usually the file name.
	Title string
	// Author is the file author, if the source exposes one.
	Author string
	// CreatedAt is when the file was created, if known.
	CreatedAt *time.Time
	// ModifiedAt is when the file last changed, if known.
	ModifiedAt *time.Time
	// FileType is the lowercase file extension without the dot.
	FileType string
	// FileSize is the size in bytes, if known.
	FileSize int64
	// URL is a link back to the file in its source system.
	URL string
	// MIMEType is the source-reported MIME type, when available.
	// Drive uses it to pick between export and direct download.
	MIMEType string
}
