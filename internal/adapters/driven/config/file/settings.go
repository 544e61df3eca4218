// Package file provides TOML-backed configuration for the Recall CLI.
// Settings live in ~/.recall/config.toml; a missing file yields the
// defaults. The API key is deliberately not part of the file and comes
// from the environment.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default values applied where the config file is silent.
const (
	DefaultModel            = "text-embedding-3-small"
	DefaultChunkSize        = 512
	DefaultChunkOverlap     = 50
	DefaultTopK             = 5
	DefaultDriveMaxResults  = 100
	defaultConfigDirName    = ".recall"
	defaultConfigFileName   = "config.toml"
	defaultDataSubdirectory = "data"
)

// Settings is the typed configuration passed into constructors.
// Nothing reads configuration ambiently.
type Settings struct {
	Embedding EmbeddingSettings `toml:"embedding"`
	Chunking  ChunkingSettings  `toml:"chunking"`
	Retrieval RetrievalSettings `toml:"retrieval"`
	Storage   StorageSettings   `toml:"storage"`
	Drive     DriveSettings     `toml:"drive"`
}

// EmbeddingSettings configure the embedding provider.
type EmbeddingSettings struct {
	// Model is the embedding model name.
	Model string `toml:"model"`
	// BaseURL overrides the API endpoint for API-compatible providers.
	BaseURL string `toml:"base_url,omitempty"`
	// MaxRequestTokens caps tokens per embedding request. Zero means
	// the service default.
	MaxRequestTokens int `toml:"max_request_tokens,omitempty"`
}

// ChunkingSettings configure the chunker.
type ChunkingSettings struct {
	// Size is the chunk size in tokens.
	Size int `toml:"size"`
	// Overlap is the overlap between consecutive chunks in tokens.
	// A pointer so an explicit zero in the file is distinguishable
	// from an absent key; Load fills in the default when absent.
	Overlap *int `toml:"overlap"`
}

// RetrievalSettings configure query defaults.
type RetrievalSettings struct {
	// TopK is the default number of results.
	TopK int `toml:"top_k"`
	// MinScore is the default score threshold. Zero keeps everything.
	MinScore float64 `toml:"min_score,omitempty"`
}

// StorageSettings configure the vector store.
type StorageSettings struct {
	// DataDir holds the SQLite database. Empty means ~/.recall/data.
	DataDir string `toml:"data_dir,omitempty"`
}

// DriveSettings configure the Google Drive connector.
type DriveSettings struct {
	// CredentialsFile is the OAuth client credentials JSON path.
	CredentialsFile string `toml:"credentials_file,omitempty"`
	// TokenFile is the stored OAuth token JSON path.
	TokenFile string `toml:"token_file,omitempty"`
	// FolderID restricts listing to one folder. Empty means the whole drive.
	FolderID string `toml:"folder_id,omitempty"`
	// MaxResults caps how many files one listing returns.
	MaxResults int `toml:"max_results,omitempty"`
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, defaultConfigDirName, defaultConfigFileName), nil
}

// Load reads settings from path, applying defaults for anything the
// file omits. A missing file is not an error; a malformed one is.
// An empty path means the default location.
func Load(path string) (*Settings, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	s := &Settings{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	s.applyDefaults()
	return s, nil
}

// Save writes settings to path, creating the directory if needed.
// An empty path means the default location.
func (s *Settings) Save(path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

func (s *Settings) applyDefaults() {
	if s.Embedding.Model == "" {
		s.Embedding.Model = DefaultModel
	}
	if s.Chunking.Size <= 0 {
		s.Chunking.Size = DefaultChunkSize
	}
	if s.Chunking.Overlap == nil || *s.Chunking.Overlap < 0 {
		overlap := DefaultChunkOverlap
		s.Chunking.Overlap = &overlap
	}
	if s.Retrieval.TopK <= 0 {
		s.Retrieval.TopK = DefaultTopK
	}
	if s.Drive.MaxResults <= 0 {
		s.Drive.MaxResults = DefaultDriveMaxResults
	}
}
