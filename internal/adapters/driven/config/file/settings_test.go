package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, settings.Embedding.Model)
	assert.Equal(t, DefaultChunkSize, settings.Chunking.Size)
	require.NotNil(t, settings.Chunking.Overlap)
	assert.Equal(t, DefaultChunkOverlap, *settings.Chunking.Overlap)
	assert.Equal(t, DefaultTopK, settings.Retrieval.TopK)
	assert.Equal(t, DefaultDriveMaxResults, settings.Drive.MaxResults)
}

func TestLoad_PartialFileKeepsDefaultsElsewhere(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[chunking]
size = 256

[retrieval]
top_k = 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 256, settings.Chunking.Size)
	assert.Equal(t, 10, settings.Retrieval.TopK)
	require.NotNil(t, settings.Chunking.Overlap)
	assert.Equal(t, DefaultChunkOverlap, *settings.Chunking.Overlap)
	assert.Equal(t, DefaultModel, settings.Embedding.Model)
}

func TestLoad_ExplicitZeroOverlapPreserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[chunking]
size = 256
overlap = 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	settings, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, settings.Chunking.Overlap)
	assert.Equal(t, 0, *settings.Chunking.Overlap)
}

func TestLoad_MalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("chunking = ["), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	settings := &Settings{}
	settings.applyDefaults()
	settings.Chunking.Size = 128
	settings.Drive.FolderID = "folder-123"
	require.NoError(t, settings.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 128, loaded.Chunking.Size)
	assert.Equal(t, "folder-123", loaded.Drive.FolderID)
}
