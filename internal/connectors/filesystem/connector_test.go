package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConnector_Type(t *testing.T) {
	assert.Equal(t, domain.SourceLocal, New(t.TempDir(), true).Type())
}

func TestConnector_Validate(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		assert.NoError(t, New(t.TempDir(), true).Validate(context.Background()))
	})

	t.Run("missing directory", func(t *testing.T) {
		err := New(filepath.Join(t.TempDir(), "nope"), true).Validate(context.Background())
		assert.ErrorIs(t, err, domain.ErrConnectorValidation)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "file.txt", "x")
		err := New(path, true).Validate(context.Background())
		assert.ErrorIs(t, err, domain.ErrConnectorValidation)
	})
}

func TestConnector_List(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "text notes")
	writeFile(t, dir, "readme.md", "# readme")
	writeFile(t, dir, "guide.markdown", "guide")
	writeFile(t, dir, "image.png", "binary")
	writeFile(t, dir, "sub/deep.txt", "nested")

	t.Run("recursive", func(t *testing.T) {
		descs, err := New(dir, true).List(context.Background())
		require.NoError(t, err)
		assert.Len(t, descs, 4)
	})

	t.Run("non-recursive", func(t *testing.T) {
		descs, err := New(dir, false).List(context.Background())
		require.NoError(t, err)
		assert.Len(t, descs, 3)
	})
}

func TestConnector_List_DescriptorFields(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "some text content")

	descs, err := New(dir, true).List(context.Background())
	require.NoError(t, err)
	require.Len(t, descs, 1)

	desc := descs[0]
	assert.Equal(t, "notes.txt", desc.Title)
	assert.Equal(t, domain.SourceLocal, desc.SourceType)
	assert.Equal(t, "txt", desc.FileType)
	assert.True(t, filepath.IsAbs(desc.Source))
	require.NotNil(t, desc.ModifiedAt)
	assert.False(t, desc.ModifiedAt.IsZero())
	assert.Equal(t, int64(len("some text content")), desc.FileSize)
}

func TestConnector_Fetch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "hello from disk")

	conn := New(dir, true)
	descs, err := conn.List(context.Background())
	require.NoError(t, err)
	require.Len(t, descs, 1)

	doc, err := conn.Fetch(context.Background(), descs[0])
	require.NoError(t, err)
	assert.Equal(t, "hello from disk", doc.Content)
	assert.Equal(t, descs[0].Source, doc.Metadata.Source)
	assert.Equal(t, domain.SourceLocal, doc.Metadata.SourceType)
}

func TestConnector_Fetch_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.txt", "   \n")

	conn := New(dir, true)
	descs, err := conn.List(context.Background())
	require.NoError(t, err)
	require.Len(t, descs, 1)

	_, err = conn.Fetch(context.Background(), descs[0])
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestConnector_Fetch_MissingFile(t *testing.T) {
	conn := New(t.TempDir(), true)
	_, err := conn.Fetch(context.Background(), domain.FileDescriptor{
		Source: filepath.Join(t.TempDir(), "gone.txt"),
	})
	assert.Error(t, err)
}
