package services

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["file"][0]
}

func TestStorageService_SaveFile(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageService(dir, 1024)

	filename, path, err := storage.SaveFile(newFileHeader(t, "Essay.PDF", []byte("%PDF-1.4 body")), "attachment")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "attachment_"))
	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	assert.Equal(t, filepath.Join(dir, filename), path)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(saved))

	require.NoError(t, storage.DeleteFile(filename))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStorageService_RejectsNonPDF(t *testing.T) {
	storage := NewStorageService(t.TempDir(), 1024)

	_, _, err := storage.SaveFile(newFileHeader(t, "notes.txt", []byte("plain")), "attachment")
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestStorageService_RejectsOversizedFiles(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageService(dir, 8)

	_, _, err := storage.SaveFile(newFileHeader(t, "big.pdf", bytes.Repeat([]byte("a"), 64)), "attachment")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStorageService_GetFilePathStaysInUploadDir(t *testing.T) {
	storage := NewStorageService("/srv/uploads", 0)
	assert.Equal(t, "/srv/uploads/passwd", storage.GetFilePath("../../etc/passwd"))
}

func TestStorageService_EnsureUploadDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	require.NoError(t, NewStorageService(dir, 0).EnsureUploadDir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
