package services

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uprise/meritmatch/internal/repositories"
)

type fakePDFParser struct {
	content *PDFContent
	err     error
}

func (f *fakePDFParser) Extract(filePath string) (*PDFContent, error) {
	if f.err != nil {
		return nil, f.err
	}
	content := *f.content
	content.FilePath = filePath
	return &content, nil
}

func newAttachmentFixture(t *testing.T, parser PDFParserService) (AttachmentService, string) {
	t.Helper()
	dir := t.TempDir()
	repo := repositories.NewAttachmentRepository(newTestDB(t))
	return NewAttachmentService(repo, NewStorageService(dir, 1<<20), parser), dir
}

func TestAttachmentService_UploadAndResolve(t *testing.T) {
	parser := &fakePDFParser{content: &PDFContent{Text: "Essay about queues", PageCount: 2}}
	service, _ := newAttachmentFixture(t, parser)
	ctx := context.Background()

	attachment, err := service.Upload(ctx, newFileHeader(t, "essay.pdf", []byte("%PDF-1.4")))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, attachment.ID)
	assert.Equal(t, "essay.pdf", attachment.OriginalFileName)
	assert.Equal(t, 2, attachment.PageCount)
	assert.FileExists(t, attachment.FilePath)

	text, err := service.ResolveText(ctx, attachment.ID)
	require.NoError(t, err)
	assert.Equal(t, "Essay about queues", text)
}

func TestAttachmentService_EmptyPDFIsDiscarded(t *testing.T) {
	service, dir := newAttachmentFixture(t, &fakePDFParser{err: ErrEmptyPDF})

	_, err := service.Upload(context.Background(), newFileHeader(t, "blank.pdf", []byte("%PDF-1.4")))
	assert.ErrorIs(t, err, ErrEmptyPDF)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAttachmentService_ResolveUnknownAttachment(t *testing.T) {
	service, _ := newAttachmentFixture(t, &fakePDFParser{content: &PDFContent{Text: "x"}})

	_, err := service.ResolveText(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
