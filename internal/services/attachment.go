package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"

	"github.com/google/uuid"

	"uprise/meritmatch/internal/models"
	"uprise/meritmatch/internal/repositories"
)

// AttachmentService stores uploaded PDFs whose text can stand in for a
// task response.
type AttachmentService interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (*models.Attachment, error)
	ResolveText(ctx context.Context, attachmentID uuid.UUID) (string, error)
}

type attachmentService struct {
	repo      repositories.AttachmentRepository
	storage   StorageService
	pdfParser PDFParserService
}

func NewAttachmentService(repo repositories.AttachmentRepository, storage StorageService, pdfParser PDFParserService) AttachmentService {
	return &attachmentService{
		repo:      repo,
		storage:   storage,
		pdfParser: pdfParser,
	}
}

// Upload implements AttachmentService. A PDF with no extractable text is
// rejected and removed from disk.
func (a *attachmentService) Upload(ctx context.Context, file *multipart.FileHeader) (*models.Attachment, error) {
	filename, filePath, err := a.storage.SaveFile(file, "attachment")
	if err != nil {
		return nil, err
	}

	content, err := a.pdfParser.Extract(filePath)
	if err != nil {
		a.discard(filename)
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}

	attachment := &models.Attachment{
		Filename:         filename,
		OriginalFileName: file.Filename,
		FilePath:         filePath,
		PageCount:        content.PageCount,
	}
	if err := a.repo.Create(ctx, attachment); err != nil {
		a.discard(filename)
		return nil, err
	}

	return attachment, nil
}

// ResolveText implements AttachmentService.
func (a *attachmentService) ResolveText(ctx context.Context, attachmentID uuid.UUID) (string, error) {
	attachment, err := a.repo.FindByID(ctx, attachmentID)
	if err != nil {
		return "", err
	}

	content, err := a.pdfParser.Extract(attachment.FilePath)
	if err != nil {
		return "", fmt.Errorf("failed to read attachment %s: %w", attachmentID, err)
	}
	return content.Text, nil
}

func (a *attachmentService) discard(filename string) {
	if err := a.storage.DeleteFile(filename); err != nil {
		log.Printf("⚠️  Failed to remove rejected upload %s: %v", filename, err)
	}
}
