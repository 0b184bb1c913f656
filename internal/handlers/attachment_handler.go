package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"uprise/meritmatch/internal/models"
	"uprise/meritmatch/internal/services"
)

type AttachmentHandler struct {
	attachmentService services.AttachmentService
}

func NewAttachmentHandler(attachmentService services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
	}
}

// HandleUpload handles POST /attachments with a multipart "file" field.
func (h *AttachmentHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "file is required")
	}

	attachment, err := h.attachmentService.Upload(c.UserContext(), file)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrInvalidFileType),
		errors.Is(err, services.ErrFileTooLarge),
		errors.Is(err, services.ErrEmptyPDF):
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Printf("❌ Failed to store attachment: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to store attachment")
	}

	return c.Status(fiber.StatusCreated).JSON(models.AttachmentResponse{
		ID:           attachment.ID.String(),
		Filename:     attachment.Filename,
		OriginalName: attachment.OriginalFileName,
		PageCount:    attachment.PageCount,
	})
}
