package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"uprise/meritmatch/internal/models"
	"uprise/meritmatch/internal/repositories"
	"uprise/meritmatch/internal/services"
)

type SubmissionHandler struct {
	submissionService services.SubmissionService
}

func NewSubmissionHandler(submissionService services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// HandleSubmit handles POST /submissions
func (h *SubmissionHandler) HandleSubmit(c *fiber.Ctx) error {
	var req models.SubmitRequest
	if err := bindJSON(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	input, err := toSubmitInput(req)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	submission, err := h.submissionService.Submit(c.UserContext(), input)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrUnknownProvider),
		errors.Is(err, services.ErrIncompleteTask),
		errors.Is(err, services.ErrNoTasks),
		errors.Is(err, services.ErrEmptyPDF):
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		return errorResponse(c, fiber.StatusNotFound, "Attachment not found")
	default:
		log.Printf("❌ Failed to create submission: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create submission")
	}

	return c.Status(fiber.StatusAccepted).JSON(models.SubmitResponse{
		ID:     submission.ID.String(),
		Status: string(submission.Status),
	})
}

// HandleGetSubmission handles GET /submissions/:id
func (h *SubmissionHandler) HandleGetSubmission(c *fiber.Ctx) error {
	submissionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid submission ID format")
	}

	submission, err := h.submissionService.Get(c.UserContext(), submissionID)
	if errors.Is(err, repositories.ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, "Submission not found")
	}
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load submission")
	}

	return c.JSON(toSubmissionResponse(submission))
}

func toSubmitInput(req models.SubmitRequest) (services.SubmitInput, error) {
	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		return services.SubmitInput{}, errors.New("invalid candidate_id format")
	}

	tasks := make([]services.SubmitTaskInput, 0, len(req.Tasks))
	for _, task := range req.Tasks {
		input := services.SubmitTaskInput{
			TaskTitle:       task.TaskTitle,
			TaskDescription: task.TaskDescription,
			Response:        task.Response,
		}
		if task.AttachmentID != "" {
			attachmentID, err := uuid.Parse(task.AttachmentID)
			if err != nil {
				return services.SubmitInput{}, errors.New("invalid attachment_id format")
			}
			input.AttachmentID = &attachmentID
		}
		tasks = append(tasks, input)
	}

	return services.SubmitInput{
		CandidateID: candidateID,
		Challenge:   req.Challenge,
		Tasks:       tasks,
		Provider:    req.Provider,
	}, nil
}

func toSubmissionResponse(submission *models.Submission) models.SubmissionResponse {
	response := models.SubmissionResponse{
		ID:                submission.ID.String(),
		CandidateID:       submission.CandidateID.String(),
		Status:            string(submission.Status),
		NeedsManualReview: submission.NeedsManualReview,
		ErrorMessage:      submission.ErrorMessage,
		GradedAt:          submission.GradedAt,
	}

	if submission.Status.IsTerminal() {
		result := &models.GradingResult{
			TaskScores:          submission.TaskScores.Data(),
			Skills:              submission.Skills.Data(),
			PlagiarismFlag:      submission.PlagiarismFlag,
			DefaultedTaskScores: submission.DefaultedTaskScores,
		}
		if submission.OverallScore != nil {
			result.OverallScore = *submission.OverallScore
		}
		if submission.Feedback != nil {
			result.Feedback = *submission.Feedback
		}
		response.Result = result
	}

	return response
}
