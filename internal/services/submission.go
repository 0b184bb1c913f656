package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"uprise/meritmatch/internal/models"
	"uprise/meritmatch/internal/repositories"
)

var (
	ErrUnknownProvider = errors.New("unknown AI provider")
	ErrIncompleteTask  = errors.New("every task needs a response or an attachment")
)

type SubmitTaskInput struct {
	TaskTitle       string
	TaskDescription string
	Response        string
	AttachmentID    *uuid.UUID
}

type SubmitInput struct {
	CandidateID uuid.UUID
	Challenge   models.ChallengeDescriptor
	Tasks       []SubmitTaskInput
	Provider    string
}

// Enqueuer hands a stored submission to the grading pipeline.
type Enqueuer interface {
	Enqueue(ctx context.Context, submissionID uuid.UUID) error
}

type SubmissionService interface {
	Submit(ctx context.Context, input SubmitInput) (*models.Submission, error)
	Process(ctx context.Context, submissionID uuid.UUID) error
	Get(ctx context.Context, submissionID uuid.UUID) (*models.Submission, error)
	SetEnqueuer(enqueuer Enqueuer)
}

type submissionService struct {
	submissions     repositories.SubmissionRepository
	attachments     AttachmentService
	grader          GradingOrchestrator
	aggregator      SkillAggregator
	similarity      SimilarityIndex
	enqueuer        Enqueuer
	defaultProvider ProviderTag
}

func NewSubmissionService(
	submissions repositories.SubmissionRepository,
	attachments AttachmentService,
	grader GradingOrchestrator,
	aggregator SkillAggregator,
	similarity SimilarityIndex,
	defaultProvider ProviderTag,
) SubmissionService {
	if similarity == nil {
		similarity = NewNoopSimilarityIndex()
	}

	return &submissionService{
		submissions:     submissions,
		attachments:     attachments,
		grader:          grader,
		aggregator:      aggregator,
		similarity:      similarity,
		defaultProvider: defaultProvider,
	}
}

// SetEnqueuer wires the worker after construction; the worker itself
// depends on this service as its processor.
func (s *submissionService) SetEnqueuer(enqueuer Enqueuer) {
	s.enqueuer = enqueuer
}

// Submit implements SubmissionService.
func (s *submissionService) Submit(ctx context.Context, input SubmitInput) (*models.Submission, error) {
	provider := s.defaultProvider
	if input.Provider != "" {
		tag, ok := ParseProviderTag(input.Provider)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, input.Provider)
		}
		provider = tag
	}

	tasks, err := s.resolveTasks(ctx, input.Tasks)
	if err != nil {
		return nil, err
	}

	submission := &models.Submission{
		CandidateID:          input.CandidateID,
		ChallengeTitle:       input.Challenge.Title,
		ChallengeType:        input.Challenge.Type,
		ChallengeDescription: input.Challenge.Description,
		Tasks:                datatypes.NewJSONType(tasks),
		Provider:             string(provider),
		Status:               models.StatusPending,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	if s.enqueuer != nil {
		// the poller picks up anything that misses the queue
		if err := s.enqueuer.Enqueue(ctx, submission.ID); err != nil {
			log.Printf("⚠️  Submission %s stored but not enqueued: %v", submission.ID, err)
		}
	}

	return submission, nil
}

func (s *submissionService) resolveTasks(ctx context.Context, inputs []SubmitTaskInput) ([]models.TaskResponse, error) {
	if len(inputs) == 0 {
		return nil, ErrNoTasks
	}

	tasks := make([]models.TaskResponse, 0, len(inputs))
	for i, input := range inputs {
		response := input.Response
		if input.AttachmentID != nil {
			if s.attachments == nil {
				return nil, fmt.Errorf("task %d: attachments are not available", i+1)
			}
			text, err := s.attachments.ResolveText(ctx, *input.AttachmentID)
			if err != nil {
				return nil, fmt.Errorf("task %d: %w", i+1, err)
			}
			response = text
		}

		if strings.TrimSpace(response) == "" {
			return nil, fmt.Errorf("task %d: %w", i+1, ErrIncompleteTask)
		}

		tasks = append(tasks, models.TaskResponse{
			TaskTitle:       input.TaskTitle,
			TaskDescription: input.TaskDescription,
			Response:        response,
		})
	}
	return tasks, nil
}

// Get implements SubmissionService.
func (s *submissionService) Get(ctx context.Context, submissionID uuid.UUID) (*models.Submission, error) {
	return s.submissions.FindByID(ctx, submissionID)
}

// Process implements SubmissionService. Submissions that are already graded
// or parked for manual review are skipped.
func (s *submissionService) Process(ctx context.Context, submissionID uuid.UUID) error {
	submission, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("failed to load submission: %w", err)
	}

	if submission.Status != models.StatusPending || submission.NeedsManualReview {
		return nil
	}

	req := submission.GradingRequest()
	result, err := s.grader.Grade(ctx, req, ProviderTag(submission.Provider))
	if err != nil {
		if markErr := s.submissions.MarkManualReview(ctx, submissionID, err.Error()); markErr != nil {
			log.Printf("❌ Failed to route submission %s to manual review: %v", submissionID, markErr)
		}
		return err
	}

	if s.similarity.Enabled() {
		duplicate, err := s.similarity.IsNearDuplicate(ctx, submission.CandidateID, req.Tasks)
		if err != nil {
			log.Printf("⚠️  Similarity check failed for submission %s: %v", submissionID, err)
		}
		result.PlagiarismFlag = result.PlagiarismFlag || duplicate
	}

	status := models.StatusCompleted
	if result.PlagiarismFlag {
		status = models.StatusFlagged
	}

	record := &repositories.GradingRecord{
		Status:              status,
		OverallScore:        result.OverallScore,
		TaskScores:          result.TaskScores,
		Skills:              result.Skills,
		Feedback:            result.Feedback,
		PlagiarismFlag:      result.PlagiarismFlag,
		DefaultedTaskScores: result.DefaultedTaskScores,
		GradedAt:            time.Now(),
	}

	// a failed skill update rolls the row back to PENDING for the poller
	err = s.submissions.RecordGradingWith(ctx, submissionID, record, func(ctx context.Context, skills repositories.SkillScoreRepository) error {
		if status != models.StatusCompleted {
			return nil
		}
		if _, err := s.aggregator.WithStore(skills).Apply(ctx, submission.CandidateID, result); err != nil {
			return fmt.Errorf("failed to aggregate skill scores: %w", err)
		}
		return nil
	})
	if errors.Is(err, repositories.ErrSubmissionNotPending) {
		// another worker recorded it first
		return nil
	}
	if err != nil {
		return err
	}

	if s.similarity.Enabled() {
		if err := s.similarity.Index(ctx, submissionID, submission.CandidateID, req.Tasks); err != nil {
			log.Printf("⚠️  Failed to index submission %s: %v", submissionID, err)
		}
	}

	if status != models.StatusCompleted {
		log.Printf("🚩 Submission %s flagged, skill scores unchanged", submissionID)
	}

	return nil
}
