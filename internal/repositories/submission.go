package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"uprise/meritmatch/internal/models"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	RecordGrading(ctx context.Context, id uuid.UUID, record *GradingRecord) error
	// RecordGradingWith runs apply in the same transaction as the grading
	// write. An apply error rolls the submission back to PENDING.
	RecordGradingWith(ctx context.Context, id uuid.UUID, record *GradingRecord, apply func(ctx context.Context, skills SkillScoreRepository) error) error
	MarkManualReview(ctx context.Context, id uuid.UUID, reason string) error
	FindPending(ctx context.Context, limit int) ([]models.Submission, error)
	FindGraded(ctx context.Context, limit, offset int) ([]models.Submission, error)
}

// GradingRecord is the terminal outcome written for a graded submission.
type GradingRecord struct {
	Status              models.SubmissionStatus
	OverallScore        int
	TaskScores          []int
	Skills              []string
	Feedback            string
	PlagiarismFlag      bool
	DefaultedTaskScores bool
	GradedAt            time.Time
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *submissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}
	return &submission, nil
}

// RecordGrading moves a PENDING submission to its terminal status.
// Rows that already left PENDING are not touched.
func (r *submissionRepository) RecordGrading(ctx context.Context, id uuid.UUID, record *GradingRecord) error {
	return recordGrading(r.db.WithContext(ctx), id, record)
}

func (r *submissionRepository) RecordGradingWith(ctx context.Context, id uuid.UUID, record *GradingRecord, apply func(ctx context.Context, skills SkillScoreRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := recordGrading(tx, id, record); err != nil {
			return err
		}
		if apply == nil {
			return nil
		}
		return apply(ctx, NewSkillScoreRepository(tx))
	})
}

func recordGrading(db *gorm.DB, id uuid.UUID, record *GradingRecord) error {
	if !record.Status.IsTerminal() {
		return fmt.Errorf("invalid grading status: %s", record.Status)
	}

	updates := map[string]interface{}{
		"status":                record.Status,
		"overall_score":         record.OverallScore,
		"task_scores":           datatypes.NewJSONType(record.TaskScores),
		"skills":                datatypes.NewJSONType(record.Skills),
		"feedback":              record.Feedback,
		"plagiarism_flag":       record.PlagiarismFlag,
		"defaulted_task_scores": record.DefaultedTaskScores,
		"needs_manual_review":   false,
		"error_message":         nil,
		"graded_at":             record.GradedAt,
		"updated_at":            time.Now(),
	}

	result := db.Model(&models.Submission{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to record grading: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return missingOrNotPending(db, id)
	}

	return nil
}

// MarkManualReview keeps the submission PENDING and takes it out of the
// automated pipeline.
func (r *submissionRepository) MarkManualReview(ctx context.Context, id uuid.UUID, reason string) error {
	result := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{
			"needs_manual_review": true,
			"error_message":       reason,
			"updated_at":          time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark manual review: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return missingOrNotPending(r.db.WithContext(ctx), id)
	}

	return nil
}

func (r *submissionRepository) FindPending(ctx context.Context, limit int) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("status = ? AND needs_manual_review = ?", models.StatusPending, false).
		Order("created_at ASC").
		Limit(limit).
		Find(&submissions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending submissions: %w", err)
	}

	return submissions, nil
}

// FindGraded pages through COMPLETED and FLAGGED submissions, oldest first.
func (r *submissionRepository) FindGraded(ctx context.Context, limit, offset int) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("status IN ?", []models.SubmissionStatus{models.StatusCompleted, models.StatusFlagged}).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&submissions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find graded submissions: %w", err)
	}

	return submissions, nil
}

func missingOrNotPending(db *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := db.Model(&models.Submission{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check submission: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrSubmissionNotPending
}
