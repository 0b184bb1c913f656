package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	StatusPending   SubmissionStatus = "PENDING"
	StatusCompleted SubmissionStatus = "COMPLETED"
	StatusFlagged   SubmissionStatus = "FLAGGED"
)

// IsTerminal reports whether grading has finished for the status.
func (s SubmissionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFlagged
}

// Submission is one candidate's answer set for a challenge.
// A failed automated grading leaves the row PENDING with NeedsManualReview set.
type Submission struct {
	ID                   uuid.UUID                            `gorm:"type:uuid;primary_key" json:"id"`
	CandidateID          uuid.UUID                            `gorm:"type:uuid;not null;index" json:"candidate_id"`
	ChallengeTitle       string                               `gorm:"type:text;not null" json:"challenge_title"`
	ChallengeType        string                               `gorm:"type:varchar(64);not null" json:"challenge_type"`
	ChallengeDescription string                               `gorm:"type:text" json:"challenge_description"`
	Tasks                datatypes.JSONType[[]TaskResponse]   `json:"tasks"`
	Provider             string                               `gorm:"type:varchar(32)" json:"provider"`
	Status               SubmissionStatus                     `gorm:"type:varchar(16);not null;default:'PENDING';index" json:"status"`
	OverallScore         *int                                 `json:"overall_score,omitempty"`
	TaskScores           datatypes.JSONType[[]int]            `json:"task_scores"`
	Skills               datatypes.JSONType[[]string]         `json:"skills"`
	Feedback             *string                              `gorm:"type:text" json:"feedback,omitempty"`
	PlagiarismFlag       bool                                 `gorm:"not null;default:false" json:"plagiarism_flag"`
	DefaultedTaskScores  bool                                 `gorm:"not null;default:false" json:"defaulted_task_scores"`
	NeedsManualReview    bool                                 `gorm:"not null;default:false" json:"needs_manual_review"`
	ErrorMessage         *string                              `gorm:"type:text" json:"error_message,omitempty"`
	GradedAt             *time.Time                           `json:"graded_at,omitempty"`
	CreatedAt            time.Time                            `json:"created_at"`
	UpdatedAt            time.Time                            `json:"updated_at"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// GradingRequest rebuilds the orchestrator input from the stored row.
func (s *Submission) GradingRequest() ChallengeGradingRequest {
	return ChallengeGradingRequest{
		Challenge: ChallengeDescriptor{
			Title:       s.ChallengeTitle,
			Type:        s.ChallengeType,
			Description: s.ChallengeDescription,
		},
		Tasks: s.Tasks.Data(),
	}
}
