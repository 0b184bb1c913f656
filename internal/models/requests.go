package models

import "time"

type MatchRequest struct {
	Candidate CandidateProfile `json:"candidate"`
	Job       JobRequirement   `json:"job"`
	Provider  string           `json:"provider,omitempty"`
}

type BatchMatchCandidate struct {
	CandidateID string           `json:"candidate_id" validate:"required"`
	Candidate   CandidateProfile `json:"candidate"`
	Provider    string           `json:"provider,omitempty"`
}

type BatchMatchRequest struct {
	Job        JobRequirement        `json:"job"`
	Candidates []BatchMatchCandidate `json:"candidates" validate:"required,min=1,dive"`
	Provider   string                `json:"provider,omitempty"`
}

type BatchMatchResponse struct {
	CandidateID string      `json:"candidate_id"`
	Result      MatchResult `json:"result"`
}

// SubmitTask carries either an inline response or an uploaded attachment.
type SubmitTask struct {
	TaskTitle       string `json:"task_title" validate:"required"`
	TaskDescription string `json:"task_description"`
	Response        string `json:"response" validate:"required_without=AttachmentID"`
	AttachmentID    string `json:"attachment_id,omitempty" validate:"omitempty,uuid"`
}

type SubmitRequest struct {
	CandidateID string              `json:"candidate_id" validate:"required,uuid"`
	Challenge   ChallengeDescriptor `json:"challenge"`
	Tasks       []SubmitTask        `json:"tasks" validate:"required,min=1,dive"`
	Provider    string              `json:"provider,omitempty"`
}

type SubmitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type AttachmentResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	PageCount    int    `json:"page_count"`
}

type SubmissionResponse struct {
	ID                string         `json:"id"`
	CandidateID       string         `json:"candidate_id"`
	Status            string         `json:"status"`
	Result            *GradingResult `json:"result,omitempty"`
	NeedsManualReview bool           `json:"needs_manual_review"`
	ErrorMessage      *string        `json:"error_message,omitempty"`
	GradedAt          *time.Time     `json:"graded_at,omitempty"`
}
