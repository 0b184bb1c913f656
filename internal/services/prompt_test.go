package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"uprise/meritmatch/internal/models"
)

func TestBuildJobMatchPrompt(t *testing.T) {
	prompt := NewPromptBuilder().BuildJobMatchPrompt(sampleCandidate(), sampleJob())

	assert.Contains(t, prompt, "Title: Frontend Intern")
	assert.Contains(t, prompt, "Required Skills: React, TypeScript")
	assert.Contains(t, prompt, "Duration: 3 months")
	assert.Contains(t, prompt, "Compensation: Paid")
	assert.Contains(t, prompt, "Reputation Score (JSS): 80/100")
	assert.Contains(t, prompt, "Bio: Frontend enthusiast")
	assert.NotContains(t, prompt, "{{")
}

func TestBuildJobMatchPrompt_Defaults(t *testing.T) {
	prompt := NewPromptBuilder().BuildJobMatchPrompt(models.CandidateProfile{}, models.JobRequirement{Title: "Intern"})

	assert.Contains(t, prompt, "Duration: Not specified")
	assert.Contains(t, prompt, "Description: Not provided")
	assert.Contains(t, prompt, "Bio: Not provided")
	assert.Contains(t, prompt, "Location Type: Not specified")
	assert.Contains(t, prompt, "Compensation: Unpaid")
	assert.NotContains(t, prompt, "<nil>")
	assert.NotContains(t, prompt, "{{")
}

func TestBuildJobMatchPrompt_DoesNotExpandInsertedText(t *testing.T) {
	candidate := sampleCandidate()
	candidate.Bio = "I write {{job_title}} templates"

	prompt := NewPromptBuilder().BuildJobMatchPrompt(candidate, sampleJob())
	assert.Contains(t, prompt, "Bio: I write {{job_title}} templates")
}

func TestBuildJobMatchPrompt_Deterministic(t *testing.T) {
	pb := NewPromptBuilder()
	assert.Equal(t,
		pb.BuildJobMatchPrompt(sampleCandidate(), sampleJob()),
		pb.BuildJobMatchPrompt(sampleCandidate(), sampleJob()))
}

func TestBuildGradingPrompt_TaskBlocks(t *testing.T) {
	req := models.ChallengeGradingRequest{
		Challenge: models.ChallengeDescriptor{Title: "Todo API", Type: "coding"},
		Tasks: []models.TaskResponse{
			{TaskTitle: "Endpoints", TaskDescription: "List endpoints", Response: "GET /todos"},
			{TaskTitle: "Storage", Response: "Postgres"},
		},
	}

	prompt := NewPromptBuilder().BuildGradingPrompt(req)

	expected := "Task 1: Endpoints\nDescription: List endpoints\nCandidate Response:\nGET /todos" +
		"\n---\n" +
		"Task 2: Storage\nDescription: Not provided\nCandidate Response:\nPostgres"
	assert.Contains(t, prompt, expected)
	assert.Contains(t, prompt, "Description: Not provided\n\nSUBMITTED TASKS (2):")
	assert.Less(t, strings.Index(prompt, "Task 1:"), strings.Index(prompt, "Task 2:"))
	assert.NotContains(t, prompt, "{{")
}
