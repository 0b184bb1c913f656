package services

import (
	"context"
	"log"

	"uprise/meritmatch/internal/models"
)

// DefaultTaskScore stands in for a task score the model did not give. A
// short list defaults every task.
const DefaultTaskScore = 70

type GradingOrchestrator interface {
	Grade(ctx context.Context, req models.ChallengeGradingRequest, provider ProviderTag) (models.GradingResult, error)
}

type gradingOrchestrator struct {
	adapter ProviderAdapter
	prompts *PromptBuilder
}

func NewGradingOrchestrator(adapter ProviderAdapter) GradingOrchestrator {
	return &gradingOrchestrator{
		adapter: adapter,
		prompts: NewPromptBuilder(),
	}
}

// Grade implements GradingOrchestrator. Provider and parse failures are
// returned as *GradingUnavailableError; there is no rule-based grading.
func (g *gradingOrchestrator) Grade(ctx context.Context, req models.ChallengeGradingRequest, provider ProviderTag) (models.GradingResult, error) {
	if len(req.Tasks) == 0 {
		return models.GradingResult{}, ErrNoTasks
	}

	prompt := g.prompts.BuildGradingPrompt(req)
	raw, err := g.adapter.Generate(ctx, provider, GradingSystemMessage, prompt)
	if err != nil {
		return models.GradingResult{}, &GradingUnavailableError{Err: err}
	}

	result, invalid, err := parseGradingPayload(raw)
	if err != nil {
		return models.GradingResult{}, &GradingUnavailableError{Err: err}
	}

	short := len(result.TaskScores) < len(req.Tasks)
	switch {
	case short:
		log.Printf("⚠️  Model returned %d task scores for %d tasks, defaulting every task to %d",
			len(result.TaskScores), len(req.Tasks), DefaultTaskScore)
		result.TaskScores = make([]int, len(req.Tasks))
		for i := range result.TaskScores {
			result.TaskScores[i] = DefaultTaskScore
		}
		result.DefaultedTaskScores = true
	case len(result.TaskScores) > len(req.Tasks):
		result.TaskScores = result.TaskScores[:len(req.Tasks)]
		result.DefaultedTaskScores = countBelow(invalid, len(req.Tasks)) > 0
	}

	if !short && result.DefaultedTaskScores {
		log.Printf("⚠️  Model returned %d non-numeric task scores, defaulted to %d",
			countBelow(invalid, len(req.Tasks)), DefaultTaskScore)
	}

	return result, nil
}

func countBelow(indexes []int, limit int) int {
	n := 0
	for _, i := range indexes {
		if i < limit {
			n++
		}
	}
	return n
}
