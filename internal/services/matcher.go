package services

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"uprise/meritmatch/internal/models"
)

const defaultBatchConcurrency = 8

type BatchMatchItem struct {
	CandidateID string
	Candidate   models.CandidateProfile
	// Provider overrides the batch provider when set.
	Provider ProviderTag
}

type BatchMatchEntry struct {
	CandidateID string
	Result      models.MatchResult
}

// MatchService scores candidate/job compatibility. It always returns a
// result: any failure on the AI path resolves to the rule-based score.
type MatchService interface {
	Match(ctx context.Context, candidate models.CandidateProfile, job models.JobRequirement, provider ProviderTag) models.MatchResult
	BatchMatch(ctx context.Context, job models.JobRequirement, items []BatchMatchItem, provider ProviderTag) []BatchMatchEntry
}

type matchService struct {
	adapter          ProviderAdapter
	prompts          *PromptBuilder
	aiEnabled        bool
	batchConcurrency int
}

func NewMatchService(adapter ProviderAdapter, aiEnabled bool, batchConcurrency int) MatchService {
	if batchConcurrency <= 0 {
		batchConcurrency = defaultBatchConcurrency
	}

	return &matchService{
		adapter:          adapter,
		prompts:          NewPromptBuilder(),
		aiEnabled:        aiEnabled && adapter != nil,
		batchConcurrency: batchConcurrency,
	}
}

// Match implements MatchService.
func (s *matchService) Match(ctx context.Context, candidate models.CandidateProfile, job models.JobRequirement, provider ProviderTag) models.MatchResult {
	if !s.aiEnabled {
		return FallbackScore(candidate, job)
	}

	if provider == "" {
		provider = s.adapter.DefaultProvider()
	}

	prompt := s.prompts.BuildJobMatchPrompt(candidate, job)
	raw, err := s.adapter.Generate(ctx, provider, MatchSystemMessage, prompt)
	if err != nil {
		log.Printf("⚠️  AI matching failed (%s), using rule-based score: %v", provider, err)
		return FallbackScore(candidate, job)
	}

	result, err := ParseMatchResponse(raw)
	if err != nil {
		log.Printf("⚠️  Unparseable match response from %s, using rule-based score: %v", provider, err)
		return FallbackScore(candidate, job)
	}

	result.Provider = string(provider)
	result.Model = ModelFor(provider)
	return result
}

// BatchMatch implements MatchService. Entries are returned in input order.
func (s *matchService) BatchMatch(ctx context.Context, job models.JobRequirement, items []BatchMatchItem, provider ProviderTag) []BatchMatchEntry {
	entries := make([]BatchMatchEntry, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)

	for i, item := range items {
		g.Go(func() error {
			itemProvider := provider
			if item.Provider != "" {
				itemProvider = item.Provider
			}

			entries[i] = BatchMatchEntry{
				CandidateID: item.CandidateID,
				Result:      s.Match(gctx, item.Candidate, job, itemProvider),
			}
			return nil
		})
	}

	_ = g.Wait()
	return entries
}
