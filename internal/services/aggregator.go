package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"uprise/meritmatch/internal/models"
)

// SkillScoreStore must apply the rolling average atomically per key.
type SkillScoreStore interface {
	Upsert(ctx context.Context, candidateID uuid.UUID, skill string, observedScore int) (*models.SkillScore, error)
}

type SkillAggregator interface {
	Apply(ctx context.Context, candidateID uuid.UUID, result models.GradingResult) ([]models.SkillScore, error)
	// WithStore returns an aggregator writing to store, typically one bound
	// to an open transaction.
	WithStore(store SkillScoreStore) SkillAggregator
}

type skillAggregator struct {
	store SkillScoreStore
}

func NewSkillAggregator(store SkillScoreStore) SkillAggregator {
	return &skillAggregator{store: store}
}

// WithStore implements SkillAggregator.
func (a *skillAggregator) WithStore(store SkillScoreStore) SkillAggregator {
	return &skillAggregator{store: store}
}

// Apply implements SkillAggregator. Every label is an independent update, so
// a label listed twice is averaged in twice.
func (a *skillAggregator) Apply(ctx context.Context, candidateID uuid.UUID, result models.GradingResult) ([]models.SkillScore, error) {
	updated := make([]models.SkillScore, 0, len(result.Skills))
	for _, skill := range result.Skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}

		score, err := a.store.Upsert(ctx, candidateID, skill, result.OverallScore)
		if err != nil {
			return updated, fmt.Errorf("failed to update skill score %q: %w", skill, err)
		}
		updated = append(updated, *score)
	}
	return updated, nil
}

// RollingAverage is round((oldScore*oldCount + newScore) / (oldCount+1)).
func RollingAverage(oldScore, oldCount, newScore int) int {
	if oldCount <= 0 {
		return newScore
	}
	return int(math.Round(float64(oldScore*oldCount+newScore) / float64(oldCount+1)))
}
