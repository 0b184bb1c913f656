package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"uprise/meritmatch/internal/models"
)

func TestFallbackScore_ClampsWeightedSum(t *testing.T) {
	// 50 + 20 skills + 20 experience + 15 remote + 12 reputation + 5 duration + 5 paid = 127
	result := FallbackScore(sampleCandidate(), sampleJob())

	assert.Equal(t, 100, result.Score)
	assert.Equal(t, models.FallbackProvider, result.Provider)
	assert.Equal(t, models.FallbackModel, result.Model)
	assert.True(t, result.IsFallback())
	assert.Equal(t, "Score calculated using rule-based matching (AI service unavailable).", result.Reasoning)
	assert.Len(t, result.Strengths, 1)
	assert.Empty(t, result.Gaps)
	assert.NotNil(t, result.Gaps)
	assert.Len(t, result.Recommendations, 1)
}

func TestFallbackScore_Components(t *testing.T) {
	tests := []struct {
		name      string
		candidate models.CandidateProfile
		job       models.JobRequirement
		want      int
	}{
		{
			name:      "base only",
			candidate: models.CandidateProfile{Skills: "Go", ExperienceLevel: models.ExperienceBeginner},
			job: models.JobRequirement{
				RequiredSkills:  "Python, Java",
				ExperienceLevel: models.ExperienceAdvanced,
				LocationType:    models.LocationOnsite,
				DurationMonths:  intPtr(12),
			},
			want: 50,
		},
		{
			name:      "partial overlap with adjacent level",
			candidate: models.CandidateProfile{Skills: "react", ExperienceLevel: models.ExperienceIntermediate, ReputationScore: 50},
			job: models.JobRequirement{
				RequiredSkills:  "React, TypeScript, Node",
				ExperienceLevel: models.ExperienceAdvanced,
				LocationType:    models.LocationHybrid,
				DurationMonths:  intPtr(6),
			},
			// 50 + 13.33 + 10 + 10 + 7.5 + 3
			want: 94,
		},
		{
			name:      "substring match works both ways",
			candidate: models.CandidateProfile{Skills: "node, postgresql"},
			job:       models.JobRequirement{RequiredSkills: "Node.js, SQL"},
			want:      90,
		},
		{
			name:      "no job skills",
			candidate: models.CandidateProfile{Skills: "Go"},
			job:       models.JobRequirement{IsPaid: true},
			want:      55,
		},
		{
			name:      "unknown levels add nothing",
			candidate: models.CandidateProfile{ExperienceLevel: "expert"},
			job:       models.JobRequirement{ExperienceLevel: models.ExperienceAdvanced},
			want:      50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FallbackScore(tt.candidate, tt.job).Score)
		})
	}
}

func TestFallbackScore_DeterministicAndBounded(t *testing.T) {
	levels := []models.ExperienceLevel{"", models.ExperienceBeginner, models.ExperienceIntermediate, models.ExperienceAdvanced}
	locations := []models.LocationType{"", models.LocationRemote, models.LocationHybrid, models.LocationOnsite}

	for _, cl := range levels {
		for _, jl := range levels {
			for _, loc := range locations {
				for _, rep := range []int{0, 55, 100} {
					candidate := models.CandidateProfile{Skills: "go, sql", ExperienceLevel: cl, ReputationScore: rep}
					job := models.JobRequirement{RequiredSkills: "Go", ExperienceLevel: jl, LocationType: loc, IsPaid: rep > 50}

					first := FallbackScore(candidate, job)
					assert.Equal(t, first, FallbackScore(candidate, job))
					assert.GreaterOrEqual(t, first.Score, 0)
					assert.LessOrEqual(t, first.Score, 100)
				}
			}
		}
	}
}
