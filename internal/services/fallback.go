package services

import (
	"strings"

	"uprise/meritmatch/internal/models"
)

const (
	fallbackBase            = 50.0
	skillOverlapWeight      = 40.0
	experienceExactBonus    = 20.0
	experienceAdjacentBonus = 10.0
	remoteBonus             = 15.0
	hybridBonus             = 10.0
	reputationWeight        = 15.0
	shortDurationBonus      = 5.0
	mediumDurationBonus     = 3.0
	paidBonus               = 5.0
)

const (
	fallbackReasoning      = "Score calculated using rule-based matching (AI service unavailable)."
	fallbackStrength       = "Profile evaluated against job requirements using rule-based criteria"
	fallbackRecommendation = "Review the candidate profile manually for a detailed assessment"
)

// FallbackScore computes a MatchResult without any network call.
func FallbackScore(candidate models.CandidateProfile, job models.JobRequirement) models.MatchResult {
	score := fallbackBase +
		skillOverlap(candidate.Skills, job.RequiredSkills) +
		experienceScore(candidate.ExperienceLevel, job.ExperienceLevel) +
		locationScore(job.LocationType) +
		float64(candidate.ReputationScore)/100*reputationWeight +
		durationScore(job.DurationMonths)

	if job.IsPaid {
		score += paidBonus
	}

	return models.MatchResult{
		Score:           ClampScore(score),
		Reasoning:       fallbackReasoning,
		Strengths:       []string{fallbackStrength},
		Gaps:            []string{},
		Recommendations: []string{fallbackRecommendation},
		Provider:        models.FallbackProvider,
		Model:           models.FallbackModel,
	}
}

// skillOverlap counts candidate tokens that contain, or are contained in,
// any job token.
func skillOverlap(candidateSkills, requiredSkills string) float64 {
	jobTokens := models.ParseSkills(requiredSkills)
	if len(jobTokens) == 0 {
		return 0
	}

	matching := 0
	for _, skill := range models.ParseSkills(candidateSkills) {
		for _, required := range jobTokens {
			if strings.Contains(skill, required) || strings.Contains(required, skill) {
				matching++
				break
			}
		}
	}

	return float64(matching) / float64(len(jobTokens)) * skillOverlapWeight
}

func experienceScore(candidate, job models.ExperienceLevel) float64 {
	c, j := candidate.Rank(), job.Rank()
	if c < 0 || j < 0 {
		return 0
	}

	switch diff := c - j; {
	case diff == 0:
		return experienceExactBonus
	case diff == 1 || diff == -1:
		return experienceAdjacentBonus
	default:
		return 0
	}
}

func locationScore(location models.LocationType) float64 {
	switch location {
	case models.LocationRemote:
		return remoteBonus
	case models.LocationHybrid:
		return hybridBonus
	default:
		return 0
	}
}

func durationScore(months *int) float64 {
	if months == nil {
		return 0
	}

	switch {
	case *months <= 3:
		return shortDurationBonus
	case *months <= 6:
		return mediumDurationBonus
	default:
		return 0
	}
}
