package models

import "strings"

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// experienceScale orders levels for the adjacency check in fallback scoring.
var experienceScale = []ExperienceLevel{
	ExperienceBeginner,
	ExperienceIntermediate,
	ExperienceAdvanced,
}

// Rank returns the position of the level on the beginner..advanced scale, or -1.
func (l ExperienceLevel) Rank() int {
	for i, level := range experienceScale {
		if level == l {
			return i
		}
	}
	return -1
}

type LocationType string

const (
	LocationRemote LocationType = "remote"
	LocationHybrid LocationType = "hybrid"
	LocationOnsite LocationType = "onsite"
)

// CandidateProfile is the matching input describing one candidate.
type CandidateProfile struct {
	Skills          string          `json:"skills"`
	ExperienceLevel ExperienceLevel `json:"experience_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	ReputationScore int             `json:"reputation_score" validate:"min=0,max=100"`
	Bio             string          `json:"bio,omitempty"`
}

// JobRequirement is the matching input describing one internship posting.
type JobRequirement struct {
	Title           string          `json:"title" validate:"required"`
	RequiredSkills  string          `json:"required_skills"`
	ExperienceLevel ExperienceLevel `json:"experience_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	LocationType    LocationType    `json:"location_type" validate:"omitempty,oneof=remote hybrid onsite"`
	DurationMonths  *int            `json:"duration_months,omitempty" validate:"omitempty,min=0"`
	IsPaid          bool            `json:"is_paid"`
	Description     string          `json:"description,omitempty"`
}

// ParseSkills splits a comma-separated skill list into trimmed, lowercase tokens.
// Empty tokens are dropped.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.ToLower(strings.TrimSpace(part))
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
