package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SkillScore is the rolling-average competency of one candidate in one skill.
type SkillScore struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CandidateID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_skill_scores_candidate_skill" json:"candidate_id"`
	Skill            string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_skill_scores_candidate_skill" json:"skill"`
	Score            int       `gorm:"not null" json:"score"`
	SubmissionsCount int       `gorm:"not null;default:1" json:"submissions_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (SkillScore) TableName() string {
	return "skill_scores"
}

func (s *SkillScore) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
