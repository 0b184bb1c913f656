package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"uprise/meritmatch/internal/models"
)

// SkillScoreRepository owns the per-candidate, per-skill rolling averages.
type SkillScoreRepository interface {
	// Upsert folds one observed score into the (candidateID, skill) average
	// and returns the stored row.
	Upsert(ctx context.Context, candidateID uuid.UUID, skill string, observedScore int) (*models.SkillScore, error)
	FindByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.SkillScore, error)
}

// rollingAverageExpr is evaluated by the database against the existing row,
// so concurrent writers of the same key are serialized by the upsert itself.
const rollingAverageExpr = "CAST(ROUND((skill_scores.score * skill_scores.submissions_count + excluded.score) * 1.0 / (skill_scores.submissions_count + 1)) AS INTEGER)"

type skillScoreRepository struct {
	db *gorm.DB
}

func NewSkillScoreRepository(db *gorm.DB) SkillScoreRepository {
	return &skillScoreRepository{db: db}
}

// Upsert implements SkillScoreRepository.
func (r *skillScoreRepository) Upsert(ctx context.Context, candidateID uuid.UUID, skill string, observedScore int) (*models.SkillScore, error) {
	var stored models.SkillScore

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		row := models.SkillScore{
			ID:               uuid.New(),
			CandidateID:      candidateID,
			Skill:            skill,
			Score:            observedScore,
			SubmissionsCount: 1,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "candidate_id"}, {Name: "skill"}},
			DoUpdates: clause.Set{
				{Column: clause.Column{Name: "score"}, Value: gorm.Expr(rollingAverageExpr)},
				{Column: clause.Column{Name: "submissions_count"}, Value: gorm.Expr("skill_scores.submissions_count + 1")},
				{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("excluded.updated_at")},
			},
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("failed to upsert skill score: %w", err)
		}

		if err := tx.Where("candidate_id = ? AND skill = ?", candidateID, skill).First(&stored).Error; err != nil {
			return fmt.Errorf("failed to read skill score: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

// FindByCandidate implements SkillScoreRepository.
func (r *skillScoreRepository) FindByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.SkillScore, error) {
	var scores []models.SkillScore
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("score DESC, skill ASC").
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find skill scores: %w", err)
	}

	return scores, nil
}
