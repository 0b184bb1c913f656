package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"uprise/meritmatch/internal/config"
	"uprise/meritmatch/internal/models"
)

type fakeAdapter struct {
	Default      ProviderTag
	GenerateFunc func(ctx context.Context, provider ProviderTag, systemMessage, prompt string) (string, error)

	mu    sync.Mutex
	calls []ProviderTag
}

func (f *fakeAdapter) Generate(ctx context.Context, provider ProviderTag, systemMessage, prompt string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, provider)
	f.mu.Unlock()
	return f.GenerateFunc(ctx, provider, systemMessage, prompt)
}

func (f *fakeAdapter) DefaultProvider() ProviderTag {
	return f.Default
}

func (f *fakeAdapter) Calls() []ProviderTag {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ProviderTag(nil), f.calls...)
}

type fakeGrader struct {
	GradeFunc func(ctx context.Context, req models.ChallengeGradingRequest, provider ProviderTag) (models.GradingResult, error)
}

func (f *fakeGrader) Grade(ctx context.Context, req models.ChallengeGradingRequest, provider ProviderTag) (models.GradingResult, error) {
	return f.GradeFunc(ctx, req, provider)
}

type fakeEnqueuer struct {
	mu  sync.Mutex
	ids []uuid.UUID
	err error
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
	return f.err
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "services.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func intPtr(v int) *int { return &v }

func sampleCandidate() models.CandidateProfile {
	return models.CandidateProfile{
		Skills:          "React, Node.js",
		ExperienceLevel: models.ExperienceIntermediate,
		ReputationScore: 80,
		Bio:             "Frontend enthusiast",
	}
}

func sampleJob() models.JobRequirement {
	return models.JobRequirement{
		Title:           "Frontend Intern",
		RequiredSkills:  "React, TypeScript",
		ExperienceLevel: models.ExperienceIntermediate,
		LocationType:    models.LocationRemote,
		DurationMonths:  intPtr(3),
		IsPaid:          true,
		Description:     "Build dashboard components",
	}
}

func sampleGradingRequest(tasks int) models.ChallengeGradingRequest {
	req := models.ChallengeGradingRequest{
		Challenge: models.ChallengeDescriptor{
			Title:       "Todo API",
			Type:        "coding",
			Description: "Design a small REST API",
		},
	}
	for i := 0; i < tasks; i++ {
		req.Tasks = append(req.Tasks, models.TaskResponse{
			TaskTitle:       "Task title",
			TaskDescription: "Task description",
			Response:        "Candidate answer",
		})
	}
	return req
}
