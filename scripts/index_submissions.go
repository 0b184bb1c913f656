package main

import (
	"context"
	"log"

	"uprise/meritmatch/internal/config"
	"uprise/meritmatch/internal/repositories"
	"uprise/meritmatch/internal/services"
)

const pageSize = 50

// Backfills the similarity index from every graded submission.
func main() {
	log.Println("🚀 Starting submission indexing...")

	cfg := config.Load()
	if !cfg.Qdrant.Enabled() || cfg.AI.GeminiAPIKey == "" {
		log.Fatal("❌ QDRANT_URL and GEMINI_API_KEY are required")
	}

	ctx := context.Background()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	submissionRepo := repositories.NewSubmissionRepository(db)

	embedder, err := services.NewGeminiEmbedder(ctx, cfg.AI.GeminiAPIKey, cfg.AI.GeminiBaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	store, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}
	if err := store.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	index := services.NewVectorSimilarityIndex(embedder, store, services.NewTextChunker(), cfg.Qdrant.SimilarityThreshold)

	successCount, failCount := 0, 0
	for offset := 0; ; offset += pageSize {
		submissions, err := submissionRepo.FindGraded(ctx, pageSize, offset)
		if err != nil {
			log.Fatalf("❌ Failed to list graded submissions: %v", err)
		}
		if len(submissions) == 0 {
			break
		}

		for _, submission := range submissions {
			if err := index.Index(ctx, submission.ID, submission.CandidateID, submission.Tasks.Data()); err != nil {
				log.Printf("❌ Submission %s: %v", submission.ID, err)
				failCount++
				continue
			}
			successCount++
		}
	}

	log.Printf("✅ Indexed %d submissions (%d failed)", successCount, failCount)
}
