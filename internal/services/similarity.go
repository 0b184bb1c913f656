package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"uprise/meritmatch/internal/models"
)

const DefaultSimilarityThreshold = 0.95

// SimilarityIndex detects task responses that closely copy another
// candidate's earlier work.
type SimilarityIndex interface {
	Enabled() bool
	IsNearDuplicate(ctx context.Context, candidateID uuid.UUID, tasks []models.TaskResponse) (bool, error)
	Index(ctx context.Context, submissionID, candidateID uuid.UUID, tasks []models.TaskResponse) error
}

type noopSimilarityIndex struct{}

func NewNoopSimilarityIndex() SimilarityIndex {
	return noopSimilarityIndex{}
}

func (noopSimilarityIndex) Enabled() bool { return false }

func (noopSimilarityIndex) IsNearDuplicate(context.Context, uuid.UUID, []models.TaskResponse) (bool, error) {
	return false, nil
}

func (noopSimilarityIndex) Index(context.Context, uuid.UUID, uuid.UUID, []models.TaskResponse) error {
	return nil
}

type vectorSimilarityIndex struct {
	embedder  EmbeddingService
	store     VectorStore
	chunker   TextChunker
	threshold float64
}

func NewVectorSimilarityIndex(embedder EmbeddingService, store VectorStore, chunker TextChunker, threshold float64) SimilarityIndex {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}

	return &vectorSimilarityIndex{
		embedder:  embedder,
		store:     store,
		chunker:   chunker,
		threshold: threshold,
	}
}

func (v *vectorSimilarityIndex) Enabled() bool { return true }

// IsNearDuplicate implements SimilarityIndex.
func (v *vectorSimilarityIndex) IsNearDuplicate(ctx context.Context, candidateID uuid.UUID, tasks []models.TaskResponse) (bool, error) {
	for _, text := range v.chunks(tasks) {
		embedding, err := v.embedder.GenerateEmbedding(ctx, text)
		if err != nil {
			return false, err
		}

		nearest, err := v.store.NearestFromOtherCandidates(ctx, embedding, candidateID.String(), 1)
		if err != nil {
			return false, err
		}

		if len(nearest) > 0 && float64(nearest[0].Score) >= v.threshold {
			log.Printf("🔍 Response chunk matches submission %s at %.3f", nearest[0].SubmissionID, nearest[0].Score)
			return true, nil
		}
	}

	return false, nil
}

// Index implements SimilarityIndex. Existing points of the submission are
// replaced, so re-indexing never leaves stale chunks behind.
func (v *vectorSimilarityIndex) Index(ctx context.Context, submissionID, candidateID uuid.UUID, tasks []models.TaskResponse) error {
	texts := v.chunks(tasks)
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := v.embedder.GenerateEmbedding(ctx, text)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		embeddings[i] = embedding
	}

	if err := v.store.DeleteSubmission(ctx, submissionID.String()); err != nil {
		return err
	}

	for i, text := range texts {
		chunk := ResponseChunk{
			SubmissionID: submissionID.String(),
			CandidateID:  candidateID.String(),
			Index:        i,
			Text:         text,
		}
		if err := v.store.UpsertChunk(ctx, chunk, embeddings[i]); err != nil {
			return err
		}
	}

	return nil
}

func (v *vectorSimilarityIndex) chunks(tasks []models.TaskResponse) []string {
	var chunks []string
	for _, task := range tasks {
		chunks = append(chunks, v.chunker.ChunkText(task.Response, DefaultChunkSize, DefaultChunkOverlap)...)
	}
	return chunks
}
