package services

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// ResponseChunk is one embedded window of a submitted task response.
type ResponseChunk struct {
	SubmissionID string
	CandidateID  string
	Index        int
	Text         string
}

type SimilarChunk struct {
	SubmissionID string
	CandidateID  string
	Score        float32
	Text         string
}

type VectorStore interface {
	InitCollection(ctx context.Context) error
	UpsertChunk(ctx context.Context, chunk ResponseChunk, embedding []float32) error
	// NearestFromOtherCandidates never returns chunks owned by candidateID.
	NearestFromOtherCandidates(ctx context.Context, embedding []float32, candidateID string, limit int) ([]SimilarChunk, error)
	DeleteSubmission(ctx context.Context, submissionID string) error
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantService(urlStr, apiKey, collectionName string) (VectorStore, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	// gRPC port unless the URL names one
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: apiKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     embeddingDimension,
	}, nil
}

// InitCollection implements VectorStore.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created\n", q.collectionName)
	return nil
}

// UpsertChunk implements VectorStore. Re-indexing a submission overwrites
// its points instead of duplicating them.
func (q *qdrantService) UpsertChunk(ctx context.Context, chunk ResponseChunk, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(chunkPointID(chunk.SubmissionID, chunk.Index)),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"submission_id": chunk.SubmissionID,
			"candidate_id":  chunk.CandidateID,
			"chunk_index":   chunk.Index,
			"text":          chunk.Text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// NearestFromOtherCandidates implements VectorStore.
func (q *qdrantService) NearestFromOtherCandidates(ctx context.Context, embedding []float32, candidateID string, limit int) ([]SimilarChunk, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Filter: &qdrant.Filter{
			MustNot: []*qdrant.Condition{
				qdrant.NewMatch("candidate_id", candidateID),
			},
		},
		Limit:       qdrant.PtrOf(uint64(limit)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SimilarChunk, 0, len(points))
	for _, point := range points {
		results = append(results, SimilarChunk{
			SubmissionID: payloadString(point.Payload, "submission_id"),
			CandidateID:  payloadString(point.Payload, "candidate_id"),
			Score:        point.Score,
			Text:         payloadString(point.Payload, "text"),
		})
	}

	return results, nil
}

// DeleteSubmission implements VectorStore.
func (q *qdrantService) DeleteSubmission(ctx context.Context, submissionID string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatch("submission_id", submissionID),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete submission points: %w", err)
	}

	return nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	value, ok := payload[key]
	if !ok {
		return ""
	}
	if s, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
		return s.StringValue
	}
	return ""
}

func chunkPointID(submissionID string, index int) uint64 {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(submissionID+":"+strconv.Itoa(index)))
	return binary.BigEndian.Uint64(id[:8])
}
