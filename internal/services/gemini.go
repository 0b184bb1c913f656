package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"google.golang.org/genai"
)

const (
	embeddingModel     = "text-embedding-004"
	maxEmbeddingInput  = 40000
	embeddingDimension = 768
)

func newGeminiClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

// callGemini reads the text parts of the first candidate.
func callGemini(ctx context.Context, call vendorCall) (string, error) {
	client, err := newGeminiClient(ctx, call.APIKey, call.BaseURL)
	if err != nil {
		return "", &UpstreamError{Provider: call.Provider, Err: err}
	}

	resp, err := client.Models.GenerateContent(ctx, call.Model, genai.Text(call.Prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(call.SystemMessage, genai.RoleUser),
		Temperature:       genai.Ptr[float32](generationTemperature),
		MaxOutputTokens:   maxOutputTokens,
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", &UpstreamError{Provider: call.Provider, Err: err}
	}

	if resp == nil {
		return "", nil
	}

	return resp.Text(), nil
}

// EmbeddingService turns response text into vectors for the similarity index.
type EmbeddingService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type geminiEmbedder struct {
	client *genai.Client
	model  string
}

func NewGeminiEmbedder(ctx context.Context, apiKey, baseURL string) (EmbeddingService, error) {
	client, err := newGeminiClient(ctx, apiKey, baseURL)
	if err != nil {
		return nil, err
	}

	return &geminiEmbedder{client: client, model: embeddingModel}, nil
}

// GenerateEmbedding implements EmbeddingService.
func (g *geminiEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// text-embedding-004 accepts roughly 10k tokens
	text = truncateUTF8(text, maxEmbeddingInput)

	result, err := g.client.Models.EmbedContent(ctx, g.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// truncateUTF8 cuts text to at most limit bytes without splitting a rune.
func truncateUTF8(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
