package services

import (
	"encoding/json"
	"math"
	"strings"

	"uprise/meritmatch/internal/models"
)

const (
	defaultReasoning = "No reasoning provided"
	defaultFeedback  = "No feedback provided"
)

// ExtractJSONObject returns the span from the first '{' to the last '}'.
func ExtractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", &ParseError{Reason: "no JSON object found in response"}
	}
	return text[start : end+1], nil
}

func decodeObject(text string) (map[string]any, error) {
	span, err := ExtractJSONObject(text)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return nil, &ParseError{Reason: "invalid JSON object", Err: err}
	}
	return payload, nil
}

// ParseMatchResponse normalizes a compatibility payload. Provider and Model
// are left for the caller.
func ParseMatchResponse(text string) (models.MatchResult, error) {
	payload, err := decodeObject(text)
	if err != nil {
		return models.MatchResult{}, err
	}

	score, _ := scoreField(payload, "score")
	return models.MatchResult{
		Score:           score,
		Reasoning:       stringField(payload, "reasoning", defaultReasoning),
		Strengths:       stringList(payload, "strengths"),
		Gaps:            stringList(payload, "gaps"),
		Recommendations: stringList(payload, "recommendations"),
	}, nil
}

// ParseGradingResponse keeps taskScores positional: an element that is not
// a JSON number is replaced by DefaultTaskScore and DefaultedTaskScores is set.
func ParseGradingResponse(text string) (models.GradingResult, error) {
	result, _, err := parseGradingPayload(text)
	return result, err
}

// parseGradingPayload also returns the indexes of taskScores elements that
// had to be defaulted.
func parseGradingPayload(text string) (models.GradingResult, []int, error) {
	payload, err := decodeObject(text)
	if err != nil {
		return models.GradingResult{}, nil, err
	}

	taskScores, invalid := scoreList(payload, "taskScores")
	overall, ok := scoreField(payload, "overallScore")
	if !ok {
		overall = meanScore(taskScores)
	}

	plagiarism, _ := payload["plagiarismFlag"].(bool)

	return models.GradingResult{
		TaskScores:          taskScores,
		OverallScore:        overall,
		Skills:              stringList(payload, "skills"),
		Feedback:            stringField(payload, "feedback", defaultFeedback),
		PlagiarismFlag:      plagiarism,
		DefaultedTaskScores: len(invalid) > 0,
	}, invalid, nil
}

// ClampScore rounds half away from zero and bounds the result to [0,100].
func ClampScore(value float64) int {
	if math.IsNaN(value) {
		return 0
	}
	rounded := math.Round(value)
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return int(rounded)
}

// scoreField reports false when the key is absent or not a JSON number.
func scoreField(payload map[string]any, key string) (int, bool) {
	number, ok := payload[key].(float64)
	if !ok {
		return 0, false
	}
	return ClampScore(number), true
}

func scoreList(payload map[string]any, key string) ([]int, []int) {
	raw, ok := payload[key].([]any)
	if !ok {
		return []int{}, nil
	}

	scores := make([]int, len(raw))
	var invalid []int
	for i, item := range raw {
		number, ok := item.(float64)
		if !ok {
			scores[i] = DefaultTaskScore
			invalid = append(invalid, i)
			continue
		}
		scores[i] = ClampScore(number)
	}
	return scores, invalid
}

func stringField(payload map[string]any, key, fallback string) string {
	value, ok := payload[key].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func stringList(payload map[string]any, key string) []string {
	raw, ok := payload[key].([]any)
	if !ok {
		return []string{}
	}

	values := make([]string, 0, len(raw))
	for _, item := range raw {
		if value, ok := item.(string); ok && strings.TrimSpace(value) != "" {
			values = append(values, value)
		}
	}
	return values
}

func meanScore(scores []int) int {
	if len(scores) == 0 {
		return 0
	}

	total := 0
	for _, score := range scores {
		total += score
	}
	return ClampScore(float64(total) / float64(len(scores)))
}
