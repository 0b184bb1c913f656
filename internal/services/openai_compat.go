package services

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// callOpenAICompatible serves every vendor speaking the chat-completions shape.
func callOpenAICompatible(ctx context.Context, call vendorCall) (string, error) {
	clientConfig := openai.DefaultConfig(call.APIKey)
	if call.BaseURL != "" {
		clientConfig.BaseURL = call.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: call.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: call.SystemMessage},
			{Role: openai.ChatMessageRoleUser, Content: call.Prompt},
		},
		Temperature: generationTemperature,
		MaxTokens:   maxOutputTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", &UpstreamError{Provider: call.Provider, StatusCode: openAIStatusCode(err), Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}

func openAIStatusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}

	return 0
}
