package services

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// callAnthropic sends a messages request and concatenates the text blocks
// of the content array.
func callAnthropic(ctx context.Context, call vendorCall) (string, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(call.APIKey),
		option.WithMaxRetries(0),
	}
	if call.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(call.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(call.Model),
		MaxTokens: maxOutputTokens,
		System: []anthropic.TextBlockParam{
			{Text: call.SystemMessage},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(call.Prompt)),
		},
		Temperature: anthropic.Float(generationTemperature),
	})
	if err != nil {
		statusCode := 0
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			statusCode = apiErr.StatusCode
		}
		return "", &UpstreamError{Provider: call.Provider, StatusCode: statusCode, Err: err}
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return text, nil
}
