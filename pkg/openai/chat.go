package openai

import (
	"context"
	goerrors "errors"
	"net/http"
	"strings"

	"tube-bite/pkg/errors"

	"github.com/sashabaranov/go-openai"
)

// ChatCompletion sends a single-turn prompt to the given model and returns
// the raw reply text. Rate limits and missing models surface as typed errors
// so the caller can back off or fail over to another model.
func (c *Client) ChatCompletion(ctx context.Context, model string, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.CodeLLMBadOutput, "model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyError(err error) error {
	var apiErr *openai.APIError
	if goerrors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return errors.Wrap(errors.CodeLLMRateLimited, "model rate limited", err)
		case apiErr.HTTPStatusCode == http.StatusNotFound,
			strings.Contains(strings.ToLower(apiErr.Message), "model"):
			return errors.Wrap(errors.CodeLLMModelGone, "model unavailable", err)
		}
	}
	if strings.Contains(err.Error(), "429") {
		return errors.Wrap(errors.CodeLLMRateLimited, "model rate limited", err)
	}
	return errors.Wrap(errors.CodeLLMFailed, "chat completion failed", err)
}
