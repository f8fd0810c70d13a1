package whisper

import (
	"context"
	"net/http"
	"strings"

	"tube-bite/config"
	"tube-bite/internal/types"
	"tube-bite/pkg/errors"

	"github.com/sashabaranov/go-openai"
)

// Client transcribes audio through an OpenAI-compatible /audio/transcriptions
// endpoint using the verbose response format, which carries per-segment
// timestamps.
type Client struct {
	client *openai.Client
	model  string
}

func NewClient(baseUrl, apiKey, model, proxyAddr string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseUrl != "" {
		cfg.BaseURL = baseUrl
	}

	transport := &http.Transport{}
	if proxyAddr != "" {
		transport.Proxy = http.ProxyURL(config.Conf.App.ParsedProxy)
	}
	cfg.HTTPClient = &http.Client{Transport: transport}

	if model == "" {
		model = openai.Whisper1
	}
	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *Client) Transcribe(ctx context.Context, audioFile string) ([]types.TranscriptSegment, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: audioFile,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeTranscribeFailed, "transcription request failed", err)
	}

	segments := make([]types.TranscriptSegment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, types.TranscriptSegment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
	}
	if len(segments) == 0 {
		return nil, errors.New(errors.CodeTranscribeFailed, "transcription produced no segments")
	}
	return segments, nil
}
