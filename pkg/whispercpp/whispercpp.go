package whispercpp

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"tube-bite/internal/storage"
	"tube-bite/internal/types"
	"tube-bite/pkg/errors"
)

// Processor runs a local whisper.cpp binary so transcription works without
// any API key. The binary path is resolved at startup next to ffmpeg.
type Processor struct {
	Model string
}

func NewWhispercppProcessor(model string) *Processor {
	return &Processor{Model: model}
}

// whisper.cpp -oj output: offsets are in milliseconds.
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func (p *Processor) Transcribe(ctx context.Context, audioFile string) ([]types.TranscriptSegment, error) {
	outPrefix := filepath.Join(filepath.Dir(audioFile), "whisper")
	args := []string{
		"-m", p.Model,
		"-f", audioFile,
		"-oj",
		"-of", outPrefix,
	}
	cmd := exec.CommandContext(ctx, storage.WhisperCliPath, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, errors.WrapWithDetail(errors.CodeTranscribeFailed, "whisper.cpp failed", string(out), err)
	}

	raw, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return nil, errors.Wrap(errors.CodeTranscribeFailed, "whisper.cpp output missing", err)
	}

	var parsed whisperOutput
	if err = json.Unmarshal(raw, &parsed); err != nil {
		return nil, errors.Wrap(errors.CodeTranscribeFailed, "whisper.cpp output unreadable", err)
	}

	segments := make([]types.TranscriptSegment, 0, len(parsed.Transcription))
	for _, seg := range parsed.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, types.TranscriptSegment{
			Start: float64(seg.Offsets.From) / 1000,
			End:   float64(seg.Offsets.To) / 1000,
			Text:  text,
		})
	}
	if len(segments) == 0 {
		return nil, errors.New(errors.CodeTranscribeFailed, "whisper.cpp produced no segments")
	}
	return segments, nil
}
