package types

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// TranscriptSegment is one sentence-level span produced by the transcriber.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// FlexFloat tolerates models that emit numbers as strings ("12.5") or with
// stray whitespace. Decodes to 0 only on a genuine parse failure upstream.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexFloat) Float() float64 { return float64(f) }

// RawCandidateMoment is the shape the detection model is asked to return.
// Fields are permissive on purpose: the model is the least reliable part of
// the pipeline and its output is validated later during selection.
type RawCandidateMoment struct {
	StartTime   FlexFloat `json:"start_time"`
	EndTime     FlexFloat `json:"end_time"`
	Title       string    `json:"title"`
	ViralReason string    `json:"viral_reason"`
	ViralScore  FlexFloat `json:"viral_score"`
	Hook        string    `json:"hook"`
}

// SelectedClip is a validated, non-overlapping clip window ready to render.
type SelectedClip struct {
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Title       string  `json:"title"`
	ViralReason string  `json:"viral_reason"`
	ViralScore  float64 `json:"viral_score"`
	Hook        string  `json:"hook"`
}

func (c SelectedClip) Duration() float64 { return c.End - c.Start }

// Word is one caption word with clip-relative timing.
type Word struct {
	T0   float64
	T1   float64
	Text string
}

// CaptionEvent is one karaoke subtitle event. The full word group is shown
// for the event's span with Words[Highlight] styled as the active word.
type CaptionEvent struct {
	Start     float64
	End       float64
	Words     []string
	Highlight int
}

// ClipSettings mirrors the request payload coming from the web client.
type ClipSettings struct {
	Duration          string `json:"duration"`
	AspectRatio       string `json:"aspectRatio"`
	NumberOfClips     int    `json:"numberOfClips"`
	GenerateSubtitles bool   `json:"generateSubtitles"`
	Template          string `json:"template"`
	DetectionMethod   string `json:"detectionMethod"`
}

func DefaultClipSettings() ClipSettings {
	return ClipSettings{
		Duration:          "auto",
		AspectRatio:       "9:16",
		NumberOfClips:     3,
		GenerateSubtitles: true,
		Template:          "minimal",
		DetectionMethod:   "ai",
	}
}

// FixedDuration returns the requested fixed clip length in seconds, or
// (0, false) when duration is "auto" or unparseable.
func (s ClipSettings) FixedDuration() (float64, bool) {
	if s.Duration == "" || s.Duration == "auto" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s.Duration, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

type Canvas struct {
	Width  int
	Height int
}

// AspectCanvas maps a requested aspect ratio to its render canvas. Unknown
// ratios fall back to 9:16.
var AspectCanvas = map[string]Canvas{
	"9:16": {Width: 1080, Height: 1920},
	"1:1":  {Width: 1080, Height: 1080},
	"4:5":  {Width: 1080, Height: 1350},
	"16:9": {Width: 1920, Height: 1080},
}

func CanvasFor(aspectRatio string) Canvas {
	if c, ok := AspectCanvas[aspectRatio]; ok {
		return c
	}
	return AspectCanvas["9:16"]
}

// Transcriber turns an audio file into timed transcript segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioFile string) ([]TranscriptSegment, error)
}

// ChatCompleter sends one prompt to one model and returns the raw text reply.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, model string, prompt string) (string, error)
}

// AssetStore persists rendered clips and thumbnails somewhere URL-addressable.
type AssetStore interface {
	Put(ctx context.Context, localPath string, remoteName string) (string, error)
	Remove(ctx context.Context, remoteName string) error
}

// DecodeCandidates parses a JSON array of candidate moments. Elements are
// decoded one by one: a candidate with a malformed field is dropped without
// taking its valid siblings down with it. Only an unreadable array shape is
// an error.
func DecodeCandidates(jsonArray string) ([]RawCandidateMoment, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(jsonArray), &raw); err != nil {
		return nil, err
	}
	out := make([]RawCandidateMoment, 0, len(raw))
	for _, item := range raw {
		var m RawCandidateMoment
		if err := json.Unmarshal(item, &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
