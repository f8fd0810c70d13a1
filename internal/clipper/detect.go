package clipper

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"tube-bite/internal/types"
	"tube-bite/log"
	"tube-bite/pkg/errors"
	"tube-bite/pkg/util"

	"github.com/texttheater/golang-levenshtein/levenshtein"
	"go.uber.org/zap"
)

const (
	// rateLimitBackoff is how long to wait before the single retry after a
	// 429 from the model provider.
	rateLimitBackoff = 8 * time.Second

	// duplicateTitleRatio and duplicateStartSlack identify the same moment
	// reported from two overlapping chunks.
	duplicateTitleRatio = 0.8
	duplicateStartSlack = 1.0
)

const systemPreamble = "You are a viral content expert. Respond with a valid JSON array only. No markdown. No explanation.\n\n"

// Detector asks an LLM for viral moment candidates, chunk by chunk. Model
// failures degrade: one backoff retry on rate limit, then a one-time switch
// to the fallback model, then the rest of the run is skipped entirely.
type Detector struct {
	Completer     types.ChatCompleter
	Model         string
	FallbackModel string
	ChunkChars    int
	OverlapChars  int
	Backoff       time.Duration
}

// detectRun carries per-run failover state so concurrent jobs never share it.
type detectRun struct {
	activeModel string
	available   bool
}

// DetectMoments returns boundary-snapped candidates from every transcript
// chunk. An empty result is not an error: the caller falls back to evenly
// spaced highlights.
func (d *Detector) DetectMoments(ctx context.Context, segments []types.TranscriptSegment, settings types.ClipSettings, videoDuration float64) []types.RawCandidateMoment {
	transcript := BuildTranscriptText(segments)
	chunks := ChunkTranscript(transcript, d.ChunkChars, d.OverlapChars)

	run := &detectRun{activeModel: d.Model, available: true}
	var all []types.RawCandidateMoment

	for i, chunk := range chunks {
		if !run.available {
			break
		}
		prompt := d.buildPrompt(chunk, settings, i, len(chunks), videoDuration)
		moments := d.detectChunk(ctx, run, prompt, i)

		for j := range moments {
			s, e := SnapToSegments(moments[j].StartTime.Float(), moments[j].EndTime.Float(), segments)
			moments[j].StartTime = types.FlexFloat(s)
			moments[j].EndTime = types.FlexFloat(e)
		}
		all = append(all, moments...)
		logger().Info("chunk detected",
			zap.Int("chunk", i),
			zap.Int("moments", len(moments)),
			zap.String("model", run.activeModel))
	}

	return dedupeCandidates(all)
}

func (d *Detector) buildPrompt(chunk string, settings types.ClipSettings, chunkIndex, totalChunks int, videoDuration float64) string {
	return systemPreamble + fmt.Sprintf(types.ViralMomentPrompt,
		settings.NumberOfClips,
		chunkIndex+1,
		totalChunks,
		videoDuration,
		types.AspectDescription(settings.AspectRatio),
		types.DurationHint(settings),
		chunk,
	)
}

func (d *Detector) detectChunk(ctx context.Context, run *detectRun, prompt string, chunkIndex int) []types.RawCandidateMoment {
	moments, err := d.callModel(ctx, run.activeModel, prompt)
	if err == nil {
		return moments
	}

	switch {
	case errors.Is(err, errors.CodeLLMRateLimited):
		if !sleepCtx(ctx, d.backoff()) {
			run.available = false
			return nil
		}
		moments, err = d.callModel(ctx, run.activeModel, prompt)
		if err == nil {
			return moments
		}
		// Still throttled, or the model vanished mid-run: either way the
		// primary is done, switch to the fallback once.
		stillDown := errors.Is(err, errors.CodeLLMRateLimited) || errors.Is(err, errors.CodeLLMModelGone)
		if stillDown && run.activeModel != d.FallbackModel {
			run.activeModel = d.FallbackModel
			moments, err = d.callModel(ctx, run.activeModel, prompt)
			if err == nil {
				return moments
			}
			logger().Warn("fallback model also failed", zap.Int("chunk", chunkIndex), zap.Error(err))
			run.available = false
			return nil
		}
		if errors.Is(err, errors.CodeLLMRateLimited) {
			run.available = false
		}
		return nil

	case errors.Is(err, errors.CodeLLMModelGone):
		if run.activeModel != d.FallbackModel {
			run.activeModel = d.FallbackModel
			moments, err = d.callModel(ctx, run.activeModel, prompt)
			if err == nil {
				return moments
			}
			logger().Warn("fallback model failed", zap.Int("chunk", chunkIndex), zap.Error(err))
		}
		return nil

	default:
		logger().Warn("chunk detection failed", zap.Int("chunk", chunkIndex), zap.Error(err))
		return nil
	}
}

// callModel sends one prompt and parses the reply. Parse problems are not
// transport errors: an unreadable reply yields zero candidates.
func (d *Detector) callModel(ctx context.Context, model, prompt string) ([]types.RawCandidateMoment, error) {
	reply, err := d.Completer.ChatCompletion(ctx, model, prompt)
	if err != nil {
		return nil, err
	}

	arr := util.ExtractJsonArray(reply)
	if arr == "" {
		return nil, nil
	}
	moments, err := types.DecodeCandidates(arr)
	if err != nil {
		logger().Warn("model reply not decodable", zap.String("model", model), zap.Error(err))
		return nil, nil
	}
	return moments, nil
}

func (d *Detector) backoff() time.Duration {
	if d.Backoff > 0 {
		return d.Backoff
	}
	return rateLimitBackoff
}

// dedupeCandidates removes near-identical moments reported from overlapping
// chunks: same window within a second and near-equal titles.
func dedupeCandidates(moments []types.RawCandidateMoment) []types.RawCandidateMoment {
	var out []types.RawCandidateMoment
	for _, m := range moments {
		dup := false
		for _, kept := range out {
			if math.Abs(kept.StartTime.Float()-m.StartTime.Float()) > duplicateStartSlack {
				continue
			}
			if math.Abs(kept.EndTime.Float()-m.EndTime.Float()) > duplicateStartSlack {
				continue
			}
			if titleRatio(kept.Title, m.Title) >= duplicateTitleRatio {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, m)
		}
	}
	return out
}

func titleRatio(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" && b == "" {
		return 1
	}
	return levenshtein.RatioForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func logger() *zap.Logger {
	if l := log.GetLogger(); l != nil {
		return l
	}
	return zap.NewNop()
}
