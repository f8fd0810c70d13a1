package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"tube-bite/config"
	"tube-bite/internal/appdirs"
	"tube-bite/internal/clipper"
	"tube-bite/internal/storage"
	"tube-bite/internal/types"
	"tube-bite/log"
	"tube-bite/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// JobRequest describes one clip generation job. Exactly one of SourceURL or
// UploadPath is set, depending on SourceType. Segments, when supplied, is a
// pre-fetched transcript and skips audio extraction and transcription.
type JobRequest struct {
	JobId      string
	UserId     string
	SourceType string // youtube | url | upload
	SourceName string
	SourceURL  string
	UploadPath string
	Segments   []types.TranscriptSegment
	Settings   types.ClipSettings
}

func NewJobId() string {
	return "job_" + uuid.NewString()[:16]
}

// RunClipJob executes the whole pipeline for one job: acquire, transcribe,
// detect, select, then render/upload every clip concurrently. Collaborator
// failures degrade rather than abort; only an unusable source video fails
// the job outright.
func (s *Service) RunClipJob(ctx context.Context, req JobRequest) error {
	// The handler already recorded the job as queued; reuse that row so
	// fields like the owning user survive.
	job, loadErr := storage.GetJob("", req.JobId)
	if loadErr != nil {
		job = &types.ClipJob{
			JobId:      req.JobId,
			UserId:     req.UserId,
			SourceType: req.SourceType,
			SourceName: req.SourceName,
		}
		if settingsJson, err := json.Marshal(req.Settings); err == nil {
			job.SettingsJson = string(settingsJson)
		}
	}
	job.Status = types.JobStatusRunning
	job.FailReason = ""
	s.updateJob(job, 5, "starting")

	err := s.runPipeline(ctx, job, req)
	if err != nil {
		job.Status = types.JobStatusFailed
		job.FailReason = errors.GetMessage(err)
		s.updateJob(job, 100, "failed")
		log.GetLogger().Error("clip job failed", zap.String("jobId", job.JobId), zap.Error(err))
		return err
	}

	job.Status = types.JobStatusDone
	s.updateJob(job, 100, "done")
	log.GetLogger().Info("clip job finished",
		zap.String("jobId", job.JobId),
		zap.Int("clips", len(job.Clips)),
		zap.Bool("partial", job.PartialSuccess))
	return nil
}

func (s *Service) runPipeline(ctx context.Context, job *types.ClipJob, req JobRequest) error {
	settings := withSettingsDefaults(req.Settings)
	if settings.NumberOfClips < 1 {
		return errors.ErrInvalidParams
	}

	paths, err := appdirs.Resolve()
	if err != nil {
		return errors.Wrap(errors.CodeUnknown, "cannot resolve app directories", err)
	}

	jobDir := appdirs.JobDirFor(paths, job.JobId)
	if err = os.MkdirAll(jobDir, 0o755); err != nil {
		return errors.Wrap(errors.CodeFileWriteError, "cannot create job directory", err)
	}
	// Scratch space goes away whether the job succeeds or not.
	defer os.RemoveAll(jobDir)

	outDir := filepath.Join(appdirs.OutputRootFor(paths), job.JobId)
	if err = os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(errors.CodeFileWriteError, "cannot create output directory", err)
	}

	// 1. Acquire the source video
	var videoPath string
	switch req.SourceType {
	case "upload":
		videoPath = req.UploadPath
	default:
		if !IsSupportedURL(req.SourceURL) {
			return errors.ErrUnsupportedURL
		}
		videoPath, err = downloadVideo(req.SourceURL, jobDir)
		if err != nil {
			return err
		}
	}
	s.updateJob(job, 20, "downloaded")

	duration, err := probeDuration(videoPath)
	if err != nil {
		return err
	}
	if duration <= 0 {
		return errors.ErrZeroDuration
	}
	job.Duration = duration

	if w, h, dimErr := probeDimensions(videoPath); dimErr != nil {
		log.GetLogger().Warn("dimension probe failed",
			zap.String("jobId", job.JobId), zap.Error(dimErr))
	} else {
		log.GetLogger().Info("source video probed",
			zap.String("jobId", job.JobId),
			zap.Float64("duration", duration),
			zap.Int("width", w),
			zap.Int("height", h))
	}

	// 2. Transcribe. Failure is survivable: selection degrades to evenly
	// spaced fallback clips and captions are skipped.
	segments := s.obtainTranscript(ctx, req, job.JobId, videoPath, jobDir)
	s.updateJob(job, 40, "transcribed")

	// 3. Detect and select moments
	var candidates []types.RawCandidateMoment
	if len(segments) > 0 && settings.DetectionMethod != "uniform" {
		detector := &clipper.Detector{
			Completer:     s.ChatCompleter,
			Model:         config.Conf.Llm.Model,
			FallbackModel: config.Conf.Llm.FallbackModel,
			ChunkChars:    config.Conf.Llm.ChunkChars,
			OverlapChars:  config.Conf.Llm.ChunkOverlapChars,
		}
		candidates = detector.DetectMoments(ctx, segments, settings, duration)
	}
	selected := clipper.SelectClips(candidates, settings, duration, policyFromConfig())
	s.updateJob(job, 60, "moments selected")

	// 4. Render, thumbnail and upload every clip. Failures are isolated:
	// one broken clip never takes down the others.
	var (
		mu    sync.Mutex
		clips []types.Clip
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(clipParallelism())

	for i, clip := range selected {
		g.Go(func() error {
			rendered, renderErr := s.renderOne(gctx, job.JobId, videoPath, jobDir, outDir, clip, i, segments, settings)
			if renderErr != nil {
				log.GetLogger().Error("clip render failed, omitting clip",
					zap.String("jobId", job.JobId),
					zap.Int("index", i),
					zap.Error(renderErr))
				return nil
			}
			mu.Lock()
			clips = append(clips, rendered)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(clips) == 0 {
		return errors.ErrRenderFailed
	}

	// Completion order is arbitrary; presentation order is chronological.
	sort.Slice(clips, func(i, j int) bool { return clips[i].StartTime < clips[j].StartTime })
	job.Clips = clips
	job.PartialSuccess = len(clips) < len(selected)
	return nil
}

// obtainTranscript returns the request's pre-fetched segments when present,
// otherwise extracts audio and runs the transcriber. Returns nil on failure;
// the pipeline continues without a transcript.
func (s *Service) obtainTranscript(ctx context.Context, req JobRequest, jobId, videoPath, jobDir string) []types.TranscriptSegment {
	if len(req.Segments) > 0 {
		return req.Segments
	}
	audioPath, err := extractAudio(videoPath, jobDir)
	if err != nil {
		log.GetLogger().Warn("audio extraction failed, continuing without transcript",
			zap.String("jobId", jobId), zap.Error(err))
		return nil
	}
	segments, err := s.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		log.GetLogger().Warn("transcription failed, continuing without transcript",
			zap.String("jobId", jobId), zap.Error(err))
		return nil
	}
	return segments
}

// renderOne produces a single clip: caption track, cut, thumbnail, upload.
func (s *Service) renderOne(ctx context.Context, jobId, videoPath, jobDir, outDir string, clip types.SelectedClip, index int, segments []types.TranscriptSegment, settings types.ClipSettings) (types.Clip, error) {
	clipId := "clip_" + uuid.NewString()[:8]
	videoName := clipId + ".mp4"
	thumbName := clipId + "_thumb.jpg"
	finalPath := filepath.Join(outDir, videoName)
	thumbPath := filepath.Join(outDir, thumbName)

	var subtitlePath string
	if settings.GenerateSubtitles && len(segments) > 0 {
		assPath := filepath.Join(jobDir, clipId+".ass")
		written, err := generateClipCaptions(segments, clip, settings.AspectRatio, assPath, captionGroupSize())
		if err != nil {
			log.GetLogger().Warn("caption synthesis failed, rendering without captions",
				zap.String("jobId", jobId), zap.Error(err))
		} else {
			subtitlePath = written
		}
	}

	if err := extractClip(videoPath, clip.Start, clip.End, settings.AspectRatio, finalPath, subtitlePath); err != nil {
		return types.Clip{}, err
	}
	captureThumbnail(videoPath, clip.Start+clip.Duration()/2, thumbPath, settings.AspectRatio)

	rendered := types.Clip{
		ClipId:      clipId,
		JobId:       jobId,
		Title:       clip.Title,
		ViralReason: clip.ViralReason,
		ViralScore:  clip.ViralScore,
		Hook:        clip.Hook,
		StartTime:   clip.Start,
		EndTime:     clip.End,
		Subtitled:   subtitlePath != "",
	}
	rendered.VideoUrl, rendered.ThumbnailUrl, rendered.RemoteName, rendered.ThumbRemoteName =
		s.publishAssets(ctx, jobId, index, finalPath, thumbPath, videoName, thumbName)
	return rendered, nil
}

// publishAssets pushes the rendered files to the configured store. Upload
// trouble falls back to the locally served URL instead of failing the clip.
func (s *Service) publishAssets(ctx context.Context, jobId string, index int, finalPath, thumbPath, videoName, thumbName string) (videoUrl, thumbUrl, remoteName, thumbRemoteName string) {
	videoUrl = localAssetURL(jobId, videoName)
	thumbUrl = localAssetURL(jobId, thumbName)
	if s.Store == nil {
		return
	}

	clipRemote := fmt.Sprintf("tubebite/clips/%s/clip_%d", jobId, index+1)
	if url, err := s.Store.Put(ctx, finalPath, clipRemote); err != nil {
		log.GetLogger().Warn("clip upload failed, serving locally",
			zap.String("jobId", jobId), zap.Error(err))
	} else {
		videoUrl = url
		remoteName = clipRemote
	}

	thumbRemote := fmt.Sprintf("tubebite/thumbs/%s/thumb_%d", jobId, index+1)
	if _, err := os.Stat(thumbPath); err == nil {
		if url, err := s.Store.Put(ctx, thumbPath, thumbRemote); err != nil {
			log.GetLogger().Warn("thumbnail upload failed, serving locally",
				zap.String("jobId", jobId), zap.Error(err))
		} else {
			thumbUrl = url
			thumbRemoteName = thumbRemote
		}
	}
	return
}

// RemoveJobAssets deletes a job's remote assets and its local output dir.
// Used by permanent delete and the trash purge sweep.
func (s *Service) RemoveJobAssets(ctx context.Context, jobId string, clips []types.Clip) {
	if s.Store != nil {
		for _, clip := range clips {
			for _, remote := range []string{clip.RemoteName, clip.ThumbRemoteName} {
				if remote == "" {
					continue
				}
				if err := s.Store.Remove(ctx, remote); err != nil {
					log.GetLogger().Warn("remote asset delete failed",
						zap.String("jobId", jobId),
						zap.String("remote", remote),
						zap.Error(err))
				}
			}
		}
	}
	if outputRoot, err := appdirs.ResolveOutputRoot(); err == nil {
		_ = os.RemoveAll(filepath.Join(outputRoot, jobId))
	}
}

// PurgeExpiredTrash permanently removes trashed jobs past the retention
// window, assets included.
func (s *Service) PurgeExpiredTrash(ctx context.Context) int {
	expired, err := storage.ExpiredTrash()
	if err != nil {
		log.GetLogger().Error("trash sweep query failed", zap.Error(err))
		return 0
	}
	purged := 0
	for _, job := range expired {
		s.RemoveJobAssets(ctx, job.JobId, job.Clips)
		if _, err := storage.PermanentDeleteJob("", job.JobId); err != nil {
			log.GetLogger().Error("trash purge failed",
				zap.String("jobId", job.JobId), zap.Error(err))
			continue
		}
		purged++
	}
	if purged > 0 {
		log.GetLogger().Info("trash purged", zap.Int("jobs", purged))
	}
	return purged
}

func (s *Service) updateJob(job *types.ClipJob, percent int, message string) {
	job.ProcessPercent = percent
	if err := storage.SaveJob(job); err != nil {
		log.GetLogger().Warn("job persist failed",
			zap.String("jobId", job.JobId), zap.Error(err))
	}
	s.progress(job.JobId, percent, message)
}

func withSettingsDefaults(settings types.ClipSettings) types.ClipSettings {
	defaults := types.DefaultClipSettings()
	if settings.Duration == "" {
		settings.Duration = defaults.Duration
	}
	if settings.AspectRatio == "" {
		settings.AspectRatio = defaults.AspectRatio
	}
	if settings.NumberOfClips == 0 {
		settings.NumberOfClips = defaults.NumberOfClips
	}
	if settings.Template == "" {
		settings.Template = defaults.Template
	}
	if settings.DetectionMethod == "" {
		settings.DetectionMethod = defaults.DetectionMethod
	}
	return settings
}

func policyFromConfig() clipper.Policy {
	c := config.Conf.Clipper
	return clipper.Policy{
		GuardBandSec:    c.GuardBandSec,
		MinClipSec:      c.MinClipSec,
		ExtendToSec:     c.ExtendToSec,
		MaxClipSec:      c.MaxClipSec,
		FallbackClipSec: c.FallbackClipSec,
	}
}

func captionGroupSize() int {
	if n := config.Conf.Clipper.CaptionGroupSize; n > 0 {
		return n
	}
	return clipper.DefaultCaptionGroupSize
}

func clipParallelism() int {
	if n := config.Conf.App.ClipParallelNum; n > 0 {
		return n
	}
	return 2
}
