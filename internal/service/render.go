package service

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"tube-bite/internal/storage"
	"tube-bite/internal/types"
	"tube-bite/log"
	"tube-bite/pkg/errors"

	"go.uber.org/zap"
)

// buildAspectFilter letterboxes/pillarboxes the source onto the target
// canvas. The frame is never cropped: scale to fit, pad with black.
func buildAspectFilter(aspectRatio string) string {
	canvas := types.CanvasFor(aspectRatio)
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:black",
		canvas.Width, canvas.Height, canvas.Width, canvas.Height,
	)
}

// safeSubtitlePath escapes a path for use inside an ffmpeg filter argument.
// Windows drive-letter colons would otherwise terminate the filter option.
func safeSubtitlePath(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	if len(p) >= 2 && p[1] == ':' {
		p = p[:1] + "\\:" + p[2:]
	}
	return p
}

// extractClip cuts [start,end] out of the source, fits it to the canvas and
// optionally burns the caption track. A failing subtitle burn is retried
// without captions rather than losing the clip.
func extractClip(videoPath string, start, end float64, aspectRatio, outputPath, subtitlePath string) error {
	aspectFilter := buildAspectFilter(aspectRatio)

	vf := aspectFilter
	if subtitlePath != "" {
		if _, err := os.Stat(subtitlePath); err == nil {
			vf = fmt.Sprintf("%s,ass='%s'", aspectFilter, safeSubtitlePath(subtitlePath))
		}
	}

	err := runExtract(videoPath, start, end, vf, outputPath)
	if err == nil {
		return nil
	}

	if subtitlePath != "" && looksLikeSubtitleFailure(err) {
		log.GetLogger().Warn("subtitle burn failed, retrying without captions",
			zap.String("output", outputPath), zap.Error(err))
		if retryErr := runExtract(videoPath, start, end, aspectFilter, outputPath); retryErr == nil {
			return nil
		}
	}
	return err
}

func runExtract(videoPath string, start, end float64, vf, outputPath string) error {
	cmd := exec.Command(storage.FfmpegPath,
		"-y",
		"-ss", fmt.Sprintf("%g", start),
		"-to", fmt.Sprintf("%g", end),
		"-i", videoPath,
		"-vf", vf,
		"-c:v", "libx264", "-preset", "fast", "-crf", "23",
		"-c:a", "aac", "-b:a", "128k",
		"-movflags", "+faststart",
		outputPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.WrapWithDetail(errors.CodeRenderFailed, "clip extraction failed", string(out), err)
	}
	return nil
}

func looksLikeSubtitleFailure(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "subtitle") || strings.Contains(msg, "ass")
}

// captureThumbnail grabs one frame at the given timestamp, fitted to the
// same canvas as the clip. Best effort: a failure leaves no thumbnail but
// never fails the clip.
func captureThumbnail(videoPath string, seek float64, outputPath, aspectRatio string) {
	cmd := exec.Command(storage.FfmpegPath,
		"-y",
		"-ss", fmt.Sprintf("%g", seek),
		"-i", videoPath,
		"-vframes", "1",
		"-vf", buildAspectFilter(aspectRatio),
		"-q:v", "3",
		outputPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.GetLogger().Warn("thumbnail capture failed",
			zap.String("output", outputPath),
			zap.String("detail", string(out)),
			zap.Error(err))
	}
}
