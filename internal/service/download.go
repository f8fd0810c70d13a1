package service

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"tube-bite/config"
	"tube-bite/internal/storage"
	"tube-bite/log"
	"tube-bite/pkg/errors"
	"tube-bite/pkg/util"

	"go.uber.org/zap"
)

// downloadVideo fetches a URL source with yt-dlp into the job directory and
// returns the local file path. YouTube URLs are normalized to the canonical
// watch form first so shorts/embed links behave identically.
func downloadVideo(rawURL, jobDir string) (string, error) {
	url := util.NormalizeYouTubeURL(rawURL)
	outPath := filepath.Join(jobDir, "source.mp4")

	cmdArgs := []string{
		"-f", "bestvideo[height<=1080][ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
		"-o", outPath,
		"--no-playlist",
		url,
	}
	if config.Conf.App.Proxy != "" {
		cmdArgs = append(cmdArgs, "--proxy", config.Conf.App.Proxy)
	}

	log.GetLogger().Info("downloading source video", zap.String("url", url))
	cmd := exec.Command(storage.YtdlpPath, cmdArgs...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", errors.WrapWithDetail(errors.CodeVideoDownload, "video download failed", string(out), err)
	}

	if _, err := os.Stat(outPath); err != nil {
		// yt-dlp may pick a different container despite -o
		entries, _ := os.ReadDir(jobDir)
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), "source.") {
				return filepath.Join(jobDir, e.Name()), nil
			}
		}
		return "", errors.Wrap(errors.CodeVideoDownload, "downloaded file missing", err)
	}
	return outPath, nil
}

// probeDuration returns the container duration in seconds via ffprobe.
func probeDuration(videoPath string) (float64, error) {
	cmd := exec.Command(storage.FfprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, errors.Wrap(errors.CodeProbeFailed, "duration probe failed", err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, errors.Wrap(errors.CodeProbeFailed, "duration unparseable", err)
	}
	return duration, nil
}

// probeDimensions returns the first video stream's width and height.
func probeDimensions(videoPath string) (int, int, error) {
	cmd := exec.Command(storage.FfprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		videoPath,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, 0, errors.Wrap(errors.CodeProbeFailed, "dimension probe failed", err)
	}
	parts := strings.Split(strings.TrimSpace(string(out)), "x")
	if len(parts) != 2 {
		return 0, 0, errors.New(errors.CodeProbeFailed, "dimension probe output unparseable")
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, errors.Wrap(errors.CodeProbeFailed, "width unparseable", err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, errors.Wrap(errors.CodeProbeFailed, "height unparseable", err)
	}
	return w, h, nil
}

// extractAudio produces a 16 kHz mono wav next to the video for the
// transcriber.
func extractAudio(videoPath, jobDir string) (string, error) {
	audioPath := filepath.Join(jobDir, "audio.wav")
	cmd := exec.Command(storage.FfmpegPath,
		"-y",
		"-i", videoPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		audioPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", errors.WrapWithDetail(errors.CodeTranscribeFailed, "audio extraction failed", string(out), err)
	}
	return audioPath, nil
}

// IsSupportedURL reports whether the pipeline knows how to download the URL.
// yt-dlp handles far more, but the product surface is YouTube and Twitch.
func IsSupportedURL(url string) bool {
	if util.GetYouTubeID(url) != "" {
		return true
	}
	return strings.Contains(url, "twitch.tv/")
}

func localAssetURL(jobId, fileName string) string {
	return fmt.Sprintf("/output/%s/%s", jobId, fileName)
}
