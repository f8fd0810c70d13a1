package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSupportedURL(t *testing.T) {
	supported := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
		"https://www.twitch.tv/videos/123456789",
	}
	for _, url := range supported {
		assert.True(t, IsSupportedURL(url), url)
	}

	unsupported := []string{
		"https://vimeo.com/123456",
		"https://example.com/video.mp4",
		"not a url",
		"",
	}
	for _, url := range unsupported {
		assert.False(t, IsSupportedURL(url), url)
	}
}

func TestLocalAssetURL(t *testing.T) {
	assert.Equal(t, "/output/job_abc/clip_1.mp4", localAssetURL("job_abc", "clip_1.mp4"))
}
