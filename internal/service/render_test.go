package service

import (
	"testing"

	apperrors "tube-bite/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestBuildAspectFilter(t *testing.T) {
	tests := []struct {
		aspect string
		want   string
	}{
		{"9:16", "scale=1080:1920:force_original_aspect_ratio=decrease,pad=1080:1920:(ow-iw)/2:(oh-ih)/2:black"},
		{"1:1", "scale=1080:1080:force_original_aspect_ratio=decrease,pad=1080:1080:(ow-iw)/2:(oh-ih)/2:black"},
		{"4:5", "scale=1080:1350:force_original_aspect_ratio=decrease,pad=1080:1350:(ow-iw)/2:(oh-ih)/2:black"},
		{"16:9", "scale=1920:1080:force_original_aspect_ratio=decrease,pad=1920:1080:(ow-iw)/2:(oh-ih)/2:black"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, buildAspectFilter(tt.aspect), tt.aspect)
	}
}

func TestBuildAspectFilterUnknownRatioDefaultsToVertical(t *testing.T) {
	assert.Equal(t, buildAspectFilter("9:16"), buildAspectFilter("21:9"))
}

func TestSafeSubtitlePath(t *testing.T) {
	assert.Equal(t, `C\:/clips/track.ass`, safeSubtitlePath(`C:\clips\track.ass`))
	assert.Equal(t, "/tmp/jobs/track.ass", safeSubtitlePath("/tmp/jobs/track.ass"))
}

func TestLooksLikeSubtitleFailure(t *testing.T) {
	assert.True(t, looksLikeSubtitleFailure(apperrors.New(apperrors.CodeRenderFailed, "Error initializing filter 'ass'")))
	assert.True(t, looksLikeSubtitleFailure(apperrors.New(apperrors.CodeRenderFailed, "Unable to open subtitle file")))
	assert.False(t, looksLikeSubtitleFailure(apperrors.New(apperrors.CodeRenderFailed, "No such file or directory")))
}
