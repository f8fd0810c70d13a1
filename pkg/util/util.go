package util

import (
	"regexp"
)

var youtubeIdRe = regexp.MustCompile(`(?:v=|youtu\.be/|embed/|shorts/|/v/)([A-Za-z0-9_-]{11})`)

// GetYouTubeID extracts the 11-character video id from any common YouTube
// URL shape. Returns "" when the URL does not look like a YouTube link.
func GetYouTubeID(url string) string {
	m := youtubeIdRe.FindStringSubmatch(url)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// NormalizeYouTubeURL rewrites shortened/embed/shorts URLs to the canonical
// watch URL. Non-YouTube URLs pass through unchanged.
func NormalizeYouTubeURL(url string) string {
	if id := GetYouTubeID(url); id != "" {
		return "https://www.youtube.com/watch?v=" + id
	}
	return url
}

var unsafePathRe = regexp.MustCompile(`[^\w.\-]`)

// SanitizePathName replaces characters that break ffmpeg or the filesystem.
func SanitizePathName(name string) string {
	return unsafePathRe.ReplaceAllString(name, "_")
}
