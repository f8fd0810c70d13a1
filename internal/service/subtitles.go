package service

import (
	"fmt"
	"os"
	"strings"

	"tube-bite/internal/clipper"
	"tube-bite/internal/types"
	"tube-bite/pkg/errors"
)

const assEventsFormat = "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n"

// writeKaraokeAss renders caption events to an ASS file sized for the target
// canvas: a Normal style for context words and a Hi style for the word
// currently being spoken.
func writeKaraokeAss(events []types.CaptionEvent, aspectRatio, assPath string) error {
	canvas := types.CanvasFor(aspectRatio)
	fontSize := canvas.Width
	if canvas.Height < fontSize {
		fontSize = canvas.Height
	}
	fontSize = int(float64(fontSize) * 0.07)
	if fontSize < 60 {
		fontSize = 60
	}
	marginV := int(float64(canvas.Height) * 0.22)

	var sb strings.Builder
	if len(events) == 0 {
		sb.WriteString("[Script Info]\nScriptType: v4.00+\n\n[Events]\n")
		sb.WriteString(assEventsFormat)
		return writeFile(assPath, sb.String())
	}

	fmt.Fprintf(&sb, `[Script Info]
ScriptType: v4.00+
PlayResX: %d
PlayResY: %d
WrapStyle: 2
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Normal,Arial,%d,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,-1,0,0,0,100,100,1,0,1,3,0,2,60,60,%d,1
Style: Hi,Arial,%d,&H0000FFFF,&H000000FF,&H00000000,&H00000000,-1,0,0,0,100,100,1,0,1,3,0,2,60,60,%d,1

[Events]
`, canvas.Width, canvas.Height, fontSize, marginV, fontSize, marginV)
	sb.WriteString(assEventsFormat)

	for _, ev := range events {
		parts := make([]string, len(ev.Words))
		for i, w := range ev.Words {
			if i == ev.Highlight {
				parts[i] = fmt.Sprintf("{\\rHi}%s{\\r}", w)
			} else {
				parts[i] = w
			}
		}
		fmt.Fprintf(&sb, "Dialogue: 0,%s,%s,Normal,,0,0,0,,%s\n",
			formatAssTimestamp(ev.Start),
			formatAssTimestamp(ev.End),
			strings.Join(parts, " "))
	}

	return writeFile(assPath, sb.String())
}

// generateClipCaptions builds the karaoke caption track for one clip window
// and writes it as ASS. Returns "" when there are no words to show.
func generateClipCaptions(segments []types.TranscriptSegment, clip types.SelectedClip, aspectRatio, assPath string, groupSize int) (string, error) {
	words := clipper.BuildWordTimeline(segments, clip.Start, clip.End)
	if len(words) == 0 {
		return "", nil
	}
	events := clipper.CaptionEvents(words, clip.Start, clip.End, groupSize)
	if err := writeKaraokeAss(events, aspectRatio, assPath); err != nil {
		return "", err
	}
	return assPath, nil
}

// formatAssTimestamp renders seconds as H:MM:SS.cc.
func formatAssTimestamp(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	h := int(sec) / 3600
	m := (int(sec) % 3600) / 60
	s := int(sec) % 60
	cs := int((sec-float64(int(sec)))*100 + 0.5)
	if cs >= 100 {
		cs = 99
	}
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrap(errors.CodeSubtitleFailed, "cannot write caption file", err)
	}
	return nil
}
