package types

import "fmt"

// Aspect ratio descriptions spliced into the detection prompt so the model
// picks moments that suit the target format.
var aspectDescriptions = map[string]string{
	"9:16": "vertical short-form (YouTube Shorts / TikTok / Instagram Reels)",
	"1:1":  "square (Instagram feed)",
	"4:5":  "portrait (Instagram feed)",
	"16:9": "landscape (YouTube / Twitter)",
}

func AspectDescription(aspectRatio string) string {
	if d, ok := aspectDescriptions[aspectRatio]; ok {
		return d
	}
	return aspectRatio
}

const autoDurationHint = "Pick the EXACT start and end so the clip has a complete, self-contained thought. " +
	"Minimum 20 seconds, maximum 59 seconds. Never cut off mid-sentence."

const fixedDurationHintTemplate = "Each clip MUST be exactly %.0f seconds. " +
	"Set end_time = start_time + %.0f. " +
	"Start at a natural sentence boundary."

// DurationHint renders the duration instruction for the requested settings.
func DurationHint(settings ClipSettings) string {
	if dur, ok := settings.FixedDuration(); ok {
		return fmt.Sprintf(fixedDurationHintTemplate, dur, dur)
	}
	return autoDurationHint
}

// ViralMomentPrompt slots, in order: numberOfClips, chunkNumber, totalChunks,
// videoDuration, aspect description, duration hint, transcript chunk.
const ViralMomentPrompt = `You are a world-class short-form video producer. You know exactly what makes people stop scrolling and share a clip.

=== YOUR TASK ===
Read the transcript below and find the %d BEST moments to turn into viral short clips.
Transcript chunk: %d of %d. Total video length: %.0f seconds.
Target format: %s.

=== HOW TO READ THE TRANSCRIPT ===
Each line looks like: [T=X.XXs] spoken text
[T=X.XXs] means the segment starts at exactly X.XX seconds in the video.
Use these T values DIRECTLY as start_time in your JSON — do NOT convert, do NOT guess.
To set end_time: find the T value of the NEXT segment after your clip ends, or add the clip duration to start_time.

=== DURATION RULE ===
%s

=== WHAT MAKES A GREAT CLIP (pick in this order of priority) ===
1. Shocking or counterintuitive fact that challenges what viewers believe
2. The emotional peak of a story — the moment of biggest impact
3. A hot take or controversial opinion that will spark comments
4. A secret or insight "nobody talks about"
5. A funny, unexpected, or surprising moment
6. A powerful quotable one-liner
7. A dramatic before/after or transformation moment

=== RULES ===
- The clip MUST start at a sentence boundary — never mid-word or mid-thought
- The clip MUST be self-contained — understandable without watching the full video
- NEVER pick: greetings, intros, outros, "subscribe", transitions, filler words
- Each clip must be from a DIFFERENT part of the video — no overlapping moments
- Do not START or END any clip mid sentence or mid word strictly.
- You can also give similar time clips if the START or END any clip is mid sentence or mid word. Eg: 45 seconds to 40 seconds or 50 seconds. +- 5 seconds is allowed.
=== TRANSCRIPT ===
%s

=== RESPOND WITH JSON ONLY ===
Return a JSON array. No markdown. No explanation. No text before or after the array.
[
  {
    "start_time": <float, exact T value from transcript>,
    "end_time": <float, start_time + clip duration>,
    "title": "<5 words max, punchy>",
    "viral_reason": "<one sentence: exactly WHY this moment will be shared>",
    "viral_score": <0.0 to 1.0>,
    "hook": "<the first sentence spoken in this clip>"
  }
]
If no strong moments exist in this chunk, return: []
`
