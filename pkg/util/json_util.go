package util

import (
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?s)```(?:json)?(.*?)```")

// ExtractJsonArray pulls the first well-formed JSON array out of free-form
// LLM output. Models wrap arrays in markdown fences or surround them with
// prose, so this strips delimiters first and then bracket-matches.
// Returns "" when no array can be located.
func ExtractJsonArray(text string) string {
	// 1. Prefer the content of a markdown code block if present
	if matches := fenceRe.FindStringSubmatch(text); len(matches) > 1 {
		text = matches[1]
	}
	text = strings.TrimSpace(text)

	start := strings.Index(text, "[")
	if start == -1 {
		return ""
	}

	// 2. Bracket-match so trailing prose after the array is ignored
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '[':
			if !inString {
				depth++
			}
		case ']':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}

	// 3. Unbalanced output: fall back to the last closing bracket
	end := strings.LastIndex(text, "]")
	if end > start {
		return text[start : end+1]
	}
	return ""
}
