package archive

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultSummaryLength is the maximum summary length in characters
	DefaultSummaryLength = 200

	// boundaryRatio is the minimum fraction of maxLength a sentence
	// boundary must fall past for the summary to be cut there
	boundaryRatio = 0.5
)

var sentenceTerminators = []string{". ", "! ", "? "}

// Summarize produces a bounded-length summary of content. It takes the
// first maxLength characters of the trimmed content, collapses whitespace
// runs to single spaces, and for truncated content prefers ending on a
// sentence boundary in the latter half of the window over appending an
// ellipsis. The result never exceeds maxLength+3 characters.
func Summarize(content string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultSummaryLength
	}

	summary := strings.TrimSpace(content)
	if runes := []rune(summary); len(runes) > maxLength {
		summary = string(runes[:maxLength])
	}

	summary = strings.Join(strings.Fields(summary), " ")

	if utf8.RuneCountInString(content) > maxLength {
		ended := false
		for _, term := range sentenceTerminators {
			idx := strings.LastIndex(summary, term)
			if idx >= 0 && float64(utf8.RuneCountInString(summary[:idx])) > float64(maxLength)*boundaryRatio {
				summary = summary[:idx+1]
				ended = true
				break
			}
		}
		if !ended {
			summary += "..."
		}
	}

	return summary
}

func countWords(content string) int {
	return len(strings.Fields(content))
}
