package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxMessageLength platform message limit
const DefaultMaxMessageLength = 2000

const ellipsis = "..."

var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// SplitMessage breaks text into chunks of at most maxLength runes, preferring
// sentence boundaries, then spaces. A single word longer than maxLength is
// cut and marked with an ellipsis.
func SplitMessage(text string, maxLength int) []string {
	if maxLength <= 0 {
		maxLength = DefaultMaxMessageLength
	}
	if runeLen(text) <= maxLength {
		return []string{text}
	}

	var chunks []string
	var current string

	flush := func() {
		if s := strings.TrimSpace(current); s != "" {
			chunks = append(chunks, s)
		}
		current = ""
	}

	for _, sentence := range splitSentences(text) {
		if strings.TrimSpace(sentence) == "" {
			continue
		}

		if runeLen(sentence) <= maxLength {
			if joined := joinSpace(current, sentence); runeLen(joined) <= maxLength {
				current = joined
			} else {
				flush()
				current = sentence
			}
			continue
		}

		// Sentence alone is too long: pack it word by word
		flush()
		for _, word := range strings.Split(sentence, " ") {
			if word == "" {
				continue
			}
			if runeLen(word) > maxLength {
				flush()
				chunks = append(chunks, Truncate(word, maxLength))
				continue
			}
			if joined := joinSpace(current, word); runeLen(joined) <= maxLength {
				current = joined
			} else {
				flush()
				current = word
			}
		}
	}
	flush()

	return chunks
}

// Truncate cuts text to maxLength runes, ending with "..." when cut
func Truncate(text string, maxLength int) string {
	if runeLen(text) <= maxLength {
		return text
	}
	if maxLength <= len(ellipsis) {
		return string([]rune(text)[:max(maxLength, 0)])
	}
	return string([]rune(text)[:maxLength-len(ellipsis)]) + ellipsis
}

// splitSentences cuts after sentence punctuation and drops the whitespace run
func splitSentences(text string) []string {
	var out []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		out = append(out, text[start:loc[0]+1])
		start = loc[1]
	}
	return append(out, text[start:])
}

func joinSpace(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
