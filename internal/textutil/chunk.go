package textutil

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSeparators lists sentence and paragraph boundaries in the order
// they are preferred when splitting long transcripts.
var DefaultChunkSeparators = []string{"。", "．", ". ", "\n\n", "\n", " "}

// ChunkText splits text into pieces of at most maxRunes code points. Each cut
// lands just after the last preferred separator in the window, provided that
// separator starts past the window's midpoint; otherwise the window is cut
// hard. Text that already fits is returned as a single chunk.
func ChunkText(text string, maxRunes int, separators []string) []string {
	runes := []rune(text)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return []string{text}
	}

	var chunks []string
	pos := 0
	for pos < len(runes) {
		end := min(pos+maxRunes, len(runes))
		if end < len(runes) {
			window := string(runes[pos:end])
			for _, sep := range separators {
				byteIdx := strings.LastIndex(window, sep)
				if byteIdx < 0 {
					continue
				}
				idx := pos + utf8.RuneCountInString(window[:byteIdx])
				if idx > pos+maxRunes/2 {
					end = idx + utf8.RuneCountInString(sep)
					break
				}
			}
		}
		chunks = append(chunks, string(runes[pos:end]))
		pos = end
	}
	return chunks
}

// Tail returns the last n runes of s.
func Tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
