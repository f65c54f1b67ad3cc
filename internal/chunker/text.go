package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitText cuts plain text into chunks of at most maxChars runes, preferring
// paragraph breaks, then sentence ends, then whitespace. Separators stay with
// the preceding chunk so the chunks concatenate back to text.
func SplitText(text string, maxChars int) []string {
	if text == "" {
		return nil
	}
	if maxChars <= 0 {
		return []string{text}
	}

	var chunks []string
	rest := text
	for utf8.RuneCountInString(rest) > maxChars {
		window := rest[:byteOffset(rest, maxChars)]
		cut := lastParagraphBreak(window)
		if cut <= 0 {
			cut = lastSentenceEnd(window)
		}
		if cut <= 0 {
			cut = lastWhitespace(window)
		}
		if cut <= 0 {
			cut = len(window)
		}
		chunks = append(chunks, rest[:cut])
		rest = rest[cut:]
	}
	if rest != "" {
		chunks = append(chunks, rest)
	}
	return chunks
}

// byteOffset returns the byte index just past the first n runes of s.
func byteOffset(s string, n int) int {
	offset := 0
	for i := 0; i < n && offset < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[offset:])
		offset += size
	}
	return offset
}

func lastParagraphBreak(window string) int {
	idx := strings.LastIndex(window, "\n\n")
	if idx < 0 {
		return -1
	}
	return idx + 2
}

func lastSentenceEnd(window string) int {
	best := -1
	for i, r := range window {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		next := i + 1
		if next >= len(window) {
			continue
		}
		following, size := utf8.DecodeRuneInString(window[next:])
		if unicode.IsSpace(following) {
			best = next + size
		}
	}
	return best
}

func lastWhitespace(window string) int {
	best := -1
	for i, r := range window {
		if unicode.IsSpace(r) {
			best = i + utf8.RuneLen(r)
		}
	}
	return best
}
