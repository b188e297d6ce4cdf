// Package reflow wraps text to a maximum width for fixed-layout rendering.
package reflow

import (
	"strings"
	"unicode/utf8"
)

// Measure returns the rendered width of s. Font and size are bound by the caller.
type Measure func(s string) float64

// Wrap greedily wraps text so that each output line measures at most maxWidth.
// Explicit newlines are kept: every raw line is wrapped on its own and a blank
// raw line yields exactly one empty output line. A single word wider than
// maxWidth is placed alone on its line.
func Wrap(text string, maxWidth float64, measure Measure) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		words := strings.Fields(raw)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if measure(candidate) <= maxWidth {
				current = candidate
				continue
			}
			lines = append(lines, current)
			current = word
		}
		lines = append(lines, current)
	}

	return lines
}

// Chunk splits text into pieces of at most maxRunes runes, breaking on word
// boundaries. Words longer than maxRunes become their own chunk.
func Chunk(text string, maxRunes int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxRunes <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var chunks []string
	var sb strings.Builder
	size := 0
	for _, word := range words {
		n := utf8.RuneCountInString(word)
		if size > 0 && size+1+n > maxRunes {
			chunks = append(chunks, sb.String())
			sb.Reset()
			size = 0
		}
		if size > 0 {
			sb.WriteByte(' ')
			size++
		}
		sb.WriteString(word)
		size += n
	}
	if sb.Len() > 0 {
		chunks = append(chunks, sb.String())
	}

	return chunks
}

// Pack greedily packs prefixed tokens into lines bounded by a character budget.
// Width is counted in runes rather than measured; a token that alone exceeds
// the budget still gets its own line.
func Pack(tokens []string, prefix, sep string, budget int) []string {
	var lines []string
	var sb strings.Builder
	size := 0
	sepLen := utf8.RuneCountInString(sep)

	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		item := prefix + token
		n := utf8.RuneCountInString(item)

		if size > 0 && size+sepLen+n > budget {
			lines = append(lines, sb.String())
			sb.Reset()
			size = 0
		}
		if size > 0 {
			sb.WriteString(sep)
			size += sepLen
		}
		sb.WriteString(item)
		size += n
	}
	if sb.Len() > 0 {
		lines = append(lines, sb.String())
	}

	return lines
}
