package rendering

import "strings"

// sanitizeText prepares text for the core PDF fonts.
// Runes outside cp1252 that models like to emit are mapped to close
// equivalents; control characters become spaces.
func sanitizeText(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch r {
		case '\t', '\u00a0', '\u2007', '\u202f':
			result.WriteByte(' ')
		case '→', '⇒', '➔':
			result.WriteString("->")
		case '←':
			result.WriteString("<-")
		case '≥':
			result.WriteString(">=")
		case '≤':
			result.WriteString("<=")
		case '✓', '✔', '▪', '■', '●', '◦':
			result.WriteString("•")
		case '\u2010', '\u2011', '\u2212':
			result.WriteByte('-')
		default:
			if r < 0x20 {
				result.WriteByte(' ')
				continue
			}
			result.WriteRune(r)
		}
	}

	return result.String()
}
