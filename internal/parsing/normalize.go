package parsing

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// bulletMarkers are stripped from the start of content lines
var bulletMarkers = []string{"-", "•", "*", "·", "–"}

// Fold upper-cases s, removes diacritics and collapses inner whitespace so
// that "Experiência  Profissional" and "EXPERIENCIA PROFISSIONAL" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToUpper(folded)), " ")
}

// cleanMarkup trims Markdown heading and emphasis decoration around a line:
// "## **EXPERIÊNCIA:**" becomes "EXPERIÊNCIA:".
func cleanMarkup(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "#")
	return strings.TrimSpace(strings.Trim(line, "*_ \t"))
}

// stripBullet removes leading bullet markers and whitespace from content
func stripBullet(line string) string {
	line = strings.TrimSpace(line)
	for {
		trimmed := false
		for _, marker := range bulletMarkers {
			if strings.HasPrefix(line, marker) {
				line = strings.TrimSpace(strings.TrimPrefix(line, marker))
				trimmed = true
			}
		}
		if !trimmed {
			break
		}
	}
	// Emphasis markers carry no meaning in the rendered PDF
	line = strings.ReplaceAll(line, "**", "")
	line = strings.ReplaceAll(line, "__", "")
	line = strings.ReplaceAll(line, "*", "")
	return strings.TrimSpace(line)
}

// splitKeyValue splits "KEY: value" on the first colon.
// ok is false when there is no colon or the key is empty.
func splitKeyValue(line string) (key, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	key = cleanMarkup(line[:idx])
	value = strings.TrimSpace(strings.Trim(strings.TrimSpace(line[idx+1:]), "*_"))
	if key == "" {
		return "", "", false
	}
	return key, value, true
}

// dedupe drops blank and repeated entries, keeping first-occurrence order.
// Matching is exact after trimming surrounding whitespace.
func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// splitKeywords splits a comma or semicolon separated keyword list
func splitKeywords(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';'
	})
	return dedupe(fields)
}
