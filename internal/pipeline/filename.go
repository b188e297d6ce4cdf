package pipeline

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// defaultFilenameLayout is used when the candidate name is unknown
const defaultFilenameLayout = "curriculo_personalizado_20060102_150405"

// SanitizeFilename derives a download filename from the candidate name
func SanitizeFilename(name string) string {
	return FilenameAt(name, time.Now())
}

// FilenameAt is SanitizeFilename with a fixed clock for the fallback name.
// Accents are folded, anything other than ASCII letters, digits and "-_." becomes
// an underscore, and the ".pdf" suffix is enforced.
func FilenameAt(name string, now time.Time) string {
	name = strings.TrimSpace(name)
	if strings.TrimSpace(trimPDFSuffix(name)) == "" {
		return now.Format(defaultFilenameLayout) + ".pdf"
	}

	folded, _, err := transform.String(foldAccents(), name)
	if err != nil {
		folded = name
	}

	var sb strings.Builder
	for _, r := range folded {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			sb.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}

	out := sb.String()
	return trimPDFSuffix(out) + ".pdf"
}

func trimPDFSuffix(name string) string {
	if len(name) >= 4 && strings.EqualFold(name[len(name)-4:], ".pdf") {
		return name[:len(name)-4]
	}
	return name
}

func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
