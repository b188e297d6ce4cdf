package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jonathan/workready/internal/parsing"
	"github.com/jonathan/workready/internal/types"
)

// CheckReadability compares the text read back from the rendered PDF with
// the document. The candidate name must be present and at least half of the
// skills must be found; both are what keyword screening relies on.
func CheckReadability(doc *types.ParsedDocument, extracted string) []types.Violation {
	haystack := compact(extracted)
	var violations []types.Violation

	if name := compact(doc.Name); name != "" && !strings.Contains(haystack, name) {
		violations = append(violations, types.Violation{
			Type:             "unreadable_text",
			Severity:         types.SeverityError,
			Details:          fmt.Sprintf("candidate name %q not found in the PDF text layer", doc.Name),
			AffectedSections: []string{"header"},
		})
	}

	var missing []string
	checked := 0
	for _, skill := range doc.Skills {
		needle := compact(skill)
		if needle == "" {
			continue
		}
		checked++
		if !strings.Contains(haystack, needle) {
			missing = append(missing, skill)
		}
	}
	if checked > 0 && len(missing)*2 > checked {
		violations = append(violations, types.Violation{
			Type:             "unreadable_text",
			Severity:         types.SeverityWarning,
			Details:          fmt.Sprintf("%d of %d skills not found in the PDF text layer", len(missing), checked),
			AffectedSections: []string{"skills"},
		})
	}

	return violations
}

// compact folds accents and case and keeps only letters and digits, so
// line breaks and glyph spacing in the text layer do not matter.
func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, parsing.Fold(s))
}
