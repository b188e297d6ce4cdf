package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/workready/internal/parsing"
	"github.com/jonathan/workready/internal/types"
)

// DefaultPlaceholders are template leftovers models sometimes copy verbatim
var DefaultPlaceholders = []string{
	"lorem ipsum",
	"seu nome",
	"your name",
	"nome da empresa",
	"company name",
	"inserir aqui",
	"insert here",
	"[nome",
	"[name",
	"[empresa",
	"[company",
	"[cargo",
	"[data",
}

// {{cargo}} or XXXX
var placeholderPattern = regexp.MustCompile(`\{\{[^}\n]*\}\}|\bX{3,}\b`)

// CheckPlaceholders reports one violation per section that still carries a
// placeholder or one of the extra forbidden phrases.
func CheckPlaceholders(doc *types.ParsedDocument, extra []string) []types.Violation {
	phrases := make([]string, 0, len(DefaultPlaceholders)+len(extra))
	for _, p := range append(append([]string{}, DefaultPlaceholders...), extra...) {
		if p = parsing.Fold(p); p != "" {
			phrases = append(phrases, p)
		}
	}

	var violations []types.Violation
	for _, section := range sectionTexts(doc) {
		for _, text := range section.texts {
			found := findPlaceholder(text, phrases)
			if found == "" {
				continue
			}
			violations = append(violations, types.Violation{
				Type:             "placeholder_text",
				Severity:         types.SeverityError,
				Details:          fmt.Sprintf("%s contains placeholder text: %s", section.name, found),
				AffectedSections: []string{section.name},
			})
			break // one per section
		}
	}
	return violations
}

func findPlaceholder(text string, phrases []string) string {
	if m := placeholderPattern.FindString(text); m != "" {
		return m
	}
	folded := parsing.Fold(text)
	for _, p := range phrases {
		if strings.Contains(folded, p) {
			return strings.ToLower(p)
		}
	}
	return ""
}

type section struct {
	name  string
	texts []string
}

func sectionTexts(doc *types.ParsedDocument) []section {
	experience := make([]string, 0, len(doc.Experience))
	for _, e := range doc.Experience {
		experience = append(experience, e.Heading)
		experience = append(experience, e.Details...)
	}

	return []section{
		{"header", []string{doc.Name, doc.Title}},
		{"contact", doc.Contact},
		{"summary", []string{doc.Summary}},
		{"experience", experience},
		{"education", doc.EducationTexts()},
		{"skills", doc.Skills},
	}
}
