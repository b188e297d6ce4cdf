// Package types provides type definitions for structured data used throughout the workready system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// DocumentCategory is the constant category embedded in every generated résumé.
const DocumentCategory = "résumé"

// MaxKeywords caps the keyword list embedded in the PDF metadata
const MaxKeywords = 10

// ParsedDocument is the typed résumé built from a model reply.
// It is produced once per request and not mutated after parsing.
type ParsedDocument struct {
	Name       string            `json:"name"`
	Title      string            `json:"title"`
	Summary    string            `json:"summary"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
	Skills     []string          `json:"skills"`
	Contact    []string          `json:"contact"`
	Metadata   Metadata          `json:"metadata"`
}

// ExperienceEntry is one "role | company | period" heading with its bullets
type ExperienceEntry struct {
	Heading string   `json:"heading"`
	Details []string `json:"details"`
}

// IsEmpty reports whether the entry has neither a heading nor details
func (e ExperienceEntry) IsEmpty() bool {
	return e.Heading == "" && len(e.Details) == 0
}

// EducationEntry is a free-form education line. The structured fields are
// filled when the line carries "|" separators and may all be empty.
type EducationEntry struct {
	Text        string `json:"text"`
	Institution string `json:"institution,omitempty"`
	Course      string `json:"course,omitempty"`
	Period      string `json:"period,omitempty"`
	Description string `json:"description,omitempty"`
}

// Metadata holds document-level information destined for the PDF info dictionary
type Metadata struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Keywords    []string `json:"keywords"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
}

// NewParsedDocument returns the default empty document with non-nil lists
func NewParsedDocument() *ParsedDocument {
	return &ParsedDocument{
		Experience: []ExperienceEntry{},
		Education:  []EducationEntry{},
		Skills:     []string{},
		Contact:    []string{},
		Metadata: Metadata{
			Keywords: []string{},
			Category: DocumentCategory,
		},
	}
}

// EducationTexts returns the raw education lines in order
func (d *ParsedDocument) EducationTexts() []string {
	out := make([]string, 0, len(d.Education))
	for _, e := range d.Education {
		out = append(out, e.Text)
	}
	return out
}
