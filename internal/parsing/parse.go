// Package parsing turns the model's semi-structured résumé reply into a typed document.
//
// The reply format is a contract the model usually follows, not a guarantee:
// parsing never fails, it degrades to partially empty fields and logs what it dropped.
package parsing

import (
	"log"
	"strings"

	"github.com/jonathan/workready/internal/types"
)

// parser holds the state of one forward pass over the reply lines
type parser struct {
	doc     *types.ParsedDocument
	section Section
	fence   string // closing token while inside a fenced METADATA block
}

// Parse converts a model reply into a ParsedDocument.
// It is total: any input, including empty or binary text, yields a document
// whose list fields are valid (possibly empty) slices.
func Parse(raw string) (doc *types.ParsedDocument) {
	p := &parser{doc: types.NewParsedDocument()}
	if strings.TrimSpace(raw) == "" {
		return p.doc
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[parse] aborted, returning partial document: %v", r)
			doc = p.doc
		}
	}()

	raw = strings.ToValidUTF8(raw, "")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	for i, line := range strings.Split(raw, "\n") {
		p.safeLine(i+1, line)
	}
	p.finish()

	return p.doc
}

// safeLine processes one line, recovering from any failure so the pass continues
func (p *parser) safeLine(n int, line string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[parse] line %d skipped: %v", n, r)
		}
	}()
	p.line(line)
}

func (p *parser) line(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}

	// Fenced METADATA block
	if p.fence != "" {
		if trimmed == p.fence {
			p.fence = ""
			p.section = SectionNone
			return
		}
		p.metadataLine(trimmed)
		return
	}
	if token, ok := fenceToken(trimmed); ok {
		folded := Fold(trimmed)
		if strings.Contains(folded, "METADATA") || strings.Contains(folded, "METADADOS") {
			p.fence = token
			p.section = SectionMetadata
		}
		// Other fences are presentation only
		return
	}

	clean := cleanMarkup(trimmed)
	key, value, hasValue := splitKeyValue(clean)
	hasValue = hasValue && value != ""

	// METADATA introduced by a plain header lasts until the next header
	if p.section == SectionMetadata && hasValue {
		p.metadataLine(clean)
		return
	}

	if hasValue {
		if field := LookupField(key); field != FieldUnknown {
			p.setField(field, value)
			p.section = SectionNone
			return
		}
	}

	if strings.HasSuffix(clean, ":") {
		p.section = LookupSection(clean)
		if p.section == SectionNone {
			log.Printf("[parse] unrecognized section header %q, dropping its content", clean)
		}
		return
	}

	if p.section != SectionNone {
		p.content(line)
	}
}

func (p *parser) setField(field Field, value string) {
	switch field {
	case FieldName:
		p.doc.Name = value
	case FieldTitle:
		p.doc.Title = value
	case FieldSummary:
		p.doc.Summary = value
	}
}

func (p *parser) metadataLine(line string) {
	key, value, ok := splitKeyValue(cleanMarkup(line))
	if !ok {
		log.Printf("[parse] ignoring malformed metadata line %q", line)
		return
	}

	md := &p.doc.Metadata
	switch LookupMetadataField(key) {
	case MetaTitle:
		if value != "" {
			md.Title = value
		}
	case MetaAuthor:
		if value != "" {
			md.Author = value
		}
	case MetaKeywords:
		keywords := splitKeywords(value)
		if len(keywords) > types.MaxKeywords {
			keywords = keywords[:types.MaxKeywords]
		}
		md.Keywords = keywords
	case MetaDescription:
		if value != "" {
			md.Description = value
		}
	case MetaCategory:
		// category is fixed
	default:
		log.Printf("[parse] ignoring unknown metadata key %q", key)
	}
}

func (p *parser) content(line string) {
	text := stripBullet(line)
	if text == "" {
		return
	}

	switch p.section {
	case SectionExperience:
		entries := p.doc.Experience
		switch {
		case strings.Contains(text, "|"):
			p.doc.Experience = append(entries, types.ExperienceEntry{Heading: text, Details: []string{}})
		case len(entries) > 0:
			last := &p.doc.Experience[len(entries)-1]
			last.Details = append(last.Details, text)
		default:
			p.doc.Experience = append(entries, types.ExperienceEntry{Details: []string{text}})
		}
	case SectionEducation:
		p.doc.Education = append(p.doc.Education, parseEducation(text))
	case SectionSkills:
		p.doc.Skills = append(p.doc.Skills, text)
	case SectionContact:
		p.doc.Contact = append(p.doc.Contact, text)
	}
}

// finish drops empty experience entries and blank or repeated list entries
func (p *parser) finish() {
	experience := make([]types.ExperienceEntry, 0, len(p.doc.Experience))
	for _, entry := range p.doc.Experience {
		if entry.IsEmpty() {
			continue
		}
		experience = append(experience, entry)
	}
	p.doc.Experience = experience

	education := make([]types.EducationEntry, 0, len(p.doc.Education))
	seen := make(map[string]bool)
	for _, entry := range p.doc.Education {
		if entry.Text == "" || seen[entry.Text] {
			continue
		}
		seen[entry.Text] = true
		education = append(education, entry)
	}
	p.doc.Education = education

	p.doc.Skills = dedupe(p.doc.Skills)
	p.doc.Contact = dedupe(p.doc.Contact)
}

// parseEducation fills the structured fields of a "Institution | Course | Period | Description" line
func parseEducation(text string) types.EducationEntry {
	entry := types.EducationEntry{Text: text}
	if !strings.Contains(text, "|") {
		return entry
	}

	parts := strings.Split(text, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	entry.Institution = parts[0]
	if len(parts) > 1 {
		entry.Course = parts[1]
	}
	if len(parts) > 2 {
		entry.Period = parts[2]
	}
	if len(parts) > 3 {
		entry.Description = strings.Join(parts[3:], " | ")
	}
	return entry
}

// fenceToken returns the run of backticks or tildes opening a fenced block
func fenceToken(line string) (string, bool) {
	for _, mark := range []string{"`", "~"} {
		if strings.HasPrefix(line, strings.Repeat(mark, 3)) {
			n := len(line) - len(strings.TrimLeft(line, mark))
			return line[:n], true
		}
	}
	return "", false
}
