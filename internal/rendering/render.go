package rendering

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/workready/internal/reflow"
	"github.com/jonathan/workready/internal/types"
	"github.com/jung-kurt/gofpdf"
)

// Margins in points
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Labels are the section headings printed in the document
type Labels struct {
	Summary    string
	Experience string
	Education  string
	Skills     string
}

// DefaultLabels returns the Portuguese headings
func DefaultLabels() Labels {
	return Labels{
		Summary:    "RESUMO PROFISSIONAL",
		Experience: "EXPERIÊNCIA PROFISSIONAL",
		Education:  "FORMAÇÃO ACADÊMICA",
		Skills:     "COMPETÊNCIAS",
	}
}

// EnglishLabels returns the English headings
func EnglishLabels() Labels {
	return Labels{
		Summary:    "PROFESSIONAL SUMMARY",
		Experience: "PROFESSIONAL EXPERIENCE",
		Education:  "EDUCATION",
		Skills:     "SKILLS",
	}
}

// Options configures the renderer
type Options struct {
	PageSize string
	Margins  Margins
	Labels   Labels
	// CreatedAt pins the PDF creation date; zero means now
	CreatedAt time.Time
}

// mm20 is 20 millimetres in points
const mm20 = 20 * 72 / 25.4

// DefaultOptions returns A4 with 20mm margins and Portuguese labels
func DefaultOptions() Options {
	return Options{
		PageSize: "A4",
		Margins:  Margins{Top: mm20, Right: mm20, Bottom: mm20, Left: mm20},
		Labels:   DefaultLabels(),
	}
}

// Result is a rendered document
type Result struct {
	PDF   []byte
	Pages int
	Info  Info
}

// Renderer lays out ParsedDocuments as PDF. It is stateless across calls
// and safe for concurrent use.
type Renderer struct {
	opts Options
	// trace observes every drawn line; used by tests
	trace func(drawnLine)
}

// NewRenderer creates a renderer, filling unset options with defaults
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.PageSize == "" {
		opts.PageSize = def.PageSize
	}
	if opts.Margins == (Margins{}) {
		opts.Margins = def.Margins
	}
	if opts.Labels == (Labels{}) {
		opts.Labels = def.Labels
	}
	return &Renderer{opts: opts}
}

// Render lays out doc with default options
func Render(doc *types.ParsedDocument) (*Result, error) {
	return NewRenderer(DefaultOptions()).Render(doc)
}

// Render lays out doc and returns the PDF bytes with embedded metadata
func (r *Renderer) Render(doc *types.ParsedDocument) (*Result, error) {
	if doc == nil {
		doc = types.NewParsedDocument()
	}

	pdf := gofpdf.New("P", "pt", r.opts.PageSize, "")
	pdf.SetMargins(r.opts.Margins.Left, r.opts.Margins.Top, r.opts.Margins.Right)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	if !r.opts.CreatedAt.IsZero() {
		pdf.SetCreationDate(r.opts.CreatedAt)
	}

	info := BuildInfo(doc)
	applyInfo(pdf, info)

	l := newLayout(pdf, r.opts, r.trace)
	l.newPage()
	l.document(doc)

	if err := pdf.Error(); err != nil {
		return nil, &RenderError{Message: "layout failed", Cause: err}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Message: "failed to write PDF", Cause: err}
	}
	if buf.Len() == 0 {
		return nil, &RenderError{Message: "empty PDF output"}
	}

	return &Result{PDF: buf.Bytes(), Pages: pdf.PageCount(), Info: info}, nil
}

// document draws the sections in fixed order, skipping empty ones
func (l *layout) document(doc *types.ParsedDocument) {
	header := false
	if name := strings.TrimSpace(doc.Name); name != "" {
		l.paragraph(name, nameStyle, 0)
		l.rule(1.2, accent)
		header = true
	}
	if title := strings.TrimSpace(doc.Title); title != "" {
		l.paragraph(title, titleStyle, 0)
		header = true
	}
	if len(doc.Contact) > 0 {
		l.paragraph(strings.Join(doc.Contact, " | "), contactStyle, 0)
		header = true
	}
	if header {
		l.space(4)
		l.rule(0.5, divider)
	}

	if summary := strings.TrimSpace(doc.Summary); summary != "" {
		l.sectionHeader(l.labels.Summary)
		l.paragraph(summary, bodyStyle, 0)
	}

	if len(doc.Experience) > 0 {
		l.sectionHeader(l.labels.Experience)
		for i, entry := range doc.Experience {
			if i > 0 {
				l.space(6)
			}
			l.experience(entry)
		}
	}

	if len(doc.Education) > 0 {
		l.sectionHeader(l.labels.Education)
		for _, entry := range doc.Education {
			l.education(entry)
		}
	}

	if len(doc.Skills) > 0 {
		l.sectionHeader(l.labels.Skills)
		skills := make([]string, 0, len(doc.Skills))
		for _, skill := range doc.Skills {
			skills = append(skills, sanitizeText(skill))
		}
		// packed lines are drawn as-is: a re-wrap would orphan bullets
		for _, line := range reflow.Pack(skills, bullet+" ", skillSeparator, l.skillBudget()) {
			l.line(line, bodyStyle, 0)
		}
	}
}

const (
	bullet          = "•"
	skillSeparator  = "   "
	// widestGlyph is the widest core-font glyph in the cp1252 range, in em
	widestGlyph = 1.0
	detailChunk     = 150
	detailIndent    = 14.0
	bulletOffset    = 4.0
)

// skillBudget is the fixed character budget of a skills line: the number of
// the widest glyphs that fit the content width, so no packed line overflows.
func (l *layout) skillBudget() int {
	return int((l.right - l.left) / (bodyStyle.size * widestGlyph))
}

func (l *layout) experience(entry types.ExperienceEntry) {
	if heading := strings.TrimSpace(entry.Heading); heading != "" {
		l.paragraph(heading, entryStyle, 0)
	}
	for _, detail := range entry.Details {
		for ci, chunk := range reflow.Chunk(detail, detailChunk) {
			l.bulleted(chunk, detailStyle, ci == 0)
		}
	}
}

func (l *layout) education(entry types.EducationEntry) {
	main := entry.Text
	description := ""
	if entry.Institution != "" {
		var parts []string
		for _, p := range []string{entry.Institution, entry.Course, entry.Period} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		main = strings.Join(parts, " | ")
		description = entry.Description
	}

	l.bulleted(main, bodyStyle, true)
	if description != "" {
		l.paragraph(description, noteStyle, detailIndent)
	}
}

// bulleted draws text indented, with a bullet on its first line when marked.
// Continuation lines share the indent and carry no bullet.
func (l *layout) bulleted(text string, st style, marked bool) {
	lines := l.wrap(text, st, detailIndent)
	for i, line := range lines {
		if i == 0 && marked {
			l.ensure(st.lineHeight())
			l.draw(l.left+bulletOffset, bullet, st)
		}
		l.line(line, st, detailIndent)
	}
}

func (l *layout) sectionHeader(label string) {
	l.space(10)
	// keep the header with at least one body line
	l.ensure(headerStyle.lineHeight() + 6 + bodyStyle.lineHeight())
	l.line(label, headerStyle, 0)
	l.rule(0.4, divider)
	l.space(2)
}

// drawnLine records a piece of text placed on a page
type drawnLine struct {
	Page   int
	Top    float64
	Bottom float64
	Text   string
}

func (d drawnLine) String() string {
	return fmt.Sprintf("p%d [%.1f-%.1f] %s", d.Page, d.Top, d.Bottom, d.Text)
}
