package rendering

import (
	"github.com/jonathan/workready/internal/reflow"
	"github.com/jung-kurt/gofpdf"
)

const fontFamily = "Helvetica"

type rgb struct{ r, g, b int }

var (
	ink     = rgb{33, 33, 33}
	muted   = rgb{90, 90, 90}
	accent  = rgb{31, 78, 121}
	divider = rgb{170, 170, 170}
)

type style struct {
	weight string
	size   float64
	color  rgb
}

func (s style) lineHeight() float64 {
	return s.size * 1.4
}

var (
	nameStyle    = style{"B", 24, accent}
	titleStyle   = style{"B", 14, ink}
	contactStyle = style{"", 10, muted}
	headerStyle  = style{"B", 12, accent}
	entryStyle   = style{"B", 10.5, ink}
	bodyStyle    = style{"", 10.5, ink}
	detailStyle  = style{"", 10, ink}
	noteStyle    = style{"I", 9, muted}
)

// layout owns the vertical cursor of one render call.
// Pages are added lazily: nothing is drawn unless the line fits above the
// bottom margin of the current page.
type layout struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	labels Labels

	left, right, top, bottom float64

	page  int
	y     float64
	trace func(drawnLine)
}

func newLayout(pdf *gofpdf.Fpdf, opts Options, trace func(drawnLine)) *layout {
	w, h := pdf.GetPageSize()
	return &layout{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		labels: opts.Labels,
		left:   opts.Margins.Left,
		right:  w - opts.Margins.Right,
		top:    opts.Margins.Top,
		bottom: h - opts.Margins.Bottom,
		trace:  trace,
	}
}

func (l *layout) newPage() {
	l.pdf.AddPage()
	l.page++
	l.y = l.top
}

// ensure starts a new page when height does not fit below the cursor
func (l *layout) ensure(height float64) {
	if l.y+height > l.bottom && l.y > l.top {
		l.newPage()
	}
}

func (l *layout) space(height float64) {
	l.y += height
}

func (l *layout) setStyle(st style) {
	l.pdf.SetFont(fontFamily, st.weight, st.size)
	l.pdf.SetTextColor(st.color.r, st.color.g, st.color.b)
}

// wrap breaks text into lines fitting the content width minus indent
func (l *layout) wrap(text string, st style, indent float64) []string {
	l.setStyle(st)
	measure := reflow.Measure(func(s string) float64 {
		return l.pdf.GetStringWidth(l.tr(s))
	})
	return reflow.Wrap(sanitizeText(text), l.right-l.left-indent, measure)
}

// paragraph wraps text and draws it line by line
func (l *layout) paragraph(text string, st style, indent float64) {
	for _, line := range l.wrap(text, st, indent) {
		l.line(line, st, indent)
	}
}

// line draws a single pre-wrapped line and advances the cursor.
// Blank lines only advance.
func (l *layout) line(text string, st style, indent float64) {
	l.ensure(st.lineHeight())
	if text != "" {
		l.draw(l.left+indent, text, st)
	}
	l.y += st.lineHeight()
}

// draw places text at x on the current line without moving the cursor
func (l *layout) draw(x float64, text string, st style) {
	l.setStyle(st)
	baseline := l.y + st.size*0.8
	l.pdf.Text(x, baseline, l.tr(text))
	if l.trace != nil {
		l.trace(drawnLine{Page: l.page, Top: l.y, Bottom: l.y + st.lineHeight(), Text: text})
	}
}

func (l *layout) rule(width float64, c rgb) {
	l.ensure(width + 4)
	l.y += 2
	l.pdf.SetLineWidth(width)
	l.pdf.SetDrawColor(c.r, c.g, c.b)
	l.pdf.Line(l.left, l.y, l.right, l.y)
	l.y += width + 2
}
