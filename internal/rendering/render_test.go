package rendering

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/workready/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tracedRenderer(opts Options) (*Renderer, *[]drawnLine) {
	var lines []drawnLine
	r := NewRenderer(opts)
	r.trace = func(d drawnLine) { lines = append(lines, d) }
	return r, &lines
}

func sampleDocument() *types.ParsedDocument {
	doc := types.NewParsedDocument()
	doc.Name = "Ana Silva"
	doc.Title = "Engenheira de Dados"
	doc.Summary = "Especialista em dados com foco em pipelines. Lidera times de engenharia."
	doc.Contact = []string{"ana@example.com", "São Paulo"}
	doc.Experience = []types.ExperienceEntry{
		{Heading: "Engenheira | Acme | 2020-2023", Details: []string{"Reduziu custos em 20%"}},
	}
	doc.Education = []types.EducationEntry{
		{Text: "USP | Computação | 2018 | Ênfase em sistemas", Institution: "USP", Course: "Computação", Period: "2018", Description: "Ênfase em sistemas"},
	}
	doc.Skills = []string{"Python", "SQL", "Go"}
	return doc
}

func TestRender_SampleDocument(t *testing.T) {
	r, lines := tracedRenderer(DefaultOptions())

	result, err := r.Render(sampleDocument())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(result.PDF, []byte("%PDF-")))
	assert.Equal(t, 1, result.Pages)

	var texts []string
	for _, l := range *lines {
		texts = append(texts, l.Text)
	}
	joined := strings.Join(texts, "\n")

	// fixed section order
	order := []string{"Ana Silva", "Engenheira de Dados", "ana@example.com | São Paulo",
		"RESUMO PROFISSIONAL", "EXPERIÊNCIA PROFISSIONAL", "FORMAÇÃO ACADÊMICA", "COMPETÊNCIAS"}
	last := -1
	for _, s := range order {
		idx := strings.Index(joined, s)
		require.NotEqual(t, -1, idx, "missing %q", s)
		assert.Greater(t, idx, last, "%q out of order", s)
		last = idx
	}

	assert.Contains(t, texts, "USP | Computação | 2018")
	assert.Contains(t, texts, "Ênfase em sistemas")
	assert.Contains(t, texts, "• Python   • SQL   • Go")
}

func TestRender_EmptyDocument(t *testing.T) {
	r, lines := tracedRenderer(DefaultOptions())

	result, err := r.Render(types.NewParsedDocument())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(result.PDF, []byte("%PDF-")))
	assert.Equal(t, 1, result.Pages)
	assert.Empty(t, *lines)
}

func TestRender_NilDocument(t *testing.T) {
	result, err := Render(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pages)
}

// assertWithinMargins checks every traced line lies inside the page body and
// that the last traced page is the last page of the document
func assertWithinMargins(t *testing.T, lines []drawnLine, pages int) {
	t.Helper()

	opts := DefaultOptions()
	pageHeight := 841.89
	limit := pageHeight - opts.Margins.Bottom + 0.01
	maxPage := 0
	for _, l := range lines {
		assert.LessOrEqual(t, l.Bottom, limit, "line below bottom margin: %s", l)
		assert.GreaterOrEqual(t, l.Top, opts.Margins.Top-0.01, "line above top margin: %s", l)
		if l.Page > maxPage {
			maxPage = l.Page
		}
	}
	assert.Equal(t, pages, maxPage)
}

func TestRender_PaginatesLongSummary(t *testing.T) {
	r, lines := tracedRenderer(DefaultOptions())

	doc := types.NewParsedDocument()
	doc.Name = "Ana Silva"
	doc.Summary = strings.Repeat("Pipelines de dados escaláveis. ", 162)[:5000]

	result, err := r.Render(doc)
	require.NoError(t, err)
	assert.Greater(t, result.Pages, 1)
	assertWithinMargins(t, *lines, result.Pages)
}

func TestRender_PaginatesEverySection(t *testing.T) {
	r, lines := tracedRenderer(DefaultOptions())

	doc := sampleDocument()
	doc.Experience = nil
	doc.Education = nil
	doc.Skills = nil
	for i := 0; i < 40; i++ {
		doc.Experience = append(doc.Experience, types.ExperienceEntry{
			Heading: fmt.Sprintf("Engenheira %d | Empresa %d | 2010 - 2012", i, i),
			Details: []string{
				"Migrou o data warehouse para uma arquitetura de lakehouse com custos 30% menores.",
				strings.Repeat("Coordenou squads multidisciplinares de dados. ", 6),
			},
		})
		doc.Education = append(doc.Education, types.EducationEntry{
			Text:        fmt.Sprintf("Universidade %d | Curso %d | 2008", i, i),
			Description: "Trabalho de conclusão sobre processamento distribuído",
		})
		doc.Skills = append(doc.Skills, fmt.Sprintf("Ferramenta de orquestração %d", i))
	}

	result, err := r.Render(doc)
	require.NoError(t, err)
	assert.Greater(t, result.Pages, 3)
	assertWithinMargins(t, *lines, result.Pages)

	// the last section still reaches the final page
	last := (*lines)[len(*lines)-1]
	assert.Equal(t, result.Pages, last.Page)
	assert.Contains(t, last.Text, "Ferramenta de orquestração")
}

func TestRender_SkillLinesKeepBullets(t *testing.T) {
	r, lines := tracedRenderer(DefaultOptions())

	doc := types.NewParsedDocument()
	for i := 0; i < 12; i++ {
		doc.Skills = append(doc.Skills, fmt.Sprintf("MWMWMW%d", i))
	}

	_, err := r.Render(doc)
	require.NoError(t, err)

	var skillLines []string
	for _, l := range *lines {
		if l.Text != DefaultLabels().Skills {
			skillLines = append(skillLines, l.Text)
		}
	}
	require.Greater(t, len(skillLines), 1, "wide skills span several lines")

	seen := 0
	for _, line := range skillLines {
		assert.True(t, strings.HasPrefix(line, bullet+" "), "line without bullet: %q", line)
		assert.False(t, strings.HasSuffix(line, bullet), "orphan bullet: %q", line)
		seen += strings.Count(line, bullet)
	}
	assert.Equal(t, 12, seen)
	assert.Contains(t, skillLines[0], "MWMWMW0"+skillSeparator+bullet+" MWMWMW1")
}

func TestRender_LongDetailsAreChunked(t *testing.T) {
	r, lines := tracedRenderer(DefaultOptions())

	doc := types.NewParsedDocument()
	doc.Experience = []types.ExperienceEntry{{
		Heading: "Dev | Beta | 2019",
		Details: []string{strings.Repeat("entregou resultados ", 20)},
	}}

	_, err := r.Render(doc)
	require.NoError(t, err)

	bullets := 0
	body := 0
	for _, l := range *lines {
		switch {
		case l.Text == bullet:
			bullets++
		case strings.Contains(l.Text, "entregou"):
			body++
		}
	}
	assert.Equal(t, 1, bullets, "continuations carry no bullet")
	assert.Greater(t, body, 1)
}

func TestRender_EnglishLabels(t *testing.T) {
	opts := DefaultOptions()
	opts.Labels = EnglishLabels()
	r, lines := tracedRenderer(opts)

	doc := types.NewParsedDocument()
	doc.Skills = []string{"Go"}

	_, err := r.Render(doc)
	require.NoError(t, err)
	require.NotEmpty(t, *lines)
	assert.Equal(t, "SKILLS", (*lines)[0].Text)
}

func TestRender_PinnedCreationDateIsDeterministic(t *testing.T) {
	opts := DefaultOptions()
	opts.CreatedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	r := NewRenderer(opts)

	a, err := r.Render(sampleDocument())
	require.NoError(t, err)
	b, err := r.Render(sampleDocument())
	require.NoError(t, err)

	assert.Equal(t, a.Info, b.Info)
	assert.Equal(t, a.Pages, b.Pages)
	assert.Equal(t, len(a.PDF), len(b.PDF))
}

func TestNewRenderer_FillsDefaults(t *testing.T) {
	r := NewRenderer(Options{})
	assert.Equal(t, "A4", r.opts.PageSize)
	assert.Equal(t, DefaultLabels(), r.opts.Labels)
	assert.InDelta(t, 56.69, r.opts.Margins.Left, 0.01)
}
