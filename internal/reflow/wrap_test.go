package reflow

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runeWidth measures one unit per rune, which keeps expectations readable.
func runeWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s))
}

func TestWrap_Greedy(t *testing.T) {
	lines := Wrap("the quick brown fox jumps over the lazy dog", 15, runeWidth)
	assert.Equal(t, []string{
		"the quick brown",
		"fox jumps over",
		"the lazy dog",
	}, lines)
}

func TestWrap_PreservesBlankLines(t *testing.T) {
	lines := Wrap("first line\n\nsecond line", 100, runeWidth)
	assert.Equal(t, []string{"first line", "", "second line"}, lines)
}

func TestWrap_WhitespaceOnlyLineIsBlank(t *testing.T) {
	lines := Wrap("a\n   \r\nb", 100, runeWidth)
	assert.Equal(t, []string{"a", "", "b"}, lines)
}

func TestWrap_OverWideWordAlone(t *testing.T) {
	lines := Wrap("ab supercalifragilistic cd", 5, runeWidth)
	assert.Equal(t, []string{"ab", "supercalifragilistic", "cd"}, lines)
}

func TestWrap_EmptyInput(t *testing.T) {
	assert.Equal(t, []string{""}, Wrap("", 10, runeWidth))
}

func TestWrap_Properties(t *testing.T) {
	inputs := []string{
		"Led migration of 40 services to Kubernetes, cutting deploy time from hours to minutes across three regions.",
		"short",
		"a b c d e f g h i j k l m n o p",
		"Especialista em engenharia de dados com foco em pipelines confiáveis e observáveis.",
		"x xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx y",
	}
	widths := []float64{1, 8, 20, 37, 80}

	for _, in := range inputs {
		for _, w := range widths {
			lines := Wrap(in, w, runeWidth)
			require.NotEmpty(t, lines)

			for _, line := range lines {
				fits := runeWidth(line) <= w
				single := len(strings.Fields(line)) == 1
				assert.True(t, fits || single, "line %q exceeds width %v", line, w)
			}

			assert.Equal(t, strings.Fields(in), strings.Fields(strings.Join(lines, " ")),
				"words must survive wrapping in order (width %v)", w)
		}
	}
}

func TestChunk(t *testing.T) {
	text := strings.Repeat("word ", 60)
	chunks := Chunk(text, 150)
	require.Len(t, chunks, 2)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 150)
	}
	assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(chunks, " ")))
}

func TestChunk_Empty(t *testing.T) {
	assert.Nil(t, Chunk("   ", 150))
}

func TestPack(t *testing.T) {
	lines := Pack([]string{"Python", "SQL", "Go", " ", "Kubernetes"}, "• ", "   ", 20)
	assert.Equal(t, []string{
		"• Python   • SQL",
		"• Go   • Kubernetes",
	}, lines)
}

func TestPack_OversizedToken(t *testing.T) {
	lines := Pack([]string{"Distributed Systems Engineering", "Go"}, "- ", " ", 10)
	assert.Equal(t, []string{"- Distributed Systems Engineering", "- Go"}, lines)
}
