package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanReply(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain reply",
			input:    "  NOME: Ana\r\nCARGO: Engenheira\n",
			expected: "NOME: Ana\nCARGO: Engenheira",
		},
		{
			name:     "markdown wrapper",
			input:    "```markdown\nNOME: Ana\n```",
			expected: "NOME: Ana",
		},
		{
			name:     "generic wrapper with metadata inside",
			input:    "```\nNOME: Ana\n```METADATA\nTITLE: Ana\n```\n```",
			expected: "NOME: Ana\n```METADATA\nTITLE: Ana\n```",
		},
		{
			name:     "metadata block alone is kept",
			input:    "```METADATA\nTITLE: Ana\n```",
			expected: "```METADATA\nTITLE: Ana\n```",
		},
		{
			name:     "fence not wrapping the whole reply",
			input:    "```text\nNOME: Ana\n```\nCARGO: Dev\n```METADATA\nTITLE: x\n```",
			expected: "```text\nNOME: Ana\n```\nCARGO: Dev\n```METADATA\nTITLE: x\n```",
		},
		{
			name:     "only fences",
			input:    "```\n```",
			expected: "",
		},
		{
			name:     "empty",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanReply(tt.input))
		})
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a b", Preview("a\n\n  b", 10))
	assert.Equal(t, "Ação...", Preview("Ação de teste", 4))
}

func TestModelError(t *testing.T) {
	err := &ModelError{Model: "gemini-2.5-flash", Message: "empty reply"}
	assert.Equal(t, "model error (gemini-2.5-flash): empty reply", err.Error())
	assert.Nil(t, err.Unwrap())
}
