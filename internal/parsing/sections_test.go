package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupSection(t *testing.T) {
	tests := []struct {
		header   string
		expected Section
	}{
		{"EXPERIENCIA:", SectionExperience},
		{"Experiência Profissional", SectionExperience},
		{"**HISTÓRICO DE CONQUISTAS PROFISSIONAIS**:", SectionExperience},
		{"work   experience:", SectionExperience},
		{"Formação Acadêmica:", SectionEducation},
		{"CERTIFICAÇÕES E DESENVOLVIMENTO CONTÍNUO:", SectionEducation},
		{"competências estratégicas:", SectionSkills},
		{"Skills:", SectionSkills},
		{"Contato:", SectionContact},
		{"METADADOS:", SectionMetadata},
		{"Hobbies:", SectionNone},
		{"", SectionNone},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.expected, LookupSection(tt.header))
		})
	}
}

func TestLookupField(t *testing.T) {
	assert.Equal(t, FieldName, LookupField("Nome"))
	assert.Equal(t, FieldName, LookupField("NOME COMPLETO"))
	assert.Equal(t, FieldTitle, LookupField("Título"))
	assert.Equal(t, FieldSummary, LookupField("resumo profissional"))
	assert.Equal(t, FieldUnknown, LookupField("Email"))
}

func TestLookupMetadataField(t *testing.T) {
	assert.Equal(t, MetaKeywords, LookupMetadataField("Palavras-chave"))
	assert.Equal(t, MetaDescription, LookupMetadataField("Descrição"))
	assert.Equal(t, MetaAuthor, LookupMetadataField("author"))
	assert.Equal(t, MetaUnknown, LookupMetadataField("color"))
}

func TestSectionString(t *testing.T) {
	assert.Equal(t, "SKILLS", SectionSkills.String())
	assert.Equal(t, "NONE", Section(42).String())
}

func TestFold(t *testing.T) {
	assert.Equal(t, "EXPERIENCIA PROFISSIONAL", Fold("  Experiência \t profissional "))
	assert.Equal(t, "FORMACAO", Fold("formação"))
}

func TestStripBullet(t *testing.T) {
	assert.Equal(t, "Python", stripBullet("  - Python"))
	assert.Equal(t, "Python", stripBullet("• Python"))
	assert.Equal(t, "Bold item", stripBullet("* **Bold item**"))
	assert.Equal(t, "", stripBullet(" - "))
}
