package parsing

import "strings"

// Section is the canonical key a résumé section header is normalised to
type Section int

// Section constants
const (
	SectionNone Section = iota
	SectionExperience
	SectionEducation
	SectionSkills
	SectionContact
	SectionMetadata
)

func (s Section) String() string {
	switch s {
	case SectionExperience:
		return "EXPERIENCE"
	case SectionEducation:
		return "EDUCATION"
	case SectionSkills:
		return "SKILLS"
	case SectionContact:
		return "CONTACT"
	case SectionMetadata:
		return "METADATA"
	default:
		return "NONE"
	}
}

// Field identifies a singleton scalar written as "KEY: value"
type Field int

// Field constants
const (
	FieldUnknown Field = iota
	FieldName
	FieldTitle
	FieldSummary
)

// MetadataField identifies a key inside the METADATA block
type MetadataField int

// MetadataField constants
const (
	MetaUnknown MetadataField = iota
	MetaTitle
	MetaAuthor
	MetaKeywords
	MetaDescription
	MetaCategory
)

// sectionSynonyms maps folded header text to its canonical section.
// Keys must already be in Fold form.
var sectionSynonyms = map[string]Section{
	"EXPERIENCE":                               SectionExperience,
	"EXPERIENCES":                              SectionExperience,
	"WORK EXPERIENCE":                          SectionExperience,
	"PROFESSIONAL EXPERIENCE":                  SectionExperience,
	"EMPLOYMENT HISTORY":                       SectionExperience,
	"EXPERIENCIA":                              SectionExperience,
	"EXPERIENCIAS":                             SectionExperience,
	"EXPERIENCIA PROFISSIONAL":                 SectionExperience,
	"EXPERIENCIAS PROFISSIONAIS":               SectionExperience,
	"HISTORICO PROFISSIONAL":                   SectionExperience,
	"HISTORICO DE CONQUISTAS PROFISSIONAIS":    SectionExperience,
	"EXPERIENCIA LABORAL":                      SectionExperience,
	"EDUCATION":                                SectionEducation,
	"ACADEMIC BACKGROUND":                      SectionEducation,
	"CERTIFICATIONS":                           SectionEducation,
	"EDUCACAO":                                 SectionEducation,
	"FORMACAO":                                 SectionEducation,
	"FORMACAO ACADEMICA":                       SectionEducation,
	"ESCOLARIDADE":                             SectionEducation,
	"CERTIFICACOES":                            SectionEducation,
	"CERTIFICACOES E CURSOS":                   SectionEducation,
	"CERTIFICACOES E DESENVOLVIMENTO CONTINUO": SectionEducation,
	"SKILLS":                                   SectionSkills,
	"TECHNICAL SKILLS":                         SectionSkills,
	"CORE COMPETENCIES":                        SectionSkills,
	"COMPETENCIAS":                             SectionSkills,
	"COMPETENCIAS PRINCIPAIS":                  SectionSkills,
	"COMPETENCIAS ESTRATEGICAS":                SectionSkills,
	"HABILIDADES":                              SectionSkills,
	"CONTACT":                                  SectionContact,
	"CONTACTS":                                 SectionContact,
	"CONTACT INFORMATION":                      SectionContact,
	"CONTATO":                                  SectionContact,
	"CONTATOS":                                 SectionContact,
	"INFORMACOES DE CONTATO":                   SectionContact,
	"METADATA":                                 SectionMetadata,
	"METADADOS":                                SectionMetadata,
}

var fieldSynonyms = map[string]Field{
	"NAME":                FieldName,
	"FULL NAME":           FieldName,
	"NOME":                FieldName,
	"NOME COMPLETO":       FieldName,
	"TITLE":               FieldTitle,
	"HEADLINE":            FieldTitle,
	"CARGO":               FieldTitle,
	"TITULO":              FieldTitle,
	"SUMMARY":             FieldSummary,
	"PROFILE":             FieldSummary,
	"RESUMO":              FieldSummary,
	"RESUMO PROFISSIONAL": FieldSummary,
	"PERFIL":              FieldSummary,
}

var metadataSynonyms = map[string]MetadataField{
	"TITLE":          MetaTitle,
	"TITULO":         MetaTitle,
	"AUTHOR":         MetaAuthor,
	"AUTOR":          MetaAuthor,
	"KEYWORDS":       MetaKeywords,
	"PALAVRAS-CHAVE": MetaKeywords,
	"PALAVRAS CHAVE": MetaKeywords,
	"DESCRIPTION":    MetaDescription,
	"DESCRICAO":      MetaDescription,
	"SUBJECT":        MetaDescription,
	"ASSUNTO":        MetaDescription,
	"CATEGORY":       MetaCategory,
	"CATEGORIA":      MetaCategory,
}

// LookupSection maps a header (with or without its trailing colon) to a Section.
// Unknown headers map to SectionNone.
func LookupSection(header string) Section {
	key := Fold(cleanMarkup(strings.TrimSuffix(cleanMarkup(header), ":")))
	return sectionSynonyms[key]
}

// LookupField maps a scalar key such as "NOME" to its Field
func LookupField(key string) Field {
	return fieldSynonyms[Fold(key)]
}

// LookupMetadataField maps a key inside the METADATA block to its MetadataField
func LookupMetadataField(key string) MetadataField {
	return metadataSynonyms[Fold(key)]
}
