package rendering

import (
	"bytes"
	"encoding/xml"
	"strings"
	"unicode"

	"github.com/jonathan/workready/internal/types"
	"github.com/jung-kurt/gofpdf"
)

// Info is the document-information set embedded in the output PDF
type Info struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Subject     string   `json:"subject"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Category    string   `json:"category"`
}

// BuildInfo derives the PDF metadata for a document.
// Explicit metadata from the model wins; otherwise title and author fall back
// to the document's own fields and subject/keywords are derived from the summary.
// It never fails.
func BuildInfo(doc *types.ParsedDocument) Info {
	if doc == nil {
		doc = types.NewParsedDocument()
	}
	md := doc.Metadata

	info := Info{
		Title:    firstNonEmpty(md.Title, doc.Title),
		Author:   firstNonEmpty(md.Author, doc.Name),
		Category: types.DocumentCategory,
	}

	if md.Description != "" {
		info.Subject = md.Description
		info.Description = md.Description
	} else {
		info.Subject, info.Description = SplitSummary(doc.Summary)
	}

	if len(md.Keywords) > 0 {
		n := len(md.Keywords)
		if n > types.MaxKeywords {
			n = types.MaxKeywords
		}
		info.Keywords = append([]string{}, md.Keywords[:n]...)
	} else {
		info.Keywords = DeriveKeywords(doc.Summary)
	}

	return info
}

// SplitSummary splits a summary into two parts: the first two sentences when
// there are at least two, otherwise the two halves of the text.
func SplitSummary(summary string) (string, string) {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", ""
	}

	if sentences := splitSentences(summary); len(sentences) >= 2 {
		return sentences[0], sentences[1]
	}

	r := []rune(summary)
	mid := len(r) / 2
	return strings.TrimSpace(string(r[:mid])), strings.TrimSpace(string(r[mid:]))
}

// splitSentences breaks text after '.', '!' or '?' followed by whitespace or end of text
func splitSentences(text string) []string {
	var sentences []string
	r := []rune(text)
	start := 0
	for i, c := range r {
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 < len(r) && !unicode.IsSpace(r[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(r[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(r[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// DeriveKeywords picks distinctive words from a summary: lower-cased, longer
// than three letters, not a stop word. The list is led by the document
// category and holds at most types.MaxKeywords entries. An empty or
// stop-word-only summary yields an empty list.
func DeriveKeywords(summary string) []string {
	words := strings.FieldsFunc(strings.ToLower(summary), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '+' && r != '#'
	})

	keywords := []string{}
	seen := map[string]bool{types.DocumentCategory: true}
	for _, w := range words {
		w = strings.Trim(w, "-")
		if len([]rune(w)) <= 3 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
		if len(keywords) == types.MaxKeywords-1 {
			break
		}
	}

	if len(keywords) == 0 {
		return keywords
	}
	return append([]string{types.DocumentCategory}, keywords...)
}

var stopWords = map[string]bool{
	// pt
	"para": true, "como": true, "mais": true, "sobre": true, "pelo": true,
	"pela": true, "pelos": true, "pelas": true, "entre": true, "também": true,
	"tambem": true, "este": true, "esta": true, "estes": true, "estas": true,
	"isso": true, "essa": true, "esse": true, "onde": true, "quando": true,
	"muito": true, "seus": true, "suas": true, "anos": true, "cada": true,
	"qual": true, "umas": true, "desde": true, "ainda": true, "após": true,
	"apos": true, "sendo": true, "foram": true, "será": true, "sera": true,
	"pode": true, "podem": true, "nosso": true, "nossa": true, "através": true,
	"atraves": true, "forte": true, "sólida": true, "sólido": true,
	// en
	"with": true, "that": true, "this": true, "from": true, "have": true,
	"over": true, "into": true, "years": true, "their": true, "they": true,
	"also": true, "across": true, "more": true, "than": true, "which": true,
	"while": true, "where": true, "about": true, "through": true, "strong": true,
}

// applyInfo writes the info dictionary and an XMP packet into the PDF
func applyInfo(pdf *gofpdf.Fpdf, info Info) {
	if info.Title != "" {
		pdf.SetTitle(info.Title, true)
	}
	if info.Author != "" {
		pdf.SetAuthor(info.Author, true)
	}
	if info.Subject != "" {
		pdf.SetSubject(info.Subject, true)
	}
	if len(info.Keywords) > 0 {
		pdf.SetKeywords(strings.Join(info.Keywords, ", "), true)
	}
	pdf.SetCreator(creator, true)
	pdf.SetXmpMetadata(buildXMP(info))
}

const creator = "WorkReady"

// buildXMP renders the Dublin Core subset of the info as an XMP packet.
// dc:description carries the second half of the summary, which has no slot
// in the classic info dictionary.
func buildXMP(info Info) []byte {
	var b bytes.Buffer
	esc := func(s string) string {
		var e bytes.Buffer
		_ = xml.EscapeText(&e, []byte(s))
		return e.String()
	}
	alt := func(tag, value string) {
		if value == "" {
			return
		}
		b.WriteString("<dc:" + tag + "><rdf:Alt><rdf:li xml:lang=\"x-default\">" + esc(value) + "</rdf:li></rdf:Alt></dc:" + tag + ">\n")
	}

	b.WriteString(`<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>` + "\n")
	b.WriteString(`<x:xmpmeta xmlns:x="adobe:ns:meta/">` + "\n")
	b.WriteString(`<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` + "\n")
	b.WriteString(`<rdf:Description rdf:about="" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:pdf="http://ns.adobe.com/pdf/1.3/">` + "\n")

	alt("title", info.Title)
	alt("description", firstNonEmpty(info.Description, info.Subject))
	if info.Author != "" {
		b.WriteString("<dc:creator><rdf:Seq><rdf:li>" + esc(info.Author) + "</rdf:li></rdf:Seq></dc:creator>\n")
	}
	if info.Category != "" {
		b.WriteString("<dc:type><rdf:Bag><rdf:li>" + esc(info.Category) + "</rdf:li></rdf:Bag></dc:type>\n")
	}
	if len(info.Keywords) > 0 {
		b.WriteString("<dc:subject><rdf:Bag>")
		for _, k := range info.Keywords {
			b.WriteString("<rdf:li>" + esc(k) + "</rdf:li>")
		}
		b.WriteString("</rdf:Bag></dc:subject>\n")
		b.WriteString("<pdf:Keywords>" + esc(strings.Join(info.Keywords, ", ")) + "</pdf:Keywords>\n")
	}

	b.WriteString("</rdf:Description>\n</rdf:RDF>\n</x:xmpmeta>\n")
	b.WriteString(`<?xpacket end="w"?>`)
	return b.Bytes()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
