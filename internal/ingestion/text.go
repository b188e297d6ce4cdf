// Package ingestion turns uploaded résumés and job postings into clean text.
package ingestion

import (
	"regexp"
	"strings"
)

var (
	excessiveBlankLines = regexp.MustCompile(`\n\n\n+`)
	innerWhitespace     = regexp.MustCompile(`\s+`)
	// word-<newline>continuation left by hyphenated line breaks in PDFs
	hyphenBreak         = regexp.MustCompile(`(\p{L})-\n(\p{Ll})`)
)

// pdfArtifacts maps characters PDF text layers commonly produce to plain text
var pdfArtifacts = strings.NewReplacer(
	"\u00ad", "", // soft hyphen
	"\ufeff", "",
	"\u200b", "",
	"\f", "\n",
	"\u00a0", " ",
	"\ufb01", "fi",
	"\ufb02", "fl",
	"\ufb00", "ff",
	"\ufb03", "ffi",
	"\ufb04", "ffl",
	"\uf0b7", "•", // Symbol-font bullet
	"\uf0a7", "•",
)

// CleanText cleans and normalizes text content while preserving structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ToValidUTF8(content, "")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = pdfArtifacts.Replace(content)
	content = hyphenBreak.ReplaceAllString(content, "$1$2")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = excessiveBlankLines.ReplaceAllString(result, "\n\n")

	return strings.TrimSpace(result)
}

// cleanLine cleans a single line while preserving headings and bullets
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	if isBulletLine(trimmed) {
		indent := len(line) - len(trimmed)
		return strings.Repeat(" ", indent) + innerWhitespace.ReplaceAllString(trimmed, " ")
	}

	leadingSpace := len(line) - len(trimmed)
	content := innerWhitespace.ReplaceAllString(strings.TrimSpace(line), " ")
	if leadingSpace > 0 {
		return strings.Repeat(" ", leadingSpace) + content
	}
	return content
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "· ")
}
