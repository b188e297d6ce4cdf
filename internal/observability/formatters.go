// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/workready/internal/ingestion"
	"github.com/jonathan/workready/internal/rendering"
	"github.com/jonathan/workready/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxReplyLines bounds the model reply preview
	maxReplyLines = 12
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to max runes, marking the cut with "..."
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// PrintSource outputs the provenance of an extracted text (résumé or job posting).
func (p *Printer) PrintSource(title string, meta *ingestion.Metadata) {
	if meta == nil {
		return
	}

	var sb strings.Builder
	if meta.Source != "" {
		sb.WriteString(fmt.Sprintf("Source:   %s\n", meta.Source))
	}
	if meta.Platform != "" {
		sb.WriteString(fmt.Sprintf("Platform: %s\n", meta.Platform))
	}
	if meta.Pages > 0 {
		sb.WriteString(fmt.Sprintf("Pages:    %d\n", meta.Pages))
	}
	sb.WriteString(fmt.Sprintf("Chars:    %d\n", meta.Chars))
	if len(meta.Hash) >= 12 {
		sb.WriteString(fmt.Sprintf("SHA-256:  %s…\n", meta.Hash[:12]))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReply outputs the first lines of the raw model reply.
func (p *Printer) PrintReply(reply string) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return
	}

	lines := strings.Split(reply, "\n")
	shown := lines[:min(len(lines), maxReplyLines)]
	content := strings.Join(shown, "\n")
	if len(lines) > maxReplyLines {
		content += fmt.Sprintf("\n... and %d more lines", len(lines)-maxReplyLines)
	}

	p.printBox("MODEL REPLY", content)
}

// PrintDocument outputs a human-readable summary of the parsed document.
func (p *Printer) PrintDocument(doc *types.ParsedDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:     %s\n", orDash(doc.Name)))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", orDash(doc.Title)))
	if doc.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary:  %s\n", doc.Summary))
	}
	sb.WriteString("\n")

	if len(doc.Experience) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(doc.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			entry := doc.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s (%d details)\n", orDash(entry.Heading), len(entry.Details)))
		}
		if len(doc.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Experience)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(doc.Education) > 0 {
		sb.WriteString("Education:\n")
		count := min(len(doc.Education), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", doc.Education[i].Text))
		}
		if len(doc.Education) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Education)-3))
		}
		sb.WriteString("\n")
	}

	if len(doc.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills (%d): %s\n", len(doc.Skills), strings.Join(doc.Skills, ", ")))
	}
	if len(doc.Contact) > 0 {
		sb.WriteString(fmt.Sprintf("Contact:  %s\n", strings.Join(doc.Contact, " | ")))
	}

	p.printBox("PARSED DOCUMENT", strings.TrimRight(sb.String(), "\n"))
}

// PrintInfo outputs the metadata embedded in the rendered PDF.
func (p *Printer) PrintInfo(info rendering.Info, pages int) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Title:    %s\n", orDash(info.Title)))
	sb.WriteString(fmt.Sprintf("Author:   %s\n", orDash(info.Author)))
	sb.WriteString(fmt.Sprintf("Subject:  %s\n", orDash(info.Subject)))
	sb.WriteString(fmt.Sprintf("Category: %s\n", orDash(info.Category)))
	if len(info.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("Keywords: %s\n", strings.Join(info.Keywords, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Pages:    %d", pages))

	p.printBox("PDF METADATA", sb.String())
}

// PrintViolations outputs any problems found in the rendered document.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintViolations(violations *types.Violations) {
	if violations == nil || len(violations.Violations) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO VIOLATIONS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d violations:\n\n", len(violations.Violations)))

	for i, v := range violations.Violations {
		sb.WriteString(fmt.Sprintf("⚠ %s (%s)\n", v.Type, v.Severity))
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(v.Details, 45)))
		if i < len(violations.Violations)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("DOCUMENT CHECKS", sb.String())
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
