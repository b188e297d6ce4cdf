package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractionError represents a failure to obtain text from an uploaded PDF
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

var pdfMagic = []byte("%PDF-")

// IsPDF reports whether data starts with the PDF header
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), pdfMagic)
}

// Extractor returns the plain text of a PDF document
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, *Metadata, error)
}

// PDFExtractor reads the text layer of a PDF. Uploads are staged in a temp
// file that is removed on every exit path.
type PDFExtractor struct {
	// TempDir is where uploads are staged; empty means os.TempDir
	TempDir string
	Verbose bool
}

// NewPDFExtractor creates an extractor staging files in the default temp dir
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract returns the cleaned text of the PDF in data
func (x *PDFExtractor) Extract(ctx context.Context, data []byte) (string, *Metadata, error) {
	if len(data) == 0 {
		return "", nil, &ExtractionError{Message: "empty upload"}
	}
	if !IsPDF(data) {
		return "", nil, &ExtractionError{Message: "file is not a PDF"}
	}
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	tmp, err := os.CreateTemp(x.TempDir, "workready-*.pdf")
	if err != nil {
		return "", nil, &ExtractionError{Message: "failed to stage upload", Cause: err}
	}
	path := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("[ingestion] failed to remove %s: %v", path, err)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return "", nil, &ExtractionError{Message: "failed to stage upload", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return "", nil, &ExtractionError{Message: "failed to stage upload", Cause: err}
	}

	raw, pages, err := x.readPages(ctx, path)
	if err != nil {
		return "", nil, err
	}

	text := CleanText(raw)
	if text == "" {
		return "", nil, &ExtractionError{Message: "no extractable text (scanned or image-only PDF?)"}
	}

	meta := NewMetadata(text, "")
	meta.Pages = pages
	if x.Verbose {
		log.Printf("[VERBOSE] Extracted %d chars from %d page(s)", meta.Chars, pages)
	}
	return text, meta, nil
}

// readPages concatenates the plain text of every page.
// The PDF library panics on some malformed files; that is reported as an ExtractionError.
func (x *PDFExtractor) readPages(ctx context.Context, path string) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ExtractionError{Message: "malformed PDF", Cause: fmt.Errorf("%v", r)}
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", 0, &ExtractionError{Message: "failed to open PDF", Cause: err}
	}
	defer func() { _ = f.Close() }()

	var sb strings.Builder
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			if x.Verbose {
				log.Printf("[VERBOSE] Page %d unreadable: %v", i, err)
			}
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
		pages++
	}

	return sb.String(), pages, nil
}
