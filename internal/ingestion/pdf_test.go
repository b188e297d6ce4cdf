package ingestion

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// samplePDF builds a small text PDF with one line per page
func samplePDF(t *testing.T, pages ...string) []byte {
	t.Helper()

	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, text := range pages {
		doc.AddPage()
		doc.Text(72, 72, text)
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staged files must be removed")
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF([]byte("%PDF-1.4\n...")))
	assert.True(t, IsPDF([]byte("\n%PDF-1.7")))
	assert.False(t, IsPDF([]byte("PK\x03\x04")))
	assert.False(t, IsPDF(nil))
}

func TestPDFExtractor_Extract(t *testing.T) {
	dir := t.TempDir()
	x := &PDFExtractor{TempDir: dir}

	text, meta, err := x.Extract(context.Background(), samplePDF(t, "Curriculum", "Engineering"))
	require.NoError(t, err)

	assert.Contains(t, text, "Curriculum")
	assert.Contains(t, text, "Engineering")
	require.NotNil(t, meta)
	assert.Equal(t, 2, meta.Pages)
	assert.Len(t, meta.Hash, 64)
	assertDirEmpty(t, dir)
}

func TestPDFExtractor_RejectsNonPDF(t *testing.T) {
	dir := t.TempDir()
	x := &PDFExtractor{TempDir: dir}

	_, _, err := x.Extract(context.Background(), []byte("hello, I am a text file"))
	require.Error(t, err)

	var extractionErr *ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
	assertDirEmpty(t, dir)
}

func TestPDFExtractor_EmptyUpload(t *testing.T) {
	_, _, err := NewPDFExtractor().Extract(context.Background(), nil)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Contains(t, err.Error(), "empty upload")
}

func TestPDFExtractor_MalformedPDFRemovesTempFile(t *testing.T) {
	dir := t.TempDir()
	x := &PDFExtractor{TempDir: dir}

	_, _, err := x.Extract(context.Background(), []byte("%PDF-1.4\nthis is not really a pdf"))
	require.Error(t, err)

	var extractionErr *ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
	assertDirEmpty(t, dir)
}

func TestPDFExtractor_NoTextLayer(t *testing.T) {
	dir := t.TempDir()
	x := &PDFExtractor{TempDir: dir}

	doc := gofpdf.New("P", "pt", "A4", "")
	doc.AddPage()
	doc.Rect(72, 72, 100, 100, "F")
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))

	_, _, err := x.Extract(context.Background(), buf.Bytes())

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assertDirEmpty(t, dir)
}

func TestPDFExtractor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewPDFExtractor().Extract(ctx, samplePDF(t, "Curriculum"))
	assert.ErrorIs(t, err, context.Canceled)
}
