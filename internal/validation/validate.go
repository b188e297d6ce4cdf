// Package validation checks a rendered résumé PDF before it is returned:
// the page count stays within limits, the text layer can be read back the
// way an applicant tracking system would, and no template placeholders
// survived the model reply.
package validation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/workready/internal/ingestion"
	"github.com/jonathan/workready/internal/types"
)

// DefaultMaxPages is the page limit used when none is configured
const DefaultMaxPages = 2

// Options controls which checks run
type Options struct {
	// MaxPages is the page limit; 0 disables the check
	MaxPages int
	// ForbiddenPhrases extend DefaultPlaceholders
	ForbiddenPhrases []string
	// SkipReadability disables the text layer round trip
	SkipReadability bool
}

// DefaultOptions returns the options used by the pipeline
func DefaultOptions() Options {
	return Options{MaxPages: DefaultMaxPages}
}

// Checker validates rendered documents
type Checker struct {
	Extractor ingestion.Extractor
	Options   Options
}

// NewChecker creates a checker reading PDFs with the default extractor
func NewChecker(opts Options) *Checker {
	return &Checker{Extractor: ingestion.NewPDFExtractor(), Options: opts}
}

// Check validates pdf, which was rendered from doc. Problems with the
// document are reported as violations; an error means the check itself
// could not run.
func (c *Checker) Check(ctx context.Context, doc *types.ParsedDocument, pdf []byte) (*types.Violations, error) {
	if doc == nil {
		return nil, &Error{Message: "document is nil"}
	}
	if len(pdf) == 0 {
		return nil, &Error{Message: "rendered PDF is empty"}
	}

	var all []types.Violation
	all = append(all, CheckPlaceholders(doc, c.Options.ForbiddenPhrases)...)

	if c.Options.SkipReadability && c.Options.MaxPages <= 0 {
		return &types.Violations{Violations: all}, nil
	}

	extractor := c.Extractor
	if extractor == nil {
		extractor = ingestion.NewPDFExtractor()
	}
	text, meta, err := extractor.Extract(ctx, pdf)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var extractionErr *ingestion.ExtractionError
		if !errors.As(err, &extractionErr) {
			return nil, &Error{Message: "failed to read rendered PDF", Cause: err}
		}
		// a PDF with no readable text is itself the finding
		all = append(all, types.Violation{
			Type:     "unreadable_pdf",
			Severity: types.SeverityError,
			Details:  fmt.Sprintf("rendered PDF has no readable text: %s", extractionErr.Message),
		})
		return &types.Violations{Violations: all}, nil
	}

	if meta != nil {
		if v := CheckPageCount(meta.Pages, c.Options.MaxPages); v != nil {
			all = append(all, *v)
		}
	}
	if !c.Options.SkipReadability {
		all = append(all, CheckReadability(doc, text)...)
	}

	return &types.Violations{Violations: all}, nil
}
