package ingestion

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/workready/internal/fetch"
)

var (
	// ErrHTTPRequestFailed is returned when the job page cannot be retrieved
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when no text can be extracted from the page
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
)

// JobFetcher retrieves a job description from a posting URL
type JobFetcher struct {
	Options *fetch.Options
	// Browser re-renders pages whose static HTML holds too little text; nil disables it
	Browser fetch.HTMLRenderer
	Verbose bool
}

// NewJobFetcher creates a fetcher with default fetch options
func NewJobFetcher() *JobFetcher {
	return &JobFetcher{Options: fetch.DefaultOptions()}
}

// Fetch downloads the posting, strips page chrome using platform-specific
// selectors and returns the cleaned description text.
func (j *JobFetcher) Fetch(ctx context.Context, urlStr string) (string, *Metadata, error) {
	platform := fetch.DetectPlatform(urlStr)
	if j.Verbose {
		log.Printf("[VERBOSE] URL: %s", urlStr)
		log.Printf("[VERBOSE] Detected platform: %s", platform)
	}

	result, err := fetch.URL(ctx, urlStr, j.Options)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	if j.Verbose {
		log.Printf("[VERBOSE] Fetched HTML: %d bytes (truncated: %t)", len(result.HTML), result.Truncated)
	}

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)
	text, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, &fetch.Error{URL: urlStr, Message: ErrContentExtractionFailed.Error(), Cause: err}
	}

	if j.Browser != nil && fetch.ShouldUseBrowser(text) {
		if j.Verbose {
			log.Printf("[VERBOSE] Content too short (%d chars < %d), falling back to browser rendering...",
				len(text), fetch.MinContentLength)
		}
		text = j.browserText(ctx, urlStr, text, contentSelectors, noiseSelectors)
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return "", nil, &fetch.Error{URL: urlStr, Message: "page has no readable job description", Cause: ErrContentExtractionFailed}
	}
	if j.Verbose {
		log.Printf("[VERBOSE] Cleaned job description: %d chars", len(cleaned))
	}

	meta := NewMetadata(cleaned, urlStr)
	meta.Platform = string(platform)
	return cleaned, meta, nil
}

// browserText re-extracts the posting from browser-rendered HTML. Any
// browser failure keeps the static text.
func (j *JobFetcher) browserText(ctx context.Context, urlStr, static string, contentSelectors, noiseSelectors []string) string {
	html, err := j.Browser.RenderHTML(ctx, urlStr)
	if err != nil {
		log.Printf("[ingestion] browser rendering failed, using HTTP content: %v", err)
		return static
	}
	text, err := fetch.ExtractMainText(html, contentSelectors, noiseSelectors...)
	if err != nil {
		if j.Verbose {
			log.Printf("[VERBOSE] Browser content extraction failed: %v", err)
		}
		return static
	}
	if len(strings.TrimSpace(text)) < len(strings.TrimSpace(static)) {
		return static
	}
	if j.Verbose {
		log.Printf("[VERBOSE] Browser extracted text: %d chars", len(text))
	}
	return text
}
