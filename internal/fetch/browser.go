package fetch

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the shortest static extraction accepted without a
// browser retry. Job boards such as Gupy render the posting client-side and
// serve an almost empty shell.
const MinContentLength = 500

// DefaultBrowserTimeout bounds one headless render
const DefaultBrowserTimeout = 30 * time.Second

// ShouldUseBrowser reports whether the statically extracted text is too
// short to be a real posting
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// HTMLRenderer returns the HTML of a page after client-side rendering
type HTMLRenderer interface {
	RenderHTML(ctx context.Context, url string) (string, error)
}

// Browser renders pages in headless Chrome. Chrome or Chromium must be
// installed on the host.
type Browser struct {
	Timeout time.Duration
	// Settle is the wait after the body is ready, for scripts to fill the page
	Settle  time.Duration
	Verbose bool
}

// NewBrowser creates a browser renderer with default timings
func NewBrowser() *Browser {
	return &Browser{Timeout: DefaultBrowserTimeout, Settle: 3 * time.Second}
}

// RenderHTML navigates to url and returns the rendered document HTML
func (b *Browser) RenderHTML(ctx context.Context, url string) (string, error) {
	if b.Verbose {
		log.Printf("[BROWSER] Starting headless browser for: %s", url)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultBrowserTimeout
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(b.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	if b.Verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes", len(html))
	}
	return html, nil
}

