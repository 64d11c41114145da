package mobilede

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"mobilede-scraper/config"
	"mobilede-scraper/utils"
)

// PageRenderError reports that the browser failed to produce a usable
// document for one page. It is always recoverable at the run level: the
// unit of work is skipped or marked failed, never the whole run.
type PageRenderError struct {
	URL string
	Err error
}

func (e *PageRenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.URL, e.Err)
}

func (e *PageRenderError) Unwrap() error {
	return e.Err
}

// Renderer turns a URL into a queryable rendered document.
type Renderer interface {
	Render(url string) (*goquery.Document, error)
}

// Session is the exclusively-owned browser session used for all fetches of
// one update run. mobile.de serves its result list from a stateful SPA, so
// every page is rendered through the same browser context, sequentially.
type Session struct {
	logger      *utils.Logger
	browserCtx  context.Context
	cancelAlloc context.CancelFunc
	cancelCtx   context.CancelFunc
	pageTimeout time.Duration
	settle      time.Duration
}

// NewSession launches a headless browser. The caller must Close it on every
// exit path; a leaked session keeps a live Chrome process around.
func NewSession(cfg *config.Config, logger *utils.Logger) (*Session, error) {
	chromeBin := findChromeBinary(cfg.ChromeBin)
	logger.Debug("[session] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	// Start the browser now so a broken environment fails fast.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &Session{
		logger:      logger,
		browserCtx:  browserCtx,
		cancelAlloc: cancelAlloc,
		cancelCtx:   cancelCtx,
		pageTimeout: 60 * time.Second,
		settle:      4 * time.Second,
	}, nil
}

// Render navigates the session to the URL, waits for the page to settle and
// returns the rendered DOM as a goquery document.
func (s *Session) Render(url string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(s.browserCtx, s.pageTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(s.settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, &PageRenderError{URL: url, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &PageRenderError{URL: url, Err: err}
	}
	return doc, nil
}

// Close releases the browser session.
func (s *Session) Close() {
	s.cancelCtx()
	s.cancelAlloc()
}

// findChromeBinary locates the Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
