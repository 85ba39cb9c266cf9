package audit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/jonathan/portfolio-site/internal/navigation"
)

// layoutScript measures every declared section the same way the page script does.
const layoutScript = `(() => {
  const body = document.body;
  const ids = JSON.parse(body.dataset.sections || "[]");
  return {
    header_offset: parseInt(body.dataset.headerOffset || "100", 10),
    sections: ids
      .map(id => document.getElementById(id))
      .filter(el => el !== null)
      .map(el => ({ id: el.id, top: el.offsetTop, height: el.offsetHeight })),
  };
})()`

type layoutResult struct {
	HeaderOffset int                  `json:"header_offset"`
	Sections     []navigation.Section `json:"sections"`
}

// ChromeOptions configures the headless browser.
type ChromeOptions struct {
	// Timeout bounds the whole browser session.
	Timeout time.Duration
	// Settle is how long to wait after a scroll for the page's scroll handler.
	Settle time.Duration
	// Width and Height set the viewport.
	Width, Height int
	Verbose       bool
}

// DefaultChromeOptions returns a desktop viewport and conservative waits.
func DefaultChromeOptions() ChromeOptions {
	return ChromeOptions{
		Timeout: 60 * time.Second,
		Settle:  150 * time.Millisecond,
		Width:   1280,
		Height:  800,
	}
}

// Chrome is a Driver backed by a headless Chrome tab.
// Requires Chrome/Chromium to be installed on the system.
type Chrome struct {
	ctx     context.Context
	cancel  context.CancelFunc
	opts    ChromeOptions
	siteURL string
}

// OpenChrome starts a headless browser and loads siteURL. Callers must Close it.
func OpenChrome(ctx context.Context, siteURL string, opts ChromeOptions) (*Chrome, error) {
	if opts.Verbose {
		log.Printf("[audit] Starting headless browser for: %s", siteURL)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.WindowSize(opts.Width, opts.Height),
		)...,
	)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, opts.Timeout)

	c := &Chrome{
		ctx: timeoutCtx,
		cancel: func() {
			cancelTimeout()
			cancelBrowser()
			cancelAlloc()
		},
		opts:    opts,
		siteURL: siteURL,
	}

	if err := chromedp.Run(c.ctx,
		chromedp.Navigate(siteURL),
		chromedp.WaitReady("body"),
	); err != nil {
		c.Close()
		return nil, &Error{URL: siteURL, Message: "browser navigation failed", Cause: err}
	}
	return c, nil
}

// Close shuts the browser down.
func (c *Chrome) Close() {
	c.cancel()
}

// Layout measures the sections of the loaded page.
func (c *Chrome) Layout(ctx context.Context) (int, []navigation.Section, error) {
	var res layoutResult
	if err := c.run(ctx, chromedp.Evaluate(layoutScript, &res)); err != nil {
		return 0, nil, fmt.Errorf("failed to measure layout: %w", err)
	}
	if c.opts.Verbose {
		log.Printf("[audit] Measured %d sections (header offset %d)", len(res.Sections), res.HeaderOffset)
	}
	return res.HeaderOffset, res.Sections, nil
}

// ScrollTo scrolls to offset, waits for the scroll handler and returns the resulting HTML.
func (c *Chrome) ScrollTo(ctx context.Context, offset int) (int, string, error) {
	var reached int
	var html string
	err := c.run(ctx,
		chromedp.Evaluate(fmt.Sprintf(`window.scrollTo(0, %d); window.dispatchEvent(new Event("scroll"));`, offset), nil),
		chromedp.Sleep(c.opts.Settle),
		chromedp.Evaluate(`Math.round(window.scrollY)`, &reached),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return 0, "", err
	}
	if c.opts.Verbose && reached != offset {
		log.Printf("[audit] Requested offset %d, reached %d", offset, reached)
	}
	return reached, html, nil
}

// run executes actions in the browser tab, also stopping when ctx is cancelled.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	stop := context.AfterFunc(ctx, c.cancel)
	defer stop()
	return chromedp.Run(c.ctx, actions...)
}
