// Package browser implements the action executor on a local Chromium
// instance driven through Playwright. One Browser owns one page; the page
// state (cookies, current URL) deliberately carries over between test
// cases in the same batch.
package browser

import (
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"

	"github.com/webpilot/webpilot/pkg/executor"
)

// Options configures a browser executor.
type Options struct {
	Headless bool
	Width    int
	Height   int
}

// Browser is a playwright-backed executor session.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	width   int
	height  int
}

var _ executor.BrowserComputer = (*Browser)(nil)

// New launches Chromium and opens a fresh page. Playwright is installed on
// first use; its output is discarded so it cannot interleave with ours.
func New(opts Options) (*Browser, error) {
	if opts.Width == 0 {
		opts.Width = 1024
	}
	if opts.Height == 0 {
		opts.Height = 768
	}

	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
		Args:     []string{"--disable-extensions", "--disable-file-system"},
	}
	chromium, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Width,
			Height: opts.Height,
		},
	}
	context, err := chromium.NewContext(contextOpts)
	if err != nil {
		chromium.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		chromium.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &Browser{
		pw:      pw,
		browser: chromium,
		context: context,
		page:    page,
		width:   opts.Width,
		height:  opts.Height,
	}, nil
}

// GetDimensions returns the viewport size.
func (b *Browser) GetDimensions() (int, int) {
	return b.width, b.height
}

// GetEnvironment identifies this executor as browser-like, which opts the
// dispatcher into current-URL capture and denylist checks.
func (b *Browser) GetEnvironment() string {
	return executor.EnvironmentBrowser
}

// GetCurrentURL returns the page's current URL.
func (b *Browser) GetCurrentURL() (string, error) {
	return b.page.URL(), nil
}

// Close tears down the page, context, browser, and playwright driver.
func (b *Browser) Close() error {
	var firstErr error
	if b.page != nil {
		if err := b.page.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if b.context != nil {
		if err := b.context.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if b.browser != nil {
		if err := b.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if b.pw != nil {
		if err := b.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
