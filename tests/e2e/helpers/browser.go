package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/fullstack-bloglist/bloglist-e2e/tests/e2e/config"
)

// BrowserHelper provides browser setup and teardown for tests
type BrowserHelper struct {
	Playwright *playwright.Playwright
	Browser    playwright.Browser
	Context    playwright.BrowserContext
	Page       playwright.Page
	Config     *config.TestConfig
	t          testing.TB
}

// NewBrowserHelper creates a new browser helper instance
func NewBrowserHelper(t testing.TB, cfg *config.TestConfig) *BrowserHelper {
	return &BrowserHelper{
		Config: cfg,
		t:      t,
	}
}

// Setup initializes the browser and creates a new page
func (b *BrowserHelper) Setup() error {
	if os.Getenv("PLAYWRIGHT_PREINSTALLED") != "1" {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("could not start playwright: %w", err)
	}
	b.Playwright = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.Config.Headless),
		SlowMo:   playwright.Float(float64(b.Config.SlowMo.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("could not launch browser: %w", err)
	}
	b.Browser = browser

	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
	}
	if b.Config.Videos {
		contextOpts.RecordVideo = &playwright.RecordVideo{
			Dir: filepath.Join(b.Config.ResultsDir, "videos"),
		}
	}
	context, err := browser.NewContext(contextOpts)
	if err != nil {
		return fmt.Errorf("could not create context: %w", err)
	}
	b.Context = context

	page, err := context.NewPage()
	if err != nil {
		return fmt.Errorf("could not create page: %w", err)
	}
	b.Page = page

	page.SetDefaultTimeout(float64(b.Config.Timeout.Milliseconds()))

	return nil
}

// TearDown closes the browser and cleans up resources
func (b *BrowserHelper) TearDown() {
	if b.t.Failed() && b.Config.Screenshots && b.Page != nil {
		name := strings.NewReplacer("/", "_", " ", "_").Replace(b.t.Name())
		screenshotPath := filepath.Join(b.Config.ResultsDir, "screenshots",
			fmt.Sprintf("%s_%d.png", name, time.Now().Unix()))
		if _, err := b.Page.Screenshot(playwright.PageScreenshotOptions{
			Path:     playwright.String(screenshotPath),
			FullPage: playwright.Bool(true),
		}); err == nil {
			b.t.Logf("screenshot saved to %s", screenshotPath)
		}
	}

	if b.Page != nil {
		b.Page.Close()
	}
	if b.Context != nil {
		b.Context.Close()
	}
	if b.Browser != nil {
		b.Browser.Close()
	}
	if b.Playwright != nil {
		b.Playwright.Stop()
	}
}

// NavigateTo navigates to a path relative to the frontend URL
func (b *BrowserHelper) NavigateTo(path string) error {
	url := b.Config.FrontendURL + path
	if _, err := b.Page.Goto(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// Reload reloads the page and waits for the network to settle.
func (b *BrowserHelper) Reload() error {
	if _, err := b.Page.Reload(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return b.WaitForIdle()
}

// WaitForIdle waits until no network request has been in flight for 500ms.
func (b *BrowserHelper) WaitForIdle() error {
	return b.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
}
