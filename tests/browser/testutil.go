// Package browser contains Playwright E2E tests for the Hiker's Voice site.
// All test files use SuiteEnv via SetupSuiteEnv(t), which talks to a running
// deployment addressed by BACKEND_URL and FRONTEND_URL.
//
// Prerequisites:
// - Install Playwright browsers: go run github.com/playwright-community/playwright-go/cmd/playwright install chromium
// - Run tests with: go test -v ./tests/browser/...
package browser

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/hikersvoice/e2e/internal/cleanup"
	"github.com/hikersvoice/e2e/internal/config"
	"github.com/hikersvoice/e2e/internal/hikerapi"
	"github.com/hikersvoice/e2e/internal/obs"
	"github.com/hikersvoice/e2e/internal/poll"
)

const (
	// CODING AGENT RULE: Always use these timeout constants for browser
	// operations. Never introduce a larger per-operation timeout anywhere
	// in tests/browser; only whole-condition polling and teardown budgets
	// below may exceed them.
	browserMaxTimeoutMS = 10000
	browserMaxTimeout   = 10 * time.Second

	// Defaults for condition polling against an eventually consistent UI.
	pollTimeout  = 15 * time.Second
	pollInterval = 500 * time.Millisecond

	// Teardown gets its own budget so a hung backend cannot wedge TestMain.
	drainTimeout = 30 * time.Second
)

var (
	suiteMu     sync.Mutex
	sharedSuite *SuiteEnv
)

// SuiteEnv is the shared environment for all browser tests: suite config,
// the backend API client, and a lazily launched shared browser.
type SuiteEnv struct {
	Config *config.Config
	API    *hikerapi.Client

	pw        *playwright.Playwright
	browser   playwright.Browser
	browserMu sync.Mutex
}

// SetupSuiteEnv returns the shared suite environment, creating it on first
// use. Tests are skipped when no deployment is reachable.
func SetupSuiteEnv(t *testing.T) *SuiteEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	suiteMu.Lock()
	defer suiteMu.Unlock()

	if sharedSuite != nil {
		return sharedSuite
	}

	obs.Init()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load suite configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid suite configuration: %v", err)
	}

	if err := checkReachable(cfg.BackendURL); err != nil {
		t.Skipf("Backend not reachable at %s: %v", cfg.BackendURL, err)
	}
	if err := checkReachable(cfg.FrontendURL); err != nil {
		t.Skipf("Frontend not reachable at %s: %v", cfg.FrontendURL, err)
	}

	sharedSuite = &SuiteEnv{
		Config: cfg,
		API:    hikerapi.NewFromConfig(cfg),
	}
	return sharedSuite
}

func checkReachable(baseURL string) error {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(baseURL + "/")
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Cleanup stops the shared browser and Playwright driver. Call from
// TestMain after m.Run().
func Cleanup() {
	suiteMu.Lock()
	defer suiteMu.Unlock()

	if sharedSuite == nil {
		return
	}
	if sharedSuite.browser != nil {
		_ = sharedSuite.browser.Close()
	}
	if sharedSuite.pw != nil {
		_ = sharedSuite.pw.Stop()
	}
	sharedSuite = nil
}

// InitBrowser initializes Playwright and launches Chromium. Skips the test
// if the driver or browser is not available.
func (env *SuiteEnv) InitBrowser(t *testing.T) {
	t.Helper()

	env.browserMu.Lock()
	defer env.browserMu.Unlock()

	if env.browser != nil {
		return
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Skip("Playwright not available:", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(env.Config.Headless),
		SlowMo:   playwright.Float(float64(env.Config.SlowMo.Milliseconds())),
	})
	if err != nil {
		_ = pw.Stop()
		t.Skip("Could not launch browser:", err)
	}
	env.pw = pw
	env.browser = browser
}

// NewPage creates a browser page with the suite default timeouts. The page
// is closed (with a screenshot if the test failed) via t.Cleanup.
func (env *SuiteEnv) NewPage(t *testing.T) playwright.Page {
	t.Helper()

	page, err := env.browser.NewPage()
	if err != nil {
		t.Fatalf("could not create page: %v", err)
	}
	page.SetDefaultTimeout(browserMaxTimeoutMS)
	page.SetDefaultNavigationTimeout(browserMaxTimeoutMS)
	t.Cleanup(func() {
		if t.Failed() {
			saveFailureScreenshot(t, page)
		}
		_ = page.Close()
	})
	return page
}

func saveFailureScreenshot(t *testing.T, page playwright.Page) {
	dir := filepath.Join(os.TempDir(), "hikersvoice-e2e-screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Logf("could not create screenshot dir: %v", err)
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%d.png", sanitizeName(t.Name()), time.Now().Unix()))
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		t.Logf("could not capture failure screenshot: %v", err)
		return
	}
	t.Logf("failure screenshot saved to %s", path)
}

func sanitizeName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

// NewScope returns a cleanup scope wired to the backend client. Tracked
// entities are drained when the test finishes; a failed drain fails the
// test so leaked records are never silent.
func (env *SuiteEnv) NewScope(t *testing.T) *cleanup.Scope {
	t.Helper()

	scope := cleanup.NewScope(env.API)
	ctx := obs.WithCorrelation(context.Background(), obs.Correlation{
		TestName: t.Name(),
		ScopeID:  scope.ID(),
	})
	t.Cleanup(func() {
		drainCtx, cancel := context.WithTimeout(ctx, drainTimeout)
		defer cancel()
		result, err := scope.Drain(drainCtx)
		if err != nil {
			t.Errorf("teardown: %v", err)
		}
		if result.Deleted+result.NotFound > 0 {
			t.Logf("teardown: deleted %d entities (%d already gone)", result.Deleted, result.NotFound)
		}
	})
	return scope
}

// TestContext returns a context carrying the test's correlation attributes
// for API calls made directly from test bodies.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	return obs.WithCorrelation(context.Background(), obs.Correlation{TestName: t.Name()})
}

// Navigate opens a path on the frontend and waits for DOMContentLoaded.
func (env *SuiteEnv) Navigate(t *testing.T, page playwright.Page, path string) {
	t.Helper()

	_, err := page.Goto(env.Config.FrontendURL+path, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(browserMaxTimeoutMS),
	})
	if err != nil {
		t.Fatalf("Failed to navigate to %s: %v", path, err)
	}
}

// WaitForSelector waits for an element to be visible and returns its
// locator. On timeout it logs page state before failing.
func WaitForSelector(t *testing.T, page playwright.Page, selector string) playwright.Locator {
	t.Helper()

	first := page.Locator(selector).First()
	err := first.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(browserMaxTimeoutMS),
	})
	if err != nil {
		title, _ := page.Title()
		content, _ := page.Content()
		if len(content) > 500 {
			content = content[:500] + "..."
		}
		t.Logf("Current URL: %s", page.URL())
		t.Logf("Current title: %s", title)
		t.Logf("Content preview: %s", content)
		t.Fatalf("Failed to wait for selector %s: %v", selector, err)
	}
	return first
}

// AwaitCondition polls check until it holds, reloading the page between
// attempts. Used for UI state that only converges after backend moderation.
func AwaitCondition(t *testing.T, page playwright.Page, message string, check poll.Check) {
	t.Helper()

	outcome, err := poll.Await(TestContext(t), pageReloader{page}, poll.Config{
		Timeout:               pollTimeout,
		Interval:              pollInterval,
		ReloadBetweenAttempts: true,
		FailureMessage:        message,
	}, check)
	if err != nil {
		t.Fatalf("polling failed: %v", err)
	}
	if outcome != poll.Success {
		t.Fatalf("timed out waiting for condition: %s", message)
	}
}

// pageReloader adapts a Playwright page to the poller's Reloader.
type pageReloader struct {
	page playwright.Page
}

func (r pageReloader) Reload(ctx context.Context) error {
	_, err := r.page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(browserMaxTimeoutMS),
	})
	return err
}
