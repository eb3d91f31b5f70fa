// Package pages holds Playwright page objects for the Hiker's Voice
// frontend. Selectors target the site's Russian-language UI; methods return
// errors so scenario tests decide what is fatal.
package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/hikersvoice/e2e/internal/errs"
)

const (
	visibleCheckTimeoutMS = 1500
	elementTimeoutMS      = 10000
)

// Base carries the shared page handle and navigation root.
type Base struct {
	Page    playwright.Page
	BaseURL string
}

// Open navigates to a path under the frontend and waits for the network to
// settle, which covers client-side hydration.
func (b *Base) Open(path string) error {
	if _, err := b.Page.Goto(b.BaseURL+path, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return errs.Wrap(errs.Unavailable, fmt.Sprintf("open %s", path), err)
	}
	return b.Settle()
}

// Settle waits for in-flight requests to finish.
func (b *Base) Settle() error {
	if err := b.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	}); err != nil {
		return errs.Wrap(errs.Unavailable, "wait for page to settle", err)
	}
	return nil
}

// Reload refreshes the page and waits for it to settle. Satisfies the
// poller's Reloader so entity pages can be polled directly.
func (b *Base) Reload(ctx context.Context) error {
	if _, err := b.Page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return errs.Wrap(errs.Unavailable, "reload page", err)
	}
	return nil
}

// FillChecked fills an input and verifies the value stuck. Controlled React
// inputs occasionally drop keystrokes during hydration; verification turns
// that into a loud failure instead of a confusing submit error.
func (b *Base) FillChecked(selector, value string) error {
	loc := b.Page.Locator(selector).First()
	if err := loc.Fill(""); err != nil {
		return errs.Wrap(errs.Unavailable, fmt.Sprintf("clear %s", selector), err)
	}
	if err := loc.Fill(value); err != nil {
		return errs.Wrap(errs.Unavailable, fmt.Sprintf("fill %s", selector), err)
	}
	got, err := loc.InputValue()
	if err != nil {
		return errs.Wrap(errs.Unavailable, fmt.Sprintf("read back %s", selector), err)
	}
	if got != value {
		return errs.New(errs.FailedPrecondition,
			fmt.Sprintf("field %s holds %q after filling %q", selector, truncate(got), truncate(value)))
	}
	return nil
}

// SelectOption picks a value in a native select element.
func (b *Base) SelectOption(selector, value string) error {
	if _, err := b.Page.Locator(selector).First().SelectOption(playwright.SelectOptionValues{
		Values: &[]string{value},
	}); err != nil {
		return errs.Wrap(errs.Unavailable, fmt.Sprintf("select %q in %s", value, selector), err)
	}
	return nil
}

// Click clicks the first element matching selector.
func (b *Base) Click(selector string) error {
	if err := b.Page.Locator(selector).First().Click(); err != nil {
		return errs.Wrap(errs.Unavailable, fmt.Sprintf("click %s", selector), err)
	}
	return nil
}

// Visible reports whether an element becomes visible within a short window.
func (b *Base) Visible(selector string) bool {
	err := b.Page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(visibleCheckTimeoutMS),
	})
	return err == nil
}

// WaitVisible waits for an element with the standard element timeout.
func (b *Base) WaitVisible(selector string) error {
	if err := b.Page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(elementTimeoutMS),
	}); err != nil {
		return errs.Wrap(errs.Unavailable, fmt.Sprintf("wait for %s", selector), err)
	}
	return nil
}

// Text returns the trimmed text content of the first matching element.
func (b *Base) Text(selector string) (string, error) {
	loc := b.Page.Locator(selector).First()
	if err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(elementTimeoutMS),
	}); err != nil {
		return "", errs.Wrap(errs.Unavailable, fmt.Sprintf("wait for %s", selector), err)
	}
	text, err := loc.TextContent()
	if err != nil {
		return "", errs.Wrap(errs.Unavailable, fmt.Sprintf("read text of %s", selector), err)
	}
	return strings.TrimSpace(text), nil
}

func truncate(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
