package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Home page selectors.
const (
	leaveReviewButton = "button:has-text('Оставить отзыв')"
	reviewCard        = "article.card"
	successBanner     = ".bg-green-100"
)

// HomePage drives the landing page with the latest reviews feed.
type HomePage struct {
	Base
}

func NewHomePage(page playwright.Page, baseURL string) *HomePage {
	return &HomePage{Base{Page: page, BaseURL: baseURL}}
}

// OpenHome navigates to the landing page.
func (p *HomePage) OpenHome() error {
	return p.Open("/")
}

// ClickLeaveReview opens the review type selection modal.
func (p *HomePage) ClickLeaveReview() error {
	return p.Click(leaveReviewButton)
}

// ReviewCardByAuthor returns the locator of the review card attributed to
// the given author. Anonymous reviews render under the site's placeholder.
func (p *HomePage) ReviewCardByAuthor(author string) playwright.Locator {
	if author == "" {
		author = "Аноним"
	}
	return p.Page.Locator(reviewCard).Filter(playwright.LocatorFilterOptions{
		HasText: "Автор: " + author,
	}).First()
}

// HasReviewByAuthor reports whether a review card for the author is visible.
func (p *HomePage) HasReviewByAuthor(author string) bool {
	visible, err := p.ReviewCardByAuthor(author).IsVisible()
	return err == nil && visible
}

// FilledStars counts the highlighted rating stars inside a review card. The
// rating widget always renders five stars and marks the filled ones yellow.
func FilledStars(card playwright.Locator) (int, error) {
	count, err := card.Locator("svg.text-yellow-400").Count()
	if err != nil {
		return 0, fmt.Errorf("count filled stars: %w", err)
	}
	return count, nil
}

// SuccessBannerVisible reports whether the green success banner is shown,
// as after a ?success=review_created redirect.
func (p *HomePage) SuccessBannerVisible() bool {
	return p.Visible(successBanner)
}
