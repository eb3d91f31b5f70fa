package pages

import (
	"github.com/playwright-community/playwright-go"

	"github.com/hikersvoice/e2e/internal/errs"
)

// Reviews listing page.
const (
	reviewsPageTitle = "h1:has-text('Все отзывы')"
	reviewsCard      = "article.card"
)

// ReviewsPage drives the full review listing.
type ReviewsPage struct {
	Base
}

func NewReviewsPage(page playwright.Page, baseURL string) *ReviewsPage {
	return &ReviewsPage{Base{Page: page, BaseURL: baseURL}}
}

// OpenReviews opens the listing and waits for the heading.
func (p *ReviewsPage) OpenReviews() error {
	if err := p.Open("/reviews"); err != nil {
		return err
	}
	return p.WaitVisible(reviewsPageTitle)
}

// CardByAuthor returns the review card attributed to author.
func (p *ReviewsPage) CardByAuthor(author string) playwright.Locator {
	if author == "" {
		author = "Аноним"
	}
	return p.Page.Locator(reviewsCard).Filter(playwright.LocatorFilterOptions{
		HasText: "Автор: " + author,
	}).First()
}

// HasReviewByAuthor reports whether the listing shows a card for author.
func (p *ReviewsPage) HasReviewByAuthor(author string) bool {
	visible, err := p.CardByAuthor(author).IsVisible()
	return err == nil && visible
}

// CardCount returns the number of review cards on the page.
func (p *ReviewsPage) CardCount() (int, error) {
	count, err := p.Page.Locator(reviewsCard).Count()
	if err != nil {
		return 0, errs.Wrap(errs.Unavailable, "count review cards", err)
	}
	return count, nil
}
