package hikerapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hikersvoice/e2e/internal/errs"
	"github.com/hikersvoice/e2e/internal/obs"
)

// ModerateReview applies a moderation action to a review via the test-only
// moderation endpoint.
func (c *Client) ModerateReview(ctx context.Context, id int64, action ModerationAction) error {
	path := fmt.Sprintf("/api/v1/test/moderate/%d?action=%s", id, action)
	status, _, err := c.do(ctx, http.MethodPost, path, nil, false)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return errs.FromHTTPStatus(status, fmt.Sprintf("moderate review %d: HTTP %d", id, status))
	}
	obs.From(ctx).Info("moderated review", "review_id", id, "action", string(action))
	return nil
}

// FindAndModerateReview locates the pending review submitted under
// authorName and applies the given moderation action to it. Reviews the
// backend parked as rate-limited count as pending too. Returns the review
// id so the caller can track it for teardown.
func (c *Client) FindAndModerateReview(ctx context.Context, authorName string, action ModerationAction) (int64, error) {
	return c.FindAndModerateReviewMatching(ctx, action, func(r Review) bool {
		return r.AuthorName == authorName
	})
}

// FindAndModerateGuideReview narrows the search to reviews of one guide.
// Needed for anonymous reviews, which all surface under the same
// placeholder author.
func (c *Client) FindAndModerateGuideReview(ctx context.Context, guideID int64, authorName string, action ModerationAction) (int64, error) {
	return c.FindAndModerateReviewMatching(ctx, action, func(r Review) bool {
		return r.AuthorName == authorName && r.GuideID != nil && *r.GuideID == guideID
	})
}

// FindAndModerateReviewMatching applies action to the first pending review
// accepted by match.
func (c *Client) FindAndModerateReviewMatching(ctx context.Context, action ModerationAction, match func(Review) bool) (int64, error) {
	reviews, err := c.ListAllReviews(ctx)
	if err != nil {
		return 0, err
	}
	for _, r := range reviews {
		if !match(r) {
			continue
		}
		if r.Status != StatusPending && r.Status != StatusPendingRateLimited {
			continue
		}
		if err := c.ModerateReview(ctx, r.ID, action); err != nil {
			return 0, err
		}
		return r.ID, nil
	}
	return 0, errs.New(errs.NotFound, "no pending review matched the moderation query")
}
