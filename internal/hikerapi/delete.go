package hikerapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hikersvoice/e2e/internal/cleanup"
	"github.com/hikersvoice/e2e/internal/errs"
	"github.com/hikersvoice/e2e/internal/obs"
)

// DeleteReview removes a review through the admin panel. The panel answers
// a successful deletion with a 303 redirect back to the review list; a 404
// means the review is already gone, which teardown treats as success.
func (c *Client) DeleteReview(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/admin/review/%d/delete", id)
	status, _, err := c.do(ctx, http.MethodPost, path, nil, true)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusSeeOther, http.StatusOK:
		obs.From(ctx).Debug("deleted review", "review_id", id)
		return nil
	case http.StatusNotFound:
		return errs.New(errs.NotFound, fmt.Sprintf("review %d not found", id))
	case http.StatusUnauthorized, http.StatusForbidden:
		return errs.New(errs.PermissionDenied, "admin credentials rejected")
	default:
		return errs.FromHTTPStatus(status, fmt.Sprintf("delete review %d: HTTP %d", id, status))
	}
}

// DeleteCompany removes a company via the test-only deletion endpoint.
func (c *Client) DeleteCompany(ctx context.Context, id int64) error {
	return c.deleteEntity(ctx, "company", fmt.Sprintf("/api/v1/test/companies/%d", id), id)
}

// DeleteGuide removes a guide via the test-only deletion endpoint.
func (c *Client) DeleteGuide(ctx context.Context, id int64) error {
	return c.deleteEntity(ctx, "guide", fmt.Sprintf("/api/v1/test/guides/%d", id), id)
}

func (c *Client) deleteEntity(ctx context.Context, kind, path string, id int64) error {
	status, _, err := c.do(ctx, http.MethodDelete, path, nil, false)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK, http.StatusNoContent:
		obs.From(ctx).Debug("deleted "+kind, kind+"_id", id)
		return nil
	case http.StatusNotFound:
		return errs.New(errs.NotFound, fmt.Sprintf("%s %d not found", kind, id))
	default:
		return errs.FromHTTPStatus(status, fmt.Sprintf("delete %s %d: HTTP %d", kind, id, status))
	}
}

// Delete dispatches a tracked entity deletion by kind, satisfying
// cleanup.Deleter.
func (c *Client) Delete(ctx context.Context, kind cleanup.Kind, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	switch kind {
	case cleanup.KindReview:
		return c.DeleteReview(ctx, n)
	case cleanup.KindCompany:
		return c.DeleteCompany(ctx, n)
	case cleanup.KindGuide:
		return c.DeleteGuide(ctx, n)
	default:
		return errs.New(errs.InvalidArgument, fmt.Sprintf("unknown entity kind %q", kind))
	}
}
