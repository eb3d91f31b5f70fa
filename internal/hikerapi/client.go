// Package hikerapi is the suite's HTTP client for the Hiker's Voice backend.
// It covers the three collaborator surfaces the tests need: the public
// entity-creation API the frontend itself uses, the unauthenticated
// test-only endpoints (review listing, moderation, company/guide deletion),
// and the basic-auth admin panel endpoint for review deletion.
package hikerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/hikersvoice/e2e/internal/cleanup"
	"github.com/hikersvoice/e2e/internal/config"
	"github.com/hikersvoice/e2e/internal/errs"
	"github.com/hikersvoice/e2e/internal/obs"
)

// Company is a tour company as returned by the backend.
type Company struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	CountryCode    string  `json:"country_code"`
	Description    string  `json:"description,omitempty"`
	ContactEmail   string  `json:"contact_email,omitempty"`
	ContactPhone   string  `json:"contact_phone,omitempty"`
	ContactWebsite string  `json:"contact_website,omitempty"`
	AvgRating      float64 `json:"avg_rating"`
	ReviewsCount   int     `json:"reviews_count"`
}

// Guide is a tour guide as returned by the backend.
type Guide struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Countries        []string `json:"countries"`
	Description      string   `json:"description,omitempty"`
	ContactEmail     string   `json:"contact_email,omitempty"`
	ContactPhone     string   `json:"contact_phone,omitempty"`
	ContactInstagram string   `json:"contact_instagram,omitempty"`
	ContactTelegram  string   `json:"contact_telegram,omitempty"`
	AvgRating        float64  `json:"avg_rating"`
	ReviewsCount     int      `json:"reviews_count"`
}

// Review is a review row from the test-only listing endpoint, which returns
// every review regardless of moderation status.
type Review struct {
	ID         int64  `json:"id"`
	AuthorName string `json:"author_name"`
	Status     string `json:"status"`
	Rating     int    `json:"rating"`
	CompanyID  *int64 `json:"company_id,omitempty"`
	GuideID    *int64 `json:"guide_id,omitempty"`
}

// Review moderation statuses the backend reports.
const (
	StatusPending            = "pending"
	StatusPendingRateLimited = "pending_rate_limited"
	StatusApproved           = "approved"
	StatusRejected           = "rejected"
)

// ModerationAction is the action passed to the moderation endpoint.
type ModerationAction string

const (
	Approve ModerationAction = "approve"
	Reject  ModerationAction = "reject"
)

// CompanyParams is the payload for company creation.
type CompanyParams struct {
	Name           string `json:"name"`
	CountryCode    string `json:"country_code"`
	Description    string `json:"description,omitempty"`
	ContactEmail   string `json:"contact_email,omitempty"`
	ContactPhone   string `json:"contact_phone,omitempty"`
	ContactWebsite string `json:"contact_website,omitempty"`
}

// GuideParams is the payload for guide creation.
type GuideParams struct {
	Name             string   `json:"name"`
	Countries        []string `json:"countries"`
	Description      string   `json:"description,omitempty"`
	ContactEmail     string   `json:"contact_email,omitempty"`
	ContactPhone     string   `json:"contact_phone,omitempty"`
	ContactInstagram string   `json:"contact_instagram,omitempty"`
	ContactTelegram  string   `json:"contact_telegram,omitempty"`
}

// Options configure a Client.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	AdminUsername string
	AdminPassword string
	// CreateRPS throttles entity-creation calls so the suite stays under
	// the backend's submission rate limit (which would otherwise park
	// reviews in pending_rate_limited). Zero means the default of 2/s.
	CreateRPS float64
}

// Client talks to the backend. It is safe for use by a single test's
// goroutines; the rate limiter is the only shared state.
type Client struct {
	baseURL       string
	http          *http.Client
	adminUsername string
	adminPassword string
	createLimiter *rate.Limiter
}

// New creates a Client from explicit options.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.CreateRPS <= 0 {
		opts.CreateRPS = 2
	}
	return &Client{
		baseURL: opts.BaseURL,
		http: &http.Client{
			Timeout: opts.Timeout,
			// The admin panel answers deletions with 303 See Other; the
			// redirect itself carries the success signal, never follow it.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		adminUsername: opts.AdminUsername,
		adminPassword: opts.AdminPassword,
		createLimiter: rate.NewLimiter(rate.Limit(opts.CreateRPS), 1),
	}
}

// NewFromConfig creates a Client from suite configuration.
func NewFromConfig(cfg *config.Config) *Client {
	return New(Options{
		BaseURL:       cfg.BackendURL,
		Timeout:       cfg.APITimeout,
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
	})
}

// CreateCompany creates a company through the same public endpoint the
// frontend uses, then fetches and returns the full record.
func (c *Client) CreateCompany(ctx context.Context, params CompanyParams) (*Company, error) {
	if err := c.createLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	status, body, err := c.do(ctx, http.MethodPost, "/companies", params, false)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict:
		return nil, errs.New(errs.FailedPrecondition, fmt.Sprintf("company %q already exists", params.Name))
	default:
		return nil, errs.FromHTTPStatus(status, fmt.Sprintf("create company: HTTP %d: %s", status, truncate(body)))
	}

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, errs.Wrap(errs.Internal, "create company: decode response", err)
	}
	obs.From(ctx).Info("created test company", "company_id", created.ID, "name", params.Name)
	return c.GetCompany(ctx, created.ID)
}

// CreateGuide creates a guide through the public endpoint. When forceCreate
// is false and the backend reports a duplicate that includes the existing
// record, that record is returned as-is (mirroring how the frontend treats
// the duplicate answer).
func (c *Client) CreateGuide(ctx context.Context, params GuideParams, forceCreate bool) (*Guide, error) {
	if err := c.createLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	path := "/guides"
	if forceCreate {
		path += "?force_create=true"
	}
	status, body, err := c.do(ctx, http.MethodPost, path, params, false)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict:
		var dup struct {
			ExistingGuide *Guide `json:"existing_guide"`
		}
		if err := json.Unmarshal(body, &dup); err == nil && dup.ExistingGuide != nil {
			obs.From(ctx).Info("guide already exists, using existing record", "guide_id", dup.ExistingGuide.ID)
			return dup.ExistingGuide, nil
		}
		return nil, errs.New(errs.FailedPrecondition, fmt.Sprintf("guide %q already exists", params.Name))
	default:
		return nil, errs.FromHTTPStatus(status, fmt.Sprintf("create guide: HTTP %d: %s", status, truncate(body)))
	}

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, errs.Wrap(errs.Internal, "create guide: decode response", err)
	}
	obs.From(ctx).Info("created test guide", "guide_id", created.ID, "name", params.Name)
	return c.GetGuide(ctx, created.ID)
}

// GetCompany fetches a company by id.
func (c *Client) GetCompany(ctx context.Context, id int64) (*Company, error) {
	var company Company
	if err := c.getJSON(ctx, fmt.Sprintf("/companies/%d", id), &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// GetGuide fetches a guide by id.
func (c *Client) GetGuide(ctx context.Context, id int64) (*Guide, error) {
	var guide Guide
	if err := c.getJSON(ctx, fmt.Sprintf("/guides/%d", id), &guide); err != nil {
		return nil, err
	}
	return &guide, nil
}

// GetMasterKey fetches an entity's edit key via the test-only endpoint.
// kindPath is "companies" or "guides".
func (c *Client) GetMasterKey(ctx context.Context, kindPath string, id int64) (string, error) {
	var payload struct {
		MasterKey string `json:"master_key"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/test/%s/%d/master_key", kindPath, id), &payload); err != nil {
		return "", err
	}
	if payload.MasterKey == "" {
		return "", errs.New(errs.Internal, fmt.Sprintf("empty master key for %s %d", kindPath, id))
	}
	return payload.MasterKey, nil
}

// ListAllReviews returns every review via the test-only endpoint,
// including pending and rate-limited ones invisible to the public site.
func (c *Client) ListAllReviews(ctx context.Context) ([]Review, error) {
	var payload struct {
		Reviews []Review `json:"reviews"`
	}
	if err := c.getJSON(ctx, "/api/v1/test/reviews/all", &payload); err != nil {
		return nil, err
	}
	return payload.Reviews, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	status, body, err := c.do(ctx, http.MethodGet, path, nil, false)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return errs.FromHTTPStatus(status, fmt.Sprintf("GET %s: HTTP %d", path, status))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errs.Wrap(errs.Internal, fmt.Sprintf("GET %s: decode response", path), err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, adminAuth bool) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, errs.Wrap(errs.Internal, "encode request payload", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, errs.Wrap(errs.Internal, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if adminAuth {
		req.SetBasicAuth(c.adminUsername, c.adminPassword)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, errs.Wrap(errs.Unavailable, fmt.Sprintf("%s %s", method, path), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errs.Wrap(errs.Internal, fmt.Sprintf("%s %s: read body", method, path), err)
	}
	return resp.StatusCode, body, nil
}

func truncate(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

// parseID converts a tracked opaque id back to the backend's integer ids.
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, errs.Wrap(errs.InvalidArgument, fmt.Sprintf("malformed tracked id %q", id), err)
	}
	return n, nil
}

var _ cleanup.Deleter = (*Client)(nil)
