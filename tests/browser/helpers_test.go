package browser

import (
	"strconv"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"

	"github.com/hikersvoice/e2e/internal/cleanup"
	"github.com/hikersvoice/e2e/internal/hikerapi"
	"github.com/hikersvoice/e2e/tests/browser/pages"
)

// createCompany provisions a company through the backend API and tracks it
// for teardown.
func createCompany(t *testing.T, env *SuiteEnv, scope *cleanup.Scope, params hikerapi.CompanyParams) *hikerapi.Company {
	t.Helper()

	company, err := env.API.CreateCompany(TestContext(t), params)
	require.NoError(t, err, "create company via API")
	scope.Track(cleanup.KindCompany, strconv.FormatInt(company.ID, 10))
	return company
}

// createGuide provisions a guide through the backend API and tracks it.
// force skips the backend's duplicate check.
func createGuide(t *testing.T, env *SuiteEnv, scope *cleanup.Scope, params hikerapi.GuideParams, force bool) *hikerapi.Guide {
	t.Helper()

	guide, err := env.API.CreateGuide(TestContext(t), params, force)
	require.NoError(t, err, "create guide via API")
	scope.Track(cleanup.KindGuide, strconv.FormatInt(guide.ID, 10))
	return guide
}

// startReviewForm opens the home page, goes through the review type modal
// and waits for the chosen form.
func startReviewForm(t *testing.T, env *SuiteEnv, page playwright.Page, kind pages.ReviewType) *pages.ReviewFormPage {
	t.Helper()

	home := pages.NewHomePage(page, env.Config.FrontendURL)
	require.NoError(t, home.OpenHome(), "open home page")
	require.NoError(t, home.ClickLeaveReview(), "open review type modal")

	form := pages.NewReviewFormPage(page, env.Config.FrontendURL)
	require.NoError(t, form.SelectReviewType(kind), "select review type")
	require.NoError(t, form.WaitForForm(kind), "wait for review form")
	return form
}

// approveReview finds the pending review by author, approves it and tracks
// the review for teardown. Returns the review id.
func approveReview(t *testing.T, env *SuiteEnv, scope *cleanup.Scope, author string) int64 {
	t.Helper()

	id, err := env.API.FindAndModerateReview(TestContext(t), author, hikerapi.Approve)
	require.NoError(t, err, "approve review by %q", author)
	scope.Track(cleanup.KindReview, strconv.FormatInt(id, 10))
	return id
}

// searchPrefix returns a prefix of a generated entity name long enough to
// be unique in autocomplete but short enough to exercise typing.
func searchPrefix(name string) string {
	if len(name) > 15 {
		return name[:15]
	}
	return name
}
