// Company catalog scenarios: UI creation with full and minimal data, and
// form validation.
package browser

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hikersvoice/e2e/internal/cleanup"
	"github.com/hikersvoice/e2e/internal/testdata"
	"github.com/hikersvoice/e2e/tests/browser/pages"
)

func TestCreateCompany_FullData(t *testing.T) {
	env := SetupSuiteEnv(t)
	env.InitBrowser(t)
	scope := env.NewScope(t)

	params := testdata.NewCompanyParams()
	page := env.NewPage(t)
	companyPage := pages.NewCompanyPage(page, env.Config.FrontendURL)

	require.NoError(t, companyPage.OpenNewCompanyForm())
	require.NoError(t, companyPage.FillForm(params))
	require.NoError(t, companyPage.Submit())

	id, err := companyPage.SuccessCompanyID()
	require.NoError(t, err, "created company id in success box")
	scope.Track(cleanup.KindCompany, strconv.FormatInt(id, 10))

	created, err := env.API.GetCompany(TestContext(t), id)
	require.NoError(t, err)
	require.Equal(t, params.Name, created.Name)
	require.Equal(t, params.CountryCode, created.CountryCode)
	require.Equal(t, params.ContactEmail, created.ContactEmail)
	require.Equal(t, 0, created.ReviewsCount, "fresh company starts without reviews")

	require.NoError(t, companyPage.OpenCompany(id))
	name, err := companyPage.Name()
	require.NoError(t, err)
	require.Equal(t, params.Name, name)

	desc, err := companyPage.Description()
	require.NoError(t, err)
	require.Contains(t, desc, params.Description)
	require.Equal(t, params.ContactEmail, companyPage.ContactEmail())
	require.True(t, companyPage.WebsiteLinkVisible(), "website link should render")
}

func TestCreateCompany_MinimalData(t *testing.T) {
	env := SetupSuiteEnv(t)
	env.InitBrowser(t)
	scope := env.NewScope(t)

	params := testdata.MinimalCompanyParams()
	page := env.NewPage(t)
	companyPage := pages.NewCompanyPage(page, env.Config.FrontendURL)

	require.NoError(t, companyPage.OpenNewCompanyForm())
	require.NoError(t, companyPage.FillForm(params))
	require.NoError(t, companyPage.Submit())

	id, err := companyPage.SuccessCompanyID()
	require.NoError(t, err)
	scope.Track(cleanup.KindCompany, strconv.FormatInt(id, 10))

	created, err := env.API.GetCompany(TestContext(t), id)
	require.NoError(t, err)
	require.Equal(t, params.Name, created.Name)
	require.Empty(t, created.ContactEmail, "minimal company has no contacts")

	require.NoError(t, companyPage.OpenCompany(id))
	require.Equal(t, "", companyPage.ContactEmail())
	require.Equal(t, "", companyPage.ContactPhone())
}

func TestCreateCompany_ValidationErrors(t *testing.T) {
	env := SetupSuiteEnv(t)
	env.InitBrowser(t)

	page := env.NewPage(t)
	companyPage := pages.NewCompanyPage(page, env.Config.FrontendURL)

	require.NoError(t, companyPage.OpenNewCompanyForm())
	// Submit with the name empty; the form must refuse.
	require.NoError(t, companyPage.Submit())

	require.True(t, companyPage.FormErrorVisible(), "empty form should surface a validation error")

	_, err := companyPage.SuccessCompanyID()
	require.Error(t, err, "empty form must not create a company")
}

func TestCreateCompany_DuplicateWarning(t *testing.T) {
	env := SetupSuiteEnv(t)
	env.InitBrowser(t)
	scope := env.NewScope(t)

	existing := createCompany(t, env, scope, testdata.NewCompanyParams())

	page := env.NewPage(t)
	companyPage := pages.NewCompanyPage(page, env.Config.FrontendURL)
	require.NoError(t, companyPage.OpenNewCompanyForm())
	require.NoError(t, companyPage.FillForm(testdata.CompanyParamsNamed(existing.Name)))
	require.NoError(t, companyPage.Submit())

	require.True(t, companyPage.DuplicateWarningVisible(), "duplicate warning for existing name")

	require.NoError(t, companyPage.ClickViewExistingCompany())
	name, err := companyPage.Name()
	require.NoError(t, err)
	require.Equal(t, existing.Name, name, "link leads to the existing company")
}
