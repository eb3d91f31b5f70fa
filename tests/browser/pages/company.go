package pages

import (
	"fmt"
	"strconv"

	"github.com/playwright-community/playwright-go"

	"github.com/hikersvoice/e2e/internal/errs"
	"github.com/hikersvoice/e2e/internal/hikerapi"
)

// Company creation form.
const (
	addCompanyButton    = "text=Добавить компанию"
	companyFormName     = "input#name"
	companyFormCountry  = "select#country_code"
	companyFormDesc     = "textarea#description"
	companyFormEmail    = "input#contact_email"
	companyFormPhone    = "input#contact_phone"
	companyFormWebsite  = "input#contact_website"
	createCompanyButton = "button:has-text('Создать компанию')"
	companySuccessBox   = ".bg-green-100"
	companySuccessID    = "p.text-sm strong"
	companyFormErrorBox = ".bg-red-50"

	companyDuplicateWarning = ".bg-yellow-100"
	viewExistingCompany     = "text=Перейти к существующей компании"
)

// Company details page.
const (
	companyTitle       = "h1"
	companyDescription = "p.text-gray-600.text-lg"
	contactEmailLink   = "a[href^='mailto:']"
	contactPhoneLink   = "a[href^='tel:']"
	contactWebsiteLink = "a:has-text('Сайт компании')"
)

// CompanyPage drives the company catalog, creation form and details page.
type CompanyPage struct {
	Base
	edit EntityEdit
}

func NewCompanyPage(page playwright.Page, baseURL string) *CompanyPage {
	base := Base{Page: page, BaseURL: baseURL}
	return &CompanyPage{Base: base, edit: EntityEdit{Base: base}}
}

// Edit exposes the secret-key edit flow on the details page.
func (p *CompanyPage) Edit() *EntityEdit { return &p.edit }

// OpenCatalog opens the company listing.
func (p *CompanyPage) OpenCatalog() error {
	return p.Open("/companies")
}

// OpenCompany opens a company details page.
func (p *CompanyPage) OpenCompany(id int64) error {
	return p.Open(fmt.Sprintf("/companies/%d", id))
}

// OpenNewCompanyForm opens the catalog and clicks through to the form.
func (p *CompanyPage) OpenNewCompanyForm() error {
	if err := p.OpenCatalog(); err != nil {
		return err
	}
	if err := p.Click(addCompanyButton); err != nil {
		return err
	}
	if err := p.Settle(); err != nil {
		return err
	}
	return p.WaitVisible(companyFormName)
}

// FillForm fills the company creation form. Empty optional fields are
// skipped.
func (p *CompanyPage) FillForm(params hikerapi.CompanyParams) error {
	if err := p.FillChecked(companyFormName, params.Name); err != nil {
		return err
	}
	if err := p.SelectOption(companyFormCountry, params.CountryCode); err != nil {
		return err
	}
	for selector, value := range map[string]string{
		companyFormDesc:    params.Description,
		companyFormEmail:   params.ContactEmail,
		companyFormPhone:   params.ContactPhone,
		companyFormWebsite: params.ContactWebsite,
	} {
		if value == "" {
			continue
		}
		if err := p.FillChecked(selector, value); err != nil {
			return err
		}
	}
	return nil
}

// Submit submits the creation form and waits for the response to render.
func (p *CompanyPage) Submit() error {
	if err := p.Click(createCompanyButton); err != nil {
		return err
	}
	return p.Settle()
}

// SuccessCompanyID reads the created company id from the success box.
func (p *CompanyPage) SuccessCompanyID() (int64, error) {
	if err := p.WaitVisible(companySuccessBox); err != nil {
		return 0, err
	}
	text, err := p.Text(companySuccessID)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, errs.Wrap(errs.Internal, fmt.Sprintf("success box shows %q, not an id", text), err)
	}
	return id, nil
}

// FormErrorVisible reports whether the form-level error box is shown.
func (p *CompanyPage) FormErrorVisible() bool {
	return p.Visible(companyFormErrorBox)
}

// DuplicateWarningVisible reports whether the duplicate-company warning is
// shown after submitting an existing name.
func (p *CompanyPage) DuplicateWarningVisible() bool {
	return p.Visible(companyDuplicateWarning)
}

// ClickViewExistingCompany follows the duplicate warning's link to the
// already existing company.
func (p *CompanyPage) ClickViewExistingCompany() error {
	if err := p.Click(viewExistingCompany); err != nil {
		return err
	}
	return p.Settle()
}

// ReviewCardByAuthor returns the review card attributed to author on the
// details page.
func (p *CompanyPage) ReviewCardByAuthor(author string) playwright.Locator {
	if author == "" {
		author = "Аноним"
	}
	return p.Page.Locator("article.card").Filter(playwright.LocatorFilterOptions{
		HasText: "Автор: " + author,
	}).First()
}

// ReviewCardVisible reports whether the author's review card is rendered.
func (p *CompanyPage) ReviewCardVisible(author string) (bool, error) {
	visible, err := p.ReviewCardByAuthor(author).IsVisible()
	if err != nil {
		return false, errs.Wrap(errs.Unavailable, "check review card visibility", err)
	}
	return visible, nil
}

// Name returns the company name from the details page header.
func (p *CompanyPage) Name() (string, error) {
	return p.Text(companyTitle)
}

// Description returns the company description from the details page.
func (p *CompanyPage) Description() (string, error) {
	return p.Text(companyDescription)
}

// ContactEmail returns the mailto contact, or "" when absent.
func (p *CompanyPage) ContactEmail() string {
	return p.optionalLinkText(contactEmailLink)
}

// ContactPhone returns the tel contact, or "" when absent.
func (p *CompanyPage) ContactPhone() string {
	return p.optionalLinkText(contactPhoneLink)
}

// WebsiteLinkVisible reports whether the company website link is rendered.
func (p *CompanyPage) WebsiteLinkVisible() bool {
	return p.Visible(contactWebsiteLink)
}

func (p *CompanyPage) optionalLinkText(selector string) string {
	if !p.Visible(selector) {
		return ""
	}
	text, err := p.Text(selector)
	if err != nil {
		return ""
	}
	return text
}
