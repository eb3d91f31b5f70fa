package pages

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/hikersvoice/e2e/internal/errs"
	"github.com/hikersvoice/e2e/internal/testdata"
)

// Review type selection modal.
const (
	reviewTypeModalTitle = "text=Выберите тип отзыва"
	companyReviewButton  = "button:has-text('Отзыв о компании')"
	guideReviewButton    = "button:has-text('Отзыв о гиде')"
)

// Form fields shared by both review types.
const (
	authorNameInput    = "input[name='author_name']"
	authorContactInput = "input[name='author_contact']"
	reviewTextArea     = "textarea[name='text']"
	rulesCheckbox      = "input[name='rules_accepted']"
	tripDateFromInput  = "input[name='trip_date_from']"
	tripDateToInput    = "input[name='trip_date_to']"
	countrySelect      = "select[name='country_code']"
	submitReviewButton = "button[type='submit']:has-text('Отправить отзыв')"
	fieldError         = ".field-error, .invalid-feedback"
	formError          = ".field-error, .error-message, [role='alert']"
)

// Autocomplete widgets. The company picker uses a classic dropdown; the
// guide picker is a custom component with its own result list.
const (
	companyNameInput       = "input[placeholder*='Начните вводить название компании']"
	companyDropdown        = ".dropdown"
	companyDropdownItem    = ".dropdown-item"
	guideNameInput         = "input[placeholder*='Начните вводить имя гида']"
	guideSelectorInput     = "input[placeholder*='Поиск гида по имени']"
	guideDropdown          = "div.absolute.z-10.w-full.mt-1[class*='bg-']"
	guideDropdownItem      = "button.w-full.text-left"
	guideDropdownItemName  = ".font-medium"
	guideDropdownItemLine2 = ".text-xs.text-gray-600, .text-xs.text-gray-400"
)

// Photo upload component.
const (
	photoUploadInput  = "input[type='file'][accept*='image']"
	photoPreview      = ".relative.group.aspect-square"
	photoPreviewImage = ".relative.group.aspect-square img"
	removePhotoButton = "button[aria-label='Удалить фото']"
	photoUploadError  = ".text-red-800"
)

// ReviewFormPage drives the review submission form for both review types.
type ReviewFormPage struct {
	Base
}

func NewReviewFormPage(page playwright.Page, baseURL string) *ReviewFormPage {
	return &ReviewFormPage{Base{Page: page, BaseURL: baseURL}}
}

// ReviewType selects which form the type modal opens.
type ReviewType string

const (
	CompanyReview ReviewType = "company"
	GuideReview   ReviewType = "guide"
)

// SelectReviewType waits for the type modal and picks a review type.
func (p *ReviewFormPage) SelectReviewType(kind ReviewType) error {
	// Modal entrance animation.
	p.Page.WaitForTimeout(800)
	if err := p.WaitVisible(reviewTypeModalTitle); err != nil {
		return err
	}
	var button string
	switch kind {
	case CompanyReview:
		button = companyReviewButton
	case GuideReview:
		button = guideReviewButton
	default:
		return errs.New(errs.InvalidArgument, fmt.Sprintf("unknown review type %q", kind))
	}
	if err := p.Click(button); err != nil {
		return err
	}
	return p.Settle()
}

// WaitForForm waits for the review form to render. Both forms carry the
// country select; the entity picker distinguishes them.
func (p *ReviewFormPage) WaitForForm(kind ReviewType) error {
	if err := p.WaitVisible(countrySelect); err != nil {
		return err
	}
	if kind == CompanyReview {
		return p.WaitVisible(companyNameInput)
	}
	return p.WaitVisible(guideNameInput)
}

// FillCommonFields fills the fields shared by company and guide reviews.
// An empty author name is left untouched so the review submits anonymously.
func (p *ReviewFormPage) FillCommonFields(r testdata.Review) error {
	if r.AuthorName != "" {
		if err := p.FillChecked(authorNameInput, r.AuthorName); err != nil {
			return err
		}
	}
	if r.Email != "" {
		if err := p.FillChecked(authorContactInput, r.Email); err != nil {
			return err
		}
	}
	if err := p.FillChecked(reviewTextArea, r.Text); err != nil {
		return err
	}
	if r.Rating > 0 {
		if err := p.SetRating(r.Rating); err != nil {
			return err
		}
	}
	return nil
}

// SetRating clicks the star button for the exact rating.
func (p *ReviewFormPage) SetRating(rating int) error {
	if rating < 1 || rating > 5 {
		return errs.New(errs.InvalidArgument, fmt.Sprintf("rating %d outside 1..5", rating))
	}
	return p.Click(fmt.Sprintf("button[aria-label='Оценка %d из 5 звезд']", rating))
}

// SelectCountry picks the trip country.
func (p *ReviewFormPage) SelectCountry(code string) error {
	return p.SelectOption(countrySelect, code)
}

// FillTripDates fills the trip date range, YYYY-MM-DD.
func (p *ReviewFormPage) FillTripDates(from, to string) error {
	if err := p.FillChecked(tripDateFromInput, from); err != nil {
		return err
	}
	return p.FillChecked(tripDateToInput, to)
}

// AcceptRules checks the rules checkbox if not already checked.
func (p *ReviewFormPage) AcceptRules() error {
	loc := p.Page.Locator(rulesCheckbox).First()
	checked, err := loc.IsChecked()
	if err != nil {
		return errs.Wrap(errs.Unavailable, "read rules checkbox", err)
	}
	if !checked {
		if err := loc.Check(); err != nil {
			return errs.Wrap(errs.Unavailable, "check rules checkbox", err)
		}
	}
	return nil
}

// SelectCompanyFromAutocomplete types a search prefix into the company
// picker and clicks the dropdown entry matching wantName (or the first
// entry containing the typed text when wantName is empty).
func (p *ReviewFormPage) SelectCompanyFromAutocomplete(search, wantName string) error {
	return p.selectFromDropdown(companyNameInput, companyDropdown, companyDropdownItem, search, wantName)
}

// SelectGuideFromAutocomplete does the same for the guide picker.
func (p *ReviewFormPage) SelectGuideFromAutocomplete(search, wantName string) error {
	return p.selectFromDropdown(guideNameInput, guideDropdown, guideDropdownItem, search, wantName)
}

func (p *ReviewFormPage) selectFromDropdown(input, dropdown, item, search, wantName string) error {
	loc := p.Page.Locator(input).First()
	if err := loc.Clear(); err != nil {
		return errs.Wrap(errs.Unavailable, "clear autocomplete input", err)
	}
	if err := loc.PressSequentially(search, playwright.LocatorPressSequentiallyOptions{
		Delay: playwright.Float(100),
	}); err != nil {
		return errs.Wrap(errs.Unavailable, "type into autocomplete input", err)
	}
	if err := p.WaitVisible(dropdown); err != nil {
		return err
	}
	// Debounced search plus request round trip.
	p.Page.WaitForTimeout(500)

	items := p.Page.Locator(item)
	count, err := items.Count()
	if err != nil {
		return errs.Wrap(errs.Unavailable, "count autocomplete results", err)
	}
	want := wantName
	if want == "" {
		want = search
	}
	for i := 0; i < count; i++ {
		text, err := items.Nth(i).TextContent()
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(text), strings.ToLower(want)) {
			if err := items.Nth(i).Click(); err != nil {
				return errs.Wrap(errs.Unavailable, "click autocomplete result", err)
			}
			// Let the form pick up the selected entity id.
			p.Page.WaitForTimeout(1000)
			value, err := loc.InputValue()
			if err != nil {
				return errs.Wrap(errs.Unavailable, "read autocomplete input", err)
			}
			if value == "" {
				return errs.New(errs.FailedPrecondition, "autocomplete input empty after selection")
			}
			return nil
		}
	}
	return errs.New(errs.NotFound, fmt.Sprintf("no autocomplete result matching %q", want))
}

// TypeGuideSearch types into a guide picker and waits for the result list,
// without selecting anything. Used to inspect dropdown contents. The
// company review form embeds its own guide picker with a different input.
func (p *ReviewFormPage) TypeGuideSearch(search string, inCompanyForm bool) error {
	input := guideNameInput
	if inCompanyForm {
		input = guideSelectorInput
	}
	loc := p.Page.Locator(input).First()
	if err := loc.Clear(); err != nil {
		return errs.Wrap(errs.Unavailable, "clear guide search input", err)
	}
	// Focus first so the component shows its dropdown.
	if err := loc.Click(); err != nil {
		return errs.Wrap(errs.Unavailable, "focus guide search input", err)
	}
	p.Page.WaitForTimeout(300)
	if err := loc.PressSequentially(search, playwright.LocatorPressSequentiallyOptions{
		Delay: playwright.Float(100),
	}); err != nil {
		return errs.Wrap(errs.Unavailable, "type guide search", err)
	}
	// Component debounce plus API round trip.
	p.Page.WaitForTimeout(500)
	if err := p.WaitVisible(guideDropdown); err != nil {
		return err
	}
	p.Page.WaitForTimeout(1000)
	return nil
}

// DropdownGuide is one entry of the guide autocomplete result list.
type DropdownGuide struct {
	Name string
	// Info is the second line with countries, rating and contact details.
	Info string
}

// GuideDropdownItems reads all entries of the open guide result list.
func (p *ReviewFormPage) GuideDropdownItems() ([]DropdownGuide, error) {
	items := p.Page.Locator(guideDropdownItem)
	count, err := items.Count()
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "count guide dropdown items", err)
	}
	out := make([]DropdownGuide, 0, count)
	for i := 0; i < count; i++ {
		item := items.Nth(i)
		name, err := item.Locator(guideDropdownItemName).First().TextContent()
		if err != nil {
			return nil, errs.Wrap(errs.Unavailable, "read guide dropdown name", err)
		}
		info := ""
		line2 := item.Locator(guideDropdownItemLine2).First()
		if n, err := line2.Count(); err == nil && n > 0 {
			if text, err := line2.TextContent(); err == nil {
				info = strings.TrimSpace(text)
			}
		}
		out = append(out, DropdownGuide{Name: strings.TrimSpace(name), Info: info})
	}
	return out, nil
}

// UploadPhotos attaches files to the photo input and waits for previews.
func (p *ReviewFormPage) UploadPhotos(paths []string) error {
	if err := p.Page.Locator(photoUploadInput).First().SetInputFiles(paths); err != nil {
		return errs.Wrap(errs.Unavailable, "set photo input files", err)
	}
	if err := p.WaitVisible(photoPreview); err != nil {
		return err
	}
	// Previews render asynchronously from object URLs.
	p.Page.WaitForTimeout(1000)
	got, err := p.UploadedPhotoCount()
	if err != nil {
		return err
	}
	if got != len(paths) {
		return errs.New(errs.FailedPrecondition,
			fmt.Sprintf("uploaded %d photos but %d previews shown", len(paths), got))
	}
	return nil
}

// UploadedPhotoCount returns the number of photo previews shown.
func (p *ReviewFormPage) UploadedPhotoCount() (int, error) {
	count, err := p.Page.Locator(photoPreview).Count()
	if err != nil {
		return 0, errs.Wrap(errs.Unavailable, "count photo previews", err)
	}
	return count, nil
}

// PhotoPreviewsRendered reports whether every preview image carries a src.
func (p *ReviewFormPage) PhotoPreviewsRendered() (bool, error) {
	previews := p.Page.Locator(photoPreviewImage)
	count, err := previews.Count()
	if err != nil {
		return false, errs.Wrap(errs.Unavailable, "count preview images", err)
	}
	if count == 0 {
		return false, nil
	}
	for i := 0; i < count; i++ {
		src, err := previews.Nth(i).GetAttribute("src")
		if err != nil || src == "" {
			return false, nil
		}
	}
	return true, nil
}

// RemovePhoto removes the photo preview at index (hover reveals the button).
func (p *ReviewFormPage) RemovePhoto(index int) error {
	previews := p.Page.Locator(photoPreview)
	count, err := previews.Count()
	if err != nil {
		return errs.Wrap(errs.Unavailable, "count photo previews", err)
	}
	if index >= count {
		return errs.New(errs.InvalidArgument, fmt.Sprintf("photo index %d out of range 0..%d", index, count-1))
	}
	preview := previews.Nth(index)
	if err := preview.Hover(); err != nil {
		return errs.Wrap(errs.Unavailable, "hover photo preview", err)
	}
	p.Page.WaitForTimeout(300)
	if err := preview.Locator(removePhotoButton).Click(); err != nil {
		return errs.Wrap(errs.Unavailable, "click remove photo", err)
	}
	p.Page.WaitForTimeout(300)
	return nil
}

// UploadErrorVisible reports whether the photo upload component shows an
// error, as for oversized or non-image files.
func (p *ReviewFormPage) UploadErrorVisible() bool {
	return p.Visible(photoUploadError)
}

// Submit clicks the submit button.
func (p *ReviewFormPage) Submit() error {
	return p.Click(submitReviewButton)
}

// WaitForSuccessRedirect waits for the post-submit redirect to the home
// page with the success query parameter.
func (p *ReviewFormPage) WaitForSuccessRedirect() error {
	err := p.Page.WaitForURL("**/?success=review_created", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(elementTimeoutMS),
	})
	if err != nil {
		return errs.Wrap(errs.FailedPrecondition, "review submission did not redirect", err)
	}
	return nil
}

// ValidationErrors collects all visible validation messages on the form.
func (p *ReviewFormPage) ValidationErrors() ([]string, error) {
	var out []string
	seen := map[string]bool{}

	fields := p.Page.Locator(fieldError)
	count, err := fields.Count()
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "count field errors", err)
	}
	for i := 0; i < count; i++ {
		text, err := fields.Nth(i).TextContent()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" && !seen[text] {
			seen[text] = true
			out = append(out, text)
		}
	}
	if p.Visible(formError) {
		if text, err := p.Text(formError); err == nil && text != "" && !seen[text] {
			out = append(out, text)
		}
	}
	return out, nil
}
