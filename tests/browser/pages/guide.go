package pages

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/hikersvoice/e2e/internal/errs"
	"github.com/hikersvoice/e2e/internal/hikerapi"
)

// Guide creation form. Field ids match the company form.
const (
	guideFormName        = "input#name"
	guideFormDesc        = "textarea#description"
	guideFormCountries   = "select"
	guideFormEmail       = "input#contact_email"
	guideFormPhone       = "input#contact_phone"
	guideFormInstagram   = "input#contact_instagram"
	guideFormTelegram    = "input#contact_telegram"
	createGuideButton    = "button:has-text('Создать профиль')"
	guideCreatedBox      = ".bg-green-100"
	guideDuplicateBox    = ".bg-yellow-50"
	guideDuplicateText   = "text=Возможно, этот гид уже существует"
	guideDuplicateCard   = ".bg-gray-50"
	goToExistingProfile  = "text=Да, перейти к профилю"
	createNewGuideAnyway = "text=Нет, создать нового"
)

// Guide details page.
const (
	guideTitle       = "h1"
	guideRatingText  = ".text-lg.font-semibold"
	leaveGuideReview = "a:has-text('Оставить отзыв')"
)

// Photo gallery on entity pages.
const (
	gallerySection  = ".card:has-text('Фотографии из отзывов')"
	galleryThumb    = "button.relative.aspect-square"
	lightboxDialog  = "div[role='dialog']"
	lightboxCounter = ".absolute.top-4.left-4.text-white"
	lightboxClose   = "button[aria-label='Закрыть']"
	lightboxNext    = "button[aria-label='Следующее фото']"
	lightboxPrev    = "button[aria-label='Предыдущее фото']"
)

// GuidePage drives guide profile pages, the guide creation form with its
// duplicate detection flow, and the profile photo gallery.
type GuidePage struct {
	Base
	edit EntityEdit
}

func NewGuidePage(page playwright.Page, baseURL string) *GuidePage {
	base := Base{Page: page, BaseURL: baseURL}
	return &GuidePage{Base: base, edit: EntityEdit{Base: base}}
}

// Edit exposes the secret-key edit flow on the profile page.
func (p *GuidePage) Edit() *EntityEdit { return &p.edit }

// OpenGuide opens a guide profile page.
func (p *GuidePage) OpenGuide(id int64) error {
	return p.Open(fmt.Sprintf("/guides/%d", id))
}

// OpenNewGuideForm opens the guide creation form directly.
func (p *GuidePage) OpenNewGuideForm() error {
	if err := p.Open("/guides/new"); err != nil {
		return err
	}
	return p.WaitVisible(guideFormName)
}

// FillForm fills the guide creation form. Countries is a multi-select, so
// every code is selected in turn.
func (p *GuidePage) FillForm(params hikerapi.GuideParams) error {
	if err := p.FillChecked(guideFormName, params.Name); err != nil {
		return err
	}
	for _, code := range params.Countries {
		if err := p.SelectOption(guideFormCountries, code); err != nil {
			return err
		}
	}
	for selector, value := range map[string]string{
		guideFormDesc:      params.Description,
		guideFormEmail:     params.ContactEmail,
		guideFormPhone:     params.ContactPhone,
		guideFormInstagram: params.ContactInstagram,
		guideFormTelegram:  params.ContactTelegram,
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

// Submit submits the guide creation form.
func (p *GuidePage) Submit() error {
	if err := p.Click(createGuideButton); err != nil {
		return err
	}
	return p.Settle()
}

// CreatedBoxVisible reports whether the creation succeeded outright.
func (p *GuidePage) CreatedBoxVisible() bool {
	return p.Visible(guideCreatedBox)
}

// SuccessGuideID reads the created guide id from the success box, which
// renders a line of the form "ID гида: 123".
func (p *GuidePage) SuccessGuideID() (int64, error) {
	if err := p.WaitVisible(guideCreatedBox); err != nil {
		return 0, err
	}
	text, err := p.Text("p.text-sm:has-text('ID гида:')")
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, errs.New(errs.Internal, "empty guide id line in success box")
	}
	id, err := strconv.ParseInt(fields[len(fields)-1], 10, 64)
	if err != nil {
		return 0, errs.Wrap(errs.Internal, fmt.Sprintf("success box shows %q, no trailing id", text), err)
	}
	return id, nil
}

// DuplicateWarningVisible reports whether the possible-duplicate prompt is
// shown after submitting a name the site already knows in those countries.
func (p *GuidePage) DuplicateWarningVisible() bool {
	return p.Visible(guideDuplicateBox) && p.Visible(guideDuplicateText)
}

// DuplicateCandidateName reads the name shown on the duplicate candidate
// card inside the warning.
func (p *GuidePage) DuplicateCandidateName() (string, error) {
	return p.Text(guideDuplicateCard + " h3")
}

// GoToExistingProfile follows the duplicate prompt to the existing guide.
func (p *GuidePage) GoToExistingProfile() error {
	if err := p.Click(goToExistingProfile); err != nil {
		return err
	}
	return p.Settle()
}

// CreateNewAnyway dismisses the duplicate prompt and creates a new profile.
func (p *GuidePage) CreateNewAnyway() error {
	if err := p.Click(createNewGuideAnyway); err != nil {
		return err
	}
	return p.Settle()
}

// Name returns the guide name from the profile header.
func (p *GuidePage) Name() (string, error) {
	return p.Text(guideTitle)
}

// RatingText returns the displayed "X/5" rating string.
func (p *GuidePage) RatingText() (string, error) {
	return p.Text(guideRatingText)
}

// ReviewCardByAuthor returns the review card attributed to author on the
// profile page.
func (p *GuidePage) ReviewCardByAuthor(author string) playwright.Locator {
	if author == "" {
		author = "Аноним"
	}
	return p.Page.Locator("article.card").Filter(playwright.LocatorFilterOptions{
		HasText: "Автор: " + author,
	}).First()
}

// GalleryVisible reports whether the review photo gallery section exists.
func (p *GuidePage) GalleryVisible() bool {
	return p.Visible(gallerySection)
}

// GalleryPhotoCount returns the number of gallery thumbnails.
func (p *GuidePage) GalleryPhotoCount() (int, error) {
	count, err := p.Page.Locator(gallerySection).Locator(galleryThumb).Count()
	if err != nil {
		return 0, errs.Wrap(errs.Unavailable, "count gallery thumbnails", err)
	}
	return count, nil
}

// OpenLightbox clicks the gallery thumbnail at index and waits for the
// lightbox dialog.
func (p *GuidePage) OpenLightbox(index int) error {
	thumbs := p.Page.Locator(gallerySection).Locator(galleryThumb)
	if err := thumbs.Nth(index).Click(); err != nil {
		return errs.Wrap(errs.Unavailable, fmt.Sprintf("click gallery thumbnail %d", index), err)
	}
	return p.WaitVisible(lightboxDialog)
}

// LightboxVisible reports whether the lightbox dialog is open.
func (p *GuidePage) LightboxVisible() bool {
	return p.Visible(lightboxDialog)
}

// LightboxCounter returns the "N / M" position indicator text.
func (p *GuidePage) LightboxCounter() (string, error) {
	return p.Text(lightboxCounter)
}

// LightboxNext advances to the next photo.
func (p *GuidePage) LightboxNext() error {
	return p.Click(lightboxNext)
}

// LightboxPrev goes back to the previous photo.
func (p *GuidePage) LightboxPrev() error {
	return p.Click(lightboxPrev)
}

// CloseLightbox closes the dialog and waits for it to disappear.
func (p *GuidePage) CloseLightbox() error {
	if err := p.Click(lightboxClose); err != nil {
		return err
	}
	if err := p.Page.Locator(lightboxDialog).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: playwright.Float(elementTimeoutMS),
	}); err != nil {
		return errs.Wrap(errs.Unavailable, "wait for lightbox to close", err)
	}
	return nil
}
