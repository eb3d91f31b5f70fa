package pages

import (
	"strings"

	"github.com/hikersvoice/e2e/internal/errs"
)

// Secret-key edit flow, shared by company and guide pages. The edit button
// opens a modal asking for the entity's master key; a valid key unlocks an
// edit form pre-filled with current data.
const (
	editButton       = "button:has-text('Редактировать')"
	editModal        = "div[role='dialog']"
	editInfoMessage  = ".bg-blue-50"
	masterKeyInput   = "input[name='master_key']"
	editProceed      = "button:has-text('Продолжить')"
	editKeyError     = "text=Неверный ключ"
	saveEditButton   = "button:has-text('Сохранить')"
	successToast     = ".bg-green-100"
	closeToastButton = "button[aria-label='Закрыть']"
)

// EntityEdit drives the edit-by-secret-key flow.
type EntityEdit struct {
	Base
}

// EditForm holds the values to write into the unlocked edit form. Empty
// fields are left as-is.
type EditForm struct {
	Name        string
	Description string
	Email       string
	Phone       string
	Website     string
	Instagram   string
	Telegram    string
}

// OpenModal clicks the edit button and waits for the key modal.
func (e *EntityEdit) OpenModal() error {
	if err := e.Click(editButton); err != nil {
		return err
	}
	return e.WaitVisible(editModal)
}

// ModalOpen reports whether the key modal is showing.
func (e *EntityEdit) ModalOpen() bool {
	return e.Visible(editModal)
}

// InfoText returns the modal's explanatory message.
func (e *EntityEdit) InfoText() (string, error) {
	return e.Text(editInfoMessage)
}

// FillMasterKey types the master key into the modal.
func (e *EntityEdit) FillMasterKey(key string) error {
	return e.FillChecked(masterKeyInput, key)
}

// ProceedEnabled reports whether the continue button is clickable.
func (e *EntityEdit) ProceedEnabled() (bool, error) {
	enabled, err := e.Page.Locator(editProceed).First().IsEnabled()
	if err != nil {
		return false, errs.Wrap(errs.Unavailable, "read proceed button state", err)
	}
	return enabled, nil
}

// Proceed submits the key and waits for either the edit form or an error.
func (e *EntityEdit) Proceed() error {
	if err := e.Click(editProceed); err != nil {
		return err
	}
	return e.Settle()
}

// KeyRejected reports whether the invalid-key message is showing.
func (e *EntityEdit) KeyRejected() bool {
	return e.Visible(editKeyError)
}

// FormValue reads the current value of an edit form field by its input id.
func (e *EntityEdit) FormValue(inputID string) (string, error) {
	value, err := e.Page.Locator("#" + inputID).First().InputValue()
	if err != nil {
		return "", errs.Wrap(errs.Unavailable, "read edit form field "+inputID, err)
	}
	return value, nil
}

// FillForm writes the non-empty fields of form into the edit form. The
// inputs reuse the creation form ids.
func (e *EntityEdit) FillForm(form EditForm) error {
	for selector, value := range map[string]string{
		"input#name":              form.Name,
		"textarea#description":    form.Description,
		"input#contact_email":     form.Email,
		"input#contact_phone":     form.Phone,
		"input#contact_website":   form.Website,
		"input#contact_instagram": form.Instagram,
		"input#contact_telegram":  form.Telegram,
	} {
		if value == "" {
			continue
		}
		if err := e.FillChecked(selector, value); err != nil {
			return err
		}
	}
	return nil
}

// Save submits the edit form.
func (e *EntityEdit) Save() error {
	if err := e.Click(saveEditButton); err != nil {
		return err
	}
	return e.Settle()
}

// WaitSuccessToast waits for the green confirmation toast.
func (e *EntityEdit) WaitSuccessToast() error {
	return e.WaitVisible(successToast)
}

// ToastText returns the toast body text.
func (e *EntityEdit) ToastText() (string, error) {
	text, err := e.Text(successToast)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// CloseToast dismisses the toast.
func (e *EntityEdit) CloseToast() error {
	if err := e.Page.Locator(successToast).Locator(closeToastButton).First().Click(); err != nil {
		return errs.Wrap(errs.Unavailable, "close toast", err)
	}
	return nil
}
