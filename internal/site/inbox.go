package site

import (
	"context"
	"fmt"

	"github.com/viahogar/viahogar-core/internal/contact"
)

// SubmitContact stores a visitor's contact request for a property. It does
// not need admin mode.
func (a *App) SubmitContact(ctx context.Context, propertyID string, form contact.Form) (contact.Submission, error) {
	form, err := contact.ValidateForm(form)
	if err != nil {
		return contact.Submission{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.loaded {
		return contact.Submission{}, ErrNotLoaded
	}
	i := a.propertyIndex(propertyID)
	if i < 0 {
		return contact.Submission{}, fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyID)
	}

	sub := contact.New(form, propertyID, a.properties[i].Name, a.now())
	a.submissions = append(a.submissions, sub)
	a.logger.Info("contact submission received", "submission_id", sub.ID, "property_id", propertyID)

	saveErr := a.saveSubmissions(ctx)
	a.notifySubmission(ctx, sub)
	return sub, saveErr
}

// Submissions lists the contact requests for a property, oldest first.
func (a *App) Submissions(propertyID string) ([]contact.Submission, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireEditor(); err != nil {
		return nil, err
	}
	return contact.ForProperty(a.submissions, propertyID), nil
}
