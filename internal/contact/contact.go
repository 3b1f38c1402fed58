// Package contact models the contact requests visitors send about a property.
//
// Submissions are append-only: the core creates them and lists them by
// property, but never edits or deletes one.
package contact

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidForm is returned when a contact form fails validation.
var ErrInvalidForm = errors.New("contact: invalid form")

// Field limits.
const (
	MaxNameLength    = 200
	MaxEmailLength   = 254
	MaxPhoneLength   = 40
	MaxMessageLength = 5000
)

// timestampLayout matches JavaScript's Date.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Form is what the visitor fills in.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

// Submission is a stored contact request.
type Submission struct {
	ID           string `json:"id"`
	PropertyID   string `json:"propertyId"`
	PropertyName string `json:"propertyName"`
	SubmittedAt  string `json:"submittedAt"`
	Form
}

// ValidateForm trims the form and checks required fields and limits.
func ValidateForm(f Form) (Form, error) {
	f = Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Phone:   strings.TrimSpace(f.Phone),
		Message: strings.TrimSpace(f.Message),
	}

	var problems []string
	switch {
	case f.Name == "":
		problems = append(problems, "name is required")
	case len(f.Name) > MaxNameLength:
		problems = append(problems, fmt.Sprintf("name exceeds %d characters", MaxNameLength))
	}

	switch {
	case f.Email == "":
		problems = append(problems, "email is required")
	case len(f.Email) > MaxEmailLength:
		problems = append(problems, fmt.Sprintf("email exceeds %d characters", MaxEmailLength))
	default:
		if _, err := mail.ParseAddress(f.Email); err != nil {
			problems = append(problems, "email is not a valid address")
		}
	}

	if len(f.Phone) > MaxPhoneLength {
		problems = append(problems, fmt.Sprintf("phone exceeds %d characters", MaxPhoneLength))
	}

	switch {
	case f.Message == "":
		problems = append(problems, "message is required")
	case len(f.Message) > MaxMessageLength:
		problems = append(problems, fmt.Sprintf("message exceeds %d characters", MaxMessageLength))
	}

	if len(problems) > 0 {
		return f, fmt.Errorf("%w: %s", ErrInvalidForm, strings.Join(problems, "; "))
	}
	return f, nil
}

// New builds a submission for the given property at time now.
// The form should already have passed ValidateForm.
func New(f Form, propertyID, propertyName string, now time.Time) Submission {
	return Submission{
		ID:           "sub-" + uuid.NewString(),
		PropertyID:   propertyID,
		PropertyName: propertyName,
		SubmittedAt:  now.UTC().Format(timestampLayout),
		Form:         f,
	}
}

// ForProperty returns the submissions about propertyID in submission order.
func ForProperty(all []Submission, propertyID string) []Submission {
	out := make([]Submission, 0)
	for _, s := range all {
		if s.PropertyID == propertyID {
			out = append(out, s)
		}
	}
	return out
}

// DecodeList parses a stored submission list.
func DecodeList(data []byte) ([]Submission, error) {
	var subs []Submission
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("decoding submissions: %w", err)
	}
	if subs == nil {
		subs = []Submission{}
	}
	return subs, nil
}

// EncodeList serialises a submission list for storage.
func EncodeList(subs []Submission) (string, error) {
	if subs == nil {
		subs = []Submission{}
	}
	data, err := json.Marshal(subs)
	if err != nil {
		return "", fmt.Errorf("encoding submissions: %w", err)
	}
	return string(data), nil
}
