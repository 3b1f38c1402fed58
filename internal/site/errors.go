package site

import "errors"

var (
	// ErrStorageQuotaExceeded is returned when a save did not fit in the
	// Document Store. The in-memory state still holds the change.
	ErrStorageQuotaExceeded = errors.New("site: storage quota exceeded")

	// ErrSaveFailed is returned when a save failed for any other reason.
	ErrSaveFailed = errors.New("site: save failed")

	// ErrAdminRequired is returned by editing operations outside admin mode.
	ErrAdminRequired = errors.New("site: admin mode required")

	// ErrInvalidCredentials is returned by Login for a wrong pair.
	ErrInvalidCredentials = errors.New("site: invalid credentials")

	// ErrPropertyNotFound is returned when no property has the given id.
	ErrPropertyNotFound = errors.New("site: property not found")

	// ErrSectionNotFound is returned when a property has no section with the given id.
	ErrSectionNotFound = errors.New("site: section not found")

	// ErrElementNotFound is returned when an element reference does not resolve.
	ErrElementNotFound = errors.New("site: element not found")

	// ErrNoSelection is returned when an operation needs a selected element.
	ErrNoSelection = errors.New("site: no element selected")

	// ErrNoPendingDelete is returned by ConfirmDelete when nothing awaits confirmation.
	ErrNoPendingDelete = errors.New("site: no deletion pending")

	// ErrNotLoaded is returned by operations called before Load.
	ErrNotLoaded = errors.New("site: state not loaded")
)
