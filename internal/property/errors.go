package property

import "errors"

var (
	// ErrUnknownSectionType is returned when a section type is not one of the seven kinds.
	ErrUnknownSectionType = errors.New("property: unknown section type")

	// ErrInvalidProperty is returned when a decoded property fails validation.
	ErrInvalidProperty = errors.New("property: invalid")
)
