package geo

import "errors"

var (
	// ErrLookup is returned when an address cannot be geocoded.
	ErrLookup = errors.New("geo: address lookup failed")

	// ErrPlaces is returned when the places endpoint fails.
	ErrPlaces = errors.New("geo: nearby places lookup failed")

	// ErrPlacesDisabled is returned by the Disabled generator.
	ErrPlacesDisabled = errors.New("geo: nearby places disabled")
)
