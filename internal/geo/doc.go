// Package geo holds the two external lookups used when creating a property:
// address geocoding and nearby-place suggestions.
//
// Both are narrow HTTP clients. The geocoder speaks the Nominatim search
// API; the places generator posts coordinates as JSON to a configured
// endpoint and expects a list of categorised descriptions back. Geocoding
// failure aborts property creation, while places failure is tolerated by
// the caller.
package geo
