package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/viahogar/viahogar-core/internal/property"
)

const (
	defaultTimeout    = 10 * time.Second
	maxResponseBytes  = 1 << 20
	defaultUserAgent  = "viahogar-core"
	nominatimSearchV1 = "json"
)

// Geocoder resolves a free-form address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (property.Coordinates, error)
}

// NominatimGeocoder implements Geocoder against a Nominatim search endpoint.
type NominatimGeocoder struct {
	url        string
	userAgent  string
	httpClient *http.Client
}

// NewNominatimGeocoder creates a geocoder for the search endpoint at searchURL.
// A zero timeout uses the default.
func NewNominatimGeocoder(searchURL, userAgent string, timeout time.Duration) *NominatimGeocoder {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &NominatimGeocoder{
		url:        strings.TrimRight(searchURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the coordinates of the best match for address.
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (property.Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return property.Coordinates{}, fmt.Errorf("%w: empty address", ErrLookup)
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", nominatimSearchV1)
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url+"?"+q.Encode(), nil)
	if err != nil {
		return property.Coordinates{}, fmt.Errorf("%w: building request: %w", ErrLookup, err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return property.Coordinates{}, fmt.Errorf("%w: %w", ErrLookup, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return property.Coordinates{}, fmt.Errorf("%w: reading response: %w", ErrLookup, err)
	}
	if resp.StatusCode != http.StatusOK {
		return property.Coordinates{}, fmt.Errorf("%w: status %d", ErrLookup, resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return property.Coordinates{}, fmt.Errorf("%w: decoding response: %w", ErrLookup, err)
	}
	if len(results) == 0 {
		return property.Coordinates{}, fmt.Errorf("%w: no results for %q", ErrLookup, address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return property.Coordinates{}, fmt.Errorf("%w: bad latitude %q", ErrLookup, results[0].Lat)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return property.Coordinates{}, fmt.Errorf("%w: bad longitude %q", ErrLookup, results[0].Lon)
	}

	return property.Coordinates{Lat: lat, Lng: lng}, nil
}
