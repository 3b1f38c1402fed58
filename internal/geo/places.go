package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Place is one suggestion from the places generator.
type Place struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

// PlacesGenerator suggests points of interest near a position.
type PlacesGenerator interface {
	NearbyPlaces(ctx context.Context, lat, lng float64) ([]Place, error)
}

// HTTPPlaces implements PlacesGenerator by posting the position as JSON.
//
// Request:  {"lat": 40.4, "lng": -3.7}
// Response: {"places": [{"category": "park", "description": "Parque del Retiro a 400 m"}]}
type HTTPPlaces struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPPlaces creates a generator for endpoint. apiKey, when set, is sent
// as a bearer token.
func NewHTTPPlaces(endpoint, apiKey string, timeout time.Duration) *HTTPPlaces {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPPlaces{
		url:        strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type placesRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type placesResponse struct {
	Places []Place `json:"places"`
}

// NearbyPlaces asks the endpoint for places around lat, lng.
func (p *HTTPPlaces) NearbyPlaces(ctx context.Context, lat, lng float64) ([]Place, error) {
	payload, err := json.Marshal(placesRequest{Lat: lat, Lng: lng})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %w", ErrPlaces, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrPlaces, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlaces, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrPlaces, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrPlaces, resp.StatusCode)
	}

	var out placesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrPlaces, err)
	}
	return out.Places, nil
}

// Disabled is a PlacesGenerator that always fails with ErrPlacesDisabled.
type Disabled struct{}

// NearbyPlaces returns ErrPlacesDisabled.
func (Disabled) NearbyPlaces(context.Context, float64, float64) ([]Place, error) {
	return nil, ErrPlacesDisabled
}
