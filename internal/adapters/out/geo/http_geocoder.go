// Package geo resolves delivery addresses to coordinates through an external
// geocoding service.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

const defaultTimeout = 5 * time.Second

type geocodeResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// HTTPGeocoder implements ports.Geocoder against a JSON geocoding endpoint.
// The service is expected to answer GET <base>?address=... with {"lat": .., "lon": ..}.
type HTTPGeocoder struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGeocoder creates a geocoder for the given base URL.
func NewHTTPGeocoder(baseURL string) *HTTPGeocoder {
	return &HTTPGeocoder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// Geocode resolves an address to a geographic point.
func (g *HTTPGeocoder) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	endpoint := fmt.Sprintf("%s?address=%s", g.baseURL, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return kernel.GeoPoint{}, fmt.Errorf("geocode service returned status %d", resp.StatusCode)
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	return kernel.NewGeoPoint(payload.Lat, payload.Lon)
}
