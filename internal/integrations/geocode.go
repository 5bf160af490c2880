package integrations

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/spinshelf/backend/internal/models"
)

const nominatimBaseURL = "https://nominatim.openstreetmap.org"

// GeocodeClient resolves street addresses into coordinates through the
// Nominatim API.
type GeocodeClient struct {
	http *resty.Client
}

// NewGeocodeClient creates a geocoding client.
func NewGeocodeClient() *GeocodeClient {
	client := resty.New().
		SetBaseURL(nominatimBaseURL).
		SetHeader("User-Agent", "SpinShelf/1.0")
	return &GeocodeClient{http: client}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves an address to a lat/lng pair. Unresolvable addresses
// return ErrNotFound.
func (c *GeocodeClient) Geocode(ctx context.Context, address string) (lat, lng float64, err error) {
	var results []nominatimResult

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", address).
		SetQueryParam("format", "json").
		SetQueryParam("limit", "1").
		SetResult(&results).
		Get("/search")
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %q: %w", address, err)
	}
	if resp.IsError() {
		return 0, 0, fmt.Errorf("geocode %q: status %d", address, resp.StatusCode())
	}
	if len(results) == 0 {
		return 0, 0, models.ErrNotFound
	}

	lat, err = strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %q: bad latitude: %w", address, err)
	}
	lng, err = strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %q: bad longitude: %w", address, err)
	}
	return lat, lng, nil
}
